// Package cli — status.go implements the "venvup status" command.
//
// Status reports the provisioning state of the current project: whether
// the virtual environment exists, which interpreter it was built with,
// whether installed dependencies match the current requirements file, and
// any Docker containers the container backend has running. Output is a
// human-readable summary or JSON with --json.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hotelUpz/venvup/internal/docker"
	"github.com/hotelUpz/venvup/internal/model"
	"github.com/hotelUpz/venvup/internal/project"
	"github.com/hotelUpz/venvup/internal/python"
)

// NewStatusCommand creates the "status" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the project's environment status",
		Long: `Show the provisioning state of the project's virtual environment and
any managed containers.

The environment is reported as one of:
  missing  no virtual environment exists yet
  stale    the requirements file changed since the last install
  ready    installed dependencies match the requirements file

Examples:
  venvup status
  venvup status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}

	return cmd
}

// runStatus is the main logic function for the status command.
func runStatus(ctx context.Context) error {
	proj, err := project.Load(projectDir)
	if err != nil {
		return err
	}

	venv := python.NewVenv(project.VenvPath(proj))

	status, state, err := python.Freshness(venv, project.RequirementsPath(proj))
	if err != nil {
		return err
	}

	info := &model.EnvInfo{
		ProjectName: proj.Name,
		VenvPath:    venv.Dir,
		Status:      status,
	}
	if state != nil {
		info.PythonVersion = state.PythonVersion
		info.InstalledAt = state.InstalledAt
	}

	// Container discovery is best-effort: a host without Docker is a
	// perfectly healthy venv-backend setup, so daemon errors degrade to
	// a verbose note instead of failing the command.
	if containers, err := listProjectContainers(ctx, proj.Name); err != nil {
		VerboseLog("Skipping container discovery: %v", err)
	} else {
		info.Containers = containers
	}

	printStatus(info)
	return nil
}

// listProjectContainers returns the managed containers belonging to the
// named project.
func listProjectContainers(ctx context.Context, projectName string) ([]model.ContainerInfo, error) {
	cli, err := docker.NewClient()
	if err != nil {
		return nil, err
	}
	defer func() { _ = cli.Close() }()

	containers, err := docker.ListManagedContainers(ctx, cli)
	if err != nil {
		return nil, err
	}
	return docker.FilterByProject(containers, projectName), nil
}

// printStatus outputs the status in text or JSON format.
func printStatus(info *model.EnvInfo) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Project: %s\n", info.ProjectName)
	fmt.Printf("  Environment: %s\n", summarizeEnv(info))
	fmt.Printf("  Path:        %s\n", info.VenvPath)

	if len(info.Containers) > 0 {
		fmt.Println()
		fmt.Println("  Containers:")
		for _, c := range info.Containers {
			fmt.Printf("    %-12.12s %-10s %s\n", c.ContainerID, c.Status, c.ContainerName)
		}
	}
}

// summarizeEnv renders the one-line environment summary for text output,
// folding in the interpreter version and install time when known.
func summarizeEnv(info *model.EnvInfo) string {
	switch info.Status {
	case model.StatusMissing:
		return "missing (run `venvup setup` to create it)"
	case model.StatusStale:
		if info.PythonVersion != "" {
			return fmt.Sprintf("stale — requirements changed since last install (Python %s)", info.PythonVersion)
		}
		return "stale — no recorded install"
	case model.StatusReady:
		summary := "ready"
		if info.PythonVersion != "" {
			summary = fmt.Sprintf("ready (Python %s)", info.PythonVersion)
		}
		if !info.InstalledAt.IsZero() {
			summary = fmt.Sprintf("%s, installed %s", summary, info.InstalledAt.Format("2006-01-02 15:04 MST"))
		}
		return summary
	default:
		return info.Status.String()
	}
}
