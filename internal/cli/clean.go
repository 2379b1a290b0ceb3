// Package cli — clean.go implements the "venvup clean" command.
//
// Clean removes the project's virtual environment directory, returning
// the project to its pre-bootstrap state (the next run recreates the
// environment from scratch). With --containers, leftover program
// containers from the Docker backend are force-removed as well.
//
// By default the command prompts for confirmation; --force skips it.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hotelUpz/venvup/internal/docker"
	"github.com/hotelUpz/venvup/internal/model"
	"github.com/hotelUpz/venvup/internal/project"
	"github.com/hotelUpz/venvup/internal/python"
)

// cleanFlags holds the flag values for the clean command.
type cleanFlags struct {
	// force skips the interactive confirmation prompt when true.
	force bool

	// containers also removes managed Docker containers when true.
	containers bool
}

// NewCleanCommand creates the "clean" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCleanCommand() *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the project's virtual environment",
		Long: `Remove the project's virtual environment directory. The next run or
setup recreates it from scratch.

With --containers, Docker containers started by the container backend
for this project are force-removed as well.

Unless --force is specified, the command prompts for confirmation.

Examples:
  venvup clean
  venvup clean --force
  venvup clean --force --containers`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove without confirmation")
	cmd.Flags().BoolVar(&flags.containers, "containers", false, "Also remove managed Docker containers")

	return cmd
}

// runClean is the main logic function for the clean command.
func runClean(ctx context.Context, flags *cleanFlags) error {
	proj, err := project.Load(projectDir)
	if err != nil {
		return err
	}

	venv := python.NewVenv(project.VenvPath(proj))

	if !venv.Exists() && !flags.containers {
		fmt.Printf("Nothing to clean: no virtual environment at %s\n", venv.Dir)
		return nil
	}

	if !flags.force {
		if !confirm(cleanPrompt(venv.Exists(), venv.Dir, flags.containers)) {
			return model.NewCLIError(model.ExitUserCancelled, "cancelled")
		}
	}

	if venv.Exists() {
		VerboseLog("Removing %s", venv.Dir)
		if err := venv.Remove(); err != nil {
			return err
		}
		fmt.Printf("Removed virtual environment %s\n", venv.Dir)
	}

	if flags.containers {
		if err := removeProjectContainers(ctx, proj.Name); err != nil {
			return err
		}
	}

	return nil
}

// cleanPrompt phrases the confirmation question around what will actually
// be removed: the venv, the managed containers, or both. With --containers
// and no venv on disk, naming the venv in the prompt would be misleading.
func cleanPrompt(venvExists bool, venvDir string, containers bool) string {
	switch {
	case venvExists && containers:
		return fmt.Sprintf("Remove virtual environment at %s and managed Docker containers?", venvDir)
	case venvExists:
		return fmt.Sprintf("Remove virtual environment at %s?", venvDir)
	default:
		return "Remove managed Docker containers for this project?"
	}
}

// removeProjectContainers force-removes all managed containers belonging
// to the named project.
func removeProjectContainers(ctx context.Context, projectName string) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	containers, err := docker.ListManagedContainers(ctx, cli)
	if err != nil {
		return err
	}

	matched := docker.FilterByProject(containers, projectName)
	for _, c := range matched {
		VerboseLog("Removing container %s (%s)", c.ContainerName, c.ContainerID)
		if err := docker.RemoveContainer(ctx, cli, c.ContainerID); err != nil {
			return err
		}
		fmt.Printf("Removed container %s\n", c.ContainerName)
	}

	if len(matched) == 0 {
		VerboseLog("No managed containers for project %q", projectName)
	}
	return nil
}

// confirm prompts the user with a yes/no question on stderr and reads the
// answer from stdin. Only an explicit "y"/"yes" counts as confirmation.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
