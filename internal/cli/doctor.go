// Package cli — doctor.go implements the "venvup doctor" command.
//
// Doctor diagnoses the host for everything a run needs: a usable Python
// interpreter, the project's requirements file and entry point, and —
// for the container backend — a reachable Docker daemon. Each check is
// reported individually so a user can see at a glance what is missing.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hotelUpz/venvup/internal/docker"
	"github.com/hotelUpz/venvup/internal/model"
	"github.com/hotelUpz/venvup/internal/project"
	"github.com/hotelUpz/venvup/internal/python"
)

// checkResult is the outcome of a single doctor check.
type checkResult struct {
	// Name identifies the check (e.g., "python", "docker").
	Name string `json:"name"`

	// OK reports whether the check passed.
	OK bool `json:"ok"`

	// Detail is a human-readable explanation of the outcome.
	Detail string `json:"detail"`

	// Required marks checks whose failure blocks the default (venv)
	// backend. Docker is optional: only the container backend needs it.
	Required bool `json:"required"`
}

// NewDoctorCommand creates the "doctor" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the host and project setup",
		Long: `Check everything a run needs: a Python 3 interpreter on PATH, the
project's requirements file and entry point, and Docker availability for
the container backend.

The command exits non-zero when a required check fails, so it can gate
CI provisioning steps.

Examples:
  venvup doctor
  venvup doctor --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context())
		},
	}

	return cmd
}

// runDoctor executes all checks and renders the report.
func runDoctor(ctx context.Context) error {
	proj, err := project.Load(projectDir)
	if err != nil {
		return err
	}

	checks := []checkResult{
		checkPython(ctx, proj),
		checkFile("requirements", project.RequirementsPath(proj), true),
		checkFile("entry point", project.EntryPath(proj), true),
		checkVenv(proj),
		checkDocker(ctx),
	}

	printDoctorReport(checks)

	for _, c := range checks {
		if c.Required && !c.OK {
			return model.NewCLIError(model.ExitGeneralError, "required checks failed")
		}
	}
	return nil
}

// checkPython probes the configured interpreter candidates.
func checkPython(ctx context.Context, proj *model.Project) checkResult {
	interp, err := python.FindInterpreter(ctx, proj.PythonCandidates)
	if err != nil {
		return checkResult{Name: "python", OK: false, Detail: err.Error(), Required: true}
	}
	return checkResult{Name: "python", OK: true, Detail: interp.String(), Required: true}
}

// checkFile verifies a project file exists.
func checkFile(name, path string, required bool) checkResult {
	if _, err := os.Stat(path); err != nil {
		return checkResult{Name: name, OK: false, Detail: fmt.Sprintf("not found: %s", path), Required: required}
	}
	return checkResult{Name: name, OK: true, Detail: path, Required: required}
}

// checkVenv reports the environment's provisioning state. Informational
// only — a missing venv is exactly what run/setup exist to fix.
func checkVenv(proj *model.Project) checkResult {
	venv := python.NewVenv(project.VenvPath(proj))
	status, _, err := python.Freshness(venv, project.RequirementsPath(proj))
	if err != nil {
		return checkResult{Name: "venv", OK: false, Detail: err.Error()}
	}

	ok := status == model.StatusReady
	return checkResult{Name: "venv", OK: ok, Detail: status.String()}
}

// checkDocker probes the Docker daemon. Optional: only the container
// backend needs it.
func checkDocker(ctx context.Context) checkResult {
	cli, err := docker.NewClient()
	if err != nil {
		return checkResult{Name: "docker", OK: false, Detail: err.Error()}
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return checkResult{Name: "docker", OK: false, Detail: err.Error()}
	}
	return checkResult{Name: "docker", OK: true, Detail: "daemon reachable"}
}

// printDoctorReport renders the checks in text or JSON format.
func printDoctorReport(checks []checkResult) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(checks, "", "  ")
		fmt.Println(string(data))
		return
	}

	for _, c := range checks {
		mark := "ok"
		if !c.OK {
			mark = "FAIL"
			if !c.Required {
				mark = "skip"
			}
		}
		fmt.Printf("  %-4s %-14s %s\n", mark, c.Name, c.Detail)
	}
}
