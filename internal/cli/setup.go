// Package cli — setup.go implements the "venvup setup" command.
//
// Setup performs the provisioning half of the run sequence — environment
// creation and dependency installation — without launching the program.
// It is what CI jobs and first-time checkouts use to warm a project up.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hotelUpz/venvup/internal/project"
	"github.com/hotelUpz/venvup/internal/python"
)

// setupFlags holds the flag values for the setup command.
type setupFlags struct {
	reinstall  bool // --reinstall: force pip install even when fresh
	upgradePip bool // --upgrade-pip: upgrade pip before installing
}

// NewSetupCommand creates the "setup" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewSetupCommand() *cobra.Command {
	flags := &setupFlags{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the environment without launching the program",
		Long: `Create the project's virtual environment if it is missing and install
dependencies from the requirements file. The program is not launched.

Running setup twice is idempotent: the environment is created once and
dependencies are reinstalled only when the requirements file changed.

Examples:
  venvup setup
  venvup setup --reinstall
  venvup setup --upgrade-pip`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.reinstall, "reinstall", false, "Reinstall dependencies even when unchanged")
	cmd.Flags().BoolVar(&flags.upgradePip, "upgrade-pip", false, "Upgrade pip before installing dependencies")

	return cmd
}

// runSetup is the main logic function for the setup command.
func runSetup(ctx context.Context, flags *setupFlags) error {
	proj, err := project.Load(projectDir)
	if err != nil {
		return err
	}
	VerboseLog("Project: %s (root: %s)", proj.Name, proj.Root)

	venv := python.NewVenv(project.VenvPath(proj))

	var interp *python.Interpreter
	if venv.Exists() {
		stepf(1, 2, "Virtual environment already exists (%s)", proj.VenvDir)
	} else {
		found, err := python.FindInterpreter(ctx, proj.PythonCandidates)
		if err != nil {
			return err
		}
		interp = found
		VerboseLog("Using %s", interp)

		stepf(1, 2, "Creating virtual environment (%s)...", proj.VenvDir)
		if err := venv.Create(ctx, interp); err != nil {
			return err
		}
	}

	return installIfNeeded(ctx, proj, venv, interp, installOpts{
		step:       2,
		total:      2,
		force:      flags.reinstall,
		upgradePip: flags.upgradePip,
	})
}
