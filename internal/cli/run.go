// Package cli — run.go implements the "venvup run" command.
//
// The run command is the primary user-facing operation: the four-step
// sequence the original run.sh / run.bat scripts performed, as a single
// cross-platform binary.
//
// Orchestration steps:
//  1. Ensure the virtual environment exists (create only when missing)
//  2. Install dependencies from the requirements file (skipped when the
//     recorded hash matches, forced with --reinstall)
//  3. Launch the entry point with stdio passthrough and signal forwarding
//  4. Print the completion message
//
// The process exits with the program's own exit status. With --container,
// step 3 (and the install) happen inside a Docker container instead of a
// local venv.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hotelUpz/venvup/internal/docker"
	"github.com/hotelUpz/venvup/internal/launch"
	"github.com/hotelUpz/venvup/internal/model"
	"github.com/hotelUpz/venvup/internal/project"
	"github.com/hotelUpz/venvup/internal/python"
)

// runFlags holds the flag values for the run command.
type runFlags struct {
	entry     string // --entry: override the manifest entry point
	reinstall bool   // --reinstall: force pip install even when fresh
	container bool   // --container: use the Docker backend
	image     string // --image: override the container image
}

// NewRunCommand creates the "run" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [-- args...]",
		Short: "Provision the environment and launch the program",
		Long: `Provision the project's virtual environment if needed, install
dependencies, and launch the entry point.

The command exits with the program's own exit status. Setup failures
abort before the program is launched (fail-fast) and use venvup's exit
code taxonomy instead.

Arguments after "--" are passed to the program.

Examples:
  venvup run
  venvup run --reinstall
  venvup run --entry worker.py -- --queue high
  venvup run --container --image python:3.11-slim`,

		// Everything after "--" belongs to the program, so arbitrary
		// positional arguments are accepted.
		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.entry, "entry", "", "Entry point to launch (default: manifest or main.py)")
	cmd.Flags().BoolVar(&flags.reinstall, "reinstall", false, "Reinstall dependencies even when unchanged")
	cmd.Flags().BoolVar(&flags.container, "container", false, "Run inside a Docker container instead of a venv")
	cmd.Flags().StringVar(&flags.image, "image", "", "Container image (implies --container)")

	return cmd
}

// runRun is the main orchestration function for the run command.
func runRun(ctx context.Context, flags *runFlags, programArgs []string) error {
	proj, err := project.Load(projectDir)
	if err != nil {
		return err
	}
	if flags.entry != "" {
		proj.Entry = flags.entry
	}
	if flags.image != "" {
		proj.ContainerImage = flags.image
		flags.container = true
	}
	VerboseLog("Project: %s (root: %s)", proj.Name, proj.Root)

	if flags.container {
		return runInContainer(ctx, proj, programArgs)
	}
	return runInVenv(ctx, proj, flags, programArgs)
}

// runInVenv performs the four-step sequence with the local venv backend.
func runInVenv(ctx context.Context, proj *model.Project, flags *runFlags, programArgs []string) error {
	venv := python.NewVenv(project.VenvPath(proj))

	// Step 1: Ensure the virtual environment exists. Creation is skipped
	// when pyvenv.cfg is already present, which makes repeat runs
	// idempotent with respect to environment creation.
	var interp *python.Interpreter
	if venv.Exists() {
		stepf(1, 4, "Virtual environment already exists (%s)", proj.VenvDir)
	} else {
		found, err := python.FindInterpreter(ctx, proj.PythonCandidates)
		if err != nil {
			return err
		}
		interp = found
		VerboseLog("Using %s", interp)

		stepf(1, 4, "Creating virtual environment (%s)...", proj.VenvDir)
		if err := venv.Create(ctx, interp); err != nil {
			return err
		}
	}

	// Step 2: Install dependencies, unless the recorded requirements hash
	// shows nothing changed since the last install.
	if err := installIfNeeded(ctx, proj, venv, interp, installOpts{
		step:  2,
		total: 4,
		force: flags.reinstall,
	}); err != nil {
		return err
	}

	// Step 3: Launch the program. From here on, the program owns stdio;
	// its exit status becomes ours.
	entryPath := project.EntryPath(proj)
	stepf(3, 4, "Launching %s...", launch.EntryDisplayName(proj.Root, entryPath))

	if err := launch.Run(ctx, venv, launch.Options{
		ProjectRoot: proj.Root,
		EntryPath:   entryPath,
		Args:        append(append([]string{}, proj.Args...), programArgs...),
		Env:         proj.Env,
	}); err != nil {
		return err
	}

	// Step 4: Completion message, printed only after a zero exit — the
	// same visibility the fail-fast shell script gave it.
	stepf(4, 4, "Done.")
	return nil
}

// runInContainer delegates the whole sequence to the Docker backend.
func runInContainer(ctx context.Context, proj *model.Project, programArgs []string) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	VerboseLog("Connected to Docker daemon, image: %s", proj.ContainerImage)

	stepf(1, 2, "Running %s in %s...", proj.Entry, proj.ContainerImage)
	if err := docker.RunProgram(ctx, cli, docker.RunSpec{
		Project: proj,
		Args:    programArgs,
	}); err != nil {
		return err
	}

	stepf(2, 2, "Done.")
	return nil
}

// installOpts parameterizes installIfNeeded across the run and setup
// commands, whose step numbering differs (2/4 vs 2/2).
type installOpts struct {
	step       int
	total      int
	force      bool
	upgradePip bool
}

// installIfNeeded runs the dependency install step when the environment
// is stale or a reinstall is forced, and records the new install state
// afterwards.
//
// The interp parameter may be nil when the venv already existed; the
// recorded python version then falls back to the previous state's.
func installIfNeeded(ctx context.Context, proj *model.Project, venv *python.Venv, interp *python.Interpreter, opts installOpts) error {
	requirementsPath := project.RequirementsPath(proj)

	status, prevState, err := python.Freshness(venv, requirementsPath)
	if err != nil {
		return err
	}

	if !opts.force && status == model.StatusReady {
		stepf(opts.step, opts.total, "Dependencies up to date (%s unchanged)", proj.Requirements)
		return nil
	}

	if opts.upgradePip {
		VerboseLog("Upgrading pip...")
		if err := python.UpgradePip(ctx, venv); err != nil {
			return err
		}
	}

	stepf(opts.step, opts.total, "Installing dependencies from %s...", proj.Requirements)
	if err := python.InstallRequirements(ctx, venv, requirementsPath); err != nil {
		return err
	}

	hash, err := python.HashRequirements(requirementsPath)
	if err != nil {
		// The install succeeded; a hash failure only costs the freshness
		// shortcut on the next run.
		VerboseLog("Could not hash requirements: %v", err)
		return nil
	}

	version := ""
	if interp != nil {
		version = interp.Version
	} else if prevState != nil {
		version = prevState.PythonVersion
	}

	if err := python.SaveState(venv, &python.InstallState{
		PythonVersion:    version,
		RequirementsHash: hash,
		InstalledAt:      time.Now().UTC(),
	}); err != nil {
		VerboseLog("Could not record install state: %v", err)
	}
	return nil
}
