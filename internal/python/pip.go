package python

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/hotelUpz/venvup/internal/model"
)

// InstallRequirements installs the dependencies listed in the requirements
// file into the virtual environment by running
// `<venv-python> -m pip install -r <requirements>`.
//
// pip's output streams directly to the caller's stdout/stderr rather than
// being captured: installs can take minutes and download megabytes, and
// the original bootstrap scripts showed this output live. Capturing it
// would make the tool look hung.
//
// Returns a model.CLIError with ExitInstallFailed on failure. Per the
// fail-fast contract, callers must not launch the entry point after an
// install failure.
func InstallRequirements(ctx context.Context, venv *Venv, requirementsPath string) error {
	if _, err := os.Stat(requirementsPath); err != nil {
		return model.WrapCLIError(model.ExitInstallFailed,
			fmt.Sprintf("requirements file not found: %s", requirementsPath), err)
	}

	return runPipStreaming(ctx, venv, "install", "-r", requirementsPath)
}

// UpgradePip upgrades pip itself inside the virtual environment. Some
// requirements files need a newer pip than the one venv seeds (e.g., for
// pyproject-only source distributions), so setup exposes this as a flag.
func UpgradePip(ctx context.Context, venv *Venv) error {
	return runPipStreaming(ctx, venv, "install", "--upgrade", "pip")
}

// runPipStreaming executes `<venv-python> -m pip <args>` with stdout and
// stderr passed through to the user.
func runPipStreaming(ctx context.Context, venv *Venv, args ...string) error {
	fullArgs := append([]string{"-m", "pip"}, args...)

	// #nosec G204 — the interpreter path is derived from the venv layout
	cmd := exec.CommandContext(ctx, venv.PythonPath(), fullArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return model.WrapCLIError(model.ExitInstallFailed, "pip install failed", err)
	}
	return nil
}
