package python

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hotelUpz/venvup/internal/model"
)

// Venv represents a project's virtual-environment directory. The struct
// only carries the path — all state lives on disk, created and owned by
// the venv module itself.
type Venv struct {
	// Dir is the absolute path to the virtual-environment directory.
	Dir string
}

// NewVenv creates a Venv handle for the given directory. No filesystem
// access happens here; use Exists to check for an actual environment.
func NewVenv(dir string) *Venv {
	return &Venv{Dir: dir}
}

// Exists reports whether a virtual environment is present.
//
// The marker is pyvenv.cfg, which `python -m venv` writes last in the
// directory root. Checking for the file rather than the directory means
// a half-created or unrelated directory does not count as an environment,
// which keeps repeat runs idempotent (second run skips creation) without
// skipping over a broken one.
func (v *Venv) Exists() bool {
	info, err := os.Stat(filepath.Join(v.Dir, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}

// BinDir returns the directory containing the environment's executables:
// "Scripts" on Windows, "bin" everywhere else. This mirrors the layout
// difference the original run.bat / run.sh pair papered over.
func (v *Venv) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Dir, "Scripts")
	}
	return filepath.Join(v.Dir, "bin")
}

// PythonPath returns the path to the environment's own interpreter.
// Using this interpreter for pip and for launching makes sourcing an
// activate script unnecessary.
func (v *Venv) PythonPath() string {
	name := "python"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(v.BinDir(), name)
}

// Create builds the virtual environment by running `<python> -m venv <dir>`
// with the given host interpreter.
//
// Returns a model.CLIError with ExitVenvCreateFailed on failure, including
// the subprocess stderr for diagnostics.
func (v *Venv) Create(ctx context.Context, interp *Interpreter) error {
	if _, err := runPython(ctx, interp.Path, "-m", "venv", v.Dir); err != nil {
		return model.WrapCLIError(model.ExitVenvCreateFailed,
			fmt.Sprintf("failed to create virtual environment at %s", v.Dir), err)
	}
	return nil
}

// Remove deletes the virtual environment directory and everything in it.
// Removing a non-existent environment is not an error, so clean stays
// idempotent.
func (v *Venv) Remove() error {
	if err := os.RemoveAll(v.Dir); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to remove virtual environment at %s", v.Dir), err)
	}
	return nil
}

// runPython executes a python command with the given arguments, capturing
// stdout and stderr separately. On success it returns the stdout output.
// On failure it returns an error that includes the trimmed stderr, since
// python and pip write their diagnostics there.
func runPython(ctx context.Context, pythonPath string, args ...string) (string, error) {
	// #nosec G204 — pythonPath is resolved internally, not raw user input
	cmd := exec.CommandContext(ctx, pythonPath, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("python %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", fmt.Errorf("%s: %w", message, err)
	}

	return stdout.String(), nil
}
