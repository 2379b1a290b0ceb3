package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hotelUpz/venvup/internal/model"
	"github.com/hotelUpz/venvup/internal/python"
)

// Options describes a single program launch.
type Options struct {
	// ProjectRoot is the working directory for the program.
	ProjectRoot string

	// EntryPath is the absolute path to the Python entry point.
	EntryPath string

	// Args are the arguments passed after the entry point.
	Args []string

	// Env holds extra environment variables, applied on top of the
	// current process environment and the synthesized activation.
	Env map[string]string
}

// Run launches the entry point with the virtual environment's interpreter
// and blocks until the program exits.
//
// Returns nil when the program exits with status zero. A non-zero exit
// becomes a *model.ProgramExitError carrying the program's own status —
// not a CLIError, because a failing program is not a launcher failure and
// must not produce an error banner. Launch problems (entry point missing,
// interpreter unrunnable) use the CLIError taxonomy as usual.
func Run(ctx context.Context, venv *python.Venv, opts Options) error {
	if _, err := os.Stat(opts.EntryPath); err != nil {
		return model.WrapCLIError(model.ExitEntryNotFound,
			fmt.Sprintf("entry point not found: %s", opts.EntryPath), err)
	}

	args := append([]string{opts.EntryPath}, opts.Args...)

	// exec.Command rather than CommandContext: cancellation is handled by
	// the signal forwarder below, which gives the child a graceful signal
	// instead of CommandContext's unconditional Kill.
	// #nosec G204 — the interpreter path is derived from the venv layout
	cmd := exec.Command(venv.PythonPath(), args...)
	cmd.Dir = opts.ProjectRoot
	cmd.Env = ActivatedEnv(os.Environ(), venv, opts.Env)

	// Full stdio passthrough. The program owns the terminal while it runs;
	// venvup's own output is finished before this point.
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to start program", err)
	}

	// Forward interrupt/termination signals to the child so Ctrl-C reaches
	// the program first and it can run its own shutdown handlers. The
	// forwarder also reacts to context cancellation from the CLI layer.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigChan:
				// Ignore the error: the child may already have exited,
				// in which case Wait below reports its status.
				_ = cmd.Process.Signal(sig)
			case <-ctx.Done():
				_ = cmd.Process.Signal(syscall.SIGTERM)
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	close(done)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The program ran and terminated; propagate its status verbatim.
			return &model.ProgramExitError{Code: exitStatus(exitErr)}
		}
		return model.WrapCLIError(model.ExitGeneralError, "program wait failed", err)
	}

	return nil
}

// exitStatus extracts the process exit status to propagate.
//
// ExitCode() returns -1 for a signal-killed child, which os.Exit would
// turn into 255. A shell wrapper reports signal deaths as 128+signal
// (143 for SIGTERM, 130 for Ctrl-C), so the wait status is inspected to
// reproduce that convention.
func exitStatus(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}

// ActivatedEnv builds the child environment: the base environment with
// virtual-environment activation applied, plus any extra variables.
//
// Activation means:
//   - VIRTUAL_ENV set to the venv directory
//   - the venv's bin directory prepended to PATH (so "python" and console
//     scripts resolve into the venv)
//   - PYTHONHOME removed (it overrides the venv's interpreter paths and
//     breaks imports if left set)
//
// Extra variables are appended last; since os/exec gives later duplicates
// precedence, they override both the base environment and activation.
func ActivatedEnv(base []string, venv *python.Venv, extra map[string]string) []string {
	env := make([]string, 0, len(base)+len(extra)+2)

	pathSet := false
	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case strings.EqualFold(key, "PYTHONHOME"):
			// Dropped: see function comment.
			continue
		case isPathVar(key):
			env = append(env, key+"="+venv.BinDir()+string(os.PathListSeparator)+kv[len(key)+1:])
			pathSet = true
		case strings.EqualFold(key, "VIRTUAL_ENV"):
			// Replaced below with this venv's directory.
			continue
		default:
			env = append(env, kv)
		}
	}

	if !pathSet {
		env = append(env, "PATH="+venv.BinDir())
	}
	env = append(env, "VIRTUAL_ENV="+venv.Dir)

	for key, value := range extra {
		env = append(env, key+"="+value)
	}

	return env
}

// isPathVar reports whether the variable name is the executable search
// path. Windows environment variables are case-insensitive ("Path" is
// common), so the comparison folds case.
func isPathVar(key string) bool {
	return strings.EqualFold(key, "PATH")
}

// EntryDisplayName returns the entry path relative to the project root
// when possible, for friendlier step output ("main.py" instead of a long
// absolute path).
func EntryDisplayName(projectRoot, entryPath string) string {
	rel, err := filepath.Rel(projectRoot, entryPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return entryPath
	}
	return rel
}
