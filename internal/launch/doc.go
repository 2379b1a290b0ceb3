// Package launch runs the project's entry point inside its virtual
// environment and propagates the program's exit status.
//
// Activation is synthesized rather than sourced: instead of running the
// venv's activate script in a shell, the launcher sets VIRTUAL_ENV,
// prepends the venv's bin directory to PATH, and strips PYTHONHOME —
// the three effects of activation that matter to a child process.
//
// The launcher passes stdio through untouched and forwards SIGINT/SIGTERM
// to the child, so the program behaves exactly as if the user had run it
// from an activated shell.
package launch
