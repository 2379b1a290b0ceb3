// Package model defines the domain types and value objects for the
// venvup CLI.
//
// This package contains pure data structures with no external dependencies.
// The entities here (Project, EnvInfo, etc.) are transient representations
// assembled at runtime from the project manifest, the virtual-environment
// directory, and Docker container labels — there are no hidden state files
// beyond the install-state record inside the venv directory itself.
//
// The package also defines exit codes (ExitCode), a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling,
// and ProgramExitError, which transports the launched program's own exit
// status back to the process boundary without being treated as a tool
// failure.
package model
