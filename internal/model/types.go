// Package model defines the domain types for the venvup CLI.
//
// All entities in this package represent the launcher's view of a project:
// where its virtual environment lives, which interpreter serves it, and
// how fresh its installed dependencies are. The types are reconstructed
// from the filesystem (and, for the container backend, from Docker labels)
// on every invocation.
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// VenvStatus represents the provisioning state of a project's virtual
// environment. The state transitions are:
//
//	[Missing] → Ready (setup/run creates the venv and installs deps)
//	Ready → Stale (requirements file edited after the last install)
//	Stale → Ready (run/setup reinstalls)
//	any → Missing (clean removes the venv directory)
type VenvStatus string

const (
	// StatusMissing indicates no virtual environment exists for the project.
	// The next run will create one before installing dependencies.
	StatusMissing VenvStatus = "missing"

	// StatusStale indicates the virtual environment exists but the
	// requirements file has changed since dependencies were last installed.
	StatusStale VenvStatus = "stale"

	// StatusReady indicates the virtual environment exists and its
	// installed dependencies match the current requirements file.
	StatusReady VenvStatus = "ready"
)

// String returns the string representation of VenvStatus.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands.
func (s VenvStatus) String() string {
	return string(s)
}

// IsValid checks whether the VenvStatus value is one of the
// predefined valid states.
func (s VenvStatus) IsValid() bool {
	switch s {
	case StatusMissing, StatusStale, StatusReady:
		return true
	default:
		return false
	}
}

// ParseVenvStatus converts a string to a VenvStatus.
// Returns an error if the string does not match any valid status.
func ParseVenvStatus(s string) (VenvStatus, error) {
	status := VenvStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid environment status: %q (valid: missing, stale, ready)", s)
	}
	return status, nil
}

// Backend identifies which isolation mechanism executes the program.
type Backend string

const (
	// BackendVenv runs the program inside a local virtual environment.
	// This is the default and reproduces the original bootstrap behavior.
	BackendVenv Backend = "venv"

	// BackendContainer runs the program inside a Docker container with
	// the project directory bind-mounted. No local venv is required.
	BackendContainer Backend = "container"
)

// String returns the string representation of Backend.
func (b Backend) String() string {
	return string(b)
}

// Project is the fully resolved launch configuration for a project
// directory. It combines manifest values (venvup.jsonc) with defaults,
// so downstream packages never have to reason about missing fields.
type Project struct {
	// Name is the project identifier used for container names and labels.
	// Must contain only alphanumeric characters and hyphens.
	Name string `json:"name"`

	// Root is the absolute path to the project directory.
	Root string `json:"root"`

	// Entry is the program entry point, relative to Root (e.g., "main.py").
	Entry string `json:"entry"`

	// Args are the default arguments passed to the entry point.
	Args []string `json:"args,omitempty"`

	// Requirements is the dependency manifest path, relative to Root.
	Requirements string `json:"requirements"`

	// VenvDir is the virtual-environment directory, relative to Root.
	VenvDir string `json:"venv"`

	// PythonCandidates lists interpreter names to probe, in preference
	// order (e.g., ["python3", "python"]).
	PythonCandidates []string `json:"python,omitempty"`

	// Env holds extra environment variables set for the program.
	Env map[string]string `json:"env,omitempty"`

	// ContainerImage is the Docker image for the container backend.
	ContainerImage string `json:"containerImage,omitempty"`

	// ContainerWorkdir is the mount point for the project directory
	// inside the container.
	ContainerWorkdir string `json:"containerWorkdir,omitempty"`
}

// EnvInfo is a snapshot of a project's virtual environment, assembled by
// the status command. All fields are derived; nothing here is persisted.
type EnvInfo struct {
	// ProjectName is the resolved project identifier.
	ProjectName string `json:"projectName"`

	// VenvPath is the absolute path to the virtual-environment directory.
	VenvPath string `json:"venvPath"`

	// Status is the provisioning state of the environment.
	Status VenvStatus `json:"status"`

	// PythonVersion is the interpreter version recorded at install time
	// (e.g., "3.12.4"). Empty when the environment is missing.
	PythonVersion string `json:"pythonVersion,omitempty"`

	// InstalledAt is the timestamp of the last dependency install.
	// Zero when no install has been recorded.
	InstalledAt time.Time `json:"installedAt,omitempty"`

	// Containers lists Docker containers managed for this project,
	// if the container backend has been used.
	Containers []ContainerInfo `json:"containers,omitempty"`
}

// ContainerInfo holds runtime information about a managed Docker container.
// This data is fetched dynamically from the Docker API, not persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// Status is the Docker container status (e.g., "running", "exited").
	Status string `json:"status"`

	// Labels is the full set of Docker labels on the container,
	// including the venvup.* management labels.
	Labels map[string]string `json:"labels,omitempty"`
}

// nameRegex validates project names: alphanumeric + hyphens only,
// must start and end with alphanumeric.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)

// ValidateName checks if the given name is a valid project name.
// Valid names contain only alphanumeric characters and hyphens,
// and must start/end with an alphanumeric character. The same rule
// keeps names usable as Docker container names without escaping.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must contain only alphanumeric characters and hyphens, and start/end with alphanumeric", name)
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically distinguish setup failures from program
// failures. Once the program itself has been launched, its own exit status
// takes over (see ProgramExitError).
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitManifestInvalid indicates venvup.jsonc could not be parsed
	// or contains invalid values.
	ExitManifestInvalid ExitCode = 2

	// ExitPythonNotFound indicates no usable Python interpreter was
	// found among the configured candidates.
	ExitPythonNotFound ExitCode = 3

	// ExitVenvCreateFailed indicates `python -m venv` failed.
	ExitVenvCreateFailed ExitCode = 4

	// ExitInstallFailed indicates `pip install` failed. Per the fail-fast
	// contract, the entry point is never launched after this.
	ExitInstallFailed ExitCode = 5

	// ExitEntryNotFound indicates the program entry point does not exist
	// in the project directory.
	ExitEntryNotFound ExitCode = 6

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	// Only relevant for the container backend and container discovery.
	ExitDockerNotRunning ExitCode = 7

	// ExitUserCancelled indicates the user cancelled an interactive prompt.
	ExitUserCancelled ExitCode = 8
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ProgramExitError reports that the launched program terminated with a
// non-zero exit status. It is distinct from CLIError because it is not a
// tool failure: the launcher's contract is to propagate the program's
// status verbatim, with no additional error banner. The cli layer detects
// this type with errors.As and calls os.Exit directly.
type ProgramExitError struct {
	// Code is the exit status reported by the program's process.
	Code int
}

// Error satisfies the error interface. The message is only ever seen in
// verbose or programmatic contexts — normal execution exits silently.
func (e *ProgramExitError) Error() string {
	return fmt.Sprintf("program exited with status %d", e.Code)
}
