package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- VenvStatus tests ---

// TestParseVenvStatus_Valid verifies that all defined statuses parse,
// case-insensitively.
func TestParseVenvStatus_Valid(t *testing.T) {
	for _, input := range []string{"missing", "stale", "ready", "READY", "Stale"} {
		status, err := ParseVenvStatus(input)
		require.NoError(t, err, "ParseVenvStatus(%q) should succeed", input)
		assert.True(t, status.IsValid())
	}
}

// TestParseVenvStatus_Invalid verifies that unknown strings are rejected
// with an error naming the valid values.
func TestParseVenvStatus_Invalid(t *testing.T) {
	_, err := ParseVenvStatus("running")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid environment status")
}

// --- ValidateName tests ---

// TestValidateName_Valid verifies that typical project names pass.
func TestValidateName_Valid(t *testing.T) {
	for _, name := range []string{"cp-depl2", "a", "my-project", "Project9"} {
		assert.NoError(t, ValidateName(name), "name %q should be valid", name)
	}
}

// TestValidateName_Invalid verifies that empty names, names with
// underscores or slashes, and names with leading/trailing hyphens are
// rejected. The rule keeps names usable as Docker container names.
func TestValidateName_Invalid(t *testing.T) {
	for _, name := range []string{"", "my_project", "a/b", "-lead", "trail-", "sp ace"} {
		assert.Error(t, ValidateName(name), "name %q should be invalid", name)
	}
}

// --- CLIError tests ---

// TestCLIError_WrapAndUnwrap verifies that WrapCLIError preserves the
// underlying error for errors.Is/errors.As and renders both messages.
func TestCLIError_WrapAndUnwrap(t *testing.T) {
	underlying := fmt.Errorf("pip exploded")
	err := WrapCLIError(ExitInstallFailed, "dependency install failed", underlying)

	assert.Equal(t, ExitInstallFailed, err.Code)
	assert.Contains(t, err.Error(), "dependency install failed")
	assert.Contains(t, err.Error(), "pip exploded")
	assert.ErrorIs(t, err, underlying)
}

// TestCLIError_ErrorsAs verifies that a CLIError can be recovered from a
// wrapped chain, which is how cli.Execute maps errors to exit codes.
func TestCLIError_ErrorsAs(t *testing.T) {
	inner := NewCLIError(ExitPythonNotFound, "no interpreter")
	wrapped := fmt.Errorf("setup failed: %w", inner)

	var cliErr *CLIError
	require.True(t, errors.As(wrapped, &cliErr))
	assert.Equal(t, ExitPythonNotFound, cliErr.Code)
}

// --- ProgramExitError tests ---

// TestProgramExitError_CarriesStatus verifies that the program's exit
// status survives wrapping. The launcher's contract is to propagate this
// code verbatim to the OS.
func TestProgramExitError_CarriesStatus(t *testing.T) {
	err := &ProgramExitError{Code: 42}
	wrapped := fmt.Errorf("launch: %w", err)

	var progErr *ProgramExitError
	require.True(t, errors.As(wrapped, &progErr))
	assert.Equal(t, 42, progErr.Code)
	assert.Contains(t, err.Error(), "42")
}
