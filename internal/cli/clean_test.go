package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- cleanPrompt tests ---

// TestCleanPrompt_VenvOnly verifies the default prompt names the venv
// directory that will be removed.
func TestCleanPrompt_VenvOnly(t *testing.T) {
	prompt := cleanPrompt(true, "/proj/venv", false)
	assert.Contains(t, prompt, "virtual environment")
	assert.Contains(t, prompt, "/proj/venv")
	assert.NotContains(t, prompt, "container")
}

// TestCleanPrompt_VenvAndContainers verifies that both removal targets are
// named when --containers is set and a venv exists.
func TestCleanPrompt_VenvAndContainers(t *testing.T) {
	prompt := cleanPrompt(true, "/proj/venv", true)
	assert.Contains(t, prompt, "/proj/venv")
	assert.Contains(t, prompt, "containers")
}

// TestCleanPrompt_ContainersWithoutVenv verifies that the prompt does not
// mention a virtual environment when none exists and only containers are
// being removed.
func TestCleanPrompt_ContainersWithoutVenv(t *testing.T) {
	prompt := cleanPrompt(false, "/proj/venv", true)
	assert.Contains(t, prompt, "containers")
	assert.NotContains(t, prompt, "virtual environment")
	assert.NotContains(t, prompt, "/proj/venv")
}
