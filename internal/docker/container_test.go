package docker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelUpz/venvup/internal/model"
)

// projectInDir returns a test project rooted in a real temp directory so
// buildCommand's requirements-file check sees the filesystem.
func projectInDir(t *testing.T, withRequirements bool) *model.Project {
	t.Helper()
	root := t.TempDir()
	if withRequirements {
		require.NoError(t, os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("requests\n"), 0o644))
	}
	return &model.Project{
		Name:             "copy-engine",
		Root:             root,
		Entry:            "main.py",
		Requirements:     "requirements.txt",
		VenvDir:          "venv",
		ContainerImage:   "python:3.12-slim",
		ContainerWorkdir: "/app",
	}
}

// --- buildCommand tests ---

// TestBuildCommand_NoRequirements verifies that a project without a
// requirements file runs the interpreter directly, with manifest args
// and extra args in order.
func TestBuildCommand_NoRequirements(t *testing.T) {
	proj := projectInDir(t, false)
	proj.Args = []string{"--mode", "live"}

	cmd := buildCommand(proj, []string{"--once"})
	assert.Equal(t, []string{"python", "main.py", "--mode", "live", "--once"}, cmd)
}

// TestBuildCommand_WithRequirements verifies that the install step is
// chained before the entry point with &&, preserving fail-fast: a failed
// install never reaches the program.
func TestBuildCommand_WithRequirements(t *testing.T) {
	proj := projectInDir(t, true)

	cmd := buildCommand(proj, nil)
	require.Len(t, cmd, 3)
	assert.Equal(t, "sh", cmd[0])
	assert.Equal(t, "-c", cmd[1])
	assert.Contains(t, cmd[2], "pip install -r 'requirements.txt'")
	assert.Contains(t, cmd[2], "&&")
	assert.Contains(t, cmd[2], "'main.py'")
}

// TestBuildCommand_NestedRequirements verifies that a requirements file in
// a subdirectory is located with native path joining on the host, while the
// in-container install command keeps the manifest's forward-slash path.
func TestBuildCommand_NestedRequirements(t *testing.T) {
	proj := projectInDir(t, false)
	proj.Requirements = "deps/requirements.txt"
	require.NoError(t, os.MkdirAll(filepath.Join(proj.Root, "deps"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(proj.Root, "deps", "requirements.txt"), []byte("requests\n"), 0o644))

	cmd := buildCommand(proj, nil)
	require.Len(t, cmd, 3)
	assert.Contains(t, cmd[2], "pip install -r 'deps/requirements.txt'")
}

// TestShellQuote verifies POSIX single-quoting, including embedded
// single quotes (the container side is always Linux sh).
func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'main.py'", shellQuote("main.py"))
	assert.Equal(t, `'it'\''s.py'`, shellQuote("it's.py"))
}

// --- conversion tests ---

// TestBuildEnv verifies the map-to-slice conversion for the Docker API.
func TestBuildEnv(t *testing.T) {
	proj := projectInDir(t, false)
	proj.Env = map[string]string{"PYTHONUNBUFFERED": "1"}

	env := buildEnv(proj)
	assert.Equal(t, []string{"PYTHONUNBUFFERED=1"}, env)
}

// TestContainerToInfo verifies the SDK-to-domain mapping, including the
// leading "/" Docker puts on container names.
func TestContainerToInfo(t *testing.T) {
	info := containerToInfo(types.Container{
		ID:     "abc123",
		Names:  []string{"/venvup-copy-engine-1756000000"},
		State:  "exited",
		Labels: map[string]string{LabelProject: "copy-engine"},
	})

	assert.Equal(t, "abc123", info.ContainerID)
	assert.Equal(t, "venvup-copy-engine-1756000000", info.ContainerName)
	assert.Equal(t, "exited", info.Status)
	assert.Equal(t, "copy-engine", info.Labels[LabelProject])
}
