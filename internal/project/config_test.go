package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelUpz/venvup/internal/model"
)

// writeManifest writes a venvup.jsonc file into dir and returns dir.
func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "venvup.jsonc"), []byte(content), 0o644)
	require.NoError(t, err)
	return dir
}

// --- Load tests ---

// TestLoad_NoManifest verifies that a project without a manifest resolves
// to pure defaults, reproducing the original bootstrap scripts' fixed
// behavior (main.py, requirements.txt, venv/).
func TestLoad_NoManifest(t *testing.T) {
	dir := t.TempDir()

	proj, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultEntry, proj.Entry)
	assert.Equal(t, DefaultRequirements, proj.Requirements)
	assert.Equal(t, DefaultVenvDir, proj.VenvDir)
	assert.Equal(t, DefaultContainerImage, proj.ContainerImage)
	assert.Equal(t, DefaultContainerWorkdir, proj.ContainerWorkdir)
	assert.NotEmpty(t, proj.PythonCandidates)

	// The name derives from the (sanitized) directory name.
	require.NoError(t, model.ValidateName(proj.Name))

	// Root is resolved to an absolute path.
	assert.True(t, filepath.IsAbs(proj.Root))
}

// TestLoad_ManifestWithComments verifies that a JSONC manifest with //
// and /* */ comments parses and that its values override the defaults.
func TestLoad_ManifestWithComments(t *testing.T) {
	dir := writeManifest(t, t.TempDir(), `{
		// program entry point
		"name": "copy-engine",
		"entry": "app.py",
		"args": ["--mode", "live"],
		/* dependency manifest */
		"requirements": "deps/requirements.txt",
		"venv": ".venv",
		"python": ["python3.12", "python3"],
		"env": {"PYTHONUNBUFFERED": "1"},
		"container": {"image": "python:3.11-slim", "workdir": "/srv/app"},
	}`)

	proj, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "copy-engine", proj.Name)
	assert.Equal(t, "app.py", proj.Entry)
	assert.Equal(t, []string{"--mode", "live"}, proj.Args)
	assert.Equal(t, "deps/requirements.txt", proj.Requirements)
	assert.Equal(t, ".venv", proj.VenvDir)
	assert.Equal(t, []string{"python3.12", "python3"}, proj.PythonCandidates)
	assert.Equal(t, "1", proj.Env["PYTHONUNBUFFERED"])
	assert.Equal(t, "python:3.11-slim", proj.ContainerImage)
	assert.Equal(t, "/srv/app", proj.ContainerWorkdir)
}

// TestLoad_PartialManifest verifies that omitted manifest fields fall
// back to defaults rather than being left empty.
func TestLoad_PartialManifest(t *testing.T) {
	dir := writeManifest(t, t.TempDir(), `{"name": "partial"}`)

	proj, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "partial", proj.Name)
	assert.Equal(t, DefaultEntry, proj.Entry)
	assert.Equal(t, DefaultRequirements, proj.Requirements)
	assert.Equal(t, DefaultVenvDir, proj.VenvDir)
	assert.Equal(t, DefaultContainerImage, proj.ContainerImage)
}

// TestLoad_MalformedManifest verifies that unparseable JSON yields a
// CLIError with ExitManifestInvalid so the CLI exits with the manifest
// taxonomy code.
func TestLoad_MalformedManifest(t *testing.T) {
	dir := writeManifest(t, t.TempDir(), `{"name": `)

	_, err := Load(dir)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr), "error should be a *model.CLIError")
	assert.Equal(t, model.ExitManifestInvalid, cliErr.Code)
}

// TestLoad_InvalidName verifies that a manifest with an invalid project
// name fails validation.
func TestLoad_InvalidName(t *testing.T) {
	dir := writeManifest(t, t.TempDir(), `{"name": "has spaces"}`)

	_, err := Load(dir)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitManifestInvalid, cliErr.Code)
}

// TestLoad_VenvEscapesRoot verifies that a venv path pointing outside the
// project root is rejected. The clean command removes the venv directory
// wholesale, so an escaping path would be destructive.
func TestLoad_VenvEscapesRoot(t *testing.T) {
	dir := writeManifest(t, t.TempDir(), `{"venv": "../shared-venv"}`)

	_, err := Load(dir)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitManifestInvalid, cliErr.Code)
}

// TestLoad_UnknownFieldsIgnored verifies that extra keys in the manifest
// are tolerated, so users can keep tool-specific metadata alongside ours.
func TestLoad_UnknownFieldsIgnored(t *testing.T) {
	dir := writeManifest(t, t.TempDir(), `{"name": "extra", "$schema": "https://example.com/schema.json"}`)

	proj, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "extra", proj.Name)
}

// --- SanitizeName tests ---

// TestSanitizeName verifies separator replacement, invalid character
// removal, and the fallback for names with nothing salvageable.
func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "cp-depl2", SanitizeName("cp_depl2"))
	assert.Equal(t, "my-app", SanitizeName("my.app"))
	assert.Equal(t, "feature-x", SanitizeName("feature/x"))
	assert.Equal(t, "weird", SanitizeName("--weird--"))
	assert.Equal(t, "project", SanitizeName("***"))
}

// --- path helper tests ---

// TestPathHelpers verifies that the path helpers join relative manifest
// paths onto the project root.
func TestPathHelpers(t *testing.T) {
	dir := t.TempDir()
	proj, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(proj.Root, "main.py"), EntryPath(proj))
	assert.Equal(t, filepath.Join(proj.Root, "requirements.txt"), RequirementsPath(proj))
	assert.Equal(t, filepath.Join(proj.Root, "venv"), VenvPath(proj))
}
