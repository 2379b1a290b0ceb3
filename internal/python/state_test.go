package python

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelUpz/venvup/internal/model"
)

// writeRequirements writes a requirements file next to the venv and
// returns its path.
func writeRequirements(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- HashRequirements tests ---

// TestHashRequirements_ContentSensitive verifies that the digest depends
// on content only: identical content hashes identically, changed content
// does not.
func TestHashRequirements_ContentSensitive(t *testing.T) {
	dir := t.TempDir()
	path := writeRequirements(t, dir, "aiohttp==3.9\n")

	first, err := HashRequirements(path)
	require.NoError(t, err)

	// Rewrite with identical content — hash must not change even though
	// the mtime did.
	require.NoError(t, os.WriteFile(path, []byte("aiohttp==3.9\n"), 0o644))
	second, err := HashRequirements(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, os.WriteFile(path, []byte("aiohttp==3.10\n"), 0o644))
	third, err := HashRequirements(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

// TestHashRequirements_Missing verifies the error for an absent file.
func TestHashRequirements_Missing(t *testing.T) {
	_, err := HashRequirements(filepath.Join(t.TempDir(), "requirements.txt"))
	require.Error(t, err)
}

// --- state persistence tests ---

// TestSaveAndLoadState verifies the install-state record survives a
// write/read cycle inside the venv directory.
func TestSaveAndLoadState(t *testing.T) {
	venv := fakeVenv(t)

	installedAt := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	require.NoError(t, SaveState(venv, &InstallState{
		PythonVersion:    "3.12.4",
		RequirementsHash: "abc123",
		InstalledAt:      installedAt,
	}))

	state, err := LoadState(venv)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "3.12.4", state.PythonVersion)
	assert.Equal(t, "abc123", state.RequirementsHash)
	assert.True(t, state.InstalledAt.Equal(installedAt))
}

// TestLoadState_Absent verifies that a venv without a state record
// returns (nil, nil) — treated as stale, never as an error.
func TestLoadState_Absent(t *testing.T) {
	state, err := LoadState(fakeVenv(t))
	require.NoError(t, err)
	assert.Nil(t, state)
}

// TestLoadState_Corrupt verifies that an unparseable state file degrades
// to nil state (costing a reinstall) instead of failing the command.
func TestLoadState_Corrupt(t *testing.T) {
	venv := fakeVenv(t)
	require.NoError(t, os.WriteFile(StatePath(venv), []byte("{invalid: ["), 0o644))

	state, err := LoadState(venv)
	require.NoError(t, err)
	assert.Nil(t, state)
}

// --- Freshness tests ---

// TestFreshness_MissingVenv verifies the missing status when no
// environment exists.
func TestFreshness_MissingVenv(t *testing.T) {
	dir := t.TempDir()
	venv := NewVenv(filepath.Join(dir, "venv"))
	reqs := writeRequirements(t, dir, "requests\n")

	status, state, err := Freshness(venv, reqs)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMissing, status)
	assert.Nil(t, state)
}

// TestFreshness_NoRecordedInstall verifies that an existing venv without
// a state record is stale: we cannot prove its contents match.
func TestFreshness_NoRecordedInstall(t *testing.T) {
	venv := fakeVenv(t)
	reqs := writeRequirements(t, filepath.Dir(venv.Dir), "requests\n")

	status, _, err := Freshness(venv, reqs)
	require.NoError(t, err)
	assert.Equal(t, model.StatusStale, status)
}

// TestFreshness_ReadyThenStale walks the full lifecycle: after recording
// an install the environment is ready; editing the requirements file
// makes it stale again.
func TestFreshness_ReadyThenStale(t *testing.T) {
	venv := fakeVenv(t)
	reqs := writeRequirements(t, filepath.Dir(venv.Dir), "aiohttp==3.9\n")

	hash, err := HashRequirements(reqs)
	require.NoError(t, err)
	require.NoError(t, SaveState(venv, &InstallState{
		PythonVersion:    "3.12.4",
		RequirementsHash: hash,
		InstalledAt:      time.Now().UTC(),
	}))

	status, state, err := Freshness(venv, reqs)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReady, status)
	require.NotNil(t, state)
	assert.Equal(t, "3.12.4", state.PythonVersion)

	// Edit the requirements file: the recorded hash no longer matches.
	require.NoError(t, os.WriteFile(reqs, []byte("aiohttp==3.10\n"), 0o644))

	status, _, err = Freshness(venv, reqs)
	require.NoError(t, err)
	assert.Equal(t, model.StatusStale, status)
}

// TestFreshness_MissingRequirements verifies that a venv with recorded
// state but no requirements file reports stale, so status and doctor can
// describe incomplete projects without erroring.
func TestFreshness_MissingRequirements(t *testing.T) {
	venv := fakeVenv(t)
	require.NoError(t, SaveState(venv, &InstallState{RequirementsHash: "abc"}))

	status, _, err := Freshness(venv, filepath.Join(filepath.Dir(venv.Dir), "requirements.txt"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusStale, status)
}
