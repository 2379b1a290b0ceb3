package python

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hotelUpz/venvup/internal/model"
)

// stateFileName is the install-state record written inside the venv
// directory after a successful dependency install. Keeping it inside the
// venv means `clean` (which removes the whole directory) never leaves a
// stale record behind.
const stateFileName = "venvup-state.yml"

// InstallState records what the last successful dependency install looked
// like. It is the basis for the freshness check that lets repeat runs skip
// pip entirely when nothing changed.
type InstallState struct {
	// PythonVersion is the interpreter version used for the install.
	PythonVersion string `yaml:"python_version"`

	// RequirementsHash is the SHA-256 hex digest of the requirements file
	// at install time.
	RequirementsHash string `yaml:"requirements_hash"`

	// InstalledAt is the completion timestamp of the install.
	InstalledAt time.Time `yaml:"installed_at"`
}

// StatePath returns the absolute path of the install-state file for the
// given virtual environment.
func StatePath(venv *Venv) string {
	return filepath.Join(venv.Dir, stateFileName)
}

// LoadState reads the install-state record of a virtual environment.
// A missing file returns (nil, nil): an environment that predates venvup,
// or one whose install never completed, simply has no recorded state and
// is treated as stale by Freshness.
func LoadState(venv *Venv) (*InstallState, error) {
	data, err := os.ReadFile(StatePath(venv))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to read install state", err)
	}

	var state InstallState
	if err := yaml.Unmarshal(data, &state); err != nil {
		// A corrupt state file is not fatal — it only costs a reinstall.
		// Callers receive nil state, same as if no record existed.
		return nil, nil
	}
	return &state, nil
}

// SaveState writes the install-state record into the virtual environment.
func SaveState(venv *Venv, state *InstallState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode install state", err)
	}

	if err := os.WriteFile(StatePath(venv), data, 0o644); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write install state", err)
	}
	return nil
}

// HashRequirements computes the SHA-256 hex digest of the requirements
// file. The digest, not a timestamp, decides freshness: checkouts and
// copies reset mtimes, while content is what pip actually consumes.
func HashRequirements(requirementsPath string) (string, error) {
	data, err := os.ReadFile(requirementsPath)
	if err != nil {
		return "", fmt.Errorf("failed to read requirements file %s: %w", requirementsPath, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Freshness determines the provisioning status of a virtual environment
// relative to the current requirements file.
//
//   - The venv does not exist → StatusMissing
//   - No recorded state, or the recorded hash differs from the current
//     requirements content → StatusStale
//   - Recorded hash matches → StatusReady
//
// A missing requirements file counts as stale rather than an error so
// that status/doctor can report on incomplete projects.
func Freshness(venv *Venv, requirementsPath string) (model.VenvStatus, *InstallState, error) {
	if !venv.Exists() {
		return model.StatusMissing, nil, nil
	}

	state, err := LoadState(venv)
	if err != nil {
		return "", nil, err
	}
	if state == nil {
		return model.StatusStale, nil, nil
	}

	currentHash, err := HashRequirements(requirementsPath)
	if err != nil {
		return model.StatusStale, state, nil
	}

	if currentHash != state.RequirementsHash {
		return model.StatusStale, state, nil
	}
	return model.StatusReady, state, nil
}
