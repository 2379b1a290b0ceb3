package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hotelUpz/venvup/internal/model"
)

// Validate checks a resolved Project for configuration mistakes that
// would otherwise surface as confusing subprocess failures later.
//
// The checks cover field syntax only — file existence (requirements,
// entry point) is checked at use time, because setup legitimately runs
// before an entry point exists and doctor reports missing files as
// findings rather than errors.
func Validate(proj *model.Project) error {
	if err := model.ValidateName(proj.Name); err != nil {
		return err
	}

	if err := validateRelPath("entry", proj.Entry); err != nil {
		return err
	}
	if err := validateRelPath("requirements", proj.Requirements); err != nil {
		return err
	}
	if err := validateRelPath("venv", proj.VenvDir); err != nil {
		return err
	}

	for _, candidate := range proj.PythonCandidates {
		if strings.TrimSpace(candidate) == "" {
			return fmt.Errorf("python candidates must not contain empty entries")
		}
	}

	for key := range proj.Env {
		if key == "" || strings.Contains(key, "=") {
			return fmt.Errorf("invalid environment variable name %q", key)
		}
	}

	if proj.ContainerImage == "" {
		return fmt.Errorf("container image must not be empty")
	}
	if !strings.HasPrefix(proj.ContainerWorkdir, "/") {
		return fmt.Errorf("container workdir %q must be an absolute path", proj.ContainerWorkdir)
	}

	return nil
}

// validateRelPath ensures a manifest path stays inside the project root.
// Absolute paths and ".." escapes are rejected: the venv directory in
// particular is removed wholesale by the clean command, so letting it
// point outside the project would be destructive.
func validateRelPath(field, path string) error {
	if path == "" {
		return fmt.Errorf("%s path must not be empty", field)
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("%s path %q must be relative to the project root", field, path)
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%s path %q must not escape the project root", field, path)
	}
	return nil
}
