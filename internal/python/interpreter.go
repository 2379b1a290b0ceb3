package python

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hotelUpz/venvup/internal/model"
)

// Interpreter describes a usable host Python installation discovered by
// FindInterpreter.
type Interpreter struct {
	// Path is the absolute path to the interpreter binary.
	Path string

	// Version is the reported version string (e.g., "3.12.4").
	Version string

	// Major and Minor are the parsed version components, kept for
	// cheap comparisons without re-parsing Version.
	Major int
	Minor int
}

// String returns a human-readable description like "Python 3.12.4 (/usr/bin/python3)".
func (i *Interpreter) String() string {
	return fmt.Sprintf("Python %s (%s)", i.Version, i.Path)
}

// FindInterpreter probes the given candidate names in order and returns
// the first one that resolves on PATH and reports a Python 3 version.
//
// Each candidate is located with exec.LookPath, then executed with
// --version to confirm it is a real interpreter. This double check matters
// on Windows, where "python" may resolve to the Microsoft Store alias stub
// that exists on PATH but is not Python, and on distributions where
// "python" is still Python 2.
//
// Returns a model.CLIError with ExitPythonNotFound when no candidate works.
func FindInterpreter(ctx context.Context, candidates []string) (*Interpreter, error) {
	var probeErrs []string

	for _, name := range candidates {
		path, err := exec.LookPath(name)
		if err != nil {
			probeErrs = append(probeErrs, fmt.Sprintf("%s: not on PATH", name))
			continue
		}

		version, err := probeVersion(ctx, path)
		if err != nil {
			probeErrs = append(probeErrs, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		major, minor, err := parseVersion(version)
		if err != nil {
			probeErrs = append(probeErrs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if major < 3 {
			// Python 2 cannot create venv-module environments and is EOL.
			probeErrs = append(probeErrs, fmt.Sprintf("%s: Python %s is too old (need 3.x)", name, version))
			continue
		}

		return &Interpreter{Path: path, Version: version, Major: major, Minor: minor}, nil
	}

	return nil, model.NewCLIError(model.ExitPythonNotFound,
		fmt.Sprintf("no usable Python interpreter found (tried: %s)", strings.Join(probeErrs, "; ")))
}

// probeVersion runs `<path> --version` and extracts the version number.
//
// Modern Python prints "Python X.Y.Z" on stdout; Python 2 printed it on
// stderr, so both streams are combined before parsing.
func probeVersion(ctx context.Context, path string) (string, error) {
	// #nosec G204 — path comes from exec.LookPath over configured candidates
	cmd := exec.CommandContext(ctx, path, "--version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("--version failed: %w", err)
	}

	return extractVersion(string(output))
}

// extractVersion pulls the "X.Y.Z" token out of a `python --version`
// output line such as "Python 3.12.4".
func extractVersion(output string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	// Expected shape: ["Python", "3.12.4"]. Some builds append suffixes
	// (e.g., "3.13.0rc1"); the raw token is kept as-is and parseVersion
	// handles the numeric prefix.
	if len(fields) < 2 || !strings.EqualFold(fields[0], "python") {
		return "", fmt.Errorf("unexpected --version output %q", strings.TrimSpace(output))
	}
	// The token after "Python" must look like a version. The Microsoft
	// Store alias stub prints "Python was not found; ..." and must not
	// pass as an interpreter.
	if fields[1][0] < '0' || fields[1][0] > '9' {
		return "", fmt.Errorf("unexpected --version output %q", strings.TrimSpace(output))
	}
	return fields[1], nil
}

// parseVersion parses the major and minor components of a version string
// like "3.12.4" or "3.13.0rc1". The patch component (and any pre-release
// suffix) is ignored: feature gating only ever needs major.minor.
func parseVersion(version string) (major, minor int, err error) {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unparseable version %q", version)
	}

	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unparseable major version in %q", version)
	}

	// Strip any non-digit suffix from the minor component ("13rc1" → "13").
	minorDigits := parts[1]
	for idx, r := range minorDigits {
		if r < '0' || r > '9' {
			minorDigits = minorDigits[:idx]
			break
		}
	}
	minor, err = strconv.Atoi(minorDigits)
	if err != nil {
		return 0, 0, fmt.Errorf("unparseable minor version in %q", version)
	}

	return major, minor, nil
}
