package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/hotelUpz/venvup/internal/model"
)

// Default values applied when the manifest omits a field (or when no
// manifest exists at all). These reproduce the fixed behavior of the
// original run.sh / run.bat bootstrap scripts.
const (
	// DefaultEntry is the program entry point launched inside the venv.
	DefaultEntry = "main.py"

	// DefaultRequirements is the dependency manifest consumed by pip.
	DefaultRequirements = "requirements.txt"

	// DefaultVenvDir is the virtual-environment directory name.
	DefaultVenvDir = "venv"

	// DefaultContainerImage is the image used by the container backend
	// when the manifest does not name one.
	DefaultContainerImage = "python:3.12-slim"

	// DefaultContainerWorkdir is where the project directory is mounted
	// inside the container.
	DefaultContainerWorkdir = "/app"
)

// manifestNames lists the manifest filenames probed in the project root,
// in preference order. Plain .json is accepted for projects that prefer
// strict JSON over JSONC.
var manifestNames = []string{"venvup.jsonc", "venvup.json"}

// rawManifest mirrors the venvup.jsonc structure. Only known fields are
// parsed; anything else in the file is silently ignored, which lets users
// keep editor-specific keys alongside ours.
type rawManifest struct {
	// Name is the project identifier. Defaults to the sanitized
	// project directory name.
	Name string `json:"name,omitempty"`

	// Entry is the program entry point, relative to the project root.
	Entry string `json:"entry,omitempty"`

	// Args are default arguments appended to every launch.
	Args []string `json:"args,omitempty"`

	// Requirements is the pip requirements file, relative to the root.
	Requirements string `json:"requirements,omitempty"`

	// Venv is the virtual-environment directory, relative to the root.
	Venv string `json:"venv,omitempty"`

	// Python lists interpreter candidates to probe, in preference order.
	Python []string `json:"python,omitempty"`

	// Env holds extra environment variables for the launched program.
	Env map[string]string `json:"env,omitempty"`

	// Container configures the Docker backend.
	Container *rawContainer `json:"container,omitempty"`
}

// rawContainer holds the container-backend section of the manifest.
type rawContainer struct {
	// Image is the Docker image to run the program in.
	Image string `json:"image,omitempty"`

	// Workdir is the in-container mount point for the project directory.
	Workdir string `json:"workdir,omitempty"`
}

// Load resolves the launch configuration for the given project directory.
//
// It searches for a manifest (venvup.jsonc, then venvup.json), parses it
// if found, applies defaults for every omitted field, and validates the
// result. A missing manifest is not an error — the returned Project then
// carries pure defaults, which is the common case for projects that only
// ever used the shell bootstrap.
//
// Returns a CLIError with ExitManifestInvalid when a manifest exists but
// cannot be parsed or fails validation.
func Load(projectDir string) (*model.Project, error) {
	root, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to resolve project directory", err)
	}

	raw := &rawManifest{}
	manifestPath := findManifest(root)
	if manifestPath != "" {
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitManifestInvalid,
				fmt.Sprintf("failed to read %s", manifestPath), err)
		}

		// Strip JSONC comments (// and /* */) and trailing commas before
		// parsing. Manifests are hand-edited files, so comments are expected.
		cleanJSON := jsonc.ToJSON(data)

		if err := json.Unmarshal(cleanJSON, raw); err != nil {
			return nil, model.WrapCLIError(model.ExitManifestInvalid,
				fmt.Sprintf("failed to parse %s", manifestPath), err)
		}
	}

	proj := resolve(root, raw)

	if err := Validate(proj); err != nil {
		return nil, model.WrapCLIError(model.ExitManifestInvalid, "invalid project manifest", err)
	}

	return proj, nil
}

// findManifest returns the path of the first manifest file that exists in
// the project root, or "" when the project has no manifest.
func findManifest(root string) string {
	for _, name := range manifestNames {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// resolve merges manifest values with defaults into a fully populated
// Project. Every field of the returned struct is usable without further
// nil or empty checks downstream.
func resolve(root string, raw *rawManifest) *model.Project {
	proj := &model.Project{
		Name:             raw.Name,
		Root:             root,
		Entry:            raw.Entry,
		Args:             raw.Args,
		Requirements:     raw.Requirements,
		VenvDir:          raw.Venv,
		PythonCandidates: raw.Python,
		Env:              raw.Env,
	}

	if proj.Name == "" {
		proj.Name = SanitizeName(filepath.Base(root))
	}
	if proj.Entry == "" {
		proj.Entry = DefaultEntry
	}
	if proj.Requirements == "" {
		proj.Requirements = DefaultRequirements
	}
	if proj.VenvDir == "" {
		proj.VenvDir = DefaultVenvDir
	}
	if len(proj.PythonCandidates) == 0 {
		proj.PythonCandidates = defaultPythonCandidates()
	}

	proj.ContainerImage = DefaultContainerImage
	proj.ContainerWorkdir = DefaultContainerWorkdir
	if raw.Container != nil {
		if raw.Container.Image != "" {
			proj.ContainerImage = raw.Container.Image
		}
		if raw.Container.Workdir != "" {
			proj.ContainerWorkdir = raw.Container.Workdir
		}
	}

	return proj
}

// defaultPythonCandidates returns the interpreter names probed when the
// manifest does not pin one.
//
// On Windows the "py" launcher is preferred because plain "python" may
// resolve to the Microsoft Store alias stub, which exits with an install
// prompt instead of running Python. On POSIX, "python3" comes first since
// "python" still means Python 2 on some distributions.
func defaultPythonCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"py", "python", "python3"}
	}
	return []string{"python3", "python"}
}

// SanitizeName converts an arbitrary directory name to a valid project
// name: separators become hyphens, invalid characters are dropped, and
// a fallback of "project" covers names with nothing salvageable.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")

	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	name = strings.Trim(result.String(), "-")

	if name == "" {
		name = "project"
	}
	return name
}

// RequirementsPath returns the absolute path to the project's
// requirements file.
func RequirementsPath(proj *model.Project) string {
	return filepath.Join(proj.Root, proj.Requirements)
}

// EntryPath returns the absolute path to the project's entry point.
func EntryPath(proj *model.Project) string {
	return filepath.Join(proj.Root, proj.Entry)
}

// VenvPath returns the absolute path to the project's virtual-environment
// directory.
func VenvPath(proj *model.Project) string {
	return filepath.Join(proj.Root, proj.VenvDir)
}
