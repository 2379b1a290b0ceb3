package docker

import (
	"fmt"
	"time"

	"github.com/hotelUpz/venvup/internal/model"
)

// Label key constants define the Docker label keys used to mark program
// containers started by venvup. The labels are the only persistence for
// the container backend: status and clean reconstruct everything they
// need from them.
//
// All keys share the "venvup." prefix to namespace them away from labels
// set by other tools.
const (
	// LabelPrefix is the common prefix for all venvup labels.
	LabelPrefix = "venvup."

	// LabelManagedBy identifies containers started by venvup. This is the
	// primary filter label. Key: "venvup.managed-by", value: ManagedByValue.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelProject stores the project name the container belongs to.
	LabelProject = LabelPrefix + "project"

	// LabelProjectRoot stores the absolute host path of the project
	// directory that is bind-mounted into the container.
	LabelProjectRoot = LabelPrefix + "project-root"

	// LabelEntry stores the entry point the container runs.
	LabelEntry = LabelPrefix + "entry"

	// LabelCreatedAt stores the RFC3339 timestamp of container creation.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the value of the LabelManagedBy label.
const ManagedByValue = "venvup"

// RunInfo is the metadata recorded on a program container, reconstructed
// from labels by ParseLabels.
type RunInfo struct {
	// Project is the project name.
	Project string

	// ProjectRoot is the host path of the project directory.
	ProjectRoot string

	// Entry is the entry point the container runs.
	Entry string

	// CreatedAt is the container creation time. Zero when the label is
	// missing or unparseable.
	CreatedAt time.Time
}

// BuildLabels constructs the full label set for a program container.
func BuildLabels(proj *model.Project, createdAt time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy:   ManagedByValue,
		LabelProject:     proj.Name,
		LabelProjectRoot: proj.Root,
		LabelEntry:       proj.Entry,
		LabelCreatedAt:   createdAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels reconstructs RunInfo from a container's labels.
//
// Returns an error when the project label is absent — such a container
// cannot be attributed and should have been excluded by the managed-by
// filter already. A missing or malformed created-at label degrades to a
// zero time rather than an error, since it is display-only.
func ParseLabels(labels map[string]string) (*RunInfo, error) {
	project, ok := labels[LabelProject]
	if !ok || project == "" {
		return nil, fmt.Errorf("container has no %s label", LabelProject)
	}

	info := &RunInfo{
		Project:     project,
		ProjectRoot: labels[LabelProjectRoot],
		Entry:       labels[LabelEntry],
	}

	if raw, ok := labels[LabelCreatedAt]; ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			info.CreatedAt = ts
		}
	}

	return info, nil
}
