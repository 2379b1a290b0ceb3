package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelUpz/venvup/internal/model"
)

// testProject returns a resolved project for label tests.
func testProject() *model.Project {
	return &model.Project{
		Name:             "copy-engine",
		Root:             "/home/u/copy-engine",
		Entry:            "main.py",
		Requirements:     "requirements.txt",
		VenvDir:          "venv",
		ContainerImage:   "python:3.12-slim",
		ContainerWorkdir: "/app",
	}
}

// TestBuildLabels verifies the full label set written onto a program
// container, which is the only persistence the container backend has.
func TestBuildLabels(t *testing.T) {
	createdAt := time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC)

	labels := BuildLabels(testProject(), createdAt)

	assert.Equal(t, ManagedByValue, labels[LabelManagedBy])
	assert.Equal(t, "copy-engine", labels[LabelProject])
	assert.Equal(t, "/home/u/copy-engine", labels[LabelProjectRoot])
	assert.Equal(t, "main.py", labels[LabelEntry])
	assert.Equal(t, "2026-08-24T09:30:00Z", labels[LabelCreatedAt])
}

// TestParseLabels_RoundTrip verifies that RunInfo reconstructed from
// built labels matches the original project metadata.
func TestParseLabels_RoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC)
	labels := BuildLabels(testProject(), createdAt)

	info, err := ParseLabels(labels)
	require.NoError(t, err)

	assert.Equal(t, "copy-engine", info.Project)
	assert.Equal(t, "/home/u/copy-engine", info.ProjectRoot)
	assert.Equal(t, "main.py", info.Entry)
	assert.True(t, info.CreatedAt.Equal(createdAt))
}

// TestParseLabels_MissingProject verifies that a container without the
// project label cannot be attributed and is rejected.
func TestParseLabels_MissingProject(t *testing.T) {
	_, err := ParseLabels(map[string]string{
		LabelManagedBy: ManagedByValue,
	})
	require.Error(t, err)
}

// TestParseLabels_BadTimestamp verifies that a malformed created-at label
// degrades to a zero time instead of failing — it is display-only.
func TestParseLabels_BadTimestamp(t *testing.T) {
	info, err := ParseLabels(map[string]string{
		LabelProject:   "copy-engine",
		LabelCreatedAt: "yesterday",
	})
	require.NoError(t, err)
	assert.True(t, info.CreatedAt.IsZero())
}

// TestFilterByProject verifies label-based filtering of the managed
// container list down to a single project.
func TestFilterByProject(t *testing.T) {
	containers := []model.ContainerInfo{
		{ContainerID: "a", Labels: map[string]string{LabelProject: "copy-engine"}},
		{ContainerID: "b", Labels: map[string]string{LabelProject: "other"}},
		{ContainerID: "c", Labels: map[string]string{LabelProject: "copy-engine"}},
	}

	matched := FilterByProject(containers, "copy-engine")
	require.Len(t, matched, 2)
	assert.Equal(t, "a", matched[0].ContainerID)
	assert.Equal(t, "c", matched[1].ContainerID)
}
