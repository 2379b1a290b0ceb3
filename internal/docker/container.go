// container.go implements the one-shot program container lifecycle:
// ensure the image is present, create a container with the project
// bind-mounted, start it, stream its output, wait for it to exit, and
// propagate its exit status. It also provides label-based discovery of
// managed containers for the status and clean commands.
package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/hotelUpz/venvup/internal/model"
)

// RunSpec describes a single program run inside a container.
type RunSpec struct {
	// Project is the resolved project configuration. Its root directory
	// is bind-mounted at Project.ContainerWorkdir.
	Project *model.Project

	// Args are extra arguments appended after the entry point.
	Args []string

	// Stdout and Stderr receive the demuxed container output.
	Stdout io.Writer
	Stderr io.Writer
}

// RunProgram executes the project's entry point inside a container and
// blocks until it exits.
//
// The container runs `python <entry> <args...>` in the image's stock
// interpreter — dependency installation happens via pip at container
// start when a requirements file exists, keeping parity with the venv
// backend's install-then-launch sequence.
//
// Returns nil on a zero exit status. A non-zero status becomes a
// *model.ProgramExitError, mirroring the venv backend's propagation
// contract. The container is removed afterwards in both cases.
func RunProgram(ctx context.Context, cli *Client, spec RunSpec) error {
	if spec.Stdout == nil {
		spec.Stdout = os.Stdout
	}
	if spec.Stderr == nil {
		spec.Stderr = os.Stderr
	}

	if err := ensureImage(ctx, cli, spec.Project.ContainerImage, spec.Stderr); err != nil {
		return err
	}

	containerName := fmt.Sprintf("venvup-%s-%d", spec.Project.Name, time.Now().Unix())

	cfg := &container.Config{
		Image:      spec.Project.ContainerImage,
		Cmd:        buildCommand(spec.Project, spec.Args),
		WorkingDir: spec.Project.ContainerWorkdir,
		Env:        buildEnv(spec.Project),
		Labels:     BuildLabels(spec.Project, time.Now()),
	}

	hostCfg := &container.HostConfig{
		// Bind-mount the project read-write: the program may write logs
		// and state into its own directory, as the original one does.
		Binds: []string{spec.Project.Root + ":" + spec.Project.ContainerWorkdir},
	}

	created, err := cli.Inner().ContainerCreate(ctx, cfg, hostCfg, nil, nil, containerName)
	if err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create container %q", containerName), err)
	}

	// Best-effort removal once the run is over, success or not. The
	// container's purpose ends with the program; only its labels matter
	// while it exists, for status to report in-flight runs.
	defer func() {
		_ = cli.Inner().ContainerRemove(context.WithoutCancel(ctx), created.ID,
			container.RemoveOptions{Force: true})
	}()

	if err := cli.Inner().ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start container %q", containerName), err)
	}

	if err := streamLogs(ctx, cli, created.ID, spec.Stdout, spec.Stderr); err != nil {
		return err
	}

	status, err := waitForExit(ctx, cli, created.ID)
	if err != nil {
		return err
	}
	if status != 0 {
		return &model.ProgramExitError{Code: status}
	}
	return nil
}

// buildCommand assembles the in-container command line. When the project
// has a requirements file, the install step is chained before the entry
// point with a shell so a single container performs the full sequence.
func buildCommand(proj *model.Project, extraArgs []string) []string {
	entryCmd := append([]string{"python", proj.Entry}, proj.Args...)
	entryCmd = append(entryCmd, extraArgs...)

	if _, err := os.Stat(filepath.Join(proj.Root, proj.Requirements)); err != nil {
		return entryCmd
	}

	// sh -c "python -m pip install -r requirements.txt && python main.py ..."
	// The && preserves fail-fast: a failed install never reaches the entry.
	install := fmt.Sprintf("python -m pip install -r %s", shellQuote(proj.Requirements))
	run := strings.Join(quoteAll(entryCmd), " ")
	return []string{"sh", "-c", install + " && " + run}
}

// buildEnv converts the project's extra environment map into the KEY=VALUE
// slice form the Docker API expects.
func buildEnv(proj *model.Project) []string {
	env := make([]string, 0, len(proj.Env))
	for key, value := range proj.Env {
		env = append(env, key+"="+value)
	}
	return env
}

// quoteAll shell-quotes every element of a command line.
func quoteAll(parts []string) []string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = shellQuote(p)
	}
	return quoted
}

// shellQuote single-quotes a string for POSIX sh, escaping embedded
// single quotes. The container side is always Linux, so sh quoting rules
// apply regardless of the host platform.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ensureImage makes sure the image is available locally, pulling it when
// absent. Pull progress is written to the progress writer as raw JSON
// lines from the daemon; callers typically pass stderr.
func ensureImage(ctx context.Context, cli *Client, ref string, progress io.Writer) error {
	_, _, err := cli.Inner().ImageInspectWithRaw(ctx, ref)
	if err == nil {
		return nil
	}
	if !client.IsErrNotFound(err) {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to inspect image %q", ref), err)
	}

	reader, err := cli.Inner().ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to pull image %q", ref), err)
	}
	defer func() { _ = reader.Close() }()

	// The pull stream must be drained for the pull to complete, even if
	// the caller discards the progress output.
	if _, err := io.Copy(progress, reader); err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("image pull for %q interrupted", ref), err)
	}
	return nil
}

// streamLogs follows the container's output until it closes, demuxing the
// Docker multiplexed stream into stdout and stderr.
func streamLogs(ctx context.Context, cli *Client, containerID string, stdout, stderr io.Writer) error {
	logs, err := cli.Inner().ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning, "failed to attach to container logs", err)
	}
	defer func() { _ = logs.Close() }()

	// StdCopy demultiplexes the raw stream; it returns when the container's
	// output closes, i.e. when the program exits.
	if _, err := stdcopy.StdCopy(stdout, stderr, logs); err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning, "container log stream failed", err)
	}
	return nil
}

// waitForExit blocks until the container stops and returns its exit status.
func waitForExit(ctx context.Context, cli *Client, containerID string) (int, error) {
	waitCh, errCh := cli.Inner().ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case result := <-waitCh:
		if result.Error != nil {
			return 0, model.NewCLIError(model.ExitDockerNotRunning,
				fmt.Sprintf("container wait reported error: %s", result.Error.Message))
		}
		return int(result.StatusCode), nil
	case err := <-errCh:
		return 0, model.WrapCLIError(model.ExitDockerNotRunning, "failed to wait for container", err)
	}
}

// ListManagedContainers queries the Docker daemon for all containers with
// the "venvup.managed-by=venvup" label, including stopped ones. This is
// the discovery entry point for the status and clean commands — container
// labels are the only state the container backend keeps.
func ListManagedContainers(ctx context.Context, cli *Client) ([]model.ContainerInfo, error) {
	// Filter server-side by label instead of listing everything and
	// filtering in Go.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "failed to list Docker containers", err)
	}

	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}
	return result, nil
}

// FilterByProject returns only the containers whose project label matches
// the given name.
func FilterByProject(containers []model.ContainerInfo, project string) []model.ContainerInfo {
	var matched []model.ContainerInfo
	for _, c := range containers {
		if c.Labels[LabelProject] == project {
			matched = append(matched, c)
		}
	}
	return matched
}

// RemoveContainer force-removes a container by ID. Used by clean to drop
// leftover program containers (e.g., after an interrupted run).
func RemoveContainer(ctx context.Context, cli *Client, containerID string) error {
	err := cli.Inner().ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
	if err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to remove container %q", containerID), err)
	}
	return nil
}

// containerToInfo converts a Docker API container struct to the domain
// model ContainerInfo, decoupling callers from SDK types. Docker returns
// names with a leading "/" that is stripped for display.
func containerToInfo(c types.Container) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		Status:        c.State,
		Labels:        c.Labels,
	}
}
