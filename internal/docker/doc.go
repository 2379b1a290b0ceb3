// Package docker implements the container backend: running the project's
// entry point inside a Docker container instead of a local virtual
// environment.
//
// The package wraps the Docker Engine SDK client with automatic socket
// detection across platforms, runs one-shot program containers (pull,
// create, start, stream logs, wait, remove), and maintains the venvup.*
// label schema that lets status and clean discover containers belonging
// to a project without any external state file.
package docker
