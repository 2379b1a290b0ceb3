// Package python provides Python interpreter discovery and virtual
// environment lifecycle operations.
//
// This package wraps the Python CLI (via os/exec) to probe interpreters,
// create virtual environments, and install dependencies with pip. It is
// the Python integration layer for venvup, playing the role the shell
// bootstrap scripts played in the original project.
//
// Design decisions:
//   - We shell out to `python -m venv` and `python -m pip` rather than
//     reimplementing environment creation, because venv and pip are the
//     tools of record and their observable behavior is the contract.
//   - The venv's own interpreter is used for pip and for launching, which
//     makes sourcing an activate script unnecessary.
//   - An install-state file inside the venv records the requirements hash
//     so that unchanged dependencies are not reinstalled on every run.
//   - All errors from subprocesses are wrapped in model.CLIError with the
//     matching taxonomy code to enable proper CLI exit handling.
package python
