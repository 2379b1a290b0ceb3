// Package project handles loading and validation of the venvup.jsonc
// project manifest.
//
// The manifest is optional: a project containing nothing but main.py and
// requirements.txt launches with defaults that reproduce the original
// bootstrap scripts. When present, the manifest uses JSONC (JSON with
// Comments), so this package uses github.com/tidwall/jsonc to strip
// comments before parsing with the standard encoding/json library.
//
// Key responsibilities:
//   - Locate and parse venvup.jsonc (with JSONC support)
//   - Apply defaults for every omitted field
//   - Validate the resolved configuration (name, paths, candidates)
package project
