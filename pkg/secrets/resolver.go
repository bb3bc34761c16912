// Package secrets resolves vendor credentials from an ordered chain of
// sources: an explicit request-supplied value, the process environment, and a
// local secrets file. Resolution performs a fresh file read on every call so
// concurrent requests can never race on a stale value; call volume is low
// enough that the extra read does not matter.
package secrets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the well-known local secrets file name.
const FileName = "secrets.local.json"

// Resolver looks up named secrets across the resolution chain.
type Resolver struct {
	paths []string
}

// NewResolver builds a resolver with the default candidate file paths
// (working directory, then executable directory) plus any extras.
func NewResolver(extraPaths ...string) *Resolver {
	var paths []string
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, FileName))
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), FileName))
	}
	paths = append(paths, extraPaths...)
	return &Resolver{paths: paths}
}

// Resolve returns the value for name, preferring the explicit request-body
// value, then the process environment, then the secrets file. The second
// return reports whether any source produced a non-empty value.
func (r *Resolver) Resolve(name, explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if val := os.Getenv(name); val != "" {
		return val, true
	}
	if val, ok := r.fromFile(name); ok {
		return val, true
	}
	return "", false
}

// EnvSet reports whether name is set as a process environment variable.
// Used by the health endpoint; the value itself is never exposed.
func (r *Resolver) EnvSet(name string) bool {
	return os.Getenv(name) != ""
}

// FileDetected reports whether a readable secrets file exists at any
// candidate path.
func (r *Resolver) FileDetected() bool {
	_, ok := r.FilePath()
	return ok
}

// FilePath returns the first existing candidate secrets file path.
func (r *Resolver) FilePath() (string, bool) {
	for _, p := range r.paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// fromFile reads the secrets file and looks up name, matching the exact key
// first and the lower-cased key second. Vendor deployments have shipped both
// spellings.
func (r *Resolver) fromFile(name string) (string, bool) {
	path, ok := r.FilePath()
	if !ok {
		return "", false
	}

	//nolint:gosec // Candidate paths are fixed at construction
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", false
	}

	if val, ok := stringValue(raw[name]); ok {
		return val, true
	}
	if val, ok := stringValue(raw[strings.ToLower(name)]); ok {
		return val, true
	}
	return "", false
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
