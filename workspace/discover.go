// Package workspace implements project discovery and the `.workspace.json`
// multi-project layout described in spec.md's supplemented features,
// grounded on original_source/core/src/discover.rs and workspace.rs.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrProjectNotFound is returned by Discover when no ancestor directory of
// the starting point carries a .project.json or .meta.json.
var ErrProjectNotFound = errors.New("could not find a sysand project in this directory or any parent")

// Discover searches from startDir upwards for a directory containing
// .project.json or .meta.json, returning that directory. Grounded on
// findProjectRoot's upward walk, generalised to the two manifest names
// discover_project checks.
func Discover(startDir string) (string, error) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrap(err, "resolve starting directory")
	}

	for {
		if hasManifest(current) {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrProjectNotFound
		}
		current = parent
	}
}

// CurrentProject discovers a project starting from the process's current
// working directory.
func CurrentProject() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "get working directory")
	}
	return Discover(wd)
}

func hasManifest(dir string) bool {
	for _, name := range []string{".project.json", ".meta.json"} {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
