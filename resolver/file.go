package resolver

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/storage"
)

// FileResolver resolves file:// IRIs (and bare relative/absolute paths) to
// a single storage.LocalProject, per spec.md §4.3. SandboxRoots, if
// non-empty, restricts resolution to paths under one of the listed roots.
// RelativePathRoot anchors relative paths when the IRI carries none of its
// own (defaulting to the process's working directory).
type FileResolver struct {
	SandboxRoots     []string
	RelativePathRoot string
}

func filePathFromIRI(iri string) (string, bool) {
	if strings.HasPrefix(iri, "file://") {
		return strings.TrimPrefix(iri, "file://"), true
	}
	if strings.HasPrefix(iri, "file:") {
		return strings.TrimPrefix(iri, "file:"), true
	}
	return "", false
}

func (r *FileResolver) Resolve(iri string) (Outcome, error) {
	path, isFileScheme := filePathFromIRI(iri)
	if !isFileScheme {
		return UnsupportedOutcome("not a file:// IRI: " + iri), nil
	}

	if !filepath.IsAbs(path) {
		root := r.RelativePathRoot
		if root == "" {
			root = "."
		}
		path = filepath.Join(root, path)
	}

	if len(r.SandboxRoots) > 0 {
		allowed := false
		for _, sandbox := range r.SandboxRoots {
			rel, err := filepath.Rel(sandbox, path)
			if err == nil && !strings.HasPrefix(rel, "..") {
				allowed = true
				break
			}
		}
		if !allowed {
			return UnresolvableOutcome("path outside sandbox roots: " + path), nil
		}
	}

	info, err := statDir(path)
	if err != nil {
		return UnresolvableOutcome(errors.Wrapf(err, "stat %s", path).Error()), nil
	}
	if !info {
		return UnresolvableOutcome("not a directory: " + path), nil
	}

	return ResolvedOutcome(storage.NewLocalProject(path)), nil
}

var _ Resolver = (*FileResolver)(nil)
