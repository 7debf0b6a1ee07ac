package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
)

const (
	projectManifestFile = ".project.json"
	metaManifestFile    = ".meta.json"
)

// LocalProject is a directory-backed project storage: manifests are
// .project.json and .meta.json in the root, sources are plain files, per
// spec.md §4.1 "LocalSrc".
type LocalProject struct {
	Root string
}

// NewLocalProject wraps an existing directory (which need not yet contain
// any manifests) as a project storage.
func NewLocalProject(root string) *LocalProject {
	return &LocalProject{Root: root}
}

func (l *LocalProject) manifestPath(name string) string {
	return filepath.Join(l.Root, name)
}

func (l *LocalProject) GetInfo() (*kip.InfoRaw, error) {
	return readJSONIfExists[kip.InfoRaw](l.manifestPath(projectManifestFile))
}

func (l *LocalProject) GetMeta() (*kip.MetaRaw, error) {
	return readJSONIfExists[kip.MetaRaw](l.manifestPath(metaManifestFile))
}

func readJSONIfExists[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &v, nil
}

func (l *LocalProject) ReadSource(path string) ([]byte, error) {
	if err := kip.ValidatePath(path); err != nil {
		return nil, err
	}
	full := filepath.Join(l.Root, filepath.FromSlash(path))
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}

func (l *LocalProject) Sources() []kip.SourceDescriptor {
	return []kip.SourceDescriptor{kip.LocalSrc(l.Root)}
}

func (l *LocalProject) PutInfo(raw kip.InfoRaw, overwrite bool) error {
	return writeJSONManifest(l.manifestPath(projectManifestFile), raw, overwrite)
}

func (l *LocalProject) PutMeta(raw kip.MetaRaw, overwrite bool) error {
	return writeJSONManifest(l.manifestPath(metaManifestFile), raw, overwrite)
}

func writeJSONManifest(path string, v interface{}, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return &AlreadyExistsError{What: path}
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}

func (l *LocalProject) WriteSource(path string, data []byte, overwrite bool) error {
	if err := kip.ValidatePath(path); err != nil {
		return err
	}
	full := filepath.Join(l.Root, filepath.FromSlash(path))
	if !overwrite {
		if _, err := os.Stat(full); err == nil {
			return &AlreadyExistsError{What: path}
		}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir for %s", path)
	}
	return errors.Wrapf(os.WriteFile(full, data, 0o644), "write %s", path)
}

func (l *LocalProject) IncludeSource(path string, computeChecksum, updateIndex bool) error {
	return IncludeSourceDefault(l, path, computeChecksum, updateIndex)
}

func (l *LocalProject) ExcludeSource(path string) (bool, error) {
	return ExcludeSourceDefault(l, path)
}

var _ ProjectWrite = (*LocalProject)(nil)
