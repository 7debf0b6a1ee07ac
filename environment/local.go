package environment

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/storage"
)

const (
	entriesFileName  = "entries.txt"
	versionsFileName = "versions.txt"
)

// LocalDirectoryEnvironment is a directory-backed environment using the
// fan-out layout of spec.md §4.2: the IRI's directory name is the lowercase
// hex SHA-256 of its UTF-8 bytes, which keeps filesystem-unsafe characters
// out of paths and gives each IRI exactly one directory.
//
//	<env_root>/
//	  entries.txt
//	  <sha256(iri)>/
//	    versions.txt
//	    <version>.kpar/
type LocalDirectoryEnvironment struct {
	Root string
}

// NewLocalDirectoryEnvironment wraps root (created on first write if
// absent) as an environment.
func NewLocalDirectoryEnvironment(root string) *LocalDirectoryEnvironment {
	return &LocalDirectoryEnvironment{Root: root}
}

func uriDir(uri string) string {
	sum := sha256.Sum256([]byte(uri))
	return hex.EncodeToString(sum[:])
}

func (e *LocalDirectoryEnvironment) entriesPath() string {
	return filepath.Join(e.Root, entriesFileName)
}

func (e *LocalDirectoryEnvironment) uriRoot(uri string) string {
	return filepath.Join(e.Root, uriDir(uri))
}

func (e *LocalDirectoryEnvironment) versionsPath(uri string) string {
	return filepath.Join(e.uriRoot(uri), versionsFileName)
}

func (e *LocalDirectoryEnvironment) versionRoot(uri, version string) string {
	return filepath.Join(e.uriRoot(uri), version+".kpar")
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// writeLinesAtomic stages the new content in a sibling temp file and
// renames it into place, so a crash mid-write never leaves a truncated
// index file (spec.md §9's "write to a staging directory and rename on
// success" improvement, applied here to the index files themselves).
func writeLinesAtomic(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir for %s", path)
	}
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "stage %s", path)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close %s", path)
	}
	return errors.Wrapf(os.Rename(tmpName, path), "rename into %s", path)
}

func appendLineIfAbsent(path, line string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if l == line {
			return nil
		}
	}
	return writeLinesAtomic(path, append(lines, line))
}

func removeLine(path, line string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	out := lines[:0:0]
	for _, l := range lines {
		if l != line {
			out = append(out, l)
		}
	}
	return writeLinesAtomic(path, out)
}

func (e *LocalDirectoryEnvironment) URIs() ([]string, error) {
	return readLines(e.entriesPath())
}

func (e *LocalDirectoryEnvironment) Versions(uri string) ([]string, error) {
	versions, err := readLines(e.versionsPath(uri))
	if err != nil {
		return nil, err
	}
	sort.Strings(versions)
	return versions, nil
}

func (e *LocalDirectoryEnvironment) Has(uri string) (bool, error) {
	uris, err := e.URIs()
	if err != nil {
		return false, err
	}
	for _, u := range uris {
		if u == uri {
			return true, nil
		}
	}
	return false, nil
}

func (e *LocalDirectoryEnvironment) HasVersion(uri, version string) (bool, error) {
	versions, err := e.Versions(uri)
	if err != nil {
		return false, err
	}
	for _, v := range versions {
		if v == version {
			return true, nil
		}
	}
	return false, nil
}

func (e *LocalDirectoryEnvironment) GetProject(uri, version string) (storage.ProjectRead, error) {
	ok, err := e.HasVersion(uri, version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("unknown version %q of %q", version, uri)
	}
	return storage.NewLocalProject(e.versionRoot(uri, version)), nil
}

// PutProject stages the populated project in a sibling temp directory and
// renames it into place before touching the index files, so a populate
// failure never leaves a half-written project visible under its final
// path. This supersedes the non-atomic behaviour spec.md §9 identifies as
// an open concern in the original implementation.
func (e *LocalDirectoryEnvironment) PutProject(uri, version string, populate func(storage.ProjectWrite) error) error {
	uriRoot := e.uriRoot(uri)
	if err := os.MkdirAll(uriRoot, 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", uriRoot)
	}

	staging, err := os.MkdirTemp(uriRoot, ".staging-*")
	if err != nil {
		return errors.Wrap(err, "create staging directory")
	}
	defer os.RemoveAll(staging)

	target := e.versionRoot(uri, version)
	project := storage.NewLocalProject(staging)
	if err := populate(project); err != nil {
		return err
	}

	if err := os.RemoveAll(target); err != nil {
		return errors.Wrapf(err, "clear %s", target)
	}
	if err := os.Rename(staging, target); err != nil {
		return errors.Wrapf(err, "install %s", target)
	}

	if err := appendLineIfAbsent(e.versionsPath(uri), version); err != nil {
		return err
	}
	return appendLineIfAbsent(e.entriesPath(), uri)
}

func (e *LocalDirectoryEnvironment) DelProjectVersion(uri, version string) error {
	if err := removeLine(e.versionsPath(uri), version); err != nil {
		return err
	}
	// Filesystem cleanup of project bytes is best-effort, per spec.md §4.2.
	_ = os.RemoveAll(e.versionRoot(uri, version))

	remaining, err := readLines(e.versionsPath(uri))
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		// has(uri) must become false once its last version is gone, per
		// spec.md §8: drop the entry and the now-empty uri directory.
		if err := removeLine(e.entriesPath(), uri); err != nil {
			return err
		}
		_ = os.RemoveAll(e.uriRoot(uri))
	}
	return nil
}

func (e *LocalDirectoryEnvironment) DelUri(uri string) error {
	// Per spec.md §9's open question, a complete implementation removes
	// the IRI directory recursively, not merely the entries.txt line.
	if err := removeLine(e.entriesPath(), uri); err != nil {
		return err
	}
	return os.RemoveAll(e.uriRoot(uri))
}

var _ Environment = (*LocalDirectoryEnvironment)(nil)
