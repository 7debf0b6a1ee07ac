// Package kpar implements the .kpar archive format of spec.md §6: a ZIP
// file containing .project.json, .meta.json and the source files named by
// meta's index/checksum, either at the archive root or under exactly one
// top-level directory.
package kpar

import (
	"archive/zip"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
)

const (
	projectManifestName = ".project.json"
	metaManifestName    = ".meta.json"
)

// Archive is a read view over an opened .kpar ZIP archive.
type Archive struct {
	zr     *zip.Reader
	prefix string // top-level directory, with trailing slash, or "" if rooted
}

// Open inspects r (size in bytes) and locates the manifest root: either the
// archive root, or the single top-level directory containing the manifests.
func Open(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "open kpar archive")
	}

	if hasAt(zr, "", projectManifestName) {
		return &Archive{zr: zr, prefix: ""}, nil
	}

	dirs := map[string]bool{}
	for _, f := range zr.File {
		if idx := strings.IndexByte(f.Name, '/'); idx >= 0 {
			dirs[f.Name[:idx+1]] = true
		}
	}
	for dir := range dirs {
		if hasAt(zr, dir, projectManifestName) {
			return &Archive{zr: zr, prefix: dir}, nil
		}
	}

	return nil, errors.New("kpar archive has no .project.json at its root or under a single top-level directory")
}

func hasAt(zr *zip.Reader, prefix, name string) bool {
	for _, f := range zr.File {
		if f.Name == prefix+name {
			return true
		}
	}
	return false
}

func (a *Archive) find(name string) *zip.File {
	for _, f := range a.zr.File {
		if f.Name == a.prefix+name {
			return f
		}
	}
	return nil
}

// ReadInfo returns the raw project information manifest, or nil if absent.
func (a *Archive) ReadInfo() (*kip.InfoRaw, error) {
	f := a.find(projectManifestName)
	if f == nil {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open .project.json")
	}
	defer rc.Close()
	var raw kip.InfoRaw
	if err := json.NewDecoder(rc).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode .project.json")
	}
	return &raw, nil
}

// ReadMeta returns the raw project metadata manifest, or nil if absent.
func (a *Archive) ReadMeta() (*kip.MetaRaw, error) {
	f := a.find(metaManifestName)
	if f == nil {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open .meta.json")
	}
	defer rc.Close()
	var raw kip.MetaRaw
	if err := json.NewDecoder(rc).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode .meta.json")
	}
	return &raw, nil
}

// ErrNotFound is returned by ReadSource when path is not present.
var ErrNotFound = errors.New("source not found in kpar archive")

// ReadSource returns the bytes of a source file at the given unix-relative
// path within the archive.
func (a *Archive) ReadSource(path string) ([]byte, error) {
	f := a.find(path)
	if f == nil {
		return nil, ErrNotFound
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Paths lists the source-file paths in the archive, excluding the two
// manifests, sorted for determinism.
func (a *Archive) Paths() []string {
	var paths []string
	for _, f := range a.zr.File {
		if !strings.HasPrefix(f.Name, a.prefix) || f.FileInfo().IsDir() {
			continue
		}
		rel := strings.TrimPrefix(f.Name, a.prefix)
		if rel == projectManifestName || rel == metaManifestName {
			continue
		}
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths
}

// Writer builds a .kpar archive at the archive root (no top-level
// directory wrapper).
type Writer struct {
	zw *zip.Writer
}

// NewWriter wraps w as a kpar archive writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{zw: zip.NewWriter(w)}
}

// WriteInfo writes the .project.json manifest.
func (w *Writer) WriteInfo(raw kip.InfoRaw) error {
	return w.writeJSON(projectManifestName, raw)
}

// WriteMeta writes the .meta.json manifest.
func (w *Writer) WriteMeta(raw kip.MetaRaw) error {
	return w.writeJSON(metaManifestName, raw)
}

func (w *Writer) writeJSON(name string, v interface{}) error {
	f, err := w.zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Wrapf(enc.Encode(v), "encode %s", name)
}

// WriteSource writes a source file's bytes at the given unix-relative path.
func (w *Writer) WriteSource(path string, data []byte) error {
	f, err := w.zw.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	_, err = f.Write(data)
	return errors.Wrapf(err, "write %s", path)
}

// Close finalises the archive.
func (w *Writer) Close() error {
	return w.zw.Close()
}
