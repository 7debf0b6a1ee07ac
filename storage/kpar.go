package storage

import (
	"os"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
	"github.com/sensmetry/sysand/kpar"
)

// KparProject is a read-only project storage backed by an opened .kpar ZIP
// archive, per spec.md §4.1 "LocalKpar".
type KparProject struct {
	path    string
	file    *os.File
	archive *kpar.Archive
}

// OpenKparProject opens path as a .kpar archive.
func OpenKparProject(path string) (*KparProject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	a, err := kpar.Open(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return &KparProject{path: path, file: f, archive: a}, nil
}

// Close releases the underlying file handle.
func (k *KparProject) Close() error { return k.file.Close() }

func (k *KparProject) GetInfo() (*kip.InfoRaw, error) { return k.archive.ReadInfo() }
func (k *KparProject) GetMeta() (*kip.MetaRaw, error) { return k.archive.ReadMeta() }

func (k *KparProject) ReadSource(path string) ([]byte, error) {
	data, err := k.archive.ReadSource(path)
	if errors.Is(err, kpar.ErrNotFound) {
		return nil, &NotFoundError{Path: path}
	}
	return data, err
}

func (k *KparProject) Sources() []kip.SourceDescriptor {
	return []kip.SourceDescriptor{kip.LocalKpar(k.path)}
}

// BuildKpar writes a new .kpar archive at destPath from the contents of
// src, per spec.md §6. The manifests are copied as src holds them:
// checksums are not computed, and sources without a checksum entry in
// src's meta get none in the archive.
func BuildKpar(src ProjectRead, destPath string) error {
	rawInfo, rawMeta, err := GetProject(src)
	if err != nil {
		return err
	}
	if rawInfo == nil || rawMeta == nil {
		return errors.New("cannot build a .kpar from an incomplete project")
	}
	meta, err := rawMeta.Validate()
	if err != nil {
		return errors.Wrap(err, "validate meta")
	}

	f, err := os.Create(destPath)
	if err != nil {
		return errors.Wrapf(err, "create %s", destPath)
	}
	defer f.Close()

	w := kpar.NewWriter(f)
	if err := w.WriteInfo(*rawInfo); err != nil {
		return err
	}
	if err := w.WriteMeta(*rawMeta); err != nil {
		return err
	}
	for _, path := range meta.SourcePaths() {
		data, err := src.ReadSource(path)
		if err != nil {
			return errors.Wrapf(err, "read source %s", path)
		}
		if err := w.WriteSource(path, data); err != nil {
			return err
		}
	}
	return w.Close()
}

var _ ProjectRead = (*KparProject)(nil)
