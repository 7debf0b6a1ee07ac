package storage

import (
	"github.com/sensmetry/sysand/kip"
)

// MemoryProject is a map-backed project storage, used for tests and
// interchange between backends, per spec.md §4.1.
type MemoryProject struct {
	Info    *kip.InfoRaw
	Meta    *kip.MetaRaw
	Files   map[string][]byte
	sources []kip.SourceDescriptor
}

// NewMemoryProject constructs an empty in-memory project storage.
func NewMemoryProject() *MemoryProject {
	return &MemoryProject{Files: map[string][]byte{}}
}

func (m *MemoryProject) GetInfo() (*kip.InfoRaw, error) { return m.Info, nil }
func (m *MemoryProject) GetMeta() (*kip.MetaRaw, error) { return m.Meta, nil }

func (m *MemoryProject) ReadSource(path string) ([]byte, error) {
	data, ok := m.Files[path]
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	return data, nil
}

func (m *MemoryProject) Sources() []kip.SourceDescriptor { return m.sources }

// SetSources overrides the descriptors returned by Sources, for backends
// composed atop a MemoryProject (e.g. a fetched-and-cached remote archive).
func (m *MemoryProject) SetSources(s []kip.SourceDescriptor) { m.sources = s }

func (m *MemoryProject) PutInfo(raw kip.InfoRaw, overwrite bool) error {
	if m.Info != nil && !overwrite {
		return &AlreadyExistsError{What: ".project.json"}
	}
	m.Info = &raw
	return nil
}

func (m *MemoryProject) PutMeta(raw kip.MetaRaw, overwrite bool) error {
	if m.Meta != nil && !overwrite {
		return &AlreadyExistsError{What: ".meta.json"}
	}
	m.Meta = &raw
	return nil
}

func (m *MemoryProject) WriteSource(path string, data []byte, overwrite bool) error {
	if _, ok := m.Files[path]; ok && !overwrite {
		return &AlreadyExistsError{What: path}
	}
	cp := append([]byte(nil), data...)
	m.Files[path] = cp
	return nil
}

func (m *MemoryProject) IncludeSource(path string, computeChecksum, updateIndex bool) error {
	return IncludeSourceDefault(m, path, computeChecksum, updateIndex)
}

func (m *MemoryProject) ExcludeSource(path string) (bool, error) {
	return ExcludeSourceDefault(m, path)
}

var _ ProjectWrite = (*MemoryProject)(nil)
