package storage

import "github.com/sensmetry/sysand/kip"

// EditableProject wraps another storage, changing only Sources: it reports
// a single Editable source descriptor naming path; the inner storage's own
// descriptors are not included.
type EditableProject struct {
	Path  string
	Inner ProjectWrite
}

func (e *EditableProject) GetInfo() (*kip.InfoRaw, error) { return e.Inner.GetInfo() }
func (e *EditableProject) GetMeta() (*kip.MetaRaw, error) { return e.Inner.GetMeta() }
func (e *EditableProject) ReadSource(path string) ([]byte, error) {
	return e.Inner.ReadSource(path)
}

func (e *EditableProject) Sources() []kip.SourceDescriptor {
	return []kip.SourceDescriptor{kip.Editable(e.Path)}
}

func (e *EditableProject) PutInfo(raw kip.InfoRaw, overwrite bool) error {
	return e.Inner.PutInfo(raw, overwrite)
}
func (e *EditableProject) PutMeta(raw kip.MetaRaw, overwrite bool) error {
	return e.Inner.PutMeta(raw, overwrite)
}
func (e *EditableProject) WriteSource(path string, data []byte, overwrite bool) error {
	return e.Inner.WriteSource(path, data, overwrite)
}
func (e *EditableProject) IncludeSource(path string, computeChecksum, updateIndex bool) error {
	return e.Inner.IncludeSource(path, computeChecksum, updateIndex)
}
func (e *EditableProject) ExcludeSource(path string) (bool, error) {
	return e.Inner.ExcludeSource(path)
}

var _ ProjectWrite = (*EditableProject)(nil)
