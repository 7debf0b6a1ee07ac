package storage

import (
	"sync"

	"github.com/sensmetry/sysand/kip"
)

// ReferenceProject is a shared-ownership wrapper so the same underlying
// storage can be named from multiple resolvers without cloning it, per
// spec.md §4.1 "Reference". Reads are serialised with a mutex since the
// inner storage may not itself be safe for concurrent access (e.g. a
// backend that lazily fetches on first read).
type ReferenceProject struct {
	mu    sync.Mutex
	inner ProjectRead
}

// NewReferenceProject wraps inner for shared use.
func NewReferenceProject(inner ProjectRead) *ReferenceProject {
	return &ReferenceProject{inner: inner}
}

func (r *ReferenceProject) GetInfo() (*kip.InfoRaw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.GetInfo()
}

func (r *ReferenceProject) GetMeta() (*kip.MetaRaw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.GetMeta()
}

func (r *ReferenceProject) ReadSource(path string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.ReadSource(path)
}

func (r *ReferenceProject) Sources() []kip.SourceDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.Sources()
}

var _ ProjectRead = (*ReferenceProject)(nil)
