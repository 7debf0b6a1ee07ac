package storage

import "github.com/sensmetry/sysand/kip"

// CachedProject reads through Local while reporting Remote's source
// descriptors, per spec.md §4.1 "Cached": a pair of (local, remote) where
// reads are served from the local copy but lockfile emission still
// identifies the remote origin.
type CachedProject struct {
	Local  ProjectRead
	Remote ProjectRead
}

func (c *CachedProject) GetInfo() (*kip.InfoRaw, error) { return c.Local.GetInfo() }
func (c *CachedProject) GetMeta() (*kip.MetaRaw, error) { return c.Local.GetMeta() }
func (c *CachedProject) ReadSource(path string) ([]byte, error) {
	return c.Local.ReadSource(path)
}
func (c *CachedProject) Sources() []kip.SourceDescriptor { return c.Remote.Sources() }

var _ ProjectRead = (*CachedProject)(nil)
