package environment

import (
	"sync"

	"github.com/sensmetry/sysand/storage"
)

// CachedDirectoryEnvironment wraps a LocalDirectoryEnvironment with an
// in-memory radix-tree cache of each IRI's known versions, so that a
// solver run issuing many repeated Versions()/HasVersion() calls for the
// same IRI does not re-read versions.txt off disk every time. Writes
// invalidate the affected IRI's cache entry.
type CachedDirectoryEnvironment struct {
	inner *LocalDirectoryEnvironment

	mu    sync.Mutex
	cache uriTrie
}

// NewCachedDirectoryEnvironment wraps inner with a version cache.
func NewCachedDirectoryEnvironment(inner *LocalDirectoryEnvironment) *CachedDirectoryEnvironment {
	return &CachedDirectoryEnvironment{inner: inner, cache: newURITrie()}
}

func (c *CachedDirectoryEnvironment) URIs() ([]string, error) {
	return c.inner.URIs()
}

func (c *CachedDirectoryEnvironment) Versions(uri string) ([]string, error) {
	c.mu.Lock()
	if cached, ok := c.cache.Get(uri); ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	versions, err := c.inner.Versions(uri)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.Insert(uri, versions)
	c.mu.Unlock()
	return versions, nil
}

func (c *CachedDirectoryEnvironment) Has(uri string) (bool, error) {
	return c.inner.Has(uri)
}

func (c *CachedDirectoryEnvironment) HasVersion(uri, version string) (bool, error) {
	versions, err := c.Versions(uri)
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

func (c *CachedDirectoryEnvironment) GetProject(uri, version string) (storage.ProjectRead, error) {
	return c.inner.GetProject(uri, version)
}

func (c *CachedDirectoryEnvironment) invalidate(uri string) {
	c.mu.Lock()
	c.cache.Delete(uri)
	c.mu.Unlock()
}

func (c *CachedDirectoryEnvironment) PutProject(uri, version string, populate func(storage.ProjectWrite) error) error {
	if err := c.inner.PutProject(uri, version, populate); err != nil {
		return err
	}
	c.invalidate(uri)
	return nil
}

func (c *CachedDirectoryEnvironment) DelProjectVersion(uri, version string) error {
	if err := c.inner.DelProjectVersion(uri, version); err != nil {
		return err
	}
	c.invalidate(uri)
	return nil
}

func (c *CachedDirectoryEnvironment) DelUri(uri string) error {
	if err := c.inner.DelUri(uri); err != nil {
		return err
	}
	c.invalidate(uri)
	return nil
}

var _ Environment = (*CachedDirectoryEnvironment)(nil)
