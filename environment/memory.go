package environment

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/storage"
)

// MemoryEnvironment is a map-backed environment, per spec.md §4.2.
type MemoryEnvironment struct {
	mu       sync.Mutex
	projects map[string]map[string]*storage.MemoryProject
	order    []string // URI insertion order
}

// NewMemoryEnvironment constructs an empty in-memory environment.
func NewMemoryEnvironment() *MemoryEnvironment {
	return &MemoryEnvironment{projects: map[string]map[string]*storage.MemoryProject{}}
}

func (e *MemoryEnvironment) URIs() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.order...), nil
}

func (e *MemoryEnvironment) Versions(uri string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	versions := make([]string, 0, len(e.projects[uri]))
	for v := range e.projects[uri] {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions, nil
}

func (e *MemoryEnvironment) Has(uri string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.projects[uri]
	return ok, nil
}

func (e *MemoryEnvironment) HasVersion(uri, version string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	versions, ok := e.projects[uri]
	if !ok {
		return false, nil
	}
	_, ok = versions[version]
	return ok, nil
}

func (e *MemoryEnvironment) GetProject(uri, version string) (storage.ProjectRead, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	versions, ok := e.projects[uri]
	if !ok {
		return nil, errors.Errorf("unknown IRI %q", uri)
	}
	p, ok := versions[version]
	if !ok {
		return nil, errors.Errorf("unknown version %q of %q", version, uri)
	}
	return p, nil
}

func (e *MemoryEnvironment) PutProject(uri, version string, populate func(storage.ProjectWrite) error) error {
	p := storage.NewMemoryProject()
	if err := populate(p); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.projects[uri]; !ok {
		e.projects[uri] = map[string]*storage.MemoryProject{}
		e.order = append(e.order, uri)
	}
	e.projects[uri][version] = p
	return nil
}

func (e *MemoryEnvironment) DelProjectVersion(uri, version string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	versions, ok := e.projects[uri]
	if !ok {
		return nil
	}
	delete(versions, version)
	if len(versions) == 0 {
		// has(uri) must become false once its last version is gone, per
		// spec.md §8.
		delete(e.projects, uri)
		for i, u := range e.order {
			if u == uri {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (e *MemoryEnvironment) DelUri(uri string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.projects, uri)
	for i, u := range e.order {
		if u == uri {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ Environment = (*MemoryEnvironment)(nil)
