package kip

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ChecksumEntry records the digest of one source file.
type ChecksumEntry struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

// MetaRaw is the unvalidated form of project metadata (.meta.json).
type MetaRaw struct {
	Index           map[string]string       `json:"index,omitempty"`
	Created         string                  `json:"created"`
	Metamodel       *string                 `json:"metamodel,omitempty"`
	IncludesDerived *bool                   `json:"includes_derived,omitempty"`
	IncludesImplied *bool                   `json:"includes_implied,omitempty"`
	Checksum        map[string]ChecksumEntry `json:"checksum,omitempty"`
}

// Meta is validated project metadata: the creation timestamp parses as RFC
// 3339, every index/checksum path is unix-relative, and (when checksum is
// present) every index path has a corresponding checksum entry.
type Meta struct {
	Index           map[string]string
	Created         time.Time
	Metamodel       *IRI
	IncludesDerived *bool
	IncludesImplied *bool
	Checksum        map[string]ChecksumEntry
}

// ValidatePath reports whether p is a unix-form relative path with no
// leading slash and no parent-directory segment, per spec.md §3.
func ValidatePath(p string) error {
	if p == "" {
		return errors.New("path must not be empty")
	}
	if strings.Contains(p, "\\") {
		return errors.Errorf("path %q must use forward slashes", p)
	}
	if strings.HasPrefix(p, "/") {
		return errors.Errorf("path %q must not be absolute", p)
	}
	cleaned := path.Clean(p)
	for _, seg := range strings.Split(cleaned, "/") {
		if seg == ".." {
			return errors.Errorf("path %q must not contain parent-directory segments", p)
		}
	}
	return nil
}

// Validate parses Created as RFC 3339, Metamodel as an IRI (if present),
// and checks every index/checksum path.
func (r MetaRaw) Validate() (Meta, error) {
	created, err := time.Parse(time.RFC3339, r.Created)
	if err != nil {
		return Meta{}, &ValidationError{Field: "created", Err: err}
	}

	m := Meta{
		Index:           map[string]string{},
		Created:         created.UTC(),
		IncludesDerived: r.IncludesDerived,
		IncludesImplied: r.IncludesImplied,
	}

	for sym, p := range r.Index {
		if err := ValidatePath(p); err != nil {
			return Meta{}, &ValidationError{Field: "index." + sym, Err: err}
		}
		m.Index[sym] = p
	}

	if r.Metamodel != nil {
		iri, err := ParseIRI(*r.Metamodel)
		if err != nil {
			return Meta{}, &ValidationError{Field: "metamodel", Err: err}
		}
		m.Metamodel = &iri
	}

	if r.Checksum != nil {
		m.Checksum = map[string]ChecksumEntry{}
		for p, c := range r.Checksum {
			if err := ValidatePath(p); err != nil {
				return Meta{}, &ValidationError{Field: "checksum." + p, Err: err}
			}
			m.Checksum[p] = c
		}
		for sym, p := range m.Index {
			if _, ok := m.Checksum[p]; !ok {
				return Meta{}, &ValidationError{
					Field: "index." + sym,
					Err:   errors.Errorf("path %q has no checksum entry", p),
				}
			}
		}
	}

	return m, nil
}

// Raw discards validation.
func (m Meta) Raw() MetaRaw {
	raw := MetaRaw{
		Index:           map[string]string{},
		Created:         m.Created.UTC().Format(time.RFC3339),
		IncludesDerived: m.IncludesDerived,
		IncludesImplied: m.IncludesImplied,
	}
	for k, v := range m.Index {
		raw.Index[k] = v
	}
	if m.Metamodel != nil {
		s := m.Metamodel.String()
		raw.Metamodel = &s
	}
	if m.Checksum != nil {
		raw.Checksum = map[string]ChecksumEntry{}
		for k, v := range m.Checksum {
			raw.Checksum[k] = v
		}
	}
	return raw
}

// SourcePaths returns the paths registered in Checksum (preferred) or Index,
// sorted for determinism. This mirrors the original's
// `meta.source_paths(true)` used when cloning a project.
func (m Meta) SourcePaths() []string {
	var paths []string
	seen := map[string]bool{}
	if m.Checksum != nil {
		for p := range m.Checksum {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	for _, p := range m.Index {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}
