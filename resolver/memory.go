package resolver

import (
	"github.com/sensmetry/sysand/storage"
)

// Predicate decides whether a MemoryResolver accepts an IRI at all, before
// consulting its fixed map. Grounded on
// original_source/core/src/resolve/memory.rs's IRIPredicate trait.
type Predicate interface {
	Accept(iri string) bool
}

// AcceptAll accepts every IRI.
type AcceptAll struct{}

func (AcceptAll) Accept(string) bool { return true }

// AcceptScheme accepts IRIs whose scheme (the text before the first ':')
// equals Scheme.
type AcceptScheme struct{ Scheme string }

func (a AcceptScheme) Accept(iri string) bool {
	scheme, _, ok := splitScheme(iri)
	return ok && scheme == a.Scheme
}

func splitScheme(iri string) (scheme, rest string, ok bool) {
	for i := 0; i < len(iri); i++ {
		c := iri[i]
		switch {
		case c == ':':
			if i == 0 {
				return "", iri, false
			}
			return iri[:i], iri[i+1:], true
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.':
			continue
		default:
			return "", iri, false
		}
	}
	return "", iri, false
}

// MemoryResolver resolves a fixed IRI -> candidates map, gated by a
// Predicate, per spec.md §4.3's MemoryResolver<Predicate>.
type MemoryResolver struct {
	IRIPredicate Predicate
	Projects     map[string][]storage.ProjectRead
}

// NewMemoryResolver constructs a MemoryResolver accepting every IRI.
func NewMemoryResolver(projects map[string][]storage.ProjectRead) *MemoryResolver {
	return &MemoryResolver{IRIPredicate: AcceptAll{}, Projects: projects}
}

func (r *MemoryResolver) Resolve(iri string) (Outcome, error) {
	predicate := r.IRIPredicate
	if predicate == nil {
		predicate = AcceptAll{}
	}
	if !predicate.Accept(iri) {
		return UnsupportedOutcome("IRI rejected by memory resolver predicate: " + iri), nil
	}

	candidates, ok := r.Projects[iri]
	if !ok {
		return UnresolvableOutcome("no entry for " + iri), nil
	}
	return ResolvedOutcome(candidates...), nil
}

var _ Resolver = (*MemoryResolver)(nil)
