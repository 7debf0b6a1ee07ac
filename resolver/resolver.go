// Package resolver implements the resolver pipeline of spec.md §4.3: a
// layered, composable set of IRI resolvers that, given a usage IRI,
// enumerate candidate project storages from one or more backends.
package resolver

import (
	"github.com/sensmetry/sysand/storage"
)

// Outcome is the result of a single resolve call. Exactly one of Resolved,
// Unresolvable or UnsupportedIRIType applies; the zero value is invalid.
type Outcome struct {
	// Candidates holds the resolved storages, non-nil only when Kind is
	// Resolved.
	Candidates []storage.ProjectRead
	// Message explains an Unresolvable or UnsupportedIRIType outcome.
	Message string
	Kind     OutcomeKind
}

// OutcomeKind discriminates the three resolve outcomes of spec.md §4.3.
type OutcomeKind int

const (
	// Resolved means the resolver understood the IRI and produced zero or
	// more candidate storages.
	Resolved OutcomeKind = iota
	// Unresolvable means this resolver understands the IRI scheme but has
	// no candidate for it.
	Unresolvable
	// UnsupportedIRIType means this resolver cannot handle the IRI at all.
	UnsupportedIRIType
)

// ResolvedOutcome wraps candidates as a Resolved outcome.
func ResolvedOutcome(candidates ...storage.ProjectRead) Outcome {
	return Outcome{Kind: Resolved, Candidates: candidates}
}

// UnresolvableOutcome wraps a message as an Unresolvable outcome.
func UnresolvableOutcome(message string) Outcome {
	return Outcome{Kind: Unresolvable, Message: message}
}

// UnsupportedOutcome wraps a message as an UnsupportedIRIType outcome.
func UnsupportedOutcome(message string) Outcome {
	return Outcome{Kind: UnsupportedIRIType, Message: message}
}

// Resolver maps a usage IRI to candidate project storages, per spec.md
// §4.3. Implementations are expected to be composable via Sequential,
// Priority and Combined.
type Resolver interface {
	Resolve(iri string) (Outcome, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(iri string) (Outcome, error)

func (f ResolverFunc) Resolve(iri string) (Outcome, error) { return f(iri) }
