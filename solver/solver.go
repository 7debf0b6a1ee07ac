// Package solver implements the dependency solver of spec.md §4.4: given a
// set of root usages and a resolver, it produces a coherent assignment
// IRI -> version satisfying every usage's version constraint, or explains
// why none exists.
//
// The algorithm is a conflict-driven backtracking search in the spirit of
// PubGrub: candidates for an unresolved IRI are tried highest-SemVer-first,
// and a constraint violation discovered deeper in the search unwinds to the
// nearest choice point that still has untried candidates. This is a
// simplification of full PubGrub (no explicit incompatibility learning),
// adequate for the size of dependency graphs sysand projects are expected
// to have; see DESIGN.md.
package solver

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
	"github.com/sensmetry/sysand/resolver"
	"github.com/sensmetry/sysand/storage"
)

// DependencyID names the origin of a dependency obligation: either the
// synthetic root package (Requested) or a real project (Remote), per
// spec.md §4.4's "Dependency identifiers".
type DependencyID struct {
	Requested bool
	IRI       string
}

func (id DependencyID) String() string {
	if id.Requested {
		return "<requested>"
	}
	return id.IRI
}

// Entry is one resolved dependency in a Solution.
type Entry struct {
	Version *semver.Version
	Info    kip.Info
	Meta    kip.Meta
	Storage storage.ProjectRead
}

// Solution maps each resolved IRI (normalised) to its chosen version.
type Solution map[string]Entry

// ShouldCancel is checked between solver decisions; returning true aborts
// the search with ErrCancelled.
type ShouldCancel func() bool

// ErrCancelled is returned when ShouldCancel reported true mid-search.
var ErrCancelled = errors.New("solve cancelled")

type obligation struct {
	parent DependencyID
	usage  kip.Usage
}

// candidate is one resolvable version of a dependency, with its parsed
// project data attached.
type candidate struct {
	version *semver.Version
	info    kip.Info
	meta    kip.Meta
	storage storage.ProjectRead
}

// Solve finds a version assignment satisfying every root usage's
// constraint, recursively pulling in and satisfying the usages of every
// selected project. Resolver supplies candidate storages for an IRI;
// ordering among equally-ranked candidates follows the order in which the
// resolver's Resolve returns them (its own backend order).
func Solve(rootUsages []kip.Usage, r resolver.Resolver, shouldCancel ShouldCancel) (Solution, error) {
	obligations := make([]obligation, len(rootUsages))
	for i, u := range rootUsages {
		obligations[i] = obligation{parent: DependencyID{Requested: true}, usage: u}
	}

	s := &search{resolver: r, shouldCancel: shouldCancel}
	solution, conflict, err := s.solve(obligations, Solution{})
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &NoSolutionError{Derivation: conflict.render()}
	}
	return solution, nil
}

type search struct {
	resolver     resolver.Resolver
	shouldCancel ShouldCancel
}

// conflict accumulates a human-renderable derivation trail: the sequence of
// choices and constraint violations that made a branch fail. It approximates
// spec.md §4.4's "NoSolution derivation tree", collapsed into a flat,
// deepest-first trail rather than a full tree, since sysand's dependency
// graphs are shallow enough that the flattened form stays readable.
type conflict struct {
	messages []string
}

func (c *conflict) render() []string {
	return c.messages
}

func newConflict(format string, args ...interface{}) *conflict {
	return &conflict{messages: []string{errors.Errorf(format, args...).Error()}}
}

func (c *conflict) wrap(format string, args ...interface{}) *conflict {
	return &conflict{messages: append([]string{errors.Errorf(format, args...).Error()}, c.messages...)}
}

// solve attempts to satisfy every obligation, extending selected in place
// (a fresh copy per branch). It returns exactly one of: a complete
// Solution; a *conflict describing why no extension of selected works; or
// a hard error (cancellation, or a resolver/parse failure that isn't a
// constraint conflict).
func (s *search) solve(obligations []obligation, selected Solution) (Solution, *conflict, error) {
	if s.shouldCancel != nil && s.shouldCancel() {
		return nil, nil, ErrCancelled
	}
	if len(obligations) == 0 {
		return selected, nil, nil
	}

	head, rest := obligations[0], obligations[1:]
	iri := head.usage.Resource.Normalised()

	if entry, ok := selected[iri]; ok {
		if head.usage.Satisfies(entry.Version) {
			return s.solve(rest, selected)
		}
		return nil, newConflict(
			"%s requires %s at a version satisfying its constraint, but %s was already selected (required by %s)",
			head.parent, iri, entry.Version.Original(), head.parent,
		), nil
	}

	candidates, err := s.candidatesFor(iri)
	if err != nil {
		return nil, nil, &ErrorRetrievingDependencies{IRI: iri, Err: err}
	}

	var lastConflict *conflict
	tried := false
	for _, cand := range candidates {
		if !head.usage.Satisfies(cand.version) {
			continue
		}
		tried = true

		extended := make(Solution, len(selected)+1)
		for k, v := range selected {
			extended[k] = v
		}
		extended[iri] = Entry{Version: cand.version, Info: cand.info, Meta: cand.meta, Storage: cand.storage}

		childObligations := make([]obligation, 0, len(rest)+len(cand.info.Usage))
		childObligations = append(childObligations, rest...)
		for _, u := range cand.info.Usage {
			childObligations = append(childObligations, obligation{parent: DependencyID{IRI: iri}, usage: u})
		}

		solution, conf, err := s.solve(childObligations, extended)
		if err != nil {
			return nil, nil, err
		}
		if conf == nil {
			return solution, nil, nil
		}
		lastConflict = conf
	}

	if !tried {
		return nil, newConflict("no candidate version of %s satisfies the constraint required by %s", iri, head.parent), nil
	}
	return nil, lastConflict.wrap("no candidate version of %s led to a solution (required by %s)", iri, head.parent), nil
}

// candidatesFor resolves iri and returns its candidate versions ordered
// highest-SemVer-first, ties broken by resolver return order.
func (s *search) candidatesFor(iri string) ([]candidate, error) {
	outcome, err := s.resolver.Resolve(iri)
	if err != nil {
		return nil, err
	}
	switch outcome.Kind {
	case resolver.Unresolvable:
		return nil, errors.New(outcome.Message)
	case resolver.UnsupportedIRIType:
		return nil, errors.New(outcome.Message)
	}

	candidates := make([]candidate, 0, len(outcome.Candidates))
	for _, proj := range outcome.Candidates {
		rawInfo, rawMeta, err := storage.GetProject(proj)
		if err != nil {
			return nil, err
		}
		if rawInfo == nil || rawMeta == nil {
			continue
		}
		info, err := rawInfo.Validate()
		if err != nil {
			return nil, errors.Wrap(err, "validate candidate info")
		}
		meta, err := rawMeta.Validate()
		if err != nil {
			return nil, errors.Wrap(err, "validate candidate meta")
		}
		candidates = append(candidates, candidate{version: info.Version, info: info, meta: meta, storage: proj})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].version.GreaterThan(candidates[j].version)
	})
	return candidates, nil
}
