package resolver

import (
	"strings"

	"github.com/sensmetry/sysand/storage"
)

// SequentialResolver tries each inner resolver in turn and concatenates
// every Resolved candidate list, preserving backend order. Grounded on
// original_source/core/src/resolve/sequential.rs's SequentialResolve.
//
// If no inner resolver produces Resolved candidates: an Unresolvable from
// any inner resolver yields Unresolvable; otherwise (every inner resolver
// said UnsupportedIRIType) the combined outcome is UnsupportedIRIType.
type SequentialResolver struct {
	Inner []Resolver
}

// NewSequentialResolver wraps resolvers, tried in the given order.
func NewSequentialResolver(resolvers ...Resolver) *SequentialResolver {
	return &SequentialResolver{Inner: resolvers}
}

func (r *SequentialResolver) Resolve(iri string) (Outcome, error) {
	var candidates []storage.ProjectRead
	var messages []string
	anySupported := false

	for _, inner := range r.Inner {
		outcome, err := inner.Resolve(iri)
		if err != nil {
			return Outcome{}, err
		}
		switch outcome.Kind {
		case Resolved:
			anySupported = true
			candidates = append(candidates, outcome.Candidates...)
		case Unresolvable:
			anySupported = true
			messages = append(messages, outcome.Message)
		case UnsupportedIRIType:
			messages = append(messages, outcome.Message)
		}
	}

	if len(candidates) > 0 {
		return ResolvedOutcome(candidates...), nil
	}
	if anySupported {
		return UnresolvableOutcome("unresolvable: " + strings.Join(messages, "; ")), nil
	}
	return UnsupportedOutcome("unsupported: " + strings.Join(messages, "; ")), nil
}

var _ Resolver = (*SequentialResolver)(nil)
