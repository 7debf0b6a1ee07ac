package resolver

// CombinedResolver is the standard composition of spec.md §4.3: file
// resolution, then the local environment, then remote (HTTP/Git), then
// remote indices. The first resolver to return Resolved wins; an
// UnsupportedIRIType falls through to the next stage, but an Unresolvable
// is propagated immediately, since it means some earlier stage understood
// the IRI but could not satisfy it.
//
// Grounded on original_source/core/src/resolve/standard.rs's
// StandardResolver / CombinedResolver composition.
type CombinedResolver struct {
	File   Resolver
	Local  Resolver
	Remote Resolver
	Index  Resolver
}

// NewCombinedResolver builds the standard stage order, skipping any nil
// stage.
func NewCombinedResolver(file, local, remote, index Resolver) *CombinedResolver {
	return &CombinedResolver{File: file, Local: local, Remote: remote, Index: index}
}

func (r *CombinedResolver) Resolve(iri string) (Outcome, error) {
	stages := []Resolver{r.File, r.Local, r.Remote, r.Index}

	var lastUnsupported Outcome
	haveUnsupported := false

	for _, stage := range stages {
		if stage == nil {
			continue
		}
		outcome, err := stage.Resolve(iri)
		if err != nil {
			return Outcome{}, err
		}
		switch outcome.Kind {
		case Resolved:
			return outcome, nil
		case Unresolvable:
			return outcome, nil
		case UnsupportedIRIType:
			lastUnsupported = outcome
			haveUnsupported = true
		}
	}

	if haveUnsupported {
		return lastUnsupported, nil
	}
	return UnsupportedOutcome("no resolver stage configured"), nil
}

var _ Resolver = (*CombinedResolver)(nil)
