package resolver

// PriorityResolver prefers High whenever it returns Resolved, falling back
// to Low otherwise (even when High is merely Unresolvable or
// UnsupportedIRIType). Grounded on spec.md §4.3's PriorityResolver<High,Low>.
type PriorityResolver struct {
	High Resolver
	Low  Resolver
}

func (r *PriorityResolver) Resolve(iri string) (Outcome, error) {
	high, err := r.High.Resolve(iri)
	if err != nil {
		return Outcome{}, err
	}
	if high.Kind == Resolved {
		return high, nil
	}
	return r.Low.Resolve(iri)
}

var _ Resolver = (*PriorityResolver)(nil)
