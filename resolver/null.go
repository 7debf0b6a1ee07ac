package resolver

// NullResolver never resolves anything, per spec.md §9's generalisation of
// original_source/core/src/env/null.rs to resolvers. Useful as a safe
// default and in tests.
type NullResolver struct{}

func (NullResolver) Resolve(string) (Outcome, error) {
	return UnsupportedOutcome("null resolver"), nil
}

var _ Resolver = NullResolver{}
