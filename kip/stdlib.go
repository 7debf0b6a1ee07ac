package kip

import "strings"

// wellKnownStandardLibraries are the urn:kpar: names spec.md §6 calls out
// as standard-library packages, grounded on the stdlib filter referenced
// from original_source/core/src/lib.rs. Resolution may filter these out
// unless the caller opts in.
var wellKnownStandardLibraries = map[string]bool{
	"function-library":  true,
	"kernel-library":    true,
	"geometry-library":  true,
	"scalar-library":    true,
	"analysis-library":  true,
	"cause-library":     true,
	"collections-library": true,
	"controllability-library": true,
	"domain-library": true,
	"metadata-library": true,
	"quantities-library": true,
	"requirement-derivation-library": true,
	"state-library": true,
	"trigonometry-library": true,
}

// IsStandardLibraryIRI reports whether iri names a well-known sysand
// standard-library package, per spec.md §6.
func IsStandardLibraryIRI(iri IRI) bool {
	s := iri.String()
	const prefix = "urn:kpar:"
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	name := strings.TrimPrefix(s, prefix)
	if idx := strings.IndexAny(name, "@:"); idx >= 0 {
		name = name[:idx]
	}
	return wellKnownStandardLibraries[name]
}
