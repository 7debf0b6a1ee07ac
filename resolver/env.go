package resolver

import (
	"github.com/sensmetry/sysand/environment"
	"github.com/sensmetry/sysand/storage"
)

// EnvResolver resolves an IRI to every installed version held by Env, per
// spec.md §4.3. Grounded on
// original_source/core/src/resolve/env.rs's EnvResolver<Env>.
type EnvResolver struct {
	Env environment.Environment
}

func (r *EnvResolver) Resolve(iri string) (Outcome, error) {
	versions, err := r.Env.Versions(iri)
	if err != nil {
		return Outcome{}, err
	}
	if len(versions) == 0 {
		return UnresolvableOutcome("no versions installed for " + iri), nil
	}

	candidates := make([]storage.ProjectRead, 0, len(versions))
	for _, version := range versions {
		project, err := r.Env.GetProject(iri, version)
		if err != nil {
			return Outcome{}, err
		}
		candidates = append(candidates, project)
	}
	return ResolvedOutcome(candidates...), nil
}

var _ Resolver = (*EnvResolver)(nil)
