package resolver

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/storage"
)

// HTTPResolver resolves http(s):// IRIs by HEAD-probing for .project.json
// at the URL; if present, the URL is treated as a single RemoteSrc
// candidate, per spec.md §4.3.
type HTTPResolver struct {
	Client *http.Client
}

func (r *HTTPResolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func (r *HTTPResolver) Resolve(iri string) (Outcome, error) {
	if !strings.HasPrefix(iri, "http://") && !strings.HasPrefix(iri, "https://") {
		return UnsupportedOutcome("not an http(s) IRI: " + iri), nil
	}

	probeURL := strings.TrimSuffix(iri, "/") + "/.project.json"
	resp, err := r.client().Head(probeURL)
	if err != nil {
		return UnresolvableOutcome(errors.Wrapf(err, "HEAD %s", probeURL).Error()), nil
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return UnresolvableOutcome("no .project.json at " + probeURL), nil
	}

	return ResolvedOutcome(&storage.RemoteSrcProject{Client: r.client(), BaseURL: iri}), nil
}

var _ Resolver = (*HTTPResolver)(nil)
