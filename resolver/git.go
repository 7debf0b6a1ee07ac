package resolver

import (
	"os"
	"strings"

	"github.com/Masterminds/vcs"
	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
	"github.com/sensmetry/sysand/storage"
)

// GitResolver resolves ssh://, http(s)://, file:// and git+… IRIs by
// cloning into a temporary directory with vcs's Get, which makes a full
// (not shallow) clone. Grounded on
// original_source/core/src/resolve/gix_git.rs's GitResolver, adapted to
// golang-dep's vcs.Repo checkout style (vcs_source.go).
type GitResolver struct {
	// CacheDir, if set, is the parent directory for clone checkouts;
	// defaults to os.MkdirTemp's default when empty.
	CacheDir string
}

func stripGitPrefix(iri string) string {
	return strings.TrimPrefix(iri, "git+")
}

func (r *GitResolver) acceptsScheme(iri string) bool {
	for _, scheme := range []string{"http://", "https://", "ssh://", "file://"} {
		if strings.HasPrefix(iri, scheme) {
			return true
		}
	}
	return false
}

func (r *GitResolver) Resolve(iri string) (Outcome, error) {
	stripped := stripGitPrefix(iri)
	if !r.acceptsScheme(stripped) {
		return UnsupportedOutcome("not a git-compatible URL scheme: " + iri), nil
	}

	dest, err := os.MkdirTemp(r.CacheDir, "sysand-git-*")
	if err != nil {
		return Outcome{}, errors.Wrap(err, "create git checkout directory")
	}

	repo, err := vcs.NewGitRepo(stripped, dest)
	if err != nil {
		os.RemoveAll(dest)
		return UnresolvableOutcome(errors.Wrapf(err, "init git repo for %s", stripped).Error()), nil
	}
	if err := repo.Get(); err != nil {
		os.RemoveAll(dest)
		return UnresolvableOutcome(errors.Wrapf(err, "clone %s", stripped).Error()), nil
	}

	rev, err := repo.Version()
	if err != nil {
		rev = ""
	}

	return ResolvedOutcome(&GitCheckoutProject{
		LocalProject: storage.NewLocalProject(dest),
		dir:          dest,
		url:          stripped,
		rev:          rev,
	}), nil
}

var _ Resolver = (*GitResolver)(nil)

// GitCheckoutProject is a storage.LocalProject over a temporary git
// checkout, with a Close to remove the checkout once the caller is done.
type GitCheckoutProject struct {
	*storage.LocalProject
	dir string
	url string
	rev string
}

// Sources reports the checkout's origin as a Git source descriptor rather
// than the underlying LocalProject's LocalSrc.
func (p *GitCheckoutProject) Sources() []kip.SourceDescriptor {
	return []kip.SourceDescriptor{kip.GitDescriptor(p.url, p.rev)}
}

// Close removes the temporary checkout directory.
func (p *GitCheckoutProject) Close() error {
	return os.RemoveAll(p.dir)
}
