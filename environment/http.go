package environment

import (
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/storage"
)

// HTTPEnvironment is a read-only environment over a base URL, per
// spec.md §4.2. It expects /entries.txt and /<sha256(iri)>/versions.txt to
// be served as the local directory layout would produce them, and serves
// each project through storage.RemoteSrcProject.
type HTTPEnvironment struct {
	Client  *http.Client
	BaseURL string
}

func (e *HTTPEnvironment) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return http.DefaultClient
}

func (e *HTTPEnvironment) fetchLines(relative string) ([]string, error) {
	url := strings.TrimSuffix(e.BaseURL, "/") + "/" + strings.TrimPrefix(relative, "/")
	resp, err := e.client().Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read body of %s", url)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func (e *HTTPEnvironment) URIs() ([]string, error) {
	return e.fetchLines(entriesFileName)
}

func (e *HTTPEnvironment) Versions(uri string) ([]string, error) {
	return e.fetchLines(uriDir(uri) + "/" + versionsFileName)
}

func (e *HTTPEnvironment) Has(uri string) (bool, error) {
	uris, err := e.URIs()
	if err != nil {
		return false, err
	}
	for _, u := range uris {
		if u == uri {
			return true, nil
		}
	}
	return false, nil
}

func (e *HTTPEnvironment) HasVersion(uri, version string) (bool, error) {
	versions, err := e.Versions(uri)
	if err != nil {
		return false, err
	}
	for _, v := range versions {
		if v == version {
			return true, nil
		}
	}
	return false, nil
}

func (e *HTTPEnvironment) GetProject(uri, version string) (storage.ProjectRead, error) {
	ok, err := e.HasVersion(uri, version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("unknown version %q of %q", version, uri)
	}
	base := strings.TrimSuffix(e.BaseURL, "/") + "/" + uriDir(uri) + "/" + version + ".kpar"
	return &storage.RemoteSrcProject{Client: e.client(), BaseURL: base}, nil
}

func (e *HTTPEnvironment) PutProject(string, string, func(storage.ProjectWrite) error) error {
	return errors.New("HTTP environment is read-only")
}

func (e *HTTPEnvironment) DelProjectVersion(string, string) error {
	return errors.New("HTTP environment is read-only")
}

func (e *HTTPEnvironment) DelUri(string) error {
	return errors.New("HTTP environment is read-only")
}

var _ Environment = (*HTTPEnvironment)(nil)
