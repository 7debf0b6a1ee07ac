package storage

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
)

// RemoteSrcProject resolves manifests and source files against a base URL
// via HTTP GET, per spec.md §4.1 "RemoteSrc".
type RemoteSrcProject struct {
	Client  *http.Client
	BaseURL string
}

func (r *RemoteSrcProject) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func (r *RemoteSrcProject) url(relative string) string {
	return strings.TrimSuffix(r.BaseURL, "/") + "/" + strings.TrimPrefix(relative, "/")
}

func (r *RemoteSrcProject) getBytes(relative string) ([]byte, bool, error) {
	resp, err := r.client().Get(r.url(relative))
	if err != nil {
		return nil, false, errors.Wrapf(err, "GET %s", r.url(relative))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, errors.Errorf("GET %s: unexpected status %d", r.url(relative), resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, errors.Wrapf(err, "read body of %s", r.url(relative))
	}
	return data, true, nil
}

func (r *RemoteSrcProject) GetInfo() (*kip.InfoRaw, error) {
	data, ok, err := r.getBytes(projectManifestFile)
	if err != nil || !ok {
		return nil, err
	}
	var raw kip.InfoRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode .project.json")
	}
	return &raw, nil
}

func (r *RemoteSrcProject) GetMeta() (*kip.MetaRaw, error) {
	data, ok, err := r.getBytes(metaManifestFile)
	if err != nil || !ok {
		return nil, err
	}
	var raw kip.MetaRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode .meta.json")
	}
	return &raw, nil
}

func (r *RemoteSrcProject) ReadSource(path string) ([]byte, error) {
	if err := kip.ValidatePath(path); err != nil {
		return nil, err
	}
	data, ok, err := r.getBytes(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	return data, nil
}

func (r *RemoteSrcProject) Sources() []kip.SourceDescriptor {
	return []kip.SourceDescriptor{kip.RemoteSrcDescriptor(r.BaseURL)}
}

var _ ProjectRead = (*RemoteSrcProject)(nil)

// RemoteKparProject wraps a downloadable .kpar archive: the first read of
// any manifest triggers the download, after which it behaves as a
// KparProject, per spec.md §4.1 "RemoteKpar".
type RemoteKparProject struct {
	Client *http.Client
	URL    string
	Size   *int64

	downloaded bool
	inner      *KparProject
	downloadTo string // temp file path, for Close
}

func (r *RemoteKparProject) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

// ensureDownloaded fetches the archive into a temp file on first use.
func (r *RemoteKparProject) ensureDownloaded() error {
	if r.downloaded {
		return nil
	}

	resp, err := r.client().Get(r.URL)
	if err != nil {
		return errors.Wrapf(err, "GET %s", r.URL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("GET %s: unexpected status %d", r.URL, resp.StatusCode)
	}

	tmp, err := newTempFile("sysand-remote-kpar-*.kpar")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return errors.Wrap(err, "download kpar")
	}
	tmp.Close()

	inner, err := OpenKparProject(tmp.Name())
	if err != nil {
		return err
	}
	r.inner = inner
	r.downloadTo = tmp.Name()
	r.downloaded = true
	return nil
}

func (r *RemoteKparProject) GetInfo() (*kip.InfoRaw, error) {
	if err := r.ensureDownloaded(); err != nil {
		return nil, err
	}
	return r.inner.GetInfo()
}

func (r *RemoteKparProject) GetMeta() (*kip.MetaRaw, error) {
	if err := r.ensureDownloaded(); err != nil {
		return nil, err
	}
	return r.inner.GetMeta()
}

func (r *RemoteKparProject) ReadSource(path string) ([]byte, error) {
	if err := r.ensureDownloaded(); err != nil {
		return nil, err
	}
	return r.inner.ReadSource(path)
}

func (r *RemoteKparProject) Sources() []kip.SourceDescriptor {
	return []kip.SourceDescriptor{kip.RemoteKparDescriptor(r.URL, r.Size)}
}

// Close releases the downloaded temp file, if any.
func (r *RemoteKparProject) Close() error {
	if r.inner != nil {
		err := r.inner.Close()
		if rmErr := os.Remove(r.downloadTo); err == nil && rmErr != nil {
			err = errors.Wrap(rmErr, "remove downloaded kpar")
		}
		return err
	}
	return nil
}

var _ ProjectRead = (*RemoteKparProject)(nil)
