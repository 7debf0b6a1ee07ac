package environment

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/storage"
)

// BrowserLocalStorageEnvironment is an environment keyed over a
// storage.KVStore, per spec.md §4.2's "BrowserLocalStorageEnvironment"
// variant. The index of known (uri, version) pairs is itself kept as a
// single JSON value under indexKey, since window.localStorage has no
// notion of directories to fan out into.
type BrowserLocalStorageEnvironment struct {
	Store  storage.KVStore
	Prefix string
}

// NewBrowserLocalStorageEnvironment wraps store under prefix.
func NewBrowserLocalStorageEnvironment(store storage.KVStore, prefix string) *BrowserLocalStorageEnvironment {
	return &BrowserLocalStorageEnvironment{Store: store, Prefix: prefix}
}

func (e *BrowserLocalStorageEnvironment) indexKey() string {
	return e.Prefix + ":index.json"
}

func (e *BrowserLocalStorageEnvironment) projectPrefix(uri, version string) string {
	return e.Prefix + ":projects/" + uriDir(uri) + "/" + version
}

// browserIndex is the index.json shape: uri -> versions, in the order they
// were added (Versions sorts them when read).
type browserIndex map[string][]string

func (e *BrowserLocalStorageEnvironment) readIndex() (browserIndex, error) {
	v, ok := e.Store.Get(e.indexKey())
	if !ok {
		return browserIndex{}, nil
	}
	var idx browserIndex
	if err := json.Unmarshal([]byte(v), &idx); err != nil {
		return nil, errors.Wrap(err, "decode environment index")
	}
	return idx, nil
}

func (e *BrowserLocalStorageEnvironment) writeIndex(idx browserIndex) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return errors.Wrap(err, "encode environment index")
	}
	e.Store.Set(e.indexKey(), string(data))
	return nil
}

func (e *BrowserLocalStorageEnvironment) URIs() ([]string, error) {
	idx, err := e.readIndex()
	if err != nil {
		return nil, err
	}
	uris := make([]string, 0, len(idx))
	for u := range idx {
		uris = append(uris, u)
	}
	sort.Strings(uris)
	return uris, nil
}

func (e *BrowserLocalStorageEnvironment) Versions(uri string) ([]string, error) {
	idx, err := e.readIndex()
	if err != nil {
		return nil, err
	}
	versions := append([]string(nil), idx[uri]...)
	sort.Strings(versions)
	return versions, nil
}

func (e *BrowserLocalStorageEnvironment) Has(uri string) (bool, error) {
	idx, err := e.readIndex()
	if err != nil {
		return false, err
	}
	_, ok := idx[uri]
	return ok, nil
}

func (e *BrowserLocalStorageEnvironment) HasVersion(uri, version string) (bool, error) {
	idx, err := e.readIndex()
	if err != nil {
		return false, err
	}
	for _, v := range idx[uri] {
		if v == version {
			return true, nil
		}
	}
	return false, nil
}

func (e *BrowserLocalStorageEnvironment) GetProject(uri, version string) (storage.ProjectRead, error) {
	ok, err := e.HasVersion(uri, version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("unknown version %q of %q", version, uri)
	}
	return &storage.BrowserLocalStorageProject{Store: e.Store, Prefix: e.projectPrefix(uri, version)}, nil
}

func (e *BrowserLocalStorageEnvironment) PutProject(uri, version string, populate func(storage.ProjectWrite) error) error {
	project := &storage.BrowserLocalStorageProject{Store: e.Store, Prefix: e.projectPrefix(uri, version)}
	if err := populate(project); err != nil {
		return err
	}

	idx, err := e.readIndex()
	if err != nil {
		return err
	}
	versions := idx[uri]
	found := false
	for _, v := range versions {
		if v == version {
			found = true
			break
		}
	}
	if !found {
		idx[uri] = append(versions, version)
	}
	return e.writeIndex(idx)
}

func (e *BrowserLocalStorageEnvironment) DelProjectVersion(uri, version string) error {
	idx, err := e.readIndex()
	if err != nil {
		return err
	}
	versions, ok := idx[uri]
	if !ok {
		return nil
	}
	kept := versions[:0:0]
	for _, v := range versions {
		if v != version {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		// has(uri) must become false once its last version is gone, per
		// spec.md §8.
		delete(idx, uri)
	} else {
		idx[uri] = kept
	}
	if err := e.writeIndex(idx); err != nil {
		return err
	}

	project := &storage.BrowserLocalStorageProject{Store: e.Store, Prefix: e.projectPrefix(uri, version)}
	keys := make([]string, 0, 3)
	if rawMeta, err := project.GetMeta(); err == nil && rawMeta != nil {
		if meta, err := rawMeta.Validate(); err == nil {
			for _, p := range meta.SourcePaths() {
				keys = append(keys, project.Prefix+":src/"+p)
			}
		}
	}
	keys = append(keys, project.Prefix+":.project.json", project.Prefix+":.meta.json")
	project.RemoveAll(keys)
	return nil
}

func (e *BrowserLocalStorageEnvironment) DelUri(uri string) error {
	idx, err := e.readIndex()
	if err != nil {
		return err
	}
	versions := append([]string(nil), idx[uri]...)
	for _, v := range versions {
		if err := e.DelProjectVersion(uri, v); err != nil {
			return err
		}
	}
	delete(idx, uri)
	return e.writeIndex(idx)
}

var _ Environment = (*BrowserLocalStorageEnvironment)(nil)
