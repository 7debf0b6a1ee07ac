package storage

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
)

// KVStore is the minimal key/value contract a browser's window.localStorage
// (or an in-process stand-in for it, outside a browser embedding) must
// satisfy for BrowserLocalStorageProject.
type KVStore interface {
	Get(key string) (value string, ok bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryKVStore is an in-process KVStore, used outside of the wasm/browser
// binding described in spec.md §1's out-of-scope collaborators.
type MemoryKVStore struct {
	data map[string]string
}

// NewMemoryKVStore constructs an empty store.
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: map[string]string{}}
}

func (m *MemoryKVStore) Get(key string) (string, bool) { v, ok := m.data[key]; return v, ok }
func (m *MemoryKVStore) Set(key, value string)         { m.data[key] = value }
func (m *MemoryKVStore) Delete(key string)              { delete(m.data, key) }

// BrowserLocalStorageProject is a key/value-backed project storage keyed by
// a user-chosen prefix, per spec.md §4.1 "BrowserLocalStorage". Manifests
// and sources are all stored as strings (WriteSource first copies source
// bytes under a UUID-derived staging key, then sets the final key and
// deletes the staging key).
type BrowserLocalStorageProject struct {
	Store  KVStore
	Prefix string
}

func (b *BrowserLocalStorageProject) key(suffix string) string {
	return b.Prefix + ":" + suffix
}

func (b *BrowserLocalStorageProject) GetInfo() (*kip.InfoRaw, error) {
	return b.getJSON(projectManifestFile, func() *kip.InfoRaw { return &kip.InfoRaw{} })
}

func (b *BrowserLocalStorageProject) GetMeta() (*kip.MetaRaw, error) {
	v, ok := b.Store.Get(b.key(metaManifestFile))
	if !ok {
		return nil, nil
	}
	var raw kip.MetaRaw
	if err := json.Unmarshal([]byte(v), &raw); err != nil {
		return nil, errors.Wrap(err, "decode .meta.json")
	}
	return &raw, nil
}

func (b *BrowserLocalStorageProject) getJSON(suffix string, _ func() *kip.InfoRaw) (*kip.InfoRaw, error) {
	v, ok := b.Store.Get(b.key(suffix))
	if !ok {
		return nil, nil
	}
	var raw kip.InfoRaw
	if err := json.Unmarshal([]byte(v), &raw); err != nil {
		return nil, errors.Wrap(err, "decode .project.json")
	}
	return &raw, nil
}

func (b *BrowserLocalStorageProject) ReadSource(path string) ([]byte, error) {
	if err := kip.ValidatePath(path); err != nil {
		return nil, err
	}
	v, ok := b.Store.Get(b.key("src/" + path))
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	return []byte(v), nil
}

func (b *BrowserLocalStorageProject) Sources() []kip.SourceDescriptor {
	return []kip.SourceDescriptor{kip.LocalSrc(b.Prefix)}
}

func (b *BrowserLocalStorageProject) PutInfo(raw kip.InfoRaw, overwrite bool) error {
	return b.putJSON(projectManifestFile, raw, overwrite)
}

func (b *BrowserLocalStorageProject) PutMeta(raw kip.MetaRaw, overwrite bool) error {
	return b.putJSON(metaManifestFile, raw, overwrite)
}

func (b *BrowserLocalStorageProject) putJSON(suffix string, v interface{}, overwrite bool) error {
	k := b.key(suffix)
	if !overwrite {
		if _, ok := b.Store.Get(k); ok {
			return &AlreadyExistsError{What: suffix}
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", suffix)
	}
	b.Store.Set(k, string(data))
	return nil
}

func (b *BrowserLocalStorageProject) WriteSource(path string, data []byte, overwrite bool) error {
	if err := kip.ValidatePath(path); err != nil {
		return err
	}
	k := b.key("src/" + path)
	if !overwrite {
		if _, ok := b.Store.Get(k); ok {
			return &AlreadyExistsError{What: path}
		}
	}
	// Stage under a throwaway key first, then publish; the real key is
	// written by one Set of the full value, as without staging.
	stage := b.key("staging/" + uuid.NewString())
	b.Store.Set(stage, string(data))
	b.Store.Set(k, string(data))
	b.Store.Delete(stage)
	return nil
}

func (b *BrowserLocalStorageProject) IncludeSource(path string, computeChecksum, updateIndex bool) error {
	return IncludeSourceDefault(b, path, computeChecksum, updateIndex)
}

func (b *BrowserLocalStorageProject) ExcludeSource(path string) (bool, error) {
	return ExcludeSourceDefault(b, path)
}

// RemoveAll deletes those of the given keys that lie under this storage's
// prefix, for uninstall; keys outside the prefix are left alone.
func (b *BrowserLocalStorageProject) RemoveAll(keys []string) {
	for _, k := range keys {
		if strings.HasPrefix(k, b.Prefix+":") {
			b.Store.Delete(k)
		}
	}
}

var _ ProjectWrite = (*BrowserLocalStorageProject)(nil)
