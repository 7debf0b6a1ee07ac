package environment

import "github.com/armon/go-radix"

// uriTrie is a typed wrapper around a radix tree keyed by IRI, caching
// each IRI's known versions. Grounded on golang-dep's typed_radix.go,
// which wraps armon/go-radix the same way to avoid type assertions at
// every call site.
type uriTrie struct {
	t *radix.Tree
}

func newURITrie() uriTrie {
	return uriTrie{t: radix.New()}
}

func (u uriTrie) Get(uri string) ([]string, bool) {
	v, ok := u.t.Get(uri)
	if !ok {
		return nil, false
	}
	return v.([]string), true
}

func (u uriTrie) Insert(uri string, versions []string) {
	u.t.Insert(uri, versions)
}

func (u uriTrie) Delete(uri string) {
	u.t.Delete(uri)
}

// WalkPrefix visits every cached IRI sharing prefix, in lexical order.
func (u uriTrie) WalkPrefix(prefix string, fn func(uri string, versions []string) bool) {
	u.t.WalkPrefix(prefix, func(s string, v interface{}) bool {
		return fn(s, v.([]string))
	})
}

func (u uriTrie) Len() int {
	return u.t.Len()
}
