// Package canon computes the canonical content hash of a project, per
// spec.md §3/§4.6: a deterministic byte representation of (info, meta,
// source files) that is stable under map-key reordering and optional-field
// presence, hashed with SHA-256.
//
// Canonicalisation is defined by explicit field-write rules rather than by
// "whatever the JSON library prints" (spec.md §9), so the functions here
// build the canonical bytes by hand instead of delegating to encoding/json.
package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/sensmetry/sysand/kip"
)

// SourceDigest is the SHA-256 digest of one source file's bytes.
type SourceDigest [sha256.Size]byte

// HashSource computes the SHA-256 digest of a source file's contents.
func HashSource(data []byte) SourceDigest {
	return sha256.Sum256(data)
}

func (d SourceDigest) hex() string {
	return hex.EncodeToString(d[:])
}

// writer accumulates canonical bytes with a tiny length-prefixed framing so
// that concatenated fields can never be confused for one another (e.g. an
// empty description followed by "x" cannot collide with a description of
// "x" followed by nothing).
type writer struct {
	buf []byte
}

func (w *writer) str(s string) {
	w.buf = append(w.buf, []byte(fmt.Sprintf("%d:", len(s)))...)
	w.buf = append(w.buf, s...)
}

func (w *writer) opt(present bool, s string) {
	if present {
		w.buf = append(w.buf, '1')
		w.str(s)
	} else {
		w.buf = append(w.buf, '0')
	}
}

func (w *writer) list(items []string) {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	w.str(fmt.Sprintf("%d", len(sorted)))
	for _, s := range sorted {
		w.str(s)
	}
}

func canonicalInfo(w *writer, info kip.Info) {
	w.str(info.Name)
	w.opt(info.Description != nil, derefStr(info.Description))
	w.str(info.Version.Original())
	w.opt(info.License != nil, derefStr(info.License))
	w.list(info.Maintainer)
	w.opt(info.Website != nil, derefIRI(info.Website))
	w.list(info.Topic)

	usages := append([]kip.Usage(nil), info.Usage...)
	sort.Slice(usages, func(i, j int) bool {
		return usages[i].Resource.Normalised() < usages[j].Resource.Normalised()
	})
	w.str(fmt.Sprintf("%d", len(usages)))
	for _, u := range usages {
		raw := u.Raw()
		w.str(raw.Resource)
		w.opt(raw.VersionConstraint != nil, derefStr(raw.VersionConstraint))
	}
}

func canonicalMeta(w *writer, meta kip.Meta) {
	keys := make([]string, 0, len(meta.Index))
	for k := range meta.Index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.str(fmt.Sprintf("%d", len(keys)))
	for _, k := range keys {
		w.str(k)
		w.str(meta.Index[k])
	}

	w.str(meta.Created.UTC().Format("2006-01-02T15:04:05Z"))
	w.opt(meta.Metamodel != nil, derefIRI(meta.Metamodel))
	w.opt(meta.IncludesDerived != nil, boolStr(meta.IncludesDerived))
	w.opt(meta.IncludesImplied != nil, boolStr(meta.IncludesImplied))

	w.opt(meta.Checksum != nil, "")
	if meta.Checksum != nil {
		ckeys := make([]string, 0, len(meta.Checksum))
		for k := range meta.Checksum {
			ckeys = append(ckeys, k)
		}
		sort.Strings(ckeys)
		w.str(fmt.Sprintf("%d", len(ckeys)))
		for _, k := range ckeys {
			c := meta.Checksum[k]
			w.str(k)
			w.str(c.Algorithm)
			w.str(c.Value)
		}
	}
}

func canonicalSources(w *writer, sources map[string]SourceDigest) {
	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	w.str(fmt.Sprintf("%d", len(paths)))
	for _, p := range paths {
		w.str(p)
		w.str(sources[p].hex())
	}
}

// Bytes returns the canonical byte representation of a project's
// (info, meta, source files), per the rules of spec.md §3/§4.6.
func Bytes(info kip.Info, meta kip.Meta, sources map[string]SourceDigest) []byte {
	w := &writer{}
	canonicalInfo(w, info)
	canonicalMeta(w, meta)
	canonicalSources(w, sources)
	return w.buf
}

// Hex computes the canonical SHA-256 hex digest of a project.
func Hex(info kip.Info, meta kip.Meta, sources map[string]SourceDigest) string {
	sum := sha256.Sum256(Bytes(info, meta, sources))
	return hex.EncodeToString(sum[:])
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefIRI(i *kip.IRI) string {
	if i == nil {
		return ""
	}
	return i.String()
}

func boolStr(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "true"
	}
	return "false"
}
