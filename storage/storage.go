// Package storage implements the project storage abstraction of spec.md
// §4.1: a uniform read/write contract over a project's (info, meta, source
// files) triple, across heterogeneous backends.
package storage

import (
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/canon"
	"github.com/sensmetry/sysand/kip"
	"github.com/sensmetry/sysand/symbols"
)

// NotFoundError reports a missing source file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return "source not found: " + e.Path }

// AlreadyExistsError reports a refused overwrite.
type AlreadyExistsError struct {
	What string
}

func (e *AlreadyExistsError) Error() string { return e.What + " already exists" }

// ProjectRead is the read-only contract over a single project's storage.
type ProjectRead interface {
	// GetInfo returns the raw project information, or nil if .project.json
	// is missing. It fails only on a genuine read error.
	GetInfo() (*kip.InfoRaw, error)
	// GetMeta returns the raw project metadata, or nil if .meta.json is
	// missing. It fails only on a genuine read error.
	GetMeta() (*kip.MetaRaw, error)
	// ReadSource returns the bytes at path, or a *NotFoundError if absent.
	ReadSource(path string) ([]byte, error)
	// Sources returns the descriptors identifying this storage's origin,
	// for lockfile emission.
	Sources() []kip.SourceDescriptor
}

// ProjectWrite is the write contract over a mutable project storage.
type ProjectWrite interface {
	ProjectRead
	// PutInfo writes info, refusing to overwrite unless overwrite is true.
	PutInfo(raw kip.InfoRaw, overwrite bool) error
	// PutMeta writes meta, refusing to overwrite unless overwrite is true.
	PutMeta(raw kip.MetaRaw, overwrite bool) error
	// WriteSource streams data into path, refusing to overwrite unless
	// overwrite is true.
	WriteSource(path string, data []byte, overwrite bool) error
	// IncludeSource registers path in meta.checksum (and, if updateIndex,
	// meta.index via symbol extraction). The source must already have been
	// written.
	IncludeSource(path string, computeChecksum, updateIndex bool) error
	// ExcludeSource removes path from meta.checksum/index. existed reports
	// whether the entry was present.
	ExcludeSource(path string) (existed bool, err error)
}

// GetProject returns (info, meta) together, as a convenience over GetInfo
// plus GetMeta.
func GetProject(p ProjectRead) (*kip.InfoRaw, *kip.MetaRaw, error) {
	info, err := p.GetInfo()
	if err != nil {
		return nil, nil, err
	}
	meta, err := p.GetMeta()
	if err != nil {
		return nil, nil, err
	}
	return info, meta, nil
}

// ChecksumCanonicalHex computes the canonical SHA-256 hex digest of a
// project's contents, per spec.md §3/§4.6. It returns "", false when info
// or meta is absent.
func ChecksumCanonicalHex(p ProjectRead) (string, bool, error) {
	rawInfo, rawMeta, err := GetProject(p)
	if err != nil {
		return "", false, err
	}
	if rawInfo == nil || rawMeta == nil {
		return "", false, nil
	}
	info, err := rawInfo.Validate()
	if err != nil {
		return "", false, errors.Wrap(err, "validate info")
	}
	meta, err := rawMeta.Validate()
	if err != nil {
		return "", false, errors.Wrap(err, "validate meta")
	}

	digests := map[string]canon.SourceDigest{}
	for _, path := range meta.SourcePaths() {
		data, err := p.ReadSource(path)
		if err != nil {
			return "", false, errors.Wrapf(err, "read source %s", path)
		}
		digests[path] = canon.HashSource(data)
	}

	return canon.Hex(info, meta, digests), true, nil
}

// CloneProject copies (info, meta, sources) from a read storage into a
// write storage, failing if either manifest is missing. Grounded on
// original_source/core/src/env/utils.rs's clone_project.
func CloneProject(from ProjectRead, to ProjectWrite, overwrite bool) error {
	rawInfo, rawMeta, err := GetProject(from)
	if err != nil {
		return err
	}
	if rawInfo == nil || rawMeta == nil {
		return errors.New("incomplete source project: missing .project.json or .meta.json")
	}
	meta, err := rawMeta.Validate()
	if err != nil {
		return errors.Wrap(err, "validate meta")
	}

	if err := to.PutInfo(*rawInfo, overwrite); err != nil {
		return err
	}
	if err := to.PutMeta(*rawMeta, overwrite); err != nil {
		return err
	}

	for _, path := range meta.SourcePaths() {
		data, err := from.ReadSource(path)
		if err != nil {
			return errors.Wrapf(err, "read source %s", path)
		}
		if err := to.WriteSource(path, data, overwrite); err != nil {
			return errors.Wrapf(err, "write source %s", path)
		}
	}
	return nil
}

// IncludeSourceDefault implements the IncludeSource write operation in
// terms of GetMeta/ReadSource/PutMeta, so that each backend need only wire
// its own storage primitives through this shared logic.
func IncludeSourceDefault(p ProjectWrite, path string, computeChecksum, updateIndex bool) error {
	rawMeta, err := p.GetMeta()
	if err != nil {
		return err
	}
	if rawMeta == nil {
		return errors.New("cannot include a source before .meta.json exists")
	}
	meta, err := rawMeta.Validate()
	if err != nil {
		return errors.Wrap(err, "validate meta")
	}

	data, err := p.ReadSource(path)
	if err != nil {
		return errors.Wrapf(err, "read source %s", path)
	}

	if computeChecksum {
		if meta.Checksum == nil {
			meta.Checksum = map[string]kip.ChecksumEntry{}
		}
		digest := canon.HashSource(data)
		meta.Checksum[path] = kip.ChecksumEntry{Algorithm: "SHA256", Value: hex.EncodeToString(digest[:])}
	}

	if updateIndex {
		names, err := symbols.ExtractTopLevel(string(data))
		if err != nil {
			return errors.Wrapf(err, "extract symbols from %s", path)
		}
		if meta.Index == nil {
			meta.Index = map[string]string{}
		}
		for _, name := range names {
			meta.Index[name] = path
		}
	}

	return p.PutMeta(meta.Raw(), true)
}

// ExcludeSourceDefault implements the ExcludeSource write operation in
// terms of GetMeta/PutMeta.
func ExcludeSourceDefault(p ProjectWrite, path string) (bool, error) {
	rawMeta, err := p.GetMeta()
	if err != nil {
		return false, err
	}
	if rawMeta == nil {
		return false, nil
	}
	meta, err := rawMeta.Validate()
	if err != nil {
		return false, errors.Wrap(err, "validate meta")
	}

	existed := false
	if meta.Checksum != nil {
		if _, ok := meta.Checksum[path]; ok {
			delete(meta.Checksum, path)
			existed = true
		}
	}
	for sym, p2 := range meta.Index {
		if p2 == path {
			delete(meta.Index, sym)
			existed = true
		}
	}

	if !existed {
		return false, nil
	}
	return true, p.PutMeta(meta.Raw(), true)
}
