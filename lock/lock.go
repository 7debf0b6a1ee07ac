// Package lock implements the lockfile format, the lock/sync engine and
// resolved-manifest emission of spec.md §4.5.
package lock

import (
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
)

// LockVersion is the only lock_version this package writes and accepts.
const LockVersion = "0.1"

// Source mirrors kip.SourceDescriptor in TOML form: an inline table
// carrying exactly one of its variant keys, per spec.md §4.5.
type Source struct {
	SrcPath    *string     `toml:"src_path,omitempty"`
	KparPath   *string     `toml:"kpar_path,omitempty"`
	RemoteSrc  *string     `toml:"remote_src,omitempty"`
	RemoteKpar *RemoteKpar `toml:"remote_kpar,omitempty"`
	Editable   *string     `toml:"editable,omitempty"`
	Git        *GitSource  `toml:"git,omitempty"`
}

// RemoteKpar is the remote_kpar source table.
type RemoteKpar struct {
	URL  string `toml:"url"`
	Size *int64 `toml:"size,omitempty"`
}

// GitSource is the git source table.
type GitSource struct {
	URL string `toml:"url"`
	Rev string `toml:"rev,omitempty"`
}

// SourceFromDescriptor converts a kip.SourceDescriptor to its TOML form.
func SourceFromDescriptor(d kip.SourceDescriptor) Source {
	switch d.Kind {
	case kip.SourceEditable:
		return Source{Editable: &d.Path}
	case kip.SourceLocalSrc:
		return Source{SrcPath: &d.SrcPath}
	case kip.SourceLocalKpar:
		return Source{KparPath: &d.KparPath}
	case kip.SourceRemoteSrc:
		return Source{RemoteSrc: &d.RemoteSrc}
	case kip.SourceRemoteKpar:
		return Source{RemoteKpar: &RemoteKpar{URL: d.RemoteKpar, Size: d.Size}}
	case kip.SourceGit:
		return Source{Git: &GitSource{URL: d.GitURL, Rev: d.GitRev}}
	default:
		return Source{}
	}
}

// Descriptor converts a TOML source table back to a kip.SourceDescriptor.
// It returns an error if none or more than one variant key is set.
func (s Source) Descriptor() (kip.SourceDescriptor, error) {
	set := 0
	for _, present := range []bool{s.SrcPath != nil, s.KparPath != nil, s.RemoteSrc != nil, s.RemoteKpar != nil, s.Editable != nil, s.Git != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return kip.SourceDescriptor{}, errors.Errorf("source table must carry exactly one variant key, found %d", set)
	}

	switch {
	case s.Editable != nil:
		return kip.Editable(*s.Editable), nil
	case s.SrcPath != nil:
		return kip.LocalSrc(*s.SrcPath), nil
	case s.KparPath != nil:
		return kip.LocalKpar(*s.KparPath), nil
	case s.RemoteSrc != nil:
		return kip.RemoteSrcDescriptor(*s.RemoteSrc), nil
	case s.RemoteKpar != nil:
		return kip.RemoteKparDescriptor(s.RemoteKpar.URL, s.RemoteKpar.Size), nil
	default: // s.Git != nil
		return kip.GitDescriptor(s.Git.URL, s.Git.Rev), nil
	}
}

// Project is one `[[project]]` table in a lockfile, per spec.md §4.5.
type Project struct {
	Name        *string        `toml:"name,omitempty"`
	Version     string         `toml:"version"`
	Exports     []string       `toml:"exports,omitempty"`
	Identifiers []string       `toml:"identifiers,omitempty"`
	Checksum    string         `toml:"checksum"`
	Sources     []Source       `toml:"sources,omitempty"`
	Usages      []kip.UsageRaw `toml:"usages,omitempty"`
}

// Lock is the root of a sysand-lock.toml document.
type Lock struct {
	LockVersion string    `toml:"lock_version"`
	Project     []Project `toml:"project"`
}

// New returns an empty Lock stamped with the current LockVersion.
func New() Lock {
	return Lock{LockVersion: LockVersion}
}

// Marshal renders l as TOML bytes.
func Marshal(l Lock) ([]byte, error) {
	if l.LockVersion == "" {
		l.LockVersion = LockVersion
	}
	data, err := toml.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "marshal lockfile")
	}
	return data, nil
}

// Unmarshal parses TOML bytes into a Lock.
func Unmarshal(data []byte) (Lock, error) {
	var l Lock
	if err := toml.Unmarshal(data, &l); err != nil {
		return Lock{}, errors.Wrap(err, "parse lockfile")
	}
	if l.LockVersion != "" && l.LockVersion != LockVersion {
		return Lock{}, errors.Errorf("unsupported lock_version %q", l.LockVersion)
	}
	return l, nil
}

// FindByIdentifier returns the project whose Identifiers contains iri, if
// any.
func (l Lock) FindByIdentifier(iri string) (Project, bool) {
	for _, p := range l.Project {
		for _, id := range p.Identifiers {
			if id == iri {
				return p, true
			}
		}
	}
	return Project{}, false
}
