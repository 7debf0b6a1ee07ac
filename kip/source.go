package kip

// SourceKind discriminates the variants of SourceDescriptor.
type SourceKind int

const (
	// SourceEditable names a path, relative to the workspace root, whose
	// sources are read in place.
	SourceEditable SourceKind = iota
	// SourceLocalSrc names a local source directory.
	SourceLocalSrc
	// SourceLocalKpar names a local .kpar archive.
	SourceLocalKpar
	// SourceRemoteSrc names an HTTP base URL serving the project sources.
	SourceRemoteSrc
	// SourceRemoteKpar names an HTTP URL serving a downloadable .kpar archive.
	SourceRemoteKpar
	// SourceGit names a git remote and revision.
	SourceGit
)

// SourceDescriptor identifies where a project storage was materialised
// from, for lockfile emission (spec.md §3, "Source descriptor").
//
// Exactly one of the typed fields is meaningful, selected by Kind. This is
// the tagged-union idiom used throughout the core in place of Rust's
// `enum Source { ... }`.
type SourceDescriptor struct {
	Kind SourceKind

	Path string // SourceEditable

	SrcPath string // SourceLocalSrc
	KparPath string // SourceLocalKpar

	RemoteSrc string // SourceRemoteSrc

	RemoteKpar string // SourceRemoteKpar
	Size       *int64 // SourceRemoteKpar, optional

	GitURL string // SourceGit
	GitRev string // SourceGit
}

// Editable constructs an Editable source descriptor.
func Editable(path string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceEditable, Path: path}
}

// LocalSrc constructs a LocalSrc source descriptor.
func LocalSrc(path string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceLocalSrc, SrcPath: path}
}

// LocalKpar constructs a LocalKpar source descriptor.
func LocalKpar(path string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceLocalKpar, KparPath: path}
}

// RemoteSrcDescriptor constructs a RemoteSrc source descriptor.
func RemoteSrcDescriptor(url string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceRemoteSrc, RemoteSrc: url}
}

// RemoteKparDescriptor constructs a RemoteKpar source descriptor.
func RemoteKparDescriptor(url string, size *int64) SourceDescriptor {
	return SourceDescriptor{Kind: SourceRemoteKpar, RemoteKpar: url, Size: size}
}

// GitDescriptor constructs a Git source descriptor.
func GitDescriptor(url, rev string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceGit, GitURL: url, GitRev: rev}
}
