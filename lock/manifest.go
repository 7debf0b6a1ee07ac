package lock

import (
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/environment"
	"github.com/sensmetry/sysand/storage"
)

// ResolvedLocationKind discriminates ResolvedLocation's variants.
type ResolvedLocationKind int

const (
	// ResolvedDirectory names the directory a dependency was installed to.
	ResolvedDirectory ResolvedLocationKind = iota
	// ResolvedFiles lists the individual source files of a dependency that
	// has no installed copy, such as an editable project sourced in place.
	ResolvedFiles
)

// ResolvedLocation is where a resolved dependency's sources can be found.
type ResolvedLocation struct {
	Kind      ResolvedLocationKind
	Directory string   // ResolvedDirectory
	Files     []string // ResolvedFiles
}

// ResolvedProject is one `[[project]]` table of a resolved manifest, per
// spec.md §6.
type ResolvedProject struct {
	// Publisher is always nil: kip.PackageURL carries no namespace, so a
	// resolved manifest generated here never has anything to put in a
	// publisher field. See DESIGN.md.
	Publisher *string
	Name      *string
	Location  ResolvedLocation
	// Usages holds indices into ResolvedManifest.Projects for each usage
	// that resolved to an entry of this lockfile.
	Usages []int
}

// ResolvedManifest is the rendered form of a lockfile resolved against an
// environment: every dependency pinned either to the directory it was
// installed to, or to the concrete list of source files backing it.
type ResolvedManifest struct {
	Projects []ResolvedProject
}

type resolvedEntry struct {
	project Project
	storage storage.ProjectRead // nil if not installed in env
}

// resolveProjects pairs each locked project with its installed storage in
// env, if any of its identifiers names an installed version.
func resolveProjects(l Lock, env *environment.LocalDirectoryEnvironment) ([]resolvedEntry, error) {
	entries := make([]resolvedEntry, 0, len(l.Project))
	for _, p := range l.Project {
		var found storage.ProjectRead
		for _, iri := range p.Identifiers {
			ok, err := env.HasVersion(iri, p.Version)
			if err != nil {
				return nil, errors.Wrapf(err, "check %s@%s", iri, p.Version)
			}
			if ok {
				proj, err := env.GetProject(iri, p.Version)
				if err != nil {
					return nil, errors.Wrapf(err, "fetch %s@%s", iri, p.Version)
				}
				found = proj
				break
			}
		}
		entries = append(entries, resolvedEntry{project: p, storage: found})
	}
	return entries, nil
}

// ToResolvedManifest renders l as a resolved manifest: each project is
// resolved to either the directory it was installed to in env, or, for an
// editable project with no installed copy, the absolute paths of its
// source files (its editable path is taken relative to rootPath). Projects
// that are neither installed nor editable are left out. Grounded on
// original_source/core/src/env/local_directory/manifest.rs's
// Lock::to_resolved_manifest.
func ToResolvedManifest(l Lock, env *environment.LocalDirectoryEnvironment, rootPath string) (ResolvedManifest, error) {
	resolved, err := resolveProjects(l, env)
	if err != nil {
		return ResolvedManifest{}, err
	}

	indices := make(map[string]int, len(resolved))
	num := 0
	for _, entry := range resolved {
		if entry.storage == nil && (len(entry.project.Sources) == 0 || entry.project.Sources[0].Editable == nil) {
			continue // omitted from the manifest below
		}
		for _, iri := range entry.project.Identifiers {
			indices[iri] = num
		}
		num++
	}

	manifest := ResolvedManifest{Projects: make([]ResolvedProject, 0, len(resolved))}
	for _, entry := range resolved {
		var usages []int
		for _, u := range entry.project.Usages {
			if idx, ok := indices[u.Resource]; ok {
				usages = append(usages, idx)
			}
		}

		switch {
		case entry.storage != nil:
			local, ok := entry.storage.(*storage.LocalProject)
			if !ok {
				return ResolvedManifest{}, errors.Errorf("installed storage for %q is not directory-backed", firstIdentifier(entry.project))
			}
			manifest.Projects = append(manifest.Projects, ResolvedProject{
				Name: entry.project.Name,
				Location: ResolvedLocation{
					Kind:      ResolvedDirectory,
					Directory: local.Root,
				},
				Usages: usages,
			})

		case len(entry.project.Sources) > 0 && entry.project.Sources[0].Editable != nil:
			files, err := editableSourceFiles(rootPath, *entry.project.Sources[0].Editable)
			if err != nil {
				return ResolvedManifest{}, errors.Wrapf(err, "list source files for %q", firstIdentifier(entry.project))
			}
			manifest.Projects = append(manifest.Projects, ResolvedProject{
				Name: entry.project.Name,
				Location: ResolvedLocation{
					Kind:  ResolvedFiles,
					Files: files,
				},
				Usages: usages,
			})

		default:
			// Neither installed nor editable in place: spec.md §6 has
			// nothing to pin this dependency to, so it is omitted from
			// the resolved manifest.
		}
	}

	return manifest, nil
}

// resolvedProjectTOML is the TOML wire form of a ResolvedProject: a flat
// table with `directory` or `files` depending on which ResolvedLocation
// variant is populated.
type resolvedProjectTOML struct {
	Publisher *string  `toml:"publisher,omitempty"`
	Name      *string  `toml:"name,omitempty"`
	Directory *string  `toml:"directory,omitempty"`
	Files     []string `toml:"files,omitempty"`
	Usages    []int    `toml:"usages,omitempty"`
}

type resolvedManifestTOML struct {
	Project []resolvedProjectTOML `toml:"project"`
}

// MarshalResolved renders m as TOML bytes, per spec.md §6.
func MarshalResolved(m ResolvedManifest) ([]byte, error) {
	doc := resolvedManifestTOML{Project: make([]resolvedProjectTOML, len(m.Projects))}
	for i, p := range m.Projects {
		row := resolvedProjectTOML{Publisher: p.Publisher, Name: p.Name, Usages: p.Usages}
		switch p.Location.Kind {
		case ResolvedDirectory:
			row.Directory = &p.Location.Directory
		case ResolvedFiles:
			row.Files = p.Location.Files
		}
		doc.Project[i] = row
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal resolved manifest")
	}
	return data, nil
}

func firstIdentifier(p Project) string {
	if len(p.Identifiers) == 0 {
		return ""
	}
	return p.Identifiers[0]
}

// editableSourceFiles lists the absolute paths of an editable project's
// registered source files, per original_source's
// do_sources_local_src_project_no_deps.
func editableSourceFiles(rootPath, editablePath string) ([]string, error) {
	abs, err := filepath.Abs(filepath.Join(rootPath, editablePath))
	if err != nil {
		return nil, err
	}
	project := storage.NewLocalProject(abs)
	rawMeta, err := project.GetMeta()
	if err != nil {
		return nil, err
	}
	if rawMeta == nil {
		return nil, nil
	}
	meta, err := rawMeta.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "validate meta")
	}

	paths := meta.SourcePaths()
	files := make([]string, len(paths))
	for i, p := range paths {
		files[i] = filepath.Join(abs, filepath.FromSlash(p))
	}
	return files, nil
}
