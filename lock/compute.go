package lock

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
	"github.com/sensmetry/sysand/resolver"
	"github.com/sensmetry/sysand/solver"
	"github.com/sensmetry/sysand/storage"
)

// IncompleteProjectError reports an input project missing .project.json or
// .meta.json, or whose canonical checksum could not be computed.
type IncompleteProjectError struct {
	Detail string
}

func (e *IncompleteProjectError) Error() string {
	return "incomplete project: " + e.Detail
}

// Outcome is the result of locking: the lockfile plus the dependency
// storages the solver picked, keyed by their resolved IRI.
type Outcome struct {
	Lock         Lock
	Dependencies map[string]storage.ProjectRead
}

func projectToLockEntry(p storage.ProjectRead, identifiers []string) (Project, error) {
	rawInfo, rawMeta, err := storage.GetProject(p)
	if err != nil {
		return Project{}, err
	}
	if rawInfo == nil || rawMeta == nil {
		return Project{}, &IncompleteProjectError{Detail: "missing .project.json or .meta.json"}
	}
	info, err := rawInfo.Validate()
	if err != nil {
		return Project{}, errors.Wrap(err, "validate info")
	}
	meta, err := rawMeta.Validate()
	if err != nil {
		return Project{}, errors.Wrap(err, "validate meta")
	}

	checksum, ok, err := storage.ChecksumCanonicalHex(p)
	if err != nil {
		return Project{}, errors.Wrap(err, "compute canonical checksum")
	}
	if !ok {
		return Project{}, &IncompleteProjectError{Detail: "cannot compute canonical checksum"}
	}

	exports := make([]string, 0, len(meta.Index))
	for sym := range meta.Index {
		exports = append(exports, sym)
	}
	sort.Strings(exports)

	sources := make([]Source, 0, len(p.Sources()))
	for _, d := range p.Sources() {
		sources = append(sources, SourceFromDescriptor(d))
	}

	name := info.Name
	usages := make([]kip.UsageRaw, len(info.Usage))
	for i, u := range info.Usage {
		usages[i] = u.Raw()
	}

	return Project{
		Name:        &name,
		Version:     info.Version.Original(),
		Exports:     exports,
		Identifiers: identifiers,
		Checksum:    checksum,
		Sources:     sources,
		Usages:      usages,
	}, nil
}

// DoLockProjects generates a lockfile for a set of input projects (whose
// sources are described directly, with no resolver-assigned identifier)
// plus the transitive closure of their usages, solved through resolver.
// Grounded on
// original_source/core/src/commands/lock.rs's do_lock_projects.
func DoLockProjects(projects []storage.ProjectRead, r resolver.Resolver) (Outcome, error) {
	l := New()
	var allUsages []kip.Usage

	for _, p := range projects {
		entry, err := projectToLockEntry(p, nil)
		if err != nil {
			return Outcome{}, err
		}
		l.Project = append(l.Project, entry)

		rawInfo, err := p.GetInfo()
		if err != nil {
			return Outcome{}, err
		}
		info, err := rawInfo.Validate()
		if err != nil {
			return Outcome{}, errors.Wrap(err, "validate info")
		}
		allUsages = append(allUsages, info.Usage...)
	}

	return DoLockExtend(l, allUsages, r)
}

// DoLockExtend solves usages through resolver and appends the solution's
// picks to lock, identified by their resolved IRI. The existing content of
// lock is not taken into account during solving.
func DoLockExtend(l Lock, usages []kip.Usage, r resolver.Resolver) (Outcome, error) {
	solution, err := solver.Solve(usages, r, nil)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "solve dependencies")
	}

	iris := make([]string, 0, len(solution))
	for iri := range solution {
		iris = append(iris, iri)
	}
	sort.Strings(iris)

	dependencies := make(map[string]storage.ProjectRead, len(solution))
	for _, iri := range iris {
		entry := solution[iri]
		lockEntry, err := projectToLockEntry(entry.Storage, []string{iri})
		if err != nil {
			return Outcome{}, err
		}
		l.Project = append(l.Project, lockEntry)
		dependencies[iri] = entry.Storage
	}

	return Outcome{Lock: l, Dependencies: dependencies}, nil
}

// LockLocalEditable treats the project at path as an editable project
// (sourced in place, rather than copied) and locks its dependencies.
// Grounded on
// original_source/core/src/commands/lock.rs's do_lock_local_editable.
func LockLocalEditable(path string, r resolver.Resolver) (Outcome, error) {
	editable := &storage.EditableProject{Inner: storage.NewLocalProject(path), Path: "."}
	return DoLockProjects([]storage.ProjectRead{editable}, r)
}
