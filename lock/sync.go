package lock

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/environment"
	"github.com/sensmetry/sysand/storage"
)

// SourceFactories builds a read storage from one source variant. Each
// factory may be nil, in which case that variant is skipped. This is the
// injection point spec.md §4.5 describes as "factories for each variant
// are injected by the caller".
type SourceFactories struct {
	Editable   func(path string) (storage.ProjectRead, error)
	LocalSrc   func(path string) (storage.ProjectRead, error)
	LocalKpar  func(path string) (storage.ProjectRead, error)
	RemoteSrc  func(url string) (storage.ProjectRead, error)
	RemoteKpar func(url string, size *int64) (storage.ProjectRead, error)
	Git        func(url, rev string) (storage.ProjectRead, error)
}

// BuildStorage tries each of sources in order, using the first factory that
// both applies to that source's variant and succeeds.
func BuildStorage(sources []Source, f SourceFactories) (storage.ProjectRead, error) {
	var lastErr error
	tried := false

	for _, src := range sources {
		var build func() (storage.ProjectRead, error)
		switch {
		case src.Editable != nil && f.Editable != nil:
			path := *src.Editable
			build = func() (storage.ProjectRead, error) { return f.Editable(path) }
		case src.SrcPath != nil && f.LocalSrc != nil:
			path := *src.SrcPath
			build = func() (storage.ProjectRead, error) { return f.LocalSrc(path) }
		case src.KparPath != nil && f.LocalKpar != nil:
			path := *src.KparPath
			build = func() (storage.ProjectRead, error) { return f.LocalKpar(path) }
		case src.RemoteSrc != nil && f.RemoteSrc != nil:
			url := *src.RemoteSrc
			build = func() (storage.ProjectRead, error) { return f.RemoteSrc(url) }
		case src.RemoteKpar != nil && f.RemoteKpar != nil:
			url, size := src.RemoteKpar.URL, src.RemoteKpar.Size
			build = func() (storage.ProjectRead, error) { return f.RemoteKpar(url, size) }
		case src.Git != nil && f.Git != nil:
			url, rev := src.Git.URL, src.Git.Rev
			build = func() (storage.ProjectRead, error) { return f.Git(url, rev) }
		default:
			continue
		}

		tried = true
		if p, err := build(); err == nil {
			return p, nil
		} else {
			lastErr = err
		}
	}

	if !tried {
		return nil, errors.New("no source factory applied to any of this project's sources")
	}
	return nil, errors.Wrap(lastErr, "every applicable source factory failed")
}

// ChecksumMismatchError reports that a fetched storage's canonical checksum
// does not match the locked checksum.
type ChecksumMismatchError struct {
	IRI  string
	Want string
	Got  string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: locked %s, fetched %s", e.IRI, e.Want, e.Got)
}

// SyncResult reports the outcome for one locked project.
type SyncResult struct {
	IRI       string
	Version   string
	UpToDate  bool
	Installed bool
	Err       error
}

// Sync materialises every dependency project in l into env, per spec.md
// §4.5's do_sync. Entries with no Identifiers are root/input projects and
// are not installed. If keepGoing is false, Sync aborts at the first
// failing entry; otherwise it processes every entry and returns all
// results. The returned error is the first failure, wrapped with its IRI;
// every failing entry's own error is in its SyncResult.Err.
func Sync(l Lock, env environment.Environment, factories SourceFactories, keepGoing bool) ([]SyncResult, error) {
	var results []SyncResult
	var firstErr error

	for _, project := range l.Project {
		if len(project.Identifiers) == 0 {
			continue
		}
		iri := project.Identifiers[0]

		result := SyncResult{IRI: iri, Version: project.Version}
		err := syncOne(project, iri, env, factories, &result)
		if err != nil {
			result.Err = err
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "sync %s", iri)
			}
			results = append(results, result)
			if !keepGoing {
				return results, firstErr
			}
			continue
		}
		results = append(results, result)
	}

	return results, firstErr
}

func syncOne(project Project, iri string, env environment.Environment, factories SourceFactories, result *SyncResult) error {
	has, err := env.HasVersion(iri, project.Version)
	if err != nil {
		return err
	}

	if has {
		existing, err := env.GetProject(iri, project.Version)
		if err != nil {
			return err
		}
		existingChecksum, ok, err := storage.ChecksumCanonicalHex(existing)
		if err != nil {
			return err
		}
		if ok && existingChecksum == project.Checksum {
			result.UpToDate = true
			return nil
		}
	}

	fetched, err := BuildStorage(project.Sources, factories)
	if err != nil {
		return errors.Wrap(err, "build storage from locked sources")
	}

	fetchedChecksum, ok, err := storage.ChecksumCanonicalHex(fetched)
	if err != nil {
		return errors.Wrap(err, "compute fetched checksum")
	}
	if !ok {
		return errors.New("fetched storage is missing .project.json or .meta.json")
	}
	if fetchedChecksum != project.Checksum {
		return &ChecksumMismatchError{IRI: iri, Want: project.Checksum, Got: fetchedChecksum}
	}

	err = env.PutProject(iri, project.Version, func(w storage.ProjectWrite) error {
		return storage.CloneProject(fetched, w, true)
	})
	if err != nil {
		return errors.Wrap(err, "install")
	}

	result.Installed = true
	return nil
}
