package environment

import (
	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/storage"
)

// NullEnvironment is always empty and always fails resolution, per
// spec.md §4.2. It is useful as a safe default when no environment has
// been configured, mirroring original_source/core/src/env/null.rs.
type NullEnvironment struct{}

func (NullEnvironment) URIs() ([]string, error)              { return nil, nil }
func (NullEnvironment) Versions(string) ([]string, error)     { return nil, nil }
func (NullEnvironment) Has(string) (bool, error)              { return false, nil }
func (NullEnvironment) HasVersion(string, string) (bool, error) { return false, nil }

func (NullEnvironment) GetProject(uri, version string) (storage.ProjectRead, error) {
	return nil, errors.Errorf("null environment holds no projects (requested %s@%s)", uri, version)
}

func (NullEnvironment) PutProject(string, string, func(storage.ProjectWrite) error) error {
	return errors.New("null environment does not accept writes")
}

func (NullEnvironment) DelProjectVersion(string, string) error { return nil }
func (NullEnvironment) DelUri(string) error                    { return nil }

var _ Environment = NullEnvironment{}
