package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/kip"
)

const infoFileName = ".workspace.json"

// ProjectInfoRaw is one entry of a .workspace.json's "projects" array.
type ProjectInfoRaw struct {
	Path string   `json:"path"`
	IRIs []string `json:"iris"`
}

// InfoRaw is the unvalidated form of a .workspace.json document.
type InfoRaw struct {
	Projects []ProjectInfoRaw `json:"projects"`
}

// ProjectInfo is a validated workspace member: a path relative to the
// workspace root, and the IRIs of the projects found there.
type ProjectInfo struct {
	Path string
	IRIs []kip.IRI
}

// Info is a validated .workspace.json document.
type Info struct {
	Projects []ProjectInfo
}

// Validate parses every member's IRIs, failing on the first invalid one.
func (r InfoRaw) Validate() (Info, error) {
	projects := make([]ProjectInfo, len(r.Projects))
	for i, p := range r.Projects {
		iris := make([]kip.IRI, len(p.IRIs))
		for j, s := range p.IRIs {
			iri, err := kip.ParseIRI(s)
			if err != nil {
				return Info{}, errors.Wrapf(err, "project %q: parse iri %q", p.Path, s)
			}
			iris[j] = iri
		}
		projects[i] = ProjectInfo{Path: p.Path, IRIs: iris}
	}
	return Info{Projects: projects}, nil
}

// Workspace is a loaded .workspace.json, rooted at a directory.
type Workspace struct {
	RootDir string
	info    Info
}

// Load reads and validates rootDir's .workspace.json.
func Load(rootDir string) (*Workspace, error) {
	infoPath := filepath.Join(rootDir, infoFileName)
	data, err := os.ReadFile(infoPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", infoPath)
	}

	var raw InfoRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parse %s", infoPath)
	}

	info, err := raw.Validate()
	if err != nil {
		return nil, errors.Wrapf(err, "validate %s", infoPath)
	}

	return &Workspace{RootDir: rootDir, info: info}, nil
}

// InfoPath is the path to this workspace's .workspace.json.
func (w *Workspace) InfoPath() string {
	return filepath.Join(w.RootDir, infoFileName)
}

// Projects returns the workspace's member projects.
func (w *Workspace) Projects() []ProjectInfo {
	return w.info.Projects
}
