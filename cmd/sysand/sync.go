package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/environment"
	"github.com/sensmetry/sysand/lock"
	"github.com/sensmetry/sysand/storage"
	"github.com/sensmetry/sysand/workspace"
)

type syncCommand struct {
	envRoot   string
	keepGoing bool
}

func (syncCommand) Name() string { return "sync" }
func (syncCommand) ShortHelp() string {
	return "materialise sysand-lock.toml's dependencies into the environment"
}

func (c *syncCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.envRoot, "env", ".sysand", "environment directory to install into")
	fs.BoolVar(&c.keepGoing, "keep-going", false, "process every locked project even if some fail")
}

func (c *syncCommand) Run(cfg *Config, args []string) error {
	root := cfg.WorkingDir
	if len(args) > 0 {
		root = args[0]
	} else if discovered, err := workspace.Discover(root); err == nil {
		root = discovered
	}

	lockPath := filepath.Join(root, lockFileName)
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return errors.Wrapf(err, "read %s", lockPath)
	}
	l, err := lock.Unmarshal(data)
	if err != nil {
		return errors.Wrapf(err, "parse %s", lockPath)
	}

	envRoot := c.envRoot
	if !filepath.IsAbs(envRoot) {
		envRoot = filepath.Join(root, envRoot)
	}
	env := environment.NewLocalDirectoryEnvironment(envRoot)

	factories := lock.SourceFactories{
		Editable: func(path string) (storage.ProjectRead, error) {
			return storage.NewLocalProject(path), nil
		},
		LocalSrc: func(path string) (storage.ProjectRead, error) {
			return storage.NewLocalProject(path), nil
		},
		LocalKpar: func(path string) (storage.ProjectRead, error) {
			return storage.OpenKparProject(path)
		},
	}

	results, err := lock.Sync(l, env, factories, c.keepGoing)
	for _, result := range results {
		switch {
		case result.Err != nil:
			cfg.Logger.LogSyncfln("%s@%s: failed: %v", result.IRI, result.Version, result.Err)
		case result.Installed:
			cfg.Logger.LogSyncfln("%s@%s: installed", result.IRI, result.Version)
		case result.UpToDate:
			cfg.Logger.LogSyncfln("%s@%s: up to date", result.IRI, result.Version)
		}
	}
	if err != nil {
		return errors.Wrap(err, "sync")
	}

	manifest, err := lock.ToResolvedManifest(l, env, root)
	if err != nil {
		return errors.Wrap(err, "build resolved manifest")
	}
	manifestData, err := lock.MarshalResolved(manifest)
	if err != nil {
		return errors.Wrap(err, "marshal resolved manifest")
	}
	manifestPath := filepath.Join(root, "sysand_manifest.toml")
	if err := os.WriteFile(manifestPath, manifestData, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", manifestPath)
	}

	return nil
}
