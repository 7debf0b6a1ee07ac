package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/environment"
	"github.com/sensmetry/sysand/lock"
	"github.com/sensmetry/sysand/resolver"
	"github.com/sensmetry/sysand/workspace"
)

const lockFileName = "sysand-lock.toml"

type lockCommand struct {
	envRoot string
}

func (lockCommand) Name() string      { return "lock" }
func (lockCommand) ShortHelp() string { return "lock the project's dependencies to sysand-lock.toml" }

func (c *lockCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.envRoot, "env", ".sysand", "environment directory consulted while solving")
}

func (c *lockCommand) Run(cfg *Config, args []string) error {
	root := cfg.WorkingDir
	if len(args) > 0 {
		root = args[0]
	} else {
		discovered, err := workspace.Discover(root)
		if err == nil {
			root = discovered
		}
	}

	envRoot := c.envRoot
	if !filepath.IsAbs(envRoot) {
		envRoot = filepath.Join(root, envRoot)
	}
	env := environment.NewLocalDirectoryEnvironment(envRoot)

	remote := resolver.NewSequentialResolver(&resolver.HTTPResolver{}, &resolver.GitResolver{})

	if err := os.MkdirAll(envRoot, 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", envRoot)
	}
	cachePath := filepath.Join(envRoot, "resolve-cache.bolt")
	cache, err := resolver.OpenBoltVersionCache(cachePath, remote)
	if err != nil {
		return errors.Wrap(err, "open resolver cache")
	}
	defer cache.Close()

	r := resolver.NewCombinedResolver(
		&resolver.FileResolver{RelativePathRoot: root},
		&resolver.EnvResolver{Env: env},
		cache,
		nil,
	)

	outcome, err := lock.LockLocalEditable(root, r)
	if err != nil {
		return errors.Wrap(err, "lock dependencies")
	}

	data, err := lock.Marshal(outcome.Lock)
	if err != nil {
		return errors.Wrap(err, "marshal lockfile")
	}

	lockPath := filepath.Join(root, lockFileName)
	if err := os.WriteFile(lockPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", lockPath)
	}

	cfg.Logger.LogSolvefln("wrote %s (%d projects)", lockPath, len(outcome.Lock.Project))
	return nil
}
