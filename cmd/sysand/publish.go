package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/publish"
)

type publishCommand struct{}

func (publishCommand) Name() string      { return "publish" }
func (publishCommand) ShortHelp() string { return "publish a .kpar archive to an index" }
func (publishCommand) Register(*flag.FlagSet) {}

func (publishCommand) Run(cfg *Config, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: sysand publish <kpar-path> <index-url>")
	}
	kparPath, indexURL := args[0], args[1]

	var auth publish.AuthPolicy = publish.NoAuth{}
	if token := os.Getenv(publish.TokenEnvVar); token != "" {
		auth = publish.BearerToken{Token: token}
	}

	resp, err := publish.Upload(kparPath, indexURL, auth, http.DefaultClient)
	if err != nil {
		return err
	}

	if resp.IsNewProject {
		cfg.Logger.Logf("published new project: %s\n", resp.Message)
	} else {
		cfg.Logger.Logf("published new version: %s\n", resp.Message)
	}
	return nil
}
