package main

import "flag"

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

type versionCommand struct{}

func (versionCommand) Name() string      { return "version" }
func (versionCommand) ShortHelp() string { return "print the sysand version" }
func (versionCommand) Register(*flag.FlagSet) {}

func (versionCommand) Run(c *Config, args []string) error {
	_, err := c.Stdout.Write([]byte("sysand " + version + "\n"))
	return err
}
