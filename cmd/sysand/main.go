// Command sysand is a thin, illustrative command-line frontend over the
// sysand core packages. Per spec.md §1 the CLI, its flag parsing and its
// output styling are external collaborators, not core scope; this
// dispatcher is grounded on golang-dep/cmd/dep/main.go's hand-rolled
// command table, with no framework.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sensmetry/sysand/log"
)

type command interface {
	Name() string
	ShortHelp() string
	Register(*flag.FlagSet)
	Run(*Config, []string) error
}

// Config is a full configuration for one sysand execution.
type Config struct {
	WorkingDir     string
	Stdout, Stderr io.Writer
	Logger         *log.Logger
}

func main() {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to get working directory:", err)
		os.Exit(1)
	}

	c := &Config{
		WorkingDir: wd,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Logger:     log.New(os.Stderr),
	}
	os.Exit(run(c, os.Args[1:]))
}

func commands() []command {
	return []command{
		&lockCommand{},
		&syncCommand{},
		&publishCommand{},
		&versionCommand{},
	}
}

func usage(stderr io.Writer, cmds []command) {
	fmt.Fprintln(stderr, "sysand is a tool for managing SysML/KerML interchange project dependencies")
	fmt.Fprintln(stderr)
	fmt.Fprintln(stderr, "Usage: sysand <command> [arguments]")
	fmt.Fprintln(stderr)
	fmt.Fprintln(stderr, "Commands:")
	for _, cmd := range cmds {
		fmt.Fprintf(stderr, "  %-10s %s\n", cmd.Name(), cmd.ShortHelp())
	}
}

func run(c *Config, args []string) int {
	cmds := commands()

	if len(args) == 0 {
		usage(c.Stderr, cmds)
		return 1
	}

	name := args[0]
	for _, cmd := range cmds {
		if cmd.Name() != name {
			continue
		}

		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(c.Stderr)
		cmd.Register(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return 1
		}

		if err := cmd.Run(c, fs.Args()); err != nil {
			fmt.Fprintf(c.Stderr, "sysand %s: %v\n", name, err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(c.Stderr, "sysand: unknown command %q\n\n", name)
	usage(c.Stderr, cmds)
	return 1
}
