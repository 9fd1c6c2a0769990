package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/fxdesk/config"
)

// validateCmd checks a configuration document against the engine's
// startup invariants (spec §3.5) without running any events, for a CI
// step that should fail fast on a malformed lot_tracking block.
type validateCmd struct{}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check a configuration file's startup invariants" }
func (*validateCmd) Usage() string {
	return `validate

  Loads the configuration document named by the top-level -config-file
  flag (given before "validate") and reports any invariant violation.
`
}

func (*validateCmd) SetFlags(_ *flag.FlagSet) {}

func (*validateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfgFile, err := openConfigFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening config file:", err)
		return subcommands.ExitFailure
	}
	defer cfgFile.Close()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		return subcommands.ExitFailure
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid config:", err)
		return subcommands.ExitFailure
	}

	fmt.Println("config is valid")
	return subcommands.ExitSuccess
}
