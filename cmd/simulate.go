package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/fxdesk/config"
	"github.com/etnz/fxdesk/engine"
	"github.com/etnz/fxdesk/metrics"
	"github.com/etnz/fxdesk/runid"
	"github.com/etnz/fxdesk/sink/jsonl"
	"github.com/etnz/fxdesk/source/csv"
)

// simulateCmd runs a deterministic simulation over one CSV event file,
// writing JSON-lines output records, mirroring the teacher's holdingCmd
// shape: SetFlags builds up a config struct, Execute opens the inputs,
// runs the computation, and reports failures to stderr.
type simulateCmd struct {
	eventsFile string
	overrides  overrideFlag
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "run a deterministic simulation over a CSV event file" }
func (*simulateCmd) Usage() string {
	return `simulate -events <file> [-set path=value]...

  Runs every event in <file> through the engine in deterministic order and
  writes one JSON line per output record to stdout. The configuration is
  read from the top-level -config-file flag, given before "simulate".
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.eventsFile, "events", "", "path to the CSV file of input events")
	f.Var(&c.overrides, "set", "override a config field, e.g. -set lot_tracking.enabled=false (repeatable)")
}

func (c *simulateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.eventsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -events is required")
		return subcommands.ExitUsageError
	}

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
	cfg, err = config.ApplyOverrides(cfg, c.overrides.overrides)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error applying -set override:", err)
		return subcommands.ExitFailure
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: invalid config:", err)
		return subcommands.ExitFailure
	}

	eventsFile, err := os.Open(c.eventsFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening events file:", err)
		return subcommands.ExitFailure
	}
	defer eventsFile.Close()

	id := runid.New()
	logger := log.New(os.Stderr, fmt.Sprintf("run_id=%s ", id), log.LstdFlags)

	source := csv.New(eventsFile)
	sink := jsonl.New(os.Stdout)
	collector := metrics.NewCollector(id)

	initial := engine.NewEngineState(cfg.ReportingCurrency, cfg.LotConfig())
	proc := engine.NewProcessor(sink, collector.Option(), engine.WithLogger(logger))

	if _, err := proc.Run(initial, source); err != nil {
		fmt.Fprintln(os.Stderr, "Error running simulation:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
