package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/etnz/fxdesk/assist"
	"github.com/etnz/fxdesk/config"
	"github.com/etnz/fxdesk/engine"
	"github.com/etnz/fxdesk/report"
	"github.com/etnz/fxdesk/runid"
	"github.com/etnz/fxdesk/source/csv"
)

// assistCmd runs a simulation in memory and asks the Gemini model to
// narrate its final snapshot, grounded on the teacher's cmd/assist.go
// (genai.NewClient(ctx, nil) construction, reporting failures to stderr)
// simplified to the single-question shape the assist package exposes.
type assistCmd struct {
	eventsFile string
	overrides  overrideFlag
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "run a simulation and ask the AI assistant to narrate its final snapshot"
}
func (*assistCmd) Usage() string {
	return `assist -events <file> [-set path=value]...

  Runs the simulation and prints a plain-English summary of its last
  snapshot record, then the snapshot's own markdown report. The
  configuration is read from the top-level -config-file flag, given before
  "assist".
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.eventsFile, "events", "", "path to the CSV file of input events")
	f.Var(&c.overrides, "set", "override a config field, e.g. -set lot_tracking.enabled=false (repeatable)")
}

func (c *assistCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	sink := &engine.SliceSink{}
	initial := engine.NewEngineState(cfg.ReportingCurrency, cfg.LotConfig())
	proc := engine.NewProcessor(sink, engine.WithLogger(logger))

	if _, err := proc.Run(initial, source); err != nil {
		fmt.Fprintln(os.Stderr, "Error running simulation:", err)
		return subcommands.ExitFailure
	}

	var last *engine.Fields
	for _, r := range sink.Records {
		if r.RecordType == engine.RecordSnapshot {
			last = r.Data
		}
	}
	if last == nil {
		fmt.Fprintln(os.Stderr, "Error: simulation produced no snapshot record")
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	summary, err := assist.NewSummarizer(client).Summarize(ctx, last)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error asking the AI assistant:", err)
		return subcommands.ExitFailure
	}

	fmt.Println(summary)
	fmt.Println()

	md, err := report.RenderSnapshotMarkdown(last)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error rendering snapshot report:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)

	return subcommands.ExitSuccess
}
