// Package cmd implements the CLI application driving the simulation
// engine, grounded on the teacher's cmd/app.go: a Register function
// wiring subcommands into groups, package-level flag variables (a CLI
// process is short-lived, so globals are fine), and a printMarkdown
// helper that falls back to raw text if glamour fails to render.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/etnz/fxdesk/config"
)

// Register registers all the application's subcommands with the provided
// Commander. A main package calls Register to set up the CLI.
func Register(c *subcommands.Commander) {
	c.Register(&simulateCmd{}, "engine")
	c.Register(&validateCmd{}, "engine")
	c.Register(&assistCmd{}, "engine")
}

// As a CLI application, it has a very short-lived lifecycle, so it is ok
// to use global variables for flags.
var (
	configFile = flag.String("config-file", "config.json", "path to the engine's JSON configuration document")
	noRender   = flag.Bool("no-render", false, "print raw markdown instead of styling it for the terminal")
)

// printMarkdown renders a markdown string to stdout with appropriate
// styling. If styling fails for any reason (e.g., glamour error), it logs
// the error and falls back to printing the raw, un-styled markdown string.
func printMarkdown(md string) {
	if *noRender {
		fmt.Print(md)
		return
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		log.Printf("Error creating markdown renderer: %v. Falling back to raw output.", err)
		fmt.Print(md)
		return
	}
	out, err := renderer.Render(md)
	if err != nil {
		log.Printf("Error rendering markdown: %v. Falling back to raw output.", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// overrideFlag implements flag.Value, accumulating repeated -set
// path=value arguments into config.Override entries (spec §10.4). The
// caller writes bare dotted paths like "lot_tracking.enabled"; Set prepends
// the "$." root jsonpath.Get and config.ApplyOverrides expect.
type overrideFlag struct {
	overrides []config.Override
}

func (o *overrideFlag) String() string {
	if o == nil || len(o.overrides) == 0 {
		return ""
	}
	parts := make([]string, len(o.overrides))
	for i, ov := range o.overrides {
		parts[i] = fmt.Sprintf("%s=%v", ov.Path, ov.Value)
	}
	return strings.Join(parts, ",")
}

// Set parses one "path=value" argument. value is decoded as JSON first
// (so "false", "12", or "[\"a\",\"b\"]" become their typed Go values) and
// falls back to the raw string when it isn't valid JSON, so a plain
// "EUR/USD" override doesn't need to be quoted by the caller.
func (o *overrideFlag) Set(arg string) error {
	path, value, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("-set %q: want path=value", arg)
	}

	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		decoded = value
	}

	o.overrides = append(o.overrides, config.Override{Path: "$." + path, Value: decoded})
	return nil
}

// openConfigFile opens *configFile, the central place every subcommand
// needing configuration goes through, matching the teacher's single
// DecodeSecurities/DecodeLedger chokepoint pattern in cmd/main.go.
func openConfigFile() (*os.File, error) {
	return os.Open(*configFile)
}
