// Command fxdesk is the entry point for the simulation engine's CLI,
// grounded on the teacher's pcs/main.go: it builds a subcommands.Commander,
// registers the built-in commands, and wires shell completion through
// posener/complete/v2 by walking the same Commander with a small
// complete.Completer adapter.
package main

import (
	"context"
	"flag"
	"maps"
	"os"
	"path"
	"slices"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/fxdesk/cmd"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cmd.Register(commander)

	complete.Complete("fxdesk", newCommanderCompleter(commander))

	flag.Parse()

	os.Exit(int(commander.Execute(context.Background())))
}

func newCommanderCompleter(c *subcommands.Commander) complete.Completer {
	sub := &completer{
		subcommands: make(map[string]complete.Completer),
		flags:       make(map[string]complete.Predictor),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cc subcommands.Command) {
		sub.subcommands[cc.Name()] = newCommandCompleter(cc)
	})
	c.VisitAll(func(f *flag.Flag) {
		sub.flags[f.Name] = newFlagPredictor(f)
	})
	return sub
}

func newCommandCompleter(c subcommands.Command) complete.Completer {
	sub := &completer{
		subcommands: make(map[string]complete.Completer),
		flags:       make(map[string]complete.Predictor),
	}
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	fs.VisitAll(func(f *flag.Flag) {
		sub.flags[f.Name] = newFlagPredictor(f)
	})
	return sub
}

func newFlagPredictor(f *flag.Flag) complete.Predictor {
	if p, ok := f.Value.(complete.Predictor); ok {
		return p
	}
	return predict.Nothing
}

// completer adapts a subcommands.Commander (or a single Command's flag
// set) to complete/v2's Completer contract.
type completer struct {
	subcommands map[string]complete.Completer
	flags       map[string]complete.Predictor
}

func (s *completer) SubCmdList() []string                     { return nil }
func (s *completer) SubCmdGet(name string) complete.Completer { return s.subcommands[name] }
func (s *completer) FlagList() []string                       { return slices.Collect(maps.Keys(s.flags)) }
func (s *completer) FlagGet(name string) complete.Predictor   { return s.flags[name] }

func (s *completer) ArgsGet() complete.Predictor {
	if len(s.subcommands) > 0 {
		return predict.Set(slices.Collect(maps.Keys(s.subcommands)))
	}
	return predict.Nothing
}
