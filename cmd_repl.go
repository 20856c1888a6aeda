package main

import (
	"context"
	"flag"
	"os"

	"nilan/repl"

	"github.com/google/subcommands"
)

// replCmd starts the bytecode-compiler-and-VM REPL.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start the compiled (bytecode VM) REPL" }
func (*replCmd) Usage() string {
	return "repl: start an interactive Nilan session backed by the bytecode compiler and VM.\n"
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repl.Start(os.Stdin, os.Stdout)
	return subcommands.ExitSuccess
}
