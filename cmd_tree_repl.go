package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"nilan/interpreter"
	"nilan/lexer"
	"nilan/parser"

	"github.com/google/subcommands"
)

// treeReplCmd starts the legacy tree-walk REPL, kept only for parity
// checks against the bytecode VM.
type treeReplCmd struct{}

func (*treeReplCmd) Name() string     { return "tree" }
func (*treeReplCmd) Synopsis() string { return "Start the legacy tree-walk REPL" }
func (*treeReplCmd) Usage() string {
	return "tree: start the legacy tree-walk evaluator's REPL (no functions, arrays, or hashes).\n"
}
func (*treeReplCmd) SetFlags(f *flag.FlagSet) {}

func (*treeReplCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("Welcome to Nilan! (legacy tree-walk mode)")
	treeRepl(os.Stdin, os.Stdout)
	return subcommands.ExitSuccess
}

func treeRepl(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	evaluator := interpreter.Make()

	for {
		fmt.Fprint(out, ">>> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "exit" {
			return
		}

		toks, err := lexer.New(line).Scan()
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		p := parser.Make(toks)
		program := p.Parse()
		if len(p.Errors()) > 0 {
			for _, parseErr := range p.Errors() {
				fmt.Fprintln(os.Stderr, parseErr)
			}
			continue
		}

		evaluator.Interpret(program)
	}
}
