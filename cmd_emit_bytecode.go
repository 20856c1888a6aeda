package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"nilan/ast"
	"nilan/compiler"
	"nilan/lexer"
	"nilan/parser"

	"github.com/google/subcommands"
)

// disasmCmd compiles a .nil source file and prints its disassembled
// bytecode, optionally dumping the parsed AST as JSON alongside it.
type disasmCmd struct {
	dumpAST bool
}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "Compile a Nilan source file and print its bytecode" }
func (*disasmCmd) Usage() string {
	return "disasm [-dumpAST] <file>: compile <file> and print the disassembled instruction stream.\n"
}

func (cmd *disasmCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dumpAST, "dumpAST", false, "also write the parsed AST as JSON to ast.json")
}

func (cmd *disasmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 file not provided")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	toks, err := lexer.New(string(data)).Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lexing error: %v\n", err)
		return subcommands.ExitFailure
	}

	p := parser.Make(toks)
	program := p.Parse()
	if len(p.Errors()) > 0 {
		for _, parseErr := range p.Errors() {
			fmt.Fprintln(os.Stderr, parseErr)
		}
		return subcommands.ExitFailure
	}

	if cmd.dumpAST {
		if err := ast.WriteJSONToFile(program, "ast.json"); err != nil {
			fmt.Fprintf(os.Stderr, "💥 failed to write AST: %v\n", err)
		}
	}

	comp := compiler.New()
	if err := comp.Compile(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	bytecode := comp.Bytecode()
	fmt.Print(bytecode.Instructions.String())

	return subcommands.ExitSuccess
}
