// Package repl implements Nilan's interactive read-eval-print loop over
// the bytecode compiler and VM, carrying compiled constants, the global
// symbol table, and the VM's globals store forward across lines so
// earlier let-bindings and functions stay visible to later input.
package repl

import (
	"io"
	"strings"

	"nilan/compiler"
	"nilan/lexer"
	"nilan/object"
	"nilan/parser"
	"nilan/symbol"
	"nilan/token"
	"nilan/vm"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

const Prompt = "nilan>> "
const continuationPrompt = "...... "

var (
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	cyanColor   = color.New(color.FgCyan)
)

// Start runs the REPL loop, writing results and diagnostics to out. Input
// lines come from readline's own terminal handling; in is not read.
func Start(in io.Reader, out io.Writer) {
	rl, err := readline.New(Prompt)
	if err != nil {
		redColor.Fprintf(out, "💥 %s\n", err)
		return
	}
	defer rl.Close()

	cyanColor.Fprintln(out, "Welcome to Nilan! Type 'exit' to quit.")

	constants := []object.Object{}
	globals := make([]object.Object, vm.GlobalsSize)
	symbolTable := symbol.New()
	for i, b := range object.Builtins {
		symbolTable.DefineBuiltin(i, b.Name)
	}

	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(Prompt)
		} else {
			rl.SetPrompt(continuationPrompt)
		}

		line, err := rl.Readline()
		if err != nil {
			cyanColor.Fprintln(out, "Bye!")
			return
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			cyanColor.Fprintln(out, "Bye!")
			return
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		toks, err := lexer.New(source).Scan()
		if err != nil {
			redColor.Fprintln(out, err.Error())
			buffer.Reset()
			continue
		}

		if !isInputReady(toks) {
			continue
		}

		p := parser.Make(toks)
		program := p.Parse()
		if len(p.Errors()) > 0 {
			if allParseErrorsAtEOF(p.Errors(), toks[len(toks)-1]) {
				continue
			}
			for _, parseErr := range p.Errors() {
				redColor.Fprintln(out, parseErr.Error())
			}
			buffer.Reset()
			continue
		}

		rl.SaveHistory(source)

		comp := compiler.NewWithState(symbolTable, constants)
		if err := comp.Compile(program); err != nil {
			redColor.Fprintln(out, err.Error())
			buffer.Reset()
			continue
		}

		bytecode := comp.Bytecode()
		constants = bytecode.Constants

		machine := vm.NewWithGlobalsStore(bytecode, globals)
		if err := machine.Run(); err != nil {
			redColor.Fprintln(out, err.Error())
			buffer.Reset()
			continue
		}

		result := machine.LastPoppedStackElement()
		if result != nil {
			yellowColor.Fprintln(out, result.Inspect())
		}
		buffer.Reset()
	}
}

// isInputReady reports whether toks holds a balanced, complete program —
// no unclosed braces, and a last non-EOF token that can end the input
// (not, e.g., a trailing operator, an opening delimiter or a keyword).
func isInputReady(toks []token.Token) bool {
	braceBalance := 0
	for _, tok := range toks {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(toks)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN, token.ADD, token.SUB, token.MULT, token.DIV, token.BANG,
		token.EQUAL_EQUAL, token.NOT_EQUAL, token.LESS, token.LESS_EQUAL,
		token.LARGER, token.LARGER_EQUAL, token.COMMA, token.LPA, token.LCUR,
		token.LBRACKET, token.COLON, token.IF, token.ELSE, token.FUNC, token.RETURN, token.LET:
		return false
	}
	return true
}

func lastNonEOF(toks []token.Token) *token.Token {
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].TokenType != token.EOF {
			return &toks[i]
		}
	}
	return nil
}

func allParseErrorsAtEOF(parseErrs []error, eof token.Token) bool {
	for _, parseErr := range parseErrs {
		syntaxErr, ok := parseErr.(parser.SyntaxError)
		if !ok {
			return false
		}
		if syntaxErr.Line != eof.Line || syntaxErr.Column != eof.Column {
			return false
		}
	}
	return len(parseErrs) > 0
}
