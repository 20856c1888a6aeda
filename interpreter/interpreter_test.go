package interpreter

import (
	"nilan/ast"
	"nilan/lexer"
	"nilan/parser"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(input).Scan()
	require.NoError(t, err)

	p := parser.Make(toks)
	program := p.Parse()
	require.Empty(t, p.Errors(), "parser errors: %v", p.Errors())
	return program
}

func TestArithmetic(t *testing.T) {
	i := Make()
	program := parseProgram(t, `let result = 1 + 2 * 3;`)
	i.Interpret(program)

	value, err := i.environment.get("result")
	require.NoError(t, err)
	require.EqualValues(t, 7, value)
}

func TestStringConcatenation(t *testing.T) {
	i := Make()
	program := parseProgram(t, `let greeting = "hello, " + "world";`)
	i.Interpret(program)

	value, err := i.environment.get("greeting")
	require.NoError(t, err)
	require.Equal(t, "hello, world", value)
}

func TestComparisonOperators(t *testing.T) {
	i := Make()
	program := parseProgram(t, `
let a = 1 < 2;
let b = 2 <= 2;
let c = 3 > 4;
`)
	i.Interpret(program)

	a, err := i.environment.get("a")
	require.NoError(t, err)
	require.Equal(t, true, a)

	b, err := i.environment.get("b")
	require.NoError(t, err)
	require.Equal(t, true, b)

	c, err := i.environment.get("c")
	require.NoError(t, err)
	require.Equal(t, false, c)
}

func TestIfElseBranchesIntoNestedEnvironment(t *testing.T) {
	i := Make()
	program := parseProgram(t, `
let x = 10;
if (x > 5) {
  let y = 1;
} else {
  let y = 2;
}
`)
	i.Interpret(program)

	_, err := i.environment.get("y")
	require.Error(t, err, "block-scoped let must not leak into the outer environment")
}

func TestUndefinedVariableRecoversWithoutPanickingOut(t *testing.T) {
	i := Make()
	program := parseProgram(t, `foobar;`)
	i.Interpret(program)
}

func TestFunctionLiteralIsUnsupported(t *testing.T) {
	i := Make()
	program := parseProgram(t, `let f = fn(x) { x };`)
	i.Interpret(program)

	_, err := i.environment.get("f")
	require.Error(t, err, "evaluator should recover from the unsupported-feature panic without binding f")
}
