package ast

import (
	"nilan/token"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetStatementString(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&LetStatement{
				Token: token.CreateToken(token.LET, "let", 1, 0),
				Name: &Identifier{
					Token: token.CreateToken(token.IDENTIFIER, "myVar", 1, 4),
					Value: "myVar",
				},
				Value: &Identifier{
					Token: token.CreateToken(token.IDENTIFIER, "anotherVar", 1, 12),
					Value: "anotherVar",
				},
			},
		},
	}

	assert.Equal(t, "let myVar = anotherVar;", program.String())
}

func TestInfixExpressionStringIsFullyParenthesized(t *testing.T) {
	expr := &InfixExpression{
		Token:    token.CreateToken(token.ADD, "+", 1, 0),
		Operator: "+",
		Left: &InfixExpression{
			Token:    token.CreateToken(token.MULT, "*", 1, 0),
			Operator: "*",
			Left:     &IntegerLiteral{Value: 1},
			Right:    &IntegerLiteral{Value: 2},
		},
		Right: &IntegerLiteral{Value: 3},
	}

	assert.Equal(t, "((1 * 2) + 3)", expr.String())
}

func TestPrefixExpressionString(t *testing.T) {
	expr := &PrefixExpression{
		Operator: "!",
		Right:    &Boolean{Value: true, Token: token.CreateToken(token.TRUE, "true", 1, 0)},
	}

	assert.Equal(t, "(!true)", expr.String())
}

func TestIfExpressionString(t *testing.T) {
	expr := &IfExpression{
		Condition: &Identifier{Value: "x"},
		Consequence: &BlockStatement{
			Statements: []Statement{
				&ExpressionStatement{Expression: &Identifier{Value: "y"}},
			},
		},
	}

	assert.Equal(t, "if x y", expr.String())
}

func TestFunctionLiteralString(t *testing.T) {
	fn := &FunctionLiteral{
		Token: token.CreateToken(token.FUNC, "fn", 1, 0),
		Parameters: []*Identifier{
			{Value: "x"},
			{Value: "y"},
		},
		Body: &BlockStatement{
			Statements: []Statement{
				&ExpressionStatement{
					Expression: &InfixExpression{Operator: "+", Left: &Identifier{Value: "x"}, Right: &Identifier{Value: "y"}},
				},
			},
		},
	}

	assert.Equal(t, "fn(x, y) (x + y)", fn.String())
}

func TestCallExpressionString(t *testing.T) {
	call := &CallExpression{
		Function: &Identifier{Value: "add"},
		Arguments: []Expression{
			&IntegerLiteral{Value: 1},
			&InfixExpression{Operator: "*", Left: &IntegerLiteral{Value: 2}, Right: &IntegerLiteral{Value: 3}},
		},
	}

	assert.Equal(t, "add(1, (2 * 3))", call.String())
}

func TestIndexExpressionString(t *testing.T) {
	idx := &IndexExpression{
		Left:  &Identifier{Value: "myArray"},
		Index: &IntegerLiteral{Value: 1},
	}

	assert.Equal(t, "(myArray[1])", idx.String())
}

func TestArrayLiteralString(t *testing.T) {
	arr := &ArrayLiteral{
		Elements: []Expression{
			&IntegerLiteral{Value: 1},
			&IntegerLiteral{Value: 2},
		},
	}

	assert.Equal(t, "[1, 2]", arr.String())
}

func TestHashLiteralStringPreservesSourceOrder(t *testing.T) {
	hash := &HashLiteral{
		Pairs: []HashPair{
			{Key: &StringLiteral{Value: "one"}, Value: &IntegerLiteral{Value: 1}},
			{Key: &StringLiteral{Value: "two"}, Value: &IntegerLiteral{Value: 2}},
		},
	}

	assert.Equal(t, `{"one":1, "two":2}`, hash.String())
}

func TestStringLiteralStringIsQuoted(t *testing.T) {
	sl := &StringLiteral{Value: "hello world"}
	assert.Equal(t, `"hello world"`, sl.String())
}
