// Pratt parser (operator-precedence parser).
// https://en.wikipedia.org/wiki/Operator-precedence_parser
//
// Each token type that can start or continue an expression registers a
// prefix and/or infix parse function; parseExpression climbs the
// precedence ladder by repeatedly consuming infix operators whose
// precedence beats the caller's.
package parser

import (
	"fmt"
	"nilan/ast"
	"nilan/token"
)

const (
	_ int = iota
	Lowest
	Equals      // ==  !=
	LessGreater // >  <  >=  <=
	Sum         // +
	Product     // *  /
	Prefix      // -x  !x
	Call        // fn(x)
	Index       // arr[x]
)

var precedences = map[token.TokenType]int{
	token.EQUAL_EQUAL:  Equals,
	token.NOT_EQUAL:    Equals,
	token.LESS:         LessGreater,
	token.LESS_EQUAL:   LessGreater,
	token.LARGER:       LessGreater,
	token.LARGER_EQUAL: LessGreater,
	token.ADD:          Sum,
	token.SUB:          Sum,
	token.MULT:         Product,
	token.DIV:          Product,
	token.LPA:          Call,
	token.LBRACKET:     Index,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser is a Pratt parser over a flat token slice. The parser's position
// always refers to the current token; peek looks one token ahead.
type Parser struct {
	tokens   []token.Token
	position int

	errors []error

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// Make initializes a Parser over tokens (normally the output of
// lexer.Lexer.Scan).
func Make(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENTIFIER: p.parseIdentifier,
		token.INT:        p.parseIntegerLiteral,
		token.STRING:     p.parseStringLiteral,
		token.TRUE:       p.parseBoolean,
		token.FALSE:      p.parseBoolean,
		token.BANG:       p.parsePrefixExpression,
		token.SUB:        p.parsePrefixExpression,
		token.LPA:        p.parseGroupedExpression,
		token.IF:         p.parseIfExpression,
		token.FUNC:       p.parseFunctionLiteral,
		token.LBRACKET:   p.parseArrayLiteral,
		token.LCUR:       p.parseHashLiteral,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.ADD:          p.parseInfixExpression,
		token.SUB:          p.parseInfixExpression,
		token.MULT:         p.parseInfixExpression,
		token.DIV:          p.parseInfixExpression,
		token.EQUAL_EQUAL:  p.parseInfixExpression,
		token.NOT_EQUAL:    p.parseInfixExpression,
		token.LESS:         p.parseInfixExpression,
		token.LESS_EQUAL:   p.parseInfixExpression,
		token.LARGER:       p.parseInfixExpression,
		token.LARGER_EQUAL: p.parseInfixExpression,
		token.LPA:          p.parseCallExpression,
		token.LBRACKET:     p.parseIndexExpression,
	}

	return p
}

// Errors returns every syntax error accumulated while parsing.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) current() token.Token { return p.tokens[p.position] }

func (p *Parser) peek() token.Token {
	if p.position+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.position+1]
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.isFinished() {
		p.position++
	}
	return tok
}

func (p *Parser) isFinished() bool {
	return p.current().TokenType == token.EOF
}

func (p *Parser) checkType(t token.TokenType) bool {
	return p.current().TokenType == t
}

func (p *Parser) peekType(t token.TokenType) bool {
	return p.peek().TokenType == t
}

func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	if !p.peekType(t) {
		err := CreateSyntaxError(p.peek().Line, p.peek().Column,
			fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peek().TokenType))
		return token.Token{}, err
	}
	return p.advance(), nil
}

func (p *Parser) currentPrecedence() int {
	if prec, ok := precedences[p.current().TokenType]; ok {
		return prec
	}
	return Lowest
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek().TokenType]; ok {
		return prec
	}
	return Lowest
}

// Parse consumes every token and returns the resulting Program. Parse
// errors are accumulated rather than aborting the whole parse, so a single
// malformed statement does not hide the rest; call Errors afterward.
func (p *Parser) Parse() *ast.Program {
	program := &ast.Program{}

	for !p.isFinished() {
		stmt, err := p.parseStatement()
		if err != nil {
			p.errors = append(p.errors, err)
			p.synchronize()
			continue
		}
		program.Statements = append(program.Statements, stmt)
		p.advance()
	}
	return program
}

// synchronize discards tokens until a likely statement boundary, so
// parsing can continue after an error instead of cascading failures.
func (p *Parser) synchronize() {
	for !p.isFinished() {
		if p.checkType(token.SEMICOLON) {
			p.advance()
			return
		}
		switch p.peek().TokenType {
		case token.LET, token.RETURN, token.IF, token.FUNC:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.current().TokenType {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() (ast.Statement, error) {
	stmt := &ast.LetStatement{Token: p.current()}

	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	stmt.Name = &ast.Identifier{Token: nameTok, Value: nameTok.Lexeme}

	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	p.advance()

	value, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	stmt.Value = value

	if fn, ok := value.(*ast.FunctionLiteral); ok {
		fn.Name = stmt.Name.Value
	}

	if p.peekType(token.SEMICOLON) {
		p.advance()
	}
	return stmt, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	stmt := &ast.ReturnStatement{Token: p.current()}
	p.advance()

	value, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	stmt.ReturnValue = value

	if p.peekType(token.SEMICOLON) {
		p.advance()
	}
	return stmt, nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	stmt := &ast.ExpressionStatement{Token: p.current()}

	value, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	stmt.Expression = value

	if p.peekType(token.SEMICOLON) {
		p.advance()
	}
	return stmt, nil
}

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefix, ok := p.prefixParseFns[p.current().TokenType]
	if !ok {
		return nil, CreateSyntaxError(p.current().Line, p.current().Column,
			fmt.Sprintf("no prefix parse function for %s found", p.current().TokenType))
	}

	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for !p.peekType(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peek().TokenType]
		if !ok {
			return left, nil
		}
		p.advance()

		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	tok := p.current()
	return &ast.Identifier{Token: tok, Value: tok.Lexeme}, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	tok := p.current()
	value, ok := tok.Literal.(int64)
	if !ok {
		return nil, CreateSyntaxError(tok.Line, tok.Column, fmt.Sprintf("could not parse %q as integer", tok.Lexeme))
	}
	return &ast.IntegerLiteral{Token: tok, Value: value}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	tok := p.current()
	return &ast.StringLiteral{Token: tok, Value: tok.Lexeme}, nil
}

func (p *Parser) parseBoolean() (ast.Expression, error) {
	tok := p.current()
	return &ast.Boolean{Token: tok, Value: p.checkType(token.TRUE)}, nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	tok := p.current()
	p.advance()

	right, err := p.parseExpression(Prefix)
	if err != nil {
		return nil, err
	}
	return &ast.PrefixExpression{Token: tok, Operator: tok.Lexeme, Right: right}, nil
}

func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, error) {
	tok := p.current()
	precedence := p.currentPrecedence()
	p.advance()

	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.InfixExpression{Token: tok, Left: left, Operator: tok.Lexeme, Right: right}, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.advance()

	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RPA); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseIfExpression() (ast.Expression, error) {
	expr := &ast.IfExpression{Token: p.current()}

	if _, err := p.expect(token.LPA); err != nil {
		return nil, err
	}
	p.advance()

	condition, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	expr.Condition = condition

	if _, err := p.expect(token.RPA); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LCUR); err != nil {
		return nil, err
	}

	consequence, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	expr.Consequence = consequence

	if p.peekType(token.ELSE) {
		p.advance()
		if _, err := p.expect(token.LCUR); err != nil {
			return nil, err
		}
		alternative, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		expr.Alternative = alternative
	}
	return expr, nil
}

func (p *Parser) parseBlockStatement() (*ast.BlockStatement, error) {
	block := &ast.BlockStatement{Token: p.current()}
	p.advance()

	for !p.checkType(token.RCUR) && !p.isFinished() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		p.advance()
	}
	if !p.checkType(token.RCUR) {
		return nil, CreateSyntaxError(p.current().Line, p.current().Column, "expected '}' to close block")
	}
	return block, nil
}

func (p *Parser) parseFunctionLiteral() (ast.Expression, error) {
	fn := &ast.FunctionLiteral{Token: p.current()}

	if _, err := p.expect(token.LPA); err != nil {
		return nil, err
	}

	params, err := p.parseFunctionParameters()
	if err != nil {
		return nil, err
	}
	fn.Parameters = params

	if _, err := p.expect(token.LCUR); err != nil {
		return nil, err
	}

	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, error) {
	var params []*ast.Identifier

	if p.peekType(token.RPA) {
		p.advance()
		return params, nil
	}

	p.advance()
	params = append(params, &ast.Identifier{Token: p.current(), Value: p.current().Lexeme})

	for p.peekType(token.COMMA) {
		p.advance()
		p.advance()
		params = append(params, &ast.Identifier{Token: p.current(), Value: p.current().Lexeme})
	}

	if _, err := p.expect(token.RPA); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseCallExpression(function ast.Expression) (ast.Expression, error) {
	expr := &ast.CallExpression{Token: p.current(), Function: function}

	args, err := p.parseExpressionList(token.RPA)
	if err != nil {
		return nil, err
	}
	expr.Arguments = args
	return expr, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	arr := &ast.ArrayLiteral{Token: p.current()}

	elements, err := p.parseExpressionList(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	arr.Elements = elements
	return arr, nil
}

// parseExpressionList parses a comma-separated list of expressions,
// starting just before the first element, up to and including end.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, error) {
	var list []ast.Expression

	if p.peekType(end) {
		p.advance()
		return list, nil
	}

	p.advance()
	first, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	list = append(list, first)

	for p.peekType(token.COMMA) {
		p.advance()
		p.advance()
		item, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}

	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseIndexExpression(left ast.Expression) (ast.Expression, error) {
	expr := &ast.IndexExpression{Token: p.current(), Left: left}
	p.advance()

	index, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	expr.Index = index

	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseHashLiteral() (ast.Expression, error) {
	hash := &ast.HashLiteral{Token: p.current()}

	for !p.peekType(token.RCUR) {
		p.advance()
		key, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		p.advance()

		value, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		hash.Pairs = append(hash.Pairs, ast.HashPair{Key: key, Value: value})

		if !p.peekType(token.RCUR) {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(token.RCUR); err != nil {
		return nil, err
	}
	return hash, nil
}
