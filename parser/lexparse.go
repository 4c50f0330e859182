// Eqsolve
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package parser turns s-expression text into ast expressions. The accepted
// grammar is tiny: parenthesized operator applications, integers, ratios
// written as `a/b`, floats, plain symbols and `:tagged` symbols. Commas are
// whitespace and `;` comments out the rest of the line.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/purpleidea/eqsolve/ast"
	"github.com/purpleidea/eqsolve/util"
	"github.com/purpleidea/eqsolve/util/errwrap"
)

// These constants represent the different possible lexer/parser errors.
const (
	ErrLexerUnrecognized    = util.Error("unrecognized")
	ErrLexerNumber          = util.Error("number: invalid syntax")
	ErrLexerFloatOverflow   = util.Error("float: overflow")
	ErrLexerTagged          = util.Error("tagged identifier: missing name")
	ErrParseUnexpectedClose = util.Error("unexpected closing paren")
	ErrParseUnexpectedEOF   = util.Error("unexpected end of input")
	ErrParseEmptyList       = util.Error("a list needs an operator")
	ErrParseBadOperator     = util.Error("operator must be a symbol")
)

// LexParseErr is a permanent failure error to notify about borkage.
type LexParseErr struct {
	Err util.Error
	Str string
	Row int // this is zero-indexed (the first line is 0)
	Col int // this is zero-indexed (the first char is 0)
}

// Error displays this error with all the relevant state information.
func (e *LexParseErr) Error() string {
	return fmt.Sprintf("%s: `%s` @%d:%d", e.Err, e.Str, e.Row+1, e.Col+1)
}

// parser holds the token cursor. The token list always ends with an EOF
// token, and next never moves past it, so peeking is always safe.
type parser struct {
	tokens []token
	pos    int
}

func (obj *parser) peek() token {
	return obj.tokens[obj.pos]
}

func (obj *parser) next() token {
	tok := obj.tokens[obj.pos]
	if tok.kind != tokenEOF {
		obj.pos++
	}
	return tok
}

// parseExpr reads exactly one expression starting at the cursor.
func (obj *parser) parseExpr() (ast.Expr, error) {
	tok := obj.next()
	switch tok.kind {
	case tokenNumber:
		return tok.num, nil

	case tokenSymbol:
		return &ast.ExprVar{
			Ident: ast.Identifier{Name: tok.text, Syntax: ast.SyntaxPlain},
		}, nil

	case tokenTagged:
		return &ast.ExprVar{
			Ident: ast.Identifier{
				Name:   strings.TrimPrefix(tok.text, ":"),
				Syntax: ast.SyntaxTagged,
			},
		}, nil

	case tokenOpen:
		return obj.parseCall(tok)

	case tokenClose:
		return nil, &LexParseErr{Err: ErrParseUnexpectedClose, Str: tok.text, Row: tok.row, Col: tok.col}
	}

	return nil, &LexParseErr{Err: ErrParseUnexpectedEOF, Str: "", Row: tok.row, Col: tok.col}
}

// parseCall reads the remainder of a list whose opening paren was already
// consumed. The head of the list must be a symbol, it names the operator.
func (obj *parser) parseCall(open token) (ast.Expr, error) {
	head := obj.next()
	switch head.kind {
	case tokenSymbol:
		// good, that's the operator name

	case tokenClose:
		return nil, &LexParseErr{Err: ErrParseEmptyList, Str: "()", Row: open.row, Col: open.col}

	case tokenEOF:
		return nil, &LexParseErr{Err: ErrParseUnexpectedEOF, Str: open.text, Row: open.row, Col: open.col}

	default:
		return nil, &LexParseErr{Err: ErrParseBadOperator, Str: head.text, Row: head.row, Col: head.col}
	}

	args := []ast.Expr{}
	for {
		tok := obj.peek()
		if tok.kind == tokenClose {
			obj.next()
			return &ast.ExprCall{Name: head.text, Args: args}, nil
		}
		if tok.kind == tokenEOF {
			return nil, &LexParseErr{Err: ErrParseUnexpectedEOF, Str: open.text, Row: open.row, Col: open.col}
		}
		arg, err := obj.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

// LexParse runs the lexer/parser machinery and returns the expressions found
// in the input, in order. An empty input gives an empty list, not an error.
func LexParse(input io.Reader) ([]ast.Expr, error) {
	b, err := io.ReadAll(input)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read input")
	}
	tokens, err := lex(string(b))
	if err != nil {
		return nil, err
	}

	obj := &parser{tokens: tokens}
	exprs := []ast.Expr{}
	for obj.peek().kind != tokenEOF {
		expr, err := obj.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpr is a convenience around LexParse for when the input is a string
// that must hold exactly one expression.
func ParseExpr(input string) (ast.Expr, error) {
	exprs, err := LexParse(strings.NewReader(input))
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		return nil, fmt.Errorf("expected exactly one expression, got %d", len(exprs))
	}
	return exprs[0], nil
}

// ParseNumber parses a string that must hold exactly one numeric literal.
func ParseNumber(input string) (*ast.ExprNum, error) {
	expr, err := ParseExpr(input)
	if err != nil {
		return nil, err
	}
	num, ok := expr.(*ast.ExprNum)
	if !ok {
		return nil, fmt.Errorf("`%s` is not a number", input)
	}
	return num, nil
}

// ParseIdentifier parses a string that must hold exactly one variable, in
// either the plain or the tagged spelling, and returns its identifier.
func ParseIdentifier(input string) (ast.Identifier, error) {
	expr, err := ParseExpr(input)
	if err != nil {
		return ast.Identifier{}, err
	}
	v, ok := expr.(*ast.ExprVar)
	if !ok {
		return ast.Identifier{}, fmt.Errorf("`%s` is not a variable", input)
	}
	return v.Ident, nil
}
