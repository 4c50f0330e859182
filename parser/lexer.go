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

package parser

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/purpleidea/eqsolve/ast"
)

// tokenKind tells the parser what kind of lexeme it's looking at.
type tokenKind int

const (
	tokenInvalid tokenKind = iota
	tokenOpen
	tokenClose
	tokenNumber
	tokenSymbol
	tokenTagged
	tokenEOF
)

// token is a single lexeme with its position in the input. The row and col
// are zero-indexed, display code adds one. Number tokens carry their parsed
// value, since the lexer is where the numeric grammar lives.
type token struct {
	kind tokenKind
	text string
	num  *ast.ExprNum // only used for tokenNumber
	row  int
	col  int
}

// lexer walks the input rune by rune and keeps the position book-keeping in
// one place.
type lexer struct {
	runes []rune
	pos   int
	row   int
	col   int
}

// lex splits the whole input into tokens. The returned list always ends with
// exactly one EOF token, so the parser can peek freely without bounds checks.
func lex(input string) ([]token, error) {
	obj := &lexer{runes: []rune(input)}
	tokens := []token{}
	for {
		tok, err := obj.scan()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokenEOF {
			return tokens, nil
		}
	}
}

// peek returns the rune under the cursor without moving it.
func (obj *lexer) peek() (rune, bool) {
	if obj.pos >= len(obj.runes) {
		return 0, false
	}
	return obj.runes[obj.pos], true
}

// next consumes one rune and advances the position counters.
func (obj *lexer) next() (rune, bool) {
	r, ok := obj.peek()
	if !ok {
		return 0, false
	}
	obj.pos++
	if r == '\n' {
		obj.row++
		obj.col = 0
	} else {
		obj.col++
	}
	return r, true
}

// scan produces the next token. Commas count as whitespace, and a semicolon
// comments out the rest of its line.
func (obj *lexer) scan() (token, error) {
	for {
		r, ok := obj.peek()
		if !ok {
			return token{kind: tokenEOF, row: obj.row, col: obj.col}, nil
		}
		if isSpaceRune(r) {
			obj.next()
			continue
		}
		if r == ';' {
			for {
				r, ok := obj.peek()
				if !ok || r == '\n' {
					break
				}
				obj.next()
			}
			continue
		}
		break
	}

	row, col := obj.row, obj.col
	if r, _ := obj.peek(); r == '(' || r == ')' {
		obj.next()
		kind := tokenOpen
		if r == ')' {
			kind = tokenClose
		}
		return token{kind: kind, text: string(r), row: row, col: col}, nil
	}

	// everything else is an atom: collect up to the next delimiter
	runes := []rune{}
	for {
		r, ok := obj.peek()
		if !ok || isSpaceRune(r) || r == '(' || r == ')' || r == ';' {
			break
		}
		obj.next()
		runes = append(runes, r)
	}
	text := string(runes)

	// a leading digit means a number, as does a sign stuck onto one
	if isDigitRune(runes[0]) || (len(runes) >= 2 && (runes[0] == '+' || runes[0] == '-') && isDigitRune(runes[1])) {
		num, err := scanNumber(text, row, col)
		if err != nil {
			return token{}, err
		}
		return token{kind: tokenNumber, text: text, num: num, row: row, col: col}, nil
	}

	if runes[0] == ':' {
		name := runes[1:]
		if len(name) == 0 {
			return token{}, &LexParseErr{Err: ErrLexerTagged, Str: text, Row: row, Col: col}
		}
		for _, r := range name {
			if !isSymbolRune(r) {
				return token{}, &LexParseErr{Err: ErrLexerUnrecognized, Str: text, Row: row, Col: col}
			}
		}
		return token{kind: tokenTagged, text: text, row: row, col: col}, nil
	}

	for _, r := range runes {
		if !isSymbolRune(r) {
			return token{}, &LexParseErr{Err: ErrLexerUnrecognized, Str: text, Row: row, Col: col}
		}
	}
	return token{kind: tokenSymbol, text: text, row: row, col: col}, nil
}

// scanNumber parses the three numeric spellings. Anything containing a dot
// or an exponent is a float and goes through the machine float64 grammar,
// keeping its inexact flavour. Plain integers and `a/b` ratios stay exact.
func scanNumber(text string, row, col int) (*ast.ExprNum, error) {
	s := strings.TrimPrefix(text, "+")
	if strings.ContainsAny(s, ".eE") && !strings.Contains(s, "/") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			lexErr := ErrLexerNumber
			if errors.Is(err, strconv.ErrRange) {
				lexErr = ErrLexerFloatOverflow
			}
			return nil, &LexParseErr{Err: lexErr, Str: text, Row: row, Col: col}
		}
		return &ast.ExprNum{V: new(big.Rat).SetFloat64(f), Float: true}, nil
	}

	v, ok := new(big.Rat).SetString(s)
	if !ok { // this also catches a literal zero denominator
		return nil, &LexParseErr{Err: ErrLexerNumber, Str: text, Row: row, Col: col}
	}
	return &ast.ExprNum{V: v}, nil
}

// isSpaceRune reports whether the rune separates tokens.
func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
}

// isDigitRune reports whether the rune is an ascii digit. Only ascii digits
// start numbers, anything fancier is a symbol.
func isDigitRune(r rune) bool {
	return r >= '0' && r <= '9'
}

// isSymbolRune reports whether the rune may appear in a symbol.
func isSymbolRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("*+!-_?<>=./", r)
}
