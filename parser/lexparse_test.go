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

// +build !root

package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/purpleidea/eqsolve/ast"
	"github.com/purpleidea/eqsolve/util"
)

func TestLexParse1(t *testing.T) {
	type test struct { // an individual test
		name      string
		input     string
		fail      bool
		experrstr string   // expected error prefix
		expected  []string // String() of each parsed expression
	}
	testCases := []test{}

	{
		testCases = append(testCases, test{
			name:     "empty input",
			input:    "",
			expected: []string{},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "integer",
			input:    "42",
			expected: []string{"42"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "negative integer",
			input:    "-3",
			expected: []string{"-3"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "explicit positive sign",
			input:    "+5",
			expected: []string{"5"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "ratio",
			input:    "7/2",
			expected: []string{"7/2"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "ratio normalizes",
			input:    "6/4",
			expected: []string{"3/2"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "float",
			input:    "2.5",
			expected: []string{"2.5"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "float keeps its spelling",
			input:    "2.0",
			expected: []string{"2.0"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "exponent is a float",
			input:    "1e3",
			expected: []string{"1000.0"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "float shortest form",
			input:    "0.1",
			expected: []string{"0.1"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "variable",
			input:    "x",
			expected: []string{"x"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "tagged variable",
			input:    ":velocity",
			expected: []string{":velocity"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "minus alone is a symbol",
			input:    "(- x)",
			expected: []string{"(- x)"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "power call",
			input:    "(** x 2)",
			expected: []string{"(** x 2)"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "nested call",
			input:    "(= y (* 2 x))",
			expected: []string{"(= y (* 2 x))"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "commas are whitespace",
			input:    "(max 1, 2, 3)",
			expected: []string{"(max 1 2 3)"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "comments are skipped",
			input:    "; a system of one\n(+ 1 2) ; trailing note",
			expected: []string{"(+ 1 2)"},
		})
	}
	{
		testCases = append(testCases, test{
			name:     "multiple expressions",
			input:    "(= x 1)\n(= y 2)",
			expected: []string{"(= x 1)", "(= y 2)"},
		})
	}
	{
		testCases = append(testCases, test{
			name:      "unterminated list",
			input:     "(+ 1 2",
			fail:      true,
			experrstr: "unexpected end of input: `(` @1:1",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "stray closing paren",
			input:     ")",
			fail:      true,
			experrstr: "unexpected closing paren: `)` @1:1",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "empty list",
			input:     "()",
			fail:      true,
			experrstr: "a list needs an operator: `()` @1:1",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "number can't be an operator",
			input:     "(3 x)",
			fail:      true,
			experrstr: "operator must be a symbol: `3` @1:2",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "malformed number",
			input:     "3x",
			fail:      true,
			experrstr: "number: invalid syntax: `3x` @1:1",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "literal zero denominator",
			input:     "1/0",
			fail:      true,
			experrstr: "number: invalid syntax: `1/0` @1:1",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "lonely colon",
			input:     ":",
			fail:      true,
			experrstr: "tagged identifier: missing name: `:` @1:1",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "unrecognized rune",
			input:     "(= x\n  #y)",
			fail:      true,
			experrstr: "unrecognized: `#y` @2:3",
		})
	}

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if tc.name == "" {
			t.Errorf("test #%d: not named", index)
			continue
		}
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			input, fail, experrstr, expected := tc.input, tc.fail, tc.experrstr, tc.expected

			exprs, err := LexParse(strings.NewReader(input))

			if !fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: lexparse failed with: %+v", index, err)
				return
			}
			if fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: lexparse passed, expected fail", index)
				return
			}
			// test for specific error string!
			if fail && experrstr != "" && !strings.HasPrefix(err.Error(), experrstr) {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: expected fail, got wrong error", index)
				t.Errorf("test #%d: got error: %s", index, err.Error())
				t.Errorf("test #%d: exp error: %s", index, experrstr)
				return
			}
			if fail {
				return
			}

			if len(exprs) != len(expected) {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: got %d expressions", index, len(exprs))
				t.Errorf("test #%d: exp %d expressions", index, len(expected))
				return
			}
			for i, expr := range exprs {
				if expr.String() != expected[i] {
					t.Errorf("test #%d: FAIL", index)
					t.Errorf("test #%d: got expression %d: %s", index, i, expr.String())
					t.Errorf("test #%d: exp expression %d: %s", index, i, expected[i])
				}
			}
		})
	}
}

func TestParseExprAst(t *testing.T) {
	// (= :a 10) should come out as exactly this tree
	expected := ast.NewCall(ast.EqSymbol, ast.NewTaggedVar("a"), ast.NewNum(10))

	expr, err := ParseExpr("(= :a 10)")
	if err != nil {
		t.Errorf("parse failed with: %+v", err)
		return
	}
	if err := expr.Cmp(expected); err != nil {
		t.Errorf("unexpected ast: %+v", err)
		t.Logf("got: %s", expr)
		t.Logf("exp: %s", expected)
	}

	if _, err := ParseExpr(""); err == nil {
		t.Errorf("parse of nothing did not error")
	}
	if _, err := ParseExpr("1 2"); err == nil {
		t.Errorf("parse of two expressions did not error")
	}
}

func TestParseNumber1(t *testing.T) {
	num, err := ParseNumber("7/2")
	if err != nil {
		t.Errorf("parse failed with: %+v", err)
		return
	}
	if num.String() != "7/2" {
		t.Errorf("got: %s, exp: 7/2", num)
	}

	num, err = ParseNumber("2.5")
	if err != nil {
		t.Errorf("parse failed with: %+v", err)
		return
	}
	if !num.Float {
		t.Errorf("float did not parse as a float")
	}

	if _, err := ParseNumber("x"); err == nil {
		t.Errorf("parse of a variable did not error")
	}
	if _, err := ParseNumber("(+ 1 2)"); err == nil {
		t.Errorf("parse of a call did not error")
	}
}

func TestParseIdentifier1(t *testing.T) {
	ident, err := ParseIdentifier("x")
	if err != nil {
		t.Errorf("parse failed with: %+v", err)
		return
	}
	if ident.Name != "x" || ident.Syntax != ast.SyntaxPlain {
		t.Errorf("got unexpected identifier: %+v", ident)
	}

	ident, err = ParseIdentifier(":x")
	if err != nil {
		t.Errorf("parse failed with: %+v", err)
		return
	}
	if ident.Name != "x" || ident.Syntax != ast.SyntaxTagged {
		t.Errorf("got unexpected identifier: %+v", ident)
	}

	if _, err := ParseIdentifier("3"); err == nil {
		t.Errorf("parse of a number did not error")
	}
}

func TestLexParseRoundTrip(t *testing.T) {
	// the printed form of anything we parse must re-parse to the same tree
	inputs := []string{
		"42",
		"-3",
		"7/2",
		"2.5",
		"2.0",
		"1e3",
		"x",
		":velocity",
		"(- x)",
		"(/ x)",
		"(** x 2)",
		"(= y (* 2 x))",
		"(= :a :b :c 10)",
		"(max 1 2/3 -4.5)",
		"(+ x (r s) (= y y))",
	}

	for _, input := range inputs {
		expr, err := ParseExpr(input)
		if err != nil {
			t.Errorf("could not parse `%s`: %+v", input, err)
			continue
		}

		again, err := ParseExpr(expr.String())
		if err != nil {
			t.Errorf("could not re-parse `%s`: %+v", expr, err)
			continue
		}
		if err := expr.Cmp(again); err != nil {
			t.Errorf("`%s` did not round trip: %+v", input, err)
		}
	}
}
