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

package operators

import (
	"fmt"
	"strings"
	"testing"

	"github.com/purpleidea/eqsolve/ast"
	"github.com/purpleidea/eqsolve/parser"
	"github.com/purpleidea/eqsolve/util"

	"github.com/kylelemons/godebug/pretty"
)

func TestLookupOperator1(t *testing.T) {
	scaffold, err := LookupOperator("+")
	if err != nil {
		t.Errorf("lookup of `+` failed with: %+v", err)
		return
	}
	if scaffold.Op != OpAdd {
		t.Errorf("got op: %s", scaffold.Op)
		t.Errorf("exp op: %s", OpAdd)
	}
	if scaffold.Symbol != "+" {
		t.Errorf("got symbol: %s", scaffold.Symbol)
	}
	if !scaffold.Commutative {
		t.Errorf("`+` must be commutative")
	}
	if scaffold.Inverse != OpInvalid {
		t.Errorf("`+` must not have an inverse, got: %s", scaffold.Inverse)
	}

	if _, err := LookupOperator("this is not an operator"); err == nil {
		t.Errorf("lookup of a bogus symbol did not error")
	}

	scaffold, err = LookupOp(OpSub)
	if err != nil {
		t.Errorf("lookup of OpSub failed with: %+v", err)
		return
	}
	if scaffold.Symbol != "-" {
		t.Errorf("got symbol: %s", scaffold.Symbol)
		t.Errorf("exp symbol: -")
	}
	if _, err := LookupOp(Op(42)); err == nil {
		t.Errorf("lookup of a bogus op did not error")
	}
}

func TestOperatorTable1(t *testing.T) {
	// the equality symbol is structural, it must never be an operator
	if IsOperator(ast.EqSymbol) {
		t.Errorf("`%s` must not be an operator", ast.EqSymbol)
	}
	if !IsOperator("max") {
		t.Errorf("`max` must be an operator")
	}

	if !IsCommutative("+") || !IsCommutative("*") {
		t.Errorf("`+` and `*` must be commutative")
	}
	if IsCommutative("-") || IsCommutative("/") || IsCommutative("**") {
		t.Errorf("`-`, `/` and `**` must not be commutative")
	}
	if IsCommutative("bogus") {
		t.Errorf("an unknown symbol must not be commutative")
	}

	if inv, ok := InverseOf("-"); !ok || inv != "+" {
		t.Errorf("the inverse of `-` must be `+`, got: `%s`", inv)
	}
	if inv, ok := InverseOf("/"); !ok || inv != "*" {
		t.Errorf("the inverse of `/` must be `*`, got: `%s`", inv)
	}
	if _, ok := InverseOf("+"); ok {
		t.Errorf("`+` must not be invertible")
	}
	if _, ok := InverseOf("bogus"); ok {
		t.Errorf("an unknown symbol must not be invertible")
	}

	symbols := Symbols()
	expected := []string{"*", "**", "+", "-", "/", "max", "min"}
	if diff := pretty.Compare(symbols, expected); diff != "" {
		t.Errorf("the symbol list did not match expected")
		t.Logf("diff:\n%s", diff)
	}

	// the returned list is a copy, scribbling on it changes nothing
	symbols[0] = "scribble"
	if diff := pretty.Compare(Symbols(), expected); diff != "" {
		t.Errorf("the symbol list was mutated through the copy")
		t.Logf("diff:\n%s", diff)
	}
}

func TestOperatorEval1(t *testing.T) {
	type test struct { // an individual test
		name      string
		symbol    string
		input     []*ast.ExprNum
		fail      bool
		experrstr string // expected error prefix
		expected  *ast.ExprNum
	}
	testCases := []test{}
	// NOTE: to run an individual test, first run: `go test -v` to list the
	// names, and then run `go test -run <pattern>` with the name(s) to run.

	{
		testCases = append(testCases, test{ // 0
			name:     "empty sum",
			symbol:   "+",
			input:    []*ast.ExprNum{},
			expected: ast.NewNum(0),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "sum",
			symbol:   "+",
			input:    []*ast.ExprNum{ast.NewNum(1), ast.NewNum(2), ast.NewNum(3)},
			expected: ast.NewNum(6),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "sum of ratios",
			symbol:   "+",
			input:    []*ast.ExprNum{ast.NewRat(1, 2), ast.NewRat(1, 3)},
			expected: ast.NewRat(5, 6),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "sum with a float is a float",
			symbol:   "+",
			input:    []*ast.ExprNum{ast.NewNum(2), ast.NewFloat(2.5)},
			expected: ast.NewFloat(4.5),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "empty product",
			symbol:   "*",
			input:    []*ast.ExprNum{},
			expected: ast.NewNum(1),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "product",
			symbol:   "*",
			input:    []*ast.ExprNum{ast.NewNum(2), ast.NewNum(3), ast.NewNum(4)},
			expected: ast.NewNum(24),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "product with a float is a float",
			symbol:   "*",
			input:    []*ast.ExprNum{ast.NewFloat(2.0), ast.NewNum(3)},
			expected: ast.NewFloat(6.0),
		})
	}
	{
		testCases = append(testCases, test{
			name:      "difference needs an operand",
			symbol:    "-",
			input:     []*ast.ExprNum{},
			fail:      true,
			experrstr: "`-` needs at least one operand",
		})
	}
	{
		testCases = append(testCases, test{
			name:     "negation",
			symbol:   "-",
			input:    []*ast.ExprNum{ast.NewNum(5)},
			expected: ast.NewNum(-5),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "negation keeps the float form",
			symbol:   "-",
			input:    []*ast.ExprNum{ast.NewFloat(5.0)},
			expected: ast.NewFloat(-5.0),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "difference",
			symbol:   "-",
			input:    []*ast.ExprNum{ast.NewNum(10), ast.NewNum(1), ast.NewNum(2)},
			expected: ast.NewNum(7),
		})
	}
	{
		testCases = append(testCases, test{
			name:      "quotient needs an operand",
			symbol:    "/",
			input:     []*ast.ExprNum{},
			fail:      true,
			experrstr: "`/` needs at least one operand",
		})
	}
	{
		testCases = append(testCases, test{
			name:     "reciprocal",
			symbol:   "/",
			input:    []*ast.ExprNum{ast.NewNum(4)},
			expected: ast.NewRat(1, 4),
		})
	}
	{
		testCases = append(testCases, test{
			name:      "reciprocal of zero",
			symbol:    "/",
			input:     []*ast.ExprNum{ast.NewNum(0)},
			fail:      true,
			experrstr: "can't divide by zero",
		})
	}
	{
		testCases = append(testCases, test{
			name:     "quotient",
			symbol:   "/",
			input:    []*ast.ExprNum{ast.NewNum(6), ast.NewNum(4)},
			expected: ast.NewRat(3, 2),
		})
	}
	{
		testCases = append(testCases, test{
			name:      "quotient by zero",
			symbol:    "/",
			input:     []*ast.ExprNum{ast.NewNum(1), ast.NewNum(0)},
			fail:      true,
			experrstr: "can't divide by zero",
		})
	}
	{
		testCases = append(testCases, test{
			name:     "chained quotient",
			symbol:   "/",
			input:    []*ast.ExprNum{ast.NewNum(12), ast.NewNum(2), ast.NewNum(3)},
			expected: ast.NewNum(2),
		})
	}
	{
		testCases = append(testCases, test{
			name:      "power needs two operands",
			symbol:    "**",
			input:     []*ast.ExprNum{ast.NewNum(2)},
			fail:      true,
			experrstr: "`**` needs exactly two operands",
		})
	}
	{
		testCases = append(testCases, test{
			name:     "integer power stays exact",
			symbol:   "**",
			input:    []*ast.ExprNum{ast.NewNum(2), ast.NewNum(10)},
			expected: ast.NewNum(1024),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "negative power inverts",
			symbol:   "**",
			input:    []*ast.ExprNum{ast.NewNum(2), ast.NewNum(-2)},
			expected: ast.NewRat(1, 4),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "zero to the zero is one",
			symbol:   "**",
			input:    []*ast.ExprNum{ast.NewNum(0), ast.NewNum(0)},
			expected: ast.NewNum(1),
		})
	}
	{
		// a fractional exponent goes through the float path
		testCases = append(testCases, test{
			name:     "square root",
			symbol:   "**",
			input:    []*ast.ExprNum{ast.NewNum(4), ast.NewRat(1, 2)},
			expected: ast.NewFloat(2.0),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "float exponent is contagious",
			symbol:   "**",
			input:    []*ast.ExprNum{ast.NewNum(2), ast.NewFloat(2.0)},
			expected: ast.NewFloat(4.0),
		})
	}
	{
		testCases = append(testCases, test{
			name:      "zero to a negative power",
			symbol:    "**",
			input:     []*ast.ExprNum{ast.NewNum(0), ast.NewNum(-2)},
			fail:      true,
			experrstr: "can't divide by zero",
		})
	}
	{
		// the square root of a negative number is not a rational
		testCases = append(testCases, test{
			name:      "imaginary result",
			symbol:    "**",
			input:     []*ast.ExprNum{ast.NewNum(-1), ast.NewRat(1, 2)},
			fail:      true,
			experrstr: "`**` result is not a finite number",
		})
	}
	{
		// a huge exponent skips the exact path and overflows the float
		testCases = append(testCases, test{
			name:      "overflowing power",
			symbol:    "**",
			input:     []*ast.ExprNum{ast.NewNum(2), ast.NewNum(100000000)},
			fail:      true,
			experrstr: "`**` result is not a finite number",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "max needs an operand",
			symbol:    "max",
			input:     []*ast.ExprNum{},
			fail:      true,
			experrstr: "`max` needs at least one operand",
		})
	}
	{
		testCases = append(testCases, test{
			name:     "max",
			symbol:   "max",
			input:    []*ast.ExprNum{ast.NewNum(1), ast.NewNum(3), ast.NewNum(2)},
			expected: ast.NewNum(3),
		})
	}
	{
		// the winning operand keeps its own form
		testCases = append(testCases, test{
			name:     "max keeps the winner's form",
			symbol:   "max",
			input:    []*ast.ExprNum{ast.NewNum(1), ast.NewFloat(3.0), ast.NewNum(2)},
			expected: ast.NewFloat(3.0),
		})
	}
	{
		testCases = append(testCases, test{
			name:      "min needs an operand",
			symbol:    "min",
			input:     []*ast.ExprNum{},
			fail:      true,
			experrstr: "`min` needs at least one operand",
		})
	}
	{
		testCases = append(testCases, test{
			name:     "min compares ratios exactly",
			symbol:   "min",
			input:    []*ast.ExprNum{ast.NewRat(2, 3), ast.NewRat(1, 2)},
			expected: ast.NewRat(1, 2),
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
			symbol, input, fail, experrstr := tc.symbol, tc.input, tc.fail, tc.experrstr
			expected := tc.expected

			scaffold, err := LookupOperator(symbol)
			if err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: lookup failed with: %+v", index, err)
				return
			}

			backup := []*ast.ExprNum{} // operands must not get mutated
			for _, x := range input {
				backup = append(backup, x.Copy().(*ast.ExprNum))
			}

			out, err := scaffold.F(input)
			t.Logf("test #%d: eval completed with: %+v", index, err)

			if !fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: eval failed with: %+v", index, err)
				return
			}
			if fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: eval passed, expected fail", index)
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

			for i, x := range input {
				if err := x.Cmp(backup[i]); err != nil {
					t.Errorf("test #%d: FAIL", index)
					t.Errorf("test #%d: operand %d was mutated: %+v", index, i, err)
					return
				}
			}
			if fail {
				return
			}

			if err := out.Cmp(expected); err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: got: %s", index, out)
				t.Errorf("test #%d: exp: %s", index, expected)
				t.Errorf("test #%d: cmp error: %+v", index, err)
				return
			}
		})
	}
}

func TestEval1(t *testing.T) {
	type test struct { // an individual test
		name      string
		input     string // a single expression, parsed before the test
		consts    map[ast.Identifier]*ast.ExprNum
		fail      bool
		experrstr string // expected error prefix
		expected  *ast.ExprNum
	}
	testCases := []test{}

	{
		testCases = append(testCases, test{ // 0
			name:     "number",
			input:    "42",
			expected: ast.NewNum(42),
		})
	}
	{
		testCases = append(testCases, test{
			name:  "bound variable",
			input: "x",
			consts: map[ast.Identifier]*ast.ExprNum{
				{Name: "x", Syntax: ast.SyntaxPlain}: ast.NewNum(3),
			},
			expected: ast.NewNum(3),
		})
	}
	{
		testCases = append(testCases, test{
			name:      "unbound variable",
			input:     "x",
			fail:      true,
			experrstr: "variable `x` is not bound",
		})
	}
	{
		testCases = append(testCases, test{
			name:  "tagged variable",
			input: ":a",
			consts: map[ast.Identifier]*ast.ExprNum{
				{Name: "a", Syntax: ast.SyntaxTagged}: ast.NewNum(5),
			},
			expected: ast.NewNum(5),
		})
	}
	{
		// `x` and `:x` are two different variables
		testCases = append(testCases, test{
			name:  "tagged binding does not bind the plain name",
			input: "x",
			consts: map[ast.Identifier]*ast.ExprNum{
				{Name: "x", Syntax: ast.SyntaxTagged}: ast.NewNum(3),
			},
			fail:      true,
			experrstr: "variable `x` is not bound",
		})
	}
	{
		testCases = append(testCases, test{
			name:  "nested arithmetic",
			input: "(+ 1 (* 2 x))",
			consts: map[ast.Identifier]*ast.ExprNum{
				{Name: "x", Syntax: ast.SyntaxPlain}: ast.NewNum(3),
			},
			expected: ast.NewNum(7),
		})
	}
	{
		testCases = append(testCases, test{
			name:     "float contagion",
			input:    "(+ 1 0.5)",
			expected: ast.NewFloat(1.5),
		})
	}
	{
		testCases = append(testCases, test{
			name:      "equations have no value",
			input:     "(= x 1)",
			fail:      true,
			experrstr: "an equation has no numeric value",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "unknown operator",
			input:     "(bogus 1)",
			fail:      true,
			experrstr: "operator `bogus` is not registered",
		})
	}
	{
		testCases = append(testCases, test{
			name:      "error names the operand",
			input:     "(+ 1 (/ 1 0))",
			fail:      true,
			experrstr: "operand 1 of `+`: can't divide by zero",
		})
	}
	{
		testCases = append(testCases, test{
			name:  "unbound deep inside",
			input: "(* 2 y)",
			consts: map[ast.Identifier]*ast.ExprNum{
				{Name: "x", Syntax: ast.SyntaxPlain}: ast.NewNum(1),
			},
			fail:      true,
			experrstr: "operand 1 of `*`: variable `y` is not bound",
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
			input, consts, fail, experrstr := tc.input, tc.consts, tc.fail, tc.experrstr
			expected := tc.expected

			expr, err := parser.ParseExpr(input)
			if err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: could not parse the input: %+v", index, err)
				return
			}

			out, err := Eval(expr, consts)
			t.Logf("test #%d: eval completed with: %+v", index, err)

			if !fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: eval failed with: %+v", index, err)
				return
			}
			if fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: eval passed, expected fail", index)
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

			if err := out.Cmp(expected); err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: got: %s", index, out)
				t.Errorf("test #%d: exp: %s", index, expected)
				t.Errorf("test #%d: cmp error: %+v", index, err)
				return
			}
		})
	}
}

func TestEvalReturnsFreshNumbers(t *testing.T) {
	consts := map[ast.Identifier]*ast.ExprNum{
		{Name: "x", Syntax: ast.SyntaxPlain}: ast.NewNum(3),
	}

	out, err := Eval(ast.NewVar("x"), consts)
	if err != nil {
		t.Errorf("eval failed with: %+v", err)
		return
	}

	out.V.SetInt64(99) // scribble on the result
	num := consts[ast.Identifier{Name: "x", Syntax: ast.SyntaxPlain}]
	if num.Cmp(ast.NewNum(3)) != nil {
		t.Errorf("the result aliased the binding")
	}
}
