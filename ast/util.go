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

package ast

import (
	"math/big"
)

// NewNum builds an exact integer constant.
func NewNum(x int64) *ExprNum {
	return &ExprNum{
		V: new(big.Rat).SetInt64(x),
	}
}

// NewRat builds an exact rational constant. It panics if den is zero, which
// mirrors what math/big does, since that's a programming error and not an
// arithmetic one.
func NewRat(num, den int64) *ExprNum {
	return &ExprNum{
		V: big.NewRat(num, den),
	}
}

// NewFloat builds a floating-point constant. The value is stored exactly (all
// floats are rationals) but it prints and propagates as a float.
func NewFloat(x float64) *ExprNum {
	return &ExprNum{
		V:     new(big.Rat).SetFloat64(x),
		Float: true,
	}
}

// NewVar builds a variable in the plain identifier syntax, eg: `x`.
func NewVar(name string) *ExprVar {
	return &ExprVar{
		Ident: Identifier{
			Name:   name,
			Syntax: SyntaxPlain,
		},
	}
}

// NewTaggedVar builds a variable in the tagged identifier syntax, eg: `:x`.
func NewTaggedVar(name string) *ExprVar {
	return &ExprVar{
		Ident: Identifier{
			Name:   name,
			Syntax: SyntaxTagged,
		},
	}
}

// NewCall builds an application of the named operator symbol to the operands.
func NewCall(name string, args ...Expr) *ExprCall {
	if args == nil {
		args = []Expr{}
	}
	return &ExprCall{
		Name: name,
		Args: args,
	}
}

// IsVariable reports whether a value in a tree is a variable leaf, written in
// either of the two accepted identifier syntaxes. Collaborators that build or
// inspect trees use this instead of type asserting everywhere.
func IsVariable(expr Expr) bool {
	_, ok := expr.(*ExprVar)
	return ok
}

// IsEquation reports whether an expression is an equality application. It
// says nothing about whether the shape is sensible, eg: `(= x)` counts.
func IsEquation(expr Expr) bool {
	call, ok := expr.(*ExprCall)
	if !ok {
		return false
	}
	return call.Name == EqSymbol
}

// NumCmp compares two numbers by numeric value only, ignoring which form they
// were written in. It returns -1, 0 or +1, the way big.Rat.Cmp does. So `2`
// and `2.0` are equal here, even though Cmp considers them different nodes.
func NumCmp(a, b *ExprNum) int {
	return a.V.Cmp(b.V)
}
