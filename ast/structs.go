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

// Package ast contains the expression tree that the whole program operates
// on. Expressions are values: once built they are never mutated, and every
// rewrite produces new nodes. Anything which wants to change a tree must
// build a new one.
package ast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/purpleidea/eqsolve/util/errwrap"
)

const (
	// EqSymbol is the operator symbol which marks an application as an
	// equation. It is intentionally not part of the operator registry,
	// since it has no numeric evaluator. It is structural.
	EqSymbol = "="
)

// VarSyntax is an enum that represents which of the two accepted identifier
// syntaxes a variable was written in. The two are interchangeable anywhere a
// variable may appear, but we preserve whichever one was used verbatim, so
// that variables print back out exactly as they arrived.
type VarSyntax int

const (
	// SyntaxPlain is a bare name, eg: `x` or `hello`.
	SyntaxPlain VarSyntax = iota

	// SyntaxTagged is a tagged name, eg: `:x` or `:hello`.
	SyntaxTagged
)

// Identifier is the combined name of a variable. Two variables are the same
// variable iff their identifiers are equal, which includes the syntax. In
// other words, `x` and `:x` are two different variables. This is a comparable
// struct, and it's the map key everywhere a variable keys a mapping.
type Identifier struct {
	// Name is the variable name without any syntax decoration.
	Name string

	// Syntax is which of the two syntaxes the variable was written in.
	Syntax VarSyntax
}

// String returns the original surface form of this identifier.
func (obj Identifier) String() string {
	if obj.Syntax == SyntaxTagged {
		return ":" + obj.Name
	}
	return obj.Name
}

// Expr represents a node in an expression tree. The three implementations
// are ExprNum, ExprVar and ExprCall. All of them are immutable by convention.
type Expr interface {
	// String returns the printable s-expression form of this node.
	fmt.Stringer

	// Apply is a general purpose iterator method that operates on any
	// node. It visits children before the node itself.
	Apply(fn func(Expr) error) error

	// Copy returns a deep copy of this expression.
	Copy() Expr

	// Cmp returns an error if this expression isn't structurally equal to
	// the one passed in.
	Cmp(Expr) error
}

// ExprNum is a numeric constant. The value is stored exactly as a rational,
// since every float converts to one losslessly. The Float flag records that
// the value entered as (or was produced by) floating-point math, so that it
// prints in float form instead of ratio form. The flag is contagious through
// evaluation, the way the usual numeric towers behave.
type ExprNum struct {
	// V is the exact value. It must not be nil, and it must never be
	// mutated after construction. Use Copy if you need your own.
	V *big.Rat

	// Float marks this number as a floating-point one for display and
	// contagion purposes. The stored value is exact either way.
	Float bool
}

// String returns the natural textual form of this number. Exact values print
// as integers or ratios, eg: `3` or `7/2`, and float values print with a
// decimal point or exponent, eg: `2.5` or `1e+21`.
func (obj *ExprNum) String() string {
	if !obj.Float {
		return obj.V.RatString()
	}
	f, _ := obj.V.Float64()
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0" // keep the float marker visible so it re-reads as one
	}
	return s
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprNum) Apply(fn func(Expr) error) error { return fn(obj) }

// Copy returns a deep copy of this expression.
func (obj *ExprNum) Copy() Expr {
	return &ExprNum{
		V:     new(big.Rat).Set(obj.V),
		Float: obj.Float,
	}
}

// Cmp returns an error if this expression isn't structurally equal to the one
// passed in. Numbers compare by exact value and by form, so `2` and `2.0` are
// structurally different even though they are numerically equal. Use NumCmp
// if you only care about the numeric value.
func (obj *ExprNum) Cmp(expr Expr) error {
	if obj == nil || expr == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	num, ok := expr.(*ExprNum)
	if !ok {
		return fmt.Errorf("expected a number, got: %s", expr)
	}
	if obj.V.Cmp(num.V) != 0 {
		return fmt.Errorf("values differ: %s != %s", obj, num)
	}
	if obj.Float != num.Float {
		return fmt.Errorf("number forms differ: %s != %s", obj, num)
	}
	return nil
}

// ExprVar is a variable leaf. It holds the combined identifier, which keeps
// the surface syntax it was written in.
type ExprVar struct {
	// Ident is the combined identifier of this variable.
	Ident Identifier
}

// String returns the variable exactly as it was written.
func (obj *ExprVar) String() string { return obj.Ident.String() }

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprVar) Apply(fn func(Expr) error) error { return fn(obj) }

// Copy returns a deep copy of this expression.
func (obj *ExprVar) Copy() Expr {
	return &ExprVar{
		Ident: obj.Ident,
	}
}

// Cmp returns an error if this expression isn't structurally equal to the one
// passed in.
func (obj *ExprVar) Cmp(expr Expr) error {
	if obj == nil || expr == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	v, ok := expr.(*ExprVar)
	if !ok {
		return fmt.Errorf("expected a variable, got: %s", expr)
	}
	if obj.Ident != v.Ident {
		return fmt.Errorf("variables differ: %s != %s", obj, v)
	}
	return nil
}

// ExprCall is an application of an operator symbol to an ordered list of
// operand expressions. The symbol is an open set on purpose: applications of
// symbols that aren't registered operators must still be representable, they
// just never get rewritten.
type ExprCall struct {
	// Name is the operator symbol, eg: `+` or `=` or something unknown.
	Name string

	// Args are the ordered operands. They may be empty.
	Args []Expr
}

// String returns the s-expression form of this application, eg: `(+ 1 x)`.
func (obj *ExprCall) String() string {
	if len(obj.Args) == 0 {
		return fmt.Sprintf("(%s)", obj.Name)
	}
	s := []string{}
	for _, x := range obj.Args {
		s = append(s, x.String())
	}
	return fmt.Sprintf("(%s %s)", obj.Name, strings.Join(s, " "))
}

// Apply is a general purpose iterator method that operates on any node. It
// visits the operands first, and the application itself last.
func (obj *ExprCall) Apply(fn func(Expr) error) error {
	for _, x := range obj.Args {
		if err := x.Apply(fn); err != nil {
			return err
		}
	}
	return fn(obj)
}

// Copy returns a deep copy of this expression.
func (obj *ExprCall) Copy() Expr {
	args := []Expr{}
	for _, x := range obj.Args {
		args = append(args, x.Copy())
	}
	return &ExprCall{
		Name: obj.Name,
		Args: args,
	}
}

// Cmp returns an error if this expression isn't structurally equal to the one
// passed in. Operand order matters here, even for commutative operators. Any
// reordering is the simplifier's business, not this function's.
func (obj *ExprCall) Cmp(expr Expr) error {
	if obj == nil || expr == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	call, ok := expr.(*ExprCall)
	if !ok {
		return fmt.Errorf("expected an application, got: %s", expr)
	}
	if obj.Name != call.Name {
		return fmt.Errorf("operators differ: %s != %s", obj.Name, call.Name)
	}
	if len(obj.Args) != len(call.Args) {
		return fmt.Errorf("operand counts differ: %d != %d", len(obj.Args), len(call.Args))
	}
	for i, x := range obj.Args {
		if err := x.Cmp(call.Args[i]); err != nil {
			return errwrap.Wrapf(err, "operand %d differs", i)
		}
	}
	return nil
}
