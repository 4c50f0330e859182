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

// Package operators provides the operator registry. The table of known
// operators is registered here once at startup and is immutable afterwards.
// Everything else (the simplifier in particular) may look operators up, but
// nothing may mutate the table at runtime. There is deliberately no public
// API for extending it, the set of operators is a closed design decision.
package operators

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/purpleidea/eqsolve/ast"
)

//go:generate stringer -type=Op -output=op_stringer.go

// Op is the enumerated type of the known operators. Everything dispatches on
// this enum internally, the surface symbols exist at the edges only.
type Op int

const (
	// OpInvalid is the zero value, and means no operator at all. It's what
	// you get back when a lookup fails, and it's the Inverse of anything
	// which isn't invertible.
	OpInvalid Op = iota

	// OpAdd is n-ary addition (`+`).
	OpAdd

	// OpMul is n-ary multiplication (`*`).
	OpMul

	// OpSub is subtraction (`-`). Unary means negation.
	OpSub

	// OpDiv is division (`/`). Unary means reciprocal.
	OpDiv

	// OpPow is binary exponentiation (`**`).
	OpPow

	// OpMax is the n-ary maximum (`max`).
	OpMax

	// OpMin is the n-ary minimum (`min`).
	OpMin
)

// maxIntExp is the biggest exponent magnitude we'll raise a rational to
// exactly. Anything bigger falls through to the floating-point path, which
// will error if the result isn't finite. Without a bound here, something
// like `(** 2 99999999)` would happily eat all your memory.
const maxIntExp = 1 << 16

// Scaffold holds the static properties and the evaluator of one operator.
// These get registered at init() time and never change afterwards.
type Scaffold struct {
	// Op is the enumerated id of this operator. RegisterOperator sets it.
	Op Op

	// Symbol is the surface symbol, eg: `+` or `max`.
	Symbol string

	// Commutative specifies that operand order doesn't matter, which is
	// what licenses the simplifier to partition and reorder its operands.
	Commutative bool

	// Inverse is the op which undoes this one when it decomposes, eg: the
	// inverse of `-` is `+`. It's OpInvalid when this op isn't invertible.
	Inverse Op

	// F is the n-ary numeric evaluator. It must not mutate its inputs,
	// and it must return a fresh number. It errors on arity violations
	// and on undefined arithmetic like dividing by zero.
	F func(input []*ast.ExprNum) (*ast.ExprNum, error)
}

var (
	// OperatorFuncs is the operator registry, keyed by the enum. You
	// should never touch this map directly. Use RegisterOperator to add
	// to it (init time only) and the Lookup* functions to read from it.
	OperatorFuncs = make(map[Op]*Scaffold) // must initialize

	// operatorSymbols is the reverse index from surface symbol to op.
	operatorSymbols = make(map[string]Op)
)

// RegisterOperator registers the scaffold for one operator. It is commonly
// called in the init() method of this package at program startup. There is
// no matching unregister function, the table is append-once, read-forever.
func RegisterOperator(op Op, scaffold *Scaffold) {
	if op == OpInvalid {
		panic("can't register the invalid operator")
	}
	if _, exists := OperatorFuncs[op]; exists {
		panic(fmt.Sprintf("op %s is already registered", op))
	}
	if _, exists := operatorSymbols[scaffold.Symbol]; exists {
		panic(fmt.Sprintf("operator symbol `%s` is already registered", scaffold.Symbol))
	}
	if scaffold.Symbol == "" || scaffold.Symbol == ast.EqSymbol {
		panic(fmt.Sprintf("can't register operator symbol `%s`", scaffold.Symbol))
	}
	if scaffold.F == nil {
		panic(fmt.Sprintf("operator `%s` has a nil evaluator", scaffold.Symbol))
	}
	scaffold.Op = op
	OperatorFuncs[op] = scaffold
	operatorSymbols[scaffold.Symbol] = op
}

// LookupOperator takes an operator symbol and returns its scaffold, or an
// error if the symbol isn't a registered operator. Callers must treat the
// returned scaffold as read-only.
func LookupOperator(symbol string) (*Scaffold, error) {
	op, exists := operatorSymbols[symbol]
	if !exists {
		return nil, fmt.Errorf("operator `%s` is not registered", symbol)
	}
	return OperatorFuncs[op], nil
}

// LookupOp takes an op enum value and returns its scaffold, or an error if it
// was never registered.
func LookupOp(op Op) (*Scaffold, error) {
	scaffold, exists := OperatorFuncs[op]
	if !exists {
		return nil, fmt.Errorf("op %s is not registered", op)
	}
	return scaffold, nil
}

// IsOperator reports whether a symbol is one of the known operators. The `=`
// equality symbol is not an operator, it's structural.
func IsOperator(symbol string) bool {
	_, exists := operatorSymbols[symbol]
	return exists
}

// IsCommutative reports whether the symbol is a known commutative operator.
// Unknown symbols are not commutative, since we can't assume anything about
// them.
func IsCommutative(symbol string) bool {
	scaffold, err := LookupOperator(symbol)
	if err != nil {
		return false
	}
	return scaffold.Commutative
}

// InverseOf returns the symbol of the inverse operator and true if the given
// symbol is a known invertible operator, otherwise it returns false.
func InverseOf(symbol string) (string, bool) {
	scaffold, err := LookupOperator(symbol)
	if err != nil {
		return "", false
	}
	if scaffold.Inverse == OpInvalid {
		return "", false
	}
	inv, exists := OperatorFuncs[scaffold.Inverse]
	if !exists {
		return "", false // only possible if someone broke the table
	}
	return inv.Symbol, true
}

// Symbols returns the sorted list of all registered operator symbols.
func Symbols() []string {
	symbols := []string{}
	for symbol := range operatorSymbols {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// init registers the full operator table. The set of operators, and which of
// them are commutative or invertible, is fixed here on purpose. If you think
// you want to add one, you probably want a different program.
func init() {
	RegisterOperator(OpAdd, &Scaffold{
		Symbol:      "+",
		Commutative: true,
		Inverse:     OpInvalid,
		F: func(input []*ast.ExprNum) (*ast.ExprNum, error) {
			sum := new(big.Rat) // zero
			float := false
			for _, x := range input {
				sum.Add(sum, x.V)
				float = float || x.Float
			}
			return &ast.ExprNum{V: sum, Float: float}, nil
		},
	})

	RegisterOperator(OpMul, &Scaffold{
		Symbol:      "*",
		Commutative: true,
		Inverse:     OpInvalid,
		F: func(input []*ast.ExprNum) (*ast.ExprNum, error) {
			prod := new(big.Rat).SetInt64(1)
			float := false
			for _, x := range input {
				prod.Mul(prod, x.V)
				float = float || x.Float
			}
			return &ast.ExprNum{V: prod, Float: float}, nil
		},
	})

	RegisterOperator(OpSub, &Scaffold{
		Symbol:      "-",
		Commutative: false,
		Inverse:     OpAdd,
		F: func(input []*ast.ExprNum) (*ast.ExprNum, error) {
			if len(input) == 0 {
				return nil, fmt.Errorf("`-` needs at least one operand")
			}
			if len(input) == 1 { // negation
				return &ast.ExprNum{
					V:     new(big.Rat).Neg(input[0].V),
					Float: input[0].Float,
				}, nil
			}
			diff := new(big.Rat).Set(input[0].V)
			float := input[0].Float
			for _, x := range input[1:] {
				diff.Sub(diff, x.V)
				float = float || x.Float
			}
			return &ast.ExprNum{V: diff, Float: float}, nil
		},
	})

	RegisterOperator(OpDiv, &Scaffold{
		Symbol:      "/",
		Commutative: false,
		Inverse:     OpMul,
		F: func(input []*ast.ExprNum) (*ast.ExprNum, error) {
			if len(input) == 0 {
				return nil, fmt.Errorf("`/` needs at least one operand")
			}
			if len(input) == 1 { // reciprocal
				if input[0].V.Sign() == 0 {
					return nil, fmt.Errorf("can't divide by zero")
				}
				return &ast.ExprNum{
					V:     new(big.Rat).Inv(input[0].V),
					Float: input[0].Float,
				}, nil
			}
			quo := new(big.Rat).Set(input[0].V)
			float := input[0].Float
			for _, x := range input[1:] {
				if x.V.Sign() == 0 {
					return nil, fmt.Errorf("can't divide by zero")
				}
				quo.Quo(quo, x.V)
				float = float || x.Float
			}
			return &ast.ExprNum{V: quo, Float: float}, nil
		},
	})

	RegisterOperator(OpPow, &Scaffold{
		Symbol:      "**",
		Commutative: false,
		Inverse:     OpInvalid,
		F: func(input []*ast.ExprNum) (*ast.ExprNum, error) {
			if len(input) != 2 {
				return nil, fmt.Errorf("`**` needs exactly two operands")
			}
			return ratPow(input[0], input[1])
		},
	})

	RegisterOperator(OpMax, &Scaffold{
		Symbol:      "max",
		Commutative: true,
		Inverse:     OpInvalid,
		F: func(input []*ast.ExprNum) (*ast.ExprNum, error) {
			if len(input) == 0 {
				return nil, fmt.Errorf("`max` needs at least one operand")
			}
			best := input[0]
			for _, x := range input[1:] {
				if x.V.Cmp(best.V) > 0 {
					best = x
				}
			}
			// the winning operand itself, form and all
			return &ast.ExprNum{
				V:     new(big.Rat).Set(best.V),
				Float: best.Float,
			}, nil
		},
	})

	RegisterOperator(OpMin, &Scaffold{
		Symbol:      "min",
		Commutative: true,
		Inverse:     OpInvalid,
		F: func(input []*ast.ExprNum) (*ast.ExprNum, error) {
			if len(input) == 0 {
				return nil, fmt.Errorf("`min` needs at least one operand")
			}
			best := input[0]
			for _, x := range input[1:] {
				if x.V.Cmp(best.V) < 0 {
					best = x
				}
			}
			return &ast.ExprNum{
				V:     new(big.Rat).Set(best.V),
				Float: best.Float,
			}, nil
		},
	})
}

// ratPow raises base to the exp power. Integer exponents of sane magnitude
// stay exact rationals, everything else goes through float64 math and errors
// if the result isn't finite, since a rational can't hold an Inf or a NaN.
func ratPow(base, exp *ast.ExprNum) (*ast.ExprNum, error) {
	if exp.V.IsInt() && exp.V.Num().IsInt64() {
		e := exp.V.Num().Int64()
		if e >= -maxIntExp && e <= maxIntExp {
			return intPow(base, e, base.Float || exp.Float)
		}
	}

	bf, _ := base.V.Float64()
	ef, _ := exp.V.Float64()
	res := math.Pow(bf, ef)
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return nil, fmt.Errorf("`**` result is not a finite number")
	}
	return &ast.ExprNum{
		V:     new(big.Rat).SetFloat64(res),
		Float: true,
	}, nil
}

// intPow is the exact integer-exponent power. A negative exponent inverts,
// which is where the division by zero case hides.
func intPow(base *ast.ExprNum, e int64, float bool) (*ast.ExprNum, error) {
	v := new(big.Rat).Set(base.V)
	if e < 0 {
		if v.Sign() == 0 {
			return nil, fmt.Errorf("can't divide by zero")
		}
		v.Inv(v)
		e = -e
	}
	bigE := big.NewInt(e)
	num := new(big.Int).Exp(v.Num(), bigE, nil)
	den := new(big.Int).Exp(v.Denom(), bigE, nil)
	return &ast.ExprNum{
		V:     new(big.Rat).SetFrac(num, den),
		Float: float, // contagious, even when the math stayed exact
	}, nil
}
