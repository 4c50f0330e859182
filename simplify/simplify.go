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

// Package simplify is the term-rewriting engine. It rewrites an expression
// tree bottom-up with a fixed, ordered list of rules, and repeats until a
// whole pass changes nothing. Everything it can't understand it leaves
// alone, which is why unknown operator symbols flow through untouched.
package simplify

import (
	"math/big"

	"github.com/purpleidea/eqsolve/ast"
	"github.com/purpleidea/eqsolve/operators"
	"github.com/purpleidea/eqsolve/util"
	"github.com/purpleidea/eqsolve/util/errwrap"
)

const (
	// ErrContradiction is returned when an equality carries two constants
	// that aren't equal, eg: `(= 1 2)`. There is no way to simplify
	// around that, the whole input is wrong, so this is a hard failure.
	ErrContradiction = util.Error("can't simplify, the constants are contradictory")
)

// rules are tried in this exact order at every node, and the first one whose
// shape matches fires. The order is load-bearing: for example, a fully
// numeric `(- 1 2)` must fold (rule 4) before decomposition (rule 6) ever
// sees it, and unary collapse must never outrank the tautology removal.
var rules = []struct {
	name string
	fn   func(*ast.ExprCall) (ast.Expr, bool, error)
}{
	{"unary-collapse", ruleUnaryCollapse},
	{"neutral-element", ruleNeutralElement},
	{"eq-tautology", ruleEqTautology},
	{"const-eval", ruleConstEval},
	{"commutative-fold", ruleCommutativeFold},
	{"invertible-decompose", ruleInvertibleDecompose},
	{"eq-normalize", ruleEqNormalize},
}

// Simplifier holds the rewrite engine. The zero value is usable and silent.
type Simplifier struct {
	// Debug enables the per-rewrite log messages.
	Debug bool

	// Logf is the logging function. It may be nil to stay quiet.
	Logf func(format string, v ...interface{})
}

// Simplify rewrites an expression until no rule changes anything, and then
// returns the result. A tautological equality simplifies away entirely, and
// in that one case the returned expression is nil. The only errors are a
// contradictory constant equality and arithmetic failures during constant
// folding, eg: a division by zero. Input trees are never mutated.
func (obj *Simplifier) Simplify(expr ast.Expr) (ast.Expr, error) {
	current := expr
	for {
		next, changed, err := obj.pass(current)
		if err != nil {
			return nil, err
		}
		if !changed {
			return current, nil
		}
		if next == nil {
			return nil, nil // it vanished, nothing left to rewrite
		}
		current = next
	}
}

// Simplify rewrites an expression with a default, silent simplifier. See the
// method of the same name for the contract.
func Simplify(expr ast.Expr) (ast.Expr, error) {
	simplifier := &Simplifier{}
	return simplifier.Simplify(expr)
}

// pass is one bottom-up traversal. Children are taken to their own fixpoint
// first, and only then do the rules get a chance at the node itself. The
// caller loops this until nothing changes.
func (obj *Simplifier) pass(expr ast.Expr) (ast.Expr, bool, error) {
	node, ok := expr.(*ast.ExprCall)
	if !ok {
		return expr, false, nil // leaves are already done
	}

	changed := false
	args := []ast.Expr{}
	for _, x := range node.Args {
		sx, err := obj.Simplify(x) // child to its own fixpoint
		if err != nil {
			return nil, false, err
		}
		if sx == nil {
			// a nested equality vanished, so its slot goes too
			changed = true
			continue
		}
		if sx != x {
			changed = true
		}
		args = append(args, sx)
	}
	call := node
	if changed {
		call = &ast.ExprCall{Name: node.Name, Args: args}
	}

	out, fired, err := obj.rewrite(call)
	if err != nil {
		return nil, false, err
	}
	if fired {
		return out, true, nil
	}
	return call, changed, nil
}

// rewrite tries the rules in priority order at a single node. At most one
// rule fires per visit, the repeated passes take care of the rest.
func (obj *Simplifier) rewrite(call *ast.ExprCall) (ast.Expr, bool, error) {
	for _, r := range rules {
		out, fired, err := r.fn(call)
		if err != nil {
			return nil, false, err
		}
		if !fired {
			continue
		}
		if obj.Debug && obj.Logf != nil {
			if out == nil {
				obj.Logf("rule %s: %s -> ()", r.name, call)
			} else {
				obj.Logf("rule %s: %s -> %s", r.name, call, out)
			}
		}
		return out, true, nil
	}
	return call, false, nil
}

// ruleUnaryCollapse implements `(op x) -> x` for the commutative operators
// (`+`, `*`, `max`, `min`) only. Unary `-` and `/` mean negation and
// reciprocal, so they must survive. See ruleInvertibleDecompose for where
// those unary forms come from.
func ruleUnaryCollapse(call *ast.ExprCall) (ast.Expr, bool, error) {
	if len(call.Args) != 1 {
		return nil, false, nil
	}
	if !operators.IsCommutative(call.Name) {
		return nil, false, nil
	}
	return call.Args[0], true, nil
}

// ruleNeutralElement implements exactly `(+ 0 x) -> x` and `(* 1 x) -> x`.
// Only the two-operand shape with the neutral constant literally first
// matches. It binds whatever the trailing operand is, evaluated or not, so
// `(+ 0 (- x))` becomes `(- x)` wholesale. Longer operand lists are left for
// the constant folding rule.
func ruleNeutralElement(call *ast.ExprCall) (ast.Expr, bool, error) {
	if len(call.Args) != 2 {
		return nil, false, nil
	}
	num, ok := call.Args[0].(*ast.ExprNum)
	if !ok {
		return nil, false, nil
	}
	scaffold, err := operators.LookupOperator(call.Name)
	if err != nil {
		return nil, false, nil
	}
	var neutral int64
	switch scaffold.Op {
	case operators.OpAdd:
		neutral = 0
	case operators.OpMul:
		neutral = 1
	default:
		return nil, false, nil
	}
	if num.V.Cmp(new(big.Rat).SetInt64(neutral)) != 0 {
		return nil, false, nil
	}
	return call.Args[1], true, nil
}

// ruleEqTautology removes equalities that say nothing: an empty operand list
// or one where every operand equals the first. The node rewrites to the
// empty result, which the solver later drops.
func ruleEqTautology(call *ast.ExprCall) (ast.Expr, bool, error) {
	if call.Name != ast.EqSymbol {
		return nil, false, nil
	}
	for i := 1; i < len(call.Args); i++ {
		if !exprEqual(call.Args[0], call.Args[i]) {
			return nil, false, nil
		}
	}
	return nil, true, nil
}

// ruleConstEval replaces an application of a registered operator whose
// operands are all numeric with the evaluator result. Evaluator errors are
// real errors, eg: dividing by zero, and they propagate to the caller.
func ruleConstEval(call *ast.ExprCall) (ast.Expr, bool, error) {
	scaffold, err := operators.LookupOperator(call.Name)
	if err != nil {
		return nil, false, nil // unknown operators never rewrite
	}
	input := []*ast.ExprNum{}
	for _, x := range call.Args {
		num, ok := x.(*ast.ExprNum)
		if !ok {
			return nil, false, nil
		}
		input = append(input, num)
	}
	out, err := scaffold.F(input)
	if err != nil {
		return nil, false, errwrap.Wrapf(err, "can't fold `%s`", call)
	}
	return out, true, nil
}

// ruleCommutativeFold handles a commutative operator with a mix of numeric
// and other operands: it stably partitions them, folds every numeric operand
// into one constant, and rewrites with that constant first. It only fires
// when that's actual progress, meaning two or more numerics, or one numeric
// that isn't already in the leading spot. That guard is what makes the
// repeated passes terminate.
func ruleCommutativeFold(call *ast.ExprCall) (ast.Expr, bool, error) {
	scaffold, err := operators.LookupOperator(call.Name)
	if err != nil || !scaffold.Commutative {
		return nil, false, nil
	}
	nums := []*ast.ExprNum{}
	rest := []ast.Expr{}
	for _, x := range call.Args {
		if num, ok := x.(*ast.ExprNum); ok {
			nums = append(nums, num)
			continue
		}
		rest = append(rest, x)
	}
	if len(nums) == 0 || len(rest) == 0 {
		return nil, false, nil // not a mixed list
	}
	if len(nums) == 1 {
		if _, ok := call.Args[0].(*ast.ExprNum); ok {
			return nil, false, nil // already canonical
		}
	}
	folded, err := scaffold.F(nums)
	if err != nil {
		return nil, false, errwrap.Wrapf(err, "can't fold `%s`", call)
	}
	args := append([]ast.Expr{folded}, rest...)
	return &ast.ExprCall{Name: call.Name, Args: args}, true, nil
}

// ruleInvertibleDecompose rewrites an invertible operator with trailing
// operands into its inverse with unary applications:
//
//	(- x y1 y2) -> (+ x (- y1) (- y2))
//	(/ x y) -> (* x (/ y))
//
// which exposes the commutativity of the inverse, so constants can fold no
// matter where they sat in the original operand order. A unary invertible
// application has zero trailing operands and is left untouched, it already
// IS the unary form this rule produces.
func ruleInvertibleDecompose(call *ast.ExprCall) (ast.Expr, bool, error) {
	inv, ok := operators.InverseOf(call.Name)
	if !ok {
		return nil, false, nil
	}
	if len(call.Args) < 2 {
		return nil, false, nil
	}
	args := []ast.Expr{call.Args[0]}
	for _, y := range call.Args[1:] {
		args = append(args, &ast.ExprCall{
			Name: call.Name,
			Args: []ast.Expr{y},
		})
	}
	return &ast.ExprCall{Name: inv, Args: args}, true, nil
}

// ruleEqNormalize rewrites an equality that has constants sitting anywhere
// other than a single leading spot into the canonical `(= c others...)`
// shape. All the constants must agree (they're all asserted equal to each
// other by the equation), and if they don't, the whole simplification fails
// hard with ErrContradiction. Duplicated constants collapse into the one
// shared value, in first-seen form.
func ruleEqNormalize(call *ast.ExprCall) (ast.Expr, bool, error) {
	if call.Name != ast.EqSymbol {
		return nil, false, nil
	}
	nums := []*ast.ExprNum{}
	rest := []ast.Expr{}
	for _, x := range call.Args {
		if num, ok := x.(*ast.ExprNum); ok {
			nums = append(nums, num)
			continue
		}
		rest = append(rest, x)
	}
	if len(nums) == 0 {
		return nil, false, nil
	}
	if len(nums) == 1 {
		if _, ok := call.Args[0].(*ast.ExprNum); ok {
			return nil, false, nil // already canonical
		}
	}
	for _, num := range nums[1:] {
		if ast.NumCmp(nums[0], num) != 0 {
			return nil, false, errwrap.Wrapf(ErrContradiction, "`%s` != `%s`", nums[0], num)
		}
	}
	args := append([]ast.Expr{nums[0]}, rest...)
	return &ast.ExprCall{Name: ast.EqSymbol, Args: args}, true, nil
}

// exprEqual is the equality the rules use between operands: structural,
// except that a pair of numbers compares numerically, so `(= 2 2.0)` is a
// tautology even though the two nodes differ in form.
func exprEqual(a, b ast.Expr) bool {
	na, aok := a.(*ast.ExprNum)
	nb, bok := b.(*ast.ExprNum)
	if aok && bok {
		return ast.NumCmp(na, nb) == 0
	}
	return a.Cmp(b) == nil
}
