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

package solver

import (
	"context"
	"fmt"

	"github.com/purpleidea/eqsolve/ast"
	"github.com/purpleidea/eqsolve/simplify"
	"github.com/purpleidea/eqsolve/util/errwrap"
)

const (
	// SimpleSolverName is the name of the built-in constant propagation
	// solver. It's currently the only one, which also makes it the
	// default.
	SimpleSolverName = "simple"
)

func init() {
	Register(SimpleSolverName, func() Solver { return &SimpleSolver{} })
}

// SimpleSolver is the monotonic constant propagation solver. On every
// iteration it extracts the bindings that are sitting in plain sight (the
// equations already in `(= constant var...)` shape), substitutes everything
// known into every equation, and simplifies. Equations that collapse into
// tautologies drop out. It only ever learns, it never backtracks, so it
// either drains the whole system, gets stuck, or hits a contradiction.
type SimpleSolver struct {
	debug bool
	logf  func(format string, v ...interface{})

	simplifier *simplify.Simplifier
}

// Init initializes the solver struct before first use.
func (obj *SimpleSolver) Init(init *Init) error {
	if init == nil {
		return fmt.Errorf("no init was specified")
	}
	logf := init.Logf
	if logf == nil {
		logf = func(format string, v ...interface{}) {} // noop
	}
	obj.debug = init.Debug
	obj.logf = logf
	obj.simplifier = &simplify.Simplifier{
		Debug: init.Debug,
		Logf: func(format string, v ...interface{}) {
			logf("simplify: "+format, v...)
		},
	}
	return nil
}

// Solve performs the actual solving. The input equations and the seed
// constants are never mutated. Two terminal states exist: solved, when the
// equation list drains empty, and stuck, when one more iteration changes
// neither the equations nor the constants. Both come back as a Solution. A
// contradiction or an arithmetic failure during simplification aborts the
// whole solve with an error instead, no partial result escapes that.
func (obj *SimpleSolver) Solve(ctx context.Context, equations []ast.Expr, consts map[ast.Identifier]*ast.ExprNum) (*Solution, error) {
	if obj.simplifier == nil {
		return nil, fmt.Errorf("the solver was not initialized")
	}

	eqs := equations
	current := consts // read-only, mergeConsts always builds fresh maps

	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return nil, errwrap.Wrapf(ctx.Err(), "solve was cancelled")
		default:
		}

		found := findConsts(eqs)
		if obj.debug {
			for ident, num := range found {
				obj.logf("iteration %d: found: %s = %s", i, ident, num)
			}
		}
		merged := mergeConsts(current, found) // the found ones win

		next := []ast.Expr{}
		for _, eq := range eqs {
			p := propagateConsts(eq, merged)
			s, err := obj.simplifier.Simplify(p)
			if err != nil {
				return nil, errwrap.Wrapf(err, "iteration %d", i)
			}
			if s == nil {
				continue // the equation became a no-op, drop it
			}
			next = append(next, s)
		}

		if len(next) == 0 { // yay, we consumed them all!
			obj.logf("solved in %d iteration(s) with %d constant(s)", i, len(merged))
			return &Solution{
				Equations: next,
				Consts:    merged,
			}, nil
		}

		if exprListEqual(next, eqs) && constsEqual(merged, current) {
			// nothing moved, so nothing ever will
			obj.logf("stuck after %d iteration(s), %d equation(s) remain", i, len(next))
			return &Solution{
				Equations: next,
				Consts:    merged,
			}, nil
		}

		eqs, current = next, merged
	}
}

// findConsts scans the top-level equation list for equations already in the
// exact canonical shape `(= constant var1 var2 ...)`, meaning the leading
// operand is a number and every trailing operand is a variable, and records
// each variable -> constant pair. Everything else is skipped here, it's the
// simplifier's job to normalize equations into this shape first. Within one
// scan, a later binding for the same variable wins.
func findConsts(equations []ast.Expr) map[ast.Identifier]*ast.ExprNum {
	found := make(map[ast.Identifier]*ast.ExprNum)
	for _, eq := range equations {
		call, ok := eq.(*ast.ExprCall)
		if !ok || call.Name != ast.EqSymbol {
			continue
		}
		if len(call.Args) < 2 {
			continue
		}
		num, ok := call.Args[0].(*ast.ExprNum)
		if !ok {
			continue
		}
		vars := []*ast.ExprVar{}
		for _, x := range call.Args[1:] {
			v, ok := x.(*ast.ExprVar)
			if !ok {
				vars = nil // nope, not the canonical shape
				break
			}
			vars = append(vars, v)
		}
		for _, v := range vars {
			found[v.Ident] = num
		}
	}
	return found
}

// propagateConsts replaces every variable that has a binding with its
// constant, bottom-up, and repeats until a pass changes nothing. One pass is
// actually always enough, since the substituted numbers contain no further
// variables, but running to the explicit fixpoint keeps the contract uniform
// with the rest of the pipeline. Untouched (sub)trees pass through with
// their structural identity intact.
func propagateConsts(expr ast.Expr, consts map[ast.Identifier]*ast.ExprNum) ast.Expr {
	for {
		next, changed := substitute(expr, consts)
		if !changed {
			return expr
		}
		expr = next
	}
}

// substitute is one structural substitution pass for propagateConsts.
func substitute(expr ast.Expr, consts map[ast.Identifier]*ast.ExprNum) (ast.Expr, bool) {
	switch node := expr.(type) {
	case *ast.ExprVar:
		num, exists := consts[node.Ident]
		if !exists {
			return expr, false
		}
		return num, true // nodes are immutable, sharing is fine

	case *ast.ExprCall:
		changed := false
		args := []ast.Expr{}
		for _, x := range node.Args {
			sx, ch := substitute(x, consts)
			changed = changed || ch
			args = append(args, sx)
		}
		if !changed {
			return expr, false
		}
		return &ast.ExprCall{Name: node.Name, Args: args}, true
	}
	return expr, false // numbers have nothing to substitute
}

// mergeConsts builds a fresh map with everything from base, overridden by
// everything from override. Neither input is modified.
func mergeConsts(base, override map[ast.Identifier]*ast.ExprNum) map[ast.Identifier]*ast.ExprNum {
	merged := make(map[ast.Identifier]*ast.ExprNum)
	for ident, num := range base {
		merged[ident] = num
	}
	for ident, num := range override {
		merged[ident] = num // last write wins
	}
	return merged
}

// constsEqual reports whether two constant maps are structurally equal.
func constsEqual(a, b map[ast.Identifier]*ast.ExprNum) bool {
	if len(a) != len(b) {
		return false
	}
	for ident, num := range a {
		other, exists := b[ident]
		if !exists {
			return false
		}
		if num.Cmp(other) != nil {
			return false
		}
	}
	return true
}

// exprListEqual reports whether two expression lists are structurally equal,
// in order.
func exprListEqual(a, b []ast.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i, x := range a {
		if x.Cmp(b[i]) != nil {
			return false
		}
	}
	return true
}
