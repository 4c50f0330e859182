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

// Package solver turns systems of equations into variable bindings. The
// actual solving strategies register themselves here by name, and callers
// pick one (or take the default) through the lookup functions.
package solver

import (
	"context"
	"fmt"
	"sort"

	"github.com/purpleidea/eqsolve/ast"
)

// Init contains some handles that are used to initialize every solver. Each
// individual solver can choose to omit using some of the fields.
type Init struct {
	Debug bool
	Logf  func(format string, v ...interface{})
}

// Solver is the general interface that any solver needs to implement.
type Solver interface {
	// Init initializes the solver struct before first use.
	Init(*Init) error

	// Solve performs the actual solving. It consumes the equations it can
	// and binds constants as it learns them. The input equations and the
	// seed constants are never mutated. It must return as soon as
	// possible if the context is closed.
	Solve(ctx context.Context, equations []ast.Expr, consts map[ast.Identifier]*ast.ExprNum) (*Solution, error)
}

// Solution is what a solver run produces. There are two terminal shapes: a
// full solve, where every equation was consumed, and a stuck one, where some
// equations remain because no further progress was possible. Being stuck is
// data, not an error, the caller gets everything learned so far and can
// decide what it means.
type Solution struct {
	// Equations are the remaining equations. Empty means fully solved.
	Equations []ast.Expr

	// Consts are all the accumulated variable bindings, which includes
	// any seed bindings that were passed in.
	Consts map[ast.Identifier]*ast.ExprNum
}

// Solved reports whether every equation was consumed.
func (obj *Solution) Solved() bool {
	return len(obj.Equations) == 0
}

// registeredSolvers is a global map of all possible solvers which can be
// used. You should never touch this map directly. Use methods like Register
// instead.
var registeredSolvers = make(map[string]func() Solver) // must initialize

// Register takes a solver and its name and makes it available for use. It is
// commonly called in the init() method of the solver at program startup.
// There is no matching Unregister function.
func Register(name string, solver func() Solver) {
	if _, exists := registeredSolvers[name]; exists {
		panic(fmt.Sprintf("a solver named %s is already registered", name))
	}
	registeredSolvers[name] = solver
}

// Lookup returns a pointer to the named solver's struct.
func Lookup(name string) (Solver, error) {
	solver, exists := registeredSolvers[name]
	if !exists {
		return nil, fmt.Errorf("not found")
	}
	return solver(), nil
}

// LookupDefault attempts to return a "default" solver.
func LookupDefault() (Solver, error) {
	if len(registeredSolvers) == 0 {
		return nil, fmt.Errorf("no registered solvers")
	}
	if len(registeredSolvers) == 1 {
		for _, solver := range registeredSolvers {
			return solver(), nil // return the first and only one
		}
	}

	// If one was registered with no name, then use that as the default.
	if solver, exists := registeredSolvers[""]; exists { // empty name
		return solver(), nil
	}

	return nil, fmt.Errorf("no registered default solver")
}

// Names returns the sorted list of the registered solver names.
func Names() []string {
	names := []string{}
	for name := range registeredSolvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SolveForConsts runs the default solver over the equations with an optional
// seed of known constants, silently and with a background context. It's the
// plain-function shape of this package for callers who don't care about
// choosing strategies or plumbing loggers.
func SolveForConsts(equations []ast.Expr, consts map[ast.Identifier]*ast.ExprNum) (*Solution, error) {
	solver, err := LookupDefault()
	if err != nil {
		return nil, err
	}
	if err := solver.Init(&Init{}); err != nil {
		return nil, err
	}
	return solver.Solve(context.Background(), equations, consts)
}
