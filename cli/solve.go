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

package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/purpleidea/eqsolve/ast"
	cliUtil "github.com/purpleidea/eqsolve/cli/util"
	"github.com/purpleidea/eqsolve/parser"
	"github.com/purpleidea/eqsolve/recwatch"
	"github.com/purpleidea/eqsolve/solver"
	"github.com/purpleidea/eqsolve/util"
	"github.com/purpleidea/eqsolve/util/errwrap"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"
)

// watchRate is the fastest we'll re-solve in watch mode. Editors save with
// a burst of filesystem events, this spaces the runs out.
const watchRate = 250 * time.Millisecond

// SolveArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `solve` subcommand.
type SolveArgs struct {
	Input string `arg:"positional,required" help:"path to the equations file"`

	Consts string `arg:"--consts" help:"path to a yaml file of seed constants"`
	Solver string `arg:"--solver" help:"name of the solver to use"`
	Watch  bool   `arg:"--watch" help:"re-solve every time the input file changes"`
}

// Run executes the solve subcommand. It errors if there's ever an error, and
// returns true if this subcommand activated.
func (obj *SolveArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	debug := data.Flags.Debug
	Logf := func(format string, v ...interface{}) {
		data.Flags.Logf("solve: "+format, v...)
	}

	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!
	defer Logf("goodbye!")

	if name := obj.Solver; name != "" && !util.StrInList(name, solver.Names()) {
		return false, fmt.Errorf("unknown solver `%s`, expected one of: %s", name, strings.Join(solver.Names(), ", "))
	}
	s, err := solver.LookupDefault()
	if obj.Solver != "" {
		s, err = solver.Lookup(obj.Solver)
	}
	if err != nil {
		return false, errwrap.Wrapf(err, "can't find a solver")
	}
	if err := s.Init(&solver.Init{
		Debug: debug,
		Logf: func(format string, v ...interface{}) {
			data.Flags.Logf("solver: "+format, v...)
		},
	}); err != nil {
		return false, errwrap.Wrapf(err, "can't init the solver")
	}

	fs := afero.NewOsFs()

	var seed map[ast.Identifier]*ast.ExprNum
	if obj.Consts != "" {
		seed, err = cliUtil.LoadConsts(fs, obj.Consts)
		if err != nil {
			return false, err
		}
		Logf("loaded %d seed constant(s)", len(seed))
	}

	runOnce := func(ctx context.Context) error {
		f, err := fs.Open(obj.Input)
		if err != nil {
			return errwrap.Wrapf(err, "can't open `%s`", obj.Input)
		}
		defer f.Close()
		equations, err := parser.LexParse(f)
		if err != nil {
			return errwrap.Wrapf(err, "can't parse `%s`", obj.Input)
		}
		for i, eq := range equations {
			if !ast.IsEquation(eq) {
				Logf("expression %d is not an equation: %s", i+1, eq)
			}
		}

		solution, err := s.Solve(ctx, equations, seed)
		if err != nil {
			return errwrap.Wrapf(err, "can't solve `%s`", obj.Input)
		}
		printSolution(solution)
		if !solution.Solved() {
			Logf("stuck with %d unsolved equation(s)", len(solution.Equations))
		}
		return nil
	}

	if !obj.Watch {
		if err := runOnce(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	w, err := recwatch.NewWatcher(obj.Input,
		recwatch.Debug(debug),
		recwatch.Logf(func(format string, v ...interface{}) {
			data.Flags.Logf("watch: "+format, v...)
		}),
	)
	if err != nil {
		return false, errwrap.Wrapf(err, "can't watch `%s`", obj.Input)
	}
	defer w.Close()

	limiter := rate.NewLimiter(rate.Every(watchRate), 1)

	// solve once right away, then once per change, forever
	if err := runOnce(ctx); err != nil {
		Logf("solve failed with: %v", err) // not fatal in watch mode
	}
	for {
		select {
		case event, ok := <-w.Events():
			if !ok {
				return false, fmt.Errorf("unexpected close of the watch channel")
			}
			if err := event.Error; err != nil {
				return false, errwrap.Wrapf(err, "watcher error")
			}
			if debug {
				Logf("event: %v", event.Body.Op)
			}

			if err := limiter.Wait(ctx); err != nil {
				return true, nil // the context closed
			}
			// whatever piled up while we waited collapses into
			// this one run
		DrainLoop:
			for {
				select {
				case extra, ok := <-w.Events():
					if !ok {
						break DrainLoop
					}
					if err := extra.Error; err != nil {
						return false, errwrap.Wrapf(err, "watcher error")
					}
				default:
					break DrainLoop
				}
			}

			if err := runOnce(ctx); err != nil {
				Logf("solve failed with: %v", err) // keep watching
			}

		case <-ctx.Done():
			return true, nil
		}
	}
}

// printSolution writes the found constants, one `ident = value` line each in
// sorted order, and then any unsolved equations.
func printSolution(solution *solver.Solution) {
	idents := []string{}
	byName := map[string]*ast.ExprNum{}
	for ident, num := range solution.Consts {
		idents = append(idents, ident.String())
		byName[ident.String()] = num
	}
	sort.Strings(idents)
	for _, name := range idents {
		fmt.Printf("%s = %s\n", name, byName[name])
	}
	for _, eq := range solution.Equations {
		fmt.Printf("%s\n", eq)
	}
}
