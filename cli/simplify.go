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
	"strings"

	"github.com/purpleidea/eqsolve/ast"
	cliUtil "github.com/purpleidea/eqsolve/cli/util"
	"github.com/purpleidea/eqsolve/parser"
	"github.com/purpleidea/eqsolve/simplify"
	"github.com/purpleidea/eqsolve/util/errwrap"

	"github.com/spf13/afero"
)

// SimplifyArgs is the CLI parsing structure and type of the parsed result.
// This particular one contains all the flags for the `simplify` subcommand.
type SimplifyArgs struct {
	Input string `arg:"positional" help:"path to an expressions file"`

	Expr string `arg:"--expr" help:"an expression given directly"`
}

// Run executes the simplify subcommand. It errors if there's ever an error,
// and returns true if this subcommand activated.
func (obj *SimplifyArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	debug := data.Flags.Debug
	Logf := func(format string, v ...interface{}) {
		data.Flags.Logf("simplify: "+format, v...)
	}

	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!
	defer Logf("goodbye!")

	if obj.Input == "" && obj.Expr == "" {
		return false, cliUtil.CliParseError(cliUtil.MissingInput) // consistent errors
	}

	exprs := []ast.Expr{}
	if obj.Input != "" {
		fs := afero.NewOsFs()
		f, err := fs.Open(obj.Input)
		if err != nil {
			return false, errwrap.Wrapf(err, "can't open `%s`", obj.Input)
		}
		defer f.Close()
		parsed, err := parser.LexParse(f)
		if err != nil {
			return false, errwrap.Wrapf(err, "can't parse `%s`", obj.Input)
		}
		exprs = append(exprs, parsed...)
	}
	if obj.Expr != "" {
		parsed, err := parser.LexParse(strings.NewReader(obj.Expr))
		if err != nil {
			return false, errwrap.Wrapf(err, "can't parse the expression")
		}
		exprs = append(exprs, parsed...)
	}

	simplifier := &simplify.Simplifier{
		Debug: debug,
		Logf: func(format string, v ...interface{}) {
			data.Flags.Logf("simplify: "+format, v...)
		},
	}

	var reterr error
	for i, x := range exprs {
		select {
		case <-ctx.Done():
			return true, reterr
		default:
		}

		s, err := simplifier.Simplify(x)
		if err != nil {
			// one bad expression shouldn't hide the rest
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "can't simplify expression %d", i+1)) // list of errors
			continue
		}
		if s == nil {
			fmt.Println("()") // it vanished entirely
			continue
		}
		fmt.Println(s.String())
	}
	if reterr != nil {
		return false, reterr
	}
	return true, nil
}
