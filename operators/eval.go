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

package operators

import (
	"fmt"
	"math/big"

	"github.com/purpleidea/eqsolve/ast"
	"github.com/purpleidea/eqsolve/util/errwrap"
)

// Eval computes the numeric value of an expression under a set of variable
// bindings. This is not part of the solving pipeline, it's the semantic
// reference that lets tests (and curious callers) check that simplification
// preserved meaning. It errors on unbound variables, on unknown operators,
// on equations (they have no numeric value), and on whatever the operator
// evaluators error on.
func Eval(expr ast.Expr, consts map[ast.Identifier]*ast.ExprNum) (*ast.ExprNum, error) {
	switch node := expr.(type) {
	case *ast.ExprNum:
		return &ast.ExprNum{
			V:     new(big.Rat).Set(node.V),
			Float: node.Float,
		}, nil

	case *ast.ExprVar:
		num, exists := consts[node.Ident]
		if !exists {
			return nil, fmt.Errorf("variable `%s` is not bound", node)
		}
		return &ast.ExprNum{
			V:     new(big.Rat).Set(num.V),
			Float: num.Float,
		}, nil

	case *ast.ExprCall:
		if node.Name == ast.EqSymbol {
			return nil, fmt.Errorf("an equation has no numeric value")
		}
		scaffold, err := LookupOperator(node.Name)
		if err != nil {
			return nil, err
		}
		input := []*ast.ExprNum{}
		for i, x := range node.Args {
			num, err := Eval(x, consts)
			if err != nil {
				return nil, errwrap.Wrapf(err, "operand %d of `%s`", i, node.Name)
			}
			input = append(input, num)
		}
		return scaffold.F(input)
	}
	return nil, fmt.Errorf("unexpected node: %v", expr)
}
