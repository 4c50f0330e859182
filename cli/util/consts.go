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

package util

import (
	"fmt"

	"github.com/purpleidea/eqsolve/ast"
	"github.com/purpleidea/eqsolve/parser"
	"github.com/purpleidea/eqsolve/util/errwrap"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// LoadConsts reads seed constants from a yaml file. See ParseConsts for the
// format.
func LoadConsts(fs afero.Fs, filename string) (map[ast.Identifier]*ast.ExprNum, error) {
	afs := &afero.Afero{Fs: fs} // wrap so that we're implementing ioutil
	b, err := afs.ReadFile(filename)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read consts file `%s`", filename)
	}
	consts, err := ParseConsts(b)
	if err != nil {
		return nil, errwrap.Wrapf(err, "consts file `%s`", filename)
	}
	return consts, nil
}

// ParseConsts unmarshals a yaml mapping of identifier to number into a seed
// constants map for the solver. Keys use either identifier syntax (`x` or
// `:x`, which are distinct variables) and values use any numeric spelling
// the equation files accept, so ratios and floats work.
func ParseConsts(data []byte) (map[ast.Identifier]*ast.ExprNum, error) {
	raw := map[string]string{}
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, errwrap.Wrapf(err, "invalid yaml")
	}

	consts := make(map[ast.Identifier]*ast.ExprNum)
	for key, value := range raw {
		ident, err := parser.ParseIdentifier(key)
		if err != nil {
			return nil, errwrap.Wrapf(err, "invalid key `%s`", key)
		}
		num, err := parser.ParseNumber(value)
		if err != nil {
			return nil, errwrap.Wrapf(err, "invalid value for `%s`", key)
		}
		if _, exists := consts[ident]; exists {
			// two spellings of one key, eg `x` and ` x `
			return nil, fmt.Errorf("duplicate key `%s`", ident)
		}
		consts[ident] = num
	}
	return consts, nil
}
