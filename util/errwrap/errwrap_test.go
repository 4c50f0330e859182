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

// +build !root

package errwrap

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapfErr1(t *testing.T) {
	if err := Wrapf(nil, "whatever: %d", 42); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestWrapfErr2(t *testing.T) {
	base := fmt.Errorf("base")
	err := Wrapf(base, "context %d", 42)
	if err == nil {
		t.Errorf("expected an error")
		return
	}
	if s := err.Error(); s != "context 42: base" {
		t.Errorf("got: %s", s)
	}
	if !errors.Is(err, base) {
		t.Errorf("wrapping hid the base error")
	}
}

func TestAppendErr1(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestAppendErr2(t *testing.T) {
	reterr := fmt.Errorf("reterr")
	if err := Append(reterr, nil); err != reterr {
		t.Errorf("expected reterr")
	}
}

func TestAppendErr3(t *testing.T) {
	err := fmt.Errorf("err")
	if reterr := Append(nil, err); reterr != err {
		t.Errorf("expected err")
	}
}

func TestAppendErr4(t *testing.T) {
	e1 := fmt.Errorf("e1")
	e2 := fmt.Errorf("e2")
	err := Append(e1, e2)
	if err == nil {
		t.Errorf("expected an error")
		return
	}
	s := err.Error()
	if !strings.Contains(s, "e1") || !strings.Contains(s, "e2") {
		t.Errorf("a message is missing, got: %s", s)
	}
}
