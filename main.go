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

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/purpleidea/eqsolve/cli"
	cliUtil "github.com/purpleidea/eqsolve/cli/util"
)

// set at compile time
var (
	program string
	version string
)

const tagline = "a tiny monotonic solver for simple algebraic equations"

const copying = `Eqsolve
Copyright (C) James Shubin and the project contributors
Written by James Shubin <james@shubin.ca> and the project contributors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
`

func main() {
	if program == "" {
		program = "eqsolve" // set a sane default
	}
	if version == "" {
		version = "unknown" // set a sane default
	}

	data := &cliUtil.Data{
		Program: cliUtil.SafeProgram(program),
		Version: version,
		Copying: copying,
		Tagline: tagline,
		Flags: cliUtil.Flags{
			Logf: func(format string, v ...interface{}) {
				log.Printf(format, v...)
			},
		},
		Args: os.Args,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		// must have buffer for max number of signals
		signals := make(chan os.Signal, 2)
		signal.Notify(signals, os.Interrupt) // catch ^C
		signal.Notify(signals, syscall.SIGTERM)
		select {
		case <-signals:
			cancel() // let the CLI wind down
		case <-ctx.Done():
		}
	}()

	if err := cli.CLI(ctx, data); err != nil {
		fmt.Println(err)
		os.Exit(1)
		return
	}
}
