// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package aynec is a command mux for the Ayn handheld EC monitor and
// control commands. Machines plot their commands on a ByName map and run
// it against os.Args; daemons run in the foreground under the process
// supervisor.
package aynec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/openhandhelds/aynec/cmd"
	"github.com/platinasystems/log"
)

var Exit = os.Exit

type ByName map[string]cmd.Cmd

func Prog() string {
	prog, err := os.Readlink("/proc/self/exe")
	if err != nil {
		return "aynec"
	}
	return filepath.Base(prog)
}

func (byName ByName) Keys() []string {
	keys := make([]string, 0, len(byName))
	for k := range byName {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Plot commands on the map; a command must at least have String, Usage,
// Apropos, and Main methods.
func (byName ByName) Plot(cmds ...cmd.Cmd) {
	for _, v := range cmds {
		name := v.String()
		if _, found := byName[name]; found {
			panic(fmt.Errorf("%s: duplicate", name))
		}
		byName[name] = v
	}
}

// Main runs the args[0] command in the current context. When run w/o args
// this uses os.Args and exits instead of returns on error.
//
// If the args has "-help", "-usage", or "-apropos", this swaps the helper
// flag with the command to print text instead of running it.
func (byName ByName) Main(args ...string) (err error) {
	var fromOsArgs bool
	if len(args) == 0 {
		args = os.Args[1:]
		fromOsArgs = true
		defer func() {
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", Prog(), err)
				Exit(1)
			}
		}()
	}
	cmd.Swap(args)
	if len(args) == 0 {
		byName.usage(os.Stdout)
		return nil
	}
	name := args[0]
	args = args[1:]
	switch name {
	case "help":
		return byName.help(args...)
	case "usage":
		return byName.usageOf(args...)
	case "apropos":
		return byName.apropos(args...)
	}
	v, found := byName[name]
	if !found {
		return fmt.Errorf("%s: command not found", name)
	}
	cmd.Init(name)
	isDaemon := cmd.WhatKind(v).IsDaemon()
	err = v.Main(args...)
	if isDaemon && err != nil {
		log.Print("daemon", "err", err)
	}
	if !fromOsArgs && err != nil {
		err = fmt.Errorf("%s: %w", name, err)
	}
	return err
}
