// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package aynec

import (
	"fmt"
	"io"
	"os"

	"github.com/openhandhelds/aynec/cmd"
)

type helper interface {
	Help(...string) string
}

func (byName ByName) help(args ...string) error {
	if len(args) == 0 {
		byName.usage(os.Stdout)
		return nil
	}
	v, found := byName[args[0]]
	if !found {
		return fmt.Errorf("%s: command not found", args[0])
	}
	if method, ok := v.(helper); ok {
		fmt.Println(method.Help(args[1:]...))
	} else {
		fmt.Println(v.Usage())
	}
	return nil
}

func (byName ByName) usage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	for _, k := range byName.Keys() {
		if cmd.WhatKind(byName[k]).IsHidden() {
			continue
		}
		fmt.Fprint(w, "\t", byName[k].Usage(), "\n")
	}
}

func (byName ByName) usageOf(args ...string) error {
	if len(args) == 0 {
		byName.usage(os.Stdout)
		return nil
	}
	v, found := byName[args[0]]
	if !found {
		return fmt.Errorf("%s: command not found", args[0])
	}
	fmt.Println(v.Usage())
	return nil
}

func (byName ByName) apropos(args ...string) error {
	if len(args) > 0 {
		v, found := byName[args[0]]
		if !found {
			return fmt.Errorf("%s: command not found", args[0])
		}
		fmt.Println(v.Apropos())
		return nil
	}
	for _, k := range byName.Keys() {
		if cmd.WhatKind(byName[k]).IsHidden() {
			continue
		}
		fmt.Printf("%-12s%s\n", k, byName[k].Apropos())
	}
	return nil
}
