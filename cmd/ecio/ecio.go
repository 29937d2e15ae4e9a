// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ecio provides a cli command to peek and poke EC registers.
package ecio

import (
	"fmt"

	"github.com/openhandhelds/aynec/ec"
	"github.com/openhandhelds/aynec/lang"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
)

const Name = "ecio"

// Vdev overrides the device a Main invocation opens.
var Vdev *ec.Dev

type Command struct{}

func (Command) String() string { return Name }

func (Command) Usage() string {
	return Name + " [-x] [-f FILE] REG[-REG] [VALUE]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "read/write EC registers",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `NAME
	ecio - Read/write EC registers

SYNOPSIS
	ecio [-x] [-f FILE] REG[-REG] [VALUE]

DESCRIPTION
	Read or write registers of the embedded controller through the
	kernel EC io file, FILE if given.

	-x	print an ascii column with range dumps

	Examples:
	    ecio 11 40      writes 0x40 to register 0x11
	    ecio 04         reads register 0x04
	    ecio 00-ff      dumps every register
	    ecio -x b0-b3   dumps the LED registers with ascii`,
	}
}

func (Command) Main(args ...string) error {
	flag, args := flags.New(args, "-x")
	parm, args := parms.New(args, "-f")

	if n := len(args); n == 0 {
		return fmt.Errorf("REG: missing")
	} else if n > 2 {
		return fmt.Errorf("%v: unexpected", args[2:])
	}

	var cs [2]uint8
	nc := 2
	_, err := fmt.Sscanf(args[0], "%x-%x", &cs[0], &cs[1])
	if err != nil {
		nc = 1
		_, err = fmt.Sscanf(args[0], "%x", &cs[0])
		if err != nil {
			return fmt.Errorf("%s: invalid REG[-REG]: %v",
				args[0], err)
		}
		cs[1] = cs[0]
	}
	if cs[1] < cs[0] {
		return fmt.Errorf("%s: invalid range", args[0])
	}

	var d uint8
	dValid := len(args) > 1
	if dValid {
		_, err = fmt.Sscanf(args[1], "%x", &d)
		if err != nil {
			return fmt.Errorf("%s: invalid: %v", args[1], err)
		}
	}

	h := Vdev
	if h == nil {
		h, err = ec.Open(parm.ByName["-f"])
		if err != nil {
			return err
		}
		defer h.Close()
	}

	if dValid {
		for c := cs[0]; ; c++ {
			if err = h.Write(c, d); err != nil {
				return err
			}
			if c == cs[1] {
				break
			}
		}
		return nil
	}

	if nc < 2 {
		v, err := h.Read(cs[0], 1)
		if err != nil {
			return err
		}
		fmt.Printf("%02x = %02x\n", cs[0], v)
		return nil
	}

	s := ""
	ascii := ""
	count := 0
	for c := cs[0]; ; c++ {
		v, err := h.Read(c, 1)
		if err != nil {
			return err
		}
		if count == 0 {
			s += fmt.Sprintf("%02x: ", c)
		}
		s += fmt.Sprintf("%02x ", uint8(v))
		if v < 0x7e && v > 0x1f {
			ascii += fmt.Sprintf("%c", uint8(v))
		} else {
			ascii += "."
		}
		if c == cs[1] {
			break
		}
		count++
		if count == 16 {
			count = 0
			if flag.ByName["-x"] {
				s += "   "
				s += ascii
			}
			s += "\n"
			ascii = ""
		}
	}
	if flag.ByName["-x"] && len(ascii) > 0 {
		s += "   "
		s += ascii
	}
	fmt.Println(s)
	return nil
}
