// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package fanctl provides a cli command to show and set the EC fan
// state: mode, duty cycle, and the user curve.
package fanctl

import (
	"fmt"
	"strconv"

	"github.com/openhandhelds/aynec/ayn"
	"github.com/openhandhelds/aynec/ec"
	"github.com/openhandhelds/aynec/lang"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
)

const Name = "fanctl"

// Vdev overrides the device a Main invocation opens.
var Vdev *ayn.EcDev

var modeName = map[uint8]string{
	ayn.FanAuto:      "auto",
	ayn.FanManual:    "manual",
	ayn.FanUserCurve: "user",
}

var modeOfName = map[string]uint8{
	"auto":   ayn.FanAuto,
	"manual": ayn.FanManual,
	"user":   ayn.FanUserCurve,
}

type Command struct{}

func (Command) String() string { return Name }

func (Command) Usage() string {
	return Name + " [-q] [-f FILE] [auto | manual | user | DUTY | curve [POINT DUTY TEMP]]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "show or set EC fan control",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `NAME
	fanctl - Show or set EC fan control

SYNOPSIS
	fanctl [-q] [-f FILE] [auto | manual | user | DUTY | curve [POINT DUTY TEMP]]

DESCRIPTION
	Without arguments, show the fan mode, duty cycle, tachometer
	reading, and user curve. A mode name selects that control mode;
	a decimal DUTY (0-255) sets the manual duty cycle; curve POINT
	DUTY TEMP rewrites one of the five curve points.

	-q	print bare values without labels

	Examples:
	    fanctl              show fan state
	    fanctl auto         EC builtin thermal control
	    fanctl 128          half duty
	    fanctl curve 3 90 60   point 3: duty 90 above 60 C`,
	}
}

func (Command) Main(args ...string) error {
	flag, args := flags.New(args, "-q")
	parm, args := parms.New(args, "-f")

	h := Vdev
	if h == nil {
		bus, err := ec.Open(parm.ByName["-f"])
		if err != nil {
			return err
		}
		defer bus.Close()
		m, err := ayn.Identify()
		if err != nil {
			return err
		}
		h = ayn.New(bus, m)
	}

	if len(args) == 0 {
		return show(h, flag.ByName["-q"])
	}

	if args[0] == "curve" {
		return curve(h, flag.ByName["-q"], args[1:]...)
	}

	if len(args) > 1 {
		return fmt.Errorf("%v: unexpected", args[1:])
	}

	if m, found := modeOfName[args[0]]; found {
		return h.SetFanMode(m)
	}

	d, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%s: invalid mode or duty", args[0])
	}
	return h.SetFanDuty(d)
}

func show(h *ayn.EcDev, quiet bool) error {
	m, err := h.FanMode()
	if err != nil {
		return err
	}
	sm, found := modeName[m]
	if !found {
		sm = strconv.Itoa(int(m))
	}
	d, err := h.FanDuty()
	if err != nil {
		return err
	}
	rpm, err := h.FanRpm()
	if err != nil {
		return err
	}
	if quiet {
		fmt.Println(sm, d, rpm)
	} else {
		fmt.Println("mode:", sm)
		fmt.Println("duty:", d)
		fmt.Println("rpm:", rpm)
	}
	return curve(h, quiet)
}

func curve(h *ayn.EcDev, quiet bool, args ...string) error {
	if len(args) == 0 {
		for i := 0; i < ayn.CurvePoints; i++ {
			d, err := h.CurveDuty(i)
			if err != nil {
				return err
			}
			t, err := h.CurveTemp(i)
			if err != nil {
				return err
			}
			if quiet {
				fmt.Println(i+1, d, t)
			} else {
				fmt.Printf("curve.%d: duty %d temp %d\n",
					i+1, d, t)
			}
		}
		return nil
	}
	if len(args) != 3 {
		return fmt.Errorf("curve: want POINT DUTY TEMP, got %v", args)
	}
	var n [3]int
	for i, s := range args {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: invalid: %v", s, err)
		}
		n[i] = v
	}
	if err := h.SetCurveDuty(n[0]-1, n[1]); err != nil {
		return err
	}
	return h.SetCurveTemp(n[0]-1, n[2])
}
