// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package main

import (
	"fmt"

	"github.com/openhandhelds/aynec/ayn"
	"github.com/openhandhelds/aynec/cmd/aynecd"
	"github.com/openhandhelds/aynec/ec"
	"github.com/platinasystems/log"
)

func aynecdInit() {
	bus, err := ec.Open("")
	if err != nil {
		log.Print("daemon", "err", err)
		return
	}
	m, err := ayn.Identify()
	if err != nil {
		log.Print("daemon", "err", err)
		return
	}
	aynecd.Vdev = ayn.New(bus, m)

	aynecd.VpageByKey = map[string]int{
		"temp.battery.units.mC":     0,
		"temp.motherboard.units.mC": 1,
		"temp.charger.units.mC":     2,
		"temp.vcore.units.mC":       3,
		"temp.cpu.units.mC":         4,
		"fan.speed.units.rpm":       0,
		"pwm.duty":                  0,
		"pwm.mode":                  0,
	}

	aynecd.WrRegDv["pwm"] = "pwm"
	aynecd.WrRegDv["fan"] = "fan"
	aynecd.WrRegFn["pwm.duty"] = "duty"
	aynecd.WrRegFn["pwm.mode"] = "mode"
	aynecd.WrRegRng["pwm.duty"] = []string{"0", "255"}
	aynecd.WrRegRng["pwm.mode"] = []string{"auto", "manual", "user", "0", "1", "2"}
	for n := 1; n <= ayn.CurvePoints; n++ {
		duty := fmt.Sprintf("fan.curve.%d.duty", n)
		temp := fmt.Sprintf("fan.curve.%d.temp", n)
		aynecd.VpageByKey[duty] = n - 1
		aynecd.VpageByKey[temp] = n - 1
		aynecd.WrRegFn[duty] = "curve.duty"
		aynecd.WrRegFn[temp] = "curve.temp"
		aynecd.WrRegRng[duty] = []string{"0", "255"}
		aynecd.WrRegRng[temp] = []string{"0", "100"}
	}
}
