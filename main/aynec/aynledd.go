// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package main

import (
	"github.com/openhandhelds/aynec/ayn"
	"github.com/openhandhelds/aynec/cmd/aynledd"
	"github.com/openhandhelds/aynec/ec"
	"github.com/platinasystems/log"
)

func aynleddInit() {
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
	aynledd.Vdev = ayn.New(bus, m)

	aynledd.VpageByKey = map[string]int{
		"led.mode":            0,
		"led.brightness":      0,
		"led.red.intensity":   0,
		"led.green.intensity": 1,
		"led.blue.intensity":  2,
	}

	aynledd.WrRegDv["led"] = "led"
	aynledd.WrRegFn["led.mode"] = "mode"
	aynledd.WrRegFn["led.brightness"] = "brightness"
	aynledd.WrRegFn["led.refresh"] = "refresh"
	aynledd.WrRegRng["led.mode"] = []string{"breath", "manual", "0", "1"}
	aynledd.WrRegRng["led.brightness"] = []string{"0", "255"}
	aynledd.WrRegRng["led.refresh"] = []string{"true"}
	for name, rng := range map[string][]string{
		"led.red.intensity":   {"0", "255"},
		"led.green.intensity": {"0", "255"},
		"led.blue.intensity":  {"0", "255"},
	} {
		aynledd.WrRegFn[name] = "intensity"
		aynledd.WrRegRng[name] = rng
	}
}
