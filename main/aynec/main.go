// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the EC monitor and control machine for Ayn x86 handhelds.
package main

import (
	"github.com/openhandhelds/aynec"
	"github.com/openhandhelds/aynec/cmd/aynecd"
	"github.com/openhandhelds/aynec/cmd/aynledd"
	"github.com/openhandhelds/aynec/cmd/ecio"
	"github.com/openhandhelds/aynec/cmd/fanctl"
)

func main() {
	g := make(aynec.ByName)
	g.Plot(
		&aynecd.Command{Init: aynecdInit},
		&aynledd.Command{Init: aynleddInit},
		ecio.Command{},
		fanctl.Command{},
	)
	g.Main()
}
