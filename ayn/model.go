// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ayn

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Model int

const (
	Unknown Model = iota
	LokiMax
	LokiMiniPro
	LokiZero
)

func (m Model) String() string {
	switch m {
	case LokiMax:
		return "Loki Max"
	case LokiMiniPro:
		return "Loki MiniPro"
	case LokiZero:
		return "Loki Zero"
	}
	return "unknown"
}

var dmiDir = "/sys/class/dmi/id"

var dmiTable = []struct {
	vendor, board string
	model         Model
}{
	{"ayn", "Loki Max", LokiMax},
	{"ayn", "Loki MiniPro", LokiMiniPro},
	{"ayn", "Loki Zero", LokiZero},
}

// Identify matches the board's DMI vendor and name against the table of
// supported models.
func Identify() (Model, error) {
	vendor, err := dmiField("board_vendor")
	if err != nil {
		return Unknown, err
	}
	board, err := dmiField("board_name")
	if err != nil {
		return Unknown, err
	}
	for _, e := range dmiTable {
		if e.vendor == vendor && e.board == board {
			return e.model, nil
		}
	}
	return Unknown, fmt.Errorf("%s %s: %w", vendor, board, ErrUnsupported)
}

func dmiField(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dmiDir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Per model value scaling. Every supported model uses the same EC duty
// range today; new models add a table row, not new branches.
type scaling struct {
	dutyShift uint
}

var scalingByModel = map[Model]scaling{
	LokiMax:     {dutyShift: 1},
	LokiMiniPro: {dutyShift: 1},
	LokiZero:    {dutyShift: 1},
}

func scalingFor(m Model) scaling {
	if s, found := scalingByModel[m]; found {
		return s
	}
	return scaling{dutyShift: 1}
}
