// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ayn

import "unsafe"

type reg8 byte
type reg16 [2]byte

// Memory map. Field offsets are the EC register addresses.
type regs struct {
	_          [0x04]byte
	BatTemp    reg8 // 0x04 Battery
	MbTemp     reg8 // 0x05 Motherboard
	_          [0x01]byte
	ChargeTemp reg8 // 0x07 Charger IC
	VcoreTemp  reg8 // 0x08 vCore
	ProcTemp   reg8 // 0x09 CPU Core
	_          [0x06]byte
	FanMode    reg8          // 0x10 operating mode
	FanSet     reg8          // 0x11 duty cycle set point
	Curve      [5]curvePoint // 0x12-0x1b
	_          [0x04]byte
	FanSpeed   reg16 // 0x20 rpm, high byte first
	_          [0x8e]byte
	Red        reg8 // 0xb0 range 0x00-0xff
	Green      reg8 // 0xb1
	Blue       reg8 // 0xb2
	LedMode    reg8 // 0xb3
}

type curvePoint struct {
	Duty reg8
	Temp reg8
}

var (
	dummy       byte
	regsPointer = unsafe.Pointer(&dummy)
	regsAddr    = uintptr(unsafe.Pointer(&dummy))
)

func getRegs() *regs { return (*regs)(regsPointer) }

func (r *reg8) offset() uint8 {
	return uint8(uintptr(unsafe.Pointer(r)) - regsAddr)
}

func (r *reg16) offset() uint8 {
	return uint8(uintptr(unsafe.Pointer(r)) - regsAddr)
}

func (r *reg8) get(h *EcDev) (uint8, error) {
	v, err := h.bus.Read(r.offset(), 1)
	return uint8(v), err
}

func (r *reg8) set(h *EcDev, v uint8) error {
	return h.bus.Write(r.offset(), v)
}

func (r *reg16) get(h *EcDev) (uint16, error) {
	v, err := h.bus.Read(r.offset(), 2)
	return uint16(v), err
}
