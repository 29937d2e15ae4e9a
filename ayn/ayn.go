// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ayn translates between the EC register encodings of Ayn x86
// handhelds and the standardized sensor and LED value ranges.
//
// Fan control is a duty cycle in [0-255] at the boundary; the EC uses
// [0-128], so set points shift right one bit on write and left one bit
// on read. The EC also holds a five point fan curve pairing a
// temperature threshold [0-100] °C with a duty set point, scaled the
// same way. Temperatures read in whole degrees and are reported in
// millidegrees.
package ayn

import (
	"errors"
	"fmt"
	"sync"

	"github.com/openhandhelds/aynec/ec"
)

var (
	ErrInvalid     = errors.New("invalid argument")
	ErrUnsupported = errors.New("not supported")
)

// Fan operating modes at the boundary.
const (
	FanAuto      uint8 = 0 // EC runs its builtin thermal curve
	FanManual    uint8 = 1 // direct duty cycle control
	FanUserCurve uint8 = 2 // EC runs the user five point curve
)

// Hardware mode codes; the EC uses 0 for manual and 1 for automatic.
const (
	ecFanManual uint8 = 0x00
	ecFanAuto   uint8 = 0x01
	ecFanUser   uint8 = 0x02
)

var fanModeOf = map[uint8]uint8{
	ecFanManual: FanManual,
	ecFanAuto:   FanAuto,
	ecFanUser:   FanUserCurve,
}

var ecFanModeOf = map[uint8]uint8{
	FanManual:    ecFanManual,
	FanAuto:      ecFanAuto,
	FanUserCurve: ecFanUser,
}

// LED modes at the boundary.
const (
	LedBreath uint8 = 0
	LedManual uint8 = 1
)

// Hardware LED mode codes. The EC acknowledges a requested 0xaa write
// mode by reporting 0x55 on later reads; both mean manual.
const (
	ecLedBreath       uint8 = 0x00
	ecLedWrite        uint8 = 0xaa
	ecLedWriteEnabled uint8 = 0x55
)

const maxBrightness = 255

// CurvePoints is the fixed length of the EC fan curve table.
const CurvePoints = 5

// Subled is the settable metadata of one RGB channel; intensities scale
// the brightness written to the channel register.
type Subled struct {
	Name      string
	Intensity uint8
}

type EcDev struct {
	bus   *ec.Dev
	scale scaling

	mutex      sync.Mutex
	brightness uint8
	subled     [3]Subled
}

func New(bus *ec.Dev, m Model) *EcDev {
	return &EcDev{
		bus:   bus,
		scale: scalingFor(m),
		subled: [3]Subled{
			{Name: "red"},
			{Name: "green"},
			{Name: "blue"},
		},
	}
}

type thermalSensor struct {
	name string
	reg  func(*regs) *reg8
}

var thermalSensors = []thermalSensor{
	{"Battery", func(r *regs) *reg8 { return &r.BatTemp }},
	{"Motherboard", func(r *regs) *reg8 { return &r.MbTemp }},
	{"Charger IC", func(r *regs) *reg8 { return &r.ChargeTemp }},
	{"vCore", func(r *regs) *reg8 { return &r.VcoreTemp }},
	{"CPU Core", func(r *regs) *reg8 { return &r.ProcTemp }},
}

// Temps returns the fixed thermal sensor count.
func Temps() int { return len(thermalSensors) }

func TempLabel(i int) (string, error) {
	if i < 0 || i >= len(thermalSensors) {
		return "", fmt.Errorf("temp sensor %d: %w", i, ErrInvalid)
	}
	return thermalSensors[i].name, nil
}

// Temp returns sensor i in millidegrees Celsius.
func (h *EcDev) Temp(i int) (int64, error) {
	if i < 0 || i >= len(thermalSensors) {
		return 0, fmt.Errorf("temp sensor %d: %w", i, ErrInvalid)
	}
	v, err := thermalSensors[i].reg(getRegs()).get(h)
	if err != nil {
		return 0, err
	}
	return int64(v) * 1000, nil
}

// FanRpm returns the raw two byte fan speed reading.
func (h *EcDev) FanRpm() (uint16, error) {
	return getRegs().FanSpeed.get(h)
}

// FanDuty returns the duty cycle set point rescaled to [0-255].
func (h *EcDev) FanDuty() (int, error) {
	v, err := getRegs().FanSet.get(h)
	if err != nil {
		return 0, err
	}
	return int(v) << h.scale.dutyShift, nil
}

// SetFanDuty stores a [0-255] duty cycle set point; the low bit is
// discarded by the rescale to the EC's native range.
func (h *EcDev) SetFanDuty(v int) error {
	if v < 0 || v > 255 {
		return fmt.Errorf("duty %d: %w", v, ErrInvalid)
	}
	return getRegs().FanSet.set(h, uint8(v>>h.scale.dutyShift))
}

// FanMode returns the boundary operating mode. Hardware codes outside
// the mode table pass through unmapped.
func (h *EcDev) FanMode() (uint8, error) {
	v, err := getRegs().FanMode.get(h)
	if err != nil {
		return 0, err
	}
	if m, found := fanModeOf[v]; found {
		return m, nil
	}
	return v, nil
}

func (h *EcDev) SetFanMode(m uint8) error {
	v, found := ecFanModeOf[m]
	if !found {
		return fmt.Errorf("fan mode %d: %w", m, ErrInvalid)
	}
	return getRegs().FanMode.set(h, v)
}

// CurveDuty returns curve point i's duty set point rescaled to [0-255].
func (h *EcDev) CurveDuty(i int) (int, error) {
	if i < 0 || i >= CurvePoints {
		return 0, fmt.Errorf("curve point %d: %w", i, ErrInvalid)
	}
	v, err := getRegs().Curve[i].Duty.get(h)
	if err != nil {
		return 0, err
	}
	return int(v) << h.scale.dutyShift, nil
}

func (h *EcDev) SetCurveDuty(i, v int) error {
	if i < 0 || i >= CurvePoints {
		return fmt.Errorf("curve point %d: %w", i, ErrInvalid)
	}
	if v < 0 || v > 255 {
		return fmt.Errorf("curve duty %d: %w", v, ErrInvalid)
	}
	return getRegs().Curve[i].Duty.set(h, uint8(v>>h.scale.dutyShift))
}

// CurveTemp returns curve point i's temperature threshold in °C; it is
// the upper cutoff of that step, interpolated by the EC itself once
// user curve mode is active.
func (h *EcDev) CurveTemp(i int) (int, error) {
	if i < 0 || i >= CurvePoints {
		return 0, fmt.Errorf("curve point %d: %w", i, ErrInvalid)
	}
	v, err := getRegs().Curve[i].Temp.get(h)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func (h *EcDev) SetCurveTemp(i, v int) error {
	if i < 0 || i >= CurvePoints {
		return fmt.Errorf("curve point %d: %w", i, ErrInvalid)
	}
	if v < 0 || v > 100 {
		return fmt.Errorf("curve temp %d: %w", v, ErrInvalid)
	}
	return getRegs().Curve[i].Temp.set(h, uint8(v))
}

// LedMode maps both the requested and the acknowledged write mode codes
// to manual; anything else reads as breathing.
func (h *EcDev) LedMode() (uint8, error) {
	v, err := getRegs().LedMode.get(h)
	if err != nil {
		return 0, err
	}
	switch v {
	case ecLedWrite, ecLedWriteEnabled:
		return LedManual, nil
	}
	return LedBreath, nil
}

func (h *EcDev) SetLedMode(m uint8) error {
	switch m {
	case LedBreath:
		return getRegs().LedMode.set(h, ecLedBreath)
	case LedManual:
		return getRegs().LedMode.set(h, ecLedWrite)
	}
	return fmt.Errorf("led mode %d: %w", m, ErrInvalid)
}

// Brightness returns the last applied brightness. It is not EC backed;
// only its per channel effect is.
func (h *EcDev) Brightness() uint8 {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.brightness
}

// SetBrightness rewrites the three channel registers with
// level×intensity/255 and re-asserts write mode. While the EC is in
// breathing mode the request is accepted but nothing is written.
func (h *EcDev) SetBrightness(level uint8) error {
	m, err := h.LedMode()
	if err != nil {
		return err
	}
	if m != LedManual {
		return nil
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.brightness = level
	return h.writeColor(level)
}

// Intensity returns channel i's scaling metadata.
func (h *EcDev) Intensity(i int) (Subled, error) {
	if i < 0 || i >= len(h.subled) {
		return Subled{}, fmt.Errorf("led channel %d: %w", i, ErrInvalid)
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.subled[i], nil
}

// SetIntensity updates channel i's scaling metadata; the channel
// register itself only changes on the next brightness write.
func (h *EcDev) SetIntensity(i int, v uint8) error {
	if i < 0 || i >= len(h.subled) {
		return fmt.Errorf("led channel %d: %w", i, ErrInvalid)
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.subled[i].Intensity = v
	return nil
}

// LedRefresh forces manual write mode and rewrites the channels from
// the cached brightness, as done at attach and on resume from suspend.
func (h *EcDev) LedRefresh() error {
	if err := h.SetLedMode(LedManual); err != nil {
		return err
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.writeColor(h.brightness)
}

func (h *EcDev) writeColor(level uint8) error {
	r := getRegs()
	for i, ch := range []*reg8{&r.Red, &r.Green, &r.Blue} {
		v := uint8(uint32(level) * uint32(h.subled[i].Intensity) /
			maxBrightness)
		if err := ch.set(h, v); err != nil {
			return err
		}
	}
	return r.LedMode.set(h, ecLedWrite)
}
