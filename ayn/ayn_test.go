// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ayn

import (
	"errors"
	"testing"

	"github.com/openhandhelds/aynec/ec"
	"github.com/openhandhelds/aynec/ec/ectest"
)

func newTestDev() (*EcDev, *ectest.Fake) {
	f := new(ectest.Fake)
	return New(ec.New(f), LokiMax), f
}

func TestRegOffsets(t *testing.T) {
	r := getRegs()
	for _, x := range []struct {
		name string
		got  uint8
		want uint8
	}{
		{"BatTemp", r.BatTemp.offset(), 0x04},
		{"MbTemp", r.MbTemp.offset(), 0x05},
		{"ChargeTemp", r.ChargeTemp.offset(), 0x07},
		{"VcoreTemp", r.VcoreTemp.offset(), 0x08},
		{"ProcTemp", r.ProcTemp.offset(), 0x09},
		{"FanMode", r.FanMode.offset(), 0x10},
		{"FanSet", r.FanSet.offset(), 0x11},
		{"Curve[0].Duty", r.Curve[0].Duty.offset(), 0x12},
		{"Curve[0].Temp", r.Curve[0].Temp.offset(), 0x13},
		{"Curve[4].Duty", r.Curve[4].Duty.offset(), 0x1a},
		{"Curve[4].Temp", r.Curve[4].Temp.offset(), 0x1b},
		{"FanSpeed", r.FanSpeed.offset(), 0x20},
		{"Red", r.Red.offset(), 0xb0},
		{"Green", r.Green.offset(), 0xb1},
		{"Blue", r.Blue.offset(), 0xb2},
		{"LedMode", r.LedMode.offset(), 0xb3},
	} {
		if x.got != x.want {
			t.Errorf("%s at 0x%02x, want 0x%02x",
				x.name, x.got, x.want)
		}
	}
}

func TestTempScaling(t *testing.T) {
	h, f := newTestDev()
	regs := []uint8{0x04, 0x05, 0x07, 0x08, 0x09}
	for i, reg := range regs {
		for raw := 0; raw < 256; raw++ {
			f.Regs[reg] = byte(raw)
			v, err := h.Temp(i)
			if err != nil {
				t.Fatal(err)
			}
			if v != int64(raw)*1000 {
				t.Fatalf("sensor %d raw %d: got %d", i, raw, v)
			}
		}
	}
	if _, err := h.Temp(len(regs)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
	if _, err := h.Temp(-1); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}

func TestTempLabels(t *testing.T) {
	want := []string{
		"Battery", "Motherboard", "Charger IC", "vCore", "CPU Core",
	}
	if n := Temps(); n != len(want) {
		t.Fatalf("%d sensors, want %d", n, len(want))
	}
	for i, name := range want {
		s, err := TempLabel(i)
		if err != nil {
			t.Fatal(err)
		}
		if s != name {
			t.Errorf("sensor %d label %q, want %q", i, s, name)
		}
	}
	if _, err := TempLabel(5); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}

func TestFanRpm(t *testing.T) {
	h, f := newTestDev()
	f.Regs[0x20] = 0x04
	f.Regs[0x21] = 0xd2
	v, err := h.FanRpm()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x04d2 {
		t.Fatalf("got %#x, want 0x04d2", v)
	}
}

func TestDutyRoundTrip(t *testing.T) {
	h, f := newTestDev()
	for v := 0; v < 256; v++ {
		if err := h.SetFanDuty(v); err != nil {
			t.Fatal(err)
		}
		if f.Regs[0x11] != byte(v>>1) {
			t.Fatalf("duty %d: EC reg %#x", v, f.Regs[0x11])
		}
		got, err := h.FanDuty()
		if err != nil {
			t.Fatal(err)
		}
		if got != v&^1 {
			t.Fatalf("duty %d reads back %d, want %d",
				v, got, v&^1)
		}
	}
	for _, v := range []int{-1, 256} {
		if err := h.SetFanDuty(v); !errors.Is(err, ErrInvalid) {
			t.Fatalf("duty %d: got %v, want ErrInvalid", v, err)
		}
	}
}

func TestCurveRoundTrip(t *testing.T) {
	h, f := newTestDev()
	for i := 0; i < CurvePoints; i++ {
		for v := 0; v < 256; v++ {
			if err := h.SetCurveDuty(i, v); err != nil {
				t.Fatal(err)
			}
			got, err := h.CurveDuty(i)
			if err != nil {
				t.Fatal(err)
			}
			if got != v&^1 {
				t.Fatalf("point %d duty %d reads back %d",
					i, v, got)
			}
		}
		for v := 0; v <= 100; v++ {
			if err := h.SetCurveTemp(i, v); err != nil {
				t.Fatal(err)
			}
			got, err := h.CurveTemp(i)
			if err != nil {
				t.Fatal(err)
			}
			if got != v {
				t.Fatalf("point %d temp %d reads back %d",
					i, v, got)
			}
		}
	}
	// duty and temp registers interleave; writing point 2 must land on
	// 0x16/0x17
	f.Reset()
	if err := h.SetCurveDuty(2, 100); err != nil {
		t.Fatal(err)
	}
	if err := h.SetCurveTemp(2, 60); err != nil {
		t.Fatal(err)
	}
	if f.Regs[0x16] != 50 || f.Regs[0x17] != 60 {
		t.Fatalf("point 2 regs %d/%d, want 50/60",
			f.Regs[0x16], f.Regs[0x17])
	}
	for _, x := range []struct{ i, v int }{
		{5, 0}, {-1, 0}, {0, 256}, {0, -1},
	} {
		if err := h.SetCurveDuty(x.i, x.v); !errors.Is(err, ErrInvalid) {
			t.Fatalf("duty (%d,%d): got %v, want ErrInvalid",
				x.i, x.v, err)
		}
	}
	for _, x := range []struct{ i, v int }{
		{5, 0}, {-1, 0}, {0, 101}, {0, -1},
	} {
		if err := h.SetCurveTemp(x.i, x.v); !errors.Is(err, ErrInvalid) {
			t.Fatalf("temp (%d,%d): got %v, want ErrInvalid",
				x.i, x.v, err)
		}
	}
}

func TestFanModeRoundTrip(t *testing.T) {
	h, f := newTestDev()
	for _, x := range []struct {
		boundary uint8
		hw       byte
	}{
		{FanAuto, 0x01},
		{FanManual, 0x00},
		{FanUserCurve, 0x02},
	} {
		if err := h.SetFanMode(x.boundary); err != nil {
			t.Fatal(err)
		}
		if f.Regs[0x10] != x.hw {
			t.Fatalf("mode %d: EC reg %#x, want %#x",
				x.boundary, f.Regs[0x10], x.hw)
		}
		got, err := h.FanMode()
		if err != nil {
			t.Fatal(err)
		}
		if got != x.boundary {
			t.Fatalf("mode %d reads back %d", x.boundary, got)
		}
	}
	if err := h.SetFanMode(3); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
	// unknown hardware codes pass through unmapped
	f.Regs[0x10] = 0x07
	got, err := h.FanMode()
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x07 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestLedModeMapping(t *testing.T) {
	h, f := newTestDev()
	for _, x := range []struct {
		hw   byte
		want uint8
	}{
		{0x00, LedBreath},
		{0xaa, LedManual},
		{0x55, LedManual},
		{0x07, LedBreath},
	} {
		f.Regs[0xb3] = x.hw
		got, err := h.LedMode()
		if err != nil {
			t.Fatal(err)
		}
		if got != x.want {
			t.Errorf("hw %#x maps to %d, want %d",
				x.hw, got, x.want)
		}
	}
	if err := h.SetLedMode(LedManual); err != nil {
		t.Fatal(err)
	}
	if f.Regs[0xb3] != 0xaa {
		t.Fatalf("mode reg %#x, want 0xaa", f.Regs[0xb3])
	}
	if err := h.SetLedMode(LedBreath); err != nil {
		t.Fatal(err)
	}
	if f.Regs[0xb3] != 0x00 {
		t.Fatalf("mode reg %#x, want 0x00", f.Regs[0xb3])
	}
	if err := h.SetLedMode(2); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}

func TestBrightnessIgnoredWhileBreathing(t *testing.T) {
	h, f := newTestDev()
	f.Regs[0xb3] = 0x00
	f.Reset()
	if err := h.SetBrightness(200); err != nil {
		t.Fatal(err)
	}
	if n := len(f.Writes()); n != 0 {
		t.Fatalf("%d register writes while breathing, want 0", n)
	}
	if h.Brightness() != 0 {
		t.Fatalf("brightness cache changed to %d", h.Brightness())
	}
}

func TestBrightnessManual(t *testing.T) {
	h, f := newTestDev()
	for i, v := range []uint8{255, 128, 0} {
		if err := h.SetIntensity(i, v); err != nil {
			t.Fatal(err)
		}
	}
	f.Regs[0xb3] = 0x55
	f.Reset()
	if err := h.SetBrightness(255); err != nil {
		t.Fatal(err)
	}
	writes := f.Writes()
	want := []ectest.Op{
		{Write: true, Reg: 0xb0, Val: 255},
		{Write: true, Reg: 0xb1, Val: 128},
		{Write: true, Reg: 0xb2, Val: 0},
		{Write: true, Reg: 0xb3, Val: 0xaa},
	}
	if len(writes) != len(want) {
		t.Fatalf("%d writes, want %d", len(writes), len(want))
	}
	for i, op := range want {
		if writes[i] != op {
			t.Fatalf("write %d is %+v, want %+v",
				i, writes[i], op)
		}
	}
	if h.Brightness() != 255 {
		t.Fatalf("brightness %d, want 255", h.Brightness())
	}
	f.Reset()
	if err := h.SetBrightness(0); err != nil {
		t.Fatal(err)
	}
	for i, reg := range []uint8{0xb0, 0xb1, 0xb2} {
		if f.Regs[reg] != 0 {
			t.Fatalf("channel %d is %d after level 0",
				i, f.Regs[reg])
		}
	}
}

func TestLedRefresh(t *testing.T) {
	h, f := newTestDev()
	h.SetIntensity(0, 255)
	f.Regs[0xb3] = 0x55
	if err := h.SetBrightness(100); err != nil {
		t.Fatal(err)
	}
	f.Regs[0xb3] = 0x00 // EC reset dropped to breathing
	f.Reset()
	if err := h.LedRefresh(); err != nil {
		t.Fatal(err)
	}
	if f.Regs[0xb3] != 0xaa {
		t.Fatalf("mode reg %#x, want 0xaa", f.Regs[0xb3])
	}
	if f.Regs[0xb0] != 100 {
		t.Fatalf("red %d, want 100", f.Regs[0xb0])
	}
}
