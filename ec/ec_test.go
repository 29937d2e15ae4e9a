// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ec

import (
	"errors"
	"sync"
	"testing"

	"github.com/openhandhelds/aynec/ec/ectest"
)

func TestReadAssembly(t *testing.T) {
	f := new(ectest.Fake)
	f.Regs[0x20] = 0x12
	f.Regs[0x21] = 0x34
	d := New(f)
	v, err := d.Read(0x20, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x1234 {
		t.Fatalf("got %#x, want 0x1234", v)
	}
	v, err = d.Read(0x21, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x34 {
		t.Fatalf("got %#x, want 0x34", v)
	}
}

func TestWrite(t *testing.T) {
	f := new(ectest.Fake)
	d := New(f)
	if err := d.Write(0x11, 0x40); err != nil {
		t.Fatal(err)
	}
	if f.Regs[0x11] != 0x40 {
		t.Fatalf("reg 0x11 is %#x, want 0x40", f.Regs[0x11])
	}
}

func TestReadBeyondAddressSpace(t *testing.T) {
	f := new(ectest.Fake)
	f.Regs[0xff] = 0x12
	f.Regs[0x00] = 0x34
	d := New(f)
	// a 2-byte read at 0xff must not wrap to 0x00
	if _, err := d.Read(0xff, 2); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
	if _, err := d.Read(0x00, 0); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
	if n := f.Len(); n != 0 {
		t.Fatalf("%d register ops, want 0", n)
	}
	v, err := d.Read(0xff, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x12 {
		t.Fatalf("got %#x, want 0x12", v)
	}
}

func TestBusy(t *testing.T) {
	f := new(ectest.Fake)
	d := New(f)
	lock <- struct{}{}
	defer func() { <-lock }()
	if _, err := d.Read(0x20, 2); !errors.Is(err, ErrBusy) {
		t.Fatalf("read: got %v, want ErrBusy", err)
	}
	if err := d.Write(0x11, 0); !errors.Is(err, ErrBusy) {
		t.Fatalf("write: got %v, want ErrBusy", err)
	}
	if n := f.Len(); n != 0 {
		t.Fatalf("%d register ops while busy, want 0", n)
	}
}

func TestLockReleasedOnReadError(t *testing.T) {
	f := new(ectest.Fake)
	boom := errors.New("boom")
	f.ReadErr = map[uint8]error{0x21: boom}
	d := New(f)
	if _, err := d.Read(0x20, 3); !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped boom", err)
	}
	// The failed second byte aborts the third.
	if n := f.Len(); n != 2 {
		t.Fatalf("%d register ops, want 2", n)
	}
	// The lock must be free again.
	f.ReadErr = nil
	if _, err := d.Read(0x20, 2); err != nil {
		t.Fatalf("lock leaked: %v", err)
	}
}

func TestConcurrentReadsDoNotInterleave(t *testing.T) {
	f := new(ectest.Fake)
	d := New(f)
	bases := []uint8{0x10, 0x20, 0x30, 0x40}
	var wg sync.WaitGroup
	for _, base := range bases {
		wg.Add(1)
		go func(reg uint8) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := d.Read(reg, 2); err != nil {
					t.Error(err)
					return
				}
			}
		}(base)
	}
	wg.Wait()
	ops := f.Ops
	if len(ops)%2 != 0 {
		t.Fatalf("odd op count %d", len(ops))
	}
	for i := 0; i < len(ops); i += 2 {
		if ops[i+1].Reg != ops[i].Reg+1 {
			t.Fatalf("interleaved transaction at op %d: "+
				"0x%02x then 0x%02x", i, ops[i].Reg, ops[i+1].Reg)
		}
	}
}
