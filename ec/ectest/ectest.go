// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ectest provides a fake EC register window with an operation
// log for transaction level assertions.
package ectest

import "sync"

type Op struct {
	Write bool
	Reg   uint8
	Val   uint8
}

// Fake is a RegisterIO over an in-memory register file. Every attempted
// byte operation is logged, successful or not.
type Fake struct {
	mu       sync.Mutex
	Regs     [256]byte
	Ops      []Op
	ReadErr  map[uint8]error
	WriteErr map[uint8]error
}

func (f *Fake) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range p {
		reg := uint8(off) + uint8(i)
		f.Ops = append(f.Ops, Op{Reg: reg})
		if err, found := f.ReadErr[reg]; found {
			return i, err
		}
		p[i] = f.Regs[reg]
	}
	return len(p), nil
}

func (f *Fake) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range p {
		reg := uint8(off) + uint8(i)
		f.Ops = append(f.Ops, Op{Write: true, Reg: reg, Val: v})
		if err, found := f.WriteErr[reg]; found {
			return i, err
		}
		f.Regs[reg] = v
	}
	return len(p), nil
}

func (f *Fake) Close() error { return nil }

// Writes returns the logged write operations in order.
func (f *Fake) Writes() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ops []Op
	for _, op := range f.Ops {
		if op.Write {
			ops = append(ops, op)
		}
	}
	return ops
}

// Reset clears the operation log but not the register file.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = nil
}

// Len returns the count of logged operations.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Ops)
}
