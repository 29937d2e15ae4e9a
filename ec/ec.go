// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ec provides locked, ordered register transactions against the
// embedded controller of Ayn x86 handhelds.
//
// The EC has a single register bus shared by every consumer in the
// platform, so all transactions serialize on one package wide token with
// a bounded acquisition delay. The token is released on every exit path,
// including a register I/O failure mid transaction.
package ec

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultIo is the EC register window exposed by the kernel ACPI EC
// driver.
const DefaultIo = "/sys/kernel/debug/ec/ec0/io"

// lockDelay bounds how long a transaction waits for the platform EC
// lock, matching the firmware's own global lock delay.
const lockDelay = 500 * time.Millisecond

// ErrBusy means the platform EC lock could not be acquired within the
// bounded delay; no register traffic happened.
var ErrBusy = errors.New("ec: busy")

// ErrInvalid means the requested registers fall outside the EC's one
// byte address space; no register traffic happened.
var ErrInvalid = errors.New("ec: invalid argument")

var lock = make(chan struct{}, 1)

// RegisterIO is the byte addressable register window behind a Dev.
// *os.File on the kernel's EC io file satisfies it.
type RegisterIO interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	Close() error
}

type Dev struct {
	io RegisterIO
}

func New(io RegisterIO) *Dev { return &Dev{io: io} }

// Open returns a Dev on the named EC io file, or DefaultIo if path is
// empty.
func Open(path string) (*Dev, error) {
	if len(path) == 0 {
		path = DefaultIo
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &Dev{io: f}, nil
}

func (d *Dev) Close() error { return d.io.Close() }

func acquire() error {
	select {
	case lock <- struct{}{}:
		return nil
	case <-time.After(lockDelay):
		return ErrBusy
	}
}

func release() { <-lock }

// Read returns n consecutive bytes starting at reg, read lowest address
// first and assembled with the lowest address as the most significant
// byte. The registers must fit the one byte address space. A failed
// byte read aborts the remaining reads.
func (d *Dev) Read(reg uint8, n int) (int64, error) {
	if n < 1 || int(reg)+n > 256 {
		return 0, fmt.Errorf("read 0x%02x count %d: %w",
			reg, n, ErrInvalid)
	}
	if err := acquire(); err != nil {
		return 0, err
	}
	defer release()
	var v int64
	b := make([]byte, 1)
	for i := 0; i < n; i++ {
		if _, err := d.io.ReadAt(b, int64(reg)+int64(i)); err != nil {
			return 0, fmt.Errorf("ec: read 0x%02x: %w",
				reg+uint8(i), err)
		}
		v = v<<8 | int64(b[0])
	}
	return v, nil
}

// Write stores a single byte at reg.
func (d *Dev) Write(reg uint8, v uint8) error {
	if err := acquire(); err != nil {
		return err
	}
	defer release()
	if _, err := d.io.WriteAt([]byte{v}, int64(reg)); err != nil {
		return fmt.Errorf("ec: write 0x%02x: %w", reg, err)
	}
	return nil
}
