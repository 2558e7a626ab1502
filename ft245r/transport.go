// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

import "periph.io/x/conn/v3/physic"

// Transport is the thin wrapper over the FTDI D2XX library that the channel
// drives. *ftdi.Handle satisfies it; tests drive a hand-rolled fake instead,
// since the channel's ring-buffer bookkeeping has no equivalent in D2XX
// itself.
type Transport interface {
	// InitSyncBitbang puts the device into synchronous bit-bang mode with
	// the given direction register (bit=1 selects an output pin) and
	// flushes stale data left over from a previous session.
	InitSyncBitbang(ddr byte) error

	// SetBaudRate sets the synchronous bit-bang clock.
	SetBaudRate(f physic.Frequency) error

	// ResetBitbang toggles the chip to its reset bitmode and back to
	// synchronous bit-bang with direction register ddr, flushing the
	// chip's internal buffer in the process. Used by Drain.
	ResetBitbang(ddr byte) error

	// Write blocks until all of b has been written, or returns an error.
	Write(b []byte) (int, error)

	// Read returns as much as is currently available without blocking.
	Read(b []byte) (int, error)

	// Close releases the underlying device.
	Close() error
}
