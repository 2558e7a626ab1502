// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

import "periph.io/x/conn/v3/physic"

// fakeTransport is a minimal in-memory stand-in for *ftdi.Handle. echo, when
// true, makes Read return every byte Written, in order (a perfect
// loopback); stuckLevel replies with a fixed byte value instead.
type fakeTransport struct {
	echo bool
	buf  []byte

	// stuckLevel, when non-nil, makes every Write's reply a run of this
	// byte value instead of echoing what was sent: a transport that always
	// has data ready but never correlates with SDO, for exercising
	// framing/parity failure paths without risking a test hang.
	stuckLevel *byte

	writeErr error
	readErr  error

	resetCount int
	lastDDR    byte
	baud       physic.Frequency

	maxReadChunk int // 0 means unlimited
}

func (f *fakeTransport) InitSyncBitbang(ddr byte) error {
	f.lastDDR = ddr
	return nil
}

func (f *fakeTransport) SetBaudRate(freq physic.Frequency) error {
	f.baud = freq
	return nil
}

func (f *fakeTransport) ResetBitbang(ddr byte) error {
	f.resetCount++
	f.lastDDR = ddr
	f.buf = nil
	return nil
}

func (f *fakeTransport) Write(b []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	if f.echo {
		f.buf = append(f.buf, b...)
	} else if f.stuckLevel != nil {
		for range b {
			f.buf = append(f.buf, *f.stuckLevel)
		}
	}
	return len(b), nil
}

func (f *fakeTransport) Read(b []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	n := len(f.buf)
	if n > len(b) {
		n = len(b)
	}
	if f.maxReadChunk > 0 && n > f.maxReadChunk {
		n = f.maxReadChunk
	}
	copy(b, f.buf[:n])
	f.buf = f.buf[n:]
	return n, nil
}

func (f *fakeTransport) Close() error { return nil }
