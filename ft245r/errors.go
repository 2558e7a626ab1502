// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

import "errors"

// Sentinel errors surfaced by the programmer core. Wrap with fmt.Errorf and
// %w to add context; callers use errors.Is against these to branch on error
// kind.
var (
	// ErrTransport is returned when the underlying FTDI transport reports a
	// non-zero error from open, set-latency, set-bitmode, read, write, or
	// set-baud.
	ErrTransport = errors.New("ft245r: transport error")

	// ErrShortWrite is returned when the transport accepted fewer bytes than
	// requested.
	ErrShortWrite = errors.New("ft245r: short write")

	// ErrProgramEnable is returned when the AVR_OP_PGM_ENABLE retry loop is
	// exhausted without the part responding.
	ErrProgramEnable = errors.New("ft245r: target doesn't answer, program enable failed")

	// ErrTPILoopback is returned when the SDO/SDI loopback self-test fails
	// during TPI initialization.
	ErrTPILoopback = errors.New("ft245r: TPI loopback check failed")

	// ErrTPIFraming is returned when a received TPI frame's start bit can't
	// be found or its stop bits aren't both 1.
	ErrTPIFraming = errors.New("ft245r: TPI framing error")

	// ErrTPIParity is returned when a received TPI frame's parity bit
	// doesn't match the accumulated parity of its 8 data bits.
	ErrTPIParity = errors.New("ft245r: TPI parity error")

	// ErrTPIIdentification is returned when the TPIIR register doesn't read
	// back as 0x80 during TPI initialization.
	ErrTPIIdentification = errors.New("ft245r: TPIIR identification mismatch")

	// ErrMissingOpcode is returned when the part's opcode table lacks an
	// opcode required by the requested operation.
	ErrMissingOpcode = errors.New("ft245r: missing opcode")

	// ErrUnsupportedMemory is the recoverable "-2" convention code from the
	// C original: paged access doesn't know this memory kind and the caller
	// may fall back to byte-level access.
	ErrUnsupportedMemory = errors.New("ft245r: unsupported memory kind for paged access")
)
