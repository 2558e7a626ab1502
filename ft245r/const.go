// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

// Compile-time tuning constants. These mirror the #define constants of the
// original ft245r.c programmer backend.
const (
	// FT245RCycles is the number of bit-bang slots that make up one MCU
	// clock cycle: slot 0 presents SDO with SCK low, slot 1 raises SCK.
	FT245RCycles = 2

	// FT245RCmdSize is the number of host bytes one 4-byte MCU command
	// expands to: 4 bytes * 8 bits * FT245RCycles.
	FT245RCmdSize = 4 * 8 * FT245RCycles

	// FT245RFragmentSize is the largest number of host bytes issued as one
	// USB write before the pager forces a fragment boundary.
	FT245RFragmentSize = 8 * FT245RCmdSize

	// ReqOutstandings is the maximum number of unretired pager requests
	// before the writer is forced to retire one.
	ReqOutstandings = 10

	// RxCapacity is the size of the local receive ring buffer.
	RxCapacity = 8192

	// FIFOChunk is the size of the transmit staging buffer, and the upper
	// bound on bytes outstanding in the chip's own receive FIFO.
	FIFOChunk = 128

	// VariablePulseWidthWorkaround mirrors the C original's
	// BITBANG_VARIABLE_PULSE_WIDTH_WORKAROUND #define: disabled by default.
	// Flipping it is a one-line code change, same as the C #define.
	VariablePulseWidthWorkaround = false
)

// USB identification defaults.
const (
	// DefaultVID is FTDI's USB vendor ID.
	DefaultVID = 0x0403
	// DefaultPID is the FT232R/FT245R product ID class.
	DefaultPID = 0x6001
)
