// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import "periph.io/x/conn/v3/physic"

// DefaultBitclock is used when the caller doesn't request a specific ISP/TPI
// bit clock; 150kHz works against the AVR's internal 1MHz RC oscillator
// across all FT232R/FT245R chip revisions.
const DefaultBitclock = 150 * physic.KiloHertz

// ft245rMaxToggleRate is the fastest the FT232R/FT245R can reliably toggle
// its data pins in synchronous bit-bang mode.
const ft245rMaxToggleRate = 3 * physic.MegaHertz

// BitclockToBaud converts a requested ISP/TPI bit clock into the value to
// hand to Handle.SetBaudRate, plus the number of times each emitted byte
// must be repeated in the bit-bang stream to approximate it.
//
// The D2XX driver multiplies the synchronous bit-bang baud rate by 4
// internally, so the toggle rate is divided by 4 before being returned.
// When workaround is false, the chip runs at the requested rate directly and
// multiplier is always 1, making repetition a no-op. When workaround is
// true, the chip is instead locked to its maximum toggle rate and each byte
// is repeated enough times to approximate the requested, slower rate.
func BitclockToBaud(hz physic.Frequency, workaround bool) (baud uint32, multiplier int) {
	if hz <= 0 {
		hz = DefaultBitclock
	}
	if !workaround {
		return uint32(hz/physic.Hertz) / 4, 1
	}
	mult := int((ft245rMaxToggleRate + hz - 1) / hz)
	if mult < 1 {
		mult = 1
	}
	return uint32(ft245rMaxToggleRate/physic.Hertz) / 4, mult
}
