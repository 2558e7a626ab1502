// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package avrpart holds the AVR opcode tables and byte-level primitives
// that package ft245r's programmer core treats as opaque collaborators:
// the AVR_OP_* command templates, the bit-ordering helper that splices an
// address and input byte into a 32-bit command, the default byte-level
// read/write primitives, the page-write primitive, and the TPI chip-erase
// and program-enable helper routines.
//
// None of this is specific to the FTDI transport; it is grounded on the
// publicly documented AVR ISP "Serial Programming Instruction Set" and TPI
// instruction encodings found in any AVR datasheet.
package avrpart
