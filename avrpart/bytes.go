// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package avrpart

import "fmt"

// Programmer is the minimal ISP command exchange the byte-level default
// primitives need from the core. *ft245r.Programmer satisfies it; avrpart
// never imports ft245r, so the dependency runs only one way.
type Programmer interface {
	Cmd(cmd [4]byte) (res [4]byte, err error)
}

// DefaultReadByte is the byte-level ISP read primitive ft245r.Programmer's
// ReadByte and the paged-access EEPROM fallback delegate to: one 4-byte
// ISP command exchange per byte, no pipelining.
func DefaultReadByte(pgm Programmer, part *Part, memory string, addr int) (byte, error) {
	var op Op
	switch memory {
	case "flash":
		if addr&1 != 0 {
			op = OpReadHi
		} else {
			op = OpReadLo
		}
		addr >>= 1
	case "eeprom":
		op = OpReadEEPROM
	case "signature":
		op = OpReadSig
	case "lock":
		op = OpReadLock
	case "fuse":
		op = OpReadFuseLow
	case "hfuse":
		op = OpReadFuseHigh
	case "efuse":
		op = OpReadFuseExt
	default:
		return 0, fmt.Errorf("avrpart: %s: unsupported memory %q for byte-level read", part.Name, memory)
	}
	code, ok := part.Opcode(op)
	if !ok {
		return 0, fmt.Errorf("avrpart: %s: missing opcode %s", part.Name, op)
	}
	cmd := code.Fill(addr, 0)
	res, err := pgm.Cmd(cmd)
	if err != nil {
		return 0, err
	}
	return res[3], nil
}

// DefaultWriteByte is the byte-level ISP write primitive ft245r.Programmer's
// WriteByte delegates to.
func DefaultWriteByte(pgm Programmer, part *Part, memory string, addr int, value byte) error {
	var op Op
	switch memory {
	case "flash":
		if addr&1 != 0 {
			op = OpLoadPageHi
		} else {
			op = OpLoadPageLo
		}
		addr >>= 1
	case "eeprom":
		op = OpWriteEEPROM
	case "lock":
		op = OpWriteLock
	case "fuse":
		op = OpWriteFuseLow
	case "hfuse":
		op = OpWriteFuseHigh
	case "efuse":
		op = OpWriteFuseExt
	default:
		return fmt.Errorf("avrpart: %s: unsupported memory %q for byte-level write", part.Name, memory)
	}
	code, ok := part.Opcode(op)
	if !ok {
		return fmt.Errorf("avrpart: %s: missing opcode %s", part.Name, op)
	}
	cmd := code.Fill(addr, value)
	_, err := pgm.Cmd(cmd)
	return err
}

// WritePage invokes the external page-write primitive for the flash page
// starting at addr, committing what LOADPAGE_LO/HI already staged in the
// chip's internal page buffer.
func WritePage(pgm Programmer, part *Part, memory string, addr int) error {
	if memory != "flash" {
		return fmt.Errorf("avrpart: %s: page write only supported for flash", part.Name)
	}
	code, ok := part.Opcode(OpWritePage)
	if !ok {
		return fmt.Errorf("avrpart: %s: missing opcode %s", part.Name, OpWritePage)
	}
	cmd := code.Fill(addr>>1, 0)
	_, err := pgm.Cmd(cmd)
	return err
}
