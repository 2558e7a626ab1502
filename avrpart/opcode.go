// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package avrpart

// Op identifies one of the AVR ISP opcodes the programmer core calls as an
// opaque primitive.
type Op int

const (
	OpPgmEnable Op = iota
	OpChipErase
	OpReadLo
	OpReadHi
	OpLoadPageLo
	OpLoadPageHi
	OpWritePage
	OpReadEEPROM
	OpWriteEEPROM
	OpLoadExtAddr
	OpReadSig
	OpReadLock
	OpWriteLock
	OpReadFuseLow
	OpWriteFuseLow
	OpReadFuseHigh
	OpWriteFuseHigh
	OpReadFuseExt
	OpWriteFuseExt
)

// String names the opcode, for diagnostics naming a missing opcode and the
// part (see ft245r.ErrMissingOpcode).
func (o Op) String() string {
	switch o {
	case OpPgmEnable:
		return "PGM_ENABLE"
	case OpChipErase:
		return "CHIP_ERASE"
	case OpReadLo:
		return "READ_LO"
	case OpReadHi:
		return "READ_HI"
	case OpLoadPageLo:
		return "LOADPAGE_LO"
	case OpLoadPageHi:
		return "LOADPAGE_HI"
	case OpWritePage:
		return "WRITEPAGE"
	case OpReadEEPROM:
		return "READ_EEPROM"
	case OpWriteEEPROM:
		return "WRITE_EEPROM"
	case OpLoadExtAddr:
		return "LOAD_EXT_ADDR"
	case OpReadSig:
		return "READ_SIG"
	case OpReadLock:
		return "READ_LOCK"
	case OpWriteLock:
		return "WRITE_LOCK"
	case OpReadFuseLow:
		return "READ_FUSE_LOW"
	case OpWriteFuseLow:
		return "WRITE_FUSE_LOW"
	case OpReadFuseHigh:
		return "READ_FUSE_HIGH"
	case OpWriteFuseHigh:
		return "WRITE_FUSE_HIGH"
	case OpReadFuseExt:
		return "READ_FUSE_EXT"
	case OpWriteFuseExt:
		return "WRITE_FUSE_EXT"
	default:
		return "UNKNOWN_OP"
	}
}

// bitKind classifies one of the 32 bit-positions of an OpCode template.
type bitKind byte

const (
	bitZero bitKind = iota // fixed 0, or a don't-care position
	bitOne                 // fixed 1
	bitAddr                // address bit, filled MSB-first
	bitIn                  // input data bit, filled MSB-first
)

// OpCode is a 32-bit ISP command template, MSB first. Fill splices a
// concrete address and input byte into the template's address ('a'/'b')
// and input ('i') positions to build the 4-byte wire command; fixed bits
// and don't-care positions pass through unchanged.
type OpCode [32]bitKind

// Fill returns the 4-byte command built by splicing addr and input into
// the opcode template.
func (o OpCode) Fill(addr int, input byte) [4]byte {
	na := 0
	for _, k := range o {
		if k == bitAddr {
			na++
		}
	}
	ai := na - 1
	ii := 7
	var out [4]byte
	for pos, k := range o {
		var bit bool
		switch k {
		case bitOne:
			bit = true
		case bitAddr:
			bit = ai >= 0 && addr&(1<<uint(ai)) != 0
			ai--
		case bitIn:
			bit = input&(1<<uint(ii)) != 0
			ii--
		}
		if bit {
			out[pos/8] |= 1 << uint(7-(pos%8))
		}
	}
	return out
}

// parseOpcode builds an OpCode from a 32-character template using the
// classic AVR datasheet notation: '0'/'1' are fixed bits, 'a'/'b' are
// address bits, 'i' are input data bits, and any other character (usually
// 'x' for don't-care or 'o' for an output-only bit filled by the reply) is
// a don't-care on the wire going out. Spaces in template are ignored.
func parseOpcode(template string) OpCode {
	var o OpCode
	i := 0
	for _, r := range template {
		if r == ' ' {
			continue
		}
		switch r {
		case '0':
			o[i] = bitZero
		case '1':
			o[i] = bitOne
		case 'a', 'b':
			o[i] = bitAddr
		case 'i':
			o[i] = bitIn
		default:
			o[i] = bitZero
		}
		i++
	}
	return o
}
