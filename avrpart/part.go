// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package avrpart

// Part is an opcode table plus the per-memory geometry the programmer core
// needs to drive paged access: page size, page count, and whether
// addressing requires an AVR_OP_LOAD_EXT_ADDR command.
type Part struct {
	Name string

	// IsTPI selects the single-wire TPI protocol instead of ISP.
	IsTPI bool

	Opcodes map[Op]OpCode

	FlashPageSize  int
	FlashPages     int
	EEPROMPageSize int
	EEPROMSize     int

	// LoadExtAddr is true when flash addressing exceeds 64K words and an
	// AVR_OP_LOAD_EXT_ADDR command must precede the read/write stream.
	LoadExtAddr bool

	// PollIndex/PollValue locate the program-enable success byte within
	// the 4-byte AVR_OP_PGM_ENABLE response: res[PollIndex-1] == PollValue.
	PollIndex int
	PollValue byte
}

// Opcode looks up op in the part's table.
func (p *Part) Opcode(op Op) (OpCode, bool) {
	c, ok := p.Opcodes[op]
	return c, ok
}

// PageSize returns the page size in bytes for the named memory, or 0 if
// the memory isn't paged on this part.
func (p *Part) PageSize(memory string) int {
	switch memory {
	case "flash":
		return p.FlashPageSize
	case "eeprom":
		return p.EEPROMPageSize
	default:
		return 0
	}
}

// opcode builds a 32-bit template from four 8-character nibble groups,
// matching how AVR datasheets lay out the Serial Programming Instruction
// Set table.
func opcode(g1, g2, g3, g4 string) OpCode {
	return parseOpcode(g1 + g2 + g3 + g4)
}

// ATmega328P is a representative classic-ISP part for the built-in table
// cmd/avrisp offers, using the well known AVR Serial Programming
// Instruction Set encodings.
var ATmega328P = &Part{
	Name: "atmega328p",
	Opcodes: map[Op]OpCode{
		OpPgmEnable:     opcode("10101100", "01010011", "xxxxxxxx", "xxxxxxxx"),
		OpChipErase:     opcode("10101100", "10000000", "xxxxxxxx", "xxxxxxxx"),
		OpReadLo:        opcode("00100000", "00aaaaaa", "bbbbbbbb", "oooooooo"),
		OpReadHi:        opcode("00101000", "00aaaaaa", "bbbbbbbb", "oooooooo"),
		OpLoadPageLo:    opcode("01000000", "000xxxxx", "bbbbbbbb", "iiiiiiii"),
		OpLoadPageHi:    opcode("01001000", "000xxxxx", "bbbbbbbb", "iiiiiiii"),
		OpWritePage:     opcode("01001100", "00aaaaaa", "bbbxxxxx", "xxxxxxxx"),
		OpReadEEPROM:    opcode("10100000", "000xxaaa", "bbbbbbbb", "oooooooo"),
		OpWriteEEPROM:   opcode("11000000", "000xxaaa", "bbbbbbbb", "iiiiiiii"),
		OpReadSig:       opcode("00110000", "000xxxxx", "xxxxxxbb", "oooooooo"),
		OpReadLock:      opcode("01011000", "00000000", "xxxxxxxx", "oooooooo"),
		OpWriteLock:     opcode("10101100", "11100000", "xxxxxxxx", "iiiiiiii"),
		OpReadFuseLow:   opcode("01010000", "00000000", "xxxxxxxx", "oooooooo"),
		OpWriteFuseLow:  opcode("10101100", "10100000", "xxxxxxxx", "iiiiiiii"),
		OpReadFuseHigh:  opcode("01011000", "00001000", "xxxxxxxx", "oooooooo"),
		OpWriteFuseHigh: opcode("10101100", "10101000", "xxxxxxxx", "iiiiiiii"),
		OpReadFuseExt:   opcode("01010000", "00001000", "xxxxxxxx", "oooooooo"),
		OpWriteFuseExt:  opcode("10101100", "10100100", "xxxxxxxx", "iiiiiiii"),
	},
	FlashPageSize:  128,
	FlashPages:     256,
	EEPROMPageSize: 4,
	EEPROMSize:     1024,
	LoadExtAddr:    false,
	PollIndex:      3,
	PollValue:      0x53,
}

// ATtiny104 is a representative TPI-only part for the built-in table. TPI
// parts have no ISP opcode table; chip-erase and program-enable run through
// ChipEraseTPI/ProgramEnableTPI instead (see tpi.go).
var ATtiny104 = &Part{
	Name:  "attiny104",
	IsTPI: true,
}
