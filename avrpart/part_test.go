// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package avrpart

import "testing"

func TestOpCodeFill_pgmEnable(t *testing.T) {
	code, ok := ATmega328P.Opcode(OpPgmEnable)
	if !ok {
		t.Fatal("missing PGM_ENABLE opcode")
	}
	got := code.Fill(0, 0)
	want := [4]byte{0xAC, 0x53, 0x00, 0x00}
	if got != want {
		t.Errorf("PGM_ENABLE.Fill(0, 0) = %#02x, want %#02x", got, want)
	}
}

func TestOpCodeFill_chipErase(t *testing.T) {
	code, _ := ATmega328P.Opcode(OpChipErase)
	got := code.Fill(0, 0)
	want := [4]byte{0xAC, 0x80, 0x00, 0x00}
	if got != want {
		t.Errorf("CHIP_ERASE.Fill(0, 0) = %#02x, want %#02x", got, want)
	}
}

func TestOpCodeFill_readLo_addrBits(t *testing.T) {
	code, _ := ATmega328P.Opcode(OpReadLo)
	// addr is a 14-bit word address split 6 bits in byte 1, 8 bits in byte 2.
	got := code.Fill(0x1234, 0)
	want := [4]byte{0x20, 0x12, 0x34, 0x00}
	if got != want {
		t.Errorf("READ_LO.Fill(0x1234, 0) = %#02x, want %#02x", got, want)
	}
}

func TestOpCodeFill_loadPageLo_inputBits(t *testing.T) {
	code, _ := ATmega328P.Opcode(OpLoadPageLo)
	got := code.Fill(0x05, 0xA5)
	want := [4]byte{0x40, 0x00, 0x05, 0xA5}
	if got != want {
		t.Errorf("LOADPAGE_LO.Fill(5, 0xA5) = %#02x, want %#02x", got, want)
	}
}

func TestOpCodeFill_writeFuseLow(t *testing.T) {
	code, _ := ATmega328P.Opcode(OpWriteFuseLow)
	got := code.Fill(0, 0xE2)
	want := [4]byte{0xAC, 0xA0, 0x00, 0xE2}
	if got != want {
		t.Errorf("WRITE_FUSE_LOW.Fill(0, 0xE2) = %#02x, want %#02x", got, want)
	}
}

func TestPart_Opcode_missing(t *testing.T) {
	if _, ok := ATtiny104.Opcode(OpPgmEnable); ok {
		t.Error("ATtiny104 (TPI-only) should have no ISP opcodes")
	}
}

func TestPart_PageSize(t *testing.T) {
	if got := ATmega328P.PageSize("flash"); got != 128 {
		t.Errorf("PageSize(flash) = %d, want 128", got)
	}
	if got := ATmega328P.PageSize("eeprom"); got != 4 {
		t.Errorf("PageSize(eeprom) = %d, want 4", got)
	}
	if got := ATmega328P.PageSize("signature"); got != 0 {
		t.Errorf("PageSize(signature) = %d, want 0", got)
	}
}

func TestOpString(t *testing.T) {
	if OpPgmEnable.String() != "PGM_ENABLE" {
		t.Errorf("OpPgmEnable.String() = %q", OpPgmEnable.String())
	}
	if Op(999).String() != "UNKNOWN_OP" {
		t.Errorf("Op(999).String() = %q", Op(999).String())
	}
}

// fakeISPProgrammer records the commands it was sent and replies with a
// queued response, for DefaultReadByte/DefaultWriteByte/WritePage tests.
type fakeISPProgrammer struct {
	sent []([4]byte)
	res  [4]byte
	err  error
}

func (f *fakeISPProgrammer) Cmd(cmd [4]byte) ([4]byte, error) {
	f.sent = append(f.sent, cmd)
	return f.res, f.err
}

func TestDefaultReadByte_flashLowHigh(t *testing.T) {
	pgm := &fakeISPProgrammer{res: [4]byte{0, 0, 0, 0x42}}
	got, err := DefaultReadByte(pgm, ATmega328P, "flash", 10)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x42 {
		t.Errorf("got %#02x, want 0x42", got)
	}
	if len(pgm.sent) != 1 {
		t.Fatalf("expected 1 command, got %d", len(pgm.sent))
	}
	if pgm.sent[0][0] != 0x20 {
		t.Errorf("even byte address should use READ_LO, got opcode byte %#02x", pgm.sent[0][0])
	}

	pgm = &fakeISPProgrammer{res: [4]byte{0, 0, 0, 0x7}}
	if _, err := DefaultReadByte(pgm, ATmega328P, "flash", 11); err != nil {
		t.Fatal(err)
	}
	if pgm.sent[0][0] != 0x28 {
		t.Errorf("odd byte address should use READ_HI, got opcode byte %#02x", pgm.sent[0][0])
	}
}

func TestDefaultReadByte_unsupportedMemory(t *testing.T) {
	pgm := &fakeISPProgrammer{}
	if _, err := DefaultReadByte(pgm, ATmega328P, "bogus", 0); err == nil {
		t.Error("expected error for unsupported memory")
	}
}

func TestDefaultWriteByte_eeprom(t *testing.T) {
	pgm := &fakeISPProgrammer{}
	if err := DefaultWriteByte(pgm, ATmega328P, "eeprom", 3, 0x99); err != nil {
		t.Fatal(err)
	}
	if pgm.sent[0][0] != 0xC0 {
		t.Errorf("expected WRITE_EEPROM opcode byte 0xC0, got %#02x", pgm.sent[0][0])
	}
}

func TestWritePage(t *testing.T) {
	pgm := &fakeISPProgrammer{}
	if err := WritePage(pgm, ATmega328P, "flash", 256); err != nil {
		t.Fatal(err)
	}
	if pgm.sent[0][0] != 0x4C {
		t.Errorf("expected WRITEPAGE opcode byte 0x4C, got %#02x", pgm.sent[0][0])
	}
}

func TestWritePage_unsupportedMemory(t *testing.T) {
	pgm := &fakeISPProgrammer{}
	if err := WritePage(pgm, ATmega328P, "eeprom", 0); err == nil {
		t.Error("expected error for non-flash page write")
	}
}

// fakeTPIProgrammer records TPI frames sent and plays back queued replies.
type fakeTPIProgrammer struct {
	sent    [][]byte
	replies [][]byte
}

func (f *fakeTPIProgrammer) CmdTPI(cmd, res []byte) error {
	f.sent = append(f.sent, append([]byte(nil), cmd...))
	if len(res) > 0 && len(f.replies) > 0 {
		copy(res, f.replies[0])
		f.replies = f.replies[1:]
	}
	return nil
}

func TestChipEraseTPI(t *testing.T) {
	pgm := &fakeTPIProgrammer{replies: [][]byte{{0x00}}}
	if err := ChipEraseTPI(pgm); err != nil {
		t.Fatal(err)
	}
	if len(pgm.sent) != 4 {
		t.Fatalf("expected 3 setup frames + 1 poll frame, got %d", len(pgm.sent))
	}
}

func TestChipEraseTPI_timeout(t *testing.T) {
	pgm := &fakeTPIProgrammer{}
	for i := 0; i < 40; i++ {
		pgm.replies = append(pgm.replies, []byte{nvmBusy})
	}
	if err := ChipEraseTPI(pgm); err == nil {
		t.Error("expected timeout error when NVMCSR.BSY never clears")
	}
}

func TestProgramEnableTPI(t *testing.T) {
	pgm := &fakeTPIProgrammer{replies: [][]byte{{0x00}}}
	if err := ProgramEnableTPI(pgm); err != nil {
		t.Fatal(err)
	}
}

func TestProgramEnableTPI_busy(t *testing.T) {
	pgm := &fakeTPIProgrammer{replies: [][]byte{{nvmBusy}}}
	if err := ProgramEnableTPI(pgm); err == nil {
		t.Error("expected error when NVM controller reports busy")
	}
}
