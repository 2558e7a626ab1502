// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package avrpart

import (
	"fmt"
	"time"
)

// TPIProgrammer is the minimal TPI command exchange the TPI helper
// routines need from the core. *ft245r.Programmer satisfies it.
type TPIProgrammer interface {
	CmdTPI(cmd, res []byte) error
}

// TPI instruction opcodes, addressed control/status register, and NVM
// command codes, per the AVR TPI programming guide.
const (
	tpiSLDCS = 0x80 // | 4-bit control/status register address
	tpiSSTCS = 0xC0 // | 4-bit control/status register address

	tpiNVMCSR = 0x0 // NVM control/status register CS address

	nvmBusy = 1 << 1

	nvmCmdChipErase = 0x10
)

// nvmCommandPointer is the I/O address NVMCMD is mapped to on TPI parts;
// SSTCS only reaches the low 4 control/status registers, so NVMCMD is set
// through SSTPR+SST in sstNVMCmd below.
const nvmCommandPointer = 0x0010

// sstNVMCmd points the TPI pointer register at NVMCMD (via SSTPR) and
// stores cmd there (via SST).
func sstNVMCmd(pgm TPIProgrammer, cmd byte) error {
	ptrLow := byte(nvmCommandPointer & 0xff)
	ptrHigh := byte(nvmCommandPointer >> 8)
	if err := pgm.CmdTPI([]byte{0x68, ptrLow}, nil); err != nil {
		return err
	}
	if err := pgm.CmdTPI([]byte{0x69, ptrHigh}, nil); err != nil {
		return err
	}
	return pgm.CmdTPI([]byte{0x64, cmd}, nil)
}

// ChipEraseTPI issues the TPI chip-erase NVM command and polls NVMCSR.BSY
// until the erase completes.
func ChipEraseTPI(pgm TPIProgrammer) error {
	if err := sstNVMCmd(pgm, nvmCmdChipErase); err != nil {
		return err
	}
	for i := 0; i < 32; i++ {
		res := make([]byte, 1)
		if err := pgm.CmdTPI([]byte{tpiSLDCS | tpiNVMCSR}, res); err != nil {
			return err
		}
		if res[0]&nvmBusy == 0 {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return fmt.Errorf("avrpart: TPI chip erase timed out waiting for NVMCSR.BSY to clear")
}

// ProgramEnableTPI confirms the NVM controller is idle and ready to accept
// commands, the "program enable over TPI" step the core's TPI
// initialization sequence calls after validating TPIIR.
func ProgramEnableTPI(pgm TPIProgrammer) error {
	res := make([]byte, 1)
	if err := pgm.CmdTPI([]byte{tpiSLDCS | tpiNVMCSR}, res); err != nil {
		return err
	}
	if res[0]&nvmBusy != 0 {
		return fmt.Errorf("avrpart: TPI NVM controller busy at program enable")
	}
	return nil
}
