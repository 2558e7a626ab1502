// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

// PinSpec names one data-bus bit a logical pin is wired to. Mask is the bit
// within the 8 DBUS bits (0 means the pin is unused); Invert reverses the
// sense of Value/the sampled level.
type PinSpec struct {
	Mask   byte
	Invert bool
}

// PinMap maps each logical pin the programmer drives to a PinSpec. It is
// immutable for the lifetime of an open session.
//
// SCK, SDO, RESET, BUFF, VCC and the four LEDs are outputs; SDI is the only
// input.
type PinMap struct {
	SCK   PinSpec
	SDO   PinSpec
	SDI   PinSpec
	RESET PinSpec
	BUFF  PinSpec
	VCC   PinSpec
	LED   [4]PinSpec
}

// DDR returns the direction register: the union of every configured output
// pin's mask. SDI, being the only input, never contributes.
func (m PinMap) DDR() byte {
	ddr := m.SCK.Mask | m.SDO.Mask | m.RESET.Mask | m.BUFF.Mask | m.VCC.Mask
	for _, l := range m.LED {
		ddr |= l.Mask
	}
	return ddr
}

// DefaultPinMap is the wiring assumed when the host doesn't supply its own
// PinMap.
var DefaultPinMap = PinMap{
	SCK:   PinSpec{Mask: 1 << 0},
	SDO:   PinSpec{Mask: 1 << 1},
	SDI:   PinSpec{Mask: 1 << 2},
	RESET: PinSpec{Mask: 1 << 3, Invert: true},
	BUFF:  PinSpec{Mask: 1 << 4, Invert: true},
	VCC:   PinSpec{Mask: 1 << 5},
}

// setBits recomputes out with spec's bit set according to value and the
// spec's invert flag.
func setBits(out byte, spec PinSpec, value bool) byte {
	if value != spec.Invert {
		return out | spec.Mask
	}
	return out &^ spec.Mask
}

// readBit extracts the logical value of spec's bit out of a sampled byte,
// honoring the invert flag.
func readBit(sample byte, spec PinSpec) bool {
	return (sample&spec.Mask != 0) != spec.Invert
}

// pinState is the shared, process-visible shadow register every pin write
// read-modifies-writes. All pin updates must go through it serially; the
// ISP and TPI codecs below also drive it directly while building a bit
// stream, since they need to toggle SCK/SDO many times per channel.send
// call instead of one pin at a time.
type pinState struct {
	ch  *channel
	m   PinMap
	out byte
}

// set writes a single logical pin, enqueuing the new shadow byte once. The
// echo is not useful at this level and is discarded.
func (p *pinState) set(spec PinSpec, value bool) error {
	p.out = setBits(p.out, spec, value)
	return p.ch.send([]byte{p.out}, true)
}

// read flushes outstanding writes, then samples the chip's data pin
// register and extracts spec's bit. Synchronous bit-bang only samples on a
// write, so reading re-sends the current shadow byte to force a fresh
// sample without changing any pin's level.
func (p *pinState) read(spec PinSpec) (bool, error) {
	if err := p.ch.flush(); err != nil {
		return false, err
	}
	if err := p.ch.send([]byte{p.out}, false); err != nil {
		return false, err
	}
	b, err := p.ch.recv(1)
	if err != nil {
		return false, err
	}
	return readBit(b[0], spec), nil
}

// appendISPByte appends the FT245RCycles*8 bytes that clock one MCU byte
// MSB-first onto SDO/SCK, updating out between every slot: slot 0 presents
// SDO with SCK low, slot 1 raises SCK with SDO unchanged.
func (p *pinState) appendISPByte(buf []byte, b byte) []byte {
	for bit := 7; bit >= 0; bit-- {
		buf = p.appendISPBit(buf, b&(1<<uint(bit)) != 0)
	}
	return buf
}

// appendISPBit appends the FT245RCycles bytes that clock a single data bit
// onto SDO/SCK: slot 0 presents SDO with SCK low, slot 1 raises SCK with
// SDO unchanged. Used by the TPI codec, which frames individual bits
// rather than whole bytes.
func (p *pinState) appendISPBit(buf []byte, v bool) []byte {
	p.out = setBits(p.out, p.m.SDO, v)
	p.out = setBits(p.out, p.m.SCK, false)
	buf = append(buf, p.out)
	p.out = setBits(p.out, p.m.SCK, true)
	buf = append(buf, p.out)
	return buf
}

// appendSCKLow appends one trailing byte with SCK driven low: the closing
// byte of the last fragment in an ISP/TPI stream.
func (p *pinState) appendSCKLow(buf []byte) []byte {
	p.out = setBits(p.out, p.m.SCK, false)
	return append(buf, p.out)
}

// appendStretch duplicates the last emitted byte, landing the final
// sampled bit of a non-last fragment at the same offset a closing
// SCK-low byte would have produced.
func (p *pinState) appendStretch(buf []byte) []byte {
	return append(buf, p.out)
}

// extractData reads the sampled SDI bit from slot 1 of each cycle of the
// wordIndex'th MCU byte in stream, assembling MSB-first.
func extractData(stream []byte, wordIndex int, sdi PinSpec) byte {
	var b byte
	base := wordIndex * 8 * FT245RCycles
	for bit := 0; bit < 8; bit++ {
		sample := stream[base+bit*FT245RCycles+1]
		if readBit(sample, sdi) {
			b |= 1 << uint(7-bit)
		}
	}
	return b
}
