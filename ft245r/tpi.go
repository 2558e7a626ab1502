// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

// tpi implements the Tiny Programming Interface framed codec: single-wire,
// SDO and SDI tied through a resistor so every transmitted bit echoes back.
type tpi struct {
	ch   *channel
	pins *pinState
}

// txByte emits a start bit (0), 8 data bits LSB-first while accumulating
// even parity, the parity bit, and two stop bits (1, 1). The echo is not
// needed at this level, so the frame is sent with discard set.
func (t *tpi) txByte(b byte) error {
	buf := make([]byte, 0, 11*FT245RCycles)
	buf = t.pins.appendISPBit(buf, false)
	var parity byte
	for i := 0; i < 8; i++ {
		bit := b&(1<<uint(i)) != 0
		if bit {
			parity ^= 1
		}
		buf = t.pins.appendISPBit(buf, bit)
	}
	buf = t.pins.appendISPBit(buf, parity != 0)
	buf = t.pins.appendISPBit(buf, true)
	buf = t.pins.appendISPBit(buf, true)
	return t.ch.send(buf, true)
}

// rxByte drives SDO high for 16 bit-cycles while sampling SDI, hunts for
// the start bit within the first 4 cycles, then decodes the following data,
// parity and stop bits.
func (t *tpi) rxByte() (byte, error) {
	buf := make([]byte, 0, 16*FT245RCycles+1)
	for i := 0; i < 16; i++ {
		buf = t.pins.appendISPBit(buf, true)
	}
	buf = t.pins.appendSCKLow(buf)
	if err := t.ch.send(buf, false); err != nil {
		return 0, err
	}
	stream, err := t.ch.recv(len(buf))
	if err != nil {
		return 0, err
	}
	var res uint16
	for k := 0; k < 16; k++ {
		sample := stream[k*FT245RCycles+1]
		if readBit(sample, t.pins.m.SDI) {
			res |= 1 << uint(k)
		}
	}
	return decodeTPIFrame(res)
}

// decodeTPIFrame hunts for the start bit among the first 4 sampled cycles,
// then validates parity and stop bits of the frame that follows.
func decodeTPIFrame(res uint16) (byte, error) {
	start := -1
	for i := 0; i < 4; i++ {
		if res&(1<<uint(i)) == 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, ErrTPIFraming
	}
	var data byte
	var parity byte
	for i := 0; i < 8; i++ {
		if res&(1<<uint(start+1+i)) != 0 {
			data |= 1 << uint(i)
			parity ^= 1
		}
	}
	parityBit := res&(1<<uint(start+9)) != 0
	if parityBit != (parity != 0) {
		return 0, ErrTPIParity
	}
	stop1 := res&(1<<uint(start+10)) != 0
	stop2 := res&(1<<uint(start+11)) != 0
	if !stop1 || !stop2 {
		return 0, ErrTPIFraming
	}
	return data, nil
}

// cmdTPI emits len(cmd) TX frames, then receives len(res) frames, stopping
// at the first receive error.
func (t *tpi) cmdTPI(cmd, res []byte) error {
	for _, b := range cmd {
		if err := t.txByte(b); err != nil {
			return err
		}
	}
	for i := range res {
		b, err := t.rxByte()
		if err != nil {
			return err
		}
		res[i] = b
	}
	return nil
}
