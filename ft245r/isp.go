// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

import "fmt"

// isp implements the SPI-like ISP bit codec: a 4-byte MCU command expands
// to FT245RCmdSize host bytes plus one trailing closing byte.
type isp struct {
	ch   *channel
	pins *pinState
}

// cmd serializes the 4-byte command, appends one trailing SCK-low byte
// (this is always the only, and therefore last, fragment in the stream),
// sends it synchronously, and extracts the 4-byte result.
func (c *isp) cmd(cmdBytes, res []byte) error {
	if len(cmdBytes) != 4 || len(res) != 4 {
		return fmt.Errorf("ft245r: isp command and result must be 4 bytes")
	}
	buf := make([]byte, 0, FT245RCmdSize+1)
	for _, b := range cmdBytes {
		buf = c.pins.appendISPByte(buf, b)
	}
	buf = c.pins.appendSCKLow(buf)
	if err := c.ch.send(buf, false); err != nil {
		return err
	}
	stream, err := c.ch.recv(len(buf))
	if err != nil {
		return err
	}
	for i := range res {
		res[i] = extractData(stream, i, c.pins.m.SDI)
	}
	return nil
}
