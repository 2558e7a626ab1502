// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"errors"
	"fmt"

	"periph.io/x/d2xx"
)

// openerFunc and numDevicesFunc are mocked in tests.
var (
	openerFunc     = d2xx.Open
	numDevicesFunc = numDevices
)

// Open opens one FTDI device matching the given selection criteria.
//
// vid/pid select the device class; 0 means "don't filter on this field".
// serial, when non-empty, selects a specific unit by its EEPROM serial
// number, read back from each candidate device in turn. When serial is
// empty, index selects the Nth device enumerated by the D2XX driver;
// index<0 means "the first device found".
//
// This is the lower layer behind the `usb:<identifier>` port syntax package
// ft245r exposes to its callers; Open itself does not parse port strings.
func Open(vid, pid uint16, serial string, index int) (*Handle, error) {
	if !d2xx.Available {
		return nil, errors.New("ftdi: d2xx driver is not available on this platform")
	}
	num, err := numDevicesFunc()
	if err != nil {
		return nil, err
	}
	if num == 0 {
		return nil, errors.New("ftdi: no FTDI device found")
	}
	if serial == "" {
		i := index
		if i < 0 {
			i = 0
		}
		if i >= num {
			return nil, fmt.Errorf("ftdi: device index %d out of range, %d device(s) found", i, num)
		}
		return openMatching(i, vid, pid)
	}
	var lastErr error
	for i := 0; i < num; i++ {
		h, err := openMatching(i, vid, pid)
		if err != nil {
			lastErr = err
			continue
		}
		ee := EEPROM{}
		readErr := h.ReadEEPROM(&ee)
		if readErr == nil && ee.Serial == serial {
			return h, nil
		}
		_ = h.Close()
	}
	if lastErr != nil {
		return nil, fmt.Errorf("ftdi: no FTDI device with serial %q found (last error: %w)", serial, lastErr)
	}
	return nil, fmt.Errorf("ftdi: no FTDI device with serial %q found", serial)
}

// openMatching opens device index i and validates it against the optional
// VID/PID filters, retrying initialization once after a device reset.
func openMatching(i int, vid, pid uint16) (*Handle, error) {
	h, err := openHandle(openerFunc, i)
	if err != nil {
		return nil, err
	}
	if vid != 0 && h.venID != vid {
		_ = h.Close()
		return nil, fmt.Errorf("ftdi: device %d has vendor ID %#04x, want %#04x", i, h.venID, vid)
	}
	if pid != 0 && h.devID != pid {
		_ = h.Close()
		return nil, fmt.Errorf("ftdi: device %d has product ID %#04x, want %#04x", i, h.devID, pid)
	}
	if err := h.Init(); err != nil {
		if err2 := h.Reset(); err2 != nil {
			_ = h.Close()
			return nil, err
		}
		if err := h.Init(); err != nil {
			_ = h.Close()
			return nil, err
		}
	}
	return h, nil
}
