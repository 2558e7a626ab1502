// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"testing"

	"periph.io/x/d2xx"
	"periph.io/x/d2xx/d2xxtest"
)

func resetOpen(t *testing.T) {
	openerFunc = d2xx.Open
	numDevicesFunc = numDevices
}

func TestOpen_byIndex(t *testing.T) {
	defer resetOpen(t)
	numDevicesFunc = func() (int, error) { return 1, nil }
	openerFunc = func(i int) (d2xx.Handle, d2xx.Err) {
		if i != 0 {
			t.Fatalf("unexpected index %d", i)
		}
		return &d2xxtest.Fake{
			DevType: uint32(DevTypeFT232R),
			Vid:     0x0403,
			Pid:     0x6001,
			Data:    [][]byte{{}, {0}},
		}, 0
	}
	h, err := Open(0, 0, "", -1)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	if h.VenID() != 0x0403 || h.DevID() != 0x6001 {
		t.Fatalf("unexpected VID/PID: %#04x/%#04x", h.VenID(), h.DevID())
	}
}

func TestOpen_vidPidMismatch(t *testing.T) {
	defer resetOpen(t)
	numDevicesFunc = func() (int, error) { return 1, nil }
	openerFunc = func(i int) (d2xx.Handle, d2xx.Err) {
		return &d2xxtest.Fake{
			DevType: uint32(DevTypeFT232R),
			Vid:     0x0403,
			Pid:     0x6001,
			Data:    [][]byte{{}, {0}},
		}, 0
	}
	if _, err := Open(0x0403, 0x6014, "", -1); err == nil {
		t.Fatal("Open() should have failed on PID mismatch")
	}
}

func TestOpen_indexOutOfRange(t *testing.T) {
	defer resetOpen(t)
	numDevicesFunc = func() (int, error) { return 1, nil }
	openerFunc = func(i int) (d2xx.Handle, d2xx.Err) {
		t.Fatal("opener should not be called when index is out of range")
		return nil, 0
	}
	if _, err := Open(0, 0, "", 5); err == nil {
		t.Fatal("Open() should have failed with an out of range index")
	}
}

func TestOpen_noDevices(t *testing.T) {
	defer resetOpen(t)
	numDevicesFunc = func() (int, error) { return 0, nil }
	if _, err := Open(0, 0, "", -1); err == nil {
		t.Fatal("Open() should have failed when no device is present")
	}
}

func TestOpen_bySerial(t *testing.T) {
	defer resetOpen(t)
	numDevicesFunc = func() (int, error) { return 2, nil }
	openerFunc = func(i int) (d2xx.Handle, d2xx.Err) {
		return &d2xxtest.Fake{
			DevType: uint32(DevTypeFT232R),
			Vid:     0x0403,
			Pid:     0x6001,
			Data:    [][]byte{{}, {0}},
		}, 0
	}
	// Neither fake device reports a matching serial number, since
	// d2xxtest.Fake does not carry EEPROM content; Open must exhaust all
	// candidates and report the serial as not found rather than hang.
	if _, err := Open(0, 0, "nonexistent-serial", -1); err == nil {
		t.Fatal("Open() should have failed, no device matches the requested serial")
	}
}
