// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ft245r implements an AVR ISP/TPI programmer on top of an FTDI
// FT232R/FT245R chip running in synchronous bit-bang mode.
//
// It drives a *ftdi.Handle directly: paged flash access needs raw chunked
// read/write with many outstanding USB fragments in flight, not a
// pin-at-a-time GPIO abstraction.
//
// The package is organized bottom-up: channel.go implements the buffered
// duplex transport every other file builds on, pins.go names the logical
// pins against it, isp.go and tpi.go encode/decode the two wire protocols,
// pager.go pipelines paged flash access, and programmer.go wires all of it
// into the Programmer type a host application drives.
//
// Use build tag ft245r_debug to log the session's baud rate and multiplier
// at Open and a TPI loopback failure demoted by the override; sent and
// received command bytes are not traced.
package ft245r
