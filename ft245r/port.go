// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PortIdent is a parsed "usb:<identifier>" port string: either a device
// index (ByIndex set) or a serial number (Serial set).
type PortIdent struct {
	ByIndex bool
	Index   int
	Serial  string
}

var ftIndexRE = regexp.MustCompile(`^ft[0-9]+$`)

// ParsePort parses the "usb:<identifier>" port syntax. identifier is either
// an 8-character device serial number, or "ft<N>" for a zero-based device
// index; an empty identifier selects the first device (index 0).
//
// A string that is exactly 8 characters and does not match ft[0-9]+ is
// always a serial number, even if it happens to start with "ft": ftXXXXXX
// is a serial, while ft000001 (8 characters, matching ft[0-9]+) selects
// index 1. The regexp is checked first and decides which interpretation
// applies.
func ParsePort(port string) (PortIdent, error) {
	rest := strings.TrimPrefix(port, "usb:")
	if rest == "" {
		return PortIdent{ByIndex: true, Index: 0}, nil
	}
	if ftIndexRE.MatchString(rest) {
		n, err := strconv.Atoi(rest[2:])
		if err != nil {
			return PortIdent{}, fmt.Errorf("invalid port name: use ft[0-9]+ or serial number")
		}
		return PortIdent{ByIndex: true, Index: n}, nil
	}
	if len(rest) == 8 {
		return PortIdent{Serial: rest}, nil
	}
	return PortIdent{}, fmt.Errorf("invalid port name: use ft[0-9]+ or serial number")
}
