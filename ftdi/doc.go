// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ftdi implements the D2XX transport for FT232R/FT245R devices.
//
// It covers synchronous bit-bang mode and EEPROM access on top of a thin
// *Handle wrapper around the D2XX driver. Package ft245r builds the AVR
// ISP/TPI programmer protocol on top of this package's *Handle.
//
// Use build tag ftdi_debug to enable verbose transport-level debugging.
//
// # Datasheets
//
// http://www.ftdichip.com/Support/Documents/DataSheets/ICs/DS_FT232R.pdf
package ftdi
