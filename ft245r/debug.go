// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build ft245r_debug
// +build ft245r_debug

package ft245r

import "log"

// logf is enabled when the build tag ft245r_debug is specified.
func logf(fmt string, v ...interface{}) {
	log.Printf(fmt, v...)
}
