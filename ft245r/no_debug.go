// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !ft245r_debug
// +build !ft245r_debug

package ft245r

// logf is disabled when the build tag ft245r_debug is not specified.
func logf(fmt string, v ...interface{}) {
}
