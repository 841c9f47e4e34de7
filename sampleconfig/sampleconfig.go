// Copyright (c) 2017-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sampleconfig provides the commented example configuration written
// on first run.
package sampleconfig

import (
	_ "embed"
)

// sampleCellVerifyConf is a string containing the commented example config
// for cellverify.
//
//go:embed sample-cellverify.conf
var sampleCellVerifyConf string

// CellVerify returns a string containing the commented example config for
// cellverify.
func CellVerify() string {
	return sampleCellVerifyConf
}
