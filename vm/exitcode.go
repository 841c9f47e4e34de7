// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"strconv"
)

// ExitCode is the terminal status of a program.  Zero indicates success and
// failures are negative by convention.  The numeric values are part of the
// contract with existing verifiers and must not change.
type ExitCode int8

// These constants define the exit codes shared by the lock programs.  Programs
// may define additional program specific codes, however, ExitResource is
// reserved and always interpreted as resource exhaustion.
const (
	// ExitSuccess indicates the program authorized the spend.
	ExitSuccess ExitCode = 0

	// ExitEncoding indicates the lock script arguments are malformed.
	ExitEncoding ExitCode = -1

	// ExitArgs indicates the witness is structurally invalid, such as having
	// the wrong number of elements or elements of invalid lengths.
	ExitArgs ExitCode = -2

	// ExitPubKeyHash indicates the public key hash does not match the lock
	// script argument.  It is the authentication mismatch code.
	ExitPubKeyHash ExitCode = -3

	// ExitSecpData indicates the secp256k1 coefficient table dependency cell
	// is missing or invalid.
	ExitSecpData ExitCode = -4

	// ExitVerify indicates a signature failed to verify over the transaction
	// hash.
	ExitVerify ExitCode = -9

	// ExitResource indicates the program exhausted a resource limit.
	ExitResource ExitCode = -12
)

// exitCodeStrings is a map of exit codes back to their constant names for
// pretty printing.
var exitCodeStrings = map[ExitCode]string{
	ExitSuccess:    "ExitSuccess",
	ExitEncoding:   "ExitEncoding",
	ExitArgs:       "ExitArgs",
	ExitPubKeyHash: "ExitPubKeyHash",
	ExitSecpData:   "ExitSecpData",
	ExitVerify:     "ExitVerify",
	ExitResource:   "ExitResource",
}

// String returns the ExitCode as a human-readable name.
func (c ExitCode) String() string {
	if s, ok := exitCodeStrings[c]; ok {
		return s
	}
	return "ExitCode(" + strconv.Itoa(int(c)) + ")"
}
