// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"github.com/decred/cellverify/vm"
)

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrNoScript indicates the code hash of a lock script does not match
	// any dependency cell or the matching cell does not hold a known
	// program.
	ErrNoScript = ErrorKind("ErrNoScript")

	// ErrMultipleMatchingScripts indicates the code hash of a lock script
	// bound by type hash matches dependency cells holding different
	// programs.
	ErrMultipleMatchingScripts = ErrorKind("ErrMultipleMatchingScripts")

	// ErrValidationFailure indicates a lock program rejected the spend.  The
	// Code field of the Error houses the program's exit code.
	ErrValidationFailure = ErrorKind("ErrValidationFailure")

	// ErrExceededMaxCycles indicates the programs exhausted the cycle budget
	// of the verification run or a program exited with vm.ExitResource.
	ErrExceededMaxCycles = ErrorKind("ErrExceededMaxCycles")

	// ErrInvalidResolution indicates the resolved transaction does not
	// provide a resolved cell for every input.
	ErrInvalidResolution = ErrorKind("ErrInvalidResolution")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies a verification failure of a transaction input.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string

	// Input is the index of the failing input or -1 when the failure is not
	// specific to an input.
	Input int

	// Code is the exit code of the failing program.  It is vm.ExitSuccess
	// when no program ran.
	Code vm.ExitCode
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// inputError creates an Error for the input at the provided index.
func inputError(kind ErrorKind, input int, code vm.ExitCode, desc string) Error {
	return Error{Err: kind, Description: desc, Input: input, Code: code}
}
