// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

// ErrorKind identifies a kind of machine error.  It has full support for
// errors.Is and errors.As, so the caller can directly check against an error
// kind when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific machine Error.
const (
	// ErrExceededMaxCycles indicates a charge would exceed the remaining
	// cycle budget.  The charge is not applied.
	ErrExceededMaxCycles = ErrorKind("ErrExceededMaxCycles")

	// ErrDuplicateProgram indicates an attempt to register a program binary
	// that is already registered.
	ErrDuplicateProgram = ErrorKind("ErrDuplicateProgram")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies a machine error.  It has full support for errors.Is and
// errors.As, so the caller can ascertain the specific reason for the error by
// checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// machineError creates an Error given a set of arguments.
func machineError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
