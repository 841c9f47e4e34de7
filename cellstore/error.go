// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cellstore

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific store Error.
const (
	// ErrDbTypeRegistered indicates two different store drivers attempt to
	// register with the same database type.
	ErrDbTypeRegistered = ErrorKind("ErrDbTypeRegistered")

	// ErrDbUnknownType indicates there is no driver registered for the
	// specified database type.
	ErrDbUnknownType = ErrorKind("ErrDbUnknownType")

	// ErrDbNotOpen indicates a store is accessed after it is closed.
	ErrDbNotOpen = ErrorKind("ErrDbNotOpen")

	// ErrCorruption indicates a stored entry could not be decoded or the
	// underlying database reported corruption.
	ErrCorruption = ErrorKind("ErrCorruption")

	// ErrBackend indicates an error in the underlying database that does
	// not have a more specific kind.
	ErrBackend = ErrorKind("ErrBackend")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to a cell store.  It has full support for
// errors.Is and errors.As, so the caller can ascertain the specific reason for
// the error by checking the underlying error.
type Error struct {
	Err         error
	Description string

	// RawErr houses the underlying database error, if any.
	RawErr error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// storeError creates an Error given a set of arguments.
func storeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
