// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2pkh

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrSigLength indicates a signature is neither a recoverable nor a
	// plain signature.
	ErrSigLength = ErrorKind("ErrSigLength")

	// ErrSigRecoveryID indicates the recovery identifier of a recoverable
	// signature is out of range.
	ErrSigRecoveryID = ErrorKind("ErrSigRecoveryID")

	// ErrSigRecover indicates a public key could not be recovered from a
	// recoverable signature.
	ErrSigRecover = ErrorKind("ErrSigRecover")

	// ErrPubKeyFormat indicates a serialized public key has an invalid
	// length or leading tag byte.
	ErrPubKeyFormat = ErrorKind("ErrPubKeyFormat")

	// ErrPubKeyPoint indicates a correctly formatted public key does not
	// encode a valid curve point.
	ErrPubKeyPoint = ErrorKind("ErrPubKeyPoint")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to lock signatures and keys.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
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

// lockError creates an Error given a set of arguments.
func lockError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
