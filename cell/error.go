// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrUnresolvedReference indicates a transaction references an out point
	// that does not exist in the cell provider.  This is the case for cells
	// that were already spent, never existed, or are not yet visible.
	ErrUnresolvedReference = ErrorKind("ErrUnresolvedReference")

	// ErrDuplicateInput indicates a transaction attempts to spend the same
	// out point more than once.
	ErrDuplicateInput = ErrorKind("ErrDuplicateInput")

	// ErrInvalidDepGroup indicates the data of a cell referenced as a
	// dependency group is not a valid serialized list of out points.
	ErrInvalidDepGroup = ErrorKind("ErrInvalidDepGroup")

	// ErrMalformedWitness indicates a witness entry does not have the exact
	// number of elements required by the witness arguments layout.
	ErrMalformedWitness = ErrorKind("ErrMalformedWitness")

	// ErrMalformedTx indicates serialized transaction or cell data could
	// not be decoded.
	ErrMalformedTx = ErrorKind("ErrMalformedTx")

	// ErrProvider indicates the cell provider failed for a reason other
	// than the requested cell not existing.
	ErrProvider = ErrorKind("ErrProvider")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to cells and transactions.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string

	// RawErr houses the failure of a collaborator, such as a cell provider,
	// that caused the error, if any.
	RawErr error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped errors.  The error kind comes first
// followed by the raw cause when there is one.
func (e Error) Unwrap() []error {
	if e.RawErr == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.RawErr}
}

// ruleError creates an Error given a set of arguments.
func ruleError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
