// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package cell implements the cell and transaction data model along with the
rules for hashing, serializing and resolving transactions prior to script
verification.

A cell is an immutable output created by a prior transaction.  It carries a
capacity, the hash of its data, a lock script that must be satisfied in order
to spend it and an optional type script.  Transactions reference the cells
they spend through inputs and the cells that hold the programs and data their
scripts need through cell dependencies.

# Transaction Hash

The transaction hash commits to every structural field of a transaction, namely
the version, cell dependencies, inputs, outputs and output data.  Witnesses are
intentionally excluded so that the hash can be signed and the resulting
signature placed in the witnesses without changing the message.  This is the
sighash-all rule enforced by the lock scripts.

# Resolution

Before any script executes, every out point a transaction references must be
resolved into its concrete cell via a CellProvider.  Resolution is all or
nothing: a single missing reference fails the entire transaction with
ErrUnresolvedReference.

# Errors

Errors returned by this package are of type cell.Error and provide full
support for the standard library errors.Is and errors.As functions to test for
a specific ErrorKind.
*/
package cell
