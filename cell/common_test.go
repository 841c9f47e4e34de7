// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"errors"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/rand"
)

// fixtureProvider is a cell provider backed by a map for tests.
type fixtureProvider map[OutPoint]*CellMeta

// FetchCell returns the cell at the provided out point or nil when it does not
// exist.
func (p fixtureProvider) FetchCell(op OutPoint) (*CellMeta, error) {
	return p[op], nil
}

// add inserts a cell with the provided data at a random out point and returns
// the out point.
func (p fixtureProvider) add(data []byte, lock *Script) OutPoint {
	var hash chainhash.Hash
	rand.Read(hash[:])
	op := OutPoint{Hash: hash, Index: 0}
	p[op] = NewCellMeta(&op, NewCellOutput(uint64(len(data)), data, lock), data)
	return op
}

// errBackendUnavailable is the error failingProvider fails with.
var errBackendUnavailable = errors.New("backend unavailable")

// failingProvider is a cell provider that always fails.
type failingProvider struct{}

// FetchCell always returns an error.
func (failingProvider) FetchCell(OutPoint) (*CellMeta, error) {
	return nil, errBackendUnavailable
}

// testTx returns a transaction with every field populated.
func testTx() *Transaction {
	lock := NewScript(chainhash.Hash{0x01}, HashTypeData, []byte{0xaa, 0xbb})
	typeScript := NewScript(chainhash.Hash{0x02}, HashTypeType)
	tx := &Transaction{Version: 1}
	tx.AddCellDep(&OutPoint{Hash: chainhash.Hash{0x10}, Index: 2}, DepTypeCode)
	tx.AddCellDep(&OutPoint{Hash: chainhash.Hash{0x11}}, DepTypeDepGroup)
	tx.AddInput(&CellInput{PreviousOutput: OutPoint{Hash: chainhash.Hash{0x20}, Index: 1}})
	out := NewCellOutput(42, []byte("data"), lock)
	out.Type = typeScript
	tx.AddOutput(out, []byte("data"))
	tx.AddOutput(NewCellOutput(7, nil, lock), []byte{})
	tx.SetWitness(0, Witness{{0x01, 0x02}, {}})
	return tx
}
