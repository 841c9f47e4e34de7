// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/decred/cellverify/cell"
	"github.com/decred/cellverify/locks/multisig"
	"github.com/decred/cellverify/locks/p2pkh"
	"github.com/decred/cellverify/locks/secpdata"
	"github.com/decred/cellverify/vm"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// builtinTxHash is the hash of the out points the built-in cells are stored
// at.  No transaction hashes to it.
var builtinTxHash = chainhash.HashH([]byte("cellverify built-in cells"))

// These constants define the output indices of the built-in cells.
const (
	builtinP2PKHIndex uint32 = iota
	builtinMultisigIndex
	builtinSecpDataIndex
	builtinDepGroupIndex
)

// builtins houses the native program registry along with the code hashes
// lock scripts reference the programs by.
type builtins struct {
	registry         *vm.Registry
	p2pkhCodeHash    chainhash.Hash
	multisigCodeHash chainhash.Hash
}

// newBuiltins returns a registry with every native lock program registered.
func newBuiltins() (*builtins, error) {
	registry := vm.NewRegistry()
	p2pkhCodeHash, err := p2pkh.Register(registry)
	if err != nil {
		return nil, fmt.Errorf("unable to register %s: %w", p2pkh.Name, err)
	}
	multisigCodeHash, err := multisig.Register(registry)
	if err != nil {
		return nil, fmt.Errorf("unable to register %s: %w", multisig.Name, err)
	}
	return &builtins{
		registry:         registry,
		p2pkhCodeHash:    p2pkhCodeHash,
		multisigCodeHash: multisigCodeHash,
	}, nil
}

// builtinOutPoint returns the out point of the built-in cell at the provided
// index.
func builtinOutPoint(index uint32) cell.OutPoint {
	return *cell.NewOutPoint(&builtinTxHash, index)
}

// builtinCells returns the code cells of the native programs, the secp256k1
// coefficient table and a dependency group referencing all three.  The cells
// are locked by a script no program answers to so they can never be spent.
func builtinCells() []*cell.CellMeta {
	unspendable := cell.NewScript(chainhash.Hash{}, cell.HashTypeData)
	newCell := func(index uint32, data []byte) *cell.CellMeta {
		op := builtinOutPoint(index)
		out := cell.NewCellOutput(uint64(len(data)), data, unspendable)
		return cell.NewCellMeta(&op, out, data)
	}

	group := cell.SerializeOutPoints([]cell.OutPoint{
		builtinOutPoint(builtinP2PKHIndex),
		builtinOutPoint(builtinMultisigIndex),
		builtinOutPoint(builtinSecpDataIndex),
	})
	return []*cell.CellMeta{
		newCell(builtinP2PKHIndex, p2pkh.Binary),
		newCell(builtinMultisigIndex, multisig.Binary),
		newCell(builtinSecpDataIndex, secpdata.Table()),
		newCell(builtinDepGroupIndex, group),
	}
}
