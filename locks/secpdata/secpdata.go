// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package secpdata provides the precomputed secp256k1 coefficient table that
// the signature checking lock programs require as a read-only dependency cell.
//
// The table consists of the compressed encodings of 2^i*G for i in [0, 255]
// where G is the secp256k1 base point.  Transactions make it available to
// their lock scripts through a cell dependency and the programs locate it by
// its data hash.
package secpdata

import (
	"bytes"
	"sync"

	"github.com/decred/cellverify/cell"
	"github.com/decred/cellverify/vm"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// TableEntries is the number of points in the table.
	TableEntries = 256

	// EntrySize is the size of each serialized point.
	EntrySize = secp256k1.PubKeyBytesLenCompressed

	// TableSize is the size of the serialized table.
	TableSize = TableEntries * EntrySize
)

// generator is the compressed encoding of the secp256k1 base point G.
var generator = []byte{
	0x02, 0x79, 0xbe, 0x66, 0x7e, 0xf9, 0xdc, 0xbb, 0xac, 0x55, 0xa0, 0x62,
	0x95, 0xce, 0x87, 0x0b, 0x07, 0x02, 0x9b, 0xfc, 0xdb, 0x2d, 0xce, 0x28,
	0xd9, 0x59, 0xf2, 0x81, 0x5b, 0x16, 0xf8, 0x17, 0x98,
}

var (
	tableOnce sync.Once
	table     []byte
	tableHash chainhash.Hash
)

// generate computes the table by repeated doubling of the base point.
func generate() {
	table = make([]byte, 0, TableSize)

	var one secp256k1.ModNScalar
	one.SetInt(1)
	var point, next secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&one, &point)
	for i := 0; i < TableEntries; i++ {
		affine := point
		affine.ToAffine()
		pubKey := secp256k1.NewPublicKey(&affine.X, &affine.Y)
		table = append(table, pubKey.SerializeCompressed()...)

		secp256k1.DoubleNonConst(&point, &next)
		point = next
	}
	tableHash = cell.CalcDataHash(table)
}

// Table returns a copy of the serialized table suitable for storing in a
// cell.
func Table() []byte {
	tableOnce.Do(generate)
	return append([]byte(nil), table...)
}

// Hash returns the data hash the lock programs locate the table by.
func Hash() chainhash.Hash {
	tableOnce.Do(generate)
	return tableHash
}

// Load loads the table dependency cell into the machine.  It returns
// vm.ExitSecpData when the transaction does not provide the table or the cell
// found by its data hash does not start with the base point.
func Load(m *vm.Machine) (vm.ExitCode, error) {
	data, ok, err := m.LoadCellDepData(Hash())
	if err != nil {
		return vm.ExitResource, err
	}
	if !ok || len(data) != TableSize {
		return vm.ExitSecpData, nil
	}

	// The first entry is the base point every other entry is derived from.
	if !bytes.Equal(data[:EntrySize], generator) {
		return vm.ExitSecpData, nil
	}
	return vm.ExitSuccess, nil
}
