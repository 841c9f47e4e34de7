// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secpdata

import (
	"bytes"
	"testing"

	"github.com/decred/cellverify/cell"
	"github.com/decred/cellverify/vm"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// TestTable ensures the table holds the expected points.
func TestTable(t *testing.T) {
	t.Parallel()

	tbl := Table()
	if len(tbl) != TableSize {
		t.Fatalf("table size: got %d, want %d", len(tbl), TableSize)
	}
	if Hash() != cell.CalcDataHash(tbl) {
		t.Fatal("table hash does not commit to the table")
	}

	// Entry i must be the public key for the private key 2^i.
	for _, i := range []int{0, 1, 7, 128, 255} {
		var k [32]byte
		k[31-i/8] = 1 << (i % 8)
		want := secp256k1.PrivKeyFromBytes(k[:]).PubKey().SerializeCompressed()
		got := tbl[i*EntrySize : (i+1)*EntrySize]
		if !bytes.Equal(got, want) {
			t.Errorf("entry %d: got %x, want %x", i, got, want)
		}
	}

	// The first entry is the base point.
	var one secp256k1.ModNScalar
	one.SetInt(1)
	var g secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&one, &g)
	g.ToAffine()
	wantG := secp256k1.NewPublicKey(&g.X, &g.Y).SerializeCompressed()
	if !bytes.Equal(generator, wantG) {
		t.Fatalf("generator: got %x, want %x", generator, wantG)
	}

	// Callers must not be able to modify the shared table.
	tbl[0] ^= 0xff
	if Hash() != cell.CalcDataHash(Table()) {
		t.Fatal("modifying a returned table altered the shared table")
	}
}

// TestLoad ensures the table is located by its data hash.
func TestLoad(t *testing.T) {
	t.Parallel()

	lock := cell.NewScript(chainhash.Hash{}, cell.HashTypeData)
	tbl := Table()
	op := cell.OutPoint{Hash: chainhash.Hash{0x01}}
	dep := cell.NewCellMeta(&op, cell.NewCellOutput(0, tbl, lock), tbl)

	// A cell claiming the table's data hash without holding the table.
	forged := &cell.CellMeta{
		OutPoint: cell.OutPoint{Hash: chainhash.Hash{0x02}},
		Output:   dep.Output,
		Data:     make([]byte, TableSize),
		DataHash: Hash(),
	}

	tests := []struct {
		name     string
		deps     []*cell.CellMeta
		wantCode vm.ExitCode
	}{
		{"present", []*cell.CellMeta{dep}, vm.ExitSuccess},
		{"missing", nil, vm.ExitSecpData},
		{"wrong base point", []*cell.CellMeta{forged}, vm.ExitSecpData},
	}
	for _, test := range tests {
		env := &vm.Environment{Script: lock, CellDeps: test.deps}
		m := vm.NewMachine(env, vm.NewCycleBudget(1<<20))
		code, err := Load(m)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if code != test.wantCode {
			t.Errorf("%s: got %v, want %v", test.name, code, test.wantCode)
		}
	}
}
