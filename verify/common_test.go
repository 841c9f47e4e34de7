// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"context"
	"testing"

	"github.com/decred/cellverify/cell"
	"github.com/decred/cellverify/cellstore"
	"github.com/decred/cellverify/locks/multisig"
	"github.com/decred/cellverify/locks/p2pkh"
	"github.com/decred/cellverify/locks/secpdata"
	"github.com/decred/cellverify/vm"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/rand"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// testHarness houses a cell store populated with the lock program code cells
// and the coefficient table along with a registry of the programs.
type testHarness struct {
	t        *testing.T
	registry *vm.Registry
	store    *cellstore.MemStore

	p2pkhCodeHash    chainhash.Hash
	multisigCodeHash chainhash.Hash

	// depGroup is a dependency group holding the code cells and the
	// coefficient table.
	depGroup cell.OutPoint
	p2pkhDep cell.OutPoint
	secpDep  cell.OutPoint
}

// newTestHarness returns a harness with the lock programs registered and
// their code cells stored.
func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	registry := vm.NewRegistry()
	p2pkhCodeHash, err := p2pkh.Register(registry)
	if err != nil {
		t.Fatalf("unable to register p2pkh program: %v", err)
	}
	multisigCodeHash, err := multisig.Register(registry)
	if err != nil {
		t.Fatalf("unable to register multisig program: %v", err)
	}

	h := &testHarness{
		t:                t,
		registry:         registry,
		store:            cellstore.NewMemStore(),
		p2pkhCodeHash:    p2pkhCodeHash,
		multisigCodeHash: multisigCodeHash,
	}
	alwaysFail := cell.NewScript(chainhash.Hash{}, cell.HashTypeData)
	h.p2pkhDep = h.addCell(p2pkh.Binary, alwaysFail, nil)
	multisigDep := h.addCell(multisig.Binary, alwaysFail, nil)
	h.secpDep = h.addCell(secpdata.Table(), alwaysFail, nil)
	groupData := cell.SerializeOutPoints([]cell.OutPoint{h.p2pkhDep,
		multisigDep, h.secpDep})
	h.depGroup = h.addCell(groupData, alwaysFail, nil)
	return h
}

// addCell stores a cell with the provided data, lock and optional type script
// at a random out point and returns the out point.
func (h *testHarness) addCell(data []byte, lock, typeScript *cell.Script) cell.OutPoint {
	var hash chainhash.Hash
	rand.Read(hash[:])
	op := cell.NewOutPoint(&hash, 0)
	out := cell.NewCellOutput(uint64(len(data))+100, data, lock)
	out.Type = typeScript
	if err := h.store.PutCell(cell.NewCellMeta(op, out, data)); err != nil {
		h.t.Fatalf("unable to store cell: %v", err)
	}
	return *op
}

// p2pkhLock returns a p2pkh lock script for the serialized public key.
func (h *testHarness) p2pkhLock(serializedPubKey []byte) *cell.Script {
	return p2pkh.NewLockScript(h.p2pkhCodeHash, serializedPubKey)
}

// spendTx returns a transaction that depends on the harness dependency group
// and spends newly stored cells with the provided locks.
func (h *testHarness) spendTx(locks ...*cell.Script) *cell.Transaction {
	tx := &cell.Transaction{Version: 1}
	tx.AddCellDep(&h.depGroup, cell.DepTypeDepGroup)
	for _, lock := range locks {
		op := h.addCell(nil, lock, nil)
		tx.AddInput(cell.NewCellInput(&op, 0))
	}
	change := h.p2pkhLock(make([]byte, secp256k1.PubKeyBytesLenCompressed))
	tx.AddOutput(cell.NewCellOutput(1000, []byte("change"), change),
		[]byte("change"))
	return tx
}

// verify resolves the transaction against the harness store and verifies it
// with the provided number of workers.
func (h *testHarness) verify(tx *cell.Transaction, workers int, maxCycles uint64) (uint64, error) {
	h.t.Helper()
	rtx, err := cell.Resolve(tx, h.store)
	if err != nil {
		h.t.Fatalf("unable to resolve transaction: %v", err)
	}
	v := New(&Config{Registry: h.registry, Workers: workers})
	return v.Verify(context.Background(), rtx, maxCycles)
}

// newKey returns a new private key.
func newKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: unexpected error: %v", err)
	}
	return key
}
