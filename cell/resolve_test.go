// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"errors"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// TestResolve ensures code deps, dep groups and inputs resolve in declaration
// order.
func TestResolve(t *testing.T) {
	t.Parallel()

	provider := make(fixtureProvider)
	lock := NewScript(chainhash.Hash{0x01}, HashTypeData, []byte{1})
	code := provider.add([]byte("program"), lock)
	member1 := provider.add([]byte("member one"), lock)
	member2 := provider.add([]byte("member two"), lock)
	group := provider.add(SerializeOutPoints([]OutPoint{member1, member2}), lock)
	in1 := provider.add(nil, lock)
	in2 := provider.add([]byte{1}, lock)

	tx := &Transaction{}
	tx.AddCellDep(&code, DepTypeCode)
	tx.AddCellDep(&group, DepTypeDepGroup)
	tx.AddInput(NewCellInput(&in1, 0))
	tx.AddInput(NewCellInput(&in2, 0))

	rtx, err := Resolve(tx, provider)
	if err != nil {
		t.Fatalf("Resolve: unexpected error: %v", err)
	}
	if rtx.Hash != tx.TxHash() {
		t.Fatalf("mismatched hash: got %v, want %v", rtx.Hash, tx.TxHash())
	}

	wantDeps := []OutPoint{code, member1, member2}
	if len(rtx.ResolvedCellDeps) != len(wantDeps) {
		t.Fatalf("got %d deps, want %d", len(rtx.ResolvedCellDeps), len(wantDeps))
	}
	for i, want := range wantDeps {
		if got := rtx.ResolvedCellDeps[i].OutPoint; got != want {
			t.Errorf("dep #%d: got %v, want %v", i, got, want)
		}
	}
	if len(rtx.ResolvedDepGroups) != 1 || rtx.ResolvedDepGroups[0].OutPoint != group {
		t.Errorf("unexpected dep groups %v", rtx.ResolvedDepGroups)
	}
	wantInputs := []OutPoint{in1, in2}
	for i, want := range wantInputs {
		if got := rtx.ResolvedInputs[i].OutPoint; got != want {
			t.Errorf("input #%d: got %v, want %v", i, got, want)
		}
	}
	if rtx.ResolvedCellDeps[0].DataHash != CalcDataHash([]byte("program")) {
		t.Error("resolved cell has wrong data hash")
	}
}

// TestResolveErrors ensures resolution fails as a whole with the expected
// error kind.
func TestResolveErrors(t *testing.T) {
	t.Parallel()

	provider := make(fixtureProvider)
	lock := NewScript(chainhash.Hash{}, HashTypeData)
	code := provider.add([]byte("program"), lock)
	input := provider.add(nil, lock)
	badGroup := provider.add([]byte{0x05, 0x01}, lock)
	groupWithMissing := provider.add(SerializeOutPoints([]OutPoint{{Index: 9}}), lock)
	missing := OutPoint{Hash: chainhash.Hash{0xde, 0xad}}

	tests := []struct {
		name     string
		deps     []CellDep
		inputs   []OutPoint
		provider CellProvider
		wantErr  error
	}{{
		name:     "missing input",
		deps:     []CellDep{{OutPoint: code}},
		inputs:   []OutPoint{input, missing},
		provider: provider,
		wantErr:  ErrUnresolvedReference,
	}, {
		name:     "missing dep",
		deps:     []CellDep{{OutPoint: missing}},
		inputs:   []OutPoint{input},
		provider: provider,
		wantErr:  ErrUnresolvedReference,
	}, {
		name:     "missing dep group member",
		deps:     []CellDep{{OutPoint: groupWithMissing, DepType: DepTypeDepGroup}},
		inputs:   []OutPoint{input},
		provider: provider,
		wantErr:  ErrUnresolvedReference,
	}, {
		name:     "malformed dep group",
		deps:     []CellDep{{OutPoint: badGroup, DepType: DepTypeDepGroup}},
		inputs:   []OutPoint{input},
		provider: provider,
		wantErr:  ErrInvalidDepGroup,
	}, {
		name:     "duplicate input",
		deps:     []CellDep{{OutPoint: code}},
		inputs:   []OutPoint{input, input},
		provider: provider,
		wantErr:  ErrDuplicateInput,
	}, {
		name:     "provider failure",
		inputs:   []OutPoint{input},
		provider: failingProvider{},
		wantErr:  ErrProvider,
	}}

	for _, test := range tests {
		tx := &Transaction{CellDeps: test.deps}
		for i := range test.inputs {
			tx.AddInput(NewCellInput(&test.inputs[i], 0))
		}
		rtx, err := Resolve(tx, test.provider)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%s: got err %v, want %v", test.name, err, test.wantErr)
			continue
		}
		if rtx != nil {
			t.Errorf("%s: partial resolution returned", test.name)
		}
	}
}

// TestResolveProviderCause ensures the failure of a cell provider remains
// reachable from the resolution error along with ErrProvider.
func TestResolveProviderCause(t *testing.T) {
	t.Parallel()

	tx := &Transaction{}
	tx.AddInput(NewCellInput(&OutPoint{Hash: chainhash.Hash{0x01}}, 0))
	_, err := Resolve(tx, failingProvider{})
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("got err %v, want %v", err, ErrProvider)
	}
	if !errors.Is(err, errBackendUnavailable) {
		t.Fatalf("got err %v, want cause %v", err, errBackendUnavailable)
	}
	var kind ErrorKind
	if !errors.As(err, &kind) || kind != ErrProvider {
		t.Fatalf("got kind %v, want %v", kind, ErrProvider)
	}
}
