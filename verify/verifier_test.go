// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/decred/cellverify/cell"
	"github.com/decred/cellverify/locks/multisig"
	"github.com/decred/cellverify/locks/p2pkh"
	"github.com/decred/cellverify/vm"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// checkVerifyError ensures the error is a verification Error of the provided
// kind for the provided input and exit code.
func checkVerifyError(t *testing.T, name string, err error, kind ErrorKind, input int, code vm.ExitCode) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Errorf("%s: got err %v, want %v", name, err, kind)
		return
	}
	var verr Error
	if !errors.As(err, &verr) {
		t.Errorf("%s: unexpected error type %T", name, err)
		return
	}
	if verr.Input != input || verr.Code != code {
		t.Errorf("%s: got input %d code %v, want input %d code %v", name,
			verr.Input, verr.Code, input, code)
	}
}

// TestKeyAndSignatureEncodings ensures transactions signed by the key whose
// hash is committed to verify for every combination of key and signature
// encoding.
func TestKeyAndSignatureEncodings(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	compressed := key.PubKey().SerializeCompressed()
	uncompressed := key.PubKey().SerializeUncompressed()

	tests := []struct {
		name   string
		locked []byte
		aux    []byte
		plain  bool
	}{
		{"recoverable implied compressed", compressed, nil, false},
		{"recoverable compressed", compressed, compressed, false},
		{"recoverable uncompressed", uncompressed, uncompressed, false},
		{"plain compressed", compressed, compressed, true},
		{"plain uncompressed", uncompressed, uncompressed, true},
	}

	for _, test := range tests {
		tx := h.spendTx(h.p2pkhLock(test.locked))
		p2pkh.SignTx(tx, 0, key, test.aux, test.plain)
		cycles, err := h.verify(tx, 0, vm.DefaultMaxCycles)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if cycles < vm.SecpParsePubKeyCycles {
			t.Errorf("%s: implausible cycle count %d", test.name, cycles)
		}
	}
}

// TestWrongSigner ensures spends signed by a key other than the committed one
// fail with the public key hash mismatch code.
func TestWrongSigner(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	owner := newKey(t)
	other := newKey(t)
	otherCompressed := other.PubKey().SerializeCompressed()

	tests := []struct {
		name  string
		aux   []byte
		plain bool
	}{
		{"recoverable implied key", nil, false},
		{"recoverable with signer key", otherCompressed, false},
		{"plain with signer key", otherCompressed, true},
	}

	for _, test := range tests {
		tx := h.spendTx(h.p2pkhLock(owner.PubKey().SerializeCompressed()))
		p2pkh.SignTx(tx, 0, other, test.aux, test.plain)
		_, err := h.verify(tx, 0, vm.DefaultMaxCycles)
		checkVerifyError(t, test.name, err, ErrValidationFailure, 0,
			vm.ExitPubKeyHash)
	}
}

// TestTamperedTransaction ensures altering a structural field after signing
// invalidates the signature.
func TestTamperedTransaction(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	compressed := key.PubKey().SerializeCompressed()

	tests := []struct {
		name  string
		aux   []byte
		plain bool
		code  vm.ExitCode
	}{
		{"recoverable with key", compressed, false, vm.ExitVerify},
		{"plain", compressed, true, vm.ExitVerify},
		{"recoverable implied key", nil, false, vm.ExitPubKeyHash},
	}

	for _, test := range tests {
		tx := h.spendTx(h.p2pkhLock(compressed))
		p2pkh.SignTx(tx, 0, key, test.aux, test.plain)
		if _, err := h.verify(tx, 0, vm.DefaultMaxCycles); err != nil {
			t.Errorf("%s: unexpected error before tampering: %v", test.name,
				err)
			continue
		}

		tx.Outputs[0].Capacity++
		_, err := h.verify(tx, 0, vm.DefaultMaxCycles)
		checkVerifyError(t, test.name, err, ErrValidationFailure, 0, test.code)
	}
}

// TestWitnessArity ensures only witnesses with exactly two elements are
// accepted.
func TestWitnessArity(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	compressed := key.PubKey().SerializeCompressed()

	tx := h.spendTx(h.p2pkhLock(compressed))
	txHash := tx.TxHash()
	sig := p2pkh.SignRecoverable(key, txHash[:])

	tests := []struct {
		name    string
		witness cell.Witness
		wantErr bool
	}{
		{"none", nil, true},
		{"signature only", cell.Witness{sig}, true},
		{"signature and empty aux", cell.Witness{sig, {}}, false},
		{"signature and key", cell.Witness{sig, compressed}, false},
		{"three elements", cell.Witness{sig, compressed, {}}, true},
		{"four elements", cell.Witness{sig, {}, {}, {}}, true},
	}

	for _, test := range tests {
		tx.SetWitness(0, test.witness)
		_, err := h.verify(tx, 0, vm.DefaultMaxCycles)
		if !test.wantErr {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", test.name, err)
			}
			continue
		}
		checkVerifyError(t, test.name, err, ErrValidationFailure, 0,
			vm.ExitArgs)
	}
}

// TestOversizedAuxiliary ensures an auxiliary element far larger than any key
// exhausts the program's resources even when the signature is valid.
func TestOversizedAuxiliary(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	tx := h.spendTx(h.p2pkhLock(key.PubKey().SerializeCompressed()))
	p2pkh.SignTx(tx, 0, key, make([]byte, 40000), false)

	_, err := h.verify(tx, 0, vm.DefaultMaxCycles)
	checkVerifyError(t, "oversized aux", err, ErrExceededMaxCycles, 0,
		vm.ExitResource)
}

// TestCycleBudget ensures the budget is shared by every input and that
// exceeding it fails the run.
func TestCycleBudget(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	compressed := key.PubKey().SerializeCompressed()
	lock := h.p2pkhLock(compressed)
	tx := h.spendTx(lock, lock, lock)
	for i := range tx.Inputs {
		p2pkh.SignTx(tx, i, key, nil, false)
	}

	cycles, err := h.verify(tx, 1, vm.DefaultMaxCycles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Exactly enough cycles passes.
	if _, err := h.verify(tx, 1, cycles); err != nil {
		t.Fatalf("exact budget: unexpected error: %v", err)
	}

	// One cycle short fails on the last input when run sequentially.
	consumed, err := h.verify(tx, 1, cycles-1)
	checkVerifyError(t, "short budget", err, ErrExceededMaxCycles, 2,
		vm.ExitResource)
	if consumed > cycles-1 {
		t.Fatalf("consumed %d cycles exceeds the budget %d", consumed,
			cycles-1)
	}

	// A budget too small for any input fails regardless of workers.
	_, err = h.verify(tx, 0, 1000)
	if !errors.Is(err, ErrExceededMaxCycles) {
		t.Fatalf("tiny budget: got err %v, want %v", err,
			ErrExceededMaxCycles)
	}
}

// TestIdempotentCycles ensures verifying the same transaction repeatedly, both
// sequentially and in parallel, yields the same result and cycle count.
func TestIdempotentCycles(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	compressed := key.PubKey().SerializeCompressed()
	uncompressed := key.PubKey().SerializeUncompressed()
	tx := h.spendTx(h.p2pkhLock(compressed), h.p2pkhLock(uncompressed),
		h.p2pkhLock(compressed), h.p2pkhLock(uncompressed),
		h.p2pkhLock(compressed), h.p2pkhLock(compressed))
	p2pkh.SignTx(tx, 0, key, nil, false)
	p2pkh.SignTx(tx, 1, key, uncompressed, false)
	p2pkh.SignTx(tx, 2, key, compressed, true)
	p2pkh.SignTx(tx, 3, key, uncompressed, true)
	p2pkh.SignTx(tx, 4, key, compressed, false)
	p2pkh.SignTx(tx, 5, key, nil, false)

	want, err := h.verify(tx, 1, vm.DefaultMaxCycles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, workers := range []int{1, 2, 0, 16} {
		got, err := h.verify(tx, workers, vm.DefaultMaxCycles)
		if err != nil {
			t.Fatalf("#%d (%d workers): unexpected error: %v", i, workers, err)
		}
		if got != want {
			t.Fatalf("#%d (%d workers): got %d cycles, want %d", i, workers,
				got, want)
		}
	}
}

// TestDeterministicFailure ensures failing runs report the same input, error
// and consumed cycles regardless of the number of workers and scheduling.
func TestDeterministicFailure(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	other := newKey(t)
	lock := h.p2pkhLock(key.PubKey().SerializeCompressed())

	const numInputs = 12
	locks := make([]*cell.Script, numInputs)
	for i := range locks {
		locks[i] = lock
	}
	signAll := func(tx *cell.Transaction) {
		for i := 0; i < numInputs; i++ {
			p2pkh.SignTx(tx, i, key, nil, false)
		}
	}

	// The first input is signed by the wrong key.
	wrongSigner := h.spendTx(locks...)
	signAll(wrongSigner)
	p2pkh.SignTx(wrongSigner, 0, other, nil, false)

	// Every input is valid, but the budget only covers half of them.
	valid := h.spendTx(locks...)
	signAll(valid)
	total, err := h.verify(valid, 1, vm.DefaultMaxCycles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		tx        *cell.Transaction
		maxCycles uint64
		kind      ErrorKind
		input     int
		code      vm.ExitCode
	}{{
		name:      "wrong signer",
		tx:        wrongSigner,
		maxCycles: vm.DefaultMaxCycles,
		kind:      ErrValidationFailure,
		input:     0,
		code:      vm.ExitPubKeyHash,
	}, {
		name:      "half budget",
		tx:        valid,
		maxCycles: total / 2,
		kind:      ErrExceededMaxCycles,
		input:     numInputs / 2,
		code:      vm.ExitResource,
	}}

	for _, test := range tests {
		want, err := h.verify(test.tx, 1, test.maxCycles)
		checkVerifyError(t, test.name, err, test.kind, test.input, test.code)
		if err == nil {
			continue
		}
		if want > test.maxCycles {
			t.Errorf("%s: consumed %d cycles exceeds the budget %d",
				test.name, want, test.maxCycles)
		}
		wantErr := err.Error()

		for _, workers := range []int{1, 2, 0, 16} {
			for run := 0; run < 20; run++ {
				got, err := h.verify(test.tx, workers, test.maxCycles)
				checkVerifyError(t, test.name, err, test.kind, test.input,
					test.code)
				if got != want {
					t.Fatalf("%s (%d workers, run %d): got %d cycles, "+
						"want %d", test.name, workers, run, got, want)
				}
				if err == nil || err.Error() != wantErr {
					t.Fatalf("%s (%d workers, run %d): got err %q, want "+
						"%q", test.name, workers, run, err, wantErr)
				}
			}
		}
	}
}

// TestFirstFailureByInputOrder ensures the reported failure is the one with the
// lowest input index regardless of the number of workers.
func TestFirstFailureByInputOrder(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	other := newKey(t)
	lock := h.p2pkhLock(key.PubKey().SerializeCompressed())

	const numInputs = 12
	locks := make([]*cell.Script, numInputs)
	for i := range locks {
		locks[i] = lock
	}
	tx := h.spendTx(locks...)
	for i := 0; i < numInputs; i++ {
		switch i {
		case 4:
			p2pkh.SignTx(tx, i, other, nil, false)
		case 9:
			tx.SetWitness(i, cell.Witness{{0x01}})
		default:
			p2pkh.SignTx(tx, i, key, nil, false)
		}
	}

	for _, workers := range []int{1, 3, 0, numInputs} {
		for run := 0; run < 5; run++ {
			_, err := h.verify(tx, workers, vm.DefaultMaxCycles)
			checkVerifyError(t, "first failure", err, ErrValidationFailure,
				4, vm.ExitPubKeyHash)
		}
	}
}

// TestProgramLookup ensures lock programs are located by data hash and by type
// hash and that missing or ambiguous programs are rejected.
func TestProgramLookup(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	compressed := key.PubKey().SerializeCompressed()
	args := p2pkh.PubKeyHash(compressed)

	// Code cells carrying a type script so they can be referenced by type
	// hash.
	typeScript := cell.NewScript(chainhash.Hash{0x77}, cell.HashTypeData,
		[]byte("p2pkh upgradable"))
	alwaysFail := cell.NewScript(chainhash.Hash{}, cell.HashTypeData)
	typedCode := h.addCell(p2pkh.Binary, alwaysFail, typeScript)
	typedCopy := h.addCell(p2pkh.Binary, alwaysFail, typeScript)
	typedOther := h.addCell(multisig.Binary, alwaysFail, typeScript)
	unknownCode := h.addCell([]byte("unknown program"), alwaysFail, nil)

	byType := cell.NewScript(typeScript.Hash(), cell.HashTypeType, args)
	unknown := cell.NewScript(cell.CalcDataHash([]byte("unknown program")),
		cell.HashTypeData, args)
	missing := cell.NewScript(chainhash.Hash{0xee}, cell.HashTypeData, args)

	tests := []struct {
		name     string
		lock     *cell.Script
		codeDeps []cell.OutPoint
		kind     ErrorKind
	}{
		{"by data hash", h.p2pkhLock(compressed), []cell.OutPoint{h.p2pkhDep}, ""},
		{"by data hash duplicated", h.p2pkhLock(compressed), []cell.OutPoint{h.p2pkhDep, typedCode}, ""},
		{"by type hash", byType, []cell.OutPoint{typedCode}, ""},
		{"by type hash same binary", byType, []cell.OutPoint{typedCode, typedCopy}, ""},
		{"by type hash ambiguous", byType, []cell.OutPoint{typedCode, typedOther}, ErrMultipleMatchingScripts},
		{"by type hash without typed cell", byType, []cell.OutPoint{h.p2pkhDep}, ErrNoScript},
		{"unknown program", unknown, []cell.OutPoint{unknownCode}, ErrNoScript},
		{"no matching cell", missing, []cell.OutPoint{h.p2pkhDep}, ErrNoScript},
	}

	for _, test := range tests {
		tx := &cell.Transaction{Version: 1}
		for i := range test.codeDeps {
			tx.AddCellDep(&test.codeDeps[i], cell.DepTypeCode)
		}
		tx.AddCellDep(&h.secpDep, cell.DepTypeCode)
		op := h.addCell(nil, test.lock, nil)
		tx.AddInput(cell.NewCellInput(&op, 0))
		tx.AddOutput(cell.NewCellOutput(1, nil, test.lock), nil)
		p2pkh.SignTx(tx, 0, key, nil, false)

		_, err := h.verify(tx, 0, vm.DefaultMaxCycles)
		if test.kind == "" {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", test.name, err)
			}
			continue
		}
		checkVerifyError(t, test.name, err, test.kind, 0, vm.ExitSuccess)
	}
}

// TestMissingCoefficientTable ensures the lock program fails when the
// transaction does not provide the coefficient table.
func TestMissingCoefficientTable(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	lock := h.p2pkhLock(key.PubKey().SerializeCompressed())

	tx := &cell.Transaction{Version: 1}
	tx.AddCellDep(&h.p2pkhDep, cell.DepTypeCode)
	op := h.addCell(nil, lock, nil)
	tx.AddInput(cell.NewCellInput(&op, 0))
	p2pkh.SignTx(tx, 0, key, nil, false)

	_, err := h.verify(tx, 0, vm.DefaultMaxCycles)
	checkVerifyError(t, "missing table", err, ErrValidationFailure, 0,
		vm.ExitSecpData)
}

// TestMixedLocks ensures a transaction spending cells with different lock
// programs verifies each input with its own program.
func TestMixedLocks(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	k0, k1, k2 := newKey(t), newKey(t), newKey(t)
	script, err := multisig.NewScript(1, 2, k0.PubKey(), k1.PubKey(),
		k2.PubKey())
	if err != nil {
		t.Fatalf("NewScript: unexpected error: %v", err)
	}
	msLock := multisig.NewLockScript(h.multisigCodeHash, script)
	tx := h.spendTx(h.p2pkhLock(k0.PubKey().SerializeCompressed()), msLock)
	p2pkh.SignTx(tx, 0, k0, nil, false)
	if err := multisig.SignTx(tx, 1, script, k2, k0); err != nil {
		t.Fatalf("SignTx: unexpected error: %v", err)
	}
	if _, err := h.verify(tx, 0, vm.DefaultMaxCycles); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Without the required first key.
	if err := multisig.SignTx(tx, 1, script, k2, k1); err != nil {
		t.Fatalf("SignTx: unexpected error: %v", err)
	}
	_, err = h.verify(tx, 0, vm.DefaultMaxCycles)
	checkVerifyError(t, "multisig", err, ErrValidationFailure, 1,
		multisig.ExitVerification)
}

// TestSignerScenario exercises a single signer moving between compressed and
// uncompressed encodings of the same key and an impostor signing for it.
func TestSignerScenario(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	a := newKey(t)
	b := newKey(t)

	// Locked to the compressed key and spent with only a recoverable
	// signature.
	tx := h.spendTx(h.p2pkhLock(a.PubKey().SerializeCompressed()))
	p2pkh.SignTx(tx, 0, a, nil, false)
	if _, err := h.verify(tx, 0, vm.DefaultMaxCycles); err != nil {
		t.Fatalf("compressed: unexpected error: %v", err)
	}

	// Locked to the uncompressed key and spent with the key supplied.
	uncompressed := a.PubKey().SerializeUncompressed()
	tx = h.spendTx(h.p2pkhLock(uncompressed))
	p2pkh.SignTx(tx, 0, a, uncompressed, false)
	if _, err := h.verify(tx, 0, vm.DefaultMaxCycles); err != nil {
		t.Fatalf("uncompressed: unexpected error: %v", err)
	}

	// Signed by another key while still locked to the first.
	tx = h.spendTx(h.p2pkhLock(a.PubKey().SerializeCompressed()))
	p2pkh.SignTx(tx, 0, b, nil, false)
	_, err := h.verify(tx, 0, vm.DefaultMaxCycles)
	checkVerifyError(t, "impostor", err, ErrValidationFailure, 0,
		vm.ExitPubKeyHash)
}

// TestVerifyTx ensures unresolvable transactions are rejected before any
// program runs.
func TestVerifyTx(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	tx := h.spendTx(h.p2pkhLock(key.PubKey().SerializeCompressed()))
	p2pkh.SignTx(tx, 0, key, nil, false)

	v := New(&Config{Registry: h.registry})
	txHash, cycles, err := v.VerifyTx(context.Background(), tx, h.store,
		vm.DefaultMaxCycles)
	if err != nil || txHash != tx.TxHash() || cycles == 0 {
		t.Fatalf("got hash %v cycles %d (err %v)", txHash, cycles, err)
	}

	tx.AddInput(cell.NewCellInput(&cell.OutPoint{Hash: chainhash.Hash{0xde}}, 0))
	_, cycles, err = v.VerifyTx(context.Background(), tx, h.store,
		vm.DefaultMaxCycles)
	if !errors.Is(err, cell.ErrUnresolvedReference) || cycles != 0 {
		t.Fatalf("got cycles %d (err %v), want %v", cycles, err,
			cell.ErrUnresolvedReference)
	}
}

// TestVerifyCanceled ensures a canceled context aborts verification.
func TestVerifyCanceled(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	tx := h.spendTx(h.p2pkhLock(key.PubKey().SerializeCompressed()))
	p2pkh.SignTx(tx, 0, key, nil, false)
	rtx, err := cell.Resolve(tx, h.store)
	if err != nil {
		t.Fatalf("Resolve: unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := New(&Config{Registry: h.registry})
	if _, err := v.Verify(ctx, rtx, vm.DefaultMaxCycles); !errors.Is(err, context.Canceled) {
		t.Fatalf("got err %v, want %v", err, context.Canceled)
	}
}

// TestInvalidResolution ensures a resolved transaction missing input cells is
// rejected.
func TestInvalidResolution(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	key := newKey(t)
	tx := h.spendTx(h.p2pkhLock(key.PubKey().SerializeCompressed()))
	rtx, err := cell.Resolve(tx, h.store)
	if err != nil {
		t.Fatalf("Resolve: unexpected error: %v", err)
	}
	rtx.ResolvedInputs = nil

	v := New(&Config{Registry: h.registry})
	_, err = v.Verify(context.Background(), rtx, vm.DefaultMaxCycles)
	checkVerifyError(t, "no inputs", err, ErrInvalidResolution, -1,
		vm.ExitSuccess)
}

// TestInputStateStringer tests the stringized output for the InputState type.
func TestInputStateStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   InputState
		want string
	}{
		{InputPending, "InputPending"},
		{InputResolved, "InputResolved"},
		{InputScriptLoaded, "InputScriptLoaded"},
		{InputExecuting, "InputExecuting"},
		{InputPassed, "InputPassed"},
		{InputFailed, "InputFailed"},
		{0xff, "Unknown InputState (255)"},
	}

	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result, test.want)
		}
	}
}
