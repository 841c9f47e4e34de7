// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package p2pkh implements the pay-to-public-key-hash sighash-all lock
// program.
//
// The lock script commits to RIPEMD160(SHA256(pubkey)) as its first argument.
// The witness of a spending input is exactly [signature, auxiliary] where the
// signature is over the transaction hash and is either:
//
//   - 65 bytes: recoverable.  The key is recovered from the signature.  The
//     auxiliary element is either empty, which selects the compressed key
//     encoding, or the public key itself in the encoding to hash.
//   - 64 bytes: plain.  The auxiliary element must be the 33 byte compressed
//     or 65 byte uncompressed public key.
//
// See the vm package for the exit codes.
package p2pkh

import (
	"bytes"

	"github.com/decred/cellverify/cell"
	"github.com/decred/cellverify/locks/secpdata"
	"github.com/decred/cellverify/vm"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

const (
	// Name is the human-readable name of the program.
	Name = "secp256k1-ripemd160-sha256-sighash-all"

	// MaxWitnessSize is the size of the buffer each witness element is
	// loaded into.  Larger elements exhaust the program's resources.
	MaxWitnessSize = 32768
)

// Binary is the program binary stored in the code cell that lock scripts
// reference by data hash.
var Binary = []byte("cellverify lock program: " + Name + " v1")

// Program is the lock program.
type Program struct{}

// Ensure Program implements the vm.Program interface.
var _ vm.Program = Program{}

// Register registers the program with the registry and returns the code hash
// lock scripts use to reference it.
func Register(r *vm.Registry) (chainhash.Hash, error) {
	return r.Register(Name, Binary, Program{})
}

// NewLockScript returns a lock script for the program with the provided code
// hash that is satisfied by signatures from the serialized public key.
func NewLockScript(codeHash chainhash.Hash, serializedPubKey []byte) *cell.Script {
	return cell.NewScript(codeHash, cell.HashTypeData, PubKeyHash(serializedPubKey))
}

// Run executes the lock program.
func (Program) Run(m *vm.Machine) (vm.ExitCode, error) {
	args, err := m.LoadScriptArgs()
	if err != nil {
		return vm.ExitResource, err
	}
	if len(args) < 1 || len(args[0]) != PubKeyHashLen {
		return vm.ExitEncoding, nil
	}
	wantHash := args[0]

	if code, err := secpdata.Load(m); code != vm.ExitSuccess {
		return code, err
	}

	witness, err := m.LoadWitness()
	if err != nil {
		return vm.ExitResource, err
	}
	wargs, err := cell.DecodeWitnessArgs(witness)
	if err != nil {
		return vm.ExitArgs, nil
	}
	if len(wargs.Signature) > MaxWitnessSize ||
		len(wargs.Auxiliary) > MaxWitnessSize {

		return vm.ExitResource, nil
	}
	sig, err := ParseSignature(wargs.Signature)
	if err != nil {
		return vm.ExitArgs, nil
	}

	txHash, err := m.LoadTxHash()
	if err != nil {
		return vm.ExitResource, err
	}

	var pubKey []byte
	switch sig := sig.(type) {
	case *RecoverableSignature:
		compressed, err := compressedHint(wargs.Auxiliary)
		if err != nil {
			return vm.ExitArgs, nil
		}
		if err := m.Charge(vm.SecpRecoverCycles); err != nil {
			return vm.ExitResource, err
		}
		recovered, err := sig.RecoverPubKey(txHash[:])
		if err != nil {
			return vm.ExitVerify, nil
		}
		pubKey = serializePubKey(recovered, compressed)
		if len(wargs.Auxiliary) != 0 && !bytes.Equal(pubKey, wargs.Auxiliary) {
			return vm.ExitVerify, nil
		}

	case *PlainSignature:
		if err := checkPubKeyFormat(wargs.Auxiliary); err != nil {
			return vm.ExitArgs, nil
		}
		if err := m.Charge(vm.SecpParsePubKeyCycles); err != nil {
			return vm.ExitResource, err
		}
		parsed, err := ParsePubKey(wargs.Auxiliary)
		if err != nil {
			return vm.ExitVerify, nil
		}
		if err := m.Charge(vm.SecpVerifyCycles); err != nil {
			return vm.ExitResource, err
		}
		if !sig.Verify(txHash[:], parsed) {
			return vm.ExitVerify, nil
		}
		pubKey = wargs.Auxiliary
	}

	// SHA256 over the key followed by RIPEMD160 over the 32 byte digest.
	if err := m.Charge(vm.HashCycles(len(pubKey)) + vm.HashCycles(32)); err != nil {
		return vm.ExitResource, err
	}
	if !bytes.Equal(PubKeyHash(pubKey), wantHash) {
		return vm.ExitPubKeyHash, nil
	}
	return vm.ExitSuccess, nil
}
