// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package multisig implements the threshold multisig sighash-all lock program.
//
// The lock script commits to the blake160 hash of a multisig script as its
// first argument.  The witness of a spending input is a single element:
//
//	S | R | M | N | pubkey_1 ... pubkey_N | sig_1 ... sig_M
//
// S is reserved, R is the number of leading keys that must sign, M is the
// threshold (zero means all N keys) and N is the number of 33 byte compressed
// keys.  Each 65 byte recoverable signature is over the hash of the
// transaction hash followed by the witness element with every signature byte
// zeroed.  Every signature must recover a distinct key of the script.
package multisig

import (
	"bytes"

	"github.com/decred/cellverify/locks/p2pkh"
	"github.com/decred/cellverify/locks/secpdata"
	"github.com/decred/cellverify/vm"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"lukechampine.com/blake3"
)

const (
	// Name is the human-readable name of the program.
	Name = "secp256k1-blake160-multisig-all"

	// MaxWitnessSize is the size of the buffer the witness element is
	// loaded into.  Larger elements exhaust the program's resources.
	MaxWitnessSize = 32768

	// sigHashContext separates signature hashes from every other hash.
	sigHashContext = "cellverify 2026-10-18 multisig signature hash"
)

// These constants define the program specific exit codes.
const (
	// ExitArgsLen indicates the lock script argument is not a script hash.
	ExitArgsLen = vm.ExitEncoding

	// ExitWitnessEncoding indicates the witness entry does not have
	// exactly one element.
	ExitWitnessEncoding = vm.ExitArgs

	// ExitRecoverPubKey indicates a public key could not be recovered from
	// a signature.
	ExitRecoverPubKey vm.ExitCode = -11

	// ExitParseSignature indicates a signature has an invalid recovery id
	// or out of range R or S values.
	ExitParseSignature vm.ExitCode = -13

	// ExitWitnessLen indicates the witness element length does not match
	// the script it declares.
	ExitWitnessLen vm.ExitCode = -21

	// ExitPubKeysCount indicates the script has no public keys.
	ExitPubKeysCount vm.ExitCode = -22

	// ExitThreshold indicates the threshold exceeds the number of keys.
	ExitThreshold vm.ExitCode = -23

	// ExitRequireFirstN indicates more leading keys are required than
	// signatures.
	ExitRequireFirstN vm.ExitCode = -24

	// ExitScriptHash indicates the script does not hash to the lock
	// script argument.
	ExitScriptHash vm.ExitCode = -31

	// ExitVerification indicates a signature did not recover an unused key
	// of the script or a required leading key did not sign.
	ExitVerification vm.ExitCode = -32
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

// CalcSigHash returns the message the signatures in the provided witness
// element sign.  The element must hold a script of scriptLen bytes followed
// by the signatures, which are treated as zero.
func CalcSigHash(txHash chainhash.Hash, elem []byte, scriptLen int) chainhash.Hash {
	msg := make([]byte, 0, chainhash.HashSize+len(elem))
	msg = append(msg, txHash[:]...)
	msg = append(msg, elem[:scriptLen]...)
	msg = append(msg, make([]byte, len(elem)-scriptLen)...)

	var hash chainhash.Hash
	blake3.DeriveKey(hash[:], sigHashContext, msg)
	return hash
}

// parseSignature parses the recoverable signature ensuring the R and S values
// are in range.
func parseSignature(b []byte) (*p2pkh.RecoverableSignature, bool) {
	sig := &p2pkh.RecoverableSignature{RecoveryID: b[p2pkh.PlainSigLen]}
	copy(sig.RS[:], b)
	if sig.RecoveryID > 3 {
		return nil, false
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig.RS[:32]) || s.SetByteSlice(sig.RS[32:]) {
		return nil, false
	}
	return sig, true
}

// Run executes the lock program.
func (Program) Run(m *vm.Machine) (vm.ExitCode, error) {
	args, err := m.LoadScriptArgs()
	if err != nil {
		return vm.ExitResource, err
	}
	if len(args) < 1 || len(args[0]) != ScriptHashLen {
		return ExitArgsLen, nil
	}

	if code, err := secpdata.Load(m); code != vm.ExitSuccess {
		return code, err
	}

	witness, err := m.LoadWitness()
	if err != nil {
		return vm.ExitResource, err
	}
	if len(witness) != 1 {
		return ExitWitnessEncoding, nil
	}
	elem := witness[0]
	if len(elem) > MaxWitnessSize {
		return vm.ExitResource, nil
	}
	if len(elem) < FlagsSize {
		return ExitWitnessLen, nil
	}

	numPubKeys := int(elem[3])
	threshold := int(elem[2])
	requireFirstN := int(elem[1])
	if numPubKeys == 0 {
		return ExitPubKeysCount, nil
	}
	if threshold > numPubKeys {
		return ExitThreshold, nil
	}
	if threshold == 0 {
		threshold = numPubKeys
	}
	if requireFirstN > threshold {
		return ExitRequireFirstN, nil
	}
	scriptLen := FlagsSize + numPubKeys*PubKeySize
	if len(elem) != scriptLen+threshold*SignatureSize {
		return ExitWitnessLen, nil
	}
	script := decodeScript(elem)

	if err := m.Charge(vm.HashCycles(scriptLen)); err != nil {
		return vm.ExitResource, err
	}
	if !bytes.Equal(Blake160(elem[:scriptLen]), args[0]) {
		return ExitScriptHash, nil
	}

	txHash, err := m.LoadTxHash()
	if err != nil {
		return vm.ExitResource, err
	}
	if err := m.Charge(vm.HashCycles(chainhash.HashSize + len(elem))); err != nil {
		return vm.ExitResource, err
	}
	sigHash := CalcSigHash(txHash, elem, scriptLen)

	used := make([]bool, numPubKeys)
	for i := 0; i < threshold; i++ {
		offset := scriptLen + i*SignatureSize
		sig, ok := parseSignature(elem[offset : offset+SignatureSize])
		if !ok {
			return ExitParseSignature, nil
		}
		if err := m.Charge(vm.SecpRecoverCycles); err != nil {
			return vm.ExitResource, err
		}
		pubKey, err := sig.RecoverPubKey(sigHash[:])
		if err != nil {
			return ExitRecoverPubKey, nil
		}
		recovered := pubKey.SerializeCompressed()

		matched := false
		for j, scriptKey := range script.PubKeys {
			if used[j] || !bytes.Equal(scriptKey, recovered) {
				continue
			}
			used[j] = true
			matched = true
			break
		}
		if !matched {
			return ExitVerification, nil
		}
	}

	for i := 0; i < requireFirstN; i++ {
		if !used[i] {
			return ExitVerification, nil
		}
	}
	return vm.ExitSuccess, nil
}
