// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2pkh

import (
	"github.com/decred/cellverify/cell"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SignRecoverable returns the 65 byte recoverable signature of the hash.
func SignRecoverable(key *secp256k1.PrivateKey, hash []byte) []byte {
	compact := ecdsa.SignCompact(key, hash, true)
	sig := RecoverableSignature{
		RecoveryID: (compact[0] - compactSigMagicOffset) &^ compactSigCompPubKey,
	}
	copy(sig.RS[:], compact[1:])
	return sig.SerializeWitness()
}

// SignPlain returns the 64 byte plain signature of the hash.
func SignPlain(key *secp256k1.PrivateKey, hash []byte) []byte {
	compact := ecdsa.SignCompact(key, hash, true)
	var sig PlainSignature
	copy(sig.RS[:], compact[1:])
	return sig.SerializeWitness()
}

// SignTx signs the hash of the transaction for the input at the provided
// index and sets its witness.  A nil pubKey produces a recoverable signature
// with an empty auxiliary element.  Otherwise pubKey must be a serialization
// of the signing key and is placed in the auxiliary element, with a plain
// signature when plain is true and a recoverable one otherwise.
func SignTx(tx *cell.Transaction, index int, key *secp256k1.PrivateKey,
	pubKey []byte, plain bool) {

	txHash := tx.TxHash()
	args := cell.WitnessArgs{Auxiliary: pubKey}
	if plain {
		args.Signature = SignPlain(key, txHash[:])
	} else {
		args.Signature = SignRecoverable(key, txHash[:])
	}
	tx.SetWitness(index, args.Encode())
}
