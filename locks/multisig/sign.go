// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package multisig

import (
	"fmt"

	"github.com/decred/cellverify/cell"
	"github.com/decred/cellverify/locks/p2pkh"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// NewLockScript returns a lock script for the program with the provided code
// hash that is satisfied by the multisig script.
func NewLockScript(codeHash chainhash.Hash, script *Script) *cell.Script {
	return cell.NewScript(codeHash, cell.HashTypeData, script.Hash())
}

// SignTx signs the transaction for the input at the provided index with the
// provided keys and sets its witness.  Exactly the number of signatures the
// script requires must be provided, in the order they are to appear.
func SignTx(tx *cell.Transaction, index int, script *Script,
	keys ...*secp256k1.PrivateKey) error {

	if len(keys) != script.RequiredSigs() {
		return fmt.Errorf("script requires %d signatures, got %d keys",
			script.RequiredSigs(), len(keys))
	}

	serialized := script.Serialize()
	scriptLen := len(serialized)
	elem := make([]byte, scriptLen+len(keys)*SignatureSize)
	copy(elem, serialized)

	sigHash := CalcSigHash(tx.TxHash(), elem, scriptLen)
	for i, key := range keys {
		offset := scriptLen + i*SignatureSize
		copy(elem[offset:], p2pkh.SignRecoverable(key, sigHash[:]))
	}
	tx.SetWitness(index, cell.Witness{elem})
	return nil
}
