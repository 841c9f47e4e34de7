// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"bytes"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"lukechampine.com/blake3"
)

// These context strings separate the hash domains.  They must never change
// since every committed cell and signature depends on them.
const (
	txHashContext     = "cellverify 2026-10-18 transaction hash"
	dataHashContext   = "cellverify 2026-10-18 cell data hash"
	scriptHashContext = "cellverify 2026-10-18 script hash"
)

// deriveHash returns the BLAKE3 hash of b in derive key mode with the provided
// context string.
func deriveHash(context string, b []byte) chainhash.Hash {
	var hash chainhash.Hash
	blake3.DeriveKey(hash[:], context, b)
	return hash
}

// CalcDataHash returns the hash that commits to the provided cell data.
func CalcDataHash(data []byte) chainhash.Hash {
	return deriveHash(dataHashContext, data)
}

// Hash returns the hash of the script.  Programs bound with HashTypeType are
// located by comparing this hash against the type script of each dependency.
func (s *Script) Hash() chainhash.Hash {
	var buf bytes.Buffer
	if err := writeScript(&buf, s); err != nil {
		// Writes to a bytes.Buffer never fail outside of out of memory
		// conditions which panic anyway.
		panic(err)
	}
	return deriveHash(scriptHashContext, buf.Bytes())
}

// mustSerialize returns the serialization of the transaction for the provided
// serialization type without modifying the original transaction.  It will
// panic if any errors occur.
func (tx *Transaction) mustSerialize(serType serializeType) []byte {
	var buf bytes.Buffer
	if err := tx.serialize(&buf, serType); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// TxHash generates the hash for the transaction.  The hash covers the
// version, cell dependencies, inputs, outputs and output data.  It does not
// cover the witnesses, so it is the message that witness signatures
// authenticate.
func (tx *Transaction) TxHash() chainhash.Hash {
	return deriveHash(txHashContext, tx.mustSerialize(serializeNoWitness))
}
