// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package multisig

import (
	"fmt"

	"github.com/decred/cellverify/locks/p2pkh"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// FlagsSize is the size of the S, R, M and N header bytes.
	FlagsSize = 4

	// PubKeySize is the size of each compressed public key in the script.
	PubKeySize = secp256k1.PubKeyBytesLenCompressed

	// SignatureSize is the size of each recoverable signature.
	SignatureSize = p2pkh.RecoverableSigLen

	// ScriptHashLen is the length of the script hash lock scripts commit
	// to.
	ScriptHashLen = 20

	// MaxPubKeys is the maximum number of keys a script may contain.
	MaxPubKeys = 255
)

// Script is a threshold multisig script.  Any Threshold of the keys must sign
// and the first RequireFirstN keys must be among the signers.  A zero
// Threshold requires every key.
type Script struct {
	RequireFirstN uint8
	Threshold     uint8
	PubKeys       [][]byte
}

// NewScript returns a script for the provided compressed public keys.  It
// returns an error when the parameters do not describe a satisfiable script.
func NewScript(requireFirstN, threshold uint8, pubKeys ...*secp256k1.PublicKey) (*Script, error) {
	if len(pubKeys) == 0 || len(pubKeys) > MaxPubKeys {
		return nil, fmt.Errorf("invalid number of public keys %d",
			len(pubKeys))
	}
	if int(threshold) > len(pubKeys) {
		return nil, fmt.Errorf("threshold %d exceeds the %d public keys",
			threshold, len(pubKeys))
	}
	s := &Script{
		RequireFirstN: requireFirstN,
		Threshold:     threshold,
		PubKeys:       make([][]byte, 0, len(pubKeys)),
	}
	for _, pubKey := range pubKeys {
		s.PubKeys = append(s.PubKeys, pubKey.SerializeCompressed())
	}
	if int(requireFirstN) > s.RequiredSigs() {
		return nil, fmt.Errorf("require first %d exceeds the %d required "+
			"signatures", requireFirstN, s.RequiredSigs())
	}
	return s, nil
}

// RequiredSigs returns the number of signatures the script requires.
func (s *Script) RequiredSigs() int {
	if s.Threshold == 0 {
		return len(s.PubKeys)
	}
	return int(s.Threshold)
}

// Serialize returns the S | R | M | N | pubkeys encoding of the script.  The
// reserved S byte is always zero.
func (s *Script) Serialize() []byte {
	b := make([]byte, FlagsSize, FlagsSize+len(s.PubKeys)*PubKeySize)
	b[1] = s.RequireFirstN
	b[2] = s.Threshold
	b[3] = uint8(len(s.PubKeys))
	for _, pubKey := range s.PubKeys {
		b = append(b, pubKey...)
	}
	return b
}

// Hash returns the blake160 hash of the serialized script that lock scripts
// commit to.
func (s *Script) Hash() []byte {
	return Blake160(s.Serialize())
}

// Blake160 returns the first 20 bytes of the BLAKE-256 hash of b.
func Blake160(b []byte) []byte {
	return chainhash.HashB(b)[:ScriptHashLen]
}

// decodeScript decodes the script header and public keys at the start of b.
// The caller must ensure b holds the public keys the header declares.
func decodeScript(b []byte) *Script {
	n := int(b[3])
	s := &Script{
		RequireFirstN: b[1],
		Threshold:     b[2],
		PubKeys:       make([][]byte, 0, n),
	}
	for i := 0; i < n; i++ {
		offset := FlagsSize + i*PubKeySize
		s.PubKeys = append(s.PubKeys, b[offset:offset+PubKeySize])
	}
	return s
}
