// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2pkh

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// RecoverableSigLen is the length of a recoverable signature: the 32
	// byte R and S values followed by a one byte recovery identifier.
	RecoverableSigLen = 65

	// PlainSigLen is the length of a plain signature: the 32 byte R and S
	// values.
	PlainSigLen = 64

	// compactSigMagicOffset is the value added to the recovery identifier
	// in the leading byte of the compact signatures used by the ecdsa
	// package.  compactSigCompPubKey is added on top for compressed keys.
	compactSigMagicOffset = 27
	compactSigCompPubKey  = 4
)

// Signature is a parsed witness signature.  It is either a
// *RecoverableSignature or a *PlainSignature.
type Signature interface {
	// SerializeWitness returns the witness encoding of the signature.
	SerializeWitness() []byte

	signature()
}

// RecoverableSignature is a signature that carries a recovery identifier
// which allows the signing public key to be recovered from the signature and
// the message alone.
type RecoverableSignature struct {
	RS         [PlainSigLen]byte
	RecoveryID byte
}

// PlainSignature is a signature without a recovery identifier.  The public
// key must be supplied separately.
type PlainSignature struct {
	RS [PlainSigLen]byte
}

func (*RecoverableSignature) signature() {}
func (*PlainSignature) signature()       {}

// SerializeWitness returns the 65 byte witness encoding of the signature.
func (sig *RecoverableSignature) SerializeWitness() []byte {
	b := make([]byte, RecoverableSigLen)
	copy(b, sig.RS[:])
	b[PlainSigLen] = sig.RecoveryID
	return b
}

// SerializeWitness returns the 64 byte witness encoding of the signature.
func (sig *PlainSignature) SerializeWitness() []byte {
	return append([]byte(nil), sig.RS[:]...)
}

// ParseSignature parses a witness signature, selecting the form by length.
// Any length other than RecoverableSigLen or PlainSigLen is rejected with
// ErrSigLength.
func ParseSignature(b []byte) (Signature, error) {
	switch len(b) {
	case RecoverableSigLen:
		sig := &RecoverableSignature{RecoveryID: b[PlainSigLen]}
		copy(sig.RS[:], b)
		return sig, nil

	case PlainSigLen:
		sig := &PlainSignature{}
		copy(sig.RS[:], b)
		return sig, nil
	}

	str := fmt.Sprintf("malformed signature: length %d is neither %d nor %d",
		len(b), RecoverableSigLen, PlainSigLen)
	return nil, lockError(ErrSigLength, str)
}

// RecoverPubKey recovers the public key that produced the signature over the
// provided hash.
func (sig *RecoverableSignature) RecoverPubKey(hash []byte) (*secp256k1.PublicKey, error) {
	if sig.RecoveryID > 3 {
		str := fmt.Sprintf("recovery id %d is not in the range [0, 3]",
			sig.RecoveryID)
		return nil, lockError(ErrSigRecoveryID, str)
	}

	var compact [RecoverableSigLen]byte
	compact[0] = compactSigMagicOffset + compactSigCompPubKey + sig.RecoveryID
	copy(compact[1:], sig.RS[:])
	pubKey, _, err := ecdsa.RecoverCompact(compact[:], hash)
	if err != nil {
		str := fmt.Sprintf("unable to recover public key: %v", err)
		return nil, lockError(ErrSigRecover, str)
	}
	return pubKey, nil
}

// Verify returns whether the signature is valid for the provided hash and
// public key.  Signatures with an S value over half the group order are
// rejected so that every valid signature has exactly one encoding.
func (sig *PlainSignature) Verify(hash []byte, pubKey *secp256k1.PublicKey) bool {
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig.RS[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(sig.RS[32:]); overflow || s.IsZero() {
		return false
	}
	if s.IsOverHalfOrder() {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(hash, pubKey)
}
