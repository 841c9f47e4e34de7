// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2pkh

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/crypto/ripemd160"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// PubKeyHashLen is the length of the public key hash a lock script
	// commits to.
	PubKeyHashLen = ripemd160.Size

	pubKeyCompressedLen   = secp256k1.PubKeyBytesLenCompressed
	pubKeyUncompressedLen = secp256k1.PubKeyBytesLenUncompressed
)

// PubKeyHash returns RIPEMD160(SHA256(serializedPubKey)).  The hash is taken
// over the serialization as supplied, so the compressed and uncompressed
// encodings of the same key hash differently.
func PubKeyHash(serializedPubKey []byte) []byte {
	sha := sha256.Sum256(serializedPubKey)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

// checkPubKeyFormat ensures the serialized public key is either a 33 byte
// compressed key with a 0x02 or 0x03 tag or a 65 byte uncompressed key with a
// 0x04 tag.  It does not check the key is a valid curve point.
func checkPubKeyFormat(b []byte) error {
	switch {
	case len(b) == pubKeyCompressedLen &&
		(b[0] == secp256k1.PubKeyFormatCompressedEven ||
			b[0] == secp256k1.PubKeyFormatCompressedOdd):
		return nil

	case len(b) == pubKeyUncompressedLen &&
		b[0] == secp256k1.PubKeyFormatUncompressed:
		return nil
	}

	str := "malformed public key: empty"
	if len(b) > 0 {
		str = fmt.Sprintf("malformed public key: length %d with tag %#02x",
			len(b), b[0])
	}
	return lockError(ErrPubKeyFormat, str)
}

// ParsePubKey parses a compressed or uncompressed public key.  A key with an
// invalid length or tag is rejected with ErrPubKeyFormat and a well formed key
// that is not on the curve with ErrPubKeyPoint.
func ParsePubKey(b []byte) (*secp256k1.PublicKey, error) {
	if err := checkPubKeyFormat(b); err != nil {
		return nil, err
	}
	pubKey, err := secp256k1.ParsePubKey(b)
	if err != nil {
		str := fmt.Sprintf("invalid public key: %v", err)
		return nil, lockError(ErrPubKeyPoint, str)
	}
	return pubKey, nil
}

// compressedHint returns whether the auxiliary witness element requests the
// compressed encoding of a recovered key.  An empty element selects the
// compressed encoding.
func compressedHint(aux []byte) (bool, error) {
	switch len(aux) {
	case 0:
		return true, nil
	case pubKeyCompressedLen, pubKeyUncompressedLen:
		if err := checkPubKeyFormat(aux); err != nil {
			return false, err
		}
		return len(aux) == pubKeyCompressedLen, nil
	}

	str := fmt.Sprintf("auxiliary element of length %d is not a public key",
		len(aux))
	return false, lockError(ErrPubKeyFormat, str)
}

// serializePubKey returns the requested encoding of the public key.
func serializePubKey(pubKey *secp256k1.PublicKey, compressed bool) []byte {
	if compressed {
		return pubKey.SerializeCompressed()
	}
	return pubKey.SerializeUncompressed()
}
