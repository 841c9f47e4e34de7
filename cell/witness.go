// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"
)

// WitnessArgsLen is the exact number of elements a witness entry must have to
// be decoded as witness arguments.
const WitnessArgsLen = 2

// WitnessArgs is the decoded form of an input's witness entry.  The auxiliary
// element may be empty.
type WitnessArgs struct {
	Signature []byte
	Auxiliary []byte
}

// DecodeWitnessArgs decodes a witness entry into its signature and auxiliary
// elements.  Any element count other than WitnessArgsLen is rejected with
// ErrMalformedWitness.  No limit is imposed on the element sizes.
func DecodeWitnessArgs(w Witness) (*WitnessArgs, error) {
	if len(w) != WitnessArgsLen {
		str := fmt.Sprintf("witness has %d elements instead of %d", len(w),
			WitnessArgsLen)
		return nil, ruleError(ErrMalformedWitness, str)
	}
	return &WitnessArgs{
		Signature: w[0],
		Auxiliary: w[1],
	}, nil
}

// Encode returns the witness entry for the arguments.  A nil auxiliary element
// is encoded as an empty element.
func (a *WitnessArgs) Encode() Witness {
	aux := a.Auxiliary
	if aux == nil {
		aux = []byte{}
	}
	return Witness{a.Signature, aux}
}
