// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

// These constants define the cycle cost schedule.  Every cost is a fixed
// function of the sizes involved so that the number of cycles consumed by a
// program is identical across runs.
const (
	// SyscallCycles is the base cost of every syscall.
	SyscallCycles = 500

	// ByteCycles is the cost per byte loaded into the machine, including
	// the program binary itself.
	ByteCycles = 1

	// HashBaseCycles is the base cost of a hash invocation.
	HashBaseCycles = 200

	// HashBlockCycles is the cost per 64 byte block hashed.
	HashBlockCycles = 120

	// SecpRecoverCycles is the cost of recovering a public key from a
	// recoverable signature.
	SecpRecoverCycles = 1200000

	// SecpVerifyCycles is the cost of verifying a signature against a
	// public key.
	SecpVerifyCycles = 1100000

	// SecpParsePubKeyCycles is the cost of parsing and validating a
	// serialized public key.
	SecpParsePubKeyCycles = 50000
)

// HashCycles returns the cost of hashing n bytes.
func HashCycles(n int) uint64 {
	return HashBaseCycles + uint64((n+63)/64)*HashBlockCycles
}

// loadCycles returns the cost of a syscall that loads n bytes.
func loadCycles(n int) uint64 {
	return SyscallCycles + uint64(n)*ByteCycles
}
