// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"sync/atomic"
)

// DefaultMaxCycles is the default cycle limit of a verification run.
const DefaultMaxCycles = 70000000

// CycleBudget is a cycle allowance shared by every program executed as part of
// a single verification run.  It is safe for concurrent use and is the only
// mutable state shared between concurrently executing programs.
type CycleBudget struct {
	limit     uint64
	remaining atomic.Uint64
}

// NewCycleBudget returns a budget that allows up to limit cycles in total.
func NewCycleBudget(limit uint64) *CycleBudget {
	b := &CycleBudget{limit: limit}
	b.remaining.Store(limit)
	return b
}

// Charge atomically deducts the provided number of cycles from the budget.  A
// charge that exceeds the remaining cycles is rejected as a whole with
// ErrExceededMaxCycles and leaves the budget unchanged.
func (b *CycleBudget) Charge(cycles uint64) error {
	for {
		remaining := b.remaining.Load()
		if cycles > remaining {
			str := fmt.Sprintf("charging %d cycles exceeds the %d remaining "+
				"of the %d cycle budget", cycles, remaining, b.limit)
			return machineError(ErrExceededMaxCycles, str)
		}
		if b.remaining.CompareAndSwap(remaining, remaining-cycles) {
			return nil
		}
	}
}

// Remaining returns the number of cycles left in the budget.
func (b *CycleBudget) Remaining() uint64 {
	return b.remaining.Load()
}

// Consumed returns the number of cycles charged against the budget so far.
func (b *CycleBudget) Consumed() uint64 {
	return b.limit - b.remaining.Load()
}

// Limit returns the total number of cycles the budget was created with.
func (b *CycleBudget) Limit() uint64 {
	return b.limit
}
