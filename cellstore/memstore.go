// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cellstore

import (
	"sync"

	"github.com/decred/cellverify/cell"
)

// MemStore is a Store that keeps every cell in memory.  It is primarily
// useful for tests and fixtures.
type MemStore struct {
	mtx    sync.RWMutex
	cells  map[cell.OutPoint]*cell.CellMeta
	closed bool
}

// Ensure MemStore implements the Store interface.
var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		cells: make(map[cell.OutPoint]*cell.CellMeta),
	}
}

// FetchCell returns the cell at the provided out point or nil when it does not
// exist.
//
// This is part of the Store interface.
func (s *MemStore) FetchCell(op cell.OutPoint) (*cell.CellMeta, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	if s.closed {
		return nil, storeError(ErrDbNotOpen, "memory store is closed")
	}
	return s.cells[op], nil
}

// PutCell adds or replaces the provided cell.
//
// This is part of the Store interface.
func (s *MemStore) PutCell(meta *cell.CellMeta) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return storeError(ErrDbNotOpen, "memory store is closed")
	}
	s.cells[meta.OutPoint] = meta
	return nil
}

// Close marks the store closed.
//
// This is part of the Store interface.
func (s *MemStore) Close() error {
	s.mtx.Lock()
	s.closed = true
	s.mtx.Unlock()
	return nil
}
