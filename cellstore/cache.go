// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cellstore

import (
	"sync/atomic"

	"github.com/decred/cellverify/cell"
	"github.com/decred/dcrd/container/lru"
)

// DefaultCacheSize is the default number of cells a CachedStore keeps.
const DefaultCacheSize = 10000

// CachedStore is a Store that keeps the most recently used cells of an
// underlying store in memory.  Missing cells are not cached.
type CachedStore struct {
	store  Store
	cache  *lru.Map[cell.OutPoint, *cell.CellMeta]
	closed atomic.Bool
}

// Ensure CachedStore implements the Store interface.
var _ Store = (*CachedStore)(nil)

// NewCachedStore returns a store that caches up to limit cells of the provided
// store.
func NewCachedStore(store Store, limit uint32) *CachedStore {
	return &CachedStore{
		store: store,
		cache: lru.NewMap[cell.OutPoint, *cell.CellMeta](limit),
	}
}

// FetchCell returns the cell at the provided out point from the cache, falling
// back to the underlying store.
//
// This is part of the Store interface.
func (c *CachedStore) FetchCell(op cell.OutPoint) (*cell.CellMeta, error) {
	if c.closed.Load() {
		return nil, storeError(ErrDbNotOpen, "cell store is closed")
	}
	if meta, ok := c.cache.Get(op); ok {
		return meta, nil
	}
	meta, err := c.store.FetchCell(op)
	if err != nil || meta == nil {
		return nil, err
	}
	c.cache.Put(op, meta)
	return meta, nil
}

// PutCell writes the cell through to the underlying store.
//
// This is part of the Store interface.
func (c *CachedStore) PutCell(meta *cell.CellMeta) error {
	if err := c.store.PutCell(meta); err != nil {
		c.cache.Delete(meta.OutPoint)
		return err
	}
	c.cache.Put(meta.OutPoint, meta)
	return nil
}

// Close closes the underlying store.
//
// This is part of the Store interface.
func (c *CachedStore) Close() error {
	c.closed.Store(true)
	log.Debugf("Closing cell store with %d cached cells", c.cache.Len())
	return c.store.Close()
}
