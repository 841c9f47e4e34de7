// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cellstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/decred/cellverify/cell"
	bolt "go.etcd.io/bbolt"
)

const (
	// boltDbType is the database type of the bolt driver.
	boltDbType = "bolt"

	// boltDbFile is the name of the database file within the store path.
	boltDbFile = "cells.db"
)

// cellsBucket is the name of the bucket that houses every cell.
var cellsBucket = []byte("cells")

// boltStore implements the Store interface using an underlying bolt database.
type boltStore struct {
	db *bolt.DB
}

// Ensure boltStore implements the Store interface.
var _ Store = (*boltStore)(nil)

// convertBoltErr converts the passed bolt error into a store error with an
// equivalent error kind.
func convertBoltErr(boltErr error, desc string) Error {
	kind := ErrBackend
	switch {
	case errors.Is(boltErr, bolt.ErrDatabaseNotOpen):
		kind = ErrDbNotOpen
	case errors.Is(boltErr, bolt.ErrInvalid),
		errors.Is(boltErr, bolt.ErrChecksum),
		errors.Is(boltErr, bolt.ErrVersionMismatch):
		kind = ErrCorruption
	}

	err := storeError(kind, fmt.Sprintf("%s: %v", desc, boltErr))
	err.RawErr = boltErr
	return err
}

// openBoltStore opens (or creates when needed) the bolt cell store at the
// provided path.
func openBoltStore(path string) (Store, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, storeError(ErrBackend, err.Error())
	}
	db, err := bolt.Open(filepath.Join(path, boltDbFile), 0600,
		&bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, convertBoltErr(err, "failed to open cell store")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cellsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, convertBoltErr(err, "failed to create cells bucket")
	}
	return &boltStore{db: db}, nil
}

// FetchCell returns the cell at the provided out point.  It returns nil for
// both the cell and the error if the database does not contain it.
//
// This is part of the Store interface.
func (b *boltStore) FetchCell(op cell.OutPoint) (*cell.CellMeta, error) {
	var serialized []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(cellsBucket).Get(outPointKey(&op))
		if v != nil {
			// Values are only valid for the life of the transaction.
			serialized = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		str := fmt.Sprintf("failed to fetch cell %v from bolt", op)
		return nil, convertBoltErr(err, str)
	}
	if serialized == nil {
		return nil, nil
	}
	return deserializeCellEntry(&op, serialized)
}

// PutCell adds or replaces the provided cell.
//
// This is part of the Store interface.
func (b *boltStore) PutCell(meta *cell.CellMeta) error {
	serialized, err := serializeCellEntry(meta)
	if err != nil {
		return err
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cellsBucket).Put(outPointKey(&meta.OutPoint),
			serialized)
	})
	if err != nil {
		str := fmt.Sprintf("failed to put cell %v to bolt", meta.OutPoint)
		return convertBoltErr(err, str)
	}
	return nil
}

// Close closes the underlying database.
//
// This is part of the Store interface.
func (b *boltStore) Close() error {
	if err := b.db.Close(); err != nil {
		return convertBoltErr(err, "failed to close cell store")
	}
	return nil
}

func init() {
	driver := Driver{
		DbType: boltDbType,
		Open:   openBoltStore,
	}
	if err := RegisterDriver(driver); err != nil {
		panic(fmt.Sprintf("failed to register driver %q: %v", boltDbType,
			err))
	}
}
