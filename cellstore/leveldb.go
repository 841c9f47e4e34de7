// Copyright (c) 2021-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cellstore

import (
	"errors"
	"fmt"
	"os"

	"github.com/decred/cellverify/cell"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// levelDbType is the database type of the leveldb driver.
const levelDbType = "leveldb"

// levelDbStore implements the Store interface using an underlying leveldb
// database instance.
type levelDbStore struct {
	// db is the database that contains the cells.  It is set when the
	// instance is created and is not changed afterward.
	db *leveldb.DB
}

// Ensure levelDbStore implements the Store interface.
var _ Store = (*levelDbStore)(nil)

// convertLdbErr converts the passed leveldb error into a store error with an
// equivalent error kind and the passed description.  It also sets the passed
// error as the underlying error and adds its error string to the description.
func convertLdbErr(ldbErr error, desc string) Error {
	// Use the general backend error kind by default.  The code below will
	// update this with the converted error if it's recognized.
	var kind = ErrBackend

	switch {
	// Database corruption errors.
	case ldberrors.IsCorrupted(ldbErr):
		kind = ErrCorruption

	// Database open/create errors.
	case errors.Is(ldbErr, leveldb.ErrClosed):
		kind = ErrDbNotOpen
	}

	// Include the original error in description.
	desc = fmt.Sprintf("%s: %v", desc, ldbErr)

	err := storeError(kind, desc)
	err.RawErr = ldbErr
	return err
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// openLevelDbStore opens (or creates when needed) the leveldb cell store at
// the provided path.
func openLevelDbStore(path string) (Store, error) {
	dbExists := fileExists(path)
	if !dbExists {
		// The error can be ignored here since the call to leveldb.OpenFile
		// will fail if the directory couldn't be created.
		_ = os.MkdirAll(path, 0700)
	}

	opts := opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.NoCompression,
		Filter:      filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(path, &opts)
	if err != nil {
		return nil, convertLdbErr(err, "failed to open cell store")
	}
	return &levelDbStore{db: db}, nil
}

// FetchCell returns the cell at the provided out point.  It returns nil for
// both the cell and the error if the database does not contain it.
//
// This is part of the Store interface.
func (l *levelDbStore) FetchCell(op cell.OutPoint) (*cell.CellMeta, error) {
	serialized, err := l.db.Get(outPointKey(&op), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		str := fmt.Sprintf("failed to fetch cell %v from leveldb", op)
		return nil, convertLdbErr(err, str)
	}
	return deserializeCellEntry(&op, serialized)
}

// PutCell adds or replaces the provided cell.
//
// This is part of the Store interface.
func (l *levelDbStore) PutCell(meta *cell.CellMeta) error {
	serialized, err := serializeCellEntry(meta)
	if err != nil {
		return err
	}
	if err := l.db.Put(outPointKey(&meta.OutPoint), serialized, nil); err != nil {
		str := fmt.Sprintf("failed to put cell %v to leveldb", meta.OutPoint)
		return convertLdbErr(err, str)
	}
	return nil
}

// Close closes the underlying database.
//
// This is part of the Store interface.
func (l *levelDbStore) Close() error {
	if err := l.db.Close(); err != nil {
		return convertLdbErr(err, "failed to close cell store")
	}
	return nil
}

func init() {
	driver := Driver{
		DbType: levelDbType,
		Open:   openLevelDbStore,
	}
	if err := RegisterDriver(driver); err != nil {
		panic(fmt.Sprintf("failed to register driver %q: %v", levelDbType,
			err))
	}
}
