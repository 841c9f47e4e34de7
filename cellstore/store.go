// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cellstore provides the cell stores verification resolves
// transactions against.
//
// Persistent stores are created through a driver registry keyed by database
// type so the backend can be selected by configuration.  The leveldb and bolt
// drivers are always registered.  A read-through LRU cache may be layered on
// top of any store.
//
// Every store implements cell.CellProvider and is safe for concurrent reads.
package cellstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/decred/cellverify/cell"
)

// Store is a persistent set of committed cells keyed by out point.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type Store interface {
	// FetchCell returns the cell at the provided out point.  When there is
	// no such cell, nil is returned for both the cell and the error.
	FetchCell(op cell.OutPoint) (*cell.CellMeta, error)

	// PutCell adds or replaces the provided cell.
	PutCell(meta *cell.CellMeta) error

	// Close releases the resources held by the store.
	Close() error
}

// Driver defines a structure for backend drivers to use when they register
// themselves as a backend which implements the Store interface.
type Driver struct {
	// DbType is the identifier used to uniquely identify a specific store
	// driver.  There can be only one driver with the same name.
	DbType string

	// Open opens the store at the provided path, creating it when it does
	// not exist.
	Open func(path string) (Store, error)
}

var (
	driversMtx sync.RWMutex
	drivers    = make(map[string]*Driver)
)

// RegisterDriver adds a backend store driver to available interfaces.
// ErrDbTypeRegistered will be returned if the database type for the driver has
// already been registered.
func RegisterDriver(driver Driver) error {
	driversMtx.Lock()
	defer driversMtx.Unlock()

	if _, exists := drivers[driver.DbType]; exists {
		str := fmt.Sprintf("driver %q is already registered",
			driver.DbType)
		return storeError(ErrDbTypeRegistered, str)
	}

	drivers[driver.DbType] = &driver
	return nil
}

// SupportedDrivers returns a sorted slice of strings that represent the store
// drivers that have been registered and are therefore supported.
func SupportedDrivers() []string {
	driversMtx.RLock()
	defer driversMtx.RUnlock()

	supportedDBs := make([]string, 0, len(drivers))
	for _, drv := range drivers {
		supportedDBs = append(supportedDBs, drv.DbType)
	}
	sort.Strings(supportedDBs)
	return supportedDBs
}

// Open opens the store of the provided database type at the provided path.
//
// ErrDbUnknownType will be returned if the database type is not registered.
func Open(dbType, path string) (Store, error) {
	driversMtx.RLock()
	drv, exists := drivers[dbType]
	driversMtx.RUnlock()
	if !exists {
		str := fmt.Sprintf("driver %q is not registered", dbType)
		return nil, storeError(ErrDbUnknownType, str)
	}

	log.Infof("Loading %s cell store from '%s'", dbType, path)
	return drv.Open(path)
}

// PutTxOutputs adds the cells created by the transaction to the provided
// store.
func PutTxOutputs(s Store, tx *cell.Transaction) error {
	txHash := tx.TxHash()
	for i := range tx.Outputs {
		op := cell.NewOutPoint(&txHash, uint32(i))
		var data []byte
		if i < len(tx.OutputsData) {
			data = tx.OutputsData[i]
		}
		if err := s.PutCell(cell.NewCellMeta(op, &tx.Outputs[i], data)); err != nil {
			return err
		}
	}
	return nil
}
