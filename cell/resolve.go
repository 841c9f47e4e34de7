// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// CellProvider defines an interface that provides access to committed cells
// keyed by out point.  Implementations may be backed by a database, a fixture
// map or a remote service.
//
// FetchCell must return nil for both the cell and the error when the out point
// does not exist.  An error is reserved for failures of the provider itself.
type CellProvider interface {
	FetchCell(outPoint OutPoint) (*CellMeta, error)
}

// ResolvedTransaction is a read-only view binding a transaction to the cells
// it spends and depends on.  It is transient and owned by a single
// verification run.
type ResolvedTransaction struct {
	Tx   *Transaction
	Hash chainhash.Hash

	// ResolvedInputs houses the spent cells in input order.
	ResolvedInputs []*CellMeta

	// ResolvedCellDeps houses the dependency cells with dependency groups
	// expanded in place.
	ResolvedCellDeps []*CellMeta

	// ResolvedDepGroups houses the dependency group cells themselves.
	ResolvedDepGroups []*CellMeta
}

// fetchCell fetches the cell at the provided out point and converts a missing
// cell into ErrUnresolvedReference.
func fetchCell(provider CellProvider, op *OutPoint, what string) (*CellMeta, error) {
	meta, err := provider.FetchCell(*op)
	if err != nil {
		str := fmt.Sprintf("unable to fetch %s %v: %v", what, op, err)
		return nil, Error{Err: ErrProvider, Description: str, RawErr: err}
	}
	if meta == nil {
		str := fmt.Sprintf("unable to find %s %v", what, op)
		return nil, ruleError(ErrUnresolvedReference, str)
	}
	return meta, nil
}

// Resolve resolves every cell dependency and input of the transaction via the
// provided cell provider.  Resolution fails fast and never returns a partially
// resolved transaction.  The provider is only read from.
func Resolve(tx *Transaction, provider CellProvider) (*ResolvedTransaction, error) {
	txHash := tx.TxHash()
	rtx := &ResolvedTransaction{
		Tx:               tx,
		Hash:             txHash,
		ResolvedInputs:   make([]*CellMeta, 0, len(tx.Inputs)),
		ResolvedCellDeps: make([]*CellMeta, 0, len(tx.CellDeps)),
	}

	for i := range tx.CellDeps {
		dep := &tx.CellDeps[i]
		depCell, err := fetchCell(provider, &dep.OutPoint, "cell dep")
		if err != nil {
			return nil, err
		}

		switch dep.DepType {
		case DepTypeCode:
			rtx.ResolvedCellDeps = append(rtx.ResolvedCellDeps, depCell)

		case DepTypeDepGroup:
			outPoints, err := DeserializeOutPoints(depCell.Data)
			if err != nil {
				str := fmt.Sprintf("dep group %v of transaction %v is "+
					"invalid: %v", dep.OutPoint, txHash, err)
				return nil, ruleError(ErrInvalidDepGroup, str)
			}
			rtx.ResolvedDepGroups = append(rtx.ResolvedDepGroups, depCell)
			for j := range outPoints {
				member, err := fetchCell(provider, &outPoints[j],
					"dep group member")
				if err != nil {
					return nil, err
				}
				rtx.ResolvedCellDeps = append(rtx.ResolvedCellDeps, member)
			}

		default:
			str := fmt.Sprintf("cell dep %v has unknown dep type %v",
				dep.OutPoint, dep.DepType)
			return nil, ruleError(ErrInvalidDepGroup, str)
		}
	}

	seen := make(map[OutPoint]struct{}, len(tx.Inputs))
	for i := range tx.Inputs {
		prevOut := &tx.Inputs[i].PreviousOutput
		if _, ok := seen[*prevOut]; ok {
			str := fmt.Sprintf("transaction %v spends %v more than once",
				txHash, prevOut)
			return nil, ruleError(ErrDuplicateInput, str)
		}
		seen[*prevOut] = struct{}{}

		input, err := fetchCell(provider, prevOut, "input")
		if err != nil {
			return nil, err
		}
		rtx.ResolvedInputs = append(rtx.ResolvedInputs, input)
	}

	log.Tracef("Resolved transaction %v: %d inputs, %d cell deps (%d dep "+
		"groups)", txHash, len(rtx.ResolvedInputs), len(rtx.ResolvedCellDeps),
		len(rtx.ResolvedDepGroups))
	return rtx, nil
}
