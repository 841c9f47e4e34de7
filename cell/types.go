// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"
	"strconv"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// HashType identifies how the code hash of a script is bound to the cell
// dependency that houses the program.
type HashType uint8

const (
	// HashTypeData indicates the code hash is the data hash of the cell
	// that contains the program.
	HashTypeData HashType = 0

	// HashTypeType indicates the code hash is the hash of the type script
	// of the cell that contains the program.
	HashTypeType HashType = 1
)

// String returns the HashType as a human-readable name.
func (t HashType) String() string {
	switch t {
	case HashTypeData:
		return "data"
	case HashTypeType:
		return "type"
	}
	return "unknown(" + strconv.Itoa(int(t)) + ")"
}

// Script is a locking condition.  It identifies the program that governs
// spending via the code hash and hash type, and the arguments the program is
// bound to.
type Script struct {
	Args     [][]byte
	CodeHash chainhash.Hash
	HashType HashType
}

// NewScript returns a script bound to the provided code hash and arguments.
func NewScript(codeHash chainhash.Hash, hashType HashType, args ...[]byte) *Script {
	return &Script{
		Args:     args,
		CodeHash: codeHash,
		HashType: hashType,
	}
}

// OutPoint defines a stable reference to one output cell.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new out point with the provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	// Allocate enough for hash string, colon, and 10 digits, which will fit
	// any uint32.
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.Hash.String())
	buf[2*chainhash.HashSize] = ':'
	buf = strconv.AppendUint(buf, uint64(o.Index), 10)
	return string(buf)
}

// CellInput references a cell being spent.
type CellInput struct {
	PreviousOutput OutPoint
	Since          uint64
}

// NewCellInput returns a new input spending the provided out point.
func NewCellInput(prevOut *OutPoint, since uint64) *CellInput {
	return &CellInput{
		PreviousOutput: *prevOut,
		Since:          since,
	}
}

// DepType identifies how a cell dependency is interpreted.
type DepType uint8

const (
	// DepTypeCode indicates the referenced cell is used directly.
	DepTypeCode DepType = 0

	// DepTypeDepGroup indicates the data of the referenced cell is a
	// serialized list of out points, each of which is a dependency.
	DepTypeDepGroup DepType = 1
)

// String returns the DepType as a human-readable name.
func (t DepType) String() string {
	switch t {
	case DepTypeCode:
		return "code"
	case DepTypeDepGroup:
		return "dep_group"
	}
	return "unknown(" + strconv.Itoa(int(t)) + ")"
}

// CellDep references a read-only cell a transaction's scripts depend on.
type CellDep struct {
	OutPoint OutPoint
	DepType  DepType
}

// CellOutput is the committed portion of a cell.
type CellOutput struct {
	Capacity uint64
	DataHash chainhash.Hash
	Lock     Script
	Type     *Script
}

// NewCellOutput returns a cell output for the provided data locked by the
// provided script.  The data hash is calculated from data.
func NewCellOutput(capacity uint64, data []byte, lock *Script) *CellOutput {
	return &CellOutput{
		Capacity: capacity,
		DataHash: CalcDataHash(data),
		Lock:     *lock,
	}
}

// Witness is the authorization payload of one input.  It is an ordered list of
// byte sequences and is never covered by the transaction hash.
type Witness [][]byte

// Transaction is a set of inputs that are consumed to create a set of outputs
// along with the dependencies and witnesses required to unlock the inputs.
type Transaction struct {
	Version     uint32
	CellDeps    []CellDep
	Inputs      []CellInput
	Outputs     []CellOutput
	OutputsData [][]byte
	Witnesses   []Witness
}

// AddCellDep adds a cell dependency to the transaction.
func (tx *Transaction) AddCellDep(op *OutPoint, depType DepType) {
	tx.CellDeps = append(tx.CellDeps, CellDep{OutPoint: *op, DepType: depType})
}

// AddInput adds an input to the transaction.
func (tx *Transaction) AddInput(in *CellInput) {
	tx.Inputs = append(tx.Inputs, *in)
}

// AddOutput adds an output and its associated data to the transaction.
func (tx *Transaction) AddOutput(out *CellOutput, data []byte) {
	tx.Outputs = append(tx.Outputs, *out)
	tx.OutputsData = append(tx.OutputsData, data)
}

// Witness returns the witness entry associated with the input at the provided
// index.  Indices beyond the available witnesses are treated as empty.
func (tx *Transaction) Witness(index int) Witness {
	if index < 0 || index >= len(tx.Witnesses) {
		return nil
	}
	return tx.Witnesses[index]
}

// SetWitness sets the witness entry for the input at the provided index,
// growing the witness list as needed.
func (tx *Transaction) SetWitness(index int, w Witness) {
	for len(tx.Witnesses) <= index {
		tx.Witnesses = append(tx.Witnesses, nil)
	}
	tx.Witnesses[index] = w
}

// CellMeta is a resolved cell: the committed output, its data and the out
// point it was found at.
type CellMeta struct {
	OutPoint OutPoint
	Output   *CellOutput
	Data     []byte

	// DataHash is always calculated from Data and never taken from the
	// output's committed data hash.
	DataHash chainhash.Hash
}

// NewCellMeta returns a resolved cell for the provided output and data.
func NewCellMeta(op *OutPoint, output *CellOutput, data []byte) *CellMeta {
	return &CellMeta{
		OutPoint: *op,
		Output:   output,
		Data:     data,
		DataHash: CalcDataHash(data),
	}
}

// String returns a short human-readable description of the cell.
func (c *CellMeta) String() string {
	return fmt.Sprintf("cell %v (capacity %d, %d data bytes)", c.OutPoint,
		c.Output.Capacity, len(c.Data))
}
