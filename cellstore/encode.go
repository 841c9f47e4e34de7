// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cellstore

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/decred/cellverify/cell"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// -----------------------------------------------------------------------------
// Cells are stored keyed by their out point:
//
//	Key        Value     Size      Description
//	prefix     uint8     1 byte    cellKeyPrefix
//	hash       [32]byte  32 bytes  The hash of the transaction that created it
//	index      uint32    4 bytes   The output index, big endian
//
// The value is the serialized cell output followed by the var bytes encoding
// of the cell data.
// -----------------------------------------------------------------------------

// cellKeyPrefix is the prefix of every cell key.
const cellKeyPrefix = 'c'

// cellKeyLen is the length of a serialized cell key.
const cellKeyLen = 1 + chainhash.HashSize + 4

// outPointKey returns the key for the cell at the provided out point.
func outPointKey(op *cell.OutPoint) []byte {
	key := make([]byte, cellKeyLen)
	key[0] = cellKeyPrefix
	copy(key[1:], op.Hash[:])
	binary.BigEndian.PutUint32(key[1+chainhash.HashSize:], op.Index)
	return key
}

// serializeCellEntry returns the stored value for the provided cell.
func serializeCellEntry(meta *cell.CellMeta) ([]byte, error) {
	var buf bytes.Buffer
	if err := meta.Output.Serialize(&buf); err != nil {
		return nil, err
	}
	if err := wire.WriteVarBytes(&buf, 0, meta.Data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeCellEntry decodes a stored value into the cell at the provided
// out point.  Decoding failures are reported as ErrCorruption.
func deserializeCellEntry(op *cell.OutPoint, serialized []byte) (*cell.CellMeta, error) {
	r := bytes.NewReader(serialized)
	var output cell.CellOutput
	if err := output.Deserialize(r); err != nil {
		str := fmt.Sprintf("corrupt cell output for %v: %v", op, err)
		return nil, storeError(ErrCorruption, str)
	}
	data, err := wire.ReadVarBytes(r, 0, cell.MaxElementSize, "cell data")
	if err != nil {
		str := fmt.Sprintf("corrupt cell data for %v: %v", op, err)
		return nil, storeError(ErrCorruption, str)
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("corrupt cell entry for %v: %d trailing bytes", op,
			r.Len())
		return nil, storeError(ErrCorruption, str)
	}
	return cell.NewCellMeta(op, &output, data), nil
}
