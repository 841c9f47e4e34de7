// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

const (
	// MaxListEntries is the maximum number of entries any serialized list
	// may declare.
	MaxListEntries = 1 << 16

	// MaxElementSize is the maximum number of bytes a single serialized
	// byte sequence may declare.
	MaxElementSize = 1 << 22

	// serializationVersion is the protocol version passed to the wire
	// variable length encoders.  The encodings used here do not vary by
	// version.
	serializationVersion = 0
)

// serializeType represents the serialized type of a transaction.
type serializeType uint8

const (
	// serializeNoWitness indicates the structural fields of a transaction
	// are serialized without the witnesses.
	serializeNoWitness serializeType = iota

	// serializeFull indicates a transaction is serialized with witnesses.
	serializeFull
)

// malformed returns an ErrMalformedTx error wrapping the provided cause.
func malformed(what string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	str := fmt.Sprintf("unable to decode %s: %v", what, err)
	return ruleError(ErrMalformedTx, str)
}

func writeUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// readCount reads a variable length list count and ensures it does not exceed
// MaxListEntries.
func readCount(r io.Reader, fieldName string) (int, error) {
	count, err := wire.ReadVarInt(r, serializationVersion)
	if err != nil {
		return 0, err
	}
	if count > MaxListEntries {
		return 0, fmt.Errorf("%s count %d exceeds max of %d", fieldName,
			count, MaxListEntries)
	}
	return int(count), nil
}

func writeByteList(w io.Writer, list [][]byte) error {
	err := wire.WriteVarInt(w, serializationVersion, uint64(len(list)))
	if err != nil {
		return err
	}
	for _, b := range list {
		if err := wire.WriteVarBytes(w, serializationVersion, b); err != nil {
			return err
		}
	}
	return nil
}

func readByteList(r io.Reader, fieldName string) ([][]byte, error) {
	count, err := readCount(r, fieldName)
	if err != nil || count == 0 {
		return nil, err
	}
	list := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		b, err := wire.ReadVarBytes(r, serializationVersion, MaxElementSize,
			fieldName)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, nil
}

func writeOutPoint(w io.Writer, op *OutPoint) error {
	if _, err := w.Write(op.Hash[:]); err != nil {
		return err
	}
	return writeUint32(w, op.Index)
}

func readOutPoint(r io.Reader, op *OutPoint) error {
	if _, err := io.ReadFull(r, op.Hash[:]); err != nil {
		return err
	}
	index, err := readUint32(r)
	if err != nil {
		return err
	}
	op.Index = index
	return nil
}

func writeScript(w io.Writer, s *Script) error {
	if err := writeByteList(w, s.Args); err != nil {
		return err
	}
	if _, err := w.Write(s.CodeHash[:]); err != nil {
		return err
	}
	return writeUint8(w, uint8(s.HashType))
}

func readScript(r io.Reader, s *Script) error {
	args, err := readByteList(r, "script args")
	if err != nil {
		return err
	}
	if _, err := io.ReadFull(r, s.CodeHash[:]); err != nil {
		return err
	}
	hashType, err := readUint8(r)
	if err != nil {
		return err
	}
	if HashType(hashType) != HashTypeData && HashType(hashType) != HashTypeType {
		return fmt.Errorf("invalid script hash type %d", hashType)
	}
	s.Args = args
	s.HashType = HashType(hashType)
	return nil
}

func writeCellOutput(w io.Writer, out *CellOutput) error {
	if err := writeUint64(w, out.Capacity); err != nil {
		return err
	}
	if _, err := w.Write(out.DataHash[:]); err != nil {
		return err
	}
	if err := writeScript(w, &out.Lock); err != nil {
		return err
	}
	if out.Type == nil {
		return writeUint8(w, 0)
	}
	if err := writeUint8(w, 1); err != nil {
		return err
	}
	return writeScript(w, out.Type)
}

func readCellOutput(r io.Reader, out *CellOutput) error {
	capacity, err := readUint64(r)
	if err != nil {
		return err
	}
	out.Capacity = capacity
	if _, err := io.ReadFull(r, out.DataHash[:]); err != nil {
		return err
	}
	if err := readScript(r, &out.Lock); err != nil {
		return err
	}
	hasType, err := readUint8(r)
	if err != nil {
		return err
	}
	switch hasType {
	case 0:
		out.Type = nil
	case 1:
		out.Type = new(Script)
		if err := readScript(r, out.Type); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid type script marker %d", hasType)
	}
	return nil
}

// Serialize encodes the cell output to w.
func (out *CellOutput) Serialize(w io.Writer) error {
	return writeCellOutput(w, out)
}

// Deserialize decodes a cell output from r into the receiver.
func (out *CellOutput) Deserialize(r io.Reader) error {
	if err := readCellOutput(r, out); err != nil {
		return malformed("cell output", err)
	}
	return nil
}

// serialize encodes the transaction to w according to the serialization type.
func (tx *Transaction) serialize(w io.Writer, serType serializeType) error {
	if err := writeUint32(w, tx.Version); err != nil {
		return err
	}

	err := wire.WriteVarInt(w, serializationVersion, uint64(len(tx.CellDeps)))
	if err != nil {
		return err
	}
	for i := range tx.CellDeps {
		dep := &tx.CellDeps[i]
		if err := writeOutPoint(w, &dep.OutPoint); err != nil {
			return err
		}
		if err := writeUint8(w, uint8(dep.DepType)); err != nil {
			return err
		}
	}

	err = wire.WriteVarInt(w, serializationVersion, uint64(len(tx.Inputs)))
	if err != nil {
		return err
	}
	for i := range tx.Inputs {
		in := &tx.Inputs[i]
		if err := writeOutPoint(w, &in.PreviousOutput); err != nil {
			return err
		}
		if err := writeUint64(w, in.Since); err != nil {
			return err
		}
	}

	err = wire.WriteVarInt(w, serializationVersion, uint64(len(tx.Outputs)))
	if err != nil {
		return err
	}
	for i := range tx.Outputs {
		if err := writeCellOutput(w, &tx.Outputs[i]); err != nil {
			return err
		}
	}

	if err := writeByteList(w, tx.OutputsData); err != nil {
		return err
	}

	if serType == serializeNoWitness {
		return nil
	}

	err = wire.WriteVarInt(w, serializationVersion, uint64(len(tx.Witnesses)))
	if err != nil {
		return err
	}
	for _, witness := range tx.Witnesses {
		if err := writeByteList(w, witness); err != nil {
			return err
		}
	}
	return nil
}

// Serialize encodes the full transaction, including witnesses, to w.
func (tx *Transaction) Serialize(w io.Writer) error {
	return tx.serialize(w, serializeFull)
}

// Bytes returns the full serialized transaction.
func (tx *Transaction) Bytes() []byte {
	return tx.mustSerialize(serializeFull)
}

// deserialize decodes a full transaction from r into the receiver.
func (tx *Transaction) deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	tx.Version = version

	count, err := readCount(r, "cell deps")
	if err != nil {
		return err
	}
	tx.CellDeps = make([]CellDep, count)
	for i := range tx.CellDeps {
		dep := &tx.CellDeps[i]
		if err := readOutPoint(r, &dep.OutPoint); err != nil {
			return err
		}
		depType, err := readUint8(r)
		if err != nil {
			return err
		}
		if DepType(depType) != DepTypeCode && DepType(depType) != DepTypeDepGroup {
			return fmt.Errorf("invalid dep type %d", depType)
		}
		dep.DepType = DepType(depType)
	}

	count, err = readCount(r, "inputs")
	if err != nil {
		return err
	}
	tx.Inputs = make([]CellInput, count)
	for i := range tx.Inputs {
		in := &tx.Inputs[i]
		if err := readOutPoint(r, &in.PreviousOutput); err != nil {
			return err
		}
		if in.Since, err = readUint64(r); err != nil {
			return err
		}
	}

	count, err = readCount(r, "outputs")
	if err != nil {
		return err
	}
	tx.Outputs = make([]CellOutput, count)
	for i := range tx.Outputs {
		if err := readCellOutput(r, &tx.Outputs[i]); err != nil {
			return err
		}
	}

	if tx.OutputsData, err = readByteList(r, "outputs data"); err != nil {
		return err
	}

	count, err = readCount(r, "witnesses")
	if err != nil {
		return err
	}
	tx.Witnesses = make([]Witness, 0, count)
	for i := 0; i < count; i++ {
		witness, err := readByteList(r, "witness")
		if err != nil {
			return err
		}
		tx.Witnesses = append(tx.Witnesses, witness)
	}
	return nil
}

// Deserialize decodes a full transaction from r into the receiver.
func (tx *Transaction) Deserialize(r io.Reader) error {
	if err := tx.deserialize(r); err != nil {
		return malformed("transaction", err)
	}
	return nil
}

// NewTxFromBytes decodes a full serialized transaction.  Trailing bytes after
// the transaction are rejected.
func NewTxFromBytes(serialized []byte) (*Transaction, error) {
	r := bytes.NewReader(serialized)
	var tx Transaction
	if err := tx.Deserialize(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("%d trailing bytes after transaction", r.Len())
		return nil, ruleError(ErrMalformedTx, str)
	}
	return &tx, nil
}

// SerializeOutPoints encodes a list of out points in the format expected in
// the data of a dependency group cell.
func SerializeOutPoints(outPoints []OutPoint) []byte {
	size := wire.VarIntSerializeSize(uint64(len(outPoints))) +
		len(outPoints)*(chainhash.HashSize+4)
	buf := bytes.NewBuffer(make([]byte, 0, size))
	_ = wire.WriteVarInt(buf, serializationVersion, uint64(len(outPoints)))
	for i := range outPoints {
		_ = writeOutPoint(buf, &outPoints[i])
	}
	return buf.Bytes()
}

// DeserializeOutPoints decodes the list of out points held in the data of a
// dependency group cell.
func DeserializeOutPoints(serialized []byte) ([]OutPoint, error) {
	r := bytes.NewReader(serialized)
	count, err := readCount(r, "out points")
	if err != nil {
		return nil, err
	}
	outPoints := make([]OutPoint, count)
	for i := range outPoints {
		if err := readOutPoint(r, &outPoints[i]); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after out points", r.Len())
	}
	return outPoints, nil
}
