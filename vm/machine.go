// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"github.com/decred/cellverify/cell"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// Environment is the read-only view of the transaction a program executes
// against.  It is assembled by the verification driver for a single input.
type Environment struct {
	// TxHash is the hash of the transaction being verified.
	TxHash chainhash.Hash

	// InputIndex is the index of the input being unlocked.
	InputIndex int

	// Script is the lock script of the cell being spent.
	Script *cell.Script

	// Witness is the witness entry of the input.  It is empty when the
	// transaction does not provide one.
	Witness cell.Witness

	// CellDeps houses every resolved dependency cell of the transaction.
	CellDeps []*cell.CellMeta
}

// Machine executes a single program against an environment while metering the
// cycles it consumes against a shared budget.  A machine is not safe for
// concurrent use, however, separate machines may share a budget.
type Machine struct {
	env    *Environment
	budget *CycleBudget
	cycles uint64
}

// NewMachine returns a machine for the provided environment that charges the
// provided budget.
func NewMachine(env *Environment, budget *CycleBudget) *Machine {
	return &Machine{
		env:    env,
		budget: budget,
	}
}

// Charge charges the provided number of cycles.  It returns
// ErrExceededMaxCycles when the shared budget cannot cover the charge, in
// which case the program must stop.
func (m *Machine) Charge(cycles uint64) error {
	if err := m.budget.Charge(cycles); err != nil {
		return err
	}
	m.cycles += cycles
	return nil
}

// Cycles returns the number of cycles consumed by this machine.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

// InputIndex returns the index of the input being unlocked.
func (m *Machine) InputIndex() int {
	return m.env.InputIndex
}

// LoadTxHash returns the hash of the transaction being verified.
func (m *Machine) LoadTxHash() (chainhash.Hash, error) {
	if err := m.Charge(loadCycles(chainhash.HashSize)); err != nil {
		return chainhash.Hash{}, err
	}
	return m.env.TxHash, nil
}

// LoadScriptArgs returns the arguments of the lock script being executed.
func (m *Machine) LoadScriptArgs() ([][]byte, error) {
	var size int
	for _, arg := range m.env.Script.Args {
		size += len(arg)
	}
	if err := m.Charge(loadCycles(size)); err != nil {
		return nil, err
	}
	return m.env.Script.Args, nil
}

// LoadWitness returns the witness entry of the input being unlocked.  Every
// byte of every element is charged regardless of how much of it the program
// later inspects.
func (m *Machine) LoadWitness() (cell.Witness, error) {
	var size int
	for _, elem := range m.env.Witness {
		size += len(elem)
	}
	if err := m.Charge(loadCycles(size)); err != nil {
		return nil, err
	}
	return m.env.Witness, nil
}

// LoadCellDepData returns the data of the first dependency cell with the
// provided data hash.  The boolean is false when no such dependency exists.
func (m *Machine) LoadCellDepData(dataHash chainhash.Hash) ([]byte, bool, error) {
	for _, dep := range m.env.CellDeps {
		if dep.DataHash != dataHash {
			continue
		}
		if err := m.Charge(loadCycles(len(dep.Data))); err != nil {
			return nil, false, err
		}
		return dep.Data, true, nil
	}
	if err := m.Charge(SyscallCycles); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// LoadProgram charges the cycles required to load the provided program binary
// into the machine.
func (m *Machine) LoadProgram(binary []byte) error {
	return m.Charge(loadCycles(len(binary)))
}

// Run executes the program to completion.  A non-nil error is only returned
// for machine faults such as exceeding the cycle budget, in which case the
// exit code is ExitResource.
func (m *Machine) Run(prog Program) (ExitCode, error) {
	code, err := prog.Run(m)
	if err != nil {
		log.Tracef("Input %d aborted after %d cycles: %v", m.env.InputIndex,
			m.cycles, err)
		return ExitResource, err
	}
	log.Tracef("Input %d exited with %v after %d cycles", m.env.InputIndex,
		code, m.cycles)
	return code, nil
}
