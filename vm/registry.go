// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"sync"

	"github.com/decred/cellverify/cell"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// Program is a lock program.  Run returns the program's exit code, or an error
// when the machine faulted, which is always the error returned by the failing
// machine call.
type Program interface {
	Run(m *Machine) (ExitCode, error)
}

// ProgramFunc is an adapter to allow the use of ordinary functions as
// programs.
type ProgramFunc func(m *Machine) (ExitCode, error)

// Run calls f(m).
func (f ProgramFunc) Run(m *Machine) (ExitCode, error) {
	return f(m)
}

// registeredProgram houses a program along with its human-readable name.
type registeredProgram struct {
	name string
	prog Program
}

// Registry maps program binaries, identified by their cell data hash, to the
// native programs that implement them.  It is safe for concurrent use.
type Registry struct {
	mtx      sync.RWMutex
	programs map[chainhash.Hash]registeredProgram
}

// NewRegistry returns an empty program registry.
func NewRegistry() *Registry {
	return &Registry{
		programs: make(map[chainhash.Hash]registeredProgram),
	}
}

// Register binds the program to the provided binary and returns the data hash
// that lock scripts reference it by.
func (r *Registry) Register(name string, binary []byte, prog Program) (chainhash.Hash, error) {
	codeHash := cell.CalcDataHash(binary)

	r.mtx.Lock()
	defer r.mtx.Unlock()
	if existing, ok := r.programs[codeHash]; ok {
		str := fmt.Sprintf("program %q is already registered as %q with "+
			"code hash %v", name, existing.name, codeHash)
		return chainhash.Hash{}, machineError(ErrDuplicateProgram, str)
	}
	r.programs[codeHash] = registeredProgram{name: name, prog: prog}
	log.Debugf("Registered program %q with code hash %v", name, codeHash)
	return codeHash, nil
}

// Lookup returns the program registered for the binary with the provided data
// hash along with its name.
func (r *Registry) Lookup(dataHash chainhash.Hash) (Program, string, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	p, ok := r.programs[dataHash]
	return p.prog, p.name, ok
}
