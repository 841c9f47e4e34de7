// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/decred/cellverify/cell"
	"github.com/decred/cellverify/vm"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// Config houses the parameters of a Verifier.
type Config struct {
	// Registry houses the native programs lock scripts may reference.
	Registry *vm.Registry

	// Workers is the maximum number of inputs verified concurrently.  Zero
	// selects three per processor core.
	Workers int
}

// Verifier verifies that resolved transactions are authorized to spend the
// cells they consume.  It is safe for concurrent use.
type Verifier struct {
	registry *vm.Registry
	workers  int
}

// New returns a verifier for the provided configuration.
func New(cfg *Config) *Verifier {
	workers := cfg.Workers
	if workers <= 0 {
		// Limit the number of goroutines based on the number of processor
		// cores.  This helps ensure the system stays reasonably responsive
		// under heavy load.
		workers = runtime.NumCPU() * 3
	}
	if workers <= 0 {
		workers = 1
	}
	return &Verifier{
		registry: cfg.Registry,
		workers:  workers,
	}
}

// inputResult is the outcome of verifying a single input.
type inputResult struct {
	index  int
	cycles uint64
	err    error
}

// inputValidator provides a type which asynchronously verifies the inputs of
// a single resolved transaction.  It provides several channels for
// communication and a processing function that is intended to be run in
// multiple goroutines.
//
// Every input is metered on its own against the full cycle limit so the cycles
// an input consumes do not depend on the order the inputs are scheduled in.
// The shared limit is enforced afterwards by reduce in input order.
type inputValidator struct {
	registry     *vm.Registry
	rtx          *cell.ResolvedTransaction
	maxCycles    uint64
	validateChan chan int
	resultChan   chan inputResult
}

// sendResult sends the result of an input verification on the internal result
// channel while respecting the context.  This allows orderly shutdown when the
// verification process is aborted by the caller.
func (v *inputValidator) sendResult(ctx context.Context, result inputResult) {
	select {
	case v.resultChan <- result:
	case <-ctx.Done():
	}
}

// validateHandler consumes input indices from the internal validate channel
// and returns the result of the verification on the internal result channel.
// It must be run as a goroutine.
func (v *inputValidator) validateHandler(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case index := <-v.validateChan:
			budget := vm.NewCycleBudget(v.maxCycles)
			cycles, err := v.verifyInput(index, budget)
			v.sendResult(ctx, inputResult{index: index, cycles: cycles,
				err: err})
		}
	}
}

// setState logs the transition of the input at the provided index.
func setState(index int, state InputState) {
	log.Tracef("Input %d: %v", index, state)
}

// findProgram locates the program the lock script references among the
// resolved dependency cells.  It returns the program along with its name and
// binary.
func (v *inputValidator) findProgram(index int, script *cell.Script) (vm.Program, string, []byte, error) {
	var matches []*cell.CellMeta
	for _, dep := range v.rtx.ResolvedCellDeps {
		switch script.HashType {
		case cell.HashTypeData:
			if dep.DataHash == script.CodeHash {
				matches = append(matches, dep)
			}

		case cell.HashTypeType:
			if dep.Output.Type != nil &&
				dep.Output.Type.Hash() == script.CodeHash {

				matches = append(matches, dep)
			}
		}
	}
	if len(matches) == 0 {
		str := fmt.Sprintf("input %d: no dependency cell matches code hash "+
			"%v with hash type %v", index, script.CodeHash, script.HashType)
		return nil, "", nil, inputError(ErrNoScript, index, vm.ExitSuccess, str)
	}

	// Dependency cells holding the same binary are the same program.
	dataHash := matches[0].DataHash
	for _, dep := range matches[1:] {
		if dep.DataHash != dataHash {
			str := fmt.Sprintf("input %d: code hash %v with hash type %v "+
				"matches dependency cells %v and %v holding different "+
				"programs", index, script.CodeHash, script.HashType,
				matches[0].OutPoint, dep.OutPoint)
			return nil, "", nil, inputError(ErrMultipleMatchingScripts,
				index, vm.ExitSuccess, str)
		}
	}

	prog, name, ok := v.registry.Lookup(dataHash)
	if !ok {
		str := fmt.Sprintf("input %d: dependency cell %v with data hash %v "+
			"does not hold a known program", index, matches[0].OutPoint,
			dataHash)
		return nil, "", nil, inputError(ErrNoScript, index, vm.ExitSuccess, str)
	}
	return prog, name, matches[0].Data, nil
}

// verifyInput executes the lock program of the input at the provided index
// charging the provided budget.  It returns the cycles the program consumed.
func (v *inputValidator) verifyInput(index int, budget *vm.CycleBudget) (uint64, error) {
	meta := v.rtx.ResolvedInputs[index]
	setState(index, InputResolved)

	script := &meta.Output.Lock
	prog, name, binary, err := v.findProgram(index, script)
	if err != nil {
		setState(index, InputFailed)
		return 0, err
	}
	setState(index, InputScriptLoaded)

	env := &vm.Environment{
		TxHash:     v.rtx.Hash,
		InputIndex: index,
		Script:     script,
		Witness:    v.rtx.Tx.Witness(index),
		CellDeps:   v.rtx.ResolvedCellDeps,
	}
	m := vm.NewMachine(env, budget)
	code := vm.ExitSuccess
	err = m.LoadProgram(binary)
	if err == nil {
		setState(index, InputExecuting)
		code, err = m.Run(prog)
	}
	switch {
	case err != nil || code == vm.ExitResource:
		setState(index, InputFailed)
		reason := "exhausted its resources"
		if errors.Is(err, vm.ErrExceededMaxCycles) {
			reason = fmt.Sprintf("exceeded the cycle budget: %v", err)
		} else if err != nil {
			reason = fmt.Sprintf("faulted: %v", err)
		}
		str := fmt.Sprintf("input %d spending %v: program %q %s", index,
			meta.OutPoint, name, reason)
		return m.Cycles(), inputError(ErrExceededMaxCycles, index,
			vm.ExitResource, str)

	case code != vm.ExitSuccess:
		setState(index, InputFailed)
		str := fmt.Sprintf("input %d spending %v: program %q rejected the "+
			"spend with exit code %d (%v)", index, meta.OutPoint, name,
			int8(code), code)
		return m.Cycles(), inputError(ErrValidationFailure, index, code, str)
	}

	setState(index, InputPassed)
	log.Debugf("Input %d of %v passed after %d cycles", index, v.rtx.Hash,
		m.Cycles())
	return m.Cycles(), nil
}

// validate verifies every input using up to maxWorkers goroutines and returns
// the results of the inputs that were dispatched indexed by input.  Inputs are
// dispatched in order.  Once any input fails, or the inputs completed so far
// consume more than the cycle limit in total, no further inputs are dispatched
// and the inputs already dispatched are drained.  Every input before the last
// dispatched one therefore has a result.
func (v *inputValidator) validate(ctx context.Context, maxWorkers int) ([]inputResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	numInputs := len(v.rtx.ResolvedInputs)
	if numInputs == 0 {
		return nil, nil
	}
	if maxWorkers > numInputs {
		maxWorkers = numInputs
	}

	// Start up validation handlers that are used to asynchronously verify
	// each input.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for i := 0; i < maxWorkers; i++ {
		go v.validateHandler(ctx)
	}

	results := make([]inputResult, 0, numInputs)
	var completedCycles uint64
	halt := false
	currentItem := 0
	inFlight := 0
	for {
		// Only send items while there are still items that need to be
		// processed and the outcome is not yet known.  The select
		// statement will never select a nil channel.
		var validateChan chan int
		if !halt && currentItem < numInputs {
			validateChan = v.validateChan
		}
		if validateChan == nil && inFlight == 0 {
			break
		}

		select {
		case validateChan <- currentItem:
			currentItem++
			inFlight++

		case result := <-v.resultChan:
			inFlight--
			results = append(results, result)
			completedCycles += result.cycles
			if result.err != nil || completedCycles > v.maxCycles {
				halt = true
			}

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})
	return results, nil
}

// reduce determines the outcome of the run from the ordered results the way a
// sequential run sharing a single budget would.  Walking the inputs in order,
// the first input that either fails or pushes the running total over the
// cycle limit decides the outcome.  It returns the total cycles of the inputs
// before the deciding input, the index of the deciding input, or -1 when every
// input passed within the limit, and whether that input exhausted its
// resources.
func (v *inputValidator) reduce(results []inputResult) (uint64, int, bool) {
	var total uint64
	for _, result := range results {
		if result.cycles > v.maxCycles-total {
			return total, result.index, true
		}
		if result.err != nil {
			exhausted := errors.Is(result.err, ErrExceededMaxCycles)
			return total, result.index, exhausted
		}
		total += result.cycles
	}
	return total, -1, false
}

// Verify verifies every input of the resolved transaction against a shared
// limit of maxCycles cycles and returns the number of cycles consumed.  The
// transaction is authorized when the returned error is nil.
//
// Inputs are verified concurrently, however, the outcome is that of verifying
// the inputs one after the other in input order against a single budget.  A
// failure is returned as an Error for the failing input with the lowest index
// and the consumed cycles are those of the inputs up to and including it.
// Both are functions of the transaction and the limit alone.
func (v *Verifier) Verify(ctx context.Context, rtx *cell.ResolvedTransaction, maxCycles uint64) (uint64, error) {
	if len(rtx.ResolvedInputs) != len(rtx.Tx.Inputs) {
		str := fmt.Sprintf("transaction %v has %d inputs but %d resolved "+
			"input cells", rtx.Hash, len(rtx.Tx.Inputs),
			len(rtx.ResolvedInputs))
		return 0, inputError(ErrInvalidResolution, -1, vm.ExitSuccess, str)
	}

	validator := &inputValidator{
		registry:     v.registry,
		rtx:          rtx,
		maxCycles:    maxCycles,
		validateChan: make(chan int),
		resultChan:   make(chan inputResult),
	}
	results, err := validator.validate(ctx, v.workers)
	if err != nil {
		return 0, err
	}

	consumed, failed, exhausted := validator.reduce(results)
	switch {
	case exhausted:
		// Replay the deciding input against what is left of the shared
		// budget to learn where it runs out.
		remaining := maxCycles - consumed
		cycles, err := validator.verifyInput(failed, vm.NewCycleBudget(remaining))
		consumed += cycles
		if !errors.Is(err, ErrExceededMaxCycles) {
			str := fmt.Sprintf("input %d of %v exceeds the remaining %d "+
				"cycles of the %d cycle budget", failed, rtx.Hash,
				remaining, maxCycles)
			err = inputError(ErrExceededMaxCycles, failed, vm.ExitResource,
				str)
		}
		log.Debugf("Transaction %v failed verification after %d cycles: %v",
			rtx.Hash, consumed, err)
		return consumed, err

	case failed >= 0:
		err := results[failed].err
		consumed += results[failed].cycles
		log.Debugf("Transaction %v failed verification after %d cycles: %v",
			rtx.Hash, consumed, err)
		return consumed, err
	}

	log.Debugf("Transaction %v verified with %d cycles", rtx.Hash, consumed)
	return consumed, nil
}

// VerifyTx resolves the transaction against the provided cell provider and
// verifies it.  It returns the transaction hash along with the consumed
// cycles.
func (v *Verifier) VerifyTx(ctx context.Context, tx *cell.Transaction,
	provider cell.CellProvider, maxCycles uint64) (chainhash.Hash, uint64, error) {

	rtx, err := cell.Resolve(tx, provider)
	if err != nil {
		return chainhash.Hash{}, 0, err
	}
	cycles, err := v.Verify(ctx, rtx, maxCycles)
	return rtx.Hash, cycles, err
}
