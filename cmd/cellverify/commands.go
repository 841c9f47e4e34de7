// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/decred/cellverify/cell"
	"github.com/decred/cellverify/cellstore"
	"github.com/decred/cellverify/verify"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// errRejected indicates a transaction failed verification.  The details have
// already been reported to the user.
var errRejected = errors.New("transaction rejected")

// env houses the state shared by the commands.
type env struct {
	cfg      *config
	out      io.Writer
	stdin    io.Reader
	store    cellstore.Store
	builtins *builtins
}

// command describes a command and how to run it.
type command struct {
	name      string
	args      string
	desc      string
	numArgs   int
	needStore bool
	run       func(ctx context.Context, e *env, args []string) error
}

// commands houses the supported commands in the order they are listed in the
// usage message.
var commands = []command{{
	name:      "init",
	desc:      "Store the built-in program code cells, the secp256k1 table and a dependency group referencing them",
	needStore: true,
	run:       runInit,
}, {
	name:      "verify",
	args:      "<txhex|->",
	desc:      "Resolve a serialized transaction against the cell store and verify its lock scripts",
	numArgs:   1,
	needStore: true,
	run:       runVerify,
}, {
	name:      "addcell",
	args:      "<hash:index> <outputhex> <datahex>",
	desc:      "Store a serialized cell output and its data at an out point",
	numArgs:   3,
	needStore: true,
	run:       runAddCell,
}, {
	name:      "fetchcell",
	args:      "<hash:index>",
	desc:      "Show the cell stored at an out point",
	numArgs:   1,
	needStore: true,
	run:       runFetchCell,
}, {
	name:    "txhash",
	args:    "<txhex|->",
	desc:    "Show the hash of a serialized transaction",
	numArgs: 1,
	run:     runTxHash,
}}

// commandUsage returns the usage text describing the commands.
func commandUsage() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "  %s %s\n      %s\n", cmd.name, cmd.args, cmd.desc)
	}
	return b.String()
}

// lookupCommand returns the command with the provided name.
func lookupCommand(name string) (*command, bool) {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i], true
		}
	}
	return nil, false
}

// decodeHexArg decodes a hex argument.  The argument "-" reads the hex from
// standard input.
func decodeHexArg(e *env, arg, what string) ([]byte, error) {
	if arg == "-" {
		b, err := io.ReadAll(e.stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", what, err)
		}
		arg = string(b)
	}
	b, err := hex.DecodeString(strings.TrimSpace(arg))
	if err != nil {
		return nil, fmt.Errorf("invalid %s hex: %w", what, err)
	}
	return b, nil
}

// parseOutPoint parses an out point of the form hash:index.
func parseOutPoint(s string) (cell.OutPoint, error) {
	hashStr, indexStr, ok := strings.Cut(s, ":")
	if !ok {
		return cell.OutPoint{}, fmt.Errorf("out point %q is not of the "+
			"form hash:index", s)
	}
	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return cell.OutPoint{}, fmt.Errorf("invalid out point hash %q: %w",
			hashStr, err)
	}
	index, err := strconv.ParseUint(indexStr, 10, 32)
	if err != nil {
		return cell.OutPoint{}, fmt.Errorf("invalid out point index %q: %w",
			indexStr, err)
	}
	return *cell.NewOutPoint(hash, uint32(index)), nil
}

// runInit stores the built-in cells.
func runInit(ctx context.Context, e *env, args []string) error {
	for _, meta := range builtinCells() {
		if err := e.store.PutCell(meta); err != nil {
			return err
		}
	}

	fmt.Fprintf(e.out, "%s code hash: %v\n", "p2pkh",
		e.builtins.p2pkhCodeHash)
	fmt.Fprintf(e.out, "%s code hash: %v\n", "multisig",
		e.builtins.multisigCodeHash)
	fmt.Fprintf(e.out, "p2pkh code cell: %v\n",
		builtinOutPoint(builtinP2PKHIndex))
	fmt.Fprintf(e.out, "multisig code cell: %v\n",
		builtinOutPoint(builtinMultisigIndex))
	fmt.Fprintf(e.out, "secp256k1 table cell: %v\n",
		builtinOutPoint(builtinSecpDataIndex))
	fmt.Fprintf(e.out, "dependency group: %v\n",
		builtinOutPoint(builtinDepGroupIndex))
	return nil
}

// runVerify verifies a transaction against the cell store.
func runVerify(ctx context.Context, e *env, args []string) error {
	serialized, err := decodeHexArg(e, args[0], "transaction")
	if err != nil {
		return err
	}
	tx, err := cell.NewTxFromBytes(serialized)
	if err != nil {
		return err
	}

	v := verify.New(&verify.Config{
		Registry: e.builtins.registry,
		Workers:  e.cfg.Workers,
	})
	txHash, cycles, err := v.VerifyTx(ctx, tx, e.store, e.cfg.MaxCycles)
	var vErr verify.Error
	switch {
	case errors.As(err, &vErr):
		fmt.Fprintf(e.out, "%v: rejected after %d cycles\n", txHash, cycles)
		if vErr.Input >= 0 {
			fmt.Fprintf(e.out, "input: %d\nexit code: %d (%v)\n",
				vErr.Input, int8(vErr.Code), vErr.Code)
		}
		fmt.Fprintf(e.out, "reason: %v\n", vErr.Description)
		return errRejected

	case errors.Is(err, cell.ErrUnresolvedReference),
		errors.Is(err, cell.ErrDuplicateInput),
		errors.Is(err, cell.ErrInvalidDepGroup):

		fmt.Fprintf(e.out, "%v: unresolvable\nreason: %v\n", tx.TxHash(),
			err)
		return errRejected

	case err != nil:
		return err
	}

	fmt.Fprintf(e.out, "%v: verified with %d cycles\n", txHash, cycles)
	if e.cfg.Commit {
		if err := cellstore.PutTxOutputs(e.store, tx); err != nil {
			return fmt.Errorf("unable to commit outputs: %w", err)
		}
		cvfyLog.Infof("Committed %d outputs of %v", len(tx.Outputs), txHash)
	}
	return nil
}

// runAddCell stores a cell at an out point.
func runAddCell(ctx context.Context, e *env, args []string) error {
	op, err := parseOutPoint(args[0])
	if err != nil {
		return err
	}
	serialized, err := decodeHexArg(e, args[1], "cell output")
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return fmt.Errorf("invalid cell data hex: %w", err)
	}

	var out cell.CellOutput
	r := bytes.NewReader(serialized)
	if err := out.Deserialize(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%d trailing bytes after cell output", r.Len())
	}
	if dataHash := cell.CalcDataHash(data); dataHash != out.DataHash {
		return fmt.Errorf("cell output commits to data hash %v, but the "+
			"data hashes to %v", out.DataHash, dataHash)
	}

	meta := cell.NewCellMeta(&op, &out, data)
	if err := e.store.PutCell(meta); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "stored %v\n", meta)
	return nil
}

// runFetchCell shows a stored cell.
func runFetchCell(ctx context.Context, e *env, args []string) error {
	op, err := parseOutPoint(args[0])
	if err != nil {
		return err
	}
	meta, err := e.store.FetchCell(op)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("no cell is stored at %v", op)
	}

	var buf bytes.Buffer
	if err := meta.Output.Serialize(&buf); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%v\n", meta)
	fmt.Fprintf(e.out, "lock code hash: %v (%v)\n", meta.Output.Lock.CodeHash,
		meta.Output.Lock.HashType)
	fmt.Fprintf(e.out, "data hash: %v\n", meta.DataHash)
	fmt.Fprintf(e.out, "output: %x\n", buf.Bytes())
	return nil
}

// runTxHash shows the hash of a transaction.
func runTxHash(ctx context.Context, e *env, args []string) error {
	serialized, err := decodeHexArg(e, args[0], "transaction")
	if err != nil {
		return err
	}
	tx, err := cell.NewTxFromBytes(serialized)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, tx.TxHash())
	return nil
}

// runCommand runs the command named by the first argument with the remaining
// arguments.  Command results are written to out.
func runCommand(ctx context.Context, cfg *config, args []string, out io.Writer, stdin io.Reader) error {
	if len(args) == 0 {
		return fmt.Errorf("no command specified\n\n%s", commandUsage())
	}
	cmd, ok := lookupCommand(args[0])
	if !ok {
		return fmt.Errorf("unknown command %q\n\n%s", args[0],
			commandUsage())
	}
	args = args[1:]
	if len(args) != cmd.numArgs {
		return fmt.Errorf("usage: %s %s", cmd.name, cmd.args)
	}

	builtins, err := newBuiltins()
	if err != nil {
		return err
	}
	e := &env{
		cfg:      cfg,
		out:      out,
		stdin:    stdin,
		builtins: builtins,
	}
	if cmd.needStore {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				cvfyLog.Errorf("Unable to close cell store: %v", err)
			}
		}()
		e.store = store
	}
	if shutdownRequested(ctx) {
		return ctx.Err()
	}
	return cmd.run(ctx, e, args)
}

// openStore opens the configured cell store wrapped in a cache.
func openStore(cfg *config) (cellstore.Store, error) {
	dbPath := filepath.Join(cfg.DataDir, "cells_"+cfg.DbType)
	store, err := cellstore.Open(cfg.DbType, dbPath)
	if err != nil {
		return nil, err
	}
	if cfg.CacheSize == 0 {
		return store, nil
	}
	return cellstore.NewCachedStore(store, cfg.CacheSize), nil
}
