// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package vm provides the execution contract between the verification driver and
lock programs.

Programs are native implementations registered against the data hash of the
binary cell that lock scripts reference.  A Machine exposes the syscall surface
a program may observe (the transaction hash, its lock script arguments, its
witness and the dependency cells) and meters every syscall and cryptographic
operation against a CycleBudget shared by all inputs of one verification run.

Programs report their outcome through an ExitCode.  Exceeding the cycle budget
is a machine fault reported as an error with ErrExceededMaxCycles rather than
an exit code chosen by the program.
*/
package vm
