// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"fmt"
)

// InputState is the verification state of a single input.  An input moves
// through the states in order and ends in either InputPassed or InputFailed.
type InputState uint8

// These constants define the input verification states.
const (
	// InputPending is the state of an input that has not been dispatched.
	InputPending InputState = iota

	// InputResolved is the state of an input whose spent cell is bound.
	InputResolved

	// InputScriptLoaded is the state of an input whose lock program was
	// located among the dependency cells.
	InputScriptLoaded

	// InputExecuting is the state of an input whose lock program is
	// running.
	InputExecuting

	// InputPassed is the state of an input whose lock program exited with
	// vm.ExitSuccess.
	InputPassed

	// InputFailed is the state of an input that could not be verified or
	// whose lock program rejected the spend.
	InputFailed
)

// inputStateStrings is a map of input states back to their constant names
// for pretty printing.
var inputStateStrings = map[InputState]string{
	InputPending:      "InputPending",
	InputResolved:     "InputResolved",
	InputScriptLoaded: "InputScriptLoaded",
	InputExecuting:    "InputExecuting",
	InputPassed:       "InputPassed",
	InputFailed:       "InputFailed",
}

// String returns the InputState as a human-readable name.
func (s InputState) String() string {
	if str, ok := inputStateStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown InputState (%d)", uint8(s))
}
