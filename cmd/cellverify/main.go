// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// cellverify verifies that transactions are authorized to spend the cells
// they consume by executing the lock script of every input against a local
// cell store.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/decred/cellverify/internal/version"
	flags "github.com/jessevdk/go-flags"
)

// These constants define the process exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitRejected = 2
)

// realMain is the real main function for cellverify.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() int {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	cfg, args, err := loadConfig(os.Args[1:])
	if err != nil {
		var e *flags.Error
		if !errors.As(err, &e) || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitError
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Get a context that will be canceled when a shutdown signal has been
	// triggered from an OS signal such as SIGINT (Ctrl+C).
	ctx, stop := shutdownListener()
	defer stop()

	cvfyLog.Debugf("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)

	err = runCommand(ctx, cfg, args, os.Stdout, os.Stdin)
	switch {
	case errors.Is(err, errRejected):
		return exitRejected
	case err != nil:
		cvfyLog.Debugf("Command failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	return exitOK
}

func main() {
	os.Exit(realMain())
}
