// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
)

// interruptSignals defines the default signals to catch in order to abort a
// command.  This may be modified during init depending on the platform.
var interruptSignals = []os.Signal{os.Interrupt}

// shutdownListener listens for OS signals such as SIGINT (Ctrl+C).  It returns
// a context that is canceled when one is received along with a function that
// stops listening.
func shutdownListener() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	interruptChannel := make(chan os.Signal, 1)
	signal.Notify(interruptChannel, interruptSignals...)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-interruptChannel:
			cvfyLog.Infof("Received signal (%s).  Aborting...", sig)
			cancel()
		case <-done:
			return
		}

		// Repeated signals only inform the user the abort is in progress
		// and the process is not hung.
		for {
			select {
			case sig := <-interruptChannel:
				cvfyLog.Infof("Received signal (%s).  Already "+
					"aborting...", sig)
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		signal.Stop(interruptChannel)
		close(done)
		cancel()
	}
	return ctx, stop
}

// shutdownRequested returns true when the context returned by shutdownListener
// was canceled.
func shutdownRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}

	return false
}
