// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Exit codes: 0 result found or mode finished cleanly, 1 unknown or
// timeout, 2 unexpected signal, 3 keyboard interrupt.

var exiting int32

var sigs = make(chan os.Signal, 1)

func init() {
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for sig := range sigs {
			switch sig {
			case syscall.SIGINT:
				fmt.Fprintln(os.Stderr, "\n% interrupted")
				os.Exit(3)
			case syscall.SIGTERM:
				fmt.Fprintln(os.Stderr, "\n% terminated")
				os.Exit(2)
			}
		}
	}()
}

// exit leaves the process once, letting the signal handler win a race.
func exit(code int) {
	if atomic.CompareAndSwapInt32(&exiting, 0, 1) {
		os.Exit(code)
	}
}
