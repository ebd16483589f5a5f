//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals cancel a running build.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
