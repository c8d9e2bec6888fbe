//go:build !windows

package main

import (
	"os"
	"syscall"
)

// stopSignals are the signals that cancel a running sweep.
// On Unix systems, this includes both SIGINT and SIGTERM.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
