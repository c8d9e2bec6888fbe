//go:build windows

package main

import "os"

// stopSignals are the signals that cancel a running sweep.
// On Windows, only os.Interrupt (Ctrl+C) is supported; SIGTERM does not exist.
var stopSignals = []os.Signal{os.Interrupt}
