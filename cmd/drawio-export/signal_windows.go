//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// batchSignals end an export or watch run.
// Note: syscall.SIGTERM is not available on Windows.
var batchSignals = []os.Signal{os.Interrupt}

// notifyContext returns a context canceled on Ctrl+C. Call stop() to
// release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, batchSignals...)
}
