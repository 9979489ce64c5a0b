//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// batchSignals end an export or watch run. SIGHUP covers a closed terminal
// during long-running watch sessions.
var batchSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

// notifyContext returns a context canceled on the first batch signal.
// The running renderer is killed with its process group. Call stop() to
// release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, batchSignals...)
}
