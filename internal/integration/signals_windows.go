//go:build windows

package integration

import (
	"os"
	"syscall"
)

func helperSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
	}
}

// Signals cannot be delivered to a child process on Windows.
func testSignals() []os.Signal {
	return nil
}
