//go:build !windows

package util

import (
	"errors"
	"os"
	"syscall"
)

// processAlive sends signal 0, which checks for existence without
// delivering anything. EPERM means the process exists under another user.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
