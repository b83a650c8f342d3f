//go:build windows

package util

import "os"

// FindProcess opens a handle on Windows, so it fails once the process is gone.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	p.Release()
	return true
}
