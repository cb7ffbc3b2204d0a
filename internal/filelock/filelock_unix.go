//go:build unix

package filelock

import (
	"os"

	"golang.org/x/sys/unix"
)

// tryLock takes a non-blocking exclusive flock
func tryLock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

func unlock(f *os.File) {
	unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// processAlive probes pid with signal 0
func processAlive(pid int) bool {
	return unix.Kill(pid, 0) == nil
}
