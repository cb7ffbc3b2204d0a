// Package filelock provides a cross-process exclusive lock backed by an OS
// file lock. The OS drops the lock when the holding process exits, so a
// crash never leaves the workspace wedged.
package filelock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	initialBackoff = 5 * time.Millisecond
	maxBackoff     = 50 * time.Millisecond
)

// Holder is written into the lock file while the lock is held
type Holder struct {
	PID     int       `json:"pid"`
	Since   time.Time `json:"since"`
	Command string    `json:"command,omitempty"`
}

// Lock is an exclusive lock on a single path
type Lock struct {
	path string
	file *os.File
}

// New returns an unheld lock for path. The parent directory is created on
// Acquire.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.path
}

// Acquire polls for the lock with exponential backoff until timeout. The
// timeout error names the current holder.
func (l *Lock) Acquire(timeout time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	l.file = f

	deadline := time.Now().Add(timeout)
	backoff := initialBackoff
	for {
		if err := tryLock(l.file); err == nil {
			l.recordHolder()
			return nil
		}

		if time.Now().After(deadline) {
			holder := l.describeHolder()
			l.file.Close()
			l.file = nil
			return fmt.Errorf("lock %s timed out after %v (held by %s)", filepath.Base(l.path), timeout, holder)
		}

		time.Sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}
}

// Release clears the holder record and drops the lock. Releasing an unheld
// lock is a no-op.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	l.file.Truncate(0)
	unlock(l.file)
	err := l.file.Close()
	l.file = nil
	return err
}

// With runs fn while holding the lock at path
func With(path string, timeout time.Duration, fn func() error) error {
	l := New(path)
	if err := l.Acquire(timeout); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

func (l *Lock) recordHolder() {
	h := Holder{PID: os.Getpid(), Since: time.Now().UTC()}
	if len(os.Args) > 1 {
		h.Command = strings.Join(os.Args[1:], " ")
	}
	data, err := json.Marshal(h)
	if err != nil {
		return
	}
	l.file.Truncate(0)
	l.file.Seek(0, 0)
	l.file.Write(data)
	l.file.Sync()
}

// ReadHolder returns the holder recorded at path, if any
func ReadHolder(path string) (*Holder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var h Holder
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse lock holder: %w", err)
	}
	return &h, nil
}

func (l *Lock) describeHolder() string {
	h, err := ReadHolder(l.path)
	if err != nil || h == nil || h.PID == 0 {
		return "unknown"
	}
	desc := fmt.Sprintf("pid %d since %s", h.PID, h.Since.Format(time.RFC3339))
	if h.Command != "" {
		desc += fmt.Sprintf(" (%s)", h.Command)
	}
	if !processAlive(h.PID) {
		desc += ", process is gone"
	}
	return desc
}
