// Package flushlock implements the filesystem flush-lock collaborator: a
// presence-of-file marker used to signal that a directory tree (a block
// store, a UTXO snapshot) is mid-write and must not be read or backed up
// by another process until the marker is removed.
package flushlock

import "os"

// Lock guards file, a path used purely as a presence marker — its contents
// are never read. It is not safe for concurrent use from multiple
// goroutines against the same path; callers that need that should
// serialize access themselves, the same way the original single-threaded
// flush-lock design assumed one lock owner at a time.
type Lock struct {
	path   string
	locked bool
}

// New returns a Lock guarding path. It does not touch the filesystem.
func New(path string) *Lock {
	return &Lock{path: path}
}

// exists reports whether the marker file is present.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TryLock reports whether the lock is currently free, i.e. the marker file
// does not exist. It does not acquire the lock.
func (l *Lock) TryLock() bool {
	return !exists(l.path)
}

// LockShared creates the marker file if it is not already held by this
// Lock. It is idempotent: calling it again while already locked succeeds
// without touching the filesystem.
func (l *Lock) LockShared() error {
	if l.locked {
		return nil
	}
	f, err := os.Create(l.path)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	l.locked = true
	return nil
}

// UnlockShared removes the marker file. Removing an already-absent file
// (e.g. deleted out of band) is not treated as an error, matching the
// debugging-only significance of a false return from the original
// implementation's equivalent call.
func (l *Lock) UnlockShared() error {
	if !l.locked {
		return nil
	}
	err := os.Remove(l.path)
	l.locked = false
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
