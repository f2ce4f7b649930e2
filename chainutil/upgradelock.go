package chainutil

import "sync"

// UpgradeLock is a three-mode reader/writer lock: any number of shared
// (read) holders may run concurrently, but a holder that discovers it needs
// to write can upgrade in place without first releasing its shared hold and
// racing every other writer for the exclusive lock from scratch.
//
// Only one goroutine may hold the upgradeable slot at a time; any number may
// hold a plain shared lock alongside it. Upgrading blocks until every plain
// shared holder has released, then grants exclusive access to the upgrader.
// This is the access pattern the per-block derived-quantity cache needs:
// many readers probe the cache under a shared lock, and the rare one that
// misses upgrades to compute and store the value without dropping back to
// the end of the writer queue.
type UpgradeLock struct {
	mu         sync.RWMutex
	upgradeMu  sync.Mutex
	upgrading  bool
}

// Lock acquires the lock for shared (read-only) access.
func (l *UpgradeLock) Lock() {
	l.mu.RLock()
}

// Unlock releases a shared hold acquired with Lock.
func (l *UpgradeLock) Unlock() {
	l.mu.RUnlock()
}

// LockUpgradeable acquires the upgradeable slot. It behaves as a shared
// lock until the holder calls Upgrade. Only one goroutine may hold the
// upgradeable slot at a time.
func (l *UpgradeLock) LockUpgradeable() {
	l.upgradeMu.Lock()
	l.mu.RLock()
	l.upgrading = true
}

// UnlockUpgradeable releases the upgradeable slot without ever upgrading to
// exclusive access.
func (l *UpgradeLock) UnlockUpgradeable() {
	l.upgrading = false
	l.mu.RUnlock()
	l.upgradeMu.Unlock()
}

// Upgrade converts the caller's upgradeable hold into an exclusive hold,
// blocking until every plain shared holder has released. The caller must
// have acquired the lock via LockUpgradeable and must release the
// resulting exclusive hold with Downgrade or UnlockExclusive.
func (l *UpgradeLock) Upgrade() {
	l.mu.RUnlock()
	l.mu.Lock()
}

// Downgrade converts the caller's exclusive hold back into the upgradeable
// (shared) hold it started from.
func (l *UpgradeLock) Downgrade() {
	l.mu.Unlock()
	l.mu.RLock()
}

// UnlockExclusive releases an exclusive hold obtained via Upgrade, and also
// releases the upgradeable slot it was converted from.
func (l *UpgradeLock) UnlockExclusive() {
	l.upgrading = false
	l.mu.Unlock()
	l.upgradeMu.Unlock()
}
