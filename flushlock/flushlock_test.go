package flushlock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryLockReflectsMarkerPresence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flush.lock")
	l := New(path)
	require.True(t, l.TryLock())

	require.NoError(t, l.LockShared())
	require.False(t, l.TryLock())
}

func TestLockSharedCreatesMarkerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flush.lock")
	l := New(path)
	require.NoError(t, l.LockShared())

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestLockSharedIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flush.lock")
	l := New(path)
	require.NoError(t, l.LockShared())
	require.NoError(t, l.LockShared())
}

func TestUnlockSharedRemovesMarkerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flush.lock")
	l := New(path)
	require.NoError(t, l.LockShared())
	require.NoError(t, l.UnlockShared())

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestUnlockSharedToleratesAlreadyRemovedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flush.lock")
	l := New(path)
	require.NoError(t, l.LockShared())
	require.NoError(t, os.Remove(path))

	require.NoError(t, l.UnlockShared())
}

func TestUnlockSharedWithoutLockIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flush.lock")
	l := New(path)
	require.NoError(t, l.UnlockShared())
}
