package lock

import (
	"storemy/pkg/dberr"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/page"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockManager_SharedLocksCoexist(t *testing.T) {
	lm := NewLockManager()
	pid := page.NewPageDescriptor(1, 0)
	a := primitives.NewTransactionID()
	b := primitives.NewTransactionID()

	require.NoError(t, lm.Acquire(a, pid, Shared))
	require.NoError(t, lm.Acquire(b, pid, Shared))

	assert.True(t, lm.HoldsLock(a, pid, Shared))
	assert.True(t, lm.HoldsLock(b, pid, Shared))
}

func TestLockManager_AcquireIsNoOpAtSameOrLowerMode(t *testing.T) {
	lm := NewLockManager()
	pid := page.NewPageDescriptor(1, 0)
	tid := primitives.NewTransactionID()

	require.NoError(t, lm.Acquire(tid, pid, Exclusive))
	require.NoError(t, lm.Acquire(tid, pid, Shared))
	assert.True(t, lm.HoldsLock(tid, pid, Exclusive))
}

func TestLockManager_UpgradeSoleSharedHolder(t *testing.T) {
	lm := NewLockManager()
	pid := page.NewPageDescriptor(1, 0)
	tid := primitives.NewTransactionID()

	require.NoError(t, lm.Acquire(tid, pid, Shared))
	require.NoError(t, lm.Acquire(tid, pid, Exclusive))
	assert.True(t, lm.HoldsLock(tid, pid, Exclusive))
}

func TestLockManager_ExclusiveBlocksOtherExclusive(t *testing.T) {
	lm := NewLockManager()
	pid := page.NewPageDescriptor(1, 0)
	a := primitives.NewTransactionID()
	b := primitives.NewTransactionID()

	require.NoError(t, lm.Acquire(a, pid, Exclusive))

	var wg sync.WaitGroup
	wg.Add(1)
	granted := false
	go func() {
		defer wg.Done()
		time.Sleep(20 * time.Millisecond)
		lm.Release(a, pid)
	}()

	go func() {
		err := lm.Acquire(b, pid, Exclusive)
		if err == nil {
			granted = true
		}
	}()

	wg.Wait()
	assert.Eventually(t, func() bool { return granted }, 2*time.Second, 5*time.Millisecond)
}

func TestLockManager_TimesOutUnderContention(t *testing.T) {
	lm := NewLockManager()
	pid := page.NewPageDescriptor(1, 0)
	a := primitives.NewTransactionID()
	b := primitives.NewTransactionID()

	require.NoError(t, lm.Acquire(a, pid, Exclusive))

	err := lm.Acquire(b, pid, Exclusive)
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.KindConcurrency))
}

func TestLockManager_ReleaseRemovesEmptyItem(t *testing.T) {
	lm := NewLockManager()
	pid := page.NewPageDescriptor(1, 0)
	tid := primitives.NewTransactionID()

	require.NoError(t, lm.Acquire(tid, pid, Shared))
	lm.Release(tid, pid)

	lm.mu.Lock()
	_, exists := lm.table[pid]
	lm.mu.Unlock()
	assert.False(t, exists)
}

func TestLockManager_EndTransactionReleasesAllHeldPages(t *testing.T) {
	lm := NewLockManager()
	tid := primitives.NewTransactionID()
	p1 := page.NewPageDescriptor(1, 0)
	p2 := page.NewPageDescriptor(1, 1)

	require.NoError(t, lm.Acquire(tid, p1, Shared))
	require.NoError(t, lm.Acquire(tid, p2, Exclusive))

	lm.EndTransaction(tid)

	assert.False(t, lm.HoldsLock(tid, p1, Shared))
	assert.False(t, lm.HoldsLock(tid, p2, Exclusive))
	assert.Empty(t, lm.HeldPages(tid))
}

func TestLockManager_AcquireRejectsNilTransaction(t *testing.T) {
	lm := NewLockManager()
	pid := page.NewPageDescriptor(1, 0)

	err := lm.Acquire(nil, pid, Shared)
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.KindProgrammer))
}
