package lock

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
)

const testTTL = time.Minute

func TestAcquireAndReentrancy(t *testing.T) {
	m := NewManager()

	if err := m.Acquire("table", "t1", "alice", testTTL); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	// Same owner re-acquires.
	if err := m.Acquire("table", "t1", "alice", testTTL); err != nil {
		t.Errorf("re-entrant acquire failed: %v", err)
	}

	// Different owner is rejected while the lock is valid.
	err := m.Acquire("table", "t1", "bob", testTTL)
	if !errors.Is(err, domain.ErrLockHeld) {
		t.Errorf("acquire by other owner: got %v, want ErrLockHeld", err)
	}
}

func TestAcquireAfterExpiry(t *testing.T) {
	m := NewManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	if err := m.Acquire("table", "t1", "alice", time.Second); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	// One second later the TTL has elapsed and anyone may reclaim.
	now = now.Add(time.Second)
	if err := m.Acquire("table", "t1", "bob", testTTL); err != nil {
		t.Errorf("acquire of expired lock failed: %v", err)
	}
}

func TestRelease(t *testing.T) {
	m := NewManager()

	// Releasing an absent lock is idempotent.
	if err := m.Release("table", "t1", "alice"); err != nil {
		t.Errorf("release of absent lock: %v", err)
	}

	if err := m.Acquire("table", "t1", "alice", testTTL); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	// Foreign owner cannot release and the lock survives.
	if err := m.Release("table", "t1", "bob"); err == nil {
		t.Error("release by foreign owner succeeded")
	}
	if !m.IsLocked("table", "t1") {
		t.Error("lock gone after denied release")
	}

	if err := m.Release("table", "t1", "alice"); err != nil {
		t.Errorf("owner release failed: %v", err)
	}
	if m.IsLocked("table", "t1") {
		t.Error("lock still held after release")
	}
}

func TestIsLockedEvictsExpired(t *testing.T) {
	m := NewManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	if err := m.Acquire("table", "t1", "alice", time.Second); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if !m.IsLocked("table", "t1") {
		t.Fatal("lock not reported held")
	}

	now = now.Add(2 * time.Second)
	if m.IsLocked("table", "t1") {
		t.Error("expired lock reported held")
	}
	if _, ok := m.locks[Key{"table", "t1"}]; ok {
		t.Error("expired entry not evicted")
	}
}

func TestAcquireMultipleAllOrNothing(t *testing.T) {
	m := NewManager()

	// bob holds t2; alice's batch of t1..t3 must fail and leave nothing.
	if err := m.Acquire("table", "t2", "bob", testTTL); err != nil {
		t.Fatalf("setup acquire failed: %v", err)
	}

	resources := []Resource{
		{Kind: "table", ID: "t3"},
		{Kind: "table", ID: "t1"},
		{Kind: "table", ID: "t2"},
	}
	err := m.AcquireMultiple(resources, "alice", testTTL)
	if !errors.Is(err, domain.ErrLockHeld) {
		t.Fatalf("AcquireMultiple: got %v, want ErrLockHeld", err)
	}

	for _, id := range []string{"t1", "t3"} {
		if m.IsLocked("table", id) {
			t.Errorf("lock %s left behind after rolled-back batch", id)
		}
	}
	if !m.IsLocked("table", "t2") {
		t.Error("pre-existing lock rolled back")
	}
}

func TestAcquireMultiplePreservesPriorHolds(t *testing.T) {
	m := NewManager()

	// alice already holds t1 outside the batch; a failing batch must not
	// release it.
	if err := m.Acquire("table", "t1", "alice", testTTL); err != nil {
		t.Fatalf("setup acquire failed: %v", err)
	}
	if err := m.Acquire("table", "t2", "bob", testTTL); err != nil {
		t.Fatalf("setup acquire failed: %v", err)
	}

	err := m.AcquireMultiple([]Resource{
		{Kind: "table", ID: "t1"},
		{Kind: "table", ID: "t2"},
	}, "alice", testTTL)
	if err == nil {
		t.Fatal("AcquireMultiple succeeded over bob's lock")
	}

	if !m.IsLocked("table", "t1") {
		t.Error("alice's pre-existing hold was rolled back")
	}
	if err := m.Acquire("table", "t1", "alice", testTTL); err != nil {
		t.Errorf("alice lost ownership of t1: %v", err)
	}
}

func TestAcquireMultipleSuccess(t *testing.T) {
	m := NewManager()

	err := m.AcquireMultiple([]Resource{
		{Kind: "table", ID: "t1"},
		{Kind: "waiter", ID: "w1"},
	}, "alice", testTTL)
	if err != nil {
		t.Fatalf("AcquireMultiple failed: %v", err)
	}
	if !m.IsLocked("table", "t1") || !m.IsLocked("waiter", "w1") {
		t.Error("batch locks not held after success")
	}
}

func TestWithLockReleasesOnError(t *testing.T) {
	m := NewManager()

	wantErr := fmt.Errorf("business rejection")
	_, err := WithLock(m, "slot", "s1", testTTL, func() (int, error) {
		if !m.IsLocked("slot", "s1") {
			t.Error("lock not held inside body")
		}
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("WithLock error = %v, want %v", err, wantErr)
	}
	if m.IsLocked("slot", "s1") {
		t.Error("lock still held after body error")
	}

	got, err := WithLock(m, "slot", "s1", testTTL, func() (int, error) {
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Errorf("WithLock = (%d, %v), want (42, nil)", got, err)
	}
	if m.IsLocked("slot", "s1") {
		t.Error("lock still held after body return")
	}
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	m := NewManager()

	const goroutines = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(owner int) {
			defer wg.Done()
			if err := m.Acquire("slot", "s1", fmt.Sprintf("owner-%d", owner), testTTL); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}
