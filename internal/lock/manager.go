// Package lock provides per-resource mutual exclusion with TTL expiry.
//
// The Manager keeps an in-memory map of resource key to lock entry guarded by
// a single mutex, so every acquisition is an atomic check-and-set. Locks are
// advisory: holders are identified by an owner token, re-acquisition by the
// same owner succeeds and refreshes the expiry, and an expired lock is
// silently reclaimable by the next acquirer. There is no cancellation
// primitive; the only guaranteed cleanup is release on every exit path.
package lock

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/tables/internal/domain"
)

// Key identifies a lockable resource by kind and id.
type Key struct {
	Kind string
	ID   string
}

func (k Key) String() string { return k.Kind + ":" + k.ID }

// Resource is one entry in a multi-acquire request.
type Resource struct {
	Kind string
	ID   string
}

type entry struct {
	owner      string
	acquiredAt time.Time
	expiresAt  time.Time
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// Manager owns the live lock map. The zero value is not usable; construct
// with NewManager.
type Manager struct {
	mu    sync.Mutex
	locks map[Key]entry
	now   func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		locks: make(map[Key]entry),
		now:   time.Now,
	}
}

// Acquire takes the lock for owner, or refreshes it if owner already holds
// it. Returns domain.ErrLockHeld when a different owner holds a still-valid
// lock. The check and the write happen under one mutex hold.
func (m *Manager) Acquire(kind, id, owner string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquireLocked(Key{kind, id}, owner, ttl)
}

func (m *Manager) acquireLocked(key Key, owner string, ttl time.Duration) error {
	now := m.now()
	if existing, ok := m.locks[key]; ok && !existing.expired(now) && existing.owner != owner {
		return fmt.Errorf("%w: %s held by %s", domain.ErrLockHeld, key, existing.owner)
	}
	m.locks[key] = entry{owner: owner, acquiredAt: now, expiresAt: now.Add(ttl)}
	return nil
}

// Release drops the lock. Releasing an absent lock succeeds (idempotent);
// releasing a lock held by a different owner fails without mutation.
func (m *Manager) Release(kind, id, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releaseLocked(Key{kind, id}, owner)
}

func (m *Manager) releaseLocked(key Key, owner string) error {
	existing, ok := m.locks[key]
	if !ok {
		return nil
	}
	if existing.owner != owner {
		return fmt.Errorf("%w: %s held by %s", domain.ErrLockHeld, key, existing.owner)
	}
	delete(m.locks, key)
	return nil
}

// IsLocked reports whether a valid lock exists for the key, lazily evicting
// an expired entry.
func (m *Manager) IsLocked(kind, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key{kind, id}
	existing, ok := m.locks[key]
	if !ok {
		return false
	}
	if existing.expired(m.now()) {
		delete(m.locks, key)
		return false
	}
	return true
}

// AcquireMultiple takes all requested locks or none of them. Keys are sorted
// into a canonical order before acquiring sequentially, so two callers
// requesting overlapping sets in different orders cannot deadlock. On the
// first failure every lock newly taken by this call is rolled back; locks the
// owner already held before the call survive.
func (m *Manager) AcquireMultiple(resources []Resource, owner string, ttl time.Duration) error {
	keys := make([]Key, len(resources))
	for i, r := range resources {
		keys[i] = Key{r.Kind, r.ID}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].ID < keys[j].ID
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var taken []Key
	for _, key := range keys {
		if existing, ok := m.locks[key]; ok && !existing.expired(now) && existing.owner == owner {
			// Already held before this call; refresh but never roll back.
			m.locks[key] = entry{owner: owner, acquiredAt: existing.acquiredAt, expiresAt: now.Add(ttl)}
			continue
		}
		if err := m.acquireLocked(key, owner, ttl); err != nil {
			for _, t := range taken {
				delete(m.locks, t)
			}
			return fmt.Errorf("acquire %s: %w", key, err)
		}
		taken = append(taken, key)
	}
	return nil
}

// WithLock runs body while holding the lock for (kind, id) under a private
// owner token. The lock is released on every exit path. The body's error is
// returned as-is so business rejections stay distinguishable from faults.
func (m *Manager) WithLock(kind, id string, ttl time.Duration, body func() (any, error)) (any, error) {
	owner := uuid.NewString()
	if err := m.Acquire(kind, id, owner, ttl); err != nil {
		return nil, err
	}
	defer m.Release(kind, id, owner)
	return body()
}

// WithLock is the typed variant of Manager.WithLock.
func WithLock[T any](m *Manager, kind, id string, ttl time.Duration, body func() (T, error)) (T, error) {
	var zero T
	owner := uuid.NewString()
	if err := m.Acquire(kind, id, owner, ttl); err != nil {
		return zero, err
	}
	defer m.Release(kind, id, owner)
	return body()
}
