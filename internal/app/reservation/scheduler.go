package reservation

import (
	"sync"
	"time"
)

// releaseScheduler owns the deferred table-release timers that flip a table
// from cleaning back to available after the grace period. Tasks are keyed by
// table id with a generation counter: scheduling or cancelling bumps the
// generation, so a timer that fires after being superseded does nothing. This
// closes the race where a table re-reserved during the grace window was later
// flipped back to available under the guest.
type releaseScheduler struct {
	mu     sync.Mutex
	gens   map[string]uint64
	timers map[string]*time.Timer
}

func newReleaseScheduler() *releaseScheduler {
	return &releaseScheduler{
		gens:   make(map[string]uint64),
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms (or re-arms) the release task for tableID. fire runs after
// delay unless the task is cancelled or superseded first; callers never wait
// on it.
func (s *releaseScheduler) Schedule(tableID string, delay time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[tableID]; ok {
		t.Stop()
	}
	s.gens[tableID]++
	gen := s.gens[tableID]

	s.timers[tableID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		current := s.gens[tableID] == gen
		if current {
			delete(s.timers, tableID)
		}
		s.mu.Unlock()

		if current {
			fire()
		}
	})
}

// Cancel supersedes any pending release for tableID. Safe to call when no
// task is armed.
func (s *releaseScheduler) Cancel(tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gens[tableID]++
	if t, ok := s.timers[tableID]; ok {
		t.Stop()
		delete(s.timers, tableID)
	}
}

// Stop cancels every pending task; used on shutdown.
func (s *releaseScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
		s.gens[id]++
	}
}
