// Package memory implements the repository interfaces as in-process versioned
// record stores. One logical process owns the shared state; every repository
// guards its map with an RWMutex and hands out copies, never aliases of the
// stored records. Conditional updates are the optimistic-concurrency path:
// the stored version must match the caller's expected version, and every
// accepted mutation increments it by exactly one.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type reservationRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Reservation
}

func NewReservationRepository() interfaces.ReservationRepository {
	return &reservationRepository{records: make(map[string]*domain.Reservation)}
}

func cloneReservation(r *domain.Reservation) *domain.Reservation {
	c := *r
	return &c
}

func (repo *reservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.records[r.ID]; ok {
		return fmt.Errorf("reservation %s already exists", r.ID)
	}
	repo.records[r.ID] = cloneReservation(r)
	return nil
}

func (repo *reservationRepository) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	r, ok := repo.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
	}
	return cloneReservation(r), nil
}

func (repo *reservationRepository) List(ctx context.Context) ([]*domain.Reservation, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]*domain.Reservation, 0, len(repo.records))
	for _, r := range repo.records {
		out = append(out, cloneReservation(r))
	}
	return out, nil
}

func (repo *reservationRepository) ListByTable(ctx context.Context, tableID string) ([]*domain.Reservation, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var out []*domain.Reservation
	for _, r := range repo.records {
		if r.TableID == tableID {
			out = append(out, cloneReservation(r))
		}
	}
	return out, nil
}

func (repo *reservationRepository) ConditionalUpdate(ctx context.Context, id string, expectedVersion int, patch interfaces.ReservationPatch) (*domain.Reservation, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
	}
	if stored.Version != expectedVersion {
		return nil, fmt.Errorf("%w: reservation %s expected version %d, stored %d",
			domain.ErrConcurrentModification, id, expectedVersion, stored.Version)
	}

	// Patch a working copy so a rejected patch leaves the record untouched.
	next := cloneReservation(stored)
	if err := patch(next); err != nil {
		return nil, err
	}
	next.Version = stored.Version + 1
	next.UpdatedAt = time.Now()

	repo.records[id] = next
	return cloneReservation(next), nil
}
