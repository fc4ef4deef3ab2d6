package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type waiterRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Waiter
}

func NewWaiterRepository() interfaces.WaiterRepository {
	return &waiterRepository{records: make(map[string]*domain.Waiter)}
}

func cloneWaiter(w *domain.Waiter) *domain.Waiter {
	c := *w
	c.AssignedTables = append([]string(nil), w.AssignedTables...)
	return &c
}

func (repo *waiterRepository) Create(ctx context.Context, w *domain.Waiter) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.records[w.ID]; ok {
		return fmt.Errorf("waiter %s already exists", w.ID)
	}
	repo.records[w.ID] = cloneWaiter(w)
	return nil
}

func (repo *waiterRepository) Get(ctx context.Context, id string) (*domain.Waiter, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	w, ok := repo.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: waiter %s", domain.ErrNotFound, id)
	}
	return cloneWaiter(w), nil
}

func (repo *waiterRepository) List(ctx context.Context) ([]*domain.Waiter, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]*domain.Waiter, 0, len(repo.records))
	for _, w := range repo.records {
		out = append(out, cloneWaiter(w))
	}
	return out, nil
}

func (repo *waiterRepository) Update(ctx context.Context, w *domain.Waiter) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.records[w.ID]
	if !ok {
		return fmt.Errorf("%w: waiter %s", domain.ErrNotFound, w.ID)
	}
	next := cloneWaiter(w)
	next.Version = stored.Version + 1
	next.UpdatedAt = time.Now()
	repo.records[w.ID] = next
	return nil
}
