package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type tableRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Table
}

func NewTableRepository() interfaces.TableRepository {
	return &tableRepository{records: make(map[string]*domain.Table)}
}

func cloneTable(t *domain.Table) *domain.Table {
	c := *t
	return &c
}

func (repo *tableRepository) Create(ctx context.Context, t *domain.Table) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.records[t.ID]; ok {
		return fmt.Errorf("table %s already exists", t.ID)
	}
	repo.records[t.ID] = cloneTable(t)
	return nil
}

func (repo *tableRepository) Get(ctx context.Context, id string) (*domain.Table, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	t, ok := repo.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: table %s", domain.ErrNotFound, id)
	}
	return cloneTable(t), nil
}

func (repo *tableRepository) List(ctx context.Context) ([]*domain.Table, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]*domain.Table, 0, len(repo.records))
	for _, t := range repo.records {
		out = append(out, cloneTable(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (repo *tableRepository) UpdateStatus(ctx context.Context, id string, status domain.TableStatus) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.records[id]
	if !ok {
		return fmt.Errorf("%w: table %s", domain.ErrNotFound, id)
	}
	next := cloneTable(stored)
	next.Status = status
	next.Version = stored.Version + 1
	next.UpdatedAt = time.Now()
	repo.records[id] = next
	return nil
}
