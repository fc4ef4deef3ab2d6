package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type customerRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Customer
}

func NewCustomerRepository() interfaces.CustomerRepository {
	return &customerRepository{records: make(map[string]*domain.Customer)}
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	cp := *c
	return &cp
}

func (repo *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.records[c.ID]; ok {
		return fmt.Errorf("customer %s already exists", c.ID)
	}
	repo.records[c.ID] = cloneCustomer(c)
	return nil
}

func (repo *customerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	c, ok := repo.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrNotFound, id)
	}
	return cloneCustomer(c), nil
}

func (repo *customerRepository) FindByContact(ctx context.Context, phone, email string) (*domain.Customer, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if phone == "" && email == "" {
		return nil, fmt.Errorf("%w: no contact to match", domain.ErrNotFound)
	}
	for _, c := range repo.records {
		if c.Matches(phone, email) {
			return cloneCustomer(c), nil
		}
	}
	return nil, fmt.Errorf("%w: customer", domain.ErrNotFound)
}
