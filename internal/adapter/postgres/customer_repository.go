package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type customerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) interfaces.CustomerRepository {
	return &customerRepository{db: db}
}

func (repo *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, email, is_walk_in, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := repo.db.Exec(ctx, query,
		c.ID, c.Name, c.Phone, c.Email, c.IsWalkIn, c.Version, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (repo *customerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, name, phone, email, is_walk_in, version, created_at, updated_at
		FROM customers WHERE id = $1
	`
	var c domain.Customer
	err := repo.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.IsWalkIn, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrNotFound, id)
	}
	return &c, nil
}

func (repo *customerRepository) FindByContact(ctx context.Context, phone, email string) (*domain.Customer, error) {
	if phone == "" && email == "" {
		return nil, fmt.Errorf("%w: no contact to match", domain.ErrNotFound)
	}
	query := `
		SELECT id, name, phone, email, is_walk_in, version, created_at, updated_at
		FROM customers
		WHERE (phone = $1 AND $1 <> '') OR (LOWER(email) = LOWER($2) AND $2 <> '')
		LIMIT 1
	`
	var c domain.Customer
	err := repo.db.QueryRow(ctx, query, phone, email).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.IsWalkIn, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: customer", domain.ErrNotFound)
	}
	return &c, nil
}
