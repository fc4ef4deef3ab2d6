package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type waiterRepository struct {
	db DB
}

func NewWaiterRepository(db DB) interfaces.WaiterRepository {
	return &waiterRepository{db: db}
}

func (repo *waiterRepository) Create(ctx context.Context, w *domain.Waiter) error {
	query := `
		INSERT INTO waiters (id, name, status, assigned_tables, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := repo.db.Exec(ctx, query,
		w.ID, w.Name, w.Status, w.AssignedTables, w.Version, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create waiter: %w", err)
	}
	return nil
}

func (repo *waiterRepository) Get(ctx context.Context, id string) (*domain.Waiter, error) {
	query := `
		SELECT id, name, status, assigned_tables, version, created_at, updated_at
		FROM waiters WHERE id = $1
	`
	var w domain.Waiter
	err := repo.db.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.Name, &w.Status, &w.AssignedTables, &w.Version, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: waiter %s", domain.ErrNotFound, id)
	}
	return &w, nil
}

func (repo *waiterRepository) List(ctx context.Context) ([]*domain.Waiter, error) {
	query := `
		SELECT id, name, status, assigned_tables, version, created_at, updated_at
		FROM waiters ORDER BY name
	`
	rows, err := repo.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiters: %w", err)
	}
	defer rows.Close()

	var out []*domain.Waiter
	for rows.Next() {
		var w domain.Waiter
		if err := rows.Scan(&w.ID, &w.Name, &w.Status, &w.AssignedTables, &w.Version, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waiter: %w", err)
		}
		out = append(out, &w)
	}
	return out, nil
}

func (repo *waiterRepository) Update(ctx context.Context, w *domain.Waiter) error {
	query := `
		UPDATE waiters
		SET name = $1, status = $2, assigned_tables = $3, version = version + 1, updated_at = $4
		WHERE id = $5
	`
	tag, err := repo.db.Exec(ctx, query, w.Name, w.Status, w.AssignedTables, time.Now(), w.ID)
	if err != nil {
		return fmt.Errorf("failed to update waiter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: waiter %s", domain.ErrNotFound, w.ID)
	}
	return nil
}
