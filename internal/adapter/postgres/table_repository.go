package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type tableRepository struct {
	db DB
}

func NewTableRepository(db DB) interfaces.TableRepository {
	return &tableRepository{db: db}
}

func (repo *tableRepository) Create(ctx context.Context, t *domain.Table) error {
	query := `
		INSERT INTO tables (id, number, capacity, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := repo.db.Exec(ctx, query,
		t.ID, t.Number, t.Capacity, t.Status, t.Version, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (repo *tableRepository) Get(ctx context.Context, id string) (*domain.Table, error) {
	query := `
		SELECT id, number, capacity, status, version, created_at, updated_at
		FROM tables WHERE id = $1
	`
	var t domain.Table
	err := repo.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Number, &t.Capacity, &t.Status, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: table %s", domain.ErrNotFound, id)
	}
	return &t, nil
}

func (repo *tableRepository) List(ctx context.Context) ([]*domain.Table, error) {
	query := `
		SELECT id, number, capacity, status, version, created_at, updated_at
		FROM tables ORDER BY number
	`
	rows, err := repo.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var out []*domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity, &t.Status, &t.Version, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		out = append(out, &t)
	}
	return out, nil
}

func (repo *tableRepository) UpdateStatus(ctx context.Context, id string, status domain.TableStatus) error {
	query := `
		UPDATE tables
		SET status = $1, version = version + 1, updated_at = $2
		WHERE id = $3
	`
	tag, err := repo.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update table status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: table %s", domain.ErrNotFound, id)
	}
	return nil
}
