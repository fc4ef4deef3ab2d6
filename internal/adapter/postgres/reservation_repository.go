package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type reservationRepository struct {
	db DB
}

func NewReservationRepository(db DB) interfaces.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, customer_id, table_id, waiter_id, party_size,
	start_time, end_time, status, is_walk_in, version, created_at, updated_at`

func scanReservation(row Row) (*domain.Reservation, error) {
	var r domain.Reservation
	err := row.Scan(
		&r.ID, &r.CustomerID, &r.TableID, &r.WaiterID, &r.PartySize,
		&r.StartTime, &r.EndTime, &r.Status, &r.IsWalkIn, &r.Version,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *reservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := repo.db.Exec(ctx, query,
		r.ID, r.CustomerID, r.TableID, r.WaiterID, r.PartySize,
		r.StartTime, r.EndTime, r.Status, r.IsWalkIn, r.Version,
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (repo *reservationRepository) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	r, err := scanReservation(repo.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
	}
	return r, nil
}

func (repo *reservationRepository) List(ctx context.Context) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY start_time`
	rows, err := repo.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (repo *reservationRepository) ListByTable(ctx context.Context, tableID string) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE table_id = $1 ORDER BY start_time`
	rows, err := repo.db.Query(ctx, query, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// ConditionalUpdate locks the row, applies the patch in memory, then writes
// it back guarded by the version column. The guard is what makes a stale
// caller fail even if another transaction slipped in between.
func (repo *reservationRepository) ConditionalUpdate(ctx context.Context, id string, expectedVersion int, patch interfaces.ReservationPatch) (*domain.Reservation, error) {
	tx, err := repo.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	stored, err := scanReservation(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
	}
	if stored.Version != expectedVersion {
		return nil, fmt.Errorf("%w: reservation %s expected version %d, stored %d",
			domain.ErrConcurrentModification, id, expectedVersion, stored.Version)
	}

	next := *stored
	if err := patch(&next); err != nil {
		return nil, err
	}
	next.Version = stored.Version + 1
	next.UpdatedAt = time.Now()

	update := `
		UPDATE reservations
		SET customer_id = $1, table_id = $2, waiter_id = $3, party_size = $4,
			start_time = $5, end_time = $6, status = $7, is_walk_in = $8,
			version = $9, updated_at = $10
		WHERE id = $11 AND version = $12
	`
	tag, err := tx.Exec(ctx, update,
		next.CustomerID, next.TableID, next.WaiterID, next.PartySize,
		next.StartTime, next.EndTime, next.Status, next.IsWalkIn,
		next.Version, next.UpdatedAt, id, expectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: reservation %s", domain.ErrConcurrentModification, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return &next, nil
}
