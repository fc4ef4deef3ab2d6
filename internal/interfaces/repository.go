package interfaces

import (
	"context"

	"github.com/YelzhanWeb/tables/internal/domain"
)

// ReservationPatch mutates a working copy of a reservation inside a
// conditional update. Returning an error aborts the update without mutation.
type ReservationPatch func(*domain.Reservation) error

// ReservationRepository is the persistence boundary for reservations.
// ConditionalUpdate is the only mutation path after creation: it applies the
// patch only when expectedVersion matches the stored version, increments the
// version by exactly one and returns the new snapshot, or fails with
// domain.ErrConcurrentModification leaving the record untouched.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	Get(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context) ([]*domain.Reservation, error)
	ListByTable(ctx context.Context, tableID string) ([]*domain.Reservation, error)
	ConditionalUpdate(ctx context.Context, id string, expectedVersion int, patch ReservationPatch) (*domain.Reservation, error)
}

type TableRepository interface {
	Create(ctx context.Context, t *domain.Table) error
	Get(ctx context.Context, id string) (*domain.Table, error)
	List(ctx context.Context) ([]*domain.Table, error)
	UpdateStatus(ctx context.Context, id string, status domain.TableStatus) error
}

type WaiterRepository interface {
	Create(ctx context.Context, w *domain.Waiter) error
	Get(ctx context.Context, id string) (*domain.Waiter, error)
	List(ctx context.Context) ([]*domain.Waiter, error)
	Update(ctx context.Context, w *domain.Waiter) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	Get(ctx context.Context, id string) (*domain.Customer, error)
	// FindByContact matches on phone or email; empty fields never match.
	// Returns domain.ErrNotFound when no customer matches.
	FindByContact(ctx context.Context, phone, email string) (*domain.Customer, error)
}
