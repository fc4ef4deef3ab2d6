package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/tables/internal/domain"
)

// Команды для сервисов

type CreateReservationCommand struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	PartySize       int
	StartTime       string // RFC3339
	Timezone        string // optional IANA id
	DurationMinutes int    // 0 means the configured default
	TableID         string // optional preferred table
}

type WalkInCommand struct {
	CustomerName string
	PartySize    int
}

// Ответы сервисов

// Slot is a concrete bookable (table, start, end) window.
type Slot struct {
	TableID   string    `json:"table_id"`
	Number    int       `json:"table_number"`
	Capacity  int       `json:"capacity"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

type WalkInResult struct {
	Reservation *domain.Reservation
	Table       *domain.Table
	Waiter      *domain.Waiter // nil when no waiter could be assigned
}

type WalkInCapacity struct {
	Available bool
	Tables    []*domain.Table
}

// WaitEstimate carries either a minute count or an explicit unknown. Unknown
// means no seated reservation with a known end exists among tables of
// sufficient capacity, never a numeric zero.
type WaitEstimate struct {
	Unknown bool
	Minutes int
	Message string
}

// Интерфейсы сервисов (Business Logic)

type ReservationService interface {
	CreateReservation(ctx context.Context, cmd CreateReservationCommand) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus, expectedVersion int) (*domain.Reservation, error)
	Cancel(ctx context.Context, id string, expectedVersion int) (*domain.Reservation, error)
	Get(ctx context.Context, id string) (*domain.Reservation, error)
	HandleWalkIn(ctx context.Context, cmd WalkInCommand) (*WalkInResult, error)
	CanAccommodateWalkIn(ctx context.Context, partySize int) (*WalkInCapacity, error)
}

type AvailabilityService interface {
	CheckAvailability(ctx context.Context, start time.Time, partySize int, timezone string) ([]Slot, error)
	GenerateSlotGrid(ctx context.Context, day time.Time, partySize int, timezone string) ([]Slot, error)
	FindNextAvailable(ctx context.Context, partySize int, from time.Time, duration time.Duration) (*Slot, error)
	EstimateWaitTime(ctx context.Context, partySize int) (*WaitEstimate, error)
}
