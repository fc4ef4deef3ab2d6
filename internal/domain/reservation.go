package domain

import (
	"fmt"
	"time"
)

const (
	MinPartySize = 1
	MaxPartySize = 20
)

// Reservation represents an exclusive claim on a table for a time window.
// Reservations are never physically deleted; cancellation is a terminal status.
type Reservation struct {
	ID         string
	CustomerID string
	TableID    string
	WaiterID   string
	PartySize  int
	StartTime  time.Time
	EndTime    time.Time
	Status     ReservationStatus
	IsWalkIn   bool
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewReservation creates a reservation with business rules applied.
// Version starts at 1; every accepted conditional update increments it by one.
func NewReservation(customerID string, partySize int, start, end time.Time, status ReservationStatus, walkIn bool) (*Reservation, error) {
	r := &Reservation{
		CustomerID: customerID,
		PartySize:  partySize,
		StartTime:  start,
		EndTime:    end,
		Status:     status,
		IsWalkIn:   walkIn,
		Version:    1,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate applies business validation rules.
func (r *Reservation) Validate() error {
	if r.PartySize < MinPartySize || r.PartySize > MaxPartySize {
		return fmt.Errorf("%w: got %d", ErrInvalidPartySize, r.PartySize)
	}
	if !r.EndTime.After(r.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	return nil
}

// validTransitions is the reservation state machine. Walk-ins are created
// directly in seated, so pending/confirmed are only ever entered by scheduled
// reservations.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusSeated, StatusCancelled, StatusNoShow},
	StatusSeated:    {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// CanTransitionTo checks if the reservation can move to the new status.
func (r *Reservation) CanTransitionTo(next ReservationStatus) bool {
	for _, s := range validTransitions[r.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// TransitionTo moves the reservation to a new status or fails without mutation.
func (r *Reservation) TransitionTo(next ReservationStatus) error {
	if !r.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}
	r.Status = next
	r.UpdatedAt = time.Now()
	return nil
}
