package domain

import (
	"errors"
	"time"
)

// Table is a seatable resource with a fixed capacity. Its status is mutated
// only by the reservation orchestrator as a side effect of reservation
// transitions.
type Table struct {
	ID        string
	Number    int
	Capacity  int
	Status    TableStatus
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTable creates a table in the available state.
func NewTable(number, capacity int) (*Table, error) {
	if number < 1 {
		return nil, errors.New("table number must be positive")
	}
	if capacity < 1 {
		return nil, errors.New("table capacity must be positive")
	}
	return &Table{
		Number:    number,
		Capacity:  capacity,
		Status:    TableAvailable,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// Seats reports whether the table can hold a party of the given size.
func (t *Table) Seats(partySize int) bool {
	return t.Capacity >= partySize && t.Status != TableOutOfService
}
