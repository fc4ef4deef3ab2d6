package domain

import (
	"errors"
	"time"
)

// Waiter is a staff member that can be assigned tables. Status follows the
// assignment set deterministically: empty set means available, non-empty busy.
// On-break and off-duty are set explicitly and never overridden by assignment.
type Waiter struct {
	ID             string
	Name           string
	Status         WaiterStatus
	AssignedTables []string
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewWaiter creates a waiter in the available state.
func NewWaiter(name string) (*Waiter, error) {
	if name == "" {
		return nil, errors.New("waiter name is required")
	}
	return &Waiter{
		Name:      name,
		Status:    WaiterAvailable,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// AssignTable adds a table to the waiter's set. Idempotent per table.
func (w *Waiter) AssignTable(tableID string) {
	for _, id := range w.AssignedTables {
		if id == tableID {
			return
		}
	}
	w.AssignedTables = append(w.AssignedTables, tableID)
	w.Status = WaiterBusy
	w.UpdatedAt = time.Now()
}

// UnassignTable removes a table from the waiter's set. When the set drains
// the waiter becomes available again.
func (w *Waiter) UnassignTable(tableID string) {
	kept := w.AssignedTables[:0]
	for _, id := range w.AssignedTables {
		if id != tableID {
			kept = append(kept, id)
		}
	}
	w.AssignedTables = kept
	if len(w.AssignedTables) == 0 {
		w.Status = WaiterAvailable
	}
	w.UpdatedAt = time.Now()
}

// Load is the number of tables currently assigned.
func (w *Waiter) Load() int {
	return len(w.AssignedTables)
}

// Assignable reports whether the waiter can take another table.
func (w *Waiter) Assignable() bool {
	return w.Status == WaiterAvailable || w.Status == WaiterBusy
}
