package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewReservationValidation(t *testing.T) {
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	tests := []struct {
		name      string
		partySize int
		start     time.Time
		end       time.Time
		wantErr   error
	}{
		{"valid", 4, start, end, nil},
		{"party size zero", 0, start, end, ErrInvalidPartySize},
		{"party size negative", -3, start, end, ErrInvalidPartySize},
		{"party size over max", MaxPartySize + 1, start, end, ErrInvalidPartySize},
		{"party size at max", MaxPartySize, start, end, nil},
		{"end equals start", 4, start, start, ErrValidation},
		{"end before start", 4, end, start, ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReservation("cust-1", tc.partySize, tc.start, tc.end, StatusConfirmed, false)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestReservationTransitions(t *testing.T) {
	all := []ReservationStatus{
		StatusPending, StatusConfirmed, StatusSeated,
		StatusCompleted, StatusCancelled, StatusNoShow,
	}

	allowed := map[ReservationStatus]map[ReservationStatus]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusSeated: true, StatusCancelled: true, StatusNoShow: true},
		StatusSeated:    {StatusCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			r := &Reservation{Status: from}
			want := allowed[from][to]
			if got := r.CanTransitionTo(to); got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}

			err := r.TransitionTo(to)
			if want {
				if err != nil {
					t.Errorf("TransitionTo(%s -> %s) failed: %v", from, to, err)
				}
				if r.Status != to {
					t.Errorf("status after transition = %s, want %s", r.Status, to)
				}
			} else {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("TransitionTo(%s -> %s): got %v, want ErrInvalidTransition", from, to, err)
				}
				if r.Status != from {
					t.Errorf("status mutated by rejected transition: %s", r.Status)
				}
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := map[ReservationStatus]bool{
		StatusCompleted: true,
		StatusCancelled: true,
		StatusNoShow:    true,
	}
	for _, s := range []ReservationStatus{
		StatusPending, StatusConfirmed, StatusSeated,
		StatusCompleted, StatusCancelled, StatusNoShow,
	} {
		if got := s.IsTerminal(); got != terminal[s] {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, terminal[s])
		}
		if got := s.IsActive(); got == terminal[s] {
			t.Errorf("%s.IsActive() = %v, want %v", s, got, !terminal[s])
		}
	}
}
