package availability

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/YelzhanWeb/tables/internal/adapter/logger"
	"github.com/YelzhanWeb/tables/internal/config"
	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
	"github.com/YelzhanWeb/tables/internal/timeutil"
)

// nextAvailableHorizon bounds the forward search so it always terminates.
const nextAvailableHorizon = 24 * time.Hour

// Service computes table eligibility, slot grids and wait estimates. Reads
// are an eventually-consistent snapshot of the store; only the orchestrator's
// lock scope serializes writes for a contested key.
type Service struct {
	tableRepo       interfaces.TableRepository
	reservationRepo interfaces.ReservationRepository
	logger          logger.Logger
	cfg             config.RestaurantConfig
	now             func() time.Time
}

func NewService(
	tableRepo interfaces.TableRepository,
	reservationRepo interfaces.ReservationRepository,
	logger logger.Logger,
	cfg config.RestaurantConfig,
) *Service {
	return &Service{
		tableRepo:       tableRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
		cfg:             cfg,
		now:             time.Now,
	}
}

// FindEligibleTables returns every table that seats the party and has no
// active reservation overlapping [start, end), sorted by capacity ascending
// so the smallest fit comes first. excludeReservationID lets an edit ignore
// its own reservation.
func (s *Service) FindEligibleTables(ctx context.Context, start, end time.Time, partySize int, excludeReservationID string) ([]*domain.Table, error) {
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	reservations, err := s.reservationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	busy := make(map[string]bool)
	for _, r := range reservations {
		if r.ID == excludeReservationID || !r.Status.IsActive() {
			continue
		}
		if timeutil.Overlaps(start, end, r.StartTime, r.EndTime) {
			busy[r.TableID] = true
		}
	}

	var eligible []*domain.Table
	for _, t := range tables {
		if t.Seats(partySize) && !busy[t.ID] {
			eligible = append(eligible, t)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Capacity < eligible[j].Capacity
	})
	return eligible, nil
}

// CheckAvailability returns one slot per eligible table for the window
// starting at start with the configured default duration.
func (s *Service) CheckAvailability(ctx context.Context, start time.Time, partySize int, timezone string) ([]interfaces.Slot, error) {
	if partySize < domain.MinPartySize || partySize > domain.MaxPartySize {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidPartySize, partySize)
	}
	if timezone != "" && !timeutil.IsValidTimezone(timezone) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, timezone)
	}

	end := start.Add(s.cfg.DefaultDuration())
	eligible, err := s.FindEligibleTables(ctx, start, end, partySize, "")
	if err != nil {
		return nil, err
	}

	slots := make([]interfaces.Slot, 0, len(eligible))
	for _, t := range eligible {
		slots = append(slots, interfaces.Slot{
			TableID:   t.ID,
			Number:    t.Number,
			Capacity:  t.Capacity,
			StartTime: start,
			EndTime:   end,
			Available: true,
		})
	}
	return slots, nil
}

// GenerateSlotGrid walks the operating window of day's calendar date in the
// given timezone at the configured granularity, skipping slot starts that are
// not strictly in the future, and returns every free (table, slot) pair
// ordered by slot start then capacity.
func (s *Service) GenerateSlotGrid(ctx context.Context, day time.Time, partySize int, timezone string) ([]interfaces.Slot, error) {
	if partySize < domain.MinPartySize || partySize > domain.MaxPartySize {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidPartySize, partySize)
	}
	tz := timezone
	if tz == "" {
		tz = s.cfg.Timezone
	}
	if !timeutil.IsValidTimezone(tz) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, tz)
	}

	open, closing, err := timeutil.OperatingWindow(day, tz, s.cfg.OpenHour, s.cfg.CloseHour)
	if err != nil {
		return nil, err
	}

	now := s.now()
	duration := s.cfg.DefaultDuration()
	var slots []interfaces.Slot

	// The walk is bounded by the fixed [open, closing) window.
	for start := open; start.Before(closing); start = start.Add(s.cfg.SlotGranularity()) {
		if !start.After(now) {
			continue
		}
		end := start.Add(duration)
		eligible, err := s.FindEligibleTables(ctx, start, end, partySize, "")
		if err != nil {
			return nil, err
		}
		for _, t := range eligible {
			slots = append(slots, interfaces.Slot{
				TableID:   t.ID,
				Number:    t.Number,
				Capacity:  t.Capacity,
				StartTime: start,
				EndTime:   end,
				Available: true,
			})
		}
	}

	s.logger.Debug("slot_grid_generated", fmt.Sprintf("Generated %d slots", len(slots)), "", map[string]interface{}{
		"party_size": partySize,
		"timezone":   tz,
	})
	return slots, nil
}

// FindNextAvailable probes from first, then steps forward by the slot
// granularity up to a 24h horizon. Returns nil when the horizon is exhausted.
func (s *Service) FindNextAvailable(ctx context.Context, partySize int, from time.Time, duration time.Duration) (*interfaces.Slot, error) {
	if partySize < domain.MinPartySize || partySize > domain.MaxPartySize {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidPartySize, partySize)
	}
	if from.IsZero() {
		from = s.now()
	}
	if duration <= 0 {
		duration = s.cfg.DefaultDuration()
	}

	for start := from; !start.After(from.Add(nextAvailableHorizon)); start = start.Add(s.cfg.SlotGranularity()) {
		eligible, err := s.FindEligibleTables(ctx, start, start.Add(duration), partySize, "")
		if err != nil {
			return nil, err
		}
		if len(eligible) > 0 {
			t := eligible[0]
			return &interfaces.Slot{
				TableID:   t.ID,
				Number:    t.Number,
				Capacity:  t.Capacity,
				StartTime: start,
				EndTime:   start.Add(duration),
				Available: true,
			}, nil
		}
	}
	return nil, nil
}

// EstimateWaitTime returns 0 when a table is free now. Otherwise it inspects
// currently seated reservations on sufficient-capacity tables and reports the
// minutes until the earliest one ends, or an explicit unknown when there is
// no seated reservation to base an estimate on.
func (s *Service) EstimateWaitTime(ctx context.Context, partySize int) (*interfaces.WaitEstimate, error) {
	if partySize < domain.MinPartySize || partySize > domain.MaxPartySize {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidPartySize, partySize)
	}

	now := s.now()
	eligible, err := s.FindEligibleTables(ctx, now, now.Add(s.cfg.DefaultDuration()), partySize, "")
	if err != nil {
		return nil, err
	}
	if len(eligible) > 0 {
		return &interfaces.WaitEstimate{Minutes: 0, Message: "a table is available now"}, nil
	}

	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	sufficient := make(map[string]bool)
	for _, t := range tables {
		if t.Seats(partySize) {
			sufficient[t.ID] = true
		}
	}

	reservations, err := s.reservationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	var earliest time.Time
	for _, r := range reservations {
		if r.Status != domain.StatusSeated || !sufficient[r.TableID] || r.EndTime.IsZero() {
			continue
		}
		if earliest.IsZero() || r.EndTime.Before(earliest) {
			earliest = r.EndTime
		}
	}
	if earliest.IsZero() {
		return &interfaces.WaitEstimate{Unknown: true, Message: "wait time unknown"}, nil
	}

	minutes := int(math.Ceil(earliest.Sub(now).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	return &interfaces.WaitEstimate{
		Minutes: minutes,
		Message: fmt.Sprintf("estimated wait is %d minutes", minutes),
	}, nil
}
