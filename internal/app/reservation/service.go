package reservation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/tables/internal/adapter/logger"
	"github.com/YelzhanWeb/tables/internal/config"
	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
	"github.com/YelzhanWeb/tables/internal/lock"
	"github.com/YelzhanWeb/tables/internal/timeutil"
)

// Lock kinds used by the orchestrator. Scheduled bookings serialize on the
// requested start instant, walk-ins on a fresh per-admission key.
const (
	lockKindSlot   = "slot"
	lockKindWalkIn = "walkin"
)

// eligibilityFinder is the slice of the availability engine the orchestrator
// needs.
type eligibilityFinder interface {
	FindEligibleTables(ctx context.Context, start, end time.Time, partySize int, excludeReservationID string) ([]*domain.Table, error)
}

// Service is the reservation orchestrator: it combines the lock manager, the
// availability engine and the record store into logically atomic operations
// and enforces the reservation state machine.
type Service struct {
	reservationRepo interfaces.ReservationRepository
	tableRepo       interfaces.TableRepository
	waiterRepo      interfaces.WaiterRepository
	customerRepo    interfaces.CustomerRepository
	availability    eligibilityFinder
	locks           *lock.Manager
	publisher       interfaces.MessagePublisher
	logger          logger.Logger
	cfg             config.RestaurantConfig
	scheduler       *releaseScheduler
	now             func() time.Time
	newID           func() string
}

func NewService(
	reservationRepo interfaces.ReservationRepository,
	tableRepo interfaces.TableRepository,
	waiterRepo interfaces.WaiterRepository,
	customerRepo interfaces.CustomerRepository,
	availability eligibilityFinder,
	locks *lock.Manager,
	publisher interfaces.MessagePublisher,
	logger logger.Logger,
	cfg config.RestaurantConfig,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		waiterRepo:      waiterRepo,
		customerRepo:    customerRepo,
		availability:    availability,
		locks:           locks,
		publisher:       publisher,
		logger:          logger,
		cfg:             cfg,
		scheduler:       newReleaseScheduler(),
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Shutdown cancels all pending table-release tasks.
func (s *Service) Shutdown() {
	s.scheduler.Stop()
}

// CreateReservation books a table for the requested window. Concurrent
// attempts for the same start instant serialize on a lock keyed by that
// instant; everything before the lock is validation with no side effects, and
// any failure inside the critical section aborts before the first mutation.
func (s *Service) CreateReservation(ctx context.Context, cmd interfaces.CreateReservationCommand) (*domain.Reservation, error) {
	if cmd.PartySize < domain.MinPartySize || cmd.PartySize > domain.MaxPartySize {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidPartySize, cmd.PartySize)
	}
	if strings.TrimSpace(cmd.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer name is required", domain.ErrValidation)
	}
	start, err := timeutil.ToAbsolute(cmd.StartTime)
	if err != nil {
		return nil, err
	}
	if cmd.Timezone != "" && !timeutil.IsValidTimezone(cmd.Timezone) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, cmd.Timezone)
	}
	if !start.After(s.now()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPastTime, start.Format(time.RFC3339))
	}

	duration := s.cfg.DefaultDuration()
	if cmd.DurationMinutes > 0 {
		duration = time.Duration(cmd.DurationMinutes) * time.Minute
	}
	end := start.Add(duration)

	slotKey := start.UTC().Format(time.RFC3339)
	res, err := lock.WithLock(s.locks, lockKindSlot, slotKey, s.cfg.LockTTL(), func() (*domain.Reservation, error) {
		return s.createLocked(ctx, cmd, start, end)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation_created", fmt.Sprintf("Reservation %s confirmed", res.ID), "", map[string]interface{}{
		"reservation_id": res.ID,
		"table_id":       res.TableID,
		"party_size":     res.PartySize,
	})
	s.publishStatusUpdate(ctx, res, "")
	return res, nil
}

func (s *Service) createLocked(ctx context.Context, cmd interfaces.CreateReservationCommand, start, end time.Time) (*domain.Reservation, error) {
	eligible, err := s.availability.FindEligibleTables(ctx, start, end, cmd.PartySize, "")
	if err != nil {
		return nil, err
	}

	table, err := s.chooseTable(ctx, cmd.TableID, eligible)
	if err != nil {
		return nil, err
	}

	customer, err := s.findOrCreateCustomer(ctx, cmd.CustomerName, cmd.CustomerPhone, cmd.CustomerEmail)
	if err != nil {
		return nil, err
	}

	res, err := domain.NewReservation(customer.ID, cmd.PartySize, start, end, domain.StatusConfirmed, false)
	if err != nil {
		return nil, err
	}
	res.ID = s.newID()
	res.TableID = table.ID

	waiter := s.pickWaiter(ctx)
	if waiter != nil {
		res.WaiterID = waiter.ID
	}

	if err := s.reservationRepo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	if err := s.tableRepo.UpdateStatus(ctx, table.ID, domain.TableReserved); err != nil {
		return nil, fmt.Errorf("failed to reserve table: %w", err)
	}
	// Supersede any pending cleaning release for this table.
	s.scheduler.Cancel(table.ID)

	if waiter != nil {
		waiter.AssignTable(table.ID)
		if err := s.waiterRepo.Update(ctx, waiter); err != nil {
			s.logger.Warn("waiter_assignment_failed", "Failed to persist waiter assignment", "", map[string]interface{}{
				"waiter_id": waiter.ID,
				"table_id":  table.ID,
			})
		}
	}
	return res, nil
}

// chooseTable honors a preferred table only when it is currently eligible,
// otherwise falls back to the smallest eligible table. A preferred id that
// does not exist at all aborts the operation.
func (s *Service) chooseTable(ctx context.Context, preferredID string, eligible []*domain.Table) (*domain.Table, error) {
	if preferredID != "" {
		if _, err := s.tableRepo.Get(ctx, preferredID); err != nil {
			return nil, err
		}
		for _, t := range eligible {
			if t.ID == preferredID {
				return t, nil
			}
		}
	}
	if len(eligible) == 0 {
		return nil, domain.ErrNoAvailableTables
	}
	return eligible[0], nil
}

func (s *Service) findOrCreateCustomer(ctx context.Context, name, phone, email string) (*domain.Customer, error) {
	if c, err := s.customerRepo.FindByContact(ctx, phone, email); err == nil {
		return c, nil
	}
	c, err := domain.NewCustomer(name, phone, email, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	c.ID = s.newID()
	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

// pickWaiter returns the least-loaded assignable waiter, preferring available
// over busy; busy waiters are considered only when no available one exists.
// A linear scan is fine at restaurant scale. Returns nil when nobody can take
// the table.
func (s *Service) pickWaiter(ctx context.Context) *domain.Waiter {
	waiters, err := s.waiterRepo.List(ctx)
	if err != nil {
		s.logger.Warn("waiter_list_failed", "Failed to list waiters", "", nil)
		return nil
	}

	var best *domain.Waiter
	for _, w := range waiters {
		if !w.Assignable() {
			continue
		}
		if best == nil {
			best = w
			continue
		}
		bestAvailable := best.Status == domain.WaiterAvailable
		wAvailable := w.Status == domain.WaiterAvailable
		if wAvailable != bestAvailable {
			if wAvailable {
				best = w
			}
			continue
		}
		if w.Load() < best.Load() {
			best = w
		}
	}
	return best
}

// UpdateStatus applies a state-machine transition with an optimistic version
// check, then triggers table side effects. The cleaning-to-available flip
// after a terminal status runs on a deferred cancellable task; the caller
// never waits on it.
func (s *Service) UpdateStatus(ctx context.Context, id string, next domain.ReservationStatus, expectedVersion int) (*domain.Reservation, error) {
	current, err := s.reservationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, next)
	}

	updated, err := s.reservationRepo.ConditionalUpdate(ctx, id, expectedVersion, func(r *domain.Reservation) error {
		return r.TransitionTo(next)
	})
	if err != nil {
		return nil, err
	}

	s.applyTableSideEffects(ctx, updated, next)

	s.logger.Info("reservation_status_changed", fmt.Sprintf("Reservation %s: %s -> %s", id, current.Status, next), "", map[string]interface{}{
		"reservation_id": id,
		"old_status":     string(current.Status),
		"new_status":     string(next),
	})
	s.publishStatusUpdate(ctx, updated, current.Status)
	return updated, nil
}

// Cancel is a convenience wrapper for the cancelled transition.
func (s *Service) Cancel(ctx context.Context, id string, expectedVersion int) (*domain.Reservation, error) {
	return s.UpdateStatus(ctx, id, domain.StatusCancelled, expectedVersion)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.reservationRepo.Get(ctx, id)
}

func (s *Service) applyTableSideEffects(ctx context.Context, res *domain.Reservation, next domain.ReservationStatus) {
	if res.TableID == "" {
		return
	}

	switch {
	case next == domain.StatusSeated:
		if err := s.tableRepo.UpdateStatus(ctx, res.TableID, domain.TableOccupied); err != nil {
			s.logger.Error("table_update_failed", "Failed to mark table occupied", "", map[string]interface{}{"table_id": res.TableID}, err)
		}
		s.scheduler.Cancel(res.TableID)

	case next.IsTerminal():
		if err := s.tableRepo.UpdateStatus(ctx, res.TableID, domain.TableCleaning); err != nil {
			s.logger.Error("table_update_failed", "Failed to mark table cleaning", "", map[string]interface{}{"table_id": res.TableID}, err)
		}
		tableID := res.TableID
		s.scheduler.Schedule(tableID, s.cfg.CleaningGrace(), func() {
			if err := s.tableRepo.UpdateStatus(context.Background(), tableID, domain.TableAvailable); err != nil {
				s.logger.Error("table_release_failed", "Failed to release table after cleaning", "", map[string]interface{}{"table_id": tableID}, err)
			}
		})
		s.unassignWaiter(ctx, res)
	}
}

func (s *Service) unassignWaiter(ctx context.Context, res *domain.Reservation) {
	if res.WaiterID == "" {
		return
	}
	waiter, err := s.waiterRepo.Get(ctx, res.WaiterID)
	if err != nil {
		return
	}
	waiter.UnassignTable(res.TableID)
	if err := s.waiterRepo.Update(ctx, waiter); err != nil {
		s.logger.Warn("waiter_unassignment_failed", "Failed to persist waiter unassignment", "", map[string]interface{}{
			"waiter_id": waiter.ID,
			"table_id":  res.TableID,
		})
	}
}

// HandleWalkIn seats a party immediately: best-fit table, walk-in customer,
// reservation created directly in seated. The lock key is fresh per
// admission, so concurrent walk-ins serialize only against the snapshot they
// were admitted under, not against scheduled bookings.
func (s *Service) HandleWalkIn(ctx context.Context, cmd interfaces.WalkInCommand) (*interfaces.WalkInResult, error) {
	if cmd.PartySize < domain.MinPartySize || cmd.PartySize > domain.MaxPartySize {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidPartySize, cmd.PartySize)
	}
	if strings.TrimSpace(cmd.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer name is required", domain.ErrValidation)
	}

	admissionKey := fmt.Sprintf("%d-%s", s.now().UnixNano(), s.newID())
	result, err := lock.WithLock(s.locks, lockKindWalkIn, admissionKey, s.cfg.LockTTL(), func() (*interfaces.WalkInResult, error) {
		return s.walkInLocked(ctx, cmd)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("walk_in_seated", fmt.Sprintf("Walk-in party of %d seated at table %s", cmd.PartySize, result.Table.ID), "", map[string]interface{}{
		"reservation_id": result.Reservation.ID,
		"table_id":       result.Table.ID,
	})
	s.publishStatusUpdate(ctx, result.Reservation, "")
	return result, nil
}

func (s *Service) walkInLocked(ctx context.Context, cmd interfaces.WalkInCommand) (*interfaces.WalkInResult, error) {
	now := s.now()
	end := now.Add(s.cfg.DefaultDuration())

	eligible, err := s.availability.FindEligibleTables(ctx, now, end, cmd.PartySize, "")
	if err != nil {
		return nil, err
	}
	table := bestFit(eligible, cmd.PartySize)
	if table == nil {
		return nil, domain.ErrNoAvailableTables
	}

	customer, err := domain.NewCustomer(cmd.CustomerName, "", "", true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	customer.ID = s.newID()
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create walk-in customer: %w", err)
	}

	res, err := domain.NewReservation(customer.ID, cmd.PartySize, now, end, domain.StatusSeated, true)
	if err != nil {
		return nil, err
	}
	res.ID = s.newID()
	res.TableID = table.ID

	waiter := s.pickWaiter(ctx)
	if waiter != nil {
		res.WaiterID = waiter.ID
	}

	if err := s.reservationRepo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to create walk-in reservation: %w", err)
	}
	if err := s.tableRepo.UpdateStatus(ctx, table.ID, domain.TableOccupied); err != nil {
		return nil, fmt.Errorf("failed to occupy table: %w", err)
	}
	s.scheduler.Cancel(table.ID)

	if waiter != nil {
		waiter.AssignTable(table.ID)
		if err := s.waiterRepo.Update(ctx, waiter); err != nil {
			s.logger.Warn("waiter_assignment_failed", "Failed to persist waiter assignment", "", map[string]interface{}{
				"waiter_id": waiter.ID,
			})
		}
	}

	return &interfaces.WalkInResult{Reservation: res, Table: table, Waiter: waiter}, nil
}

// bestFit prefers an exact capacity match, then the smallest sufficient
// table. eligible is already sorted by capacity ascending.
func bestFit(eligible []*domain.Table, partySize int) *domain.Table {
	for _, t := range eligible {
		if t.Capacity == partySize {
			return t
		}
	}
	if len(eligible) > 0 {
		return eligible[0]
	}
	return nil
}

// CanAccommodateWalkIn reports whether a walk-in of the given size could be
// seated right now, with the tables that would qualify.
func (s *Service) CanAccommodateWalkIn(ctx context.Context, partySize int) (*interfaces.WalkInCapacity, error) {
	if partySize < domain.MinPartySize || partySize > domain.MaxPartySize {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidPartySize, partySize)
	}
	now := s.now()
	eligible, err := s.availability.FindEligibleTables(ctx, now, now.Add(s.cfg.DefaultDuration()), partySize, "")
	if err != nil {
		return nil, err
	}
	return &interfaces.WalkInCapacity{Available: len(eligible) > 0, Tables: eligible}, nil
}

func (s *Service) publishStatusUpdate(ctx context.Context, res *domain.Reservation, old domain.ReservationStatus) {
	if s.publisher == nil {
		return
	}
	msg := interfaces.StatusUpdateMessage{
		ReservationID: res.ID,
		TableID:       res.TableID,
		OldStatus:     old,
		NewStatus:     res.Status,
		PartySize:     res.PartySize,
		IsWalkIn:      res.IsWalkIn,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
		// Notifications never block or fail the transition.
		s.logger.Warn("rabbitmq_publish_failed", "Failed to publish status update", "", map[string]interface{}{
			"reservation_id": res.ID,
		})
	}
}
