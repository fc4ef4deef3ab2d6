package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/YelzhanWeb/tables/internal/adapter/logger"
	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
	"github.com/YelzhanWeb/tables/internal/timeutil"
)

type AvailabilityHandler struct {
	service interfaces.AvailabilityService
	logger  logger.Logger
}

func NewAvailabilityHandler(service interfaces.AvailabilityService, logger logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		logger:  logger,
	}
}

func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
	}
	return n, nil
}

// HandleCheck serves GET /availability?start=RFC3339&party_size=N&timezone=tz.
func (h *AvailabilityHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, fmt.Errorf("%w: method not allowed", domain.ErrValidation))
		return
	}

	partySize, err := intQuery(r, "party_size")
	if err != nil {
		respondError(w, err)
		return
	}
	start, err := timeutil.ToAbsolute(r.URL.Query().Get("start"))
	if err != nil {
		respondError(w, err)
		return
	}

	slots, err := h.service.CheckAvailability(r.Context(), start, partySize, r.URL.Query().Get("timezone"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, slots)
}

// HandleGrid serves GET /availability/grid?date=RFC3339&party_size=N&timezone=tz.
func (h *AvailabilityHandler) HandleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, fmt.Errorf("%w: method not allowed", domain.ErrValidation))
		return
	}

	partySize, err := intQuery(r, "party_size")
	if err != nil {
		respondError(w, err)
		return
	}
	day, err := timeutil.ToAbsolute(r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, err)
		return
	}

	slots, err := h.service.GenerateSlotGrid(r.Context(), day, partySize, r.URL.Query().Get("timezone"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, slots)
}

// HandleNext serves GET /availability/next?party_size=N&from=RFC3339&duration_minutes=M.
// from and duration_minutes are optional.
func (h *AvailabilityHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, fmt.Errorf("%w: method not allowed", domain.ErrValidation))
		return
	}

	partySize, err := intQuery(r, "party_size")
	if err != nil {
		respondError(w, err)
		return
	}

	var from time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = timeutil.ToAbsolute(raw)
		if err != nil {
			respondError(w, err)
			return
		}
	}

	var duration time.Duration
	if raw := r.URL.Query().Get("duration_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 1 {
			respondError(w, fmt.Errorf("%w: duration_minutes must be a positive integer", domain.ErrValidation))
			return
		}
		duration = time.Duration(minutes) * time.Minute
	}

	slot, err := h.service.FindNextAvailable(r.Context(), partySize, from, duration)
	if err != nil {
		respondError(w, err)
		return
	}
	// slot is null when the search horizon was exhausted.
	respond(w, http.StatusOK, slot)
}

// HandleWait serves GET /availability/wait?party_size=N.
func (h *AvailabilityHandler) HandleWait(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, fmt.Errorf("%w: method not allowed", domain.ErrValidation))
		return
	}

	partySize, err := intQuery(r, "party_size")
	if err != nil {
		respondError(w, err)
		return
	}

	estimate, err := h.service.EstimateWaitTime(r.Context(), partySize)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := map[string]interface{}{"message": estimate.Message}
	if estimate.Unknown {
		resp["minutes"] = nil
	} else {
		resp["minutes"] = estimate.Minutes
	}
	respond(w, http.StatusOK, resp)
}
