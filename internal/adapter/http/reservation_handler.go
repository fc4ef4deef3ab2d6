package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/YelzhanWeb/tables/internal/adapter/logger"
	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

type ReservationHandler struct {
	service interfaces.ReservationService
	logger  logger.Logger
}

func NewReservationHandler(service interfaces.ReservationService, logger logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		logger:  logger,
	}
}

type CreateReservationRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	PartySize       int    `json:"party_size"`
	StartTime       string `json:"start_time"`
	Timezone        string `json:"timezone,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	TableID         string `json:"table_id,omitempty"`
}

type UpdateStatusRequest struct {
	Status          string `json:"status"`
	ExpectedVersion int    `json:"expected_version"`
}

type CancelRequest struct {
	ExpectedVersion int `json:"expected_version"`
}

type WalkInRequest struct {
	CustomerName string `json:"customer_name"`
	PartySize    int    `json:"party_size"`
}

// HandleReservations serves POST /reservations.
func (h *ReservationHandler) HandleReservations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, fmt.Errorf("%w: method not allowed", domain.ErrValidation))
		return
	}

	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	cmd := interfaces.CreateReservationCommand{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		PartySize:       req.PartySize,
		StartTime:       req.StartTime,
		Timezone:        req.Timezone,
		DurationMinutes: req.DurationMinutes,
		TableID:         req.TableID,
	}

	res, err := h.service.CreateReservation(r.Context(), cmd)
	if err != nil {
		h.logger.Error("reservation_creation_failed", "Failed to create reservation", "", nil, err)
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, res)
}

// HandleReservationByID routes /reservations/{id} and
// /reservations/{id}/status by hand, the same way the tracking endpoints do.
func (h *ReservationHandler) HandleReservationByID(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	id := parts[1]

	switch {
	case len(parts) == 2 && r.Method == http.MethodGet:
		h.getReservation(w, r, id)
	case len(parts) == 2 && r.Method == http.MethodDelete:
		h.cancelReservation(w, r, id)
	case len(parts) == 3 && parts[2] == "status" && r.Method == http.MethodPatch:
		h.updateStatus(w, r, id)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *ReservationHandler) getReservation(w http.ResponseWriter, r *http.Request, id string) {
	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *ReservationHandler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	res, err := h.service.UpdateStatus(r.Context(), id, domain.ReservationStatus(req.Status), req.ExpectedVersion)
	if err != nil {
		h.logger.Error("status_update_failed", "Failed to update reservation status", "", map[string]interface{}{
			"reservation_id": id,
			"new_status":     req.Status,
		}, err)
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *ReservationHandler) cancelReservation(w http.ResponseWriter, r *http.Request, id string) {
	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	res, err := h.service.Cancel(r.Context(), id, req.ExpectedVersion)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

// HandleWalkIns serves POST /walk-ins.
func (h *ReservationHandler) HandleWalkIns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, fmt.Errorf("%w: method not allowed", domain.ErrValidation))
		return
	}

	var req WalkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	result, err := h.service.HandleWalkIn(r.Context(), interfaces.WalkInCommand{
		CustomerName: strings.TrimSpace(req.CustomerName),
		PartySize:    req.PartySize,
	})
	if err != nil {
		h.logger.Error("walk_in_failed", "Failed to seat walk-in", "", nil, err)
		respondError(w, err)
		return
	}

	resp := map[string]interface{}{
		"reservation": result.Reservation,
		"table":       result.Table,
	}
	if result.Waiter != nil {
		resp["waiter"] = result.Waiter
	}
	respond(w, http.StatusCreated, resp)
}

// HandleWalkInCapacity serves GET /walk-ins/capacity?party_size=N.
func (h *ReservationHandler) HandleWalkInCapacity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, fmt.Errorf("%w: method not allowed", domain.ErrValidation))
		return
	}

	partySize, err := intQuery(r, "party_size")
	if err != nil {
		respondError(w, err)
		return
	}

	capacity, err := h.service.CanAccommodateWalkIn(r.Context(), partySize)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"available": capacity.Available,
		"tables":    capacity.Tables,
	})
}
