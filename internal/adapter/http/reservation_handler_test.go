package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/YelzhanWeb/tables/internal/adapter/logger"
	"github.com/YelzhanWeb/tables/internal/adapter/memory"
	"github.com/YelzhanWeb/tables/internal/app/availability"
	"github.com/YelzhanWeb/tables/internal/app/reservation"
	"github.com/YelzhanWeb/tables/internal/config"
	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/lock"
)

// newTestHandler wires the full service stack onto memory repositories with a
// couple of tables seeded.
func newTestHandler(t *testing.T) *ReservationHandler {
	t.Helper()
	ctx := context.Background()

	reservationRepo := memory.NewReservationRepository()
	tableRepo := memory.NewTableRepository()
	waiterRepo := memory.NewWaiterRepository()
	customerRepo := memory.NewCustomerRepository()
	lgr := logger.NewWithWriter("http-test", io.Discard)
	cfg := config.Default().Restaurant

	for i, capacity := range []int{2, 4} {
		tbl, err := domain.NewTable(i+1, capacity)
		if err != nil {
			t.Fatalf("NewTable: %v", err)
		}
		tbl.ID = fmt.Sprintf("t%d", i+1)
		if err := tableRepo.Create(ctx, tbl); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	avail := availability.NewService(tableRepo, reservationRepo, lgr, cfg)
	svc := reservation.NewService(reservationRepo, tableRepo, waiterRepo, customerRepo, avail, lock.NewManager(), nil, lgr, cfg)
	t.Cleanup(svc.Shutdown)

	return NewReservationHandler(svc, lgr)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func createReservation(t *testing.T, h *ReservationHandler) (id string, version int) {
	t.Helper()
	body := fmt.Sprintf(`{"customer_name":"Aigerim","party_size":3,"start_time":%q}`,
		time.Now().Add(3*time.Hour).Format(time.RFC3339))

	rec := httptest.NewRecorder()
	h.HandleReservations(rec, httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("create: success=false, body %+v", env)
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("create: data is %T", env.Data)
	}
	return data["ID"].(string), int(data["Version"].(float64))
}

func TestCreateReservationEndpoint(t *testing.T) {
	h := newTestHandler(t)

	id, version := createReservation(t, h)
	if id == "" || version != 1 {
		t.Errorf("got id=%q version=%d, want non-empty id at version 1", id, version)
	}

	// The reservation is readable back through the GET route.
	rec := httptest.NewRecorder()
	h.HandleReservationByID(rec, httptest.NewRequest(http.MethodGet, "/reservations/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("get: status %d, want 200", rec.Code)
	}
}

func TestCreateReservationEndpointErrors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{`, http.StatusBadRequest, domain.CodeValidation},
		{"party size zero", `{"customer_name":"A","party_size":0,"start_time":"2026-09-02T18:00:00Z"}`,
			http.StatusBadRequest, domain.CodeInvalidPartySize},
		{"past time", `{"customer_name":"A","party_size":2,"start_time":"2020-01-01T18:00:00Z"}`,
			http.StatusBadRequest, domain.CodePastTime},
		{"no table fits", fmt.Sprintf(`{"customer_name":"A","party_size":10,"start_time":%q}`,
			time.Now().Add(3*time.Hour).Format(time.RFC3339)),
			http.StatusBadRequest, domain.CodeNoAvailableTables},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleReservations(rec, httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(tc.body)))
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error == nil {
				t.Fatalf("expected error envelope, got %+v", env)
			}
			if env.Error.Code != tc.wantCode {
				t.Errorf("error code = %s, want %s", env.Error.Code, tc.wantCode)
			}
		})
	}
}

func TestGetReservationNotFound(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleReservationByID(rec, httptest.NewRequest(http.MethodGet, "/reservations/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != domain.CodeNotFound {
		t.Errorf("error = %+v, want NOT_FOUND", env.Error)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	h := newTestHandler(t)
	id, version := createReservation(t, h)

	patch := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/reservations/"+id+"/status", bytes.NewBufferString(body))
		h.HandleReservationByID(rec, req)
		return rec
	}

	// Confirmed cannot jump to completed.
	rec := patch(fmt.Sprintf(`{"status":"completed","expected_version":%d}`, version))
	if rec.Code != http.StatusConflict {
		t.Errorf("invalid transition: status = %d, want 409", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != domain.CodeInvalidTransition {
		t.Errorf("error = %+v, want INVALID_STATUS_TRANSITION", env.Error)
	}

	// A stale version is a conflict too.
	rec = patch(`{"status":"seated","expected_version":99}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("stale version: status = %d, want 409", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != domain.CodeConcurrentModified {
		t.Errorf("error = %+v, want CONCURRENT_MODIFICATION", env.Error)
	}

	// The correct version succeeds.
	rec = patch(fmt.Sprintf(`{"status":"seated","expected_version":%d}`, version))
	if rec.Code != http.StatusOK {
		t.Errorf("seat: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCancelEndpoint(t *testing.T) {
	h := newTestHandler(t)
	id, version := createReservation(t, h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/reservations/"+id,
		strings.NewReader(fmt.Sprintf(`{"expected_version":%d}`, version)))
	h.HandleReservationByID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d, body %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T", env.Data)
	}
	if got := data["Status"]; got != string(domain.StatusCancelled) {
		t.Errorf("status after cancel = %v, want cancelled", got)
	}
}

func TestWalkInEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleWalkInCapacity(rec, httptest.NewRequest(http.MethodGet, "/walk-ins/capacity?party_size=3", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("capacity: status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	data := env.Data.(map[string]interface{})
	if data["available"] != true {
		t.Errorf("capacity available = %v, want true", data["available"])
	}

	rec = httptest.NewRecorder()
	h.HandleWalkIns(rec, httptest.NewRequest(http.MethodPost, "/walk-ins",
		strings.NewReader(`{"customer_name":"Nursultan","party_size":3}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("walk-in: status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Missing party_size is a validation error.
	rec = httptest.NewRecorder()
	h.HandleWalkInCapacity(rec, httptest.NewRequest(http.MethodGet, "/walk-ins/capacity", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing party_size: status = %d, want 400", rec.Code)
	}
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.CodeNotFound, http.StatusNotFound},
		{domain.CodeConcurrentModified, http.StatusConflict},
		{domain.CodeInvalidTransition, http.StatusConflict},
		{domain.CodeLockHeld, http.StatusConflict},
		{domain.CodeValidation, http.StatusBadRequest},
		{domain.CodeInvalidPartySize, http.StatusBadRequest},
		{domain.CodeInvalidDateTime, http.StatusBadRequest},
		{domain.CodeInvalidTimezone, http.StatusBadRequest},
		{domain.CodePastTime, http.StatusBadRequest},
		{domain.CodeNoAvailableTables, http.StatusBadRequest},
		{domain.CodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := statusForCode(tc.code); got != tc.want {
			t.Errorf("statusForCode(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}
