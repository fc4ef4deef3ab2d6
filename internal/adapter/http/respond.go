package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YelzhanWeb/tables/internal/domain"
)

// Envelope is the uniform result shape of every endpoint.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, err error) {
	code := domain.CodeInternal
	var derr *domain.Error
	if errors.As(err, &derr) {
		code = derr.Code
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForCode(code))
	json.NewEncoder(w).Encode(Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: err.Error()},
	})
}

// statusForCode maps the error taxonomy onto transport status codes.
func statusForCode(code string) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConcurrentModified, domain.CodeInvalidTransition, domain.CodeLockHeld:
		return http.StatusConflict
	case domain.CodeValidation, domain.CodeInvalidPartySize, domain.CodeInvalidDateTime,
		domain.CodeInvalidTimezone, domain.CodePastTime, domain.CodeNoAvailableTables:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
