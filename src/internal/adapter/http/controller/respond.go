package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/commons"
	"github.com/api-sage/asset-ledger/src/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errorStatus maps ledger errors to an HTTP status and a stable code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "ACCOUNT_NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateAccount):
		return http.StatusConflict, "DUPLICATE_ACCOUNT"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, domain.ErrInvalidAccountID):
		return http.StatusBadRequest, "INVALID_ACCOUNT"
	case errors.Is(err, domain.ErrInvalidAsset):
		return http.StatusBadRequest, "INVALID_ASSET"
	case errors.Is(err, domain.ErrInvalidWindow):
		return http.StatusBadRequest, "INVALID_WINDOW"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"
	case errors.Is(err, domain.ErrRateUnavailable):
		return http.StatusBadGateway, "RATE_UNAVAILABLE"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "CANCELLED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// writeError logs err and writes the matching error envelope.
func writeError[T any](w http.ResponseWriter, r *http.Request, err error, message string, start time.Time) {
	status, code := errorStatus(err)
	logError(r, err, nil)

	detail := err.Error()
	if status >= http.StatusInternalServerError {
		detail = http.StatusText(status)
	}
	response := commons.CodedErrorResponse[T](code, message, detail)
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

// writeBadRequest answers a malformed request before it reaches a service.
func writeBadRequest[T any](w http.ResponseWriter, r *http.Request, message string, detail string, start time.Time) {
	response := commons.ErrorResponse[T](message, detail)
	writeJSON(w, http.StatusBadRequest, response)
	logResponse(r, http.StatusBadRequest, response, start)
}

func writeOK[T any](w http.ResponseWriter, r *http.Request, status int, message string, data T, start time.Time) {
	response := commons.SuccessResponse(message, data)
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func formatTime(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

func wrap(h http.HandlerFunc, mw func(http.Handler) http.Handler) http.Handler {
	if mw == nil {
		return h
	}
	return mw(h)
}
