// Package response пишет JSON ответы и тело ошибки {"error", "message"}.
package response

import (
	"encoding/json"
	"net/http"

	"parcelflow/internal/handlers/rest/dto"
	"parcelflow/pkg/logger"
)

const (
	KindInvalidRequest    = "invalid_request"
	KindUnauthenticated   = "unauthenticated"
	KindUnauthorized      = "unauthorized"
	KindNotFound          = "not_found"
	KindInvalidTransition = "invalid_transition"
	KindPaymentRequired   = "payment_required"
	KindConflict          = "conflict"
	KindRouteMismatch     = "route_mismatch"
	KindAlreadyBatched    = "already_batched"
	KindNotBatchable      = "parcel_not_batchable"
	KindNotInBatch        = "parcel_not_in_batch"
	KindStationInactive   = "station_inactive"
	KindInternal          = "internal"
)

type errorLogger interface {
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

func JSON(w http.ResponseWriter, log errorLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}

// Error текст внутренних ошибок клиенту не отдаётся, только в лог.
func Error(w http.ResponseWriter, log errorLogger, status int, kind string, err error) {
	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.With(
			logger.NewField("error", err),
		).Error("request failed")
		message = http.StatusText(status)
	}
	JSON(w, log, status, dto.Error{Error: kind, Message: message})
}

func Internal(w http.ResponseWriter, log errorLogger, err error) {
	Error(w, log, http.StatusInternalServerError, KindInternal, err)
}

func BadRequest(w http.ResponseWriter, log errorLogger, err error) {
	Error(w, log, http.StatusBadRequest, KindInvalidRequest, err)
}

func Unauthenticated(w http.ResponseWriter, log errorLogger) {
	JSON(w, log, http.StatusUnauthorized, dto.Error{
		Error:   KindUnauthenticated,
		Message: "actor headers are required",
	})
}
