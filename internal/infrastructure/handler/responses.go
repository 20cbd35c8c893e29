package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/vaddi-calculator/internal/domain/apperrors"
	"github.com/damon-houk/vaddi-calculator/internal/domain/interest"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/logger"
)

// writeJSON encodes body before committing the status, so an unencodable
// body becomes a 500 rather than an empty response.
func writeJSON(w http.ResponseWriter, log logger.Logger, status int, body interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{"error": err.Error()})
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(ErrorResponse{
			Error:       "Internal server error",
			Status:      status,
			Description: "The response could not be encoded",
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("Failed to write response", map[string]interface{}{"error": err.Error()})
	}
}

func sendErrorResponse(w http.ResponseWriter, log logger.Logger, errMsg, description string, status int, requestID string) {
	writeJSON(w, log, status, ErrorResponse{
		Error:       errMsg,
		Status:      status,
		Description: description,
		RequestID:   requestID,
	})
}

// sendError maps domain errors onto HTTP responses
func sendError(w http.ResponseWriter, log logger.Logger, tr interest.Translator, err error, requestID string) {
	var verr *interest.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, log, http.StatusBadRequest, ErrorResponse{
			Error:       "Invalid input",
			Status:      http.StatusBadRequest,
			Description: tr.T(verr.Reason),
			Field:       verr.Field,
			RequestID:   requestID,
		})
	case errors.Is(err, apperrors.ErrCalculationNotFound):
		sendErrorResponse(w, log, "Calculation not found",
			"The requested calculation could not be found", http.StatusNotFound, requestID)
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		log.Error("History storage unavailable", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "Storage unavailable",
			"Calculation history could not be accessed. Please try again later.",
			http.StatusServiceUnavailable, requestID)
	default:
		log.Error("Unexpected error", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "Internal server error",
			"An unexpected error occurred. Please try again later.",
			http.StatusInternalServerError, requestID)
	}
}
