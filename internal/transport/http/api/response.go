package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"vera/internal/domain/registro"
)

// Error is the body of every non-2xx answer. Fields is set on validation
// failures only.
type Error struct {
	Message   string                    `json:"message"`
	Code      string                    `json:"code"`
	RequestID string                    `json:"requestId,omitempty"`
	Fields    registro.ValidationErrors `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Error{Code: code, Message: message, RequestID: requestID})
}

func FailWithFields(w http.ResponseWriter, status int, code, message string, fields registro.ValidationErrors, requestID string) {
	WriteJSON(w, status, Error{Code: code, Message: message, RequestID: requestID, Fields: fields})
}
