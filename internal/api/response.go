package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON marshals v as JSON and writes it to w with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// Error is the bridge's error response body. Webhook callers only ever see a
// generic acknowledgment or error status; per-event failures stay in the
// logs and the journal.
type Error struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
}

// WriteError writes an error response with the given HTTP status code.
func WriteError(w http.ResponseWriter, statusCode int, message, correlationID string) {
	WriteJSON(w, statusCode, Error{
		Status:        "error",
		Message:       message,
		CorrelationID: correlationID,
	})
}
