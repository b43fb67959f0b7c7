package web

// errors.go provides unified error response handling for the web layer.
//
// Technical errors are logged with full detail server-side, keyed by the
// chi request ID for correlation, while clients receive a sanitized JSON
// message. Expected failure modes never reach this path: they travel as
// diagnostics inside successful responses, per the core's contract.

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError logs the full message server-side and returns a sanitized
// version to the client.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", message,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: sanitizeErrorMessage(message)})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// sanitizeErrorMessage strips connection strings and driver internals from
// messages before they reach a client.
func sanitizeErrorMessage(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "postgres://"),
		strings.Contains(lower, "password"),
		strings.Contains(lower, "sqlstate"),
		strings.Contains(lower, "connection refused"):
		return "internal storage error"
	default:
		return msg
	}
}
