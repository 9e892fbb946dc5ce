// Package api contains the HTTP surface: the task router, the auth exchange
// endpoints, and the shared response envelope and error mapping.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/pysugar/task-nexus/internal/adapters"
	"github.com/pysugar/task-nexus/internal/exchange"
	"github.com/pysugar/task-nexus/internal/logging"
	"github.com/pysugar/task-nexus/internal/store"
	"github.com/pysugar/task-nexus/internal/unified"
)

// VendorTokenHeader carries the caller's vendor API token. The name is
// historical and fixed: every service reads the same header.
const VendorTokenHeader = "x-todoist-token"

// Meta accompanies every successful task API response.
type Meta struct {
	Total     *int   `json:"total,omitempty"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

type envelope struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    Meta        `json:"meta"`
}

type errorBody struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

func newMeta(service string) Meta {
	return Meta{Service: service, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeData wraps a payload in the standard envelope. A non-nil total lands
// in meta.total.
func writeData(w http.ResponseWriter, status int, service string, data interface{}, total *int) {
	meta := newMeta(service)
	meta.Total = total
	writeJSON(w, status, envelope{Data: data, Meta: meta})
}

func writeMessage(w http.ResponseWriter, status int, service, message string) {
	writeJSON(w, status, envelope{Message: message, Meta: newMeta(service)})
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

func writeRateLimited(w http.ResponseWriter, retryAfter int) {
	writeJSON(w, http.StatusTooManyRequests, errorBody{
		Error:      "Rate limit exceeded",
		RetryAfter: retryAfter,
	})
}

// respondError maps the error taxonomy to outward status codes. Upstream
// errors carry the vendor HTTP status explicitly, so 401/403 pass through
// and everything else collapses to a 500 with the fallback message.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var unsupported *unified.UnsupportedServiceError
	var upstream *adapters.UpstreamError
	switch {
	case errors.Is(err, exchange.ErrMissingParams):
		writeError(w, http.StatusBadRequest, "Missing required parameters", "")
	case errors.As(err, &unsupported):
		writeError(w, http.StatusBadRequest, "Unsupported service: "+unsupported.Service, "")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Invalid connection token", "")
	case errors.As(err, &upstream):
		switch upstream.Status {
		case http.StatusUnauthorized:
			writeError(w, http.StatusUnauthorized, "Invalid or expired token", "")
		case http.StatusForbidden:
			writeError(w, http.StatusForbidden, "Invalid or expired token", "")
		default:
			log.Printf("[%s] upstream failure: %v", logging.GetRequestID(r.Context()), err)
			writeError(w, http.StatusInternalServerError, fallback, err.Error())
		}
	default:
		log.Printf("[%s] request failed: %v", logging.GetRequestID(r.Context()), err)
		writeError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}
