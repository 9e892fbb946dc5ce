package api

import (
	"encoding/json"
	"log"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/pysugar/task-nexus/internal/exchange"
	"github.com/pysugar/task-nexus/internal/services"
	"github.com/pysugar/task-nexus/internal/unified"
)

type exchangeRequest struct {
	Code        string `json:"code"`
	ServiceType string `json:"service_type"`
	AppID       string `json:"app_id"`
	State       string `json:"state"`
}

// ExchangeHandler serves POST /auth/exchange: it trades a vendor
// authorization code for an opaque connection token.
func ExchangeHandler(broker *exchange.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exchangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", "")
			return
		}
		log.Printf("🔄 Exchange requested: service=%s app=%s", req.ServiceType, req.AppID)

		var st unified.ServiceType
		if req.ServiceType != "" {
			var ok bool
			st, ok = unified.ParseServiceType(req.ServiceType)
			if !ok {
				writeError(w, http.StatusBadRequest, "Unsupported service: "+req.ServiceType, "")
				return
			}
		}
		res, err := broker.Exchange(r.Context(), req.Code, st, req.AppID)
		if err != nil {
			respondError(w, r, err, "Token exchange failed")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ConnectionInfoHandler serves GET /auth/exchange: it resolves a connection
// token to its metadata without ever exposing the stored vendor tokens.
func ConnectionInfoHandler(broker *exchange.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("connection_token")
		if token == "" {
			writeError(w, http.StatusBadRequest, "connection_token is required", "")
			return
		}
		info, err := broker.Lookup(r.Context(), token)
		if err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// ConnectHandler serves GET /auth/connect: it sends the browser to the
// vendor's consent page with our callback and an encoded state blob.
func ConnectHandler(catalog *services.Catalog, callbackURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		service := q.Get("service")
		appID := q.Get("app_id")
		if service == "" || appID == "" {
			writeError(w, http.StatusBadRequest, "service and app_id are required", "")
			return
		}
		st, ok := unified.ParseServiceType(service)
		if !ok {
			writeError(w, http.StatusBadRequest, "Unsupported service: "+service, "")
			return
		}
		cfg, err := catalog.OAuthConfig(st, callbackURL)
		if err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		state := exchange.EncodeState(exchange.State{Service: st, AppID: appID})
		http.Redirect(w, r, cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusFound)
	}
}
