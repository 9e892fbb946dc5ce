// Package exchange implements the OAuth broker: it trades a vendor
// authorization code for tokens and mints an opaque connection token mapped
// to the stored credential record.
package exchange

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/pysugar/task-nexus/internal/adapters"
	"github.com/pysugar/task-nexus/internal/db/models"
	"github.com/pysugar/task-nexus/internal/services"
	"github.com/pysugar/task-nexus/internal/store"
	"github.com/pysugar/task-nexus/internal/unified"
)

// ErrMissingParams is returned when code, service type, or app id is empty.
var ErrMissingParams = errors.New("missing required parameters")

const (
	connectionTokenBytes = 16 // 32 hex chars
	userIDBytes          = 8  // 16 hex chars
)

// Result is what the broker hands back after a successful exchange. Vendor
// tokens are deliberately absent.
type Result struct {
	ConnectionToken string `json:"connection_token"`
	RedirectURI     string `json:"redirect_uri"`
	UserID          string `json:"user_id"`
}

// Info is the read-path view of a connection, without the vendor tokens.
type Info struct {
	AppID       string `json:"app_id"`
	UserID      string `json:"user_id"`
	ServiceType string `json:"service_type"`
	CreatedAt   int64  `json:"created_at"`
}

// Broker exchanges authorization codes through the service catalog and owns
// all writes to the connection store.
type Broker struct {
	store       store.ConnectionStore
	catalog     *services.Catalog
	redirectURI string
	callbackURL string
	httpClient  *http.Client
	now         func() time.Time
}

// NewBroker wires the broker. redirectURI is the static URI returned to
// callers after an exchange; callbackURL is the redirect_uri presented to
// vendors during the code exchange (it must match the authorize request).
func NewBroker(st store.ConnectionStore, catalog *services.Catalog, redirectURI, callbackURL string) *Broker {
	return &Broker{
		store:       st,
		catalog:     catalog,
		redirectURI: redirectURI,
		callbackURL: callbackURL,
		now:         time.Now,
	}
}

// SetHTTPClient overrides the client used for vendor token calls, mainly for
// tests.
func (b *Broker) SetHTTPClient(c *http.Client) {
	b.httpClient = c
}

// Exchange trades an authorization code for vendor tokens, mints a fresh
// connection token and user id, and stores the connection record.
//
// The user id is NOT derived from the vendor account: repeated exchanges for
// the same real user produce distinct identities.
func (b *Broker) Exchange(ctx context.Context, code string, serviceType unified.ServiceType, appID string) (*Result, error) {
	if code == "" || serviceType == "" || appID == "" {
		return nil, ErrMissingParams
	}

	cfg, err := b.catalog.OAuthConfig(serviceType, b.callbackURL)
	if err != nil {
		return nil, err
	}

	if b.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, upstreamFromOAuth(serviceType, err)
	}

	connectionToken := randomHex(connectionTokenBytes)
	userID := randomHex(userIDBytes)

	var expiresAt int64
	if !tok.Expiry.IsZero() {
		expiresAt = tok.Expiry.UnixMilli()
	}

	conn := &models.Connection{
		Token:        connectionToken,
		AppID:        appID,
		UserID:       userID,
		ServiceType:  string(serviceType),
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAt,
		CreatedAt:    b.now().UnixMilli(),
	}
	if err := b.store.Put(ctx, conn); err != nil {
		return nil, fmt.Errorf("store connection: %w", err)
	}

	log.Printf("🔗 Connection created for %s (app %s)", serviceType, appID)

	return &Result{
		ConnectionToken: connectionToken,
		RedirectURI:     b.redirectURI,
		UserID:          userID,
	}, nil
}

// Lookup returns the connection for a token, without the vendor tokens.
// Returns store.ErrNotFound for unknown tokens.
func (b *Broker) Lookup(ctx context.Context, connectionToken string) (*Info, error) {
	conn, err := b.store.Get(ctx, connectionToken)
	if err != nil {
		return nil, err
	}
	return &Info{
		AppID:       conn.AppID,
		UserID:      conn.UserID,
		ServiceType: conn.ServiceType,
		CreatedAt:   conn.CreatedAt,
	}, nil
}

// upstreamFromOAuth converts oauth2 exchange failures into the structured
// upstream error. A vendor that answers non-2xx yields its status and body;
// a vendor that answers garbage (non-JSON) yields status 0 with the parse
// failure captured.
func upstreamFromOAuth(service unified.ServiceType, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &adapters.UpstreamError{
			Service: service,
			Status:  status,
			Body:    string(retrieveErr.Body),
		}
	}
	return &adapters.UpstreamError{Service: service, Body: err.Error()}
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
