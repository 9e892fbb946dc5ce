// Package services holds the OAuth configuration catalog: which task
// services can be connected, their authorize/token endpoints, and the client
// credentials loaded from a YAML file and environment overrides.
package services

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"gopkg.in/yaml.v3"

	"github.com/pysugar/task-nexus/internal/unified"
)

// EnvServicesFile points at an optional YAML file overriding the built-in
// service catalog.
const EnvServicesFile = "TASKNEXUS_SERVICES_FILE"

type fileConfig struct {
	Services []ServiceConfig `yaml:"services"`
}

// ServiceConfig is one catalog entry as it appears in the YAML file.
type ServiceConfig struct {
	ID           string   `yaml:"id"`
	Enabled      *bool    `yaml:"enabled"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	AuthURL      string   `yaml:"auth_url"`
	TokenURL     string   `yaml:"token_url"`
	Scopes       []string `yaml:"scopes"`
}

// Entry is a resolved catalog entry.
type Entry struct {
	Service      unified.ServiceType
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	Scopes       []string
	Enabled      bool
}

// Catalog maps service types to their OAuth configuration.
type Catalog struct {
	mu      sync.RWMutex
	entries map[unified.ServiceType]Entry
}

// defaults returns the built-in endpoints for the services the broker can
// exchange tokens with. Client credentials come from the environment or the
// services file.
func defaults() []Entry {
	return []Entry{
		{
			Service:  unified.ServiceTodoist,
			AuthURL:  "https://todoist.com/oauth/authorize",
			TokenURL: "https://todoist.com/oauth/access_token",
			Scopes:   []string{"data:read_write,data:delete"},
			Enabled:  true,
		},
		{
			Service:  unified.ServiceGoogleTasks,
			AuthURL:  googleoauth.Endpoint.AuthURL,
			TokenURL: googleoauth.Endpoint.TokenURL,
			Scopes:   []string{"https://www.googleapis.com/auth/tasks"},
			Enabled:  true,
		},
	}
}

// envKey builds the credential env var name for a service,
// e.g. TASKNEXUS_GOOGLE_TASKS_CLIENT_ID.
func envKey(service unified.ServiceType, suffix string) string {
	return "TASKNEXUS_" + strings.ToUpper(string(service)) + "_" + suffix
}

// Load builds the catalog from defaults, an optional YAML file, and
// environment overrides (in that order of precedence, env last).
func Load(path string) (*Catalog, error) {
	c := &Catalog{entries: make(map[unified.ServiceType]Entry)}
	for _, e := range defaults() {
		c.entries[e.Service] = e
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read services file: %w", err)
		}
		var cfg fileConfig
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse services file: %w", err)
		}
		for _, sc := range cfg.Services {
			service, ok := unified.ParseServiceType(sc.ID)
			if !ok {
				return nil, fmt.Errorf("services file: unknown service id %q", sc.ID)
			}
			e := c.entries[service]
			e.Service = service
			if sc.ClientID != "" {
				e.ClientID = sc.ClientID
			}
			if sc.ClientSecret != "" {
				e.ClientSecret = sc.ClientSecret
			}
			if sc.AuthURL != "" {
				e.AuthURL = sc.AuthURL
			}
			if sc.TokenURL != "" {
				e.TokenURL = sc.TokenURL
			}
			if len(sc.Scopes) > 0 {
				e.Scopes = sc.Scopes
			}
			if sc.Enabled != nil {
				e.Enabled = *sc.Enabled
			} else if e.AuthURL != "" && e.TokenURL != "" {
				e.Enabled = true
			}
			c.entries[service] = e
		}
	}

	for service, e := range c.entries {
		if v := os.Getenv(envKey(service, "CLIENT_ID")); v != "" {
			e.ClientID = v
		}
		if v := os.Getenv(envKey(service, "CLIENT_SECRET")); v != "" {
			e.ClientSecret = v
		}
		c.entries[service] = e
	}

	return c, nil
}

// NewStatic builds a catalog from fixed entries, mainly for tests.
func NewStatic(entries ...Entry) *Catalog {
	c := &Catalog{entries: make(map[unified.ServiceType]Entry, len(entries))}
	for _, e := range entries {
		c.entries[e.Service] = e
	}
	return c
}

// Entry returns the resolved entry for a service.
func (c *Catalog) Entry(service unified.ServiceType) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[service]
	return e, ok
}

// OAuthConfig builds the oauth2 config used for both the authorize redirect
// and the code exchange. Returns *unified.UnsupportedServiceError when the
// service is unknown or disabled.
func (c *Catalog) OAuthConfig(service unified.ServiceType, redirectURL string) (*oauth2.Config, error) {
	e, ok := c.Entry(service)
	if !ok || !e.Enabled {
		return nil, &unified.UnsupportedServiceError{Service: string(service)}
	}
	return &oauth2.Config{
		ClientID:     e.ClientID,
		ClientSecret: e.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       e.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL: e.AuthURL,
			// Vendors here take client credentials in the POST body.
			AuthStyle: oauth2.AuthStyleInParams,
			TokenURL:  e.TokenURL,
		},
	}, nil
}
