package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pysugar/task-nexus/internal/adapters"
	"github.com/pysugar/task-nexus/internal/adapters/googletasks"
	"github.com/pysugar/task-nexus/internal/adapters/todoist"
	"github.com/pysugar/task-nexus/internal/api"
	"github.com/pysugar/task-nexus/internal/db"
	"github.com/pysugar/task-nexus/internal/exchange"
	"github.com/pysugar/task-nexus/internal/logging"
	"github.com/pysugar/task-nexus/internal/ratelimit"
	"github.com/pysugar/task-nexus/internal/services"
	"github.com/pysugar/task-nexus/internal/store"
	"github.com/pysugar/task-nexus/internal/unified"
	"github.com/pysugar/task-nexus/internal/version"
)

func main() {
	// Initialize database
	dbPath := os.Getenv("TASKNEXUS_DB")
	if dbPath == "" {
		dbPath = "tasknexus.db"
	}
	database, err := db.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Load the vendor service catalog (defaults + optional YAML + env)
	catalog, err := services.Load(os.Getenv(services.EnvServicesFile))
	if err != nil {
		log.Fatalf("Failed to load service catalog: %v", err)
	}

	// Where the frontend receives the minted connection token
	redirectURI := os.Getenv("TASKNEXUS_REDIRECT_URI")
	if redirectURI == "" {
		redirectURI = "http://localhost:3000/auth/success"
	}
	callbackURL := os.Getenv("TASKNEXUS_CALLBACK_URL")
	if callbackURL == "" {
		callbackURL = "http://localhost:8080/auth/callback"
	}

	broker := exchange.NewBroker(store.NewGorm(database), catalog, redirectURI, callbackURL)

	// Vendor adapter registry
	registry := adapters.NewRegistry()
	registry.Register(unified.ServiceTodoist, func(ctx context.Context, apiToken string) (adapters.Adapter, error) {
		return todoist.New(apiToken), nil
	})
	registry.Register(unified.ServiceGoogleTasks, func(ctx context.Context, apiToken string) (adapters.Adapter, error) {
		return googletasks.New(ctx, apiToken)
	})

	limiter := ratelimit.NewLimiter(ratelimit.DefaultLimit, ratelimit.DefaultWindow)

	// Create router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(logging.Middleware)
	r.Use(api.RequestLogger(database))

	// OAuth flow
	r.Get("/auth/connect", api.ConnectHandler(catalog, callbackURL))
	r.Post("/auth/exchange", api.ExchangeHandler(broker))
	r.Get("/auth/exchange", api.ConnectionInfoHandler(broker))

	// Unified task API
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", api.ListTasksHandler(registry, limiter))
		r.Post("/", api.CreateTaskHandler(registry, limiter))
		r.Get("/{id}", api.GetTaskHandler(registry, limiter))
		r.Put("/{id}", api.UpdateTaskHandler(registry, limiter))
		r.Delete("/{id}", api.DeleteTaskHandler(registry, limiter))
		r.Post("/{id}/complete", api.CompleteTaskHandler(registry, limiter))
	})
	r.Get("/projects", api.ListProjectsHandler(registry, limiter))

	// Monitoring
	r.Route("/api", func(r chi.Router) {
		r.Get("/logs", api.RequestLogsHandler(database))
		r.Get("/stats", api.StatsHandler(database))
	})

	// Start server
	host := os.Getenv("HOST")
	if host == "" {
		host = "127.0.0.1" // Default to localhost, set HOST=0.0.0.0 for LAN access
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := host + ":" + port

	log.Printf("🚀 Task-Nexus %s starting on http://%s", version.Version, addr)
	log.Printf("🔌 Task API: http://%s/tasks", addr)
	log.Printf("🔗 OAuth exchange: http://%s/auth/exchange", addr)
	log.Printf("📋 Services: %v", registry.Services())

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
