// Package store provides connection-record storage behind a small key-value
// interface, so the OAuth broker never knows whether records live in memory
// or in a database.
package store

import (
	"context"
	"errors"

	"github.com/pysugar/task-nexus/internal/db/models"
)

// ErrNotFound is returned when a connection token is unknown.
var ErrNotFound = errors.New("connection not found")

// ConnectionStore is the storage capability the OAuth broker depends on.
type ConnectionStore interface {
	Put(ctx context.Context, conn *models.Connection) error
	Get(ctx context.Context, token string) (*models.Connection, error)
}
