package store

import (
	"context"
	"sync"

	"github.com/pysugar/task-nexus/internal/db/models"
)

// Memory is an in-process ConnectionStore. Records are never evicted; it is
// a placeholder for a real datastore and the default for tests.
type Memory struct {
	mu    sync.RWMutex
	conns map[string]models.Connection
}

func NewMemory() *Memory {
	return &Memory{conns: make(map[string]models.Connection)}
}

func (m *Memory) Put(_ context.Context, conn *models.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[conn.Token] = *conn
	return nil
}

func (m *Memory) Get(_ context.Context, token string) (*models.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.conns[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &conn, nil
}

// Size reports the number of stored connections.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}
