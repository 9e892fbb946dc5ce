package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pysugar/task-nexus/internal/db/models"
)

// Gorm backs the ConnectionStore with the application's SQLite database.
type Gorm struct {
	database *gorm.DB
}

func NewGorm(database *gorm.DB) *Gorm {
	return &Gorm{database: database}
}

func (g *Gorm) Put(ctx context.Context, conn *models.Connection) error {
	return g.database.WithContext(ctx).Create(conn).Error
}

func (g *Gorm) Get(ctx context.Context, token string) (*models.Connection, error) {
	var conn models.Connection
	err := g.database.WithContext(ctx).Where("token = ?", token).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conn, nil
}
