package api

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	dbpkg "github.com/pysugar/task-nexus/internal/db"
	"github.com/pysugar/task-nexus/internal/db/models"
)

// RequestLogger records every request in the request_logs table after the
// handler chain finishes.
func RequestLogger(database *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			dbpkg.SaveRequestLog(database, &models.RequestLog{
				Method:   r.Method,
				Path:     r.URL.Path,
				Status:   status,
				Duration: time.Since(start).Milliseconds(),
				Service:  r.URL.Query().Get("service"),
				UserID:   r.URL.Query().Get("user_id"),
			})
		})
	}
}
