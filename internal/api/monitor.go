package api

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	dbpkg "github.com/pysugar/task-nexus/internal/db"
)

// RequestLogsHandler serves GET /api/logs with the most recent request log
// entries, newest first.
func RequestLogsHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		logs, err := dbpkg.RecentRequestLogs(database, limit)
		if err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data":  logs,
			"total": len(logs),
		})
	}
}

// StatsHandler serves GET /api/stats with aggregate request counts.
func StatsHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := dbpkg.RequestStatsSummary(database)
		if err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
