package models

// RequestLog stores task API request outcomes for monitoring
type RequestLog struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Timestamp int64  `gorm:"index" json:"timestamp"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Duration  int64  `json:"duration"` // milliseconds
	Service   string `gorm:"index" json:"service,omitempty"`
	UserID    string `gorm:"index" json:"user_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RequestStats holds aggregated statistics for request logs
type RequestStats struct {
	TotalRequests int64 `json:"total_requests"`
	SuccessCount  int64 `json:"success_count"`
	ErrorCount    int64 `json:"error_count"`
}
