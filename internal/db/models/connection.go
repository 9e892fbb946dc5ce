package models

// Connection stores the outcome of one OAuth exchange, keyed by the opaque
// connection token handed back to the caller. Records are written once and
// never updated; vendor tokens never serialize into API responses.
type Connection struct {
	Token        string `gorm:"primaryKey" json:"-"`
	AppID        string `json:"app_id"`
	UserID       string `gorm:"index" json:"user_id"`
	ServiceType  string `json:"service_type"`
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
	ExpiresAt    int64  `json:"expires_at,omitempty"` // epoch ms, 0 = no expiry reported
	CreatedAt    int64  `gorm:"autoCreateTime:false" json:"created_at"` // epoch ms
}
