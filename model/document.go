package model

import (
	"encoding/json"
	"time"
)

// UserDocument is the remote per-user record: the progress map plus a cached
// stats snapshot. The cache is written on every save and can go stale between
// writes; readers recompute when it is absent.
type UserDocument struct {
	UserID     string          `json:"user_id" gorm:"primaryKey"`
	Progress   json.RawMessage `json:"progress" gorm:"type:jsonb;not null"`
	UserStats  json.RawMessage `json:"user_stats" gorm:"type:jsonb"`
	CreatedAt  time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"not null"`
	LastActive time.Time       `json:"last_active" gorm:"not null"`
}

// LocalEntry is one key-value row of the device-local store, the server-side
// equivalent of the web client's browser storage. Keyed per device so a
// single instance serves many guest devices.
type LocalEntry struct {
	DeviceID  string    `json:"device_id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}
