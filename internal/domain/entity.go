package domain

import (
	"time"
)

// CurrencyInfo caches catalog metadata and icon state in the local database
type CurrencyInfo struct {
	Symbol       string    `gorm:"primaryKey" json:"symbol"` // Trading pair (e.g., "btcusdt")
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	IconPath     string    `json:"icon_path"`
	IsActive     bool      `json:"is_active" gorm:"index"` // Active trading status
	LastSyncedAt time.Time `json:"last_synced_at"`         // Last icon sync time
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Setting represents user-specific configuration (Key-Value)
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
