package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"coinbar/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Settings keys. The selection list and alert list are stored as JSON
// arrays under fixed keys in the key-value settings table.
const (
	keySelection = "selected_symbols"
	keyAlerts    = "alerts"
)

// Storage is the local SQLite-backed settings and metadata store
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the OS config path
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}
	return NewStorageAt(dbPath)
}

// NewStorageAt creates a SQLite storage instance at an explicit path
func NewStorageAt(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.CurrencyInfo{}, &domain.Setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "Coinbar", "data", "coinbar.db"), nil
}

// ======================================================================================
// Currency Operations
// ======================================================================================

// UpsertCurrency creates or updates currency metadata
func (s *Storage) UpsertCurrency(cur *domain.CurrencyInfo) error {
	return s.db.Save(cur).Error
}

// GetCurrency retrieves currency metadata by trading-pair symbol
func (s *Storage) GetCurrency(symbol string) (*domain.CurrencyInfo, error) {
	var cur domain.CurrencyInfo
	err := s.db.First(&cur, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &cur, err
}

// GetAllCurrencies retrieves all cached currencies
func (s *Storage) GetAllCurrencies() ([]domain.CurrencyInfo, error) {
	var currencies []domain.CurrencyInfo
	err := s.db.Find(&currencies).Error
	return currencies, err
}

// ======================================================================================
// Settings Operations
// ======================================================================================

// SaveSetting saves a user configuration value
func (s *Storage) SaveSetting(key, value string) error {
	setting := domain.Setting{
		Key:   key,
		Value: value,
	}
	return s.db.Save(&setting).Error
}

// LoadSetting loads a user configuration value.
// The second return value is false when the key is absent.
func (s *Storage) LoadSetting(key string) (string, bool, error) {
	var setting domain.Setting
	err := s.db.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

// ======================================================================================
// Selection Persistence
// ======================================================================================

// SaveSelection persists the ordered selected-symbol list
func (s *Storage) SaveSelection(symbols []string) error {
	data, err := json.Marshal(symbols)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	return s.SaveSetting(keySelection, string(data))
}

// LoadSelection loads the ordered selected-symbol list.
// Returns nil (not an error) when no selection has been saved yet.
func (s *Storage) LoadSelection() ([]string, error) {
	value, ok, err := s.LoadSetting(keySelection)
	if err != nil || !ok {
		return nil, err
	}

	var symbols []string
	if err := json.Unmarshal([]byte(value), &symbols); err != nil {
		return nil, fmt.Errorf("failed to decode selection: %w", err)
	}
	return symbols, nil
}

// ======================================================================================
// Alert Persistence
// ======================================================================================

// SaveAlerts persists the alert list
func (s *Storage) SaveAlerts(alerts []*domain.Alert) error {
	data, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to encode alerts: %w", err)
	}
	return s.SaveSetting(keyAlerts, string(data))
}

// LoadAlerts loads the persisted alert list.
// Returns nil (not an error) when no alerts have been saved yet.
func (s *Storage) LoadAlerts() ([]*domain.Alert, error) {
	value, ok, err := s.LoadSetting(keyAlerts)
	if err != nil || !ok {
		return nil, err
	}

	var alerts []*domain.Alert
	if err := json.Unmarshal([]byte(value), &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return alerts, nil
}
