package storage

import (
	"path/filepath"
	"testing"
	"time"

	"coinbar/internal/domain"

	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorageAt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return s
}

func TestUpsertAndGetCurrency(t *testing.T) {
	s := setupTestDB(t)

	cur := &domain.CurrencyInfo{
		Symbol:    "btcusdt",
		Code:      "BTC",
		Name:      "Bitcoin",
		IsActive:  true,
		UpdatedAt: time.Now(),
	}

	// 1. Create
	if err := s.UpsertCurrency(cur); err != nil {
		t.Fatalf("UpsertCurrency failed: %v", err)
	}

	// 2. Get
	fetched, err := s.GetCurrency("btcusdt")
	if err != nil {
		t.Fatalf("GetCurrency failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("fetched currency is nil")
	}
	if fetched.Code != "BTC" {
		t.Errorf("expected code BTC, got %s", fetched.Code)
	}

	// 3. Missing symbol is not an error
	missing, err := s.GetCurrency("dogeusdt")
	if err != nil {
		t.Fatalf("GetCurrency for missing symbol failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing symbol")
	}
}

func TestUpdateCurrency(t *testing.T) {
	s := setupTestDB(t)
	cur := &domain.CurrencyInfo{Symbol: "ethusdt", Name: "Before"}
	s.UpsertCurrency(cur)

	// Update
	cur.Name = "After"
	if err := s.UpsertCurrency(cur); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, _ := s.GetCurrency("ethusdt")
	if fetched.Name != "After" {
		t.Errorf("expected name 'After', got '%s'", fetched.Name)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	s := setupTestDB(t)

	// Absent key returns nil without error
	symbols, err := s.LoadSelection()
	if err != nil {
		t.Fatalf("LoadSelection failed: %v", err)
	}
	if symbols != nil {
		t.Errorf("expected nil selection on first run, got %v", symbols)
	}

	// Order must survive the round trip
	want := []string{"ethusdt", "btcusdt", "solusdt"}
	if err := s.SaveSelection(want); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}

	got, err := s.LoadSelection()
	if err != nil {
		t.Fatalf("LoadSelection failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d symbols, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	// Overwrite with a shorter list
	if err := s.SaveSelection([]string{"btcusdt"}); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}
	got, _ = s.LoadSelection()
	if len(got) != 1 || got[0] != "btcusdt" {
		t.Errorf("expected [btcusdt], got %v", got)
	}
}

func TestAlertsRoundTrip(t *testing.T) {
	s := setupTestDB(t)

	// Absent key returns nil without error
	alerts, err := s.LoadAlerts()
	if err != nil {
		t.Fatalf("LoadAlerts failed: %v", err)
	}
	if alerts != nil {
		t.Errorf("expected nil alerts on first run, got %v", alerts)
	}

	want := []*domain.Alert{
		domain.NewAlert("btcusdt", decimal.NewFromInt(70000), decimal.NewFromInt(67000), true),
	}
	if err := s.SaveAlerts(want); err != nil {
		t.Fatalf("SaveAlerts failed: %v", err)
	}

	got, err := s.LoadAlerts()
	if err != nil {
		t.Fatalf("LoadAlerts failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(got))
	}
	if got[0].Symbol != "btcusdt" || got[0].Direction != "UP" || !got[0].Active {
		t.Errorf("alert did not survive round trip: %+v", got[0])
	}
	if !got[0].Target.Equal(decimal.NewFromInt(70000)) {
		t.Errorf("expected target 70000, got %v", got[0].Target)
	}
}

func TestSettings(t *testing.T) {
	s := setupTestDB(t)

	if err := s.SaveSetting("theme", "dark"); err != nil {
		t.Fatalf("SaveSetting failed: %v", err)
	}

	value, ok, err := s.LoadSetting("theme")
	if err != nil {
		t.Fatalf("LoadSetting failed: %v", err)
	}
	if !ok || value != "dark" {
		t.Errorf("expected (dark, true), got (%s, %v)", value, ok)
	}

	_, ok, err = s.LoadSetting("missing")
	if err != nil {
		t.Fatalf("LoadSetting failed: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing key")
	}
}
