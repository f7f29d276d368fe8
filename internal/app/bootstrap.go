package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"coinbar/internal/domain"
	"coinbar/internal/infra"
	"coinbar/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config     *infra.Config
	Catalog    *domain.Catalog
	Storage    *storage.Storage
	Downloader *infra.IconDownloader
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, DB, assets dir)
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Coinbar...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Build the currency catalog
	catalog, err := cfg.NewCatalog()
	if err != nil {
		return err
	}
	b.Catalog = catalog

	// 4. Initialize Storage (DB)
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 5. Initialize Icon Downloader
	downloader, err := infra.NewIconDownloader()
	if err != nil {
		return err
	}
	b.Downloader = downloader
	slog.Info("✅ Icon downloader ready")

	return nil
}

// SyncAssets mirrors the catalog into the local database and fetches any
// missing currency icons in the background.
func (b *Bootstrap) SyncAssets(ctx context.Context) {
	slog.Info("🔄 Starting asset synchronization...")

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 5) // Limit concurrent downloads

	for _, currency := range b.Catalog.Entries() {
		wg.Add(1)
		go func(cur domain.Currency) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}: // Acquire
			}
			defer func() { <-semaphore }() // Release

			// 1. Upsert to DB
			info := &domain.CurrencyInfo{
				Symbol:    cur.Symbol,
				Code:      cur.Code,
				Name:      cur.Name,
				IsActive:  true,
				UpdatedAt: time.Now(),
			}

			// Preserve icon state of an existing row
			if existing, _ := b.Storage.GetCurrency(cur.Symbol); existing != nil {
				info.IconPath = existing.IconPath
				info.LastSyncedAt = existing.LastSyncedAt
			}

			if err := b.Storage.UpsertCurrency(info); err != nil {
				slog.Error("Failed to upsert currency", slog.String("symbol", cur.Symbol), slog.Any("error", err))
			}

			// 2. Download Icon (if missing)
			path, err := b.Downloader.DownloadIcon(cur.Code)
			if err != nil {
				slog.Warn("Failed to download icon", slog.String("code", cur.Code), slog.Any("error", err))
			} else if path != "" && path != info.IconPath {
				info.IconPath = path
				info.LastSyncedAt = time.Now()
				if err := b.Storage.UpsertCurrency(info); err != nil {
					slog.Error("Failed to record icon path", slog.String("symbol", cur.Symbol), slog.Any("error", err))
				}
			}
		}(currency)
	}

	wg.Wait()
	slog.Info("✨ Asset synchronization completed")
}
