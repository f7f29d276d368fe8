package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"coinbar/internal/app"
	"coinbar/internal/event"
	"coinbar/internal/format"
	"coinbar/internal/infra"
	"coinbar/internal/infra/binance"
	"coinbar/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Debug Server (pprof + metrics snapshot)
	go func() {
		http.HandleFunc("/debug/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(infra.GlobalMetrics.Snapshot())
		})
		// Localhost only for security
		slog.Info("🕵️ Debug server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Debug server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Background Asset Sync (catalog rows and icons)
	go bootstrap.SyncAssets(ctx)

	// 5. Wire the feed core
	cfg := bootstrap.Config
	bus := event.NewBus(256)
	store := service.NewStore(bus)

	client := binance.NewClient(cfg.API.Binance.RestURL)
	dialer := binance.NewDialer(cfg.API.Binance.WSURL)

	manager := service.NewManager(service.ManagerDeps{
		Catalog:       bootstrap.Catalog,
		Store:         store,
		Bootstrapper:  service.NewBootstrapper(client, store, bootstrap.Catalog),
		Supervisor:    service.NewSupervisor(store, dialer, cfg.ReconnectDelay()),
		Selection:     bootstrap.Storage,
		Alerts:        bootstrap.Storage,
		Bus:           bus,
		RefreshEvery:  cfg.RefreshInterval(),
		DefaultSymbol: cfg.Feed.DefaultSymbol,
	})

	if err := manager.Start(ctx); err != nil {
		slog.Error("❌ Feed start failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 6. Consume change signals. A menu-bar frontend would redraw here; the
	// headless build renders the selected rows to the log.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-bus.Events():
				switch ev.Kind {
				case event.KindAlertTriggered:
					slog.Info("🔔 Alert", slog.String("detail", ev.Detail))
				case event.KindPricesChanged:
					rec, state, ok := store.Snapshot(ev.Symbol)
					if !ok {
						continue
					}
					slog.Debug("Tick",
						slog.String("symbol", ev.Symbol),
						slog.String("price", format.Price(rec.Price.String())),
						slog.String("change", format.Percent(rec.Change.String())),
						slog.String("state", state.Kind.String()),
					)
				case event.KindStateChanged:
					slog.Debug("State",
						slog.String("symbol", ev.Symbol),
						slog.String("state", ev.Detail),
					)
				}
			}
		}
	}()

	slog.InfoContext(ctx, "✨ Coinbar fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
	manager.Shutdown()
}
