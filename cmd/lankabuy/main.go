package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/cache"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/config"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/console"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/gateway"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/health"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/middleware"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/notify"
	service "github.com/aaravmahajanofficial/lankabuy-storefront/internal/services"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/validation"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/view"
)

func main() {

	// stdout belongs to the console, logs go to stderr
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	modeFlag := flag.String("mode", "browse", "view to open: browse or admin")

	cfg := config.MustLoad()

	if !flag.Parsed() {
		flag.Parse()
	}

	logger := logging.New(os.Stderr, cfg.Log.Level)
	slog.SetDefault(logger)

	mode, err := view.ParseMode(*modeFlag)
	if err != nil {
		slog.Error("❌ Invalid mode", slog.String("error", err.Error()))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logging.WithLogger(ctx, logger)

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initialising tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
		}
	}()

	sessionStore, err := cache.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error opening the session store", slog.String("driver", cfg.Cache.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := sessionStore.Close(); err != nil {
			slog.Error("⚠️ Error closing the session store", slog.String("error", err.Error()))
		}
	}()

	client, err := gateway.NewHTTPClient(cfg.Backend)
	if err != nil {
		slog.Error("❌ Error creating the backend client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	products := gateway.NewProductGateway(cfg.Backend.BaseURL, client)
	sessions := gateway.NewSessionGateway(cfg.Backend.BaseURL, client)

	noticeTTL := cfg.Notifications.BrowseTTL
	if mode == view.ModeAdmin {
		noticeTTL = cfg.Notifications.AdminTTL
	}

	banner := notify.NewBanner(noticeTTL)
	cons := console.New(os.Stdout, console.Options{
		Mode:       mode,
		Currency:   cfg.Display.Currency,
		Categories: cfg.Catalog.Categories,
		Banner:     banner,
	})
	sink := notify.Fanout{cons, banner, notify.NewLogSink(logger)}

	formatter := view.NewPriceFormatter(cfg.Display.Locale, cfg.Display.Currency)

	services := console.Services{
		Catalog:  service.NewCatalogService(mode, products, formatter, cons, sink),
		Editor:   service.NewEditorService(products, validation.NewProductValidator(), sink),
		Sessions: service.NewSessionService(sessions, sessionStore, validation.NewUserValidator(), sink),
	}

	slog.Info("console initialized", slog.String("env", cfg.Env), slog.String("mode", mode.String()), slog.String("backend", cfg.Backend.BaseURL))

	server := startOpsServer(cfg)

	if err := cons.Run(ctx, os.Stdin, services); err != nil {
		slog.Error("❌ Console stopped", slog.String("error", err.Error()))
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("⚠️ Ops server shutdown encountered an issue", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Ops server shut down gracefully")
		}
	}
}

// startOpsServer serves /metrics and /health when http_server.address is set.
func startOpsServer(cfg *config.Config) *http.Server {
	if cfg.HTTPServer.Addr == "" {
		return nil
	}

	routerMux := http.NewServeMux()
	routerMux.Handle("GET /metrics", metrics.Handler())

	h, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("⚠️ Health checks unavailable", slog.String("error", err.Error()))
	} else {
		routerMux.Handle("GET /health", h.Handler())
	}

	server := &http.Server{
		Addr:              cfg.HTTPServer.Addr,
		Handler:           middleware.Logging(routerMux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("🚀 Ops server is starting...", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start ops server", slog.Any("error", err.Error()))
		}
	}()

	return server
}
