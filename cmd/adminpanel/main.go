// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/vibelive/adminpanel/internal/access"
	"github.com/vibelive/adminpanel/internal/cache"
	"github.com/vibelive/adminpanel/internal/config"
	"github.com/vibelive/adminpanel/internal/geoip"
	"github.com/vibelive/adminpanel/internal/handler/api"
	"github.com/vibelive/adminpanel/internal/logging"
	"github.com/vibelive/adminpanel/internal/middleware"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/scheduler"
	"github.com/vibelive/adminpanel/internal/service"
	"github.com/vibelive/adminpanel/internal/session"
	"github.com/vibelive/adminpanel/internal/store"
	"github.com/vibelive/adminpanel/internal/transfer"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	importURI := flag.String("import", "", "Import legacy Parse data from the given MongoDB URI and exit")
	importDB := flag.String("import-db", "", "MongoDB database name for -import")
	importClasses := flag.String("import-classes", "", "Comma-separated class names for -import (default: all registered)")
	importDryRun := flag.Bool("import-dry-run", false, "Count convertible documents without writing")
	importSkipExisting := flag.Bool("import-skip-existing", false, "Skip documents whose id already exists")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "VibeLive Admin Panel\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_SESSION_SECRET        Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_DB_PATH               SQLite database path (default: ./data/panel.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_DEFAULT_ROLE          Role for self-registered accounts (default: viewer)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_UPLOADS_DIR           Uploaded file directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_REDIS_URL             Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_GEOIP_DB_PATH         GeoLite2-Country.mmdb path (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_EVENT_RETENTION_DAYS  Event log retention in days (default: 90)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("adminpanel %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if *importURI != "" {
		opts := transfer.ImportOptions{
			MongoURI:     *importURI,
			Database:     *importDB,
			SkipExisting: *importSkipExisting,
			DryRun:       *importDryRun,
		}
		if *importClasses != "" {
			for _, c := range strings.Split(*importClasses, ",") {
				if c = strings.TrimSpace(c); c != "" {
					opts.Classes = append(opts.Classes, c)
				}
			}
		}
		if err := runImport(opts); err != nil {
			slog.Error("import failed", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// openDatabase loads config, opens the SQLite database and applies migrations.
func openDatabase() (*config.Config, *sql.DB, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing database: %w", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	return cfg, db, nil
}

// runImport executes the legacy Parse/MongoDB import against the local database.
func runImport(opts transfer.ImportOptions) error {
	_, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	ctx := context.Background()
	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	importer := transfer.NewImporter(db, slog.Default())
	result, err := importer.Import(ctx, opts)
	if err != nil {
		return err
	}

	var imported, skipped int
	for class, n := range result.Imported {
		slog.Info("class imported", "class", class, "imported", n, "skipped", result.Skipped[class])
		imported += n
		skipped += result.Skipped[class]
	}
	for _, ie := range result.Errors {
		slog.Warn("document not imported", "class", ie.Class, "id", ie.ID, "reason", ie.Message)
	}
	if result.DryRun {
		slog.Info("dry run, no records written")
		return nil
	}

	events := service.NewEventService(db)
	_ = events.LogImportEvent(ctx, model.EventLevelInfo, "Legacy data import completed", nil, "",
		map[string]any{"imported": imported, "skipped": skipped, "errors": len(result.Errors)})
	return nil
}

func run() error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	// Text handler for stdout, wrapped so WARN and ERROR records are
	// mirrored into the events table.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	cacheConfig := cache.Config{
		Type:             "memory",
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
	}
	cacheBackend, cacheInfo, err := cache.New(cacheConfig)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacheBackend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	switch {
	case cacheInfo.IsFallback:
		slog.Warn("cache initialized", "backend", cacheInfo.Backend, "note", "Redis unavailable, using fallback")
	default:
		slog.Info("cache initialized", "backend", cacheInfo.Backend)
	}

	eventService := service.NewEventService(db)
	fileService := service.NewFileService(db, cfg.UploadsDir)
	recordService := service.NewRecordService(db, cache.NewRecordListCache(cacheBackend))

	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("GeoIP lookup disabled", "error", err)
		}
	}
	defer func() {
		if err := geo.Close(); err != nil {
			slog.Error("error closing GeoIP database", "error", err)
		}
	}()

	sched := scheduler.New(db, logger, eventService, geo, cfg.EventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	apiHandler := api.NewHandler(api.Deps{
		DB:              db,
		Config:          cfg,
		Sessions:        sessionManager,
		Records:         recordService,
		Files:           fileService,
		Events:          eventService,
		LoginProtection: loginProtection,
		GeoIP:           geo,
	})

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))

	r.Get("/healthz", apiHandler.Health)

	// Uploaded files are immutable once stored, long client cache is fine.
	uploadsHandler := middleware.StaticCache(604800)(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	r.Handle("/uploads/*", uploadsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		apiRateLimiter := middleware.NewGlobalRateLimiter(100, 200)
		r.Use(apiRateLimiter.Middleware())

		// Authentication endpoints, no session required
		r.With(loginProtection.Middleware()).Post("/auth/login", apiHandler.Login)
		r.Post("/auth/register", apiHandler.Register)
		r.Post("/auth/logout", apiHandler.Logout)
		r.Get("/auth/me", apiHandler.Me)

		// Everything below requires a signed-in account
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadAccount(sessionManager, db))

			r.Get("/pages", apiHandler.Pages)
			r.Get("/collections", apiHandler.Collections)

			// Per-collection access is checked inside the handlers
			// because the page depends on the resolved collection.
			r.Route("/classes/{class}", func(r chi.Router) {
				r.Get("/records", apiHandler.ListRecords)
				r.Post("/records", apiHandler.CreateRecord)
				r.Post("/records/bulk-delete", apiHandler.BulkDeleteRecords)
				r.Get("/records/{id}", apiHandler.GetRecord)
				r.Patch("/records/{id}", apiHandler.UpdateRecord)
				r.Delete("/records/{id}", apiHandler.DeleteRecord)
				r.Get("/table", apiHandler.Table)
			})

			// Account management is admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(eventService))
				r.Get("/accounts", apiHandler.ListAccounts)
				r.Get("/accounts/{id}", apiHandler.GetAccountByID)
				r.Patch("/accounts/{id}", apiHandler.UpdateAccount)
				r.Put("/accounts/{id}/access", apiHandler.UpdateAccountAccess)
				r.Delete("/accounts/{id}", apiHandler.DeleteAccount)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePage(access.PageFiles, eventService))
				r.Get("/files", apiHandler.ListFiles)
				r.Get("/files/{id}", apiHandler.GetFile)
				r.With(middleware.RequireEdit(eventService)).Post("/files", apiHandler.UploadFile)
				r.With(middleware.RequireDelete(eventService)).Delete("/files/{id}", apiHandler.DeleteFile)
			})

			r.With(middleware.RequireAdmin(eventService)).Get("/events", apiHandler.ListEvents)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
