package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dmaloney/flatnote/internal/auth"
	"github.com/dmaloney/flatnote/internal/backup"
	"github.com/dmaloney/flatnote/internal/config"
	"github.com/dmaloney/flatnote/internal/database"
	"github.com/dmaloney/flatnote/internal/logging"
	"github.com/dmaloney/flatnote/internal/server"
	"github.com/dmaloney/flatnote/internal/store"
	"github.com/dmaloney/flatnote/internal/store/jsonfile"
	"github.com/dmaloney/flatnote/internal/store/sqlite"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info").Error("load config", "error", err)
		return 1
	}

	logger := logging.Setup(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("create data directory", "path", cfg.DataDir, "error", err)
		return 1
	}

	var users store.UserStore
	var notes store.NoteStore
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := database.Open(filepath.Join(cfg.DataDir, "flatnote.db"))
		if err != nil {
			logger.Error("open database", "error", err)
			return 1
		}
		defer db.Close()
		users = sqlite.NewUserStore(db)
		notes = sqlite.NewNoteStore(db)
	default:
		users = jsonfile.NewUserStore(cfg.DataDir)
		notes = jsonfile.NewNoteStore(cfg.DataDir)
	}
	logger.Info("store ready", "backend", cfg.Store, "dataDir", cfg.DataDir)

	tokens := auth.NewTokenService(cfg.JWTSecret)
	srv := server.New(users, notes, tokens, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Offsite copies only make sense for the flat-file backend; SQLite
	// deployments have their own backup story.
	backupMgr := backup.NewManager(backup.Config{
		S3:       cfg.S3,
		DataDir:  cfg.DataDir,
		Interval: cfg.BackupInterval,
	}, logger.With("component", "backup"))
	if cfg.Store == config.StoreJSONFile && backupMgr.Enabled() {
		backupMgr.Start(ctx)
		defer backupMgr.Stop()
		logger.Info("backups enabled", "interval", cfg.BackupInterval)
	}

	// Drop stale rate-limit windows so the map does not grow forever.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", cfg.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		logger.Error("server error", "error", err)
		return 1
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
		return 1
	}
	return 0
}
