package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/api"
	"github.com/JeffCortez23/BabySleepTracker/internal/auth"
	"github.com/JeffCortez23/BabySleepTracker/internal/config"
	"github.com/JeffCortez23/BabySleepTracker/internal/state"
	"github.com/JeffCortez23/BabySleepTracker/internal/storage"
)

type app struct {
	logger   internal.Logger
	tracker  *state.Tracker
	sessions storage.SessionRepository
	diapers  storage.DiaperRepository
}

func (a *app) Logger() internal.Logger                { return a.logger }
func (a *app) Tracker() *state.Tracker                { return a.tracker }
func (a *app) SessionRepo() storage.SessionRepository { return a.sessions }
func (a *app) DiaperRepo() storage.DiaperRepository   { return a.diapers }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := internal.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	var (
		sessions storage.SessionRepository
		diapers  storage.DiaperRepository
		closeFn  func() error
	)
	switch cfg.StorageBackend {
	case "postgres":
		sessions, diapers, closeFn, err = storage.NewPostgresRepositories(cfg.PostgresDSN, logger)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.SessionsFile), 0o755); err != nil {
			logger.Fatalf("failed to create data dir: %v", err)
		}
		sessions, diapers, closeFn, err = storage.NewFileRepositories(cfg.SessionsFile, cfg.DiapersFile, logger)
	}
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	tracker, err := state.NewTracker(sessions, diapers, logger)
	if err != nil {
		logger.Fatalf("failed to init tracker: %v", err)
	}

	var provider auth.Provider
	if cfg.Env == "development" {
		provider = auth.NewLocalProvider(cfg.AuthToken, logger)
	} else {
		provider = auth.NewRemoteProvider(cfg.AuthServiceURL, logger)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(&app{
		logger:   logger,
		tracker:  tracker,
		sessions: sessions,
		diapers:  diapers,
	}, provider, cfg)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Infof("server running on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}

	tracker.Close()
	if err := closeFn(); err != nil {
		logger.Errorf("storage shutdown: %v", err)
	}
}
