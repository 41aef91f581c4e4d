// Package main is the entry point for the registration API server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"meetreg/internal/api"
	"meetreg/internal/catalog"
	"meetreg/internal/config"
	internaldb "meetreg/internal/db"
	"meetreg/internal/db/repository"
	"meetreg/internal/middleware"
	"meetreg/internal/seed"
	"meetreg/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("could not load .env", slog.Any("error", err))
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 4)
	if err != nil {
		return err
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := internaldb.RunMigrations(writeDB); err != nil {
		return err
	}
	logger.Info("migrations applied", slog.String("db", cfg.DBPath))

	if cfg.SeedFile != "" {
		doc, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		if _, err := seed.NewApplier(writeDB, logger).Apply(ctx, doc); err != nil {
			return err
		}
	}

	// Repositories that only SELECT run on the read pool; every write goes
	// through the single-connection write pool inside a transaction.
	txRepos := func(tx *sql.Tx) service.TxRepos {
		return service.TxRepos{
			Meets:         repository.NewMeetRepo(tx),
			Teams:         repository.NewTeamRepo(tx),
			Groups:        repository.NewGroupRepo(tx),
			Events:        repository.NewEventRepo(tx),
			Athletes:      repository.NewAthleteRepo(tx),
			Registrations: repository.NewRegistrationRepo(tx),
		}
	}
	cat := catalog.New(
		repository.NewMeetRepo(readDB),
		repository.NewTeamRepo(readDB),
		repository.NewGroupRepo(readDB),
		repository.NewEventRepo(readDB))

	windowJob := service.NewRegistrationWindowJob(repository.NewMeetRepo(writeDB), logger)

	handler := api.NewHandler(
		service.NewAuthService(repository.NewTeamRepo(writeDB), []byte(cfg.JWTSecret), cfg.TokenTTL, logger),
		service.NewAthleteService(writeDB, txRepos, repository.NewAthleteRepo(readDB), logger),
		service.NewRegistrationService(writeDB, txRepos,
			repository.NewAthleteRepo(readDB), repository.NewRegistrationRepo(readDB), logger),
		service.NewSummaryService(cat,
			repository.NewGroupRepo(readDB),
			repository.NewAthleteRepo(readDB),
			repository.NewRegistrationRepo(readDB)),
		service.NewEventService(cat, repository.NewEventRepo(readDB), repository.NewGroupRepo(readDB)),
		service.NewGroupService(cat, repository.NewGroupRepo(readDB), repository.NewMeetRepo(readDB)),
		windowJob,
	)

	router := handler.Router(api.RouterConfig{
		JWTSecret: []byte(cfg.JWTSecret),
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		CORS: cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		},
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.WindowCron, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := windowJob.Run(jobCtx); err != nil {
			logger.Error("registration window job failed", slog.Any("error", err))
		}
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http api listening", slog.String("addr", cfg.ListenAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
