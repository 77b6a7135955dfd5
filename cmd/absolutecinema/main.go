package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/absolutecinema/absolutecinema/internal/api"
	"github.com/absolutecinema/absolutecinema/internal/config"
	"github.com/absolutecinema/absolutecinema/internal/database"
	"github.com/absolutecinema/absolutecinema/internal/health"
	"github.com/absolutecinema/absolutecinema/internal/kinopoisk"
	"github.com/absolutecinema/absolutecinema/internal/logger"
	"github.com/absolutecinema/absolutecinema/internal/movies"
	"github.com/absolutecinema/absolutecinema/internal/preferences"
	"github.com/absolutecinema/absolutecinema/internal/scheduler"
	"github.com/absolutecinema/absolutecinema/internal/scheduler/tasks"
	"github.com/absolutecinema/absolutecinema/internal/store"
	"github.com/absolutecinema/absolutecinema/internal/websocket"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Logging)
	defer log.Close()

	log.Info().
		Str("version", api.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting absolutecinema")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database.Path, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	hub := websocket.NewHub(log.Logger)
	go hub.Run(ctx)

	st := store.New(db.Conn(), log.WithComponent("store"))
	client := kinopoisk.NewClient(cfg.Kinopoisk, cfg.Breaker, log.WithComponent("kinopoisk"))
	if !client.IsConfigured() {
		log.Warn().Msg("no kinopoisk API key configured, serving from the local cache only")
	}

	repo := movies.NewRepository(client, st, movies.Options{Broadcaster: hub}, log.WithComponent("movies"))
	defer repo.Close()
	hub.SetSnapshotHandler(repo.SnapshotMessage)
	go repo.PublishSnapshots(ctx, hub)

	prefs := preferences.NewService(st.Queries(), cfg.Preferences.SearchHistoryLimit)

	healthService := health.NewService(log.Logger)
	healthService.SetBroadcaster(hub)
	healthService.Register(health.DatabaseID, "Cache database", health.DatabaseCheck(db.Conn()))
	healthService.Register(health.CatalogID, "Remote catalog", health.CatalogCheck(client))

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := tasks.RegisterBucketRefreshTask(sched, repo, cfg.Buckets); err != nil {
		log.Fatal().Err(err).Msg("failed to register bucket refresh task")
	}
	if err := tasks.RegisterHealthCheckTask(sched, healthService); err != nil {
		log.Fatal().Err(err).Msg("failed to register health check task")
	}
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	server := api.NewServer(api.Deps{
		Movies:      repo,
		Store:       st,
		Preferences: prefs,
		Scheduler:   sched,
		Health:      healthService,
		Hub:         hub,
	}, cfg, log.Logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx, cfg.Server.Address())
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("failed to shut down HTTP server")
	}
	if err := sched.Stop(); err != nil {
		log.Warn().Err(err).Msg("failed to stop scheduler")
	}

	log.Info().Msg("absolutecinema stopped")
}
