package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/adamjhf/timeboxd/internal/config"
	"github.com/adamjhf/timeboxd/internal/httpapp"
	"github.com/adamjhf/timeboxd/internal/letterboxd"
	"github.com/adamjhf/timeboxd/internal/logger"
	"github.com/adamjhf/timeboxd/internal/ratelimit"
	"github.com/adamjhf/timeboxd/internal/store"
	"github.com/adamjhf/timeboxd/internal/tmdb"
	"github.com/adamjhf/timeboxd/internal/tracker"
	"github.com/adamjhf/timeboxd/web"
)

func main() {
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize Clients
	limiter := ratelimit.NewTokenBucket(cfg.TMDBRPS, cfg.TMDBBurst)
	tmdbClient := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, limiter)
	watchlist := letterboxd.NewClient(cfg.LetterboxdBaseURL, cfg.ScrapeDelay, appLogger)

	// Initialize Pipeline
	resolver := tracker.NewResolver(db, tmdbClient, cfg.FilmTTL, appLogger)
	fetcher := tracker.NewReleaseFetcher(db, tmdbClient, cfg.ReleaseTTL, cfg.FallbackCountries, appLogger)
	providers := tracker.NewProviderFetcher(db, tmdbClient, cfg.ProviderTTL, appLogger)
	processor := tracker.NewProcessor(watchlist, resolver, fetcher, providers, cfg.MaxConcurrent, cfg.RecencyWindowDays, appLogger)

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Routes
	h := httpapp.NewHandler(processor, appLogger, web.Files)
	h.RegisterRoutes(r)

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
