package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/archive"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/jobs"
	"github.com/clauselens/clauselens/internal/logger"
	"github.com/clauselens/clauselens/internal/pipeline"
	"github.com/clauselens/clauselens/internal/scoring"
	"github.com/clauselens/clauselens/internal/server"
	"github.com/clauselens/clauselens/internal/websocket"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	// Parse command line flags
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		healthCheck = flag.Bool("health-check", false, "Perform health check and exit")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("ClauseLens %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	// Perform health check and exit
	if *healthCheck {
		performHealthCheck()
		return
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}

	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled:  cfg.Logging.File.Enabled,
			Path:     cfg.Logging.File.Path,
			MaxSize:  cfg.Logging.File.MaxSize,
			MaxAge:   cfg.Logging.File.MaxAge,
			Compress: cfg.Logging.File.Compress,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting ClauseLens",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_date", date),
		zap.Int("port", cfg.Server.Port),
	)

	// Phrase scorer (fails fast on a malformed rule pattern)
	scorer, err := scoring.NewScorer(log.WithComponent("scoring"))
	if err != nil {
		log.Fatal("Failed to initialize phrase scorer", zap.Error(err))
	}

	// Job store
	var store jobs.Store
	switch cfg.Jobs.Backend {
	case "redis":
		store, err = jobs.NewRedisStore(jobs.RedisConfig{
			URL:       cfg.Jobs.RedisURL,
			KeyPrefix: cfg.Jobs.KeyPrefix,
			TTL:       cfg.Jobs.TTL,
		}, log.WithComponent("jobs").Logger)
		if err != nil {
			log.Fatal("Failed to initialize Redis job store", zap.Error(err))
		}
	default:
		store = jobs.NewMemoryStore()
	}
	defer store.Close()

	// Optional Postgres clause archive
	var archiver pipeline.Archiver
	var counter server.CategoryCounter
	if cfg.Archive.Enabled {
		archiveStore, err := archive.NewStore(archive.Config{
			DatabaseURL:  cfg.Archive.DatabaseURL,
			MaxOpenConns: cfg.Archive.MaxOpenConns,
			MaxIdleConns: cfg.Archive.MaxIdleConns,
			ConnLifetime: cfg.Archive.ConnLifetime,
		}, log.WithComponent("archive").Logger)
		if err != nil {
			log.Fatal("Failed to initialize clause archive", zap.Error(err))
		}
		defer archiveStore.Close()
		archiver = archiveStore
		counter = archiveStore
	}

	// WebSocket hub
	hub := websocket.NewHub(&websocket.HubConfig{
		BroadcastClauses:     cfg.WebSocket.Events.BroadcastClauses,
		BroadcastAnalyses:    cfg.WebSocket.Events.BroadcastAnalyses,
		BroadcastSystem:      cfg.WebSocket.Events.BroadcastSystem,
		BroadcastConnections: cfg.WebSocket.Events.BroadcastConnections,
	}, log.WithComponent("websocket").Logger)

	// Analysis pipeline
	pipe := pipeline.New(pipeline.Config{
		Workers:        cfg.Analysis.Workers,
		QueueSize:      cfg.Analysis.QueueSize,
		MinClauseWords: cfg.Analysis.MinClauseWords,
		MaxClauseChars: cfg.Analysis.MaxClauseChars,
	}, scorer, extract.NewPlainText(), store, archiver, hub, log.WithComponent("pipeline"))
	pipe.Start()
	defer pipe.Stop()

	// HTTP server
	srv := server.New(cfg, scorer, pipe, store, counter, hub, log)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		serverErrors <- srv.Start()
	}()

	// Setup graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Error("Server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Give outstanding requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Stop(ctx); err != nil {
			log.Error("Failed to shutdown server gracefully", zap.Error(err))
			os.Exit(1)
		}

		log.Info("Server shutdown complete")
	}
}

// performHealthCheck performs a health check against the running server
func performHealthCheck() {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get("http://localhost:8080/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("Health check passed")
	os.Exit(0)
}
