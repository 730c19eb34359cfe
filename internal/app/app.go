// Package app initializes and orchestrates the main components of the
// service: configuration, storage, the inference client, the review pipeline,
// and the HTTP server.
package app

import (
	"fmt"
	"log/slog"

	"github.com/codecritic/codecritic/internal/config"
	"github.com/codecritic/codecritic/internal/db"
	"github.com/codecritic/codecritic/internal/llm"
	"github.com/codecritic/codecritic/internal/review"
	"github.com/codecritic/codecritic/internal/server"
	"github.com/codecritic/codecritic/internal/storage"
)

// App holds the main application components.
type App struct {
	cfg       *config.Config
	server    *server.Server
	logger    *slog.Logger
	dbCleanup func()
}

// NewApp sets up the application with all its dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing review service",
		"model", cfg.ModelName,
		"temperature", cfg.Temperature,
		"db_path", cfg.DBPath)

	dbConn, dbCleanup, err := db.NewDatabase(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	prompts, err := llm.NewPromptBuilder()
	if err != nil {
		dbCleanup()
		return nil, fmt.Errorf("failed to initialize prompt builder: %w", err)
	}

	store := storage.NewStore(dbConn.DB)
	completer := llm.NewGroqClient(cfg)
	svc := review.NewService(prompts, completer, store, logger)
	httpServer := server.NewServer(cfg, svc, store, logger)

	logger.Info("review service initialized successfully")
	return &App{
		cfg:       cfg,
		server:    httpServer,
		logger:    logger,
		dbCleanup: dbCleanup,
	}, nil
}

// Start runs the HTTP server. It blocks until the server stops.
func (a *App) Start() error {
	a.logger.Info("starting review service", "server_port", a.cfg.ServerPort)
	return a.server.Start()
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down review service")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.logger.Info("closing database connection")
	a.dbCleanup()

	if serverErr != nil {
		return serverErr
	}
	a.logger.Info("review service stopped successfully")
	return nil
}
