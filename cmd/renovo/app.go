package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/renovo/internal/config"
	"github.com/vbonduro/renovo/internal/db"
	"github.com/vbonduro/renovo/internal/logging"
	"github.com/vbonduro/renovo/internal/photostore/local"
	"github.com/vbonduro/renovo/internal/service"
	"github.com/vbonduro/renovo/internal/store"
	"github.com/vbonduro/renovo/internal/vision"
	claudevision "github.com/vbonduro/renovo/internal/vision/claude"
	ollamavision "github.com/vbonduro/renovo/internal/vision/ollama"
)

// app holds the wired collaborators shared by every subcommand.
type app struct {
	logger   *slog.Logger
	database *sql.DB
	photoStg *local.LocalPhotoStore
	service  *service.BeforePhotoService
	cleanup  func()
}

func newApp(cfg *config.Config) (*app, error) {
	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	photoStg, err := local.NewLocalPhotoStore(cfg.PhotoPath, cfg.PublicBaseURL)
	if err != nil {
		_ = database.Close()
		cleanup()
		return nil, fmt.Errorf("failed to initialize photo store: %w", err)
	}

	svc := service.NewBeforePhotoService(
		store.NewProjectStore(database),
		store.NewPreferencesStore(database),
		photoStg,
		newClassifier(cfg, logger),
		cfg.MigrateConcurrency,
		logger,
	)

	return &app{
		logger:   logger,
		database: database,
		photoStg: photoStg,
		service:  svc,
		cleanup:  cleanup,
	}, nil
}

func (a *app) Close() {
	if err := a.database.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
	a.cleanup()
}

// newClassifier returns nil when classification is disabled; the service
// then requires every upload to name its area.
func newClassifier(cfg *config.Config, logger *slog.Logger) vision.AreaClassifier {
	switch cfg.VisionBackend {
	case "claude":
		logger.Info("using Claude area classifier", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeClassifier(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama area classifier", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaClassifier(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("area classification disabled")
		return nil
	}
}
