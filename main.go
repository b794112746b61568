package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/akshatgupta/notetube/config"
	"github.com/akshatgupta/notetube/handlers/api"
	"github.com/akshatgupta/notetube/logger"
	"github.com/akshatgupta/notetube/openai"
	"github.com/akshatgupta/notetube/repository/sqlite"
	"github.com/akshatgupta/notetube/services/notes"
	"github.com/akshatgupta/notetube/validation"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogDir, cfg.Debug); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := sqlite.InitDB(cfg.Database.Path)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	dbConfig := sqlite.DefaultDBConfig()
	dbConfig.MaxConnections = cfg.Database.MaxConnections
	dbConfig.MaxIdleConnections = cfg.Database.MaxIdleConnections
	dbConfig.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	if err := sqlite.ConfigureDB(db, dbConfig); err != nil {
		logrus.WithError(err).Fatal("Failed to configure database")
	}

	noteRepo := sqlite.NewNoteRepository(db, dbConfig, cfg.Notes.CacheTTL)
	transcriptRepo := sqlite.NewTranscriptRepository(db, dbConfig, cfg.Notes.CacheTTL)
	settingsRepo := sqlite.NewSettingsRepository(db)

	client, err := openai.NewClient(openai.Config{
		APIKey:            cfg.OpenAI.APIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		RequestTimeout:    cfg.OpenAI.RequestTimeout,
		RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create completion client")
	}

	hub := api.NewProgressHub()
	validator := validation.NewValidator(cfg)

	notesService := notes.NewService(
		noteRepo,
		transcriptRepo,
		client,
		validator,
		hub,
		notes.Config{
			Models:           cfg.OpenAI.Models,
			MaxTokens:        cfg.OpenAI.MaxTokens,
			CombineMaxTokens: cfg.OpenAI.CombineMaxTokens,
			Temperature:      cfg.OpenAI.Temperature,
			CombineTemp:      cfg.OpenAI.CombineTemp,
			Pricing: notes.Pricing{
				InputPerMillion:  cfg.OpenAI.InputPricePerMillion,
				OutputPerMillion: cfg.OpenAI.OutputPricePerMillion,
			},
		},
	)

	server := api.NewServer(cfg,
		api.WithServices(notesService, settingsRepo, client, hub),
		api.WithLogger(logrus.StandardLogger()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logrus.WithError(err).Fatal("Server failed")
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}

	logrus.Info("Server stopped")
}
