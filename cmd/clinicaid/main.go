// Package main provides the entry point for the clinicai pipeline daemon.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/clinicai/clinicai-go/internal/config"
	"github.com/clinicai/clinicai-go/internal/db"
	"github.com/clinicai/clinicai-go/internal/embedding"
	"github.com/clinicai/clinicai-go/internal/kb"
	"github.com/clinicai/clinicai-go/internal/llm"
	"github.com/clinicai/clinicai-go/internal/metrics"
	"github.com/clinicai/clinicai-go/internal/pipeline"
	"github.com/clinicai/clinicai-go/internal/server"
	"github.com/clinicai/clinicai-go/internal/transcribe"
)

const version = "0.1.0"

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("clinicaid starting",
		"version", version,
		"surrealdb_url", cfg.SurrealDBURL,
		"llm_provider", cfg.LLMProvider,
		"llm_model", cfg.LLMModel,
		"embedding_model", cfg.EmbeddingModel,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	dbCfg := db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}

	dbClient, err := db.NewClient(ctx, dbCfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("closing database connection")
		_ = dbClient.Close(context.Background())
	}()

	if err := dbClient.InitSchema(ctx); err != nil {
		logger.Error("failed to initialize database schema", "error", err)
		os.Exit(1)
	}

	// Create embedder
	embedder, err := embedding.New(cfg)
	if err != nil {
		logger.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	logger.Info("embedder initialized", "model", embedder.Model(), "dimension", embedder.Dimension())

	// Create generator
	generator, err := llm.NewModel(cfg)
	if err != nil {
		logger.Error("failed to create LLM model", "error", err)
		os.Exit(1)
	}
	logger.Info("generator initialized", "model", generator.Model())

	// Knowledge base is optional: the diagnosis stage degrades to its
	// fallback text when qdrant is not reachable.
	var retriever *kb.QdrantRetriever
	if cfg.QdrantHost != "" {
		retriever, err = kb.NewQdrantRetriever(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection, embedder, logger)
		if err != nil {
			logger.Warn("knowledge base unavailable, continuing without it", "error", err)
		} else {
			defer retriever.Close()
			if err := retriever.EnsureCollection(ctx); err != nil {
				logger.Warn("failed to prepare knowledge base collection", "error", err)
			}
		}
	}

	collector := metrics.NewCollector()

	deps := pipeline.Dependencies{
		Store:       dbClient,
		Generator:   generator,
		Transcriber: transcribe.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.WhisperModel),
		Downloader:  transcribe.NewHTTPDownloader(),
		Embedder:    embedder,
		Metrics:     collector,
		Logger:      logger,
	}
	if retriever != nil {
		deps.Retriever = retriever
	}

	p, err := pipeline.New(deps)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	dispatcher := pipeline.NewDispatcher(p, pipeline.DispatcherConfig{
		PollInterval:  cfg.PollInterval,
		StageTimeout:  cfg.StageTimeout,
		MaxConcurrent: cfg.MaxConcurrent,
	}, logger)

	go func() {
		if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("dispatcher stopped", "error", err)
			cancel()
		}
	}()

	var knowledgeBase server.KnowledgeBase
	if retriever != nil {
		knowledgeBase = retriever
	}
	srv := server.New(p, dbClient, knowledgeBase, collector, logger)

	go func() {
		logger.Info("http server listening", "port", cfg.ServerPort)
		if err := srv.Start(cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.StageTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}

	logger.Info("clinicaid stopped")
}
