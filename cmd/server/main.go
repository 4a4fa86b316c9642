package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/verdict-ai/verdict/internal/api"
	"github.com/verdict-ai/verdict/internal/config"
	"github.com/verdict-ai/verdict/internal/embedding"
	"github.com/verdict-ai/verdict/internal/index"
	"github.com/verdict-ai/verdict/internal/oracle"
	"github.com/verdict-ai/verdict/internal/store"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	embedder, err := embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey())
	if err != nil {
		logger.Fatal("embedding client initialization failed", zap.Error(err))
	}
	logger.Info("embedding client initialized", zap.String("provider", config.EmbeddingProvider()))

	var pool *pgxpool.Pool
	if config.IndexProvider() == index.ProviderPgvector {
		dbURL := config.DatabaseURL()
		if dbURL == "" {
			logger.Fatal("DATABASE_URL is required for pgvector index provider")
		}
		pool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")
	}

	idx, err := index.NewIndex(ctx, config.IndexProvider(), pool, embedder)
	if err != nil {
		logger.Fatal("index initialization failed", zap.Error(err))
	}

	factStore, err := store.OpenFactFile(ctx, config.FactFile(), idx, logger)
	if err != nil {
		logger.Fatal("failed to open fact store", zap.Error(err))
	}

	suggestionStore, err := store.OpenSuggestionFile(config.SuggestionFile(), logger)
	if err != nil {
		logger.Fatal("failed to open suggestion log", zap.Error(err))
	}

	oracleClient, err := oracle.NewClient(config.OracleProvider(), config.OracleAPIKey())
	if err != nil {
		logger.Fatal("oracle client initialization failed", zap.Error(err))
	}
	logger.Info("oracle client initialized", zap.String("provider", config.OracleProvider()))

	app := api.NewApp(factStore, suggestionStore, oracleClient, logger)

	// Complete any promotion interrupted by a previous crash.
	if err := app.Learning.Recover(ctx); err != nil {
		logger.Fatal("promotion recovery failed", zap.Error(err))
	}

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
