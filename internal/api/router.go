package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/verdict-ai/verdict/internal/api/handlers"
	mw "github.com/verdict-ai/verdict/internal/api/middleware"
	"github.com/verdict-ai/verdict/internal/config"
	"github.com/verdict-ai/verdict/internal/domain"
	"github.com/verdict-ai/verdict/internal/embedding"
	"github.com/verdict-ai/verdict/internal/oracle"
	"github.com/verdict-ai/verdict/internal/service"
	"github.com/verdict-ai/verdict/internal/store"
	"go.uber.org/zap"
)

// App holds the router and services for lifecycle management.
type App struct {
	Router   *chi.Mux
	Learning *service.LearningService

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(factStore domain.FactStore, suggestionStore domain.SuggestionStore, oracleClient domain.Oracle, logger *zap.Logger) *App {
	// Services
	factSvc := service.NewFactService(factStore, logger)
	learningSvc := service.NewLearningService(suggestionStore, factStore, logger)
	classifier := service.NewClassifierWithConfig(factStore, oracleClient, logger, service.ClassifierConfig{
		Workers:   config.WorkerPoolSize(),
		Threshold: config.ClassifyThreshold(),
	})

	// Handlers
	classifyHandler := handlers.NewClassifyHandler(classifier)
	factHandler := handlers.NewFactHandler(factSvc)
	learningHandler := handlers.NewLearningHandler(learningSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Learning:  learningSvc,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(factStore))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Post("/classify", classifyHandler.Classify)

		r.Route("/facts", func(r chi.Router) {
			r.Get("/", factHandler.List)
			r.Post("/", factHandler.Create)
			r.Get("/relevant", factHandler.Relevant)
			r.Get("/{id}", factHandler.GetByID)
			r.Delete("/{id}", factHandler.Delete)
		})

		r.Route("/learning", func(r chi.Router) {
			r.Post("/failures", learningHandler.ReportFailure)
			r.Get("/suggestions", learningHandler.ListSuggestions)
			r.Post("/suggestions/{id}/validate", learningHandler.ValidateSuggestion)
		})
	})

	return app
}

func healthHandler(facts domain.FactStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"facts":  facts.Len(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.FactStore       = (*store.FactFile)(nil)
	_ domain.SuggestionStore = (*store.SuggestionFile)(nil)
	_ domain.Oracle          = (*oracle.OpenAIClient)(nil)
	_ domain.Oracle          = (*oracle.AnthropicClient)(nil)
	_ domain.Oracle          = (*oracle.MockClient)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
)
