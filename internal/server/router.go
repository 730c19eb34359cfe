package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/codecritic/codecritic/internal/config"
	"github.com/codecritic/codecritic/internal/review"
	"github.com/codecritic/codecritic/internal/server/handler"
	"github.com/codecritic/codecritic/internal/storage"
)

// NewRouter creates and configures the HTTP router with middleware and the
// review API routes.
func NewRouter(cfg *config.Config, svc *review.Service, store storage.Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// The inference call alone may take up to the configured LLM timeout.
	r.Use(middleware.Timeout(cfg.LLMTimeout + 30*time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	reviewHandler := handler.NewReviewHandler(svc, store, logger)
	r.Post("/review", reviewHandler.Review)
	r.Get("/history", reviewHandler.History)
	r.Get("/history/{id}", reviewHandler.HistoryByID)
	r.Post("/insert", reviewHandler.Insert)
	r.Post("/save_review", reviewHandler.SaveReview)

	return r
}
