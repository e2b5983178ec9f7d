package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/banki/banki-srs/internal/api"
	apiMiddleware "github.com/banki/banki-srs/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	if app.config.Server.RateLimit > 0 {
		r.Use(httprate.LimitByIP(app.config.Server.RateLimit, time.Minute))
	}

	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(app.config.Server.RequestTimeout))
		r.Use(apiMiddleware.Identity)

		r.Get("/reviews/due", reviewHandler.GetDueCards)
		r.Post("/reviews", reviewHandler.SubmitReview)
		r.Post("/reviews/progress", reviewHandler.InitializeProgress)
		r.Get("/reviews/history", reviewHandler.GetReviewHistory)

		r.Post("/decks/{id}/progress", reviewHandler.InitializeDeckProgress)
		r.Get("/decks/{id}/stats", reviewHandler.GetDeckStats)

		r.Get("/stats", reviewHandler.GetUserStats)
	})

	r.Get("/health", api.HealthHandler(app.ping))

	return r
}
