package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"tubesearch/internal/db"
	"tubesearch/internal/handlers"
	"tubesearch/internal/metrics"
	"tubesearch/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, runner handlers.RunStarter, search handlers.PageSearcher) {
	auth := middleware.NewAuthMiddleware(s.Cfg.RunToken)

	jobsHandler := handlers.NewJobsHandler(runner)
	previewHandler := handlers.NewPreviewHandler(search, s.Cfg.PreviewKeyword)
	keywordsHandler := handlers.NewKeywordsHandler(database)
	resultsHandler := handlers.NewResultsHandler(database)
	healthHandler := handlers.NewHealthHandler(database)

	// Cron trigger. One search pass per request; the scheduler lives
	// outside this service.
	s.App.Post("/jobs/search", auth.RequireToken, jobsHandler.RunSearch)

	// Ad-hoc single search, no persistence.
	s.App.Post("/search/preview", auth.RequireToken, previewHandler.Preview)

	// Operator API
	s.App.Get("/api/keywords", auth.RequireToken, keywordsHandler.List)
	s.App.Get("/api/keywords/:id", auth.RequireToken, keywordsHandler.Get)
	s.App.Post("/api/keywords", auth.RequireToken, keywordsHandler.Create)
	s.App.Delete("/api/keywords/:id", auth.RequireToken, keywordsHandler.Delete)
	s.App.Get("/api/results", auth.RequireToken, resultsHandler.List)

	// Unauthenticated probes
	s.App.Get("/healthz", healthHandler.Healthz)
	s.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}
