package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/acesso-api/internal/application/access"
	"github.com/acesso-api/internal/application/notify"
	"github.com/acesso-api/internal/application/report"
	"github.com/acesso-api/internal/config"
	"github.com/acesso-api/internal/transport/http/handler"
	appmiddleware "github.com/acesso-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	accessSvc := access.NewService(deps.Directory, deps.CodeStore, deps.Gateway, deps.JWTProvider)
	reportSvc := report.NewService(deps.ReportRepo, deps.ObjectStore)
	notifySvc := notify.NewService(deps.Directory, deps.Gateway)

	healthH := handler.NewHealthHandler()
	accessH := handler.NewAccessHandler(accessSvc)
	reportH := handler.NewReportHandler(reportSvc)
	notifH := handler.NewNotificationHandler(notifySvc)

	authMw := appmiddleware.Auth(deps.JWTProvider)
	adminMw := appmiddleware.APIKey(cfg.AdminAPIKey)

	// 5 requests/second, burst of 10, per client IP. Applied to the public
	// gate endpoints that hit the directory or mint codes.
	gateRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth).
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.Post("/test", healthH.Test)
		r.With(gateRL.Limit).Post("/access/check", accessH.Check)
		r.With(gateRL.Limit).Post("/access/code", accessH.RequestCode)
		r.With(gateRL.Limit).Post("/access/redeem", accessH.Redeem)

		// Session-holder routes.
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/session", accessH.Session)
			r.Get("/reports", reportH.List)
			r.Get("/reports/types", reportH.Types)
			r.Get("/reports/latest", reportH.Latest)
			r.Get("/reports/{id}/download", reportH.Download)
		})

		// Admin routes, gated by the static API key.
		r.Group(func(r chi.Router) {
			r.Use(adminMw)

			r.Post("/reports", reportH.Publish)
			r.Put("/reports/{id}", reportH.Update)
			r.Delete("/reports/{id}", reportH.Delete)
			r.Post("/notifications/report", notifH.BroadcastReport)
		})
	})

	return r
}
