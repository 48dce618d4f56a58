package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Routes configures all routes and middleware.
func (a *App) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(a.Logger))
	r.Use(observe(a.Metrics))

	r.Get("/", a.handleDashboard)
	r.Get("/stress", a.handleStress)
	r.Get("/charts/confidence/{file}", a.handleConfidenceChart)
	r.Get("/charts/stress/{file}", a.handleStressChart)
	r.Get("/download/{file}", a.handleDownload)
	r.Get("/healthz", a.handleHealth)
	if a.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.Metrics.Handler())
	}
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		a.renderError(w, "Page not found.", http.StatusNotFound)
	})
	return r
}
