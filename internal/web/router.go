package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the dashboard routes and middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", h.healthz)
	r.Get("/", h.dashboard)
	r.Post("/log", h.logForm)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.apiDashboard)
		r.Post("/log", h.apiLog)
	})
	return r
}
