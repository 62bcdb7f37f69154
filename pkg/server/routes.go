package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/harun/oakplugin/internal/observability"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	maskLoggedHeaders(s.cfg.Bridge.TokenHeader, "x-api-key")

	// RequestLogger chains chi's RequestID and Recoverer
	r.Use(httplog.RequestLogger(s.logger))
	r.Use(traceRequest)
	r.Use(s.rejectWhileStopping)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", observability.MetricsHandler())

	r.Get("/tools", s.handleListTools)
	r.Post("/tools", s.handleExecuteTool)

	r.Get("/meta", s.handleMeta)

	r.Get("/knowledge/{agentId}/documents", s.handleListDocuments)
	r.Get("/knowledge/{agentId}/documents/", s.handleGetDocument)
	r.Get("/knowledge/{agentId}/documents/{documentId}", s.handleGetDocument)

	r.With(s.requireToken).Get("/admin/{agentId}", s.handleAdmin)

	r.Get("/remote/components/{name}", s.handleResolveComponent)
	if s.cfg.BundleDir != "" {
		r.Handle("/remote/*", http.StripPrefix("/remote/", http.FileServer(http.Dir(s.cfg.BundleDir))))
	}

	return r
}
