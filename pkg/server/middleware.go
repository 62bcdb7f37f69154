package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/harun/oakplugin/internal/observability"
	"github.com/harun/oakplugin/internal/tracing"
	"github.com/harun/oakplugin/pkg/bridge"
	"github.com/harun/oakplugin/pkg/dispatch"
)

// traceRequest reuses the caller's X-Trace-Id or starts a new one, and echoes it back
func traceRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.NewRequestContext(r.Context(), r.Header.Get(tracing.TraceHeader))
		traceID := tracing.GetTraceID(ctx)

		w.Header().Set(tracing.TraceHeader, traceID)
		httplog.LogEntrySetField(ctx, "trace_id", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) rejectWhileStopping(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.stopping.Load() {
			w.Header().Set("Connection", "close")
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireToken rejects requests without the capability token header
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := bridge.FromHeaders(r.Header, s.cfg.Bridge); err != nil {
			agentID := chi.URLParam(r, "agentId")
			s.logger.Warn().
				Str("path", r.URL.Path).
				Str("agent_id", agentID).
				Msg("Request rejected: missing capability token")
			observability.RecordSecurityAudit(r.Context(), "page:"+r.URL.Path, agentID, "denied", nil)

			writeJSON(w, http.StatusUnauthorized, dispatch.Result{Error: dispatch.MessageMissingToken})
			return
		}
		next.ServeHTTP(w, r)
	})
}
