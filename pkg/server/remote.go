package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/harun/oakplugin/pkg/remote"
)

func (s *Server) handleResolveComponent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if s.resolver == nil {
		writeError(w, http.StatusNotFound, remote.ErrComponentNotFound.Error())
		return
	}

	component, err := s.resolver.Resolve(name)
	if err != nil {
		if errors.Is(err, remote.ErrComponentNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("name", name).Msg("Failed to resolve component")
		writeError(w, http.StatusInternalServerError, "Failed to resolve component")
		return
	}

	writeJSON(w, http.StatusOK, component)
}
