package server

import (
	"encoding/json"
	"net/http"

	"github.com/harun/oakplugin/pkg/dispatch"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dispatch.Result{Error: message})
}
