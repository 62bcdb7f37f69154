package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const adminPage = "<div>Admin Page for Translator Tool</div>"

// Document is a knowledge entry offered to the host
type Document struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Content     string `json:"content,omitempty"`
	LastUpdated string `json:"lastUpdated"`
}

// Placeholder corpus until a knowledge backend exists
var documents = []Document{
	{ID: "1", Name: "Document 1", Content: "Content of document 1", LastUpdated: "2021-01-01"},
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).Seconds(),
		"tools":     len(s.dispatcher.ListTools()),
		"timestamp": time.Now().UnixMilli(),
	})
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Meta)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	list := make([]Document, 0, len(documents))
	for _, doc := range documents {
		doc.Content = ""
		list = append(list, doc)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": list})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := strings.TrimSpace(chi.URLParam(r, "documentId"))
	if documentID == "" {
		http.Error(w, "Document ID is required", http.StatusBadRequest)
		return
	}

	doc := documents[0]
	doc.ID = documentID
	writeJSON(w, http.StatusOK, map[string]interface{}{"document": doc})
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(adminPage))
}
