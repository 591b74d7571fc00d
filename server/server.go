// Package server exposes the assistant over HTTP: a streaming chat endpoint
// plus memory management routes for the desktop and web frontends.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aithena-labs/aithena"
	"github.com/aithena-labs/aithena/errors"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type Server struct {
	assistant *aithena.Assistant
	logger    *slog.Logger
}

func NewServer(assistant *aithena.Assistant, logger *slog.Logger) *Server {
	return &Server{
		assistant: assistant,
		logger:    logger,
	}
}

// Handler builds the full HTTP handler: routes wrapped in CORS and panic
// recovery.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/chat", s.handleChat).Methods("POST")
	router.HandleFunc("/api/memories", s.handleAddMemory).Methods("POST")
	router.HandleFunc("/api/memories", s.handleClearMemories).Methods("DELETE")
	router.HandleFunc("/api/memories/count", s.handleCountMemories).Methods("GET")
	router.HandleFunc("/api/memories/recall", s.handleRecall).Methods("POST")
	router.HandleFunc("/api/documents", s.handleUploadDocument).Methods("POST")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.PrintRecoveryStack(true),
		handlers.RecoveryLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError)),
	)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		router.ServeHTTP(w, r.WithContext(ctx))
	})

	return cors(recovery(handler))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.assistant.Brain().Count(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"state":    s.assistant.Brain().State().String(),
		"memories": count,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrEmptyMemory), errors.Is(err, errors.ErrInvalidConfig):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrEnginePaused), errors.Is(err, errors.ErrEngineNotReady):
		status = http.StatusConflict
	}
	s.logger.Error("request failed", "error", err, "status", status)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
