// Package httpapi exposes the assistant over HTTP: the city catalog,
// settings, chat history, grounded conversation, city imagery, and a
// websocket bridge into live voice sessions.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/localsoul/localsoul/internal/catalog"
	"github.com/localsoul/localsoul/internal/gemini"
	"github.com/localsoul/localsoul/internal/store"
	"github.com/localsoul/localsoul/internal/voice"
)

// Assistant is the model-facing surface the handlers call. *gemini.Client
// satisfies it.
type Assistant interface {
	Converse(ctx context.Context, persona catalog.Persona, mode catalog.Mode, prompt string, history []store.Turn) (gemini.Reply, error)
	CityImage(ctx context.Context, persona catalog.Persona) ([]byte, string, error)
}

// LiveDialer builds the dial function for one voice session.
type LiveDialer func(persona catalog.Persona, mode catalog.Mode) voice.DialFunc

// Config wires a Server.
type Config struct {
	Store     store.Store
	Assistant Assistant
	// LiveDialer may be nil, in which case the voice endpoint reports the
	// feature as unavailable.
	LiveDialer LiveDialer
	Logger     *slog.Logger
}

// Server holds the handler dependencies.
type Server struct {
	store      store.Store
	assistant  Assistant
	liveDialer LiveDialer
	log        *slog.Logger
}

// New builds a Server.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		store:      cfg.Store,
		assistant:  cfg.Assistant,
		liveDialer: cfg.LiveDialer,
		log:        log,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/cities", s.handleCities)
	mux.HandleFunc("GET /v1/cities/{id}/image", s.handleCityImage)
	mux.HandleFunc("GET /v1/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /v1/settings", s.handlePutSettings)
	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("DELETE /v1/history", s.handleClearHistory)
	mux.HandleFunc("POST /v1/converse", s.handleConverse)
	mux.HandleFunc("GET /v1/voice", s.handleVoice)
	return mux
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorBody{Error: msg})
}

// fail maps the error taxonomy onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrStorage):
		s.log.Error("storage failure", "error", err)
		s.writeError(w, http.StatusInternalServerError, "storage failure")
	case errors.Is(err, gemini.ErrRequestFailed):
		s.log.Error("model request failed", "error", err)
		s.writeError(w, http.StatusBadGateway, "model request failed")
	case errors.Is(err, gemini.ErrConfiguration):
		s.log.Error("configuration error", "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "assistant not configured")
	default:
		s.log.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
