package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/localsoul/localsoul/internal/catalog"
	"github.com/localsoul/localsoul/internal/gemini"
	"github.com/localsoul/localsoul/internal/store"
)

const defaultTheme = "dark"

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, catalog.All())
}

func (s *Server) handleCityImage(w http.ResponseWriter, r *http.Request) {
	persona, err := catalog.Get(catalog.City(r.PathValue("id")))
	if err != nil {
		s.fail(w, err)
		return
	}
	img, mime, err := s.assistant.CityImage(r.Context(), persona)
	if err != nil {
		s.fail(w, err)
		return
	}
	if len(img) == 0 {
		s.writeError(w, http.StatusNotFound, "no image available")
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

type settingsBody struct {
	City  string `json:"city"`
	Mode  string `json:"mode"`
	Theme string `json:"theme"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	out, err := s.currentSettings(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) currentSettings(r *http.Request) (settingsBody, error) {
	ctx := r.Context()
	out := settingsBody{
		City:  string(catalog.Default()),
		Mode:  string(catalog.ModeFood),
		Theme: defaultTheme,
	}
	if v, ok, err := s.store.Setting(ctx, store.SettingCity); err != nil {
		return settingsBody{}, err
	} else if ok {
		out.City = v
	}
	if v, ok, err := s.store.Setting(ctx, store.SettingMode); err != nil {
		return settingsBody{}, err
	} else if ok {
		out.Mode = v
	}
	if v, ok, err := s.store.Setting(ctx, store.SettingTheme); err != nil {
		return settingsBody{}, err
	} else if ok {
		out.Theme = v
	}
	return out, nil
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body settingsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ctx := r.Context()
	if body.City != "" {
		city, err := catalog.ParseCity(body.City)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.store.PutSetting(ctx, store.SettingCity, string(city)); err != nil {
			s.fail(w, err)
			return
		}
	}
	if body.Mode != "" {
		mode, err := catalog.ParseMode(body.Mode)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.store.PutSetting(ctx, store.SettingMode, string(mode)); err != nil {
			s.fail(w, err)
			return
		}
	}
	if body.Theme != "" {
		if err := s.store.PutSetting(ctx, store.SettingTheme, body.Theme); err != nil {
			s.fail(w, err)
			return
		}
	}
	out, err := s.currentSettings(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

// scope resolves the (city, mode) pair a request targets: explicit values
// first, then persisted settings, then the catalog defaults.
func (s *Server) scope(r *http.Request, cityRaw, modeRaw string) (catalog.Persona, catalog.Mode, error) {
	saved, err := s.currentSettings(r)
	if err != nil {
		return catalog.Persona{}, "", err
	}
	if cityRaw == "" {
		cityRaw = saved.City
	}
	if modeRaw == "" {
		modeRaw = saved.Mode
	}
	city, err := catalog.ParseCity(cityRaw)
	if err != nil {
		return catalog.Persona{}, "", err
	}
	persona, err := catalog.Get(city)
	if err != nil {
		return catalog.Persona{}, "", err
	}
	mode, err := catalog.ParseMode(modeRaw)
	if err != nil {
		return catalog.Persona{}, "", errBadMode{err}
	}
	return persona, mode, nil
}

type errBadMode struct{ err error }

func (e errBadMode) Error() string { return e.err.Error() }

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	persona, mode, err := s.scope(r, r.URL.Query().Get("city"), r.URL.Query().Get("mode"))
	if err != nil {
		s.failScope(w, err)
		return
	}
	turns, err := s.store.History(r.Context(), persona.ID, mode)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, turns)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	persona, mode, err := s.scope(r, r.URL.Query().Get("city"), r.URL.Query().Get("mode"))
	if err != nil {
		s.failScope(w, err)
		return
	}
	if err := s.store.ClearHistory(r.Context(), persona.ID, mode); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) failScope(w http.ResponseWriter, err error) {
	var bad errBadMode
	if errors.As(err, &bad) {
		s.writeError(w, http.StatusBadRequest, bad.Error())
		return
	}
	s.fail(w, err)
}

type converseRequest struct {
	City    string `json:"city"`
	Mode    string `json:"mode"`
	Message string `json:"message"`
}

// handleConverse persists the user turn, asks the model with the prior
// history as context, and persists the reply. A model failure still yields a
// stored in-character fallback turn so the conversation never dead-ends.
func (s *Server) handleConverse(w http.ResponseWriter, r *http.Request) {
	var req converseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	persona, mode, err := s.scope(r, req.City, req.Mode)
	if err != nil {
		s.failScope(w, err)
		return
	}

	ctx := r.Context()
	history, err := s.store.History(ctx, persona.ID, mode)
	if err != nil {
		s.fail(w, err)
		return
	}

	userTurn := store.NewTurn(store.RoleUser, req.Message, persona.ID, mode, nil)
	if err := s.store.PutTurn(ctx, userTurn); err != nil {
		s.fail(w, err)
		return
	}

	reply, err := s.assistant.Converse(ctx, persona, mode, req.Message, history)
	if err != nil {
		if !errors.Is(err, gemini.ErrRequestFailed) {
			s.fail(w, err)
			return
		}
		s.log.Warn("converse fell back", "city", persona.ID, "mode", mode, "error", err)
		reply = gemini.Reply{Text: gemini.FallbackReply}
	}

	assistantTurn := store.NewTurn(store.RoleAssistant, reply.Text, persona.ID, mode, reply.Sources)
	if err := s.store.PutTurn(ctx, assistantTurn); err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, assistantTurn)
}
