package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/localsoul/localsoul/internal/catalog"
	"github.com/localsoul/localsoul/internal/gemini"
	"github.com/localsoul/localsoul/internal/store"
)

type stubAssistant struct {
	reply gemini.Reply
	err   error

	imageData []byte
	imageMime string
	imageErr  error

	gotPersona catalog.Persona
	gotMode    catalog.Mode
	gotPrompt  string
	gotHistory []store.Turn
}

func (a *stubAssistant) Converse(_ context.Context, persona catalog.Persona, mode catalog.Mode, prompt string, history []store.Turn) (gemini.Reply, error) {
	a.gotPersona = persona
	a.gotMode = mode
	a.gotPrompt = prompt
	a.gotHistory = history
	return a.reply, a.err
}

func (a *stubAssistant) CityImage(context.Context, catalog.Persona) ([]byte, string, error) {
	return a.imageData, a.imageMime, a.imageErr
}

func newTestServer(assistant *stubAssistant) (*Server, *store.Memory) {
	st := store.NewMemory()
	srv := New(Config{Store: st, Assistant: assistant})
	return srv, st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCities(t *testing.T) {
	srv, _ := newTestServer(&stubAssistant{})
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/v1/cities", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []catalog.Persona
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 35 {
		t.Fatalf("got %d cities, want 35", len(got))
	}
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	srv, _ := newTestServer(&stubAssistant{})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/v1/settings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got settingsBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.City != "chennai" || got.Mode != "FOOD" || got.Theme != "dark" {
		t.Fatalf("defaults = %+v", got)
	}

	rec = doJSON(t, h, http.MethodPut, "/v1/settings", settingsBody{City: "mumbai", Mode: "slang", Theme: "light"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.City != "mumbai" || got.Mode != "SLANG" || got.Theme != "light" {
		t.Fatalf("updated = %+v", got)
	}

	// Settings persist across reads.
	rec = doJSON(t, h, http.MethodGet, "/v1/settings", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.City != "mumbai" {
		t.Fatalf("city did not persist: %+v", got)
	}
}

func TestSettingsValidation(t *testing.T) {
	srv, _ := newTestServer(&stubAssistant{})
	h := srv.Handler()

	// Bad values in a request body are client errors, not lookups.
	if rec := doJSON(t, h, http.MethodPut, "/v1/settings", settingsBody{City: "gotham"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown city status = %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodPut, "/v1/settings", settingsBody{Mode: "weather"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown mode status = %d", rec.Code)
	}
}

func TestConversePersistsBothTurns(t *testing.T) {
	assistant := &stubAssistant{reply: gemini.Reply{
		Text: "Head to Ratna Cafe for sambar idli.",
		Sources: []store.Citation{
			{Title: "Ratna Cafe", URI: "https://maps.example/ratna", Kind: store.CitationMaps},
		},
	}}
	srv, st := newTestServer(assistant)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/v1/converse", converseRequest{
		City: "chennai", Mode: "food", Message: "best idli near Mylapore?",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var turn store.Turn
	if err := json.Unmarshal(rec.Body.Bytes(), &turn); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if turn.Role != store.RoleAssistant || turn.Content != assistant.reply.Text {
		t.Fatalf("reply turn = %+v", turn)
	}
	if len(turn.Sources) != 1 || turn.Sources[0].Kind != store.CitationMaps {
		t.Fatalf("sources = %+v", turn.Sources)
	}

	if assistant.gotPrompt != "best idli near Mylapore?" || assistant.gotMode != catalog.ModeFood {
		t.Fatalf("assistant saw prompt=%q mode=%q", assistant.gotPrompt, assistant.gotMode)
	}
	if len(assistant.gotHistory) != 0 {
		t.Fatalf("fresh conversation should pass empty history, got %d", len(assistant.gotHistory))
	}

	turns, err := st.History(context.Background(), "chennai", catalog.ModeFood)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 2 || turns[0].Role != store.RoleUser || turns[1].Role != store.RoleAssistant {
		t.Fatalf("persisted turns = %+v", turns)
	}
}

func TestConversePassesPriorHistory(t *testing.T) {
	assistant := &stubAssistant{reply: gemini.Reply{Text: "ok"}}
	srv, st := newTestServer(assistant)
	h := srv.Handler()

	seed := store.NewTurn(store.RoleUser, "earlier question", "chennai", catalog.ModeFood, nil)
	if err := st.PutTurn(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	doJSON(t, h, http.MethodPost, "/v1/converse", converseRequest{
		City: "chennai", Mode: "food", Message: "follow up",
	})
	if len(assistant.gotHistory) != 1 || assistant.gotHistory[0].Content != "earlier question" {
		t.Fatalf("history passed = %+v", assistant.gotHistory)
	}
}

func TestConverseFallbackOnModelFailure(t *testing.T) {
	assistant := &stubAssistant{err: fmt.Errorf("%w: upstream 500", gemini.ErrRequestFailed)}
	srv, st := newTestServer(assistant)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/v1/converse", converseRequest{
		City: "delhi", Mode: "slang", Message: "what does jugaad mean?",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var turn store.Turn
	if err := json.Unmarshal(rec.Body.Bytes(), &turn); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if turn.Content != gemini.FallbackReply {
		t.Fatalf("content = %q, want fallback reply", turn.Content)
	}

	turns, err := st.History(context.Background(), "delhi", catalog.ModeSlang)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 2 || turns[1].Content != gemini.FallbackReply {
		t.Fatalf("persisted turns = %+v", turns)
	}
}

func TestConverseValidation(t *testing.T) {
	srv, _ := newTestServer(&stubAssistant{})
	h := srv.Handler()

	if rec := doJSON(t, h, http.MethodPost, "/v1/converse", converseRequest{City: "chennai", Mode: "food", Message: "   "}); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty message status = %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodPost, "/v1/converse", converseRequest{City: "gotham", Mode: "food", Message: "hi"}); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown city status = %d", rec.Code)
	}
}

func TestHistoryAndClear(t *testing.T) {
	srv, st := newTestServer(&stubAssistant{})
	h := srv.Handler()

	seed := store.NewTurn(store.RoleUser, "hello", "pune", catalog.ModeCulture, nil)
	if err := st.PutTurn(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, h, http.MethodGet, "/v1/history?city=pune&mode=culture", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var turns []store.Turn
	if err := json.Unmarshal(rec.Body.Bytes(), &turns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "hello" {
		t.Fatalf("history = %+v", turns)
	}

	if rec := doJSON(t, h, http.MethodDelete, "/v1/history?city=pune&mode=culture", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/history?city=pune&mode=culture", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &turns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("history after clear = %+v", turns)
	}
}

func TestHistoryFallsBackToSavedSettings(t *testing.T) {
	srv, st := newTestServer(&stubAssistant{})
	h := srv.Handler()

	ctx := context.Background()
	if err := st.PutSetting(ctx, store.SettingCity, "jaipur"); err != nil {
		t.Fatalf("PutSetting: %v", err)
	}
	if err := st.PutSetting(ctx, store.SettingMode, "CULTURE"); err != nil {
		t.Fatalf("PutSetting: %v", err)
	}
	seed := store.NewTurn(store.RoleUser, "scoped", "jaipur", catalog.ModeCulture, nil)
	if err := st.PutTurn(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, h, http.MethodGet, "/v1/history", nil)
	var turns []store.Turn
	if err := json.Unmarshal(rec.Body.Bytes(), &turns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "scoped" {
		t.Fatalf("history = %+v", turns)
	}
}

func TestCityImage(t *testing.T) {
	assistant := &stubAssistant{imageData: []byte("pngbytes"), imageMime: "image/png"}
	srv, _ := newTestServer(assistant)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/v1/cities/chennai/image", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.String() != "pngbytes" {
		t.Fatalf("body = %q", rec.Body.String())
	}

	if rec := doJSON(t, h, http.MethodGet, "/v1/cities/gotham/image", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown city status = %d", rec.Code)
	}
}

func TestCityImageAbsent(t *testing.T) {
	srv, _ := newTestServer(&stubAssistant{})
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/v1/cities/chennai/image", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when the model returns no image", rec.Code)
	}
}

func TestCityImageUpstreamFailure(t *testing.T) {
	assistant := &stubAssistant{imageErr: fmt.Errorf("%w: no image", gemini.ErrRequestFailed)}
	srv, _ := newTestServer(assistant)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/v1/cities/chennai/image", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVoiceUnconfigured(t *testing.T) {
	srv, _ := newTestServer(&stubAssistant{})
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/v1/voice", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}
