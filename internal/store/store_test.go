package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/localsoul/localsoul/internal/catalog"
)

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return NewMemory() })
}

// TestPostgresStore runs the same suite against a real database when
// LOCALSOUL_TEST_DATABASE_URL is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("LOCALSOUL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LOCALSOUL_TEST_DATABASE_URL not set")
	}
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := OpenPostgres(context.Background(), dsn)
		if err != nil {
			t.Fatalf("OpenPostgres: %v", err)
		}
		t.Cleanup(func() {
			ctx := context.Background()
			for _, p := range catalog.All() {
				for _, m := range catalog.Modes() {
					_ = s.ClearHistory(ctx, p.ID, m)
				}
			}
			_ = s.Close()
		})
		return s
	})
}

func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	t.Run("HistoryRoundTrip", func(t *testing.T) { testHistoryRoundTrip(t, open(t)) })
	t.Run("HistoryFiltersByPair", func(t *testing.T) { testHistoryFilters(t, open(t)) })
	t.Run("ClearHistoryScoped", func(t *testing.T) { testClearScoped(t, open(t)) })
	t.Run("PutTurnOverwritesByID", func(t *testing.T) { testPutOverwrites(t, open(t)) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, open(t)) })
}

func turnAt(role Role, content string, city catalog.City, mode catalog.Mode, at time.Time) Turn {
	tn := NewTurn(role, content, city, mode, nil)
	tn.Timestamp = at
	return tn
}

func testHistoryRoundTrip(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := turnAt(RoleUser, "where do I get good misal?", "pune", catalog.ModeFood, base)
	second := turnAt(RoleAssistant, "Bedekar, before 11am.", "pune", catalog.ModeFood, base.Add(time.Second))
	second.Sources = []Citation{{Title: "Bedekar Misal", URI: "https://maps.example/bedekar", Kind: CitationMaps}}

	// Inserted newest-first to prove ordering comes from timestamps.
	for _, tn := range []Turn{second, first} {
		if err := s.PutTurn(ctx, tn); err != nil {
			t.Fatalf("PutTurn: %v", err)
		}
	}

	got, err := s.History(ctx, "pune", catalog.ModeFood)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("history len = %d, want 2", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("history out of order: %q then %q", got[0].ID, got[1].ID)
	}
	if got[0].Role != RoleUser || got[0].Content != first.Content {
		t.Fatalf("first turn mismatch: %+v", got[0])
	}
	if len(got[1].Sources) != 1 || got[1].Sources[0].Kind != CitationMaps {
		t.Fatalf("sources not preserved: %+v", got[1].Sources)
	}
	if !got[0].Timestamp.Equal(first.Timestamp) {
		t.Fatalf("timestamp = %v, want %v", got[0].Timestamp, first.Timestamp)
	}
}

func testHistoryFilters(t *testing.T, s Store) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	turns := []Turn{
		turnAt(RoleUser, "a", "mumbai", catalog.ModeFood, now),
		turnAt(RoleUser, "b", "mumbai", catalog.ModeSlang, now),
		turnAt(RoleUser, "c", "delhi", catalog.ModeFood, now),
	}
	for _, tn := range turns {
		if err := s.PutTurn(ctx, tn); err != nil {
			t.Fatalf("PutTurn: %v", err)
		}
	}

	got, err := s.History(ctx, "mumbai", catalog.ModeFood)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 1 || got[0].Content != "a" {
		t.Fatalf("filtered history = %+v, want only turn a", got)
	}

	empty, err := s.History(ctx, "jaipur", catalog.ModeCulture)
	if err != nil {
		t.Fatalf("History(empty): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(empty))
	}
}

func testClearScoped(t *testing.T, s Store) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	keep := turnAt(RoleUser, "keep", "kochi", catalog.ModeSlang, now)
	drop := turnAt(RoleUser, "drop", "kochi", catalog.ModeFood, now)
	for _, tn := range []Turn{keep, drop} {
		if err := s.PutTurn(ctx, tn); err != nil {
			t.Fatalf("PutTurn: %v", err)
		}
	}

	if err := s.ClearHistory(ctx, "kochi", catalog.ModeFood); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	// Clearing what is already empty succeeds.
	if err := s.ClearHistory(ctx, "kochi", catalog.ModeFood); err != nil {
		t.Fatalf("ClearHistory(empty): %v", err)
	}

	left, err := s.History(ctx, "kochi", catalog.ModeSlang)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(left) != 1 || left[0].Content != "keep" {
		t.Fatalf("sibling mode was cleared: %+v", left)
	}
	gone, err := s.History(ctx, "kochi", catalog.ModeFood)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(gone) != 0 {
		t.Fatalf("cleared history still has %d turns", len(gone))
	}
}

func testPutOverwrites(t *testing.T, s Store) {
	ctx := context.Background()
	tn := NewTurn(RoleAssistant, "v1", "surat", catalog.ModeCulture, nil)
	if err := s.PutTurn(ctx, tn); err != nil {
		t.Fatalf("PutTurn: %v", err)
	}
	tn.Content = "v2"
	if err := s.PutTurn(ctx, tn); err != nil {
		t.Fatalf("PutTurn(update): %v", err)
	}

	got, err := s.History(ctx, "surat", catalog.ModeCulture)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 1 || got[0].Content != "v2" {
		t.Fatalf("overwrite failed: %+v", got)
	}
}

func testSettings(t *testing.T, s Store) {
	ctx := context.Background()
	// Unique key so reruns against a shared database stay hermetic.
	key := "test:" + uuid.NewString()

	if _, ok, err := s.Setting(ctx, key); err != nil || ok {
		t.Fatalf("absent setting = ok %v, err %v; want missing", ok, err)
	}

	if err := s.PutSetting(ctx, key, "chennai"); err != nil {
		t.Fatalf("PutSetting: %v", err)
	}
	if err := s.PutSetting(ctx, key, "indore"); err != nil {
		t.Fatalf("PutSetting(overwrite): %v", err)
	}

	v, ok, err := s.Setting(ctx, key)
	if err != nil || !ok || v != "indore" {
		t.Fatalf("Setting = %q, %v, %v; want indore", v, ok, err)
	}
}

func TestErrStorageMatching(t *testing.T) {
	wrapped := errors.Join(ErrStorage, errors.New("connection refused"))
	if !errors.Is(wrapped, ErrStorage) {
		t.Fatal("wrapped storage error should match ErrStorage")
	}
}
