package store

import (
	"context"
	"sort"
	"sync"

	"github.com/localsoul/localsoul/internal/catalog"
)

// Memory is a mutex-guarded in-process Store. History queries full-scan and
// filter, which is fine at chat-history scale.
type Memory struct {
	mu       sync.RWMutex
	turns    map[string]Turn
	settings map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		turns:    make(map[string]Turn),
		settings: make(map[string]string),
	}
}

func (m *Memory) PutTurn(ctx context.Context, turn Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns[turn.ID] = cloneTurn(turn)
	return nil
}

func (m *Memory) History(ctx context.Context, city catalog.City, mode catalog.Mode) ([]Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Turn, 0, len(m.turns))
	for _, t := range m.turns {
		if t.City == city && t.Mode == mode {
			out = append(out, cloneTurn(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) ClearHistory(ctx context.Context, city catalog.City, mode catalog.Mode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.turns {
		if t.City == city && t.Mode == mode {
			delete(m.turns, id)
		}
	}
	return nil
}

func (m *Memory) Setting(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.settings[key]
	return v, ok, nil
}

func (m *Memory) PutSetting(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }

func cloneTurn(t Turn) Turn {
	if len(t.Sources) > 0 {
		t.Sources = append([]Citation(nil), t.Sources...)
	}
	return t
}
