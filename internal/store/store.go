// Package store persists conversation turns and user settings. Two backends
// are provided: an in-memory store used by default (and by tests), and a
// Postgres store for durable installs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/localsoul/localsoul/internal/catalog"
)

// ErrStorage marks persistence failures. Callers match it with errors.Is.
var ErrStorage = errors.New("store: storage failure")

// Role tags who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// CitationKind distinguishes map-place citations from generic web citations.
type CitationKind string

const (
	CitationWeb  CitationKind = "web"
	CitationMaps CitationKind = "maps"
)

// Citation is a grounding source attached to an assistant turn.
type Citation struct {
	Title string       `json:"title"`
	URI   string       `json:"uri"`
	Kind  CitationKind `json:"kind"`
}

// Turn is one message in a (city, mode) conversation history. Turns are
// immutable once persisted.
type Turn struct {
	ID        string       `json:"id"`
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	City      catalog.City `json:"city"`
	Mode      catalog.Mode `json:"mode"`
	Sources   []Citation   `json:"sources,omitempty"`
}

// NewTurn builds a turn with a fresh id and the current time.
func NewTurn(role Role, content string, city catalog.City, mode catalog.Mode, sources []Citation) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
		City:      city,
		Mode:      mode,
		Sources:   sources,
	}
}

// Well-known settings keys.
const (
	SettingCity  = "city"
	SettingMode  = "mode"
	SettingTheme = "theme"
)

// Store is the keyed persistence contract. History is always filtered by the
// (city, mode) pair and ordered ascending by timestamp.
type Store interface {
	// PutTurn inserts or overwrites a turn by id.
	PutTurn(ctx context.Context, turn Turn) error
	// History returns all turns for the pair, oldest first. An empty
	// result is not an error.
	History(ctx context.Context, city catalog.City, mode catalog.Mode) ([]Turn, error)
	// ClearHistory deletes all turns for the pair. Clearing an empty set
	// succeeds.
	ClearHistory(ctx context.Context, city catalog.City, mode catalog.Mode) error

	// Setting reads a persisted setting; ok is false when absent.
	Setting(ctx context.Context, key string) (value string, ok bool, err error)
	// PutSetting writes a setting.
	PutSetting(ctx context.Context, key, value string) error

	Close() error
}
