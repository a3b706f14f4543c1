// Package catalog holds the static city persona tables and the closed
// city/mode enums the rest of the application keys on. The data is loaded
// once at init and never mutated.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// City identifies one supported city.
type City string

// Mode is the intelligence focus the assistant is tuned for.
type Mode string

const (
	ModeFood    Mode = "FOOD"
	ModeSlang   Mode = "SLANG"
	ModeTraffic Mode = "TRAFFIC"
	ModeCulture Mode = "CULTURE"
)

// Modes lists the focus modes in display order.
func Modes() []Mode {
	return []Mode{ModeFood, ModeSlang, ModeTraffic, ModeCulture}
}

// ParseMode validates a mode identifier (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeFood:
		return ModeFood, nil
	case ModeSlang:
		return ModeSlang, nil
	case ModeTraffic:
		return ModeTraffic, nil
	case ModeCulture:
		return ModeCulture, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Voice is one of the fixed prebuilt synthetic voice identities.
type Voice string

const (
	VoiceKore   Voice = "Kore"
	VoicePuck   Voice = "Puck"
	VoiceCharon Voice = "Charon"
	VoiceFenrir Voice = "Fenrir"
	VoiceZephyr Voice = "Zephyr"
)

// Persona is the immutable conversational profile for one city.
type Persona struct {
	ID             City   `json:"id"`
	Name           string `json:"name"`
	NativeGreeting string `json:"nativeGreeting"`
	Context        string `json:"context"`
	Voice          Voice  `json:"voice"`
}

// ErrNotFound is returned for city ids outside the supported set.
var ErrNotFound = errors.New("catalog: city not found")

// Default is the city selected before any setting has been saved.
func Default() City { return "chennai" }

// Get looks up the persona for a city id.
func Get(id City) (Persona, error) {
	p, ok := personaIndex[id]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// ParseCity validates a city identifier.
func ParseCity(s string) (City, error) {
	id := City(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := personaIndex[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, s)
	}
	return id, nil
}

// All returns every persona in stable display order.
func All() []Persona {
	out := make([]Persona, len(personas))
	copy(out, personas)
	return out
}

var personaIndex = func() map[City]Persona {
	idx := make(map[City]Persona, len(personas))
	for _, p := range personas {
		idx[p.ID] = p
	}
	return idx
}()
