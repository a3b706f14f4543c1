// Package gemini wraps the Google GenAI SDK behind the three operations the
// assistant needs: grounded text conversation, city imagery, and live voice
// transports.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/localsoul/localsoul/internal/catalog"
	"github.com/localsoul/localsoul/internal/store"
)

var (
	// ErrConfiguration means the client cannot be built at all, typically
	// a missing API key.
	ErrConfiguration = errors.New("gemini: configuration error")
	// ErrRequestFailed wraps model invocation failures. Callers may show
	// FallbackReply instead of the error text.
	ErrRequestFailed = errors.New("gemini: request failed")
)

// FallbackReply is the in-character assistant message shown when a
// conversational request fails.
const FallbackReply = "I'm having trouble connecting to the street right now. Try again in a bit?"

const (
	// Maps grounding is only supported on the 2.5 series.
	mapsModel = "gemini-2.5-flash"
	textModel = "gemini-3-flash-preview"

	imageModel = "gemini-2.5-flash-image"

	// Only the most recent turns travel with each request.
	historyWindow = 10

	locateTimeout = 5 * time.Second
)

// Location is a coarse device position used to bias maps grounding.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Locator resolves the device position. Implementations must respect the
// context deadline; returning false skips location biasing entirely.
type Locator interface {
	Locate(ctx context.Context) (Location, bool)
}

// FixedLocation is a Locator pinned to one coordinate.
type FixedLocation Location

func (f FixedLocation) Locate(context.Context) (Location, bool) { return Location(f), true }

// Client talks to the Gemini API.
type Client struct {
	ai      *genai.Client
	locator Locator
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLocator sets the device position source for maps grounding.
func WithLocator(l Locator) Option { return func(c *Client) { c.locator = l } }

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option { return func(c *Client) { c.log = log } }

// New builds a Client. An empty API key is rejected before any network use.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrConfiguration)
	}
	ai, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	c := &Client{ai: ai}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

// Reply is one assistant response with its grounding citations.
type Reply struct {
	Text    string
	Sources []store.Citation
}

// Converse sends the user prompt with the trailing history window and returns
// the grounded reply. Food and traffic questions go to the maps-capable model
// with both search and maps tools; the other modes use search grounding only.
func (c *Client) Converse(ctx context.Context, persona catalog.Persona, mode catalog.Mode, prompt string, history []store.Turn) (Reply, error) {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.RoleUser
		if turn.Role == store.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, genai.Role(role)))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	useMaps := mode == catalog.ModeFood || mode == catalog.ModeTraffic
	model := textModel
	tools := []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	var toolConfig *genai.ToolConfig

	if useMaps {
		model = mapsModel
		tools = []*genai.Tool{
			{GoogleMaps: &genai.GoogleMaps{}},
			{GoogleSearch: &genai.GoogleSearch{}},
		}
		if loc, ok := c.locate(ctx); ok {
			toolConfig = &genai.ToolConfig{
				RetrievalConfig: &genai.RetrievalConfig{
					LatLng: &genai.LatLng{
						Latitude:  genai.Ptr(loc.Latitude),
						Longitude: genai.Ptr(loc.Longitude),
					},
				},
			}
		}
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction(persona, mode)}},
		},
		Temperature: genai.Ptr[float32](0.8),
		Tools:       tools,
		ToolConfig:  toolConfig,
	}

	resp, err := c.ai.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: converse: %v", ErrRequestFailed, err)
	}

	return Reply{Text: resp.Text(), Sources: parseCitations(resp)}, nil
}

// locate asks the configured Locator for a position, bounded so a stuck
// provider never stalls the conversation.
func (c *Client) locate(ctx context.Context) (Location, bool) {
	if c.locator == nil {
		return Location{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, locateTimeout)
	defer cancel()
	return c.locator.Locate(ctx)
}

func parseCitations(resp *genai.GenerateContentResponse) []store.Citation {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}
	var out []store.Citation
	for _, chunk := range meta.GroundingChunks {
		switch {
		case chunk.Web != nil:
			out = append(out, store.Citation{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
				Kind:  store.CitationWeb,
			})
		case chunk.Maps != nil:
			title := chunk.Maps.Title
			if title == "" {
				title = "View on Maps"
			}
			out = append(out, store.Citation{
				Title: title,
				URI:   chunk.Maps.URI,
				Kind:  store.CitationMaps,
			})
		}
	}
	return out
}

// CityImage renders a cinematic banner for the persona's city and returns the
// encoded image bytes with their MIME type. A response carrying no image is
// (nil, "", nil); only transport failures are errors.
func (c *Client) CityImage(ctx context.Context, persona catalog.Persona) ([]byte, string, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: imagePrompt(persona)}}},
	}
	cfg := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "16:9"},
	}

	resp, err := c.ai.Models.GenerateContent(ctx, imageModel, contents, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("%w: city image: %v", ErrRequestFailed, err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return part.InlineData.Data, mime, nil
			}
		}
	}
	return nil, "", nil
}
