package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"google.golang.org/genai"

	"github.com/localsoul/localsoul/internal/catalog"
	"github.com/localsoul/localsoul/internal/voice"
)

// DefaultLiveModel is the native-audio model used for voice sessions.
const DefaultLiveModel = "gemini-2.5-flash-native-audio-preview-09-2025"

// LiveConfig selects the persona and focus of one voice session.
type LiveConfig struct {
	Persona catalog.Persona
	Mode    catalog.Mode
	// Model overrides DefaultLiveModel when set.
	Model string
}

// LiveDialer returns a dial function that opens a live audio session speaking
// in the persona's recommended voice.
func (c *Client) LiveDialer(cfg LiveConfig) voice.DialFunc {
	return func(ctx context.Context) (voice.Transport, error) {
		model := cfg.Model
		if model == "" {
			model = DefaultLiveModel
		}
		session, err := c.ai.Live.Connect(ctx, model, &genai.LiveConnectConfig{
			ResponseModalities: []genai.Modality{genai.ModalityAudio},
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: voiceInstruction(cfg.Persona, cfg.Mode)}},
			},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
						VoiceName: string(cfg.Persona.Voice),
					},
				},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: live connect: %v", ErrRequestFailed, err)
		}

		t := &liveTransport{
			session: session,
			events:  make(chan voice.Event, 32),
			done:    make(chan struct{}),
		}
		// The SDK returns only after the session is established.
		t.events <- voice.Opened{}
		go t.readLoop()
		return t, nil
	}
}

// liveTransport adapts one genai live session to the voice engine's
// transport contract. A single reader goroutine owns the events channel.
type liveTransport struct {
	session *genai.Session
	events  chan voice.Event

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
	done      chan struct{}
}

func (t *liveTransport) Events() <-chan voice.Event { return t.events }

func (t *liveTransport) SendAudio(pcm []byte, mimeType string) error {
	if t.closed.Load() {
		return errors.New("gemini: live session closed")
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	err := t.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Audio: &genai.Blob{Data: pcm, MIMEType: mimeType},
	})
	if err != nil {
		return fmt.Errorf("send realtime audio: %w", err)
	}
	return nil
}

func (t *liveTransport) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		close(t.done)
		_ = t.session.Close()
	})
	return nil
}

func (t *liveTransport) readLoop() {
	defer close(t.events)
	for {
		msg, err := t.session.Receive()
		if err != nil {
			if t.closed.Load() || errors.Is(err, io.EOF) {
				t.emit(voice.SessionClosed{})
			} else {
				t.emit(voice.SessionError{Err: fmt.Errorf("%w: live receive: %v", ErrRequestFailed, err)})
			}
			return
		}
		sc := msg.ServerContent
		if sc == nil {
			continue
		}
		if sc.Interrupted {
			if !t.emit(voice.Interrupted{}) {
				return
			}
		}
		if sc.ModelTurn != nil {
			for _, part := range sc.ModelTurn.Parts {
				if part.InlineData == nil || len(part.InlineData.Data) == 0 {
					continue
				}
				seg := voice.AudioSegment{
					PCM:        part.InlineData.Data,
					SampleRate: voice.PlaybackSampleRate,
				}
				if !t.emit(seg) {
					return
				}
			}
		}
	}
}

// emit delivers in order without dropping; it gives up only once the
// transport is closed.
func (t *liveTransport) emit(ev voice.Event) bool {
	select {
	case t.events <- ev:
		return true
	case <-t.done:
		return false
	}
}
