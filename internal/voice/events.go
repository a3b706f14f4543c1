// Package voice implements the live voice session engine: a full-duplex
// audio conversation that streams microphone frames to a remote model while
// scheduling gapless playback of the model's streamed audio, including
// server-initiated barge-in handling.
//
// The engine is written against small interfaces (Transport, CaptureSource,
// Player) so the remote session, the microphone, and the speaker can each be
// swapped or faked independently.
package voice

import "context"

// Event is one inbound occurrence on a live transport.
type Event interface{ isEvent() }

// Opened signals that the remote session is ready for realtime input.
type Opened struct{}

// AudioSegment carries one base64-decoded PCM segment from the remote model.
type AudioSegment struct {
	PCM        []byte // 16-bit little-endian mono samples
	SampleRate int
}

// Interrupted signals server-detected user barge-in: all scheduled playback
// must stop immediately.
type Interrupted struct{}

// SessionError is a fatal transport error. The session does not auto-retry.
type SessionError struct{ Err error }

// SessionClosed signals that the remote side closed the session.
type SessionClosed struct{}

func (Opened) isEvent()       {}
func (AudioSegment) isEvent() {}
func (Interrupted) isEvent()  {}
func (SessionError) isEvent() {}
func (SessionClosed) isEvent() {}

// Transport is a live bidirectional session with the remote model.
type Transport interface {
	// Events yields inbound events. The channel closes when the
	// transport shuts down.
	Events() <-chan Event
	// SendAudio transmits one realtime-input chunk. It must not block
	// long enough to stall capture of the next frame.
	SendAudio(pcm []byte, mimeType string) error
	// Close tears the transport down. Safe to call more than once.
	Close() error
}

// DialFunc opens a Transport.
type DialFunc func(ctx context.Context) (Transport, error)

// CaptureSource produces fixed-size frames of floating-point microphone
// samples at the capture sample rate.
type CaptureSource interface {
	// Frames yields captured frames in order. The channel closes when the
	// source is closed or the device fails.
	Frames() <-chan []float32
	Close() error
}

// Player schedules decoded audio against a monotonic playback clock.
type Player interface {
	// Now returns the playback clock position in seconds.
	Now() float64
	// Play schedules samples to start at startAt (clock seconds) and
	// invokes onEnded once the source finishes naturally. onEnded must
	// not be called synchronously from Play, and must not be called
	// after Stop.
	Play(samples []float32, startAt float64, onEnded func()) (Source, error)
	Close() error
}

// Source is one scheduled playback buffer. Stop halts it immediately;
// stopping an already-finished source is a no-op, never a panic.
type Source interface {
	Stop()
}
