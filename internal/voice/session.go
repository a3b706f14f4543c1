package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrCaptureUnavailable marks microphone permission or device failures. The
// session attempt is fatal; the user may start a new session.
var ErrCaptureUnavailable = errors.New("voice: capture unavailable")

// Phase is the session lifecycle state.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseListening
	PhaseSpeaking
	PhaseClosed
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseListening:
		return "listening"
	case PhaseSpeaking:
		return "speaking"
	case PhaseClosed:
		return "closed"
	case PhaseErrored:
		return "errored"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Terminal reports whether the phase is an end state.
func (p Phase) Terminal() bool { return p == PhaseClosed || p == PhaseErrored }

// Notification is a state-change signal for UIs.
type Notification struct {
	Phase    Phase
	Speaking bool
	Err      error
}

// Config wires one session's collaborators.
type Config struct {
	// Dial opens the remote live transport. Required.
	Dial DialFunc
	// OpenCapture acquires the microphone. Required. Failures surface as
	// ErrCaptureUnavailable.
	OpenCapture func(ctx context.Context) (CaptureSource, error)
	// OpenPlayer acquires the playback pipeline. Required.
	OpenPlayer func() (Player, error)
	// Bootstrap is the realtime chunk sent right after the session opens
	// to trigger the model's greeting turn. Defaults to 100 bytes of
	// silence. It must be indistinguishable from silence.
	Bootstrap []byte
	Logger    *slog.Logger
}

// Session is one live voice conversation. A Session is single-use: once
// closed or errored it cannot be restarted, and at most one session should be
// active at a time.
type Session struct {
	log       *slog.Logger
	bootstrap []byte

	capture   CaptureSource
	player    Player
	transport Transport

	mu        sync.Mutex
	phase     Phase
	err       error
	nextStart float64
	active    map[*scheduled]struct{}

	notes        chan Notification
	done         chan struct{}
	release      sync.Once
	captureStart sync.Once
}

type scheduled struct {
	src Source
}

// Start acquires the devices, dials the remote session, and launches the
// capture and receive pipelines. On failure every resource acquired so far is
// released and no Session is returned.
func Start(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Dial == nil {
		return nil, errors.New("voice: Dial is required")
	}
	if cfg.OpenCapture == nil {
		return nil, errors.New("voice: OpenCapture is required")
	}
	if cfg.OpenPlayer == nil {
		return nil, errors.New("voice: OpenPlayer is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	bootstrap := cfg.Bootstrap
	if bootstrap == nil {
		bootstrap = Silence(100)
	}

	player, err := cfg.OpenPlayer()
	if err != nil {
		return nil, fmt.Errorf("open playback pipeline: %w", err)
	}

	capture, err := cfg.OpenCapture(ctx)
	if err != nil {
		_ = player.Close()
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	transport, err := cfg.Dial(ctx)
	if err != nil {
		_ = capture.Close()
		_ = player.Close()
		return nil, err
	}

	s := &Session{
		log:       log,
		bootstrap: bootstrap,
		capture:   capture,
		player:    player,
		transport: transport,
		phase:     PhaseConnecting,
		active:    make(map[*scheduled]struct{}),
		notes:     make(chan Notification, 16),
		done:      make(chan struct{}),
	}

	go s.eventLoop()
	return s, nil
}

// Phase returns the current lifecycle state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Speaking reports whether remote audio is currently scheduled or playing.
func (s *Session) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) > 0
}

// Err returns the terminal session error, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed once the session has fully torn down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Notifications yields state-change signals. The channel is never closed;
// consumers should also watch Done. Slow consumers may miss intermediate
// notifications.
func (s *Session) Notifications() <-chan Notification { return s.notes }

// Close tears the session down: capture, transport, playback. It is
// idempotent and safe to call from any goroutine at any phase.
func (s *Session) Close() error {
	s.shutdown(PhaseClosed, nil)
	return nil
}

func (s *Session) fail(err error) {
	s.log.Error("voice session failed", "error", err)
	s.shutdown(PhaseErrored, err)
}

func (s *Session) shutdown(terminal Phase, err error) {
	s.release.Do(func() {
		s.mu.Lock()
		if err != nil && s.err == nil {
			s.err = err
		}
		s.phase = terminal
		for entry := range s.active {
			if entry.src != nil {
				entry.src.Stop()
			}
		}
		s.active = make(map[*scheduled]struct{})
		s.nextStart = 0
		s.mu.Unlock()

		if cerr := s.capture.Close(); cerr != nil {
			s.log.Warn("close capture", "error", cerr)
		}
		if terr := s.transport.Close(); terr != nil {
			s.log.Warn("close transport", "error", terr)
		}
		if perr := s.player.Close(); perr != nil {
			s.log.Warn("close player", "error", perr)
		}
		close(s.done)
		s.notify()
	})
}

// captureLoop forwards microphone frames to the transport. A single
// goroutine does the convert-and-send so relative frame order is preserved
// on the wire and transmission never blocks capture of the next frame.
func (s *Session) captureLoop() {
	for {
		select {
		case <-s.done:
			return
		case frame, ok := <-s.capture.Frames():
			if !ok {
				select {
				case <-s.done:
				default:
					s.fail(fmt.Errorf("%w: capture stream ended", ErrCaptureUnavailable))
				}
				return
			}
			if len(frame) == 0 {
				continue
			}
			pcm := Float32ToPCM16(frame)
			if err := s.transport.SendAudio(pcm, CaptureMIMEType); err != nil {
				select {
				case <-s.done:
				default:
					s.fail(fmt.Errorf("send capture frame: %w", err))
				}
				return
			}
		}
	}
}

func (s *Session) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.transport.Events():
			if !ok {
				s.shutdown(PhaseClosed, nil)
				return
			}
			switch e := ev.(type) {
			case Opened:
				if len(s.bootstrap) > 0 {
					if err := s.transport.SendAudio(s.bootstrap, CaptureMIMEType); err != nil {
						s.fail(fmt.Errorf("send bootstrap chunk: %w", err))
						return
					}
				}
				// Mic frames captured during dialing stay queued until
				// the bootstrap chunk is on the wire, so it is always
				// the first realtime input the model sees.
				s.captureStart.Do(func() { go s.captureLoop() })
				s.setPhase(PhaseListening)
			case AudioSegment:
				s.scheduleSegment(e)
			case Interrupted:
				s.interrupt()
			case SessionError:
				s.fail(e.Err)
				return
			case SessionClosed:
				s.shutdown(PhaseClosed, nil)
				return
			}
		}
	}
}

// scheduleSegment decodes one inbound segment and schedules it back-to-back
// after whatever is already queued: the next-start timestamp is advanced to
// the playback clock if it has fallen behind, the segment starts exactly at
// next-start, and next-start moves forward by the segment's duration.
func (s *Session) scheduleSegment(seg AudioSegment) {
	samples := PCM16ToFloat32(seg.PCM)
	if len(samples) == 0 {
		return
	}
	rate := seg.SampleRate
	if rate <= 0 {
		rate = PlaybackSampleRate
	}
	dur := float64(len(samples)) / float64(rate)

	s.mu.Lock()
	if s.phase != PhaseListening && s.phase != PhaseSpeaking {
		s.mu.Unlock()
		return
	}
	if now := s.player.Now(); s.nextStart < now {
		s.nextStart = now
	}
	start := s.nextStart
	entry := &scheduled{}
	src, err := s.player.Play(samples, start, func() { s.sourceEnded(entry) })
	if err != nil {
		s.mu.Unlock()
		s.fail(fmt.Errorf("schedule playback: %w", err))
		return
	}
	entry.src = src
	s.active[entry] = struct{}{}
	s.nextStart = start + dur
	changed := s.phase != PhaseSpeaking
	s.phase = PhaseSpeaking
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Session) sourceEnded(entry *scheduled) {
	s.mu.Lock()
	if _, ok := s.active[entry]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.active, entry)
	changed := len(s.active) == 0 && s.phase == PhaseSpeaking
	if changed {
		s.phase = PhaseListening
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// interrupt handles server-detected barge-in: every scheduled source stops
// immediately, the active set empties, and next-start resets to zero so the
// next segment schedules relative to "now" instead of a stale future time.
func (s *Session) interrupt() {
	s.mu.Lock()
	for entry := range s.active {
		if entry.src != nil {
			entry.src.Stop()
		}
	}
	s.active = make(map[*scheduled]struct{})
	s.nextStart = 0
	changed := s.phase == PhaseSpeaking
	if changed {
		s.phase = PhaseListening
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	if s.phase.Terminal() || s.phase == p {
		s.mu.Unlock()
		return
	}
	s.phase = p
	s.mu.Unlock()
	s.notify()
}

func (s *Session) notify() {
	s.mu.Lock()
	n := Notification{
		Phase:    s.phase,
		Speaking: len(s.active) > 0,
		Err:      s.err,
	}
	s.mu.Unlock()
	select {
	case s.notes <- n:
	default:
		// Slow consumers only lose intermediate states.
	}
}

// nextStartAt exposes the scheduler timestamp for tests.
func (s *Session) nextStartAt() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextStart
}

// activeCount exposes the active-source set size for tests.
func (s *Session) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
