package device

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/localsoul/localsoul/internal/voice"
)

// oto allows a single context per process, so it is created once and shared
// across sessions.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func playbackContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   voice.PlaybackSampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   100 * time.Millisecond,
		})
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

// Speaker schedules buffers against a wall-clock epoch started at open time.
type Speaker struct {
	ctx   *oto.Context
	epoch time.Time

	mu     sync.Mutex
	closed bool
}

var _ voice.Player = (*Speaker)(nil)

// OpenSpeaker readies the playback pipeline.
func OpenSpeaker() (*Speaker, error) {
	ctx, err := playbackContext()
	if err != nil {
		return nil, err
	}
	return &Speaker{ctx: ctx, epoch: time.Now()}, nil
}

// Now is the playback clock position in seconds.
func (s *Speaker) Now() float64 {
	return time.Since(s.epoch).Seconds()
}

// Play schedules samples to begin at startAt on the playback clock. onEnded
// fires from a timer goroutine once the buffer's duration elapses, never
// after Stop.
func (s *Speaker) Play(samples []float32, startAt float64, onEnded func()) (voice.Source, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New("device: speaker closed")
	}
	ctx := s.ctx
	s.mu.Unlock()

	pcm := voice.Float32ToPCM16(samples)
	dur := time.Duration(float64(time.Second) * float64(len(samples)) / float64(voice.PlaybackSampleRate))
	delay := time.Duration((startAt - s.Now()) * float64(time.Second))
	if delay < 0 {
		delay = 0
	}

	src := &speakerSource{onEnded: onEnded}
	src.startTimer = time.AfterFunc(delay, func() {
		src.mu.Lock()
		if src.stopped {
			src.mu.Unlock()
			return
		}
		p := ctx.NewPlayer(bytes.NewReader(pcm))
		src.player = p
		p.Play()
		src.endTimer = time.AfterFunc(dur, src.finish)
		src.mu.Unlock()
	})
	return src, nil
}

func (s *Speaker) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

type speakerSource struct {
	mu         sync.Mutex
	stopped    bool
	startTimer *time.Timer
	endTimer   *time.Timer
	player     *oto.Player
	onEnded    func()
}

func (src *speakerSource) finish() {
	src.mu.Lock()
	if src.stopped {
		src.mu.Unlock()
		return
	}
	src.stopped = true
	p := src.player
	src.mu.Unlock()

	if p != nil {
		_ = p.Close()
	}
	if src.onEnded != nil {
		src.onEnded()
	}
}

// Stop halts the source immediately. Stopping a finished source is a no-op.
func (src *speakerSource) Stop() {
	src.mu.Lock()
	if src.stopped {
		src.mu.Unlock()
		return
	}
	src.stopped = true
	if src.startTimer != nil {
		src.startTimer.Stop()
	}
	if src.endTimer != nil {
		src.endTimer.Stop()
	}
	p := src.player
	src.player = nil
	src.mu.Unlock()

	if p != nil {
		p.Pause()
		_ = p.Close()
	}
}
