package httpapi

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/localsoul/localsoul/internal/voice"
)

// Voice websocket protocol. The client streams binary frames of raw
// little-endian float32 microphone samples at 16 kHz. The server streams
// JSON text messages:
//
//	{"type":"state","phase":"listening","speaking":false}
//	{"type":"audio","id":3,"pcm":"<base64 s16le>","start_at":1.28,"sample_rate":24000}
//	{"type":"stop","id":3}
//	{"type":"error","message":"..."}
//	{"type":"closed"}
//
// An "audio" message schedules a segment at start_at on the session clock;
// "stop" cancels a segment that has not finished (barge-in).
type voiceServerMessage struct {
	Type       string  `json:"type"`
	Phase      string  `json:"phase,omitempty"`
	Speaking   bool    `json:"speaking,omitempty"`
	ID         int     `json:"id,omitempty"`
	PCM        string  `json:"pcm,omitempty"`
	StartAt    float64 `json:"start_at,omitempty"`
	SampleRate int     `json:"sample_rate,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// wsWriteTimeout bounds every outbound write; a stalled client errors out
// instead of blocking the session's event loop.
const wsWriteTimeout = 10 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if s.liveDialer == nil {
		s.writeError(w, http.StatusServiceUnavailable, "voice sessions not configured")
		return
	}
	persona, mode, err := s.scope(r, r.URL.Query().Get("city"), r.URL.Query().Get("mode"))
	if err != nil {
		s.failScope(w, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("voice upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	bridge := newVoiceBridge(conn)
	sess, err := voice.Start(r.Context(), voice.Config{
		Dial:        s.liveDialer(persona, mode),
		OpenCapture: func(context.Context) (voice.CaptureSource, error) { return bridge.capture, nil },
		OpenPlayer:  func() (voice.Player, error) { return bridge.player, nil },
		Logger:      s.log,
	})
	if err != nil {
		s.log.Error("voice session start failed", "city", persona.ID, "error", err)
		_ = bridge.write(voiceServerMessage{Type: "error", Message: err.Error()})
		return
	}
	defer sess.Close()

	go s.forwardNotifications(sess, bridge)
	go func() {
		// Client frames feed capture until the socket drops.
		defer sess.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.BinaryMessage || len(data) == 0 {
				continue
			}
			if !bridge.capture.push(voice.DecodeFloat32LE(data)) {
				return
			}
		}
	}()

	<-sess.Done()
	if err := sess.Err(); err != nil {
		_ = bridge.write(voiceServerMessage{Type: "error", Message: err.Error()})
	}
	_ = bridge.write(voiceServerMessage{Type: "closed"})
	bridge.shutdown()
}

func (s *Server) forwardNotifications(sess *voice.Session, bridge *voiceBridge) {
	for {
		select {
		case <-sess.Done():
			return
		case n := <-sess.Notifications():
			if n.Phase.Terminal() {
				return
			}
			_ = bridge.write(voiceServerMessage{
				Type:     "state",
				Phase:    n.Phase.String(),
				Speaking: n.Speaking,
			})
		}
	}
}

// voiceBridge adapts one websocket to the engine's capture and playback
// contracts.
type voiceBridge struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool

	capture *wsCapture
	player  *wsPlayer
}

func newVoiceBridge(conn *websocket.Conn) *voiceBridge {
	b := &voiceBridge{conn: conn}
	b.capture = &wsCapture{
		frames: make(chan []float32, 64),
		done:   make(chan struct{}),
	}
	b.player = &wsPlayer{bridge: b, epoch: time.Now()}
	return b
}

func (b *voiceBridge) write(msg voiceServerMessage) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if b.closed {
		return errors.New("httpapi: voice socket closed")
	}
	_ = b.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return b.conn.WriteJSON(msg)
}

func (b *voiceBridge) shutdown() {
	b.writeMu.Lock()
	b.closed = true
	b.writeMu.Unlock()
	b.capture.Close()
}

// wsCapture yields the client's microphone frames to the engine.
type wsCapture struct {
	frames    chan []float32
	done      chan struct{}
	closeOnce sync.Once
}

// push hands a frame to the engine, dropping it under backpressure. It
// returns false once the capture side is closed.
func (c *wsCapture) push(frame []float32) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.frames <- frame:
	default:
	}
	return true
}

func (c *wsCapture) Frames() <-chan []float32 { return c.frames }

func (c *wsCapture) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// wsPlayer mirrors the scheduling decisions to the client. The client is
// trusted to realize playback; end-of-source is simulated with a timer at
// the segment's scheduled end.
type wsPlayer struct {
	bridge *voiceBridge
	epoch  time.Time

	mu     sync.Mutex
	closed bool
	seq    int
}

func (p *wsPlayer) Now() float64 {
	return time.Since(p.epoch).Seconds()
}

func (p *wsPlayer) Play(samples []float32, startAt float64, onEnded func()) (voice.Source, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New("httpapi: voice player closed")
	}
	p.seq++
	id := p.seq
	p.mu.Unlock()

	dur := float64(len(samples)) / float64(voice.PlaybackSampleRate)
	msg := voiceServerMessage{
		Type:       "audio",
		ID:         id,
		PCM:        base64.StdEncoding.EncodeToString(voice.Float32ToPCM16(samples)),
		StartAt:    startAt,
		SampleRate: voice.PlaybackSampleRate,
	}
	if err := p.bridge.write(msg); err != nil {
		return nil, err
	}

	src := &wsSource{bridge: p.bridge, id: id}
	fireIn := time.Duration((startAt + dur - p.Now()) * float64(time.Second))
	if fireIn < 0 {
		fireIn = 0
	}
	src.timer = time.AfterFunc(fireIn, func() { src.finish(onEnded) })
	return src, nil
}

func (p *wsPlayer) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

type wsSource struct {
	bridge *voiceBridge
	id     int

	mu      sync.Mutex
	stopped bool
	timer   *time.Timer
}

func (src *wsSource) finish(onEnded func()) {
	src.mu.Lock()
	if src.stopped {
		src.mu.Unlock()
		return
	}
	src.stopped = true
	src.mu.Unlock()

	if onEnded != nil {
		onEnded()
	}
}

func (src *wsSource) Stop() {
	src.mu.Lock()
	if src.stopped {
		src.mu.Unlock()
		return
	}
	src.stopped = true
	if src.timer != nil {
		src.timer.Stop()
	}
	src.mu.Unlock()

	_ = src.bridge.write(voiceServerMessage{Type: "stop", ID: src.id})
}
