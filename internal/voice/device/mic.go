// Package device provides the native microphone and speaker implementations
// of the voice engine's capture and playback contracts.
package device

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"github.com/localsoul/localsoul/internal/voice"
)

const capturePeriodMS = 20

// Mic captures mono float frames from the default input device at the
// engine's capture rate.
type Mic struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	frames chan []float32

	closed    atomic.Bool
	closeOnce sync.Once
}

var _ voice.CaptureSource = (*Mic)(nil)

// OpenMic initializes the audio backend and starts the capture device.
func OpenMic(_ context.Context) (*Mic, error) {
	ctxConfig := malgo.ContextConfig{}
	ctxConfig.ThreadPriority = malgo.ThreadPriorityRealtime

	malgoCtx, err := malgo.InitContext(nil, ctxConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	m := &Mic{
		ctx:    malgoCtx,
		frames: make(chan []float32, 64),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = voice.CaptureSampleRate
	deviceConfig.PeriodSizeInMilliseconds = capturePeriodMS

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			if m.closed.Load() {
				return
			}
			frame := voice.DecodeFloat32LE(input)
			if len(frame) == 0 {
				return
			}
			// Never stall the audio thread; a full consumer loses the
			// frame instead.
			select {
			case m.frames <- frame:
			default:
			}
		},
	}

	dev, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, fmt.Errorf("init capture device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, fmt.Errorf("start capture device: %w", err)
	}
	m.device = dev
	return m, nil
}

func (m *Mic) Frames() <-chan []float32 { return m.frames }

func (m *Mic) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		_ = m.device.Stop()
		m.device.Uninit()
		_ = m.ctx.Uninit()
		m.ctx.Free()
		close(m.frames)
	})
	return nil
}
