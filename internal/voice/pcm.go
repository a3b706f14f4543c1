package voice

import (
	"encoding/binary"
	"math"
)

// Fixed pipeline sample rates: capture upstream at 16 kHz, model audio
// downstream at 24 kHz, both 16-bit mono.
const (
	CaptureSampleRate  = 16000
	PlaybackSampleRate = 24000

	CaptureMIMEType = "audio/pcm;rate=16000"
)

// Float32ToPCM16 converts normalized float samples to 16-bit little-endian
// PCM bytes, clamping out-of-range values.
func Float32ToPCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int32(s * 32768)
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}

// PCM16ToFloat32 converts 16-bit little-endian PCM bytes to normalized float
// samples. A trailing odd byte is ignored.
func PCM16ToFloat32(pcm []byte) []float32 {
	n := len(pcm) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		out[i] = float32(v) / 32768.0
	}
	return out
}

// DecodeFloat32LE reinterprets little-endian IEEE 754 bytes as float
// samples, the layout capture devices and browser audio buffers share.
// Trailing partial values are ignored.
func DecodeFloat32LE(b []byte) []float32 {
	n := len(b) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

// Silence returns n bytes of PCM silence. The session bootstrap sends a small
// silence chunk to trigger the model's opening turn.
func Silence(n int) []byte {
	return make([]byte, n)
}

// SegmentDuration is the playback duration in seconds of a 16-bit mono PCM
// segment at the given rate.
func SegmentDuration(pcmLen, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(pcmLen/2) / float64(sampleRate)
}
