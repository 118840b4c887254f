package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// canonical PCM form shared by every timeline buffer: signed 16-bit
// little-endian, mono, 24 kHz (the native rate of the speech services)
const (
	SampleRate    = 24000
	Channels      = 1
	BitsPerSample = 16
)

// holds decoded PCM samples
type Buffer struct {
	samples  []int16
	rate     int
	channels int
}

func NewBuffer(samples []int16, rate, channels int) *Buffer {
	return &Buffer{
		samples:  samples,
		rate:     rate,
		channels: channels,
	}
}

// returns a buffer of zeroed samples spanning ms milliseconds,
// quantized to the sample grid
func Silence(ms float64) *Buffer {
	frames := int(math.Round(ms / 1000.0 * float64(SampleRate)))
	if frames < 0 {
		frames = 0
	}
	return &Buffer{
		samples:  make([]int16, frames*Channels),
		rate:     SampleRate,
		channels: Channels,
	}
}

// duration in milliseconds
func (b *Buffer) Duration() float64 {
	return float64(b.Frames()) / float64(b.rate) * 1000.0
}

func (b *Buffer) Frames() int {
	return len(b.samples) / b.channels
}

func (b *Buffer) Rate() int {
	return b.rate
}

// PCM returns the samples as little-endian bytes
func (b *Buffer) PCM() []byte {
	out := make([]byte, len(b.samples)*2)
	for i, s := range b.samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// BufferFromPCM interprets little-endian s16le bytes as samples.
// A trailing odd byte is dropped.
func BufferFromPCM(data []byte, rate, channels int) *Buffer {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return &Buffer{
		samples:  samples,
		rate:     rate,
		channels: channels,
	}
}

// Concat joins buffers in order into a single buffer
func Concat(bufs []*Buffer) (*Buffer, error) {
	if len(bufs) == 0 {
		return nil, fmt.Errorf("no buffers to concatenate")
	}

	total := 0
	for i, b := range bufs {
		if b.rate != bufs[0].rate || b.channels != bufs[0].channels {
			return nil, fmt.Errorf(
				"buffer %d format mismatch: %dHz/%dch vs %dHz/%dch",
				i,
				b.rate,
				b.channels,
				bufs[0].rate,
				bufs[0].channels,
			)
		}
		total += len(b.samples)
	}

	joined := make([]int16, 0, total)
	for _, b := range bufs {
		joined = append(joined, b.samples...)
	}

	return &Buffer{
		samples:  joined,
		rate:     bufs[0].rate,
		channels: bufs[0].channels,
	}, nil
}
