package audio

import (
	"encoding/binary"
	"testing"
)

func TestSilenceDuration(t *testing.T) {
	tests := []struct {
		ms         float64
		wantFrames int
	}{
		{1000, 24000},
		{500, 12000},
		{0, 0},
		{-250, 0},
		{1.5, 36},
		{0.01, 0}, // below half a sample period rounds away
	}

	for _, tt := range tests {
		b := Silence(tt.ms)
		if b.Frames() != tt.wantFrames {
			t.Errorf(
				"Silence(%v): got %d frames, want %d",
				tt.ms,
				b.Frames(),
				tt.wantFrames,
			)
		}
	}
}

func TestSilenceRoundTripsWholeMilliseconds(t *testing.T) {
	b := Silence(1500)
	if b.Duration() != 1500.0 {
		t.Errorf("Duration: got %v, want 1500", b.Duration())
	}
}

func TestBufferDurationFractional(t *testing.T) {
	// 36 frames at 24kHz is exactly 1.5ms
	b := NewBuffer(make([]int16, 36), SampleRate, 1)
	if b.Duration() != 1.5 {
		t.Errorf("Duration: got %v, want 1.5", b.Duration())
	}
}

func TestPCMRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 12345}
	b := NewBuffer(samples, SampleRate, 1)

	pcm := b.PCM()
	if len(pcm) != len(samples)*2 {
		t.Fatalf("PCM length: got %d, want %d", len(pcm), len(samples)*2)
	}

	back := BufferFromPCM(pcm, SampleRate, 1)
	if back.Frames() != len(samples) {
		t.Fatalf("frames: got %d, want %d", back.Frames(), len(samples))
	}
	for i, s := range back.samples {
		if s != samples[i] {
			t.Errorf("sample %d: got %d, want %d", i, s, samples[i])
		}
	}
}

func TestConcatPreservesOrderAndLength(t *testing.T) {
	a := NewBuffer([]int16{1, 2}, SampleRate, 1)
	b := NewBuffer([]int16{3}, SampleRate, 1)
	c := NewBuffer([]int16{4, 5, 6}, SampleRate, 1)

	joined, err := Concat([]*Buffer{a, b, c})
	if err != nil {
		t.Fatalf("Concat failed: %v", err)
	}

	want := []int16{1, 2, 3, 4, 5, 6}
	if joined.Frames() != len(want) {
		t.Fatalf("frames: got %d, want %d", joined.Frames(), len(want))
	}
	for i, s := range joined.samples {
		if s != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, s, want[i])
		}
	}
}

func TestConcatDurationIsSumOfParts(t *testing.T) {
	parts := []*Buffer{Silence(100), Silence(250.5), Silence(0), Silence(1000)}

	var sum float64
	for _, p := range parts {
		sum += p.Duration()
	}

	joined, err := Concat(parts)
	if err != nil {
		t.Fatalf("Concat failed: %v", err)
	}
	if diff := joined.Duration() - sum; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("duration: got %v, want %v", joined.Duration(), sum)
	}
}

func TestConcatRejectsMismatchedFormats(t *testing.T) {
	a := NewBuffer([]int16{1}, 24000, 1)
	b := NewBuffer([]int16{2}, 44100, 1)

	if _, err := Concat([]*Buffer{a, b}); err == nil {
		t.Error("expected error for mismatched sample rates")
	}
}

func TestConcatRejectsEmptyInput(t *testing.T) {
	if _, err := Concat(nil); err == nil {
		t.Error("expected error for empty buffer list")
	}
}

func TestWAVFromPCMHeader(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	wav := WAVFromPCM(pcm, 24000, 1, 16)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("length: got %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Error("missing fmt/data chunks")
	}

	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 24000 {
		t.Errorf("sample rate: got %d, want 24000", rate)
	}
	if byteRate := binary.LittleEndian.Uint32(wav[28:32]); byteRate != 48000 {
		t.Errorf("byte rate: got %d, want 48000", byteRate)
	}
	if dataLen := binary.LittleEndian.Uint32(wav[40:44]); dataLen != uint32(len(pcm)) {
		t.Errorf("data length: got %d, want %d", dataLen, len(pcm))
	}
	if string(wav[44:]) != string(pcm) {
		t.Error("payload not preserved")
	}
}
