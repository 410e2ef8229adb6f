// ABOUTME: Audio type definitions
// ABOUTME: Defines the PCM format and the immutable normalized mono waveform
package audio

import (
	"errors"
	"fmt"
	"math"
)

const (
	// 16-bit PCM range constants
	MaxInt16 = 32767
	MinInt16 = -32768
)

// ErrInvalidAudio is returned when a buffer cannot back a waveform
var ErrInvalidAudio = errors.New("invalid audio")

// Format describes an uncompressed PCM stream
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Waveform is a normalized mono sample buffer. It is never mutated after construction;
// loading a new file produces a new Waveform.
type Waveform struct {
	samples    []float64
	sampleRate int
	peak       float64
}

// FromPCM builds a waveform from interleaved integer PCM, keeping only the first channel
func FromPCM(interleaved []int, channels, sampleRate int) (*Waveform, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidAudio, channels)
	}

	frames := len(interleaved) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		samples[i] = float64(interleaved[i*channels])
	}

	return NewWaveform(samples, sampleRate)
}

// NewWaveform normalizes samples by their peak absolute value.
// The input slice is copied; a zero peak leaves the samples unscaled.
func NewWaveform(samples []float64, sampleRate int) (*Waveform, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample buffer", ErrInvalidAudio)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidAudio, sampleRate)
	}

	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	normalized := make([]float64, len(samples))
	copy(normalized, samples)
	if peak > 0 {
		for i := range normalized {
			normalized[i] /= peak
		}
	}

	return &Waveform{
		samples:    normalized,
		sampleRate: sampleRate,
		peak:       peak,
	}, nil
}

// Duration returns the length in seconds
func (w *Waveform) Duration() float64 {
	return float64(len(w.samples)) / float64(w.sampleRate)
}

// SampleRate returns samples per second
func (w *Waveform) SampleRate() int { return w.sampleRate }

// Len returns the number of samples
func (w *Waveform) Len() int { return len(w.samples) }

// Peak returns the absolute peak of the source data before normalization
func (w *Waveform) Peak() float64 { return w.peak }

// SampleAt returns the normalized sample at index i.
// Out of range indices return 0.
func (w *Waveform) SampleAt(i int) float64 {
	if i < 0 || i >= len(w.samples) {
		return 0
	}
	return w.samples[i]
}

// Slice returns a copy of samples in [start, end), both ends clamped to the buffer
func (w *Waveform) Slice(start, end int) []float64 {
	start = clampIndex(start, len(w.samples))
	end = clampIndex(end, len(w.samples))
	if end <= start {
		return []float64{}
	}

	out := make([]float64, end-start)
	copy(out, w.samples[start:end])
	return out
}

// SecondsToSamples converts a time to the nearest sample index
func (w *Waveform) SecondsToSamples(seconds float64) int {
	return int(math.Round(seconds * float64(w.sampleRate)))
}

// SamplesToSeconds converts a sample index to seconds
func (w *Waveform) SamplesToSeconds(index int) float64 {
	return float64(index) / float64(w.sampleRate)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// FloatToInt16 converts a normalized sample to 16-bit, rounding and clipping to the int16 range
func FloatToInt16(sample float64) int16 {
	return clipInt16(math.Round(sample * MaxInt16))
}

// FloatToInt16Trunc converts a normalized sample to 16-bit, truncating toward zero and clipping
func FloatToInt16Trunc(sample float64) int16 {
	return clipInt16(math.Trunc(sample * MaxInt16))
}

// Int16ToFloat converts a 16-bit sample back to the normalized range
func Int16ToFloat(sample int16) float64 {
	return float64(sample) / MaxInt16
}

func clipInt16(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}
	if v > MaxInt16 {
		return MaxInt16
	}
	if v < MinInt16 {
		return MinInt16
	}
	return int16(v)
}
