// ABOUTME: Voice-activity segmenter
// ABOUTME: Resamples to 16 kHz PCM, asks a detector for speech and marks each region start
package segment

import (
	"context"
	"fmt"

	"github.com/Resonate-Protocol/wavecut/pkg/audio"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/resample"
	"github.com/Resonate-Protocol/wavecut/pkg/marker"
	"github.com/Resonate-Protocol/wavecut/pkg/vad"
)

// SpeechDetector finds speech regions in mono 16-bit PCM
type SpeechDetector interface {
	DetectSpeechSegments(ctx context.Context, pcm []int16, sampleRate int, params vad.Params) ([]vad.Timestamp, error)
}

// Speech segments a waveform with a voice activity detector
type Speech struct {
	Detector SpeechDetector
	Params   vad.Params
}

// NewSpeech creates a speech segmenter
func NewSpeech(detector SpeechDetector, params vad.Params) *Speech {
	return &Speech{
		Detector: detector,
		Params:   params,
	}
}

// DetectorPCM converts w to the 16 kHz 16-bit input detectors expect.
// Samples are truncated toward zero, not rounded.
func DetectorPCM(w *audio.Waveform) []int16 {
	samples := resample.New(w.SampleRate(), vad.SampleRate).Resample(w.Slice(0, w.Len()))

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		pcm[i] = audio.FloatToInt16Trunc(s)
	}
	return pcm
}

// Detect runs the detector over w and returns the start time of each speech
// region in seconds. It does not touch any marker store, so it may run off
// the goroutine that owns the store.
func (s *Speech) Detect(ctx context.Context, w *audio.Waveform) ([]float64, error) {
	if s.Detector == nil {
		return nil, &CollaboratorError{Op: "detect speech", Err: fmt.Errorf("no detector configured")}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stamps, err := s.Detector.DetectSpeechSegments(ctx, DetectorPCM(w), vad.SampleRate, s.Params)
	if err != nil {
		return nil, &CollaboratorError{Op: "detect speech", Err: err}
	}

	// result is discarded if the caller gave up while the detector ran
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	starts := make([]float64, len(stamps))
	for i, ts := range stamps {
		starts[i] = float64(ts.Start) / vad.SampleRate
	}
	return starts, nil
}

// Segment replaces the store's markers with one at the start of each speech
// region. The store is only touched once detection has succeeded; any failure
// leaves it unchanged. It returns the number of markers placed.
func (s *Speech) Segment(ctx context.Context, w *audio.Waveform, store *marker.Store) (int, error) {
	starts, err := s.Detect(ctx, w)
	if err != nil {
		return 0, err
	}
	return Place(store, starts), nil
}

// Place replaces the store's markers with one per time, in the given order
func Place(store *marker.Store, times []float64) int {
	store.Clear()
	for _, t := range times {
		store.Add(t)
	}
	return len(times)
}
