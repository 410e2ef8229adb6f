// ABOUTME: Two-track comparison workspace
// ABOUTME: Track 1 segments by speech, track 2 by silence, sharing one audio output
package session

import (
	"fmt"

	"github.com/Resonate-Protocol/wavecut/internal/config"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/output"
	"github.com/Resonate-Protocol/wavecut/pkg/segment"
)

// Session holds the tracks being compared
type Session struct {
	Tracks []*Track
	sink   output.Sink
}

// New creates a speech track and a silence track
func New(cfg config.Config, detector segment.SpeechDetector, sink output.Sink) *Session {
	deps := Deps{
		Silence: cfg.Silence(),
		Speech:  segment.NewSpeech(detector, cfg.VADParams()),
		Sink:    sink,
	}

	return &Session{
		Tracks: []*Track{
			NewTrack("Track 1", MethodSpeech, deps),
			NewTrack("Track 2", MethodSilence, deps),
		},
		sink: sink,
	}
}

// Track returns track i (0-based)
func (s *Session) Track(i int) (*Track, error) {
	if i < 0 || i >= len(s.Tracks) {
		return nil, fmt.Errorf("track %d out of range", i+1)
	}
	return s.Tracks[i], nil
}

// Load loads paths into consecutive tracks
func (s *Session) Load(paths ...string) error {
	if len(paths) > len(s.Tracks) {
		return fmt.Errorf("too many files: %d (max %d)", len(paths), len(s.Tracks))
	}
	for i, path := range paths {
		if err := s.Tracks[i].Load(path); err != nil {
			return err
		}
	}
	return nil
}

// SetMinSilence updates the silence run length on every track
func (s *Session) SetMinSilence(seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("minimum silence must be >= 0, got %v", seconds)
	}
	for _, t := range s.Tracks {
		t.deps.Silence.MinDuration = seconds
	}
	return nil
}

// MinSilence returns the current silence run length
func (s *Session) MinSilence() float64 {
	return s.Tracks[0].deps.Silence.MinDuration
}

// Mixer returns the volume control of the audio output, if it has one
func (s *Session) Mixer() (output.Mixer, bool) {
	m, ok := s.sink.(output.Mixer)
	return m, ok
}

// Stop halts playback
func (s *Session) Stop() error {
	if s.sink == nil {
		return nil
	}
	return s.sink.Stop()
}

// Close releases the audio output
func (s *Session) Close() error {
	if s.sink == nil {
		return nil
	}
	return s.sink.Close()
}
