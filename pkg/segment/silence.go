// ABOUTME: Amplitude-threshold silence segmenter
// ABOUTME: Marks the first loud sample after every sufficiently long silent run
package segment

import (
	"fmt"
	"math"

	"github.com/Resonate-Protocol/wavecut/pkg/audio"
	"github.com/Resonate-Protocol/wavecut/pkg/marker"
)

const (
	// DefaultSilenceThreshold is the absolute normalized amplitude below which a sample is silent
	DefaultSilenceThreshold = 0.02
	// DefaultMinSilence is the shortest silent run, in seconds, that ends a segment
	DefaultMinSilence = 0.6
)

// Silence segments a waveform on silent runs
type Silence struct {
	Threshold   float64
	MinDuration float64
}

// DefaultSilence returns the segmenter with default threshold and run length
func DefaultSilence() Silence {
	return Silence{
		Threshold:   DefaultSilenceThreshold,
		MinDuration: DefaultMinSilence,
	}
}

// Segment replaces the store's markers with one at the end of each closed
// silent run lasting at least MinDuration. A run still open at the end of the
// buffer is not marked. It returns the number of markers placed.
func (s Silence) Segment(w *audio.Waveform, store *marker.Store) (int, error) {
	if s.MinDuration < 0 || math.IsNaN(s.MinDuration) {
		return 0, fmt.Errorf("minimum silence must be >= 0, got %v", s.MinDuration)
	}

	minSamples := int(s.MinDuration * float64(w.SampleRate()))

	store.Clear()

	placed := 0
	runStart := -1
	for i := 0; i < w.Len(); i++ {
		silent := math.Abs(w.SampleAt(i)) < s.Threshold
		switch {
		case silent && runStart < 0:
			runStart = i
		case !silent && runStart >= 0:
			if i-runStart >= minSamples {
				store.Add(w.SamplesToSeconds(i))
				placed++
			}
			runStart = -1
		}
	}

	return placed, nil
}
