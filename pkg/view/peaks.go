// ABOUTME: Waveform envelope for rendering
// ABOUTME: Reduces the visible sample range to one min/max pair per column
package view

import (
	"math"

	"github.com/Resonate-Protocol/wavecut/pkg/audio"
)

// Peak is the sample range covered by one display column
type Peak struct {
	Min float64
	Max float64
}

// Peaks computes the min/max envelope of w between start and end seconds
func Peaks(w *audio.Waveform, start, end float64, columns int) []Peak {
	if columns <= 0 || w == nil {
		return nil
	}

	peaks := make([]Peak, columns)
	span := end - start
	if span <= 0 {
		return peaks
	}

	rate := float64(w.SampleRate())
	for i := range peaks {
		s0 := int(math.Floor((start + span*float64(i)/float64(columns)) * rate))
		s1 := int(math.Floor((start + span*float64(i+1)/float64(columns)) * rate))
		if s1 <= s0 {
			s1 = s0 + 1
		}

		samples := w.Slice(s0, s1)
		if len(samples) == 0 {
			continue
		}

		p := Peak{Min: samples[0], Max: samples[0]}
		for _, s := range samples[1:] {
			if s < p.Min {
				p.Min = s
			}
			if s > p.Max {
				p.Max = s
			}
		}
		peaks[i] = p
	}

	return peaks
}
