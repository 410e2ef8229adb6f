// ABOUTME: Segment resolution from the active marker to PCM
// ABOUTME: Clips are handed to an audio sink for playback or written out as WAV
package segment

import (
	"context"
	"io"

	"github.com/Resonate-Protocol/wavecut/pkg/audio"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/encode"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/output"
	"github.com/Resonate-Protocol/wavecut/pkg/marker"
)

// Clip is a resolved segment as mono 16-bit little-endian PCM
type Clip struct {
	Start       float64
	End         float64
	StartSample int
	EndSample   int
	PCM         []byte
	SampleRate  int
	Channels    int
}

// Samples returns the number of samples in the clip
func (c Clip) Samples() int {
	return len(c.PCM) / 2
}

// Resolve extracts [active, next marker) from w. Without a next marker the
// segment runs to the end of the buffer.
func Resolve(w *audio.Waveform, store *marker.Store) (Clip, error) {
	start, ok := store.ActiveTime()
	if !ok {
		return Clip{}, ErrNoActiveMarker
	}
	end := store.NextAfter(start)

	startSample := clampSample(w.SecondsToSamples(start), w.Len())
	endSample := clampSample(w.SecondsToSamples(end), w.Len())
	if endSample < startSample {
		endSample = startSample
	}

	return Clip{
		Start:       start,
		End:         end,
		StartSample: startSample,
		EndSample:   endSample,
		PCM:         encode.EncodePCM16(w.Slice(startSample, endSample)),
		SampleRate:  w.SampleRate(),
		Channels:    1,
	}, nil
}

func clampSample(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Play hands the clip to sink
func (c Clip) Play(ctx context.Context, sink output.Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sink.Play(c.PCM, c.SampleRate, c.Channels); err != nil {
		return &CollaboratorError{Op: "play segment", Err: err}
	}
	return nil
}

// WriteWAV writes the clip as a WAV stream
func (c Clip) WriteWAV(ws io.WriteSeeker) error {
	if err := encode.WriteWAV(ws, c.PCM, c.SampleRate); err != nil {
		return &CollaboratorError{Op: "export segment", Err: err}
	}
	return nil
}

// Export writes the clip to a WAV file at path
func (c Clip) Export(path string) error {
	if err := encode.WriteWAVFile(path, c.PCM, c.SampleRate); err != nil {
		return &CollaboratorError{Op: "export segment", Err: err}
	}
	return nil
}
