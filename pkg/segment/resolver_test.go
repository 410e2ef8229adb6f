// ABOUTME: Tests for segment resolution
// ABOUTME: Tests segment bounds, PCM round trip, playback and export
package segment

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Resonate-Protocol/wavecut/pkg/audio"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/decode"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/output"
	"github.com/Resonate-Protocol/wavecut/pkg/marker"
)

func twoSecondBuffer(t *testing.T) *audio.Waveform {
	t.Helper()
	samples := make([]float64, 16000)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 220 * float64(i) / 8000)
	}
	w, err := audio.NewWaveform(samples, 8000)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestResolveBetweenMarkers(t *testing.T) {
	w := twoSecondBuffer(t)
	store := marker.NewStore(w.Duration())
	first := store.Add(0.5)
	second := store.Add(1.5)

	tests := []struct {
		name        string
		active      marker.Marker
		start, end  float64
		startSample int
		endSample   int
	}{
		{"first marker", first, 0.5, 1.5, 4000, 12000},
		{"last marker runs to end", second, 1.5, 2.0, 12000, 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SetActive(tt.active.ID); err != nil {
				t.Fatal(err)
			}

			clip, err := Resolve(w, store)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}

			if clip.Start != tt.start || clip.End != tt.end {
				t.Errorf("expected [%v, %v), got [%v, %v)", tt.start, tt.end, clip.Start, clip.End)
			}
			if clip.StartSample != tt.startSample || clip.EndSample != tt.endSample {
				t.Errorf("expected samples [%d, %d), got [%d, %d)", tt.startSample, tt.endSample, clip.StartSample, clip.EndSample)
			}
			if clip.Samples() != tt.endSample-tt.startSample {
				t.Errorf("expected %d samples, got %d", tt.endSample-tt.startSample, clip.Samples())
			}
			if clip.SampleRate != 8000 || clip.Channels != 1 {
				t.Errorf("expected 8000 Hz mono, got %d Hz %d ch", clip.SampleRate, clip.Channels)
			}
		})
	}
}

func TestResolveNoActiveMarker(t *testing.T) {
	w := twoSecondBuffer(t)
	store := marker.NewStore(w.Duration())
	store.Add(0.5)

	if _, err := Resolve(w, store); !errors.Is(err, ErrNoActiveMarker) {
		t.Errorf("expected ErrNoActiveMarker, got %v", err)
	}
}

func TestResolveCoincidentMarkers(t *testing.T) {
	w := twoSecondBuffer(t)
	store := marker.NewStore(w.Duration())
	a := store.Add(1)
	store.Add(1)
	store.SetActive(a.ID)

	clip, err := Resolve(w, store)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	// the coincident marker is not strictly after, so the segment runs to the end
	if clip.End != 2 {
		t.Errorf("expected end 2, got %v", clip.End)
	}
}

func TestResolveMarkerAtEnd(t *testing.T) {
	w := twoSecondBuffer(t)
	store := marker.NewStore(w.Duration())
	m := store.Add(5)
	store.SetActive(m.ID)

	clip, err := Resolve(w, store)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if clip.Samples() != 0 {
		t.Errorf("expected empty clip, got %d samples", clip.Samples())
	}
}

func TestResolveRoundTrip(t *testing.T) {
	w := twoSecondBuffer(t)
	store := marker.NewStore(w.Duration())
	m := store.Add(0.25)
	store.Add(0.75)
	store.SetActive(m.ID)

	clip, err := Resolve(w, store)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	decoded := decode.PCM16(clip.PCM)
	original := w.Slice(clip.StartSample, clip.EndSample)
	if len(decoded) != len(original) {
		t.Fatalf("expected %d samples, got %d", len(original), len(decoded))
	}

	step := 1.0 / audio.MaxInt16
	for i := range original {
		if diff := math.Abs(audio.Int16ToFloat(decoded[i]) - original[i]); diff > step {
			t.Fatalf("sample %d: error %v exceeds one quantization step", i, diff)
		}
	}
}

func TestClipPlay(t *testing.T) {
	w := twoSecondBuffer(t)
	store := marker.NewStore(w.Duration())
	m := store.Add(1.5)
	store.SetActive(m.ID)
	clip, _ := Resolve(w, store)

	sink := output.NewDiscard()
	if err := clip.Play(context.Background(), sink); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	clips := sink.Clips()
	if len(clips) != 1 {
		t.Fatalf("expected 1 played clip, got %d", len(clips))
	}
	if !bytes.Equal(clips[0].PCM, clip.PCM) || clips[0].SampleRate != 8000 || clips[0].Channels != 1 {
		t.Error("played clip does not match resolved clip")
	}
}

type failingSink struct{}

func (failingSink) Play([]byte, int, int) error { return errors.New("device busy") }
func (failingSink) Stop() error                 { return nil }
func (failingSink) Close() error                { return nil }

func TestClipPlayFailure(t *testing.T) {
	clip := Clip{PCM: []byte{0, 0}, SampleRate: 8000, Channels: 1}

	var collab *CollaboratorError
	if err := clip.Play(context.Background(), failingSink{}); !errors.As(err, &collab) {
		t.Errorf("expected CollaboratorError, got %v", err)
	}
}

func TestClipExport(t *testing.T) {
	w := twoSecondBuffer(t)
	store := marker.NewStore(w.Duration())
	m := store.Add(0.5)
	store.Add(1.5)
	store.SetActive(m.ID)
	clip, _ := Resolve(w, store)

	path := filepath.Join(t.TempDir(), "segment.wav")
	if err := clip.Export(path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	loaded, format, err := decode.LoadWAV(path)
	if err != nil {
		t.Fatalf("failed to reload export: %v", err)
	}
	if format.SampleRate != 8000 || format.Channels != 1 || format.BitDepth != 16 {
		t.Errorf("unexpected export format %+v", format)
	}
	if loaded.Len() != 8000 {
		t.Errorf("expected 8000 samples, got %d", loaded.Len())
	}
}

func TestClipExportFailure(t *testing.T) {
	clip := Clip{PCM: []byte{0, 0}, SampleRate: 8000, Channels: 1}
	path := filepath.Join(t.TempDir(), "missing", "segment.wav")

	err := clip.Export(path)
	var collab *CollaboratorError
	if !errors.As(err, &collab) {
		t.Fatalf("expected CollaboratorError, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("expected no file to be written")
	}
}
