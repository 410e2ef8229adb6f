// ABOUTME: Tests for tracks and the two-track session
// ABOUTME: Uses generated WAV files, a fake detector and the discard sink
package session

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/Resonate-Protocol/wavecut/internal/config"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/encode"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/output"
	"github.com/Resonate-Protocol/wavecut/pkg/marker"
	"github.com/Resonate-Protocol/wavecut/pkg/segment"
	"github.com/Resonate-Protocol/wavecut/pkg/vad"
)

type fakeDetector struct {
	stamps []vad.Timestamp
	err    error
}

func (f *fakeDetector) DetectSpeechSegments(ctx context.Context, pcm []int16, sampleRate int, params vad.Params) ([]vad.Timestamp, error) {
	return f.stamps, f.err
}

// writeGapped writes loud(0.5s) silent(1s) loud(0.5s) at 8 kHz
func writeGapped(t *testing.T) string {
	t.Helper()
	rate := 8000
	samples := make([]float64, 0, rate*2)
	for i := 0; i < rate/2; i++ {
		samples = append(samples, 0.8*math.Sin(2*math.Pi*200*float64(i)/float64(rate)))
	}
	samples = append(samples, make([]float64, rate)...)
	for i := 0; i < rate/2; i++ {
		samples = append(samples, 0.8*math.Sin(2*math.Pi*200*float64(i)/float64(rate)))
	}

	path := filepath.Join(t.TempDir(), "gapped.wav")
	if err := encode.WriteWAVFile(path, encode.EncodePCM16(samples), rate); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func newSession(det segment.SpeechDetector) (*Session, *output.Discard) {
	sink := output.NewDiscard()
	return New(config.Default(), det, sink), sink
}

func TestSessionTracks(t *testing.T) {
	s, _ := newSession(&fakeDetector{})

	if len(s.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(s.Tracks))
	}
	if s.Tracks[0].Method != MethodSpeech || s.Tracks[1].Method != MethodSilence {
		t.Error("expected speech then silence tracks")
	}
	if _, err := s.Track(2); err == nil {
		t.Error("expected error for out-of-range track")
	}
	if s.MinSilence() != config.DefaultMinSilence {
		t.Errorf("expected default min silence, got %v", s.MinSilence())
	}
}

func TestTrackNotLoaded(t *testing.T) {
	s, _ := newSession(&fakeDetector{})
	tr := s.Tracks[1]

	if _, err := tr.PlaceMarkers(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := tr.Play(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if _, ok := tr.PointerDown(10, 100); ok {
		t.Error("expected no hit on an empty track")
	}
	if tr.Peaks(10) != nil {
		t.Error("expected no peaks on an empty track")
	}
}

func TestLoadAndSilenceMarkers(t *testing.T) {
	s, _ := newSession(&fakeDetector{})
	path := writeGapped(t)

	if err := s.Load(path, path); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	tr := s.Tracks[1]
	if tr.Path() != path {
		t.Errorf("expected path %s, got %s", path, tr.Path())
	}
	if tr.Waveform().Duration() != 2 {
		t.Errorf("expected 2s, got %v", tr.Waveform().Duration())
	}

	n, err := tr.PlaceMarkers(context.Background())
	if err != nil {
		t.Fatalf("place markers failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 marker, got %d", n)
	}
	if got := tr.Store().Markers()[0].Time; math.Abs(got-1.5) > 1e-3 {
		t.Errorf("expected marker at 1.5, got %v", got)
	}
}

func TestSetMinSilence(t *testing.T) {
	s, _ := newSession(&fakeDetector{})
	if err := s.Load(writeGapped(t)); err != nil {
		t.Fatal(err)
	}
	s.Tracks[1].SetWaveform(s.Tracks[0].Waveform(), s.Tracks[0].Format())

	if err := s.SetMinSilence(1.5); err != nil {
		t.Fatal(err)
	}
	n, _ := s.Tracks[1].PlaceMarkers(context.Background())
	if n != 0 {
		t.Errorf("expected the 1s gap to be too short, got %d markers", n)
	}

	if err := s.SetMinSilence(-1); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestSpeechMarkers(t *testing.T) {
	det := &fakeDetector{stamps: []vad.Timestamp{{Start: 0, End: 8000}, {Start: 24000, End: 32000}}}
	s, _ := newSession(det)
	if err := s.Load(writeGapped(t)); err != nil {
		t.Fatal(err)
	}

	n, err := s.Tracks[0].PlaceMarkers(context.Background())
	if err != nil {
		t.Fatalf("place markers failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 markers, got %d", n)
	}
	sorted := s.Tracks[0].Store().Sorted()
	if sorted[0].Time != 0 || sorted[1].Time != 1.5 {
		t.Errorf("unexpected marker times %v, %v", sorted[0].Time, sorted[1].Time)
	}
}

func TestSpeechFailureKeepsMarkers(t *testing.T) {
	det := &fakeDetector{err: errors.New("model missing")}
	s, _ := newSession(det)
	if err := s.Load(writeGapped(t)); err != nil {
		t.Fatal(err)
	}
	tr := s.Tracks[0]
	tr.Store().Add(0.7)

	_, err := tr.PlaceMarkers(context.Background())
	var collab *segment.CollaboratorError
	if !errors.As(err, &collab) {
		t.Fatalf("expected CollaboratorError, got %v", err)
	}
	if tr.Store().Len() != 1 {
		t.Error("expected the existing marker to survive")
	}
}

func TestApplyMarkersDropsStaleResults(t *testing.T) {
	det := &fakeDetector{stamps: []vad.Timestamp{{Start: 16000, End: 20000}}}
	s, _ := newSession(det)
	path := writeGapped(t)
	if err := s.Load(path); err != nil {
		t.Fatal(err)
	}
	tr := s.Tracks[0]

	gen := tr.Generation()
	times, err := tr.DetectSpeech(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Load(path); err != nil {
		t.Fatal(err)
	}
	if tr.ApplyMarkers(gen, times) {
		t.Error("expected results for a replaced waveform to be dropped")
	}
	if tr.Store().Len() != 0 {
		t.Error("expected no markers after dropping stale results")
	}

	if !tr.ApplyMarkers(tr.Generation(), times) {
		t.Fatal("expected current results to apply")
	}
	if tr.Store().Len() != 1 || tr.Store().Markers()[0].Time != 1 {
		t.Errorf("unexpected markers %v", tr.Store().Markers())
	}
}

func TestPointerDragAndPlay(t *testing.T) {
	s, sink := newSession(&fakeDetector{})
	if err := s.Load(writeGapped(t), writeGapped(t)); err != nil {
		t.Fatal(err)
	}
	tr := s.Tracks[1]
	tr.PlaceMarkers(context.Background())

	// 100 columns over 2 seconds: the marker at 1.5s sits at column 75
	m, ok := tr.PointerDown(75, 100)
	if !ok {
		t.Fatal("expected to hit the marker")
	}
	if m.State != marker.Active {
		t.Error("expected the hit marker to become active")
	}
	if !tr.PointerMove(50, 100) {
		t.Fatal("expected drag")
	}
	if tr.Phase() != marker.Dragging {
		t.Errorf("expected dragging, got %v", tr.Phase())
	}
	tr.PointerUp()

	start, ok := tr.Store().ActiveTime()
	if !ok || math.Abs(start-1) > 1e-9 {
		t.Fatalf("expected active marker at 1.0, got %v", start)
	}

	clip, err := tr.Play(context.Background())
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if clip.Samples() != 8000 {
		t.Errorf("expected 8000 samples, got %d", clip.Samples())
	}
	if len(sink.Clips()) != 1 {
		t.Errorf("expected 1 clip sent to the sink, got %d", len(sink.Clips()))
	}

	hs, he, ok := tr.Highlight()
	if !ok || hs != 1 || he != 2 {
		t.Errorf("expected highlight [1, 2), got [%v, %v) %v", hs, he, ok)
	}
}

func TestPlayWithoutActiveMarker(t *testing.T) {
	s, sink := newSession(&fakeDetector{})
	if err := s.Load(writeGapped(t)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Tracks[0].Play(context.Background()); !errors.Is(err, segment.ErrNoActiveMarker) {
		t.Errorf("expected ErrNoActiveMarker, got %v", err)
	}
	if len(sink.Clips()) != 0 {
		t.Error("expected nothing to be played")
	}
	if _, _, ok := s.Tracks[0].Highlight(); ok {
		t.Error("expected no highlight")
	}
}

func TestSelectOrdinalAndExport(t *testing.T) {
	s, _ := newSession(&fakeDetector{})
	if err := s.Load(writeGapped(t)); err != nil {
		t.Fatal(err)
	}
	tr := s.Tracks[0]
	tr.Store().Add(1.5)
	tr.Store().Add(0.5)

	if err := tr.SelectOrdinal(1); err != nil {
		t.Fatal(err)
	}
	if tm, _ := tr.Store().ActiveTime(); tm != 0.5 {
		t.Errorf("expected ordinal 1 at 0.5, got %v", tm)
	}
	if err := tr.SelectOrdinal(3); err == nil {
		t.Error("expected error for missing ordinal")
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	clip, err := tr.Export(path)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if clip.Start != 0.5 || clip.End != 1.5 {
		t.Errorf("expected [0.5, 1.5), got [%v, %v)", clip.Start, clip.End)
	}

	other := NewTrack("scratch", MethodSilence, Deps{})
	if err := other.Load(path); err != nil {
		t.Fatalf("failed to reload export: %v", err)
	}
	if other.Waveform().Len() != 8000 {
		t.Errorf("expected 8000 samples, got %d", other.Waveform().Len())
	}
}

func TestDragActiveClamps(t *testing.T) {
	s, _ := newSession(&fakeDetector{})
	if err := s.Load(writeGapped(t)); err != nil {
		t.Fatal(err)
	}
	tr := s.Tracks[0]

	if _, err := tr.DragActive(0.1); !errors.Is(err, segment.ErrNoActiveMarker) {
		t.Errorf("expected ErrNoActiveMarker, got %v", err)
	}

	m := tr.Store().Add(1.9)
	tr.Store().SetActive(m.ID)
	got, err := tr.DragActive(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("expected clamp to 2, got %v", got)
	}
}

func TestZoomAndPan(t *testing.T) {
	s, _ := newSession(&fakeDetector{})
	if err := s.Load(writeGapped(t)); err != nil {
		t.Fatal(err)
	}
	tr := s.Tracks[0]

	tr.ZoomIn(25, 100)
	start, end := tr.View().Window()
	if tr.View().Zoom() <= 1 {
		t.Fatal("expected zoom to increase")
	}
	if start > 0.5 || end < 0.5 {
		t.Errorf("expected window around 0.5s, got [%v, %v]", start, end)
	}

	tr.Pan(10)
	start, end = tr.View().Window()
	if end != 2 {
		t.Errorf("expected pan to stop at the end, got [%v, %v]", start, end)
	}

	for i := 0; i < 20; i++ {
		tr.ZoomOut(50, 100)
	}
	start, end = tr.View().Window()
	if start != 0 || end != 2 {
		t.Errorf("expected full view, got [%v, %v]", start, end)
	}

	if peaks := tr.Peaks(40); len(peaks) != 40 {
		t.Errorf("expected 40 peaks, got %d", len(peaks))
	}
}

func TestLoadTooManyFiles(t *testing.T) {
	s, _ := newSession(&fakeDetector{})
	if err := s.Load("a.wav", "b.wav", "c.wav"); err == nil {
		t.Error("expected error for three files")
	}
}


func TestLoadInvalidFile(t *testing.T) {
	s, _ := newSession(&fakeDetector{})
	path := filepath.Join(t.TempDir(), "missing.wav")

	if err := s.Load(path); err == nil {
		t.Error("expected error for missing file")
	}
	if s.Tracks[0].Loaded() {
		t.Error("expected failed load to leave the track empty")
	}
}
