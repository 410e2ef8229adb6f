// ABOUTME: A loaded waveform with its markers and view
// ABOUTME: Maps pointer columns to marker operations and resolves the active segment
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"

	"github.com/Resonate-Protocol/wavecut/pkg/audio"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/decode"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/output"
	"github.com/Resonate-Protocol/wavecut/pkg/marker"
	"github.com/Resonate-Protocol/wavecut/pkg/segment"
	"github.com/Resonate-Protocol/wavecut/pkg/view"
)

// ErrNotLoaded is returned by operations that need a waveform
var ErrNotLoaded = errors.New("no waveform loaded")

// Method selects how a track places markers
type Method int

const (
	MethodSpeech Method = iota
	MethodSilence
)

func (m Method) String() string {
	if m == MethodSilence {
		return "silence"
	}
	return "speech"
}

// Deps are the collaborators a track segments and plays with
type Deps struct {
	Silence segment.Silence
	Speech  *segment.Speech
	Sink    output.Sink
}

// Track is one editable waveform
type Track struct {
	Name   string
	Method Method

	deps        Deps
	path        string
	wave        *audio.Waveform
	format      audio.Format
	store       *marker.Store
	view        *view.Transform
	interaction *marker.Interaction
	generation  int
	subscribers []func(marker.Event)

	highlighted    bool
	highlightStart float64
	highlightEnd   float64
}

// NewTrack creates an empty track
func NewTrack(name string, method Method, deps Deps) *Track {
	return &Track{
		Name:   name,
		Method: method,
		deps:   deps,
	}
}

// Load decodes a WAV file into the track
func (t *Track) Load(path string) error {
	w, format, err := decode.LoadWAV(path)
	if err != nil {
		return err
	}
	t.SetWaveform(w, format)
	t.path = path
	return nil
}

// SetWaveform replaces the track contents wholesale: markers, view and
// highlight are reset
func (t *Track) SetWaveform(w *audio.Waveform, format audio.Format) {
	t.wave = w
	t.format = format
	t.path = ""
	t.store = marker.NewStore(w.Duration())
	t.view = view.New(w.Duration(), w.SampleRate())
	t.interaction = marker.NewInteraction(t.store, marker.DefaultTolerance)
	for _, fn := range t.subscribers {
		t.store.Subscribe(fn)
	}
	t.generation++
	t.highlighted = false
}

// Subscribe registers fn for marker changes on this and every later waveform
func (t *Track) Subscribe(fn func(marker.Event)) {
	t.subscribers = append(t.subscribers, fn)
	if t.store != nil {
		t.store.Subscribe(fn)
	}
}

// Loaded reports whether the track holds a waveform
func (t *Track) Loaded() bool { return t.wave != nil }

// Path returns the loaded file, if any
func (t *Track) Path() string { return t.path }

// Waveform returns the loaded buffer
func (t *Track) Waveform() *audio.Waveform { return t.wave }

// Format returns the source format of the loaded file
func (t *Track) Format() audio.Format { return t.format }

// Store returns the marker store, nil before Load
func (t *Track) Store() *marker.Store { return t.store }

// View returns the view transform, nil before Load
func (t *Track) View() *view.Transform { return t.view }

// Generation identifies the current waveform; it changes on every load
func (t *Track) Generation() int { return t.generation }

// PlaceMarkers segments the waveform with the track's method
func (t *Track) PlaceMarkers(ctx context.Context) (int, error) {
	if !t.Loaded() {
		return 0, ErrNotLoaded
	}

	var (
		n   int
		err error
	)
	switch t.Method {
	case MethodSilence:
		n, err = t.deps.Silence.Segment(t.wave, t.store)
	default:
		if t.deps.Speech == nil {
			return 0, &segment.CollaboratorError{Op: "detect speech", Err: fmt.Errorf("no detector configured")}
		}
		n, err = t.deps.Speech.Segment(ctx, t.wave, t.store)
	}
	if err != nil {
		return 0, err
	}

	t.highlighted = false
	slog.Debug("segmentation settings", "track", t.Name, "method", t.Method.String(),
		"min_silence", t.deps.Silence.MinDuration, "threshold", t.deps.Silence.Threshold)
	log.Printf("%s: placed %d markers by %s", t.Name, n, t.Method)
	return n, nil
}

// DetectSpeech runs speech detection without touching the store. The result
// is applied with ApplyMarkers on the goroutine that owns the track.
func (t *Track) DetectSpeech(ctx context.Context) ([]float64, error) {
	if !t.Loaded() {
		return nil, ErrNotLoaded
	}
	if t.deps.Speech == nil {
		return nil, &segment.CollaboratorError{Op: "detect speech", Err: fmt.Errorf("no detector configured")}
	}
	return t.deps.Speech.Detect(ctx, t.wave)
}

// ApplyMarkers replaces the markers with times detected for generation.
// Results for an earlier load are dropped and reported as false.
func (t *Track) ApplyMarkers(generation int, times []float64) bool {
	if !t.Loaded() || generation != t.generation {
		return false
	}
	n := segment.Place(t.store, times)
	t.highlighted = false
	slog.Debug("segmentation settings", "track", t.Name, "method", t.Method.String(),
		"min_silence", t.deps.Silence.MinDuration, "threshold", t.deps.Silence.Threshold)
	log.Printf("%s: placed %d markers by %s", t.Name, n, t.Method)
	return true
}

// tolerance widens hit-testing to half a column so markers stay clickable when zoomed out
func (t *Track) tolerance(width int) float64 {
	tol := marker.DefaultTolerance
	if width > 0 {
		if half := t.view.Width() / float64(width) / 2; half > tol {
			tol = half
		}
	}
	return tol
}

// PointerDown selects the marker under column x of an axis width columns wide
func (t *Track) PointerDown(x float64, width int) (marker.Marker, bool) {
	if !t.Loaded() {
		return marker.Marker{}, false
	}
	t.interaction.SetTolerance(t.tolerance(width))
	return t.interaction.PointerDown(t.view.XToTime(x, width))
}

// PointerMove drags the selected marker to column x
func (t *Track) PointerMove(x float64, width int) bool {
	if !t.Loaded() {
		return false
	}
	return t.interaction.PointerMove(t.view.XToTime(x, width))
}

// PointerUp releases the selected marker
func (t *Track) PointerUp() {
	if t.Loaded() {
		t.interaction.PointerUp()
	}
}

// Phase returns the pointer interaction phase
func (t *Track) Phase() marker.Phase {
	if !t.Loaded() {
		return marker.Idle
	}
	return t.interaction.Phase()
}

// DragActive moves the active marker by delta seconds
func (t *Track) DragActive(delta float64) (float64, error) {
	if !t.Loaded() {
		return 0, ErrNotLoaded
	}
	m, ok := t.store.Active()
	if !ok {
		return 0, segment.ErrNoActiveMarker
	}
	return t.store.Drag(m.ID, m.Time+delta)
}

// SelectOrdinal activates the n-th marker in time order (1-based)
func (t *Track) SelectOrdinal(n int) error {
	if !t.Loaded() {
		return ErrNotLoaded
	}
	sorted := t.store.Sorted()
	if n < 1 || n > len(sorted) {
		return fmt.Errorf("marker %d out of range (have %d)", n, len(sorted))
	}
	return t.store.SetActive(sorted[n-1].ID)
}

// Resolve extracts the active segment
func (t *Track) Resolve() (segment.Clip, error) {
	if !t.Loaded() {
		return segment.Clip{}, ErrNotLoaded
	}
	return segment.Resolve(t.wave, t.store)
}

// Play resolves the active segment and hands it to the sink
func (t *Track) Play(ctx context.Context) (segment.Clip, error) {
	clip, err := t.Resolve()
	if err != nil {
		return segment.Clip{}, err
	}
	if t.deps.Sink == nil {
		return segment.Clip{}, &segment.CollaboratorError{Op: "play segment", Err: fmt.Errorf("no audio output")}
	}
	if err := clip.Play(ctx, t.deps.Sink); err != nil {
		return segment.Clip{}, err
	}

	t.highlighted = true
	t.highlightStart = clip.Start
	t.highlightEnd = clip.End
	slog.Debug("playing segment", "track", t.Name, "start", clip.Start, "end", clip.End, "samples", clip.Samples())
	return clip, nil
}

// Export writes the active segment to path as a mono 16-bit WAV
func (t *Track) Export(path string) (segment.Clip, error) {
	clip, err := t.Resolve()
	if err != nil {
		return segment.Clip{}, err
	}
	if err := clip.Export(path); err != nil {
		return segment.Clip{}, err
	}
	log.Printf("%s: exported %.3fs-%.3fs to %s", t.Name, clip.Start, clip.End, path)
	return clip, nil
}

// Highlight returns the range of the last played segment
func (t *Track) Highlight() (start, end float64, ok bool) {
	return t.highlightStart, t.highlightEnd, t.highlighted
}

// ZoomIn zooms around column x
func (t *Track) ZoomIn(x float64, width int) {
	if !t.Loaded() {
		return
	}
	c := t.view.XToTime(x, width)
	t.view.ZoomIn(&c)
}

// ZoomOut zooms out around column x
func (t *Track) ZoomOut(x float64, width int) {
	if !t.Loaded() {
		return
	}
	c := t.view.XToTime(x, width)
	t.view.ZoomOut(&c)
}

// Pan shifts the view by a fraction of its width
func (t *Track) Pan(fraction float64) {
	if !t.Loaded() {
		return
	}
	t.view.Pan(fraction * t.view.Width())
}

// Peaks returns the visible envelope over width columns
func (t *Track) Peaks(width int) []view.Peak {
	if !t.Loaded() {
		return nil
	}
	start, end := t.view.Window()
	return view.Peaks(t.wave, start, end, width)
}
