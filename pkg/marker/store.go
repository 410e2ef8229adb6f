// ABOUTME: Time marker collection with active-marker designation and hit-testing
// ABOUTME: Markers delimit segments; the active marker is the start of the current segment
package marker

import (
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
)

// DefaultTolerance is the hit-test radius in seconds
const DefaultTolerance = 0.02

// ErrUnknownMarker is returned for ids that are not in the store
var ErrUnknownMarker = errors.New("unknown marker")

// State of a marker
type State int

const (
	Normal State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "normal"
}

// Marker is a time-stamped segment boundary
type Marker struct {
	ID    uuid.UUID
	Time  float64
	State State
}

// EventKind identifies a store change
type EventKind int

const (
	Added EventKind = iota
	Cleared
	Moved
	Activated
)

// Event describes a store change. Marker is the zero value for Cleared and
// for Activated when the active designation was removed.
type Event struct {
	Kind   EventKind
	Marker Marker
}

// Store holds the markers of one waveform. It is not safe for concurrent use.
type Store struct {
	duration    float64
	markers     []Marker
	active      uuid.UUID
	subscribers []func(Event)
}

// NewStore creates an empty store for a buffer of the given duration
func NewStore(duration float64) *Store {
	return &Store{duration: duration}
}

// Duration returns the upper bound for marker times
func (s *Store) Duration() float64 { return s.duration }

// Subscribe registers fn to be called after every change
func (s *Store) Subscribe(fn func(Event)) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) emit(e Event) {
	for _, fn := range s.subscribers {
		fn(e)
	}
}

// Add appends a Normal marker at time, clamped to [0, duration]
func (s *Store) Add(time float64) Marker {
	m := Marker{
		ID:    uuid.New(),
		Time:  s.clamp(time),
		State: Normal,
	}
	s.markers = append(s.markers, m)
	s.emit(Event{Kind: Added, Marker: m})
	return m
}

// Clear removes every marker and the active designation
func (s *Store) Clear() {
	s.markers = nil
	s.active = uuid.Nil
	s.emit(Event{Kind: Cleared})
}

// Len returns the number of markers
func (s *Store) Len() int { return len(s.markers) }

// Markers returns a copy of the markers in stored order
func (s *Store) Markers() []Marker {
	out := make([]Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// Sorted returns a copy of the markers ordered by time; equal times keep stored order
func (s *Store) Sorted() []Marker {
	out := s.Markers()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Get looks a marker up by id
func (s *Store) Get(id uuid.UUID) (Marker, bool) {
	if i := s.index(id); i >= 0 {
		return s.markers[i], true
	}
	return Marker{}, false
}

// Ordinal returns the 1-based display position of a marker in time order, or 0 if unknown
func (s *Store) Ordinal(id uuid.UUID) int {
	for i, m := range s.Sorted() {
		if m.ID == id {
			return i + 1
		}
	}
	return 0
}

// HitTest returns the first marker in stored order lying strictly within tolerance of time
func (s *Store) HitTest(time, tolerance float64) (Marker, bool) {
	for _, m := range s.markers {
		if math.Abs(m.Time-time) < tolerance {
			return m, true
		}
	}
	return Marker{}, false
}

// SetActive makes id the active marker, demoting the previous one.
// uuid.Nil removes the designation. Activating the current active marker is a no-op.
func (s *Store) SetActive(id uuid.UUID) error {
	if id == s.active {
		return nil
	}

	next := -1
	if id != uuid.Nil {
		if next = s.index(id); next < 0 {
			return ErrUnknownMarker
		}
	}

	if prev := s.index(s.active); prev >= 0 {
		s.markers[prev].State = Normal
	}

	s.active = id
	if next < 0 {
		s.emit(Event{Kind: Activated})
		return nil
	}

	s.markers[next].State = Active
	s.emit(Event{Kind: Activated, Marker: s.markers[next]})
	return nil
}

// Active returns the active marker
func (s *Store) Active() (Marker, bool) {
	if s.active == uuid.Nil {
		return Marker{}, false
	}
	return s.Get(s.active)
}

// ActiveTime returns the active marker's time
func (s *Store) ActiveTime() (float64, bool) {
	m, ok := s.Active()
	return m.Time, ok
}

// Drag moves a marker to time clamped to [0, duration] and returns the applied time.
// State is unchanged.
func (s *Store) Drag(id uuid.UUID, time float64) (float64, error) {
	i := s.index(id)
	if i < 0 {
		return 0, ErrUnknownMarker
	}

	s.markers[i].Time = s.clamp(time)
	s.emit(Event{Kind: Moved, Marker: s.markers[i]})
	return s.markers[i].Time, nil
}

// NextAfter returns the smallest marker time strictly greater than time,
// or the buffer duration when there is none
func (s *Store) NextAfter(time float64) float64 {
	next := s.duration
	found := false
	for _, m := range s.markers {
		if m.Time > time && (!found || m.Time < next) {
			next = m.Time
			found = true
		}
	}
	return next
}

func (s *Store) index(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	for i := range s.markers {
		if s.markers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) clamp(time float64) float64 {
	if math.IsNaN(time) || time < 0 {
		return 0
	}
	if time > s.duration {
		return s.duration
	}
	return time
}
