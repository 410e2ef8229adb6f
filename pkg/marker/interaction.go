// ABOUTME: Pointer interaction state machine over a marker store
// ABOUTME: Idle -> Selected on a pointer-down hit, -> Dragging on move, -> Idle on release
package marker

import "github.com/google/uuid"

// Phase of a pointer interaction
type Phase int

const (
	Idle Phase = iota
	Selected
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Interaction tracks which marker the pointer holds. Selection is transient;
// the store's active designation changes only on a pointer-down hit.
type Interaction struct {
	store     *Store
	tolerance float64
	selected  uuid.UUID
	phase     Phase
}

// NewInteraction creates an idle interaction. A non-positive tolerance uses DefaultTolerance.
func NewInteraction(store *Store, tolerance float64) *Interaction {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Interaction{
		store:     store,
		tolerance: tolerance,
	}
}

// SetTolerance changes the hit-test radius. A non-positive tolerance uses DefaultTolerance.
func (in *Interaction) SetTolerance(tolerance float64) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	in.tolerance = tolerance
}

// Tolerance returns the hit-test radius
func (in *Interaction) Tolerance() float64 { return in.tolerance }

// Phase returns the current phase
func (in *Interaction) Phase() Phase { return in.phase }

// Selected returns the held marker
func (in *Interaction) Selected() (Marker, bool) {
	if in.phase == Idle {
		return Marker{}, false
	}
	return in.store.Get(in.selected)
}

// PointerDown hit-tests time. On a hit the marker becomes active and selected.
func (in *Interaction) PointerDown(time float64) (Marker, bool) {
	m, ok := in.store.HitTest(time, in.tolerance)
	if !ok {
		return Marker{}, false
	}

	if err := in.store.SetActive(m.ID); err != nil {
		return Marker{}, false
	}

	in.selected = m.ID
	in.phase = Selected
	m, _ = in.store.Get(m.ID)
	return m, true
}

// PointerMove drags the held marker to time. It returns false when nothing is held.
func (in *Interaction) PointerMove(time float64) bool {
	if in.phase == Idle {
		return false
	}

	if _, err := in.store.Drag(in.selected, time); err != nil {
		// marker vanished (store cleared mid-drag)
		in.reset()
		return false
	}

	in.phase = Dragging
	return true
}

// PointerUp releases the held marker
func (in *Interaction) PointerUp() {
	in.reset()
}

func (in *Interaction) reset() {
	in.selected = uuid.Nil
	in.phase = Idle
}
