// ABOUTME: Tests for the pointer interaction state machine
// ABOUTME: Tests phase transitions and their effect on the store
package marker

import "testing"

func TestInteractionHitSelectsAndActivates(t *testing.T) {
	s := NewStore(5)
	m := s.Add(1)
	in := NewInteraction(s, 0)

	if in.Phase() != Idle {
		t.Fatalf("expected idle, got %v", in.Phase())
	}

	hit, ok := in.PointerDown(1.01)
	if !ok || hit.ID != m.ID {
		t.Fatal("expected pointer-down to hit the marker")
	}
	if hit.State != Active {
		t.Error("expected returned marker to be active")
	}
	if in.Phase() != Selected {
		t.Errorf("expected selected, got %v", in.Phase())
	}
	if tm, ok := s.ActiveTime(); !ok || tm != 1 {
		t.Error("expected the store to record the active marker")
	}
}

func TestInteractionMissStaysIdle(t *testing.T) {
	s := NewStore(5)
	s.Add(1)
	in := NewInteraction(s, DefaultTolerance)

	if _, ok := in.PointerDown(3); ok {
		t.Fatal("expected miss")
	}
	if in.Phase() != Idle {
		t.Errorf("expected idle, got %v", in.Phase())
	}
	if in.PointerMove(4) {
		t.Error("move without a held marker must do nothing")
	}
	if _, ok := s.Active(); ok {
		t.Error("a miss must not activate anything")
	}
}

func TestInteractionDragCycle(t *testing.T) {
	s := NewStore(5)
	m := s.Add(1)
	other := s.Add(4)
	in := NewInteraction(s, DefaultTolerance)

	in.PointerDown(1)
	if !in.PointerMove(2.5) {
		t.Fatal("expected move to drag the marker")
	}
	if in.Phase() != Dragging {
		t.Errorf("expected dragging, got %v", in.Phase())
	}

	in.PointerMove(-3)
	got, _ := s.Get(m.ID)
	if got.Time != 0 {
		t.Errorf("expected drag clamped to 0, got %v", got.Time)
	}

	held, ok := in.Selected()
	if !ok || held.ID != m.ID {
		t.Error("expected the dragged marker to be held")
	}

	in.PointerUp()
	if in.Phase() != Idle {
		t.Errorf("expected idle after release, got %v", in.Phase())
	}
	if _, ok := in.Selected(); ok {
		t.Error("expected nothing held after release")
	}

	// Active survives release; moving afterwards changes nothing
	if tm, ok := s.ActiveTime(); !ok || tm != 0 {
		t.Errorf("expected active marker at 0, got %v (%v)", tm, ok)
	}
	in.PointerMove(3)
	got, _ = s.Get(other.ID)
	if got.Time != 4 {
		t.Error("released interaction must not move other markers")
	}
}

func TestInteractionMarkerClearedMidDrag(t *testing.T) {
	s := NewStore(5)
	s.Add(1)
	in := NewInteraction(s, DefaultTolerance)

	in.PointerDown(1)
	s.Clear()

	if in.PointerMove(2) {
		t.Error("expected move to fail once the marker is gone")
	}
	if in.Phase() != Idle {
		t.Errorf("expected idle, got %v", in.Phase())
	}
}

func TestInteractionSetTolerance(t *testing.T) {
	s := NewStore(60)
	s.Add(10)
	in := NewInteraction(s, DefaultTolerance)

	if _, ok := in.PointerDown(10.2); ok {
		t.Fatal("expected miss with default tolerance")
	}

	in.SetTolerance(0.3)
	if _, ok := in.PointerDown(10.2); !ok {
		t.Error("expected hit with widened tolerance")
	}

	in.SetTolerance(-1)
	if in.Tolerance() != DefaultTolerance {
		t.Errorf("expected default tolerance, got %v", in.Tolerance())
	}
}
