// ABOUTME: Marker store package
// ABOUTME: Segment boundary markers and the pointer interaction that moves them
// Package marker holds the time markers placed on a waveform.
//
// Store is the ordered marker collection with hit-testing, a single active
// marker and next-marker lookup used to resolve segments. Interaction is the
// Idle/Selected/Dragging state machine a pointer drives over a Store.
//
// Example:
//
//	store := marker.NewStore(waveform.Duration())
//	store.Add(0.5)
//	in := marker.NewInteraction(store, marker.DefaultTolerance)
//	in.PointerDown(0.51) // activates the marker at 0.5
//	in.PointerMove(0.7)
//	in.PointerUp()
package marker
