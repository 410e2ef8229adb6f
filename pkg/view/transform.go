// ABOUTME: Time <-> view coordinate mapping under zoom and pan
// ABOUTME: Keeps the visible window inside [0, duration] with width duration/zoom
package view

import "math"

const (
	// ZoomFactor is applied per zoom step
	ZoomFactor = 1.2

	// MinZoom shows the full duration
	MinZoom = 1.0

	// MinWindowSamples is the narrowest window the zoom may reach
	MinWindowSamples = 16
)

// Transform maps between absolute time and a pixel (or column) axis
type Transform struct {
	duration float64
	zoom     float64
	maxZoom  float64
	start    float64
	end      float64
}

// New creates a transform showing the whole buffer.
// sampleRate bounds the zoom so the window never narrows below MinWindowSamples.
func New(duration float64, sampleRate int) *Transform {
	maxZoom := MinZoom
	if sampleRate > 0 && duration > 0 {
		maxZoom = math.Max(MinZoom, duration*float64(sampleRate)/MinWindowSamples)
	}

	return &Transform{
		duration: duration,
		zoom:     MinZoom,
		maxZoom:  maxZoom,
		start:    0,
		end:      duration,
	}
}

// Duration returns the length of the underlying buffer in seconds
func (t *Transform) Duration() float64 { return t.duration }

// Zoom returns the current zoom factor
func (t *Transform) Zoom() float64 { return t.zoom }

// MaxZoom returns the zoom bound
func (t *Transform) MaxZoom() float64 { return t.maxZoom }

// Window returns the visible time range
func (t *Transform) Window() (start, end float64) {
	return t.start, t.end
}

// Width returns the visible span in seconds
func (t *Transform) Width() float64 {
	return t.end - t.start
}

// ZoomIn multiplies the zoom by ZoomFactor and recenters on center.
// A nil center uses the middle of the buffer.
func (t *Transform) ZoomIn(center *float64) {
	t.setZoom(t.zoom*ZoomFactor, center)
}

// ZoomOut divides the zoom by ZoomFactor and recenters on center
func (t *Transform) ZoomOut(center *float64) {
	t.setZoom(t.zoom/ZoomFactor, center)
}

// Reset shows the full buffer again
func (t *Transform) Reset() {
	t.zoom = MinZoom
	t.start = 0
	t.end = t.duration
}

func (t *Transform) setZoom(zoom float64, center *float64) {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > t.maxZoom {
		zoom = t.maxZoom
	}
	t.zoom = zoom

	c := t.duration / 2
	if center != nil {
		c = *center
	}
	t.place(c - t.duration/t.zoom/2)
}

// Pan shifts the window by delta seconds, stopping at the buffer edges
func (t *Transform) Pan(delta float64) {
	t.place(t.start + delta)
}

// place positions a window of width duration/zoom starting at left,
// shifting it back inside [0, duration] if it overhangs either edge
func (t *Transform) place(left float64) {
	width := t.duration / t.zoom
	switch {
	case math.IsNaN(left) || width >= t.duration:
		left = 0
	case math.IsInf(left, 1):
		left = t.duration - width
	}

	right := left + width
	if right > t.duration {
		left -= right - t.duration
		right = t.duration
	}
	if left < 0 {
		left = 0
		right = math.Min(width, t.duration)
	}

	t.start = left
	t.end = right
}

// TimeToX maps a time to an x position on an axis of the given width
func (t *Transform) TimeToX(seconds float64, width int) float64 {
	span := t.end - t.start
	if width <= 0 || span <= 0 {
		return 0
	}
	return (seconds - t.start) / span * float64(width)
}

// XToTime maps an x position on an axis of the given width back to time
func (t *Transform) XToTime(x float64, width int) float64 {
	if width <= 0 {
		return t.start
	}
	return t.start + x/float64(width)*(t.end-t.start)
}

// Visible reports whether a time falls inside the window
func (t *Transform) Visible(seconds float64) bool {
	return seconds >= t.start && seconds <= t.end
}
