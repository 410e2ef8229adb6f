// ABOUTME: View transform package
// ABOUTME: Zoom, pan and time-to-column mapping for waveform display
// Package view maps between audio time and screen columns.
//
// A Transform holds the visible window of a waveform under zoom and pan.
// It owns no pixel state: callers pass the axis width on every conversion.
package view
