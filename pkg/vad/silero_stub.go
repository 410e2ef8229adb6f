//go:build !silero

// ABOUTME: Silero placeholder for builds without the silero tag
// ABOUTME: Reports the model as unavailable so New falls back to the energy detector
package vad

import "errors"

// ErrNativeUnavailable indicates the Silero detector is not compiled in
var ErrNativeUnavailable = errors.New("vad: silero backend not available (build without -tags silero)")

// NativeAvailable reports that no Silero detector is compiled in
func NativeAvailable() bool { return false }

// NewSilero returns an error when built without the silero tag
func NewSilero(_ string) (Detector, error) {
	return nil, ErrNativeUnavailable
}
