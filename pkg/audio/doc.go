// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Waveform types and sample conversion functions
// Package audio provides the waveform buffer every other wavecut package works against.
//
// This package defines:
//   - Format: Describes an uncompressed PCM stream (sample rate, channels, bit depth)
//   - Waveform: Immutable, peak-normalized mono samples plus their sample rate
//
// It also provides conversions between normalized floats and 16-bit PCM:
//   - FloatToInt16 rounds and clips (playback and export)
//   - FloatToInt16Trunc truncates and clips (voice activity input)
//
// Example:
//
//	w, err := audio.FromPCM(interleaved, 2, 44100) // keeps channel 0
//	if errors.Is(err, audio.ErrInvalidAudio) {
//	    // empty buffer or bad sample rate
//	}
//	fmt.Printf("%.2fs\n", w.Duration())
package audio
