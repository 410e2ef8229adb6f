// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Sink interface with oto and silent implementations
// Package output provides audio playback sinks.
//
// Oto plays through the system audio device; Discard records clips and is
// used in batch mode and tests.
//
// Example:
//
//	sink := output.NewOto()
//	defer sink.Close()
//	err := sink.Play(pcm, 44100, 1)
package output
