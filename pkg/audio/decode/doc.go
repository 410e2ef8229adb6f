// ABOUTME: Audio decoder package for uncompressed PCM input
// ABOUTME: 16-bit PCM unpacking and a WAV reader
// Package decode provides the input side of wavecut.
//
// Supports: PCM (16-bit) byte streams, WAV files with integer PCM or
// IEEE float (32/64-bit) samples, including WAVE_FORMAT_EXTENSIBLE.
//
// Multi-channel WAV files are reduced to their first channel and the result
// is peak-normalized into an audio.Waveform.
//
// Example:
//
//	waveform, format, err := decode.LoadWAV("take1.wav")
//	if errors.Is(err, audio.ErrInvalidAudio) {
//	    // unreadable or empty file
//	}
package decode
