// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling of whole mono buffers.
//
// Example:
//
//	r := resample.New(44100, 16000)
//	pcm16k := r.Resample(waveform.Slice(0, waveform.Len()))
package resample
