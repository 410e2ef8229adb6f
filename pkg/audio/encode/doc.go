// ABOUTME: Audio encoder package for encoding normalized samples to PCM
// ABOUTME: 16-bit PCM packing and a WAV writer
// Package encode provides the output side of wavecut.
//
// Supports: PCM (16-bit mono), WAV container (RIFF/WAVE, format 1)
//
// Samples are normalized floats in [-1, 1]; values outside that range are
// clipped to the int16 range rather than wrapping.
//
// Example:
//
//	pcm := encode.EncodePCM16(samples)
//	err := encode.WriteWAVFile("fragment.wav", pcm, 44100)
package encode
