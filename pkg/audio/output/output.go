// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for playback backends that accept 16-bit PCM
package output

// Sink plays 16-bit little-endian PCM clips
type Sink interface {
	// Play starts playback of pcm, replacing any clip still playing.
	// It does not wait for playback to finish.
	Play(pcm []byte, sampleRate, channels int) error

	// Stop halts the current clip, if any
	Stop() error

	// Close releases output resources
	Close() error
}

// Mixer is implemented by sinks with software volume control
type Mixer interface {
	// SetVolume sets the volume (0-100), clamping out-of-range values
	SetVolume(volume int)
	Volume() int
	SetMuted(muted bool)
	IsMuted() bool
	// IsPlaying reports whether a clip is still being played
	IsPlaying() bool
}
