// ABOUTME: Silent audio output
// ABOUTME: Records clips, volume applied, instead of playing them, for batch mode and headless hosts
package output

import (
	"fmt"
	"sync"
)

// Clip is a recorded Play call
type Clip struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// Discard is a Sink that never touches an audio device
type Discard struct {
	mu     sync.Mutex
	clips  []Clip
	volume int
	muted  bool
}

// NewDiscard creates a new silent sink at full volume
func NewDiscard() *Discard {
	return &Discard{volume: 100}
}

// Play records the clip
func (d *Discard) Play(pcm []byte, sampleRate, channels int) error {
	if len(pcm)%2 != 0 {
		return fmt.Errorf("PCM buffer has odd length %d", len(pcm))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	buf := applyVolume(pcm, d.volume, d.muted)
	d.clips = append(d.clips, Clip{PCM: buf, SampleRate: sampleRate, Channels: channels})
	return nil
}

// Stop is a no-op
func (d *Discard) Stop() error { return nil }

// Close is a no-op
func (d *Discard) Close() error { return nil }

// Clips returns every clip played so far
func (d *Discard) Clips() []Clip {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Clip, len(d.clips))
	copy(out, d.clips)
	return out
}

// SetVolume sets the volume applied to recorded clips (0-100)
func (d *Discard) SetVolume(volume int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = clampVolume(volume)
}

// Volume returns current volume
func (d *Discard) Volume() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume
}

// SetMuted sets mute state
func (d *Discard) SetMuted(muted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.muted = muted
}

// IsMuted returns mute state
func (d *Discard) IsMuted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.muted
}

// IsPlaying is always false; clips are recorded, not played
func (d *Discard) IsPlaying() bool { return false }
