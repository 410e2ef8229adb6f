// ABOUTME: Oto-based audio output implementation
// ABOUTME: Handles clip playback with software volume control using oto library
package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"log/slog"
	"sync"

	"github.com/Resonate-Protocol/wavecut/pkg/audio"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/decode"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/encode"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/resample"
	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using oto library
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	sampleRate int
	channels   int
	volume     int
	muted      bool
}

// NewOto creates a new Oto output. The device is opened lazily on the first Play.
func NewOto() *Oto {
	return &Oto{
		volume: 100,
		muted:  false,
	}
}

// Play starts playback of a 16-bit PCM clip
func (o *Oto) Play(pcm []byte, sampleRate, channels int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(pcm)%2 != 0 {
		return fmt.Errorf("PCM buffer has odd length %d", len(pcm))
	}

	// oto allows one context per process; mono clips at another rate are
	// resampled to the rate the device was opened with
	if o.otoCtx != nil && channels == 1 && o.channels == 1 && sampleRate != o.sampleRate {
		pcm = convertRate(pcm, sampleRate, o.sampleRate)
		sampleRate = o.sampleRate
	}

	if err := o.open(sampleRate, channels); err != nil {
		return err
	}

	o.stopLocked()

	o.player = o.otoCtx.NewPlayer(bytes.NewReader(applyVolume(pcm, o.volume, o.muted)))
	o.player.Play()

	return nil
}

// open initializes the oto context on first use
func (o *Oto) open(sampleRate, channels int) error {
	// If already initialized with same format, reuse the existing context
	if o.otoCtx != nil && o.sampleRate == sampleRate && o.channels == channels {
		return nil
	}

	// multi-channel format changes cannot be honoured
	if o.otoCtx != nil {
		return fmt.Errorf("output already opened at %dHz %dch, cannot switch to %dHz %dch",
			o.sampleRate, o.channels, sampleRate, channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// Stop halts the current clip
func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.stopLocked()
}

func (o *Oto) stopLocked() error {
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}

// IsPlaying reports whether a clip is still being played
func (o *Oto) IsPlaying() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.player != nil && o.player.IsPlaying()
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopLocked()
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend oto context: %w", err)
		}
	}
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.volume = clampVolume(volume)
	slog.Debug("volume changed", "volume", o.volume)
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.muted = muted
	slog.Debug("mute changed", "muted", muted)
}

// Volume returns current volume
func (o *Oto) Volume() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.volume
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.muted
}

// applyVolume scales 16-bit samples with clipping protection, returning a new buffer
func applyVolume(pcm []byte, volume int, muted bool) []byte {
	multiplier := getVolumeMultiplier(volume, muted)

	result := make([]byte, len(pcm))
	if multiplier == 1.0 {
		copy(result, pcm)
		return result
	}

	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		scaled := int64(float64(sample) * multiplier)

		// Clamp to 16-bit range to prevent overflow
		if scaled > audio.MaxInt16 {
			scaled = audio.MaxInt16
		} else if scaled < audio.MinInt16 {
			scaled = audio.MinInt16
		}

		binary.LittleEndian.PutUint16(result[i:], uint16(int16(scaled)))
	}

	return result
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}

// convertRate resamples mono 16-bit PCM from one rate to another
func convertRate(pcm []byte, from, to int) []byte {
	ints := decode.PCM16(pcm)
	samples := make([]float64, len(ints))
	for i, v := range ints {
		samples[i] = audio.Int16ToFloat(v)
	}
	return encode.EncodePCM16(resample.New(from, to).Resample(samples))
}
