// ABOUTME: Pure-Go voice activity detector based on frame RMS energy
// ABOUTME: Uses hysteresis so brief dips and clicks do not split or start speech
package vad

import (
	"context"
	"fmt"
	"math"
)

// speech-start RMS per aggressiveness level
var energyThresholds = [4]float64{0.008, 0.012, 0.015, 0.02}

const (
	// silence threshold as a fraction of the speech threshold
	energyReleaseRatio = 0.55
	// consecutive loud frames needed to start speech
	energyAttackFrames = 3
	// frames between cancellation checks
	energyCheckEvery = 1024
)

// Energy detects speech as sustained frame RMS above a threshold
type Energy struct{}

// NewEnergy creates an energy detector
func NewEnergy() *Energy {
	return &Energy{}
}

// DetectSpeechSegments scans pcm frame by frame. A region opens after
// energyAttackFrames loud frames and closes after MinSpacing of quiet frames.
func (e *Energy) DetectSpeechSegments(ctx context.Context, pcm []int16, sampleRate int, params Params) ([]Timestamp, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	frame := params.FrameMs * sampleRate / 1000
	if frame < 1 {
		frame = 1
	}
	hop := int(float64(frame) * (1 - params.Overlap))
	if hop < 1 {
		hop = 1
	}

	speechThreshold := energyThresholds[params.Aggressiveness]
	silenceThreshold := speechThreshold * energyReleaseRatio
	releaseFrames := int(math.Ceil(params.MinSpacing * float64(sampleRate) / float64(hop)))
	if releaseFrames < 1 {
		releaseFrames = 1
	}

	var (
		stamps       []Timestamp
		inSpeech     bool
		speechCount  int
		silenceCount int
		runStart     int
		quietStart   int
	)

	for n, pos := 0, 0; pos < len(pcm); n, pos = n+1, pos+hop {
		if n%energyCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		end := pos + frame
		if end > len(pcm) {
			end = len(pcm)
		}
		level := rms(pcm[pos:end])

		if inSpeech {
			if level < silenceThreshold {
				if silenceCount == 0 {
					quietStart = pos
				}
				silenceCount++
				if silenceCount >= releaseFrames {
					stamps = append(stamps, Timestamp{Start: runStart, End: quietStart})
					inSpeech = false
					silenceCount = 0
				}
			} else {
				silenceCount = 0
			}
			continue
		}

		if level >= speechThreshold {
			if speechCount == 0 {
				runStart = pos
			}
			speechCount++
			if speechCount >= energyAttackFrames {
				inSpeech = true
				speechCount = 0
			}
		} else {
			speechCount = 0
		}
	}

	if inSpeech {
		end := len(pcm)
		if silenceCount > 0 {
			end = quietStart
		}
		stamps = append(stamps, Timestamp{Start: runStart, End: end})
	}

	return stamps, nil
}

func rms(pcm []int16) float64 {
	if len(pcm) == 0 {
		return 0
	}
	var sum float64
	for _, s := range pcm {
		v := float64(s) / 32768
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(pcm)))
}
