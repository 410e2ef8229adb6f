//go:build silero

// ABOUTME: Silero ONNX voice activity detector
// ABOUTME: Wraps silero-vad-go; requires the ONNX runtime at build and run time
package vad

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/streamer45/silero-vad-go/speech"
)

// speech probability threshold per aggressiveness level
var sileroThresholds = [4]float32{0.35, 0.5, 0.65, 0.8}

const sileroSpeechPadMs = 30

// Silero runs the Silero model over the whole buffer
type Silero struct {
	modelPath string
}

// NativeAvailable reports that the Silero detector is compiled in
func NativeAvailable() bool { return true }

// NewSilero creates a detector for the model at modelPath
func NewSilero(modelPath string) (Detector, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("silero: model path is required")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("silero: model not found: %w", err)
	}
	return &Silero{modelPath: modelPath}, nil
}

// DetectSpeechSegments runs the model. Aggressiveness picks the probability
// threshold and MinSpacing the minimum silence; the model has its own framing
// so FrameMs and Overlap do not apply.
func (s *Silero) DetectSpeechSegments(ctx context.Context, pcm []int16, sampleRate int, params Params) ([]Timestamp, error) {
	if sampleRate != 8000 && sampleRate != SampleRate {
		return nil, fmt.Errorf("silero: unsupported sample rate %d (supported: 8000, 16000)", sampleRate)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sd, err := speech.NewDetector(speech.DetectorConfig{
		ModelPath:            s.modelPath,
		SampleRate:           sampleRate,
		Threshold:            sileroThresholds[params.Aggressiveness],
		MinSilenceDurationMs: int(params.MinSpacing * 1000),
		SpeechPadMs:          sileroSpeechPadMs,
	})
	if err != nil {
		return nil, fmt.Errorf("silero: failed to create detector: %w", err)
	}
	defer sd.Destroy()

	samples := make([]float32, len(pcm))
	for i, v := range pcm {
		samples[i] = float32(v) / 32768
	}

	segments, err := sd.Detect(samples)
	if err != nil {
		return nil, fmt.Errorf("silero: detection failed: %w", err)
	}

	stamps := make([]Timestamp, 0, len(segments))
	for _, seg := range segments {
		start := int(math.Round(seg.SpeechStartAt * float64(sampleRate)))
		end := len(pcm)
		// zero end means speech ran to the end of the buffer
		if seg.SpeechEndAt > 0 {
			end = int(math.Round(seg.SpeechEndAt * float64(sampleRate)))
		}
		stamps = append(stamps, Timestamp{Start: start, End: end})
	}

	return stamps, nil
}
