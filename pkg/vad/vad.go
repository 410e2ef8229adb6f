// ABOUTME: Detector interface, tuning parameters and engine selection
// ABOUTME: New picks Silero when compiled in with a model, else the energy detector
package vad

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"
)

// SampleRate is the rate detectors expect their input at
const SampleRate = 16000

// Engine names accepted by New
const (
	EngineAuto   = "auto"
	EngineSilero = "silero"
	EngineEnergy = "energy"
)

// Timestamp is a speech region as half-open sample indices
type Timestamp struct {
	Start int
	End   int
}

// Params tunes detection
type Params struct {
	// Aggressiveness from 0 (keeps most audio as speech) to 3 (strictest)
	Aggressiveness int
	// FrameMs is the analysis frame length
	FrameMs int
	// MinSpacing is the silence in seconds needed to split two speech regions
	MinSpacing float64
	// Overlap is the fraction of a frame shared with the next one, in [0, 1)
	Overlap float64
}

// DefaultParams returns the parameters the editor starts with
func DefaultParams() Params {
	return Params{
		Aggressiveness: 2,
		FrameMs:        30,
		MinSpacing:     0.5,
		Overlap:        0,
	}
}

// Validate checks parameter ranges
func (p Params) Validate() error {
	if p.Aggressiveness < 0 || p.Aggressiveness > 3 {
		return fmt.Errorf("aggressiveness must be between 0 and 3, got %d", p.Aggressiveness)
	}
	if p.FrameMs <= 0 || p.FrameMs > 1000 {
		return fmt.Errorf("frame length must be between 1 and 1000 ms, got %d", p.FrameMs)
	}
	if p.MinSpacing < 0 {
		return fmt.Errorf("minimum spacing must be >= 0, got %v", p.MinSpacing)
	}
	if p.Overlap < 0 || p.Overlap >= 1 {
		return fmt.Errorf("overlap must be in [0, 1), got %v", p.Overlap)
	}
	return nil
}

// Detector returns speech regions in pcm, ordered by start
type Detector interface {
	DetectSpeechSegments(ctx context.Context, pcm []int16, sampleRate int, params Params) ([]Timestamp, error)
}

// Config selects a detector
type Config struct {
	Engine    string
	ModelPath string
}

// New creates the detector named by cfg.Engine
func New(cfg Config) (Detector, error) {
	engine := strings.ToLower(strings.TrimSpace(cfg.Engine))
	if engine == "" {
		engine = EngineAuto
	}

	switch engine {
	case EngineEnergy:
		log.Printf("VAD: using energy detector")
		return NewEnergy(), nil
	case EngineSilero:
		det, err := NewSilero(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		log.Printf("VAD: using Silero model %s", cfg.ModelPath)
		return det, nil
	case EngineAuto:
		if NativeAvailable() && cfg.ModelPath != "" {
			det, err := NewSilero(cfg.ModelPath)
			if err == nil {
				log.Printf("VAD: using Silero model %s", cfg.ModelPath)
				return det, nil
			}
			slog.Warn("Silero unavailable, falling back to energy detector", "model", cfg.ModelPath, "error", err)
		}
		log.Printf("VAD: using energy detector")
		return NewEnergy(), nil
	default:
		return nil, fmt.Errorf("unknown VAD engine %q (expected %s, %s or %s)", cfg.Engine, EngineAuto, EngineSilero, EngineEnergy)
	}
}
