// ABOUTME: Editor configuration
// ABOUTME: Segmentation and voice activity settings with their defaults
package config

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/Resonate-Protocol/wavecut/pkg/segment"
	"github.com/Resonate-Protocol/wavecut/pkg/vad"
)

const (
	DefaultMinSilence        = segment.DefaultMinSilence
	DefaultSilenceThreshold  = segment.DefaultSilenceThreshold
	DefaultVADEngine         = vad.EngineAuto
	DefaultVADAggressiveness = 2
	DefaultVADFrameMs        = 30
	DefaultVADSpacing        = 0.5
	DefaultVADOverlap        = 0.0
	DefaultLogLevel          = "info"
)

// Config holds the editor configuration.
type Config struct {
	MinSilence        float64 `json:"min_silence"`
	SilenceThreshold  float64 `json:"silence_threshold"`
	VADEngine         string  `json:"vad_engine"`
	VADModel          string  `json:"vad_model"`
	VADAggressiveness int     `json:"vad_aggressiveness"`
	VADFrameMs        int     `json:"vad_frame_ms"`
	VADSpacing        float64 `json:"vad_spacing"`
	VADOverlap        float64 `json:"vad_overlap"`
	LogLevel          string  `json:"log_level"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		MinSilence:        DefaultMinSilence,
		SilenceThreshold:  DefaultSilenceThreshold,
		VADEngine:         DefaultVADEngine,
		VADAggressiveness: DefaultVADAggressiveness,
		VADFrameMs:        DefaultVADFrameMs,
		VADSpacing:        DefaultVADSpacing,
		VADOverlap:        DefaultVADOverlap,
		LogLevel:          DefaultLogLevel,
	}
}

// Validate checks every field
func (c Config) Validate() error {
	if c.MinSilence < 0 || math.IsNaN(c.MinSilence) {
		return fmt.Errorf("config: min_silence must be >= 0, got %v", c.MinSilence)
	}
	if c.SilenceThreshold <= 0 || c.SilenceThreshold > 1 {
		return fmt.Errorf("config: silence_threshold must be in (0, 1], got %v", c.SilenceThreshold)
	}

	switch strings.ToLower(c.VADEngine) {
	case vad.EngineAuto, vad.EngineSilero, vad.EngineEnergy:
	default:
		return fmt.Errorf("config: unknown vad_engine %q", c.VADEngine)
	}
	if strings.EqualFold(c.VADEngine, vad.EngineSilero) && c.VADModel == "" {
		return fmt.Errorf("config: vad_engine silero requires vad_model")
	}

	if err := c.VADParams().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Silence returns the silence segmenter settings
func (c Config) Silence() segment.Silence {
	return segment.Silence{
		Threshold:   c.SilenceThreshold,
		MinDuration: c.MinSilence,
	}
}

// VADParams returns the detector tuning
func (c Config) VADParams() vad.Params {
	return vad.Params{
		Aggressiveness: c.VADAggressiveness,
		FrameMs:        c.VADFrameMs,
		MinSpacing:     c.VADSpacing,
		Overlap:        c.VADOverlap,
	}
}

// VAD returns the detector selection
func (c Config) VAD() vad.Config {
	return vad.Config{
		Engine:    c.VADEngine,
		ModelPath: c.VADModel,
	}
}

// Level returns the slog level for LogLevel; unknown values map to info
func (c Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(value string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
