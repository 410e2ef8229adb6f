// ABOUTME: Environment configuration loader
// ABOUTME: Defaults, then WAVECUT_CONFIG JSON, then individual WAVECUT_* variables
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Loader loads configuration from environment variables. Tests can override
// Lookup to inject deterministic maps.
type Loader struct {
	Lookup func(string) (string, bool)
}

// Load retrieves the configuration from environment variables and validates it.
func (l Loader) Load() (Config, error) {
	cfg, err := l.Read()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply further overrides
// (command-line flags) and validate the result themselves.
func (l Loader) Read() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := Default()

	if raw, ok := l.Lookup("WAVECUT_CONFIG"); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(l.Lookup, "WAVECUT_VAD_ENGINE", &cfg.VADEngine)
	overrideString(l.Lookup, "WAVECUT_VAD_MODEL", &cfg.VADModel)
	overrideString(l.Lookup, "WAVECUT_LOG_LEVEL", &cfg.LogLevel)

	floats := []struct {
		key    string
		target *float64
	}{
		{"WAVECUT_MIN_SILENCE", &cfg.MinSilence},
		{"WAVECUT_SILENCE_THRESHOLD", &cfg.SilenceThreshold},
		{"WAVECUT_VAD_SPACING", &cfg.VADSpacing},
		{"WAVECUT_VAD_OVERLAP", &cfg.VADOverlap},
	}
	for _, f := range floats {
		if err := overrideFloat(l.Lookup, f.key, f.target); err != nil {
			return Config{}, err
		}
	}

	if err := overrideInt(l.Lookup, "WAVECUT_VAD_AGGRESSIVENESS", &cfg.VADAggressiveness); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "WAVECUT_VAD_FRAME_MS", &cfg.VADFrameMs); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyJSON(raw string, cfg *Config) error {
	type jsonConfig struct {
		MinSilence        *float64 `json:"min_silence"`
		SilenceThreshold  *float64 `json:"silence_threshold"`
		VADEngine         string   `json:"vad_engine"`
		VADModel          string   `json:"vad_model"`
		VADAggressiveness *int     `json:"vad_aggressiveness"`
		VADFrameMs        *int     `json:"vad_frame_ms"`
		VADSpacing        *float64 `json:"vad_spacing"`
		VADOverlap        *float64 `json:"vad_overlap"`
		LogLevel          string   `json:"log_level"`
	}
	var payload jsonConfig
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("config: decode WAVECUT_CONFIG: %w", err)
	}
	if payload.MinSilence != nil {
		cfg.MinSilence = *payload.MinSilence
	}
	if payload.SilenceThreshold != nil {
		cfg.SilenceThreshold = *payload.SilenceThreshold
	}
	if payload.VADEngine != "" {
		cfg.VADEngine = payload.VADEngine
	}
	if payload.VADModel != "" {
		cfg.VADModel = payload.VADModel
	}
	if payload.VADAggressiveness != nil {
		cfg.VADAggressiveness = *payload.VADAggressiveness
	}
	if payload.VADFrameMs != nil {
		cfg.VADFrameMs = *payload.VADFrameMs
	}
	if payload.VADSpacing != nil {
		cfg.VADSpacing = *payload.VADSpacing
	}
	if payload.VADOverlap != nil {
		cfg.VADOverlap = *payload.VADOverlap
	}
	if payload.LogLevel != "" {
		cfg.LogLevel = payload.LogLevel
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideFloat(lookup func(string) (string, bool), key string, target *float64) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}
