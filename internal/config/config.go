package config

import (
	"os"
	"strconv"
	"time"
)

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Audio device
	SampleRate int
	BufferSize time.Duration
	Volume     float64 // player volume, 0-1
	MaxVoices  int     // voices sounding at once before new ones are dropped

	// Tone
	NoteDuration float64 // seconds
	Velocity     float64 // clamped to 0.15-0.9 by the synthesizer
	HammerNoise  bool    // onset noise burst

	// Logging
	LogFile string // TUI log destination, discarded when empty
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		SampleRate: envInt("MELODY_SAMPLE_RATE", 48000),
		BufferSize: time.Duration(envInt("MELODY_BUFFER_MS", 40)) * time.Millisecond,
		Volume:     envFloat("MELODY_VOLUME", 0.8),
		MaxVoices:  envInt("MELODY_MAX_VOICES", 32),

		NoteDuration: envFloat("MELODY_NOTE_DURATION", 1.8),
		Velocity:     envFloat("MELODY_VELOCITY", 0.7),
		HammerNoise:  envBool("MELODY_HAMMER_NOISE", false),

		LogFile: envStr("MELODY_LOG_FILE", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
