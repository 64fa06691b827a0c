// Package config provides configuration helpers for go-camstream commands.
package config

import (
	"os"
	"strconv"
)

// Defaults used when the corresponding env var is not set.
const (
	DefaultFPS      = 24
	DefaultWebPort  = "8089"
	DefaultProbeMax = 10
	DefaultLogLevel = "info"
)

// DeviceID returns the capture device index from CAMSTREAM_DEVICE.
// Returns -1 (meaning "probe for one") if not set or not a number.
func DeviceID() int {
	if v := os.Getenv("CAMSTREAM_DEVICE"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return -1
}

// FPS returns the target capture rate from CAMSTREAM_FPS.
func FPS() int {
	if v := os.Getenv("CAMSTREAM_FPS"); v != "" {
		if fps, err := strconv.Atoi(v); err == nil && fps > 0 {
			return fps
		}
	}
	return DefaultFPS
}

// WebPort returns the dashboard port from CAMSTREAM_PORT.
func WebPort() string {
	if port := os.Getenv("CAMSTREAM_PORT"); port != "" {
		return port
	}
	return DefaultWebPort
}

// LogLevel returns the log level from LOG_LEVEL.
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}
