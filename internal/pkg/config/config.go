package config

import (
	"io"
	"time"
)

// Config is the read-only view of the service configuration.
//
// Getters never fail: a missing or unconvertible key yields the zero value,
// so callers that need a default check IsSet first.
type Config interface {
	io.Closer

	// IsSet reports whether key has a value from the file or the environment.
	IsSet(key string) bool

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetUint(key string) uint
	GetUint64(key string) uint64
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration

	// GetArray reads either a YAML list or a comma separated string.
	// Elements are trimmed and empty ones dropped.
	GetArray(key string) []string
}
