// Package configuration implements reading of optional configuration files.
// Files use the generic Unix key=value format and supply defaults that
// explicit command-line flags take precedence over.
package configuration

import (
	"fmt"
	"strconv"
	"time"
)

// Configuration file keys understood by the application.
const (
	KeyDirectory   = "ATIMES_DIRECTORY"
	KeyRecursive   = "ATIMES_RECURSIVE"
	KeyStaleAfter  = "ATIMES_STALE_AFTER"
	KeyShowAge     = "ATIMES_SHOW_AGE"
	KeyFingerprint = "ATIMES_FINGERPRINT"
	KeyUI          = "ATIMES_UI"
)

// genericConfigProvider defines methods needed for configuration reading.
type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// Handler is the principal implementation of a configuration [Handler].
type Handler struct {
	configOps genericConfigProvider
}

// NewHandler returns a pointer to a new configuration [Handler].
func NewHandler(configOps genericConfigProvider) *Handler {
	return &Handler{
		configOps: configOps,
	}
}

// ReadFile reads a configuration file into a map (map[key]value).
func (c *Handler) ReadFile(path string) (map[string]string, error) {
	envMap, err := c.configOps.Read(path)
	if err != nil {
		return nil, fmt.Errorf("(config) failed to read file: %w", err)
	}

	return envMap, nil
}

// MapKeyToString returns the string value for a key, or "" when unset.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return value
	}

	return ""
}

// MapKeyToBool returns the boolean value for a key, with unset or
// unparseable values becoming false.
func (c *Handler) MapKeyToBool(envMap map[string]string, key string) bool {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return false
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}

	return boolValue
}

// MapKeyToDuration returns the duration value for a key, with unset or
// unparseable values becoming zero.
func (c *Handler) MapKeyToDuration(envMap map[string]string, key string) time.Duration {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return 0
	}

	durationValue, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}

	return durationValue
}
