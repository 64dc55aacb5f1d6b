// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - Errors returned to callers wrap this package's sentinel errors.
package config

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CachePath is the sqlite file backing the local cache.
	CachePath string `koanf:"cache_path"`

	// RemoteBaseURL points at the remote event log. Empty disables it.
	RemoteBaseURL string `koanf:"remote_base_url"`

	// RemoteTimeoutMS bounds each remote request.
	RemoteTimeoutMS int `koanf:"remote_timeout_ms"`

	// Locale is the BCP 47 tag used to collate display names.
	Locale string `koanf:"locale"`

	// Timezone is the IANA zone used for weekday and calendar bucketing.
	Timezone string `koanf:"timezone"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		CachePath:       "wasuremon.db",
		RemoteBaseURL:   "",
		RemoteTimeoutMS: 3000,
		Locale:          "ja",
		Timezone:        "Local",
	}
}

// RemoteTimeout returns RemoteTimeoutMS as a duration.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutMS) * time.Millisecond
}

// LocaleTag parses Locale.
func (c *Config) LocaleTag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("locale %q: %w", c.Locale, ErrInvalidConfig)
	}
	return tag, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, ErrInvalidConfig)
	}
	return loc, nil
}

// Validate checks the fields Load cannot default.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	}
	if c.CachePath == "" {
		return fmt.Errorf("cache_path must not be empty: %w", ErrInvalidConfig)
	}
	if c.RemoteTimeoutMS < 0 {
		return fmt.Errorf("remote_timeout_ms must not be negative: %w", ErrInvalidConfig)
	}
	if _, err := c.LocaleTag(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
