// Package probe drives a running jelajah server over HTTP and checks the
// recommendation responses against the properties every result must hold.
package probe

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Default settings.
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultWorkers = 8
	DefaultTimeout = 10 * time.Second
	DefaultUserID  = "probe-user"

	// MaxResults is the cap every recommendation list must respect.
	MaxResults = 10

	visitPollAttempts = 40
	visitPollInterval = 50 * time.Millisecond
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid probe configuration")

// Config holds the probe settings.
type Config struct {
	BaseURL string
	Workers int
	Timeout time.Duration
	UserID  string
	Verbose bool
	// SkipVisits disables the profile and visit flow.
	SkipVisits bool
}

// DefaultConfig returns a config pointing at a local server.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Workers: DefaultWorkers,
		Timeout: DefaultTimeout,
		UserID:  DefaultUserID,
	}
}

// Validate checks the config.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base url %q", ErrInvalidConfig, c.BaseURL)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.UserID) == "" && !c.SkipVisits {
		return fmt.Errorf("%w: user id required for the visit flow", ErrInvalidConfig)
	}
	return nil
}
