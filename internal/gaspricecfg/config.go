// Package gaspricecfg holds the per-network gas-price cache configuration:
// whether caching is enabled, and the stale/expire thresholds, loaded the
// way the rest of this stack loads network config — YAML plus
// creasty/defaults, strict-decoded.
package gaspricecfg

import (
	"fmt"
	"time"

	"github.com/chainrelay/gas-core/internal/gaserrors"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Config holds the cache-timing settings for a single network. StaleAfterMs
// and ExpireAfterMs bound the Fresh/Stale/Expired state machine described in
// internal/gasprice.
type Config struct {
	Enabled       bool   `yaml:"enabled" default:"false"`
	StaleAfterMs  uint64 `yaml:"stale_after_ms" default:"20000"`
	ExpireAfterMs uint64 `yaml:"expire_after_ms" default:"45000"`
}

// DefaultConfig returns the defaults applied when a network's config file
// omits gas_price_cache entirely.
func DefaultConfig() *Config {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		panic(fmt.Sprintf("gaspricecfg: default tags invalid: %s", err))
	}
	return c
}

// StaleAfter is StaleAfterMs as a time.Duration.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterMs) * time.Millisecond
}

// ExpireAfter is ExpireAfterMs as a time.Duration.
func (c *Config) ExpireAfter() time.Duration {
	return time.Duration(c.ExpireAfterMs) * time.Millisecond
}

// Validate checks that the timing thresholds form a sane SWR window.
func (c *Config) Validate() error {
	if c.StaleAfterMs == 0 {
		return fmt.Errorf("%w: stale_after_ms must be greater than zero", gaserrors.ErrInvalidConfig)
	}
	if c.ExpireAfterMs == 0 {
		return fmt.Errorf("%w: expire_after_ms must be greater than zero", gaserrors.ErrInvalidConfig)
	}
	if c.ExpireAfterMs <= c.StaleAfterMs {
		return fmt.Errorf("%w: expire_after_ms (%d) must be greater than stale_after_ms (%d)",
			gaserrors.ErrInvalidConfig, c.ExpireAfterMs, c.StaleAfterMs)
	}
	return nil
}

// UnmarshalYAML applies defaults before decoding, matching the teacher's own
// loadConfig idiom (defaults.Set then yaml decode into a shadow type to
// avoid infinite UnmarshalYAML recursion).
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if err := defaults.Set(c); err != nil {
		return err
	}

	type plain Config

	return node.Decode((*plain)(c))
}
