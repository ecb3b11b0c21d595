// Package config provides settings for the highlight pipeline, stored as a
// single JSON document. Values are read with gjson paths and updated with
// sjson, so the file round-trips without a schema struct; missing keys fall
// back to defaults.
package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Default values applied when a key is absent.
const (
	// DefaultAdjustDebounce is how long the selection must stay still before
	// an adjustment session commits.
	DefaultAdjustDebounce = 500 * time.Millisecond

	// DefaultRerenderWait is how long the controller waits after a commit for
	// the host to rebuild its rendered tree.
	DefaultRerenderWait = 150 * time.Millisecond

	// DefaultAffordanceWidth and DefaultAffordanceHeight size the floating
	// removal control, in logical pixels.
	DefaultAffordanceWidth  = 36.0
	DefaultAffordanceHeight = 36.0

	// DefaultAffordanceMargin is the gap between a highlight and its control.
	DefaultAffordanceMargin = 8.0

	// DefaultTouchScale enlarges the control's hit target on touch-first
	// platforms.
	DefaultTouchScale = 1.4
)

// Config is a thread-safe view over one JSON settings document.
type Config struct {
	mu   sync.RWMutex
	path string
	raw  string
}

// Default returns a Config with no backing file and all defaults.
func Default() *Config {
	return &Config{raw: "{}"}
}

// Load reads the settings file at path. A missing file is not an error: the
// returned Config uses defaults and Save will create the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{path: path, raw: "{}"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("load config %q: not valid JSON", path)
	}
	return &Config{path: path, raw: string(data)}, nil
}

// SessionConfig is a snapshot of the session-related settings. Mutating the
// snapshot does not modify the configuration; use Set.
type SessionConfig struct {
	// AdjustDebounce is the settle window for adjustment commits.
	AdjustDebounce time.Duration

	// RerenderWait is the post-commit wait before re-scanning for the
	// regenerated highlight node.
	RerenderWait time.Duration

	// TouchFirst overrides the platform's touch detection when TouchFirstSet
	// is true.
	TouchFirst    bool
	TouchFirstSet bool
}

// Session returns the session settings.
func (c *Config) Session() SessionConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := SessionConfig{
		AdjustDebounce: DefaultAdjustDebounce,
		RerenderWait:   DefaultRerenderWait,
	}
	if v := gjson.Get(c.raw, "session.adjust_debounce_ms"); v.Exists() {
		s.AdjustDebounce = time.Duration(v.Int()) * time.Millisecond
	}
	if v := gjson.Get(c.raw, "session.rerender_wait_ms"); v.Exists() {
		s.RerenderWait = time.Duration(v.Int()) * time.Millisecond
	}
	if v := gjson.Get(c.raw, "session.touch_first"); v.Exists() {
		s.TouchFirst = v.Bool()
		s.TouchFirstSet = true
	}
	return s
}

// AffordanceConfig is a snapshot of the floating-control settings.
type AffordanceConfig struct {
	// Width and Height are the control's logical size.
	Width  float64
	Height float64

	// Margin is the vertical gap below the highlight.
	Margin float64

	// TouchScale multiplies the hit target on touch-first platforms.
	TouchScale float64
}

// Affordance returns the floating-control settings.
func (c *Config) Affordance() AffordanceConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a := AffordanceConfig{
		Width:      DefaultAffordanceWidth,
		Height:     DefaultAffordanceHeight,
		Margin:     DefaultAffordanceMargin,
		TouchScale: DefaultTouchScale,
	}
	if v := gjson.Get(c.raw, "affordance.width"); v.Exists() {
		a.Width = v.Float()
	}
	if v := gjson.Get(c.raw, "affordance.height"); v.Exists() {
		a.Height = v.Float()
	}
	if v := gjson.Get(c.raw, "affordance.margin"); v.Exists() {
		a.Margin = v.Float()
	}
	if v := gjson.Get(c.raw, "affordance.touch_scale"); v.Exists() {
		a.TouchScale = v.Float()
	}
	return a
}

// Set updates one value by gjson path, e.g. "session.adjust_debounce_ms".
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := sjson.Set(c.raw, path, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", path, err)
	}
	c.raw = raw
	return nil
}

// Save writes the document back to its backing file. Saving a Config created
// with Default is an error.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.path == "" {
		return fmt.Errorf("save config: no backing file")
	}
	if err := os.WriteFile(c.path, []byte(c.raw), 0644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Raw returns the underlying JSON document.
func (c *Config) Raw() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.raw
}
