package sprig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// OverflowPolicy decides what the renderer does with a sprite whose transform
// does not fit in the frame's transform buffer.
type OverflowPolicy uint8

const (
	OverflowDrop         OverflowPolicy = iota // skip the sprite
	OverflowReuseNearest                       // draw it with the closest transform already in the frame
	OverflowFail                               // skip it and return ErrCapacityExceeded from Draw
)

var overflowNames = [...]string{
	OverflowDrop:         "drop",
	OverflowReuseNearest: "reuse-nearest",
	OverflowFail:         "fail",
}

func (p OverflowPolicy) String() string {
	if int(p) < len(overflowNames) {
		return overflowNames[p]
	}
	return fmt.Sprintf("OverflowPolicy(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p OverflowPolicy) MarshalText() ([]byte, error) {
	if int(p) >= len(overflowNames) {
		return nil, fmt.Errorf("%w: unknown overflow policy %d", ErrInvalidConfig, uint8(p))
	}
	return []byte(overflowNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *OverflowPolicy) UnmarshalText(text []byte) error {
	for i, name := range overflowNames {
		if string(text) == name {
			*p = OverflowPolicy(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown overflow policy %q", ErrInvalidConfig, text)
}

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("sprig: invalid config")

// Config configures a Renderer.
type Config struct {
	// Capacity is the number of unique scale/rotation transforms per frame.
	Capacity int `json:"capacity"`
	// Overflow applies when a frame needs more than Capacity transforms.
	Overflow OverflowPolicy `json:"overflow"`
	// Debug prints per-frame stats to stderr and reports atlas misses.
	Debug bool `json:"debug"`
	// ScreenshotDir is where Renderer.Screenshot writes PNG files.
	ScreenshotDir string `json:"screenshot_dir"`
	// ClearColor fills the screen before each frame in Run. The zero value
	// leaves the screen as Ebitengine cleared it.
	ClearColor Color `json:"clear_color"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Capacity:      DefaultSRCapacity,
		Overflow:      OverflowDrop,
		ScreenshotDir: "screenshots",
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Capacity < 1 || c.Capacity > MaxSRCapacity {
		return fmt.Errorf("%w: capacity %d out of range 1..%d", ErrInvalidConfig, c.Capacity, MaxSRCapacity)
	}
	if int(c.Overflow) >= len(overflowNames) {
		return fmt.Errorf("%w: unknown overflow policy %d", ErrInvalidConfig, uint8(c.Overflow))
	}
	return nil
}

// ParseConfig parses a JSON or JSONC (comments, trailing commas) document.
// Fields that are absent keep their DefaultConfig values.
func ParseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid JSONC: %w", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sprig: read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
