// Package config loads the kioskd configuration.
//
// Configuration lives in a TOML file, by default
// $XDG_CONFIG_HOME/kioskd/kioskd.toml. A missing file is not an error:
// Load returns the defaults, so kioskd runs unconfigured. The decode is
// strict, so a misspelled key fails the load instead of being silently
// ignored.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/kiosk"
)

// Duration is a time.Duration that unmarshals from TOML strings like
// "16ms" or "1s", or from plain integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: want something like \"16ms\" or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the kioskd configuration.
type Config struct {
	Output OutputConfig `toml:"output"`
	Render RenderConfig `toml:"render"`
	Cursor CursorConfig `toml:"cursor"`
	Log    LogConfig    `toml:"log"`
}

// OutputConfig describes the virtual output kioskd creates.
type OutputConfig struct {
	// Name is the device name in logs; empty picks "virtual-0".
	Name string `toml:"name"`
	// Width and Height are the mode size in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// Refresh is the advertised refresh rate in millihertz, 0 for unknown.
	Refresh int `toml:"refresh"`
	// Scale is the logical-to-physical pixel multiplier.
	Scale float64 `toml:"scale"`
	// Transform is the output orientation: "normal", "90", "180", "270",
	// "flipped", "flipped-90", "flipped-180", "flipped-270".
	Transform string `toml:"transform"`
}

// RenderConfig selects the renderer and the frame parameters.
type RenderConfig struct {
	// Renderer names a registered renderer, or "auto" (also the empty
	// string) for priority selection.
	Renderer string `toml:"renderer"`
	// Background is the clear color as a hex string ("#1d2021"); empty
	// keeps the built-in neutral gray.
	Background string `toml:"background"`
	// FrameInterval is the refresh tick period of the frame clock.
	FrameInterval Duration `toml:"frame_interval"`
}

// CursorConfig describes the cursor theme.
type CursorConfig struct {
	Theme string `toml:"theme"`
	Size  int    `toml:"size"`
	// Image is the cursor image shown after the output is claimed.
	Image string `toml:"image"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level"`
}

// Default returns the configuration kioskd runs with when no file exists:
// a 1280x720 output at scale 1, automatic renderer selection, 60 ticks a
// second.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Width:     1280,
			Height:    720,
			Refresh:   60000,
			Scale:     1,
			Transform: "normal",
		},
		Render: RenderConfig{
			Renderer:      "auto",
			FrameInterval: Duration(16667 * time.Microsecond),
		},
		Cursor: CursorConfig{
			Theme: "default",
			Size:  24,
			Image: kiosk.DefaultCursorImage,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the standard location of the config file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "kioskd", "kioskd.toml")
}

// Load reads and validates the configuration at path. A file that does
// not exist yields the defaults; a file that exists but does not parse,
// names unknown keys, or fails validation is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the compositor cannot run
// with.
func (c *Config) Validate() error {
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return fmt.Errorf("output mode %dx%d: dimensions must be positive",
			c.Output.Width, c.Output.Height)
	}
	if c.Output.Refresh < 0 {
		return fmt.Errorf("output refresh %d: must not be negative", c.Output.Refresh)
	}
	if c.Output.Scale <= 0 {
		return fmt.Errorf("output scale %v: must be positive", c.Output.Scale)
	}
	if _, err := kiosk.ParseTransform(c.Output.Transform); err != nil {
		return fmt.Errorf("output transform: %w", err)
	}
	if c.Render.Background != "" && !validHex(c.Render.Background) {
		return fmt.Errorf("render background %q: not a hex color", c.Render.Background)
	}
	if c.Render.FrameInterval < 0 {
		return fmt.Errorf("frame interval %v: must not be negative",
			c.Render.FrameInterval.Duration())
	}
	if c.Cursor.Size < 0 {
		return fmt.Errorf("cursor size %d: must not be negative", c.Cursor.Size)
	}
	if c.Log.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return fmt.Errorf("log level %q: want debug, info, warn, or error", c.Log.Level)
		}
	}
	return nil
}

// Mode returns the configured output mode.
func (c *Config) Mode() kiosk.Mode {
	return kiosk.Mode{
		Width:   c.Output.Width,
		Height:  c.Output.Height,
		Refresh: c.Output.Refresh,
	}
}

// DeviceTransform returns the configured output orientation.
func (c *Config) DeviceTransform() kiosk.Transform {
	t, err := kiosk.ParseTransform(c.Output.Transform)
	if err != nil {
		return kiosk.TransformNormal
	}
	return t
}

// Background returns the configured clear color, or the built-in default
// when none is set.
func (c *Config) Background() kiosk.RGBA {
	if c.Render.Background == "" {
		return kiosk.DefaultBackground
	}
	return kiosk.Hex(c.Render.Background)
}

// FrameInterval returns the frame clock period, falling back to the
// default when unset.
func (c *Config) FrameInterval() time.Duration {
	if d := c.Render.FrameInterval.Duration(); d > 0 {
		return d
	}
	return Default().Render.FrameInterval.Duration()
}

// LogLevel returns the configured slog level, info when unset.
func (c *Config) LogLevel() slog.Level {
	var l slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo
	}
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// validHex reports whether s looks like a parseable hex color: an
// optional "#" followed by 3, 4, 6, or 8 hex digits.
func validHex(s string) bool {
	if s != "" && s[0] == '#' {
		s = s[1:]
	}
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
		if !ok {
			return false
		}
	}
	return true
}
