package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/kiosk"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kioskd.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got := cfg.Mode(); got != (kiosk.Mode{Width: 1280, Height: 720, Refresh: 60000}) {
		t.Errorf("default mode = %v, want 1280x720@60000", got)
	}
	if got := cfg.DeviceTransform(); got != kiosk.TransformNormal {
		t.Errorf("default transform = %v, want normal", got)
	}
	if got := cfg.Background(); got != kiosk.DefaultBackground {
		t.Errorf("default background = %v, want the built-in gray", got)
	}
	if got := cfg.Cursor.Image; got != kiosk.DefaultCursorImage {
		t.Errorf("default cursor image = %q, want %q", got, kiosk.DefaultCursorImage)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load of a missing file = %+v, want the defaults", cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[output]
width = 1920
height = 1080
transform = "90"
scale = 2.0

[render]
renderer = "software"
background = "#1d2021"
frame_interval = "20ms"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Mode(); got != (kiosk.Mode{Width: 1920, Height: 1080, Refresh: 60000}) {
		t.Errorf("mode = %v, want 1920x1080 with the default refresh kept", got)
	}
	if got := cfg.DeviceTransform(); got != kiosk.Transform90 {
		t.Errorf("transform = %v, want 90", got)
	}
	if cfg.Output.Scale != 2 {
		t.Errorf("scale = %v, want 2", cfg.Output.Scale)
	}
	if cfg.Render.Renderer != "software" {
		t.Errorf("renderer = %q, want software", cfg.Render.Renderer)
	}
	if got := cfg.FrameInterval(); got != 20*time.Millisecond {
		t.Errorf("frame interval = %v, want 20ms", got)
	}
	if got := cfg.LogLevel(); got != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", got)
	}
	// Untouched sections keep their defaults.
	if cfg.Cursor.Theme != "default" || cfg.Cursor.Size != 24 {
		t.Errorf("cursor = %+v, want the defaults kept", cfg.Cursor)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[output]
wdith = 1920
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted a misspelled key")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for _, tt := range []struct {
		name string
		body string
	}{
		{"zero width", "[output]\nwidth = 0\n"},
		{"negative height", "[output]\nheight = -1\n"},
		{"zero scale", "[output]\nscale = 0.0\n"},
		{"bad transform", "[output]\ntransform = \"sideways\"\n"},
		{"bad background", "[render]\nbackground = \"red\"\n"},
		{"bad duration", "[render]\nframe_interval = \"soon\"\n"},
		{"bad log level", "[log]\nlevel = \"loud\"\n"},
		{"not toml", "output = {\n"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Errorf("Load accepted %q", tt.body)
			}
		})
	}
}

func TestBackgroundParsesHex(t *testing.T) {
	cfg := Default()
	cfg.Render.Background = "#ff0000"
	if got := cfg.Background(); got != (kiosk.RGBA{R: 1, A: 1}) {
		t.Errorf("Background() = %v, want opaque red", got)
	}
}

func TestFrameIntervalFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Render.FrameInterval = 0
	if got := cfg.FrameInterval(); got != Default().Render.FrameInterval.Duration() {
		t.Errorf("FrameInterval() with zero config = %v, want the default", got)
	}
}

func TestLogLevelFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = ""
	if got := cfg.LogLevel(); got != slog.LevelInfo {
		t.Errorf("LogLevel() with empty config = %v, want info", got)
	}
}

func TestDurationForms(t *testing.T) {
	for _, tt := range []struct {
		text string
		want time.Duration
	}{
		{"16ms", 16 * time.Millisecond},
		{"1s", time.Second},
		{"250", 250 * time.Millisecond},
	} {
		var d Duration
		if err := d.UnmarshalText([]byte(tt.text)); err != nil {
			t.Errorf("UnmarshalText(%q): %v", tt.text, err)
			continue
		}
		if d.Duration() != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.text, d.Duration(), tt.want)
		}
	}

	var d Duration
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText accepted a non-duration")
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath()
	if !strings.HasSuffix(got, filepath.Join("kioskd", "kioskd.toml")) {
		t.Errorf("DefaultPath() = %q, want a kioskd/kioskd.toml location", got)
	}
}
