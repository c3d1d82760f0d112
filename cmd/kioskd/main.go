// Command kioskd runs the kiosk compositor on a virtual display.
//
// It is the demo and smoke-test daemon: it builds a headless backend from
// the configuration, stacks a few demo views, and composites frames on a
// clock until interrupted. With -frames it renders a fixed number of
// frames and exits through the compositor's lost-output path; with -dump
// every presented frame is written out as a PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gogpu/kiosk"
	"github.com/gogpu/kiosk/backend"
	"github.com/gogpu/kiosk/backend/headless"
	"github.com/gogpu/kiosk/config"

	// Renderers register themselves with the backend registry.
	_ "github.com/gogpu/kiosk/backend/software"
	_ "github.com/gogpu/kiosk/backend/wgpu"
)

// Build-time variable, set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", config.DefaultPath(), "path to kioskd.toml")
		frames      = flag.Int("frames", 0, "render this many frames then exit (0 runs until interrupted)")
		dumpDir     = flag.String("dump", "", "write each presented frame as a PNG into this directory")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("kioskd", version)
		return
	}

	if err := run(*configPath, *frames, *dumpDir); err != nil {
		slog.Error("kioskd failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, frames int, dumpDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)
	kiosk.SetLogger(logger)

	r, err := backend.Select(cfg.Render.Renderer)
	if err != nil {
		return fmt.Errorf("renderer %q: %w", cfg.Render.Renderer, err)
	}

	be := headless.New(
		headless.WithRenderer(r),
		headless.WithCursorTheme(cfg.Cursor.Theme, cfg.Cursor.Size),
	)
	dev := be.AddDevice(cfg.Output.Name, []kiosk.Mode{cfg.Mode()},
		headless.WithScale(cfg.Output.Scale),
		headless.WithTransform(cfg.DeviceTransform()),
	)

	srv, err := kiosk.New(be,
		kiosk.WithBackground(cfg.Background()),
		kiosk.WithCursorImage(cfg.Cursor.Image),
	)
	if err != nil {
		return err
	}

	if err := spawnDemoViews(srv, r); err != nil {
		return err
	}

	if dumpDir != "" {
		if err := os.MkdirAll(dumpDir, 0o755); err != nil {
			return fmt.Errorf("dump directory: %w", err)
		}
	}

	// Subscribed after kiosk.New, so this handler sees each device after
	// the server has claimed it and runs after the server's render on
	// every tick: the framebuffer it reads is the frame just presented.
	rendered := 0
	be.OnNewDevice(func(d kiosk.Device) {
		d.OnFrame(func(time.Time) {
			rendered++
			if dumpDir != "" {
				if err := dumpFrame(dumpDir, rendered, dev.Framebuffer()); err != nil {
					slog.Error("frame dump failed", "frame", rendered, "error", err)
				}
			}
			if frames > 0 && rendered == frames {
				be.RemoveDevice(dev)
			}
		})
	})

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		slog.Info("signal received, terminating")
		srv.Terminate()
	}()

	slog.Info("kioskd starting",
		"version", version, "config", configPath,
		"renderer", cfg.Render.Renderer, "mode", fmt.Sprintf("%dx%d", cfg.Output.Width, cfg.Output.Height))

	be.StartFrameClock(cfg.FrameInterval())
	if err := srv.Run(); err != nil {
		return err
	}

	slog.Info("kioskd exiting", "frames", rendered)
	return nil
}

// spawnDemoViews stacks demo content: a dark panel with a white badge
// subsurface, a red toplevel raised above it, and a gradient committed in
// the 270 orientation so the compositor's transform sampling is visible.
func spawnDemoViews(srv *kiosk.Server, r kiosk.Renderer) error {
	panel, err := headless.NewColorSurface(r, 400, 300, kiosk.Hex("#1d2021"))
	if err != nil {
		return fmt.Errorf("demo panel: %w", err)
	}
	badge, err := headless.NewColorSurface(r, 80, 60, kiosk.White)
	if err != nil {
		return fmt.Errorf("demo badge: %w", err)
	}
	sh := headless.NewShell(panel)
	sh.Attach(badge, 20, 20)
	srv.Views().Insert(sh.View(40, 40))

	toplevel, err := headless.NewColorSurface(r, 160, 120, kiosk.Hex("#cc241d"))
	if err != nil {
		return fmt.Errorf("demo toplevel: %w", err)
	}
	srv.Views().Insert(headless.NewShell(toplevel).View(120, 200))

	sideways := headless.NewSurface(120, 180)
	if err := sideways.SetImage(r, gradient(120, 180)); err != nil {
		return fmt.Errorf("demo gradient: %w", err)
	}
	sideways.SetTransform(kiosk.Transform270)
	srv.Views().Insert(headless.NewShell(sideways).View(480, 120))

	return nil
}

// gradient builds a horizontal blue-to-orange ramp.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x) / float64(w-1)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(40 + 215*t),
				G: uint8(80 + 80*t),
				B: uint8(220 - 180*t),
				A: 255,
			})
		}
	}
	return img
}

func dumpFrame(dir string, n int, fb *image.RGBA) error {
	if fb == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame-%04d.png", n)))
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
