package kiosk

import (
	"errors"
	"testing"
	"time"
)

func TestNewRequiresBackend(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, ErrNoBackend) {
		t.Errorf("New(nil) error = %v, want ErrNoBackend", err)
	}
}

func TestNewRequiresRenderer(t *testing.T) {
	b := newFakeBackend()
	b.renderer = nil

	_, err := New(b)
	if !errors.Is(err, ErrNoRenderer) {
		t.Errorf("New with rendererless backend error = %v, want ErrNoRenderer", err)
	}
}

func TestWithRendererOverridesBackendRenderer(t *testing.T) {
	b := newFakeBackend()
	override := &fakeRenderer{}

	if _, err := New(b, WithRenderer(override)); err != nil {
		t.Fatalf("New: %v", err)
	}

	d := device1080p()
	b.emitNewDevice(d)
	d.emitFrame(time.Now())

	if len(override.clears) != 1 {
		t.Error("override renderer was not used for the frame")
	}
	if backendRenderer := b.renderer.(*fakeRenderer); len(backendRenderer.ops) != 0 {
		t.Error("backend renderer was used despite the override")
	}
}

func TestWithRendererAloneSatisfiesRendererRequirement(t *testing.T) {
	b := newFakeBackend()
	b.renderer = nil

	_, err := New(b, WithRenderer(&fakeRenderer{}))
	if err != nil {
		t.Errorf("New with injected renderer error = %v, want nil", err)
	}
}

func TestRunStartsBackendAndClosesOnTermination(t *testing.T) {
	b := newFakeBackend()
	s, err := New(b)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.Terminate()
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if b.started != 1 {
		t.Errorf("backend started %d times, want 1", b.started)
	}
	if b.closed != 1 {
		t.Errorf("backend closed %d times, want 1", b.closed)
	}
}

func TestRunPropagatesBackendStartError(t *testing.T) {
	b := newFakeBackend()
	b.startErr = errors.New("no displays")
	s, err := New(b)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Run(); !errors.Is(err, b.startErr) {
		t.Errorf("Run error = %v, want wrapped start error", err)
	}
	if b.closed != 0 {
		t.Error("backend closed after a failed start")
	}
}

func TestDeviceRemovalEndsRun(t *testing.T) {
	b := newFakeBackend()
	s, err := New(b)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := device1080p()
	b.emitNewDevice(d)

	// Removal is delivered through the loop like a real backend would.
	s.Loop().Post(func() { d.emitRemove() })

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the device was removed")
	}
	if s.Output() != nil {
		t.Error("output slot still claimed after Run returned")
	}
}

func TestServerAccessors(t *testing.T) {
	b := newFakeBackend()
	s, err := New(b, WithBackground(Hex("#123456")), WithCursorImage("crosshair"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if s.Views() == nil || s.Layout() == nil || s.Loop() == nil || s.Seat() == nil {
		t.Fatal("accessor returned nil")
	}
	if s.Renderer() != b.renderer {
		t.Error("Renderer() is not the backend renderer")
	}
	if s.Output() != nil {
		t.Error("Output() non-nil before any device attached")
	}
	if s.Background() != Hex("#123456") {
		t.Errorf("Background() = %+v, want configured color", s.Background())
	}

	d := device1080p()
	b.emitNewDevice(d)
	if got := b.cursor.images; len(got) != 1 || got[0] != "crosshair" {
		t.Errorf("SetImage calls = %v, want [crosshair]", got)
	}
	if s.Seat().Cursor() == nil {
		t.Error("Seat().Cursor() is nil with a cursor-capable backend")
	}
}
