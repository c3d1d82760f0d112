package backend

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/kiosk"
)

// stubRenderer is the minimal kiosk.Renderer for registry tests.
type stubRenderer struct {
	name string
}

var _ kiosk.Renderer = (*stubRenderer)(nil)

func (r *stubRenderer) MakeCurrent(kiosk.Device) error                { return nil }
func (r *stubRenderer) Begin(int, int)                                {}
func (r *stubRenderer) Clear(kiosk.RGBA)                              {}
func (r *stubRenderer) DrawTexture(kiosk.Texture, kiosk.Matrix) error { return nil }
func (r *stubRenderer) End()                                          {}
func (r *stubRenderer) NewTexture(image.Image) (kiosk.Texture, error) { return nil, nil }

// cleanRegistry snapshots the registry and restores it after the test, so
// tests can register freely without leaking into each other.
func cleanRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := renderers
	renderers = make(map[string]RendererFactory)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		renderers = saved
		registryMu.Unlock()
	})
}

func TestRegisterAndGet(t *testing.T) {
	cleanRegistry(t)

	want := &stubRenderer{name: "a"}
	Register("a", func() kiosk.Renderer { return want })

	if !IsRegistered("a") {
		t.Fatal("IsRegistered(a) = false after Register")
	}
	if got := Get("a"); got != want {
		t.Errorf("Get(a) = %v, want the registered instance", got)
	}
	if got := Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
}

func TestUnregister(t *testing.T) {
	cleanRegistry(t)

	Register("a", func() kiosk.Renderer { return &stubRenderer{} })
	Unregister("a")

	if IsRegistered("a") {
		t.Error("renderer still registered after Unregister")
	}
	if len(Available()) != 0 {
		t.Errorf("Available() = %v, want empty", Available())
	}
}

func TestDefaultPrefersWGPU(t *testing.T) {
	cleanRegistry(t)

	software := &stubRenderer{name: RendererSoftware}
	gpu := &stubRenderer{name: RendererWGPU}
	Register(RendererSoftware, func() kiosk.Renderer { return software })
	Register(RendererWGPU, func() kiosk.Renderer { return gpu })

	if got := Default(); got != gpu {
		t.Errorf("Default() = %v, want the wgpu renderer", got)
	}
}

func TestDefaultSkipsUnconstructibleFactories(t *testing.T) {
	cleanRegistry(t)

	software := &stubRenderer{name: RendererSoftware}
	// A wgpu factory on a machine without a GPU returns nil.
	Register(RendererWGPU, func() kiosk.Renderer { return nil })
	Register(RendererSoftware, func() kiosk.Renderer { return software })

	if got := Default(); got != software {
		t.Errorf("Default() = %v, want the software fallback", got)
	}
}

func TestDefaultEmptyRegistry(t *testing.T) {
	cleanRegistry(t)

	if got := Default(); got != nil {
		t.Errorf("Default() = %v with empty registry, want nil", got)
	}
}

func TestSelect(t *testing.T) {
	cleanRegistry(t)

	software := &stubRenderer{name: RendererSoftware}
	Register(RendererSoftware, func() kiosk.Renderer { return software })
	Register(RendererWGPU, func() kiosk.Renderer { return nil })

	tests := []struct {
		name    string
		request string
		want    kiosk.Renderer
		wantErr error
	}{
		{"empty means auto", "", software, nil},
		{"auto", "auto", software, nil},
		{"exact name", RendererSoftware, software, nil},
		{"unknown name", "vulkan", nil, ErrRendererNotAvailable},
		{"registered but unavailable", RendererWGPU, nil, ErrRendererNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.request)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Select(%q) error = %v, want %v", tt.request, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Select(%q) = %v, want %v", tt.request, got, tt.want)
			}
		})
	}
}
