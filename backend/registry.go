package backend

import (
	"errors"
	"sync"

	"github.com/gogpu/kiosk"
)

// Renderer name constants.
const (
	// RendererSoftware is the name of the CPU compositing renderer.
	RendererSoftware = "software"
	// RendererWGPU is the name of the GPU compositing renderer (gogpu/wgpu).
	RendererWGPU = "wgpu"
)

// ErrRendererNotAvailable is returned when a requested renderer is not
// registered or cannot be constructed on this machine.
var ErrRendererNotAvailable = errors.New("backend: renderer not available")

// RendererFactory creates a renderer instance, or returns nil when the
// renderer cannot run on this machine (no GPU, missing driver).
type RendererFactory func() kiosk.Renderer

// registry holds registered renderer factories.
var (
	registryMu sync.RWMutex
	renderers  = make(map[string]RendererFactory)
	// Priority order for renderer selection (first available wins).
	// WGPU > Software (WGPU composites on the GPU, Software is fallback).
	rendererPriority = []string{RendererWGPU, RendererSoftware}
)

// Register registers a renderer factory with the given name.
// This is typically called from init() functions in renderer packages.
// If a renderer with the same name is already registered, it is replaced.
func Register(name string, factory RendererFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	renderers[name] = factory
}

// Unregister removes a renderer from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(renderers, name)
}

// Available returns a list of registered renderer names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a renderer with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := renderers[name]
	return ok
}

// Get returns a renderer instance by name.
// Returns nil if the renderer is not registered or not constructible.
func Get(name string) kiosk.Renderer {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := renderers[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available renderer based on priority.
// Priority order: wgpu > software.
// Returns nil if no renderer is registered or constructible.
func Default() kiosk.Renderer {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range rendererPriority {
		if factory, ok := renderers[name]; ok {
			if r := factory(); r != nil {
				return r
			}
		}
	}

	// Fallback: first constructible renderer outside the priority list.
	for _, factory := range renderers {
		if r := factory(); r != nil {
			return r
		}
	}

	return nil
}

// Select resolves a configured renderer name to an instance. The empty
// string and "auto" select by priority; anything else requests that
// renderer exactly. Returns ErrRendererNotAvailable when nothing matches.
func Select(name string) (kiosk.Renderer, error) {
	if name == "" || name == "auto" {
		if r := Default(); r != nil {
			return r, nil
		}
		return nil, ErrRendererNotAvailable
	}
	if r := Get(name); r != nil {
		return r, nil
	}
	return nil, ErrRendererNotAvailable
}
