package kiosk

// ServerOption configures a Server during creation.
// Use functional options to customize Server behavior.
//
// Example:
//
//	// Default: backend renderer, neutral gray background
//	srv, err := kiosk.New(be)
//
//	// Custom renderer (dependency injection)
//	srv, err := kiosk.New(be, kiosk.WithRenderer(gpuRenderer))
type ServerOption func(*serverOptions)

// serverOptions holds optional configuration for Server creation.
type serverOptions struct {
	renderer    Renderer
	background  RGBA
	cursorImage string
}

// defaultOptions returns the default server options.
func defaultOptions() serverOptions {
	return serverOptions{
		renderer:    nil, // taken from the backend if nil
		background:  DefaultBackground,
		cursorImage: DefaultCursorImage,
	}
}

// WithRenderer sets a custom renderer for the Server, overriding the
// backend's own. Use this for dependency injection of GPU or custom
// renderers.
//
// Example:
//
//	r, err := wgpu.NewRenderer()
//	if err == nil {
//	    srv, err = kiosk.New(be, kiosk.WithRenderer(r))
//	}
func WithRenderer(r Renderer) ServerOption {
	return func(o *serverOptions) {
		o.renderer = r
	}
}

// WithBackground sets the frame clear color painted behind all surfaces.
//
// Example:
//
//	srv, err := kiosk.New(be, kiosk.WithBackground(kiosk.Hex("#1d2021")))
func WithBackground(c RGBA) ServerOption {
	return func(o *serverOptions) {
		o.background = c
	}
}

// WithCursorImage sets the named cursor image shown after a device is
// claimed. The default is [DefaultCursorImage].
func WithCursorImage(name string) ServerOption {
	return func(o *serverOptions) {
		if name != "" {
			o.cursorImage = name
		}
	}
}
