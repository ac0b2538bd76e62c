package viewer

// ViewerBuilderOption is a functional option for configuring a Viewer during construction.
type ViewerBuilderOption func(*viewer)

// WithTitle is an option builder that sets the window title.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - ViewerBuilderOption: a function that applies the title option to a viewer
func WithTitle(title string) ViewerBuilderOption {
	return func(v *viewer) {
		if title == "" {
			return
		}
		v.title = title
	}
}

// WithSize is an option builder that sets the requested window size in
// screen coordinates. The actual framebuffer size may differ on high-DPI
// displays. Non-positive values are ignored.
//
// Parameters:
//   - width: the requested window width
//   - height: the requested window height
//
// Returns:
//   - ViewerBuilderOption: a function that applies the size option to a viewer
func WithSize(width, height int) ViewerBuilderOption {
	return func(v *viewer) {
		if width <= 0 || height <= 0 {
			return
		}
		v.width = width
		v.height = height
	}
}

// WithVSync is an option builder that selects the surface present mode:
// Fifo when enabled (the default), Immediate when disabled.
//
// Parameters:
//   - enabled: true to synchronize presentation with the display refresh
//
// Returns:
//   - ViewerBuilderOption: a function that applies the present mode option to a viewer
func WithVSync(enabled bool) ViewerBuilderOption {
	return func(v *viewer) {
		v.vsync = enabled
	}
}
