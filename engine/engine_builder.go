package engine

import (
	"time"

	"github.com/Carmen-Shannon/nimbus-go/engine/gesture"
	"github.com/Carmen-Shannon/nimbus-go/engine/morph"
	"github.com/Carmen-Shannon/nimbus-go/engine/tracking"
	"github.com/Carmen-Shannon/nimbus-go/engine/viewer"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithAnimator sets the morph animator driving the particle cloud.
// Required; NewEngine panics without one.
//
// Parameters:
//   - a: a pre-configured Animator instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAnimator(a morph.Animator) EngineBuilderOption {
	return func(e *engine) {
		e.animator = a
	}
}

// WithViewer sets a pre-configured presentation window. Without one the
// engine runs headless: the animator still ticks, nothing is drawn.
//
// Parameters:
//   - v: a pre-configured Viewer instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewer(v viewer.Viewer) EngineBuilderOption {
	return func(e *engine) {
		e.viewer = v
	}
}

// WithRecognizer replaces the default gesture recognizer.
//
// Parameters:
//   - r: a pre-configured Recognizer instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRecognizer(r gesture.Recognizer) EngineBuilderOption {
	return func(e *engine) {
		if r == nil {
			return
		}
		e.recognizer = r
	}
}

// WithTrackingSource sets the landmark source started by Run and stopped
// on shutdown. Without one, landmarks can still be pushed through
// Engine.OnLandmarks.
//
// Parameters:
//   - s: a pre-configured tracking Source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTrackingSource(s tracking.Source) EngineBuilderOption {
	return func(e *engine) {
		e.source = s
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// The tick callback will be called at this rate for logic updates.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
