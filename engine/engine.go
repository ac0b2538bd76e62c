package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/nimbus-go/engine/gesture"
	"github.com/Carmen-Shannon/nimbus-go/engine/landmark"
	"github.com/Carmen-Shannon/nimbus-go/engine/morph"
	"github.com/Carmen-Shannon/nimbus-go/engine/profiler"
	"github.com/Carmen-Shannon/nimbus-go/engine/tracking"
	"github.com/Carmen-Shannon/nimbus-go/engine/viewer"
)

// engine implements the Engine interface.
// Coordinates the tick, render, and window event threads and wires the
// tracking source through the gesture recognizer into the animator.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	viewer     viewer.Viewer
	animator   morph.Animator
	recognizer gesture.Recognizer
	source     tracking.Source

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point. It orchestrates the tick loop, the
// render loop, window event processing, and the gesture-to-morph wiring.
type Engine interface {
	// Viewer returns the underlying presentation window.
	//
	// Returns:
	//   - viewer.Viewer: the viewer instance, or nil if none was configured
	Viewer() viewer.Viewer

	// Animator returns the morph animator driving the particle cloud.
	//
	// Returns:
	//   - morph.Animator: the animator instance
	Animator() morph.Animator

	// Recognizer returns the gesture recognizer consuming landmark frames.
	//
	// Returns:
	//   - gesture.Recognizer: the recognizer instance
	Recognizer() gesture.Recognizer

	// OnLandmarks consumes one landmark frame, classifying it and
	// forwarding any resulting mode change to the animator. This is the
	// same path the configured tracking source feeds; expose it so hosts
	// with their own tracking integration can push frames directly.
	//
	// Parameters:
	//   - set: the latest hand-landmark snapshot (may be empty)
	OnLandmarks(set landmark.Set)

	// RequestMode forwards a shape mode change to the animator directly,
	// bypassing gesture classification. Used for manual toggles.
	//
	// Parameters:
	//   - open: true maps to the glyph shape, false to the blob
	RequestMode(open bool)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame,
	// after the animator has advanced and the frame has been drawn.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the engine loops and blocks processing window events on
	// the calling goroutine until the window closes or Quit is called.
	// Must be called from the same goroutine that created the viewer.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The animator is required; NewEngine panics without one. The viewer and
// tracking source are optional so the pipeline can run headless in tests
// or be fed landmarks by the host directly.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.animator == nil {
		panic("engine: NewEngine requires an animator, use WithAnimator")
	}
	if e.recognizer == nil {
		e.recognizer = gesture.NewRecognizer()
	}

	return e
}

func (e *engine) Viewer() viewer.Viewer {
	return e.viewer
}

func (e *engine) Animator() morph.Animator {
	return e.animator
}

func (e *engine) Recognizer() gesture.Recognizer {
	return e.recognizer
}

func (e *engine) OnLandmarks(set landmark.Set) {
	if mode, fire := e.recognizer.OnFrame(set); fire {
		e.animator.RequestMode(mode)
		if e.profilingEnabled {
			e.profiler.CountMorph()
		}
		log.Printf("[Engine] gesture edge, morphing to %s", mode)
	}
}

func (e *engine) RequestMode(open bool) {
	if mode, fire := e.recognizer.Bridge().OnClassification(open); fire {
		e.animator.RequestMode(mode)
		log.Printf("[Engine] manual toggle, morphing to %s", mode)
	}
}

func (e *engine) Run() {
	e.running = true

	if e.source != nil {
		if err := e.source.Start(e.OnLandmarks); err != nil {
			log.Printf("[Engine] tracking source failed to start: %v", err)
		}
	}

	e.handle()

	// Window event processing stays on the calling goroutine (GLFW
	// requires the main OS thread). Headless runs block on quit instead.
	if e.viewer != nil {
		e.processEvents()
	} else {
		<-e.quitChannel
	}

	e.shutdown()
}

// processEvents polls window events until the window closes or quit is
// signalled.
func (e *engine) processEvents() {
	for {
		select {
		case <-e.quitChannel:
			return
		default:
			if !e.viewer.ProcessEvents() {
				e.signalQuit()
				return
			}
			time.Sleep(time.Millisecond)
		}
	}
}

// shutdown waits for the worker goroutines and releases owned resources.
func (e *engine) shutdown() {
	e.signalQuit()
	e.wg.Wait()

	if e.source != nil {
		if err := e.source.Stop(); err != nil {
			log.Printf("[Engine] tracking source failed to stop: %v", err)
		}
	}
	if e.viewer != nil {
		e.viewer.Release()
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Each frame advances the animator by the elapsed time and redraws the
// cloud, re-uploading the point buffer only when the animator reports a
// change. Recovers from panics to avoid crashing the process and signals
// quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			changed := e.animator.Tick(dt)

			if e.viewer != nil {
				yaw, pitch := e.animator.Orientation()
				if err := e.viewer.Render(e.animator.Positions(), changed, yaw, pitch); err != nil {
					log.Printf("[Engine] render failed: %v", err)
				}
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled && e.profiler != nil {
				if changed {
					e.profiler.CountUpload()
				}
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Send to channel for immediate update in running engine loop
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			// Channel has a pending update, drain and send new value
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		// Engine not running, just update the field
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
