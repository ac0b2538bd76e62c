// package morph owns the live particle position buffer and the tween state
// machine that animates it between shape targets. One Animator instance is
// created per session; the render driver ticks it once per frame and the
// gesture pipeline requests mode changes at its own cadence.
package morph

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/nimbus-go/engine/shape"
)

// Phase identifies the animator's tween state.
type Phase int

const (
	// PhaseIdle means the position buffer sits exactly on the last applied
	// target; ticks are no-ops apart from the presentation rotation.
	PhaseIdle Phase = iota

	// PhaseMorphing means a tween from the start snapshot toward the
	// current target is in flight.
	PhaseMorphing
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMorphing:
		return "morphing"
	default:
		return "unknown"
	}
}

// Default animation parameters, overridable via the With* builder options.
const (
	// DefaultParticleCount is the number of particles in the cloud. Fixed
	// at construction; every point buffer carries exactly this many
	// index-aligned entries.
	DefaultParticleCount = 6000

	// DefaultDuration is the tween duration in seconds. A calibrated
	// feel constant, not a derived value.
	DefaultDuration = 0.8

	// DefaultYawStep and DefaultPitchStep are the fixed per-tick
	// presentation rotation increments in radians. They apply in both
	// phases and are independent of the tween.
	DefaultYawStep   = 0.0022
	DefaultPitchStep = 0.0008
)

// interpChunk is the number of particles interpolated per worker task.
const interpChunk = 2048

// ErrInvalidConfig is returned by NewAnimator when a configuration value
// would make ticking undefined (zero duration, zero particles).
var ErrInvalidConfig = errors.New("morph: invalid animator configuration")

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	gen shape.Generator

	particleCount int
	duration      float32

	mode  shape.Mode
	phase Phase

	// positions is the authoritative render state, 3 scalars per particle.
	// start and target are the frozen endpoints of the in-flight tween;
	// blobBase is the one cached blob sample reused on every return to
	// blob mode so the resting shape is stable across round trips.
	positions []float32
	start     []float32
	target    []float32
	blobBase  []float32

	elapsed float32

	yaw       float32
	pitch     float32
	yawStep   float32
	pitchStep float32

	// interpPool fans per-particle interpolation out across a bounded set
	// of reusable goroutines. Workers persist across frames; a per-tick
	// WaitGroup provides the frame barrier.
	interpPool    worker.DynamicWorkerPool
	interpWorkers int
}

// Animator is the morph state machine. It owns the particle position
// buffer exclusively: the renderer reads it after each Tick, the gesture
// pipeline drives it through RequestMode, and nothing else mutates it.
//
// RequestMode and Tick may be called from different goroutines; each
// operation is guarded by a single per-instance mutex (the operations are
// cheap and bounded, finer-grained locking buys nothing).
type Animator interface {
	// RequestMode asks the animator to morph toward the given shape mode.
	// A request for the current mode is a no-op, including while already
	// morphing toward it. Any other request preempts an in-flight tween:
	// the buffer is snapshotted exactly where it sits and becomes the new
	// start, so motion is never discontinuous. At most one tween is ever
	// active.
	//
	// Parameters:
	//   - mode: the shape mode to morph toward
	RequestMode(mode shape.Mode)

	// Tick advances the animation by dt seconds and updates the position
	// buffer. The presentation rotation advances by its fixed per-tick
	// step in both phases. When the tween reaches its duration the buffer
	// is set to the target exactly (no residual floating error) and the
	// animator returns to idle.
	//
	// Parameters:
	//   - dt: elapsed time since the previous tick in seconds
	//
	// Returns:
	//   - bool: true if the position buffer changed this tick (the
	//     renderer may skip re-upload when false)
	Tick(dt float32) bool

	// Positions returns the flat position buffer, 3 scalars per particle
	// (x, y, z), row-major per particle.
	// WARNING: The returned slice is the live internal buffer - do not modify.
	//
	// Returns:
	//   - []float32: the position buffer (3 * ParticleCount scalars)
	Positions() []float32

	// ParticleCount returns the fixed number of particles in the cloud.
	//
	// Returns:
	//   - int: the particle count
	ParticleCount() int

	// Mode returns the current (possibly still in-flight) shape mode.
	//
	// Returns:
	//   - shape.Mode: the current mode
	Mode() shape.Mode

	// Phase returns the current tween phase.
	//
	// Returns:
	//   - Phase: PhaseIdle or PhaseMorphing
	Phase() Phase

	// Progress returns the raw tween progress in [0, 1]. Always 1 when
	// idle.
	//
	// Returns:
	//   - float32: elapsed/duration, clamped
	Progress() float32

	// Orientation returns the accumulated presentation rotation angles.
	// The rotation is an orientation transform on the render proxy, never
	// applied to the position buffer itself.
	//
	// Returns:
	//   - yaw: rotation around the Y axis in radians
	//   - pitch: rotation around the X axis in radians
	Orientation() (yaw, pitch float32)
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator with the provided options. The
// generator is required and NewAnimator panics if it is nil. Configuration
// is validated fail-fast: a zero particle count or duration is rejected
// here, never at tick time.
//
// The blob base configuration is sampled once here and cached; the
// animator starts idle at blob mode with the position buffer equal to that
// base, and every later return to blob reproduces the same base exactly.
//
// Parameters:
//   - gen: the shape generator supplying target configurations (must not be nil)
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the configured animator
//   - error: ErrInvalidConfig (wrapped) if a value is out of range
func NewAnimator(gen shape.Generator, options ...AnimatorBuilderOption) (Animator, error) {
	if gen == nil {
		panic("morph: NewAnimator requires a non-nil Generator")
	}

	a := &animator{
		mu:            &sync.Mutex{},
		gen:           gen,
		particleCount: DefaultParticleCount,
		duration:      DefaultDuration,
		mode:          shape.ModeBlob,
		phase:         PhaseIdle,
		yawStep:       DefaultYawStep,
		pitchStep:     DefaultPitchStep,
		interpWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, opt := range options {
		opt(a)
	}

	if a.particleCount <= 0 {
		return nil, fmt.Errorf("%w: particle count must be > 0, got %d", ErrInvalidConfig, a.particleCount)
	}
	if a.duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be > 0, got %v", ErrInvalidConfig, a.duration)
	}

	a.blobBase = gen.Generate(shape.ModeBlob, a.particleCount)
	a.positions = make([]float32, len(a.blobBase))
	a.start = make([]float32, len(a.blobBase))
	a.target = make([]float32, len(a.blobBase))
	copy(a.positions, a.blobBase)

	// Initialize the interpolation pool after options so WithInterpWorkers
	// can override the default. Queue size of 64 covers the chunk count of
	// any realistic particle total with headroom.
	a.interpPool = worker.NewDynamicWorkerPool(a.interpWorkers, 64, 1*time.Second)

	return a, nil
}

func (a *animator) RequestMode(mode shape.Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if mode == a.mode {
		return
	}
	a.mode = mode

	// Snapshot wherever the buffer currently sits, mid-tween or not; the
	// previous target is simply discarded.
	copy(a.start, a.positions)

	if mode == shape.ModeBlob {
		copy(a.target, a.blobBase)
	} else {
		copy(a.target, a.gen.Generate(mode, a.particleCount))
	}

	a.elapsed = 0
	a.phase = PhaseMorphing
}

func (a *animator) Tick(dt float32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	// The presentation rotation runs in both phases and is deliberately a
	// fixed per-tick step, not dt-scaled.
	a.yaw += a.yawStep
	a.pitch += a.pitchStep

	if a.phase != PhaseMorphing {
		return false
	}

	a.elapsed += dt
	rawT := a.elapsed / a.duration
	if rawT >= 1 {
		// Land on the target exactly rather than within floating error of
		// it: idle is a fixed point of the morph, not an approximation.
		copy(a.positions, a.target)
		a.elapsed = a.duration
		a.phase = PhaseIdle
		return true
	}
	if rawT < 0 {
		rawT = 0
	}

	a.interpolate(easeOutQuad(rawT))
	return true
}

// interpolate writes start + (target-start)*t into the position buffer,
// fanning chunks of particles out across the worker pool. Chunks cover
// disjoint index ranges so the parallel writes never overlap.
//
// Caller must hold a.mu.
func (a *animator) interpolate(t float32) {
	var wg sync.WaitGroup
	taskID := 0
	for lo := 0; lo < len(a.positions); lo += interpChunk * 3 {
		hi := min(lo+interpChunk*3, len(a.positions))

		wg.Add(1)
		loCap, hiCap := lo, hi
		id := taskID
		taskID++
		a.interpPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := loCap; i < hiCap; i++ {
					a.positions[i] = a.start[i] + (a.target[i]-a.start[i])*t
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// easeOutQuad is the standard quadratic ease-out curve, monotonic 0 -> 1.
func easeOutQuad(t float32) float32 {
	return 1 - (1-t)*(1-t)
}

func (a *animator) Positions() []float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positions
}

func (a *animator) ParticleCount() int {
	return a.particleCount
}

func (a *animator) Mode() shape.Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *animator) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

func (a *animator) Progress() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase != PhaseMorphing {
		return 1
	}
	t := a.elapsed / a.duration
	if t > 1 {
		t = 1
	}
	if t < 0 {
		t = 0
	}
	return t
}

func (a *animator) Orientation() (yaw, pitch float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.yaw, a.pitch
}
