package morph

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithParticleCount is an option builder that sets the fixed number of
// particles in the cloud.
//
// Parameters:
//   - count: the particle count (must be > 0)
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the count option to an animator
func WithParticleCount(count int) AnimatorBuilderOption {
	return func(a *animator) {
		a.particleCount = count
	}
}

// WithDuration is an option builder that sets the tween duration in seconds.
//
// Parameters:
//   - seconds: the tween duration (must be > 0)
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the duration option to an animator
func WithDuration(seconds float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.duration = seconds
	}
}

// WithRotationSteps is an option builder that sets the fixed per-tick
// presentation rotation increments.
//
// Parameters:
//   - yawStep: per-tick rotation around the Y axis in radians
//   - pitchStep: per-tick rotation around the X axis in radians
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the rotation option to an animator
func WithRotationSteps(yawStep, pitchStep float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.yawStep = yawStep
		a.pitchStep = pitchStep
	}
}

// WithInterpWorkers is an option builder that sets the number of worker
// goroutines used for parallel tween interpolation. Values <= 0 are
// ignored and the default (NumCPU-1, minimum 1) is kept.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the worker option to an animator
func WithInterpWorkers(workers int) AnimatorBuilderOption {
	return func(a *animator) {
		if workers <= 0 {
			return
		}
		a.interpWorkers = workers
	}
}
