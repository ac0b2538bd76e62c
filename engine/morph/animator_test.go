package morph

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/nimbus-go/engine/shape"
)

// stubGenerator returns constant-valued clouds per mode and counts calls,
// so tests can assert exact tween arithmetic and blob-base caching.
type stubGenerator struct {
	blobValue  float32
	glyphValue float32
	blobCalls  int
	glyphCalls int
}

func (s *stubGenerator) Generate(mode shape.Mode, n int) []float32 {
	val := s.blobValue
	if mode == shape.ModeGlyph {
		val = s.glyphValue
		s.glyphCalls++
	} else {
		s.blobCalls++
	}
	out := make([]float32, 3*n)
	for i := range out {
		out[i] = val
	}
	return out
}

func (s *stubGenerator) Text() string             { return "stub" }
func (s *stubGenerator) RasterMask() *image.Alpha { return nil }

func newTestAnimator(t *testing.T, gen shape.Generator, options ...AnimatorBuilderOption) Animator {
	t.Helper()
	base := []AnimatorBuilderOption{
		WithParticleCount(64),
		WithDuration(0.8),
		WithInterpWorkers(2),
	}
	a, err := NewAnimator(gen, append(base, options...)...)
	require.NoError(t, err)
	return a
}

func TestAnimatorInitialState(t *testing.T) {
	gen := &stubGenerator{blobValue: 0, glyphValue: 1}
	a := newTestAnimator(t, gen)

	assert.Equal(t, shape.ModeBlob, a.Mode())
	assert.Equal(t, PhaseIdle, a.Phase())
	assert.Equal(t, 64, a.ParticleCount())
	assert.Len(t, a.Positions(), 64*3)
	assert.InDelta(t, 1.0, a.Progress(), 1e-6)

	// Idle ticks never touch the buffer.
	assert.False(t, a.Tick(0.016))
	for _, v := range a.Positions() {
		assert.Equal(t, float32(0), v)
	}
}

func TestAnimatorConfigValidation(t *testing.T) {
	gen := &stubGenerator{}

	_, err := NewAnimator(gen, WithParticleCount(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewAnimator(gen, WithDuration(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.Panics(t, func() { _, _ = NewAnimator(nil) })
}

func TestAnimatorMorphLifecycle(t *testing.T) {
	gen := &stubGenerator{blobValue: 0, glyphValue: 1}
	a := newTestAnimator(t, gen)

	a.RequestMode(shape.ModeGlyph)
	assert.Equal(t, PhaseMorphing, a.Phase())
	assert.Equal(t, shape.ModeGlyph, a.Mode())
	assert.InDelta(t, 0.0, a.Progress(), 1e-6)

	// Halfway in raw time: eased position is 1-(1-0.5)^2 = 0.75, strictly
	// between the endpoints.
	assert.True(t, a.Tick(0.4))
	assert.InDelta(t, 0.5, a.Progress(), 1e-6)
	for _, v := range a.Positions() {
		assert.Greater(t, v, float32(0))
		assert.Less(t, v, float32(1))
		assert.InDelta(t, 0.75, v, 1e-5)
	}

	// Completion lands on the target exactly, not within epsilon.
	assert.True(t, a.Tick(0.4))
	assert.Equal(t, PhaseIdle, a.Phase())
	for _, v := range a.Positions() {
		assert.Equal(t, float32(1), v)
	}

	// And the following tick is a no-op again.
	assert.False(t, a.Tick(0.016))
}

func TestAnimatorSameModeRequestIsNoop(t *testing.T) {
	gen := &stubGenerator{blobValue: 0, glyphValue: 1}
	a := newTestAnimator(t, gen)

	// Requesting the current mode while idle does nothing.
	a.RequestMode(shape.ModeBlob)
	assert.Equal(t, PhaseIdle, a.Phase())

	// Requesting the in-flight mode mid-tween neither restarts nor snaps.
	a.RequestMode(shape.ModeGlyph)
	a.Tick(0.4)
	a.RequestMode(shape.ModeGlyph)
	assert.InDelta(t, 0.5, a.Progress(), 1e-6, "progress must not reset on a redundant request")
	assert.Equal(t, 1, gen.glyphCalls, "redundant requests must not regenerate the target")
}

func TestAnimatorPreemptionIsContinuous(t *testing.T) {
	gen := &stubGenerator{blobValue: 0, glyphValue: 1}
	a := newTestAnimator(t, gen)

	a.RequestMode(shape.ModeGlyph)
	a.Tick(0.4)

	snapshot := make([]float32, len(a.Positions()))
	copy(snapshot, a.Positions())

	// Reversing mid-tween starts a fresh tween from exactly where the
	// buffer sits; a zero-dt tick leaves it on the snapshot.
	a.RequestMode(shape.ModeBlob)
	assert.Equal(t, PhaseMorphing, a.Phase())
	assert.InDelta(t, 0.0, a.Progress(), 1e-6)

	a.Tick(0)
	assert.Equal(t, snapshot, a.Positions(), "preemption must not jump the buffer")
}

func TestAnimatorBlobRoundTripIsExact(t *testing.T) {
	gen := &stubGenerator{blobValue: 0.5, glyphValue: 2}
	a := newTestAnimator(t, gen)

	base := make([]float32, len(a.Positions()))
	copy(base, a.Positions())

	// Out to the glyph and all the way back.
	a.RequestMode(shape.ModeGlyph)
	a.Tick(0.8)
	a.RequestMode(shape.ModeBlob)
	a.Tick(0.8)

	assert.Equal(t, PhaseIdle, a.Phase())
	assert.Equal(t, base, a.Positions(), "returning to the blob must reproduce the cached base exactly")
	assert.Equal(t, 1, gen.blobCalls, "the blob base must be generated once and cached")
}

func TestAnimatorOvershootClampsToTarget(t *testing.T) {
	gen := &stubGenerator{blobValue: 0, glyphValue: 1}
	a := newTestAnimator(t, gen)

	// A single huge dt (a stalled frame) completes the tween cleanly.
	a.RequestMode(shape.ModeGlyph)
	assert.True(t, a.Tick(5))
	assert.Equal(t, PhaseIdle, a.Phase())
	for _, v := range a.Positions() {
		assert.Equal(t, float32(1), v)
	}
}

func TestAnimatorOrientationAccumulates(t *testing.T) {
	gen := &stubGenerator{}
	a := newTestAnimator(t, gen, WithRotationSteps(0.01, 0.002))

	a.Tick(0.016)
	a.Tick(0.016)

	yaw, pitch := a.Orientation()
	assert.InDelta(t, 0.02, yaw, 1e-6)
	assert.InDelta(t, 0.004, pitch, 1e-6)

	// The rotation keeps advancing while morphing too.
	a.RequestMode(shape.ModeGlyph)
	a.Tick(0.016)
	yaw, _ = a.Orientation()
	assert.InDelta(t, 0.03, yaw, 1e-6)
}

func TestAnimatorChangedFlagTracksPhase(t *testing.T) {
	gen := &stubGenerator{blobValue: 0, glyphValue: 1}
	a := newTestAnimator(t, gen)

	assert.False(t, a.Tick(0.016), "idle ticks report no buffer change")

	a.RequestMode(shape.ModeGlyph)
	assert.True(t, a.Tick(0.016), "morphing ticks report a buffer change")
}
