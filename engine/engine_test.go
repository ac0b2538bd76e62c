package engine

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/nimbus-go/engine/landmark"
	"github.com/Carmen-Shannon/nimbus-go/engine/morph"
	"github.com/Carmen-Shannon/nimbus-go/engine/shape"
)

// flatGenerator returns constant-valued clouds, enough for wiring tests.
type flatGenerator struct{}

func (flatGenerator) Generate(mode shape.Mode, n int) []float32 {
	out := make([]float32, 3*n)
	if mode == shape.ModeGlyph {
		for i := range out {
			out[i] = 1
		}
	}
	return out
}

func (flatGenerator) Text() string             { return "flat" }
func (flatGenerator) RasterMask() *image.Alpha { return nil }

func newTestEngine(t *testing.T, options ...EngineBuilderOption) Engine {
	t.Helper()
	anim, err := morph.NewAnimator(flatGenerator{},
		morph.WithParticleCount(16),
		morph.WithInterpWorkers(1),
	)
	require.NoError(t, err)
	return NewEngine(append([]EngineBuilderOption{WithAnimator(anim)}, options...)...)
}

// openHand builds a complete landmark frame with fingertips spread wide.
func openHand() landmark.Set {
	set := make(landmark.Set, landmark.Count)
	palm := landmark.Point{X: 0.5, Y: 0.55}
	for i := range set {
		set[i] = palm
	}
	set[landmark.Wrist] = landmark.Point{X: 0.5, Y: 0.6}
	set[landmark.MiddleBase] = landmark.Point{X: 0.5, Y: 0.5}
	for _, tip := range landmark.FingertipIndices {
		set[tip] = landmark.Point{X: palm.X + 0.3, Y: palm.Y}
	}
	return set
}

func TestNewEngineRequiresAnimator(t *testing.T) {
	assert.Panics(t, func() { NewEngine() })
}

func TestEngineLandmarksDriveAnimator(t *testing.T) {
	e := newTestEngine(t)

	e.OnLandmarks(openHand())
	assert.Equal(t, shape.ModeGlyph, e.Animator().Mode())
	assert.Equal(t, morph.PhaseMorphing, e.Animator().Phase())

	// Losing the hand morphs back.
	e.OnLandmarks(nil)
	assert.Equal(t, shape.ModeBlob, e.Animator().Mode())
}

func TestEngineManualToggle(t *testing.T) {
	e := newTestEngine(t)

	e.RequestMode(true)
	assert.Equal(t, shape.ModeGlyph, e.Animator().Mode())

	// A repeat of the same state is debounced by the bridge.
	e.RequestMode(true)
	assert.Equal(t, shape.ModeGlyph, e.Animator().Mode())

	e.RequestMode(false)
	assert.Equal(t, shape.ModeBlob, e.Animator().Mode())
}

func TestEngineHeadlessRunAndQuit(t *testing.T) {
	e := newTestEngine(t, WithTickRate(120), WithRenderFrameLimit(240))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	// Give the loops a moment to spin, then shut down. Quit is safe to
	// call repeatedly.
	time.Sleep(50 * time.Millisecond)
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not shut down after Quit")
	}

	// The render loop ran the rotation forward while it was alive.
	yaw, _ := e.Animator().Orientation()
	assert.Greater(t, yaw, float32(0))
}
