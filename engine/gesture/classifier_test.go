package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/nimbus-go/engine/landmark"
)

// handAtDistance builds a complete landmark set whose five fingertips all
// sit exactly dist away from the palm center along the x axis. Every
// other joint rests on the palm center itself.
func handAtDistance(dist float32) landmark.Set {
	set := make(landmark.Set, landmark.Count)

	wrist := landmark.Point{X: 0.5, Y: 0.6}
	middleBase := landmark.Point{X: 0.5, Y: 0.5}
	palm := landmark.Point{X: 0.5, Y: 0.55}

	for i := range set {
		set[i] = palm
	}
	set[landmark.Wrist] = wrist
	set[landmark.MiddleBase] = middleBase
	for _, tip := range landmark.FingertipIndices {
		set[tip] = landmark.Point{X: palm.X + dist, Y: palm.Y}
	}
	return set
}

func TestClassifierOpenAndClosed(t *testing.T) {
	c := NewClassifier()

	open, err := c.Classify(handAtDistance(0.3))
	require.NoError(t, err)
	assert.True(t, open, "fingertips far from the palm should classify as open")

	open, err = c.Classify(handAtDistance(0.05))
	require.NoError(t, err)
	assert.False(t, open, "fingertips near the palm should classify as closed")
}

func TestClassifierThresholdIsExclusive(t *testing.T) {
	// 0.25 is exactly representable in float32, so the mean distance lands
	// on the threshold with no rounding and the strict comparison decides.
	c := NewClassifier(WithOpenThreshold(0.25))

	open, err := c.Classify(handAtDistance(0.25))
	require.NoError(t, err)
	assert.False(t, open, "distance equal to the threshold must not count as open")

	open, err = c.Classify(handAtDistance(0.3125))
	require.NoError(t, err)
	assert.True(t, open)
}

func TestClassifierMonotonic(t *testing.T) {
	c := NewClassifier()

	// Once a spread classifies as open, every wider spread must too.
	seenOpen := false
	for dist := float32(0.01); dist < 0.5; dist += 0.01 {
		open, err := c.Classify(handAtDistance(dist))
		require.NoError(t, err)
		if seenOpen {
			assert.True(t, open, "classification regressed to closed at distance %v", dist)
		}
		seenOpen = seenOpen || open
	}
	assert.True(t, seenOpen, "no spread classified as open")
}

func TestClassifierIncompleteSet(t *testing.T) {
	c := NewClassifier()

	for _, set := range []landmark.Set{nil, {}, make(landmark.Set, landmark.Count-1)} {
		open, err := c.Classify(set)
		assert.ErrorIs(t, err, ErrInvalidLandmarks)
		assert.False(t, open)
	}
}

func TestClassifierThresholdOption(t *testing.T) {
	assert.InDelta(t, DefaultOpenThreshold, NewClassifier().Threshold(), 1e-6)
	assert.InDelta(t, 0.3, NewClassifier(WithOpenThreshold(0.3)).Threshold(), 1e-6)

	// Non-positive thresholds are ignored.
	assert.InDelta(t, DefaultOpenThreshold, NewClassifier(WithOpenThreshold(0)).Threshold(), 1e-6)
	assert.InDelta(t, DefaultOpenThreshold, NewClassifier(WithOpenThreshold(-1)).Threshold(), 1e-6)
}
