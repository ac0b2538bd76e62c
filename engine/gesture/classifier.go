// package gesture turns raw hand-landmark frames into discrete shape-mode
// change events. It is split into three small units: the Classifier (one
// frame -> open/closed), the Bridge (repeated classifications -> single
// edge-triggered events), and the Recognizer that glues them together and
// shields the Classifier from incomplete frames.
package gesture

import (
	"errors"

	"github.com/Carmen-Shannon/nimbus-go/engine/landmark"
	"github.com/chewxy/math32"
)

// DefaultOpenThreshold is the mean fingertip-to-palm distance (in the
// tracker's normalized coordinate space) above which a hand counts as
// open. The value is a calibrated heuristic, not a learned boundary;
// frames near it may classify either way and that is acceptable.
const DefaultOpenThreshold = 0.18

// ErrInvalidLandmarks is returned by Classify when the landmark set is
// missing required indices. The Recognizer pre-filters incomplete frames
// so this only surfaces when the Classifier is driven directly.
var ErrInvalidLandmarks = errors.New("gesture: landmark set is missing required indices")

// classifier is the implementation of the Classifier interface.
type classifier struct {
	threshold float32
}

// Classifier decides whether a single hand-landmark frame shows an open
// palm. It is a pure function of its input: no internal state, no side
// effects, deterministic.
type Classifier interface {
	// Classify reports whether the landmark frame shows an open palm.
	// The palm center is the midpoint of the wrist and middle-finger base;
	// the hand is open when the mean Euclidean distance from the five
	// fingertips to that center exceeds the configured threshold.
	//
	// Parameters:
	//   - set: one complete hand-landmark snapshot
	//
	// Returns:
	//   - bool: true if the palm is open
	//   - error: ErrInvalidLandmarks if the set is shorter than required
	Classify(set landmark.Set) (bool, error)

	// Threshold returns the configured open-palm distance threshold.
	//
	// Returns:
	//   - float32: the threshold in normalized coordinate units
	Threshold() float32
}

var _ Classifier = &classifier{}

// NewClassifier creates a new Classifier with the provided options.
//
// Parameters:
//   - options: functional options to configure the classifier
//
// Returns:
//   - Classifier: the configured classifier
func NewClassifier(options ...ClassifierBuilderOption) Classifier {
	c := &classifier{
		threshold: DefaultOpenThreshold,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *classifier) Classify(set landmark.Set) (bool, error) {
	if !set.Complete() {
		return false, ErrInvalidLandmarks
	}

	palmX := (set[landmark.Wrist].X + set[landmark.MiddleBase].X) / 2
	palmY := (set[landmark.Wrist].Y + set[landmark.MiddleBase].Y) / 2

	var total float32
	for _, tip := range landmark.FingertipIndices {
		total += math32.Hypot(set[tip].X-palmX, set[tip].Y-palmY)
	}
	mean := total / float32(len(landmark.FingertipIndices))

	return mean > c.threshold, nil
}

func (c *classifier) Threshold() float32 {
	return c.threshold
}
