package gesture

import (
	"github.com/Carmen-Shannon/nimbus-go/engine/landmark"
	"github.com/Carmen-Shannon/nimbus-go/engine/shape"
)

// recognizer is the implementation of the Recognizer interface.
type recognizer struct {
	classifier Classifier
	bridge     Bridge
}

// Recognizer is the full landmark-frame to mode-change pipeline: it
// pre-filters incomplete frames (no hand detected maps to closed, never
// an error), classifies complete ones, and edge-detects the result
// through the Bridge.
type Recognizer interface {
	// OnFrame consumes one landmark frame from the tracking pipeline.
	// An empty or short frame counts as a closed hand; the Classifier is
	// only invoked on complete frames, so ErrInvalidLandmarks can never
	// surface through this path.
	//
	// Parameters:
	//   - set: the latest hand-landmark snapshot (may be empty)
	//
	// Returns:
	//   - shape.Mode: the requested mode (meaningful only when bool is true)
	//   - bool: true if a mode change should fire
	OnFrame(set landmark.Set) (shape.Mode, bool)

	// Bridge returns the underlying edge-detection bridge.
	//
	// Returns:
	//   - Bridge: the bridge instance
	Bridge() Bridge
}

var _ Recognizer = &recognizer{}

// NewRecognizer creates a Recognizer with the provided options. A default
// Classifier and Bridge are used unless overridden.
//
// Parameters:
//   - options: functional options to configure the recognizer
//
// Returns:
//   - Recognizer: the configured recognizer
func NewRecognizer(options ...RecognizerBuilderOption) Recognizer {
	r := &recognizer{
		classifier: NewClassifier(),
		bridge:     NewBridge(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *recognizer) OnFrame(set landmark.Set) (shape.Mode, bool) {
	open := false
	if set.Complete() {
		// Classify cannot fail on a complete set.
		open, _ = r.classifier.Classify(set)
	}
	return r.bridge.OnClassification(open)
}

func (r *recognizer) Bridge() Bridge {
	return r.bridge
}
