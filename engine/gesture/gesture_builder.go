package gesture

// ClassifierBuilderOption is a functional option for configuring a Classifier during construction.
type ClassifierBuilderOption func(*classifier)

// WithOpenThreshold is an option builder that sets the mean
// fingertip-to-palm distance above which a hand counts as open.
// Values <= 0 are ignored and the default is kept.
//
// Parameters:
//   - threshold: the distance threshold in normalized coordinate units
//
// Returns:
//   - ClassifierBuilderOption: a function that applies the threshold option to a classifier
func WithOpenThreshold(threshold float32) ClassifierBuilderOption {
	return func(c *classifier) {
		if threshold <= 0 {
			return
		}
		c.threshold = threshold
	}
}

// RecognizerBuilderOption is a functional option for configuring a Recognizer during construction.
type RecognizerBuilderOption func(*recognizer)

// WithClassifier is an option builder that replaces the recognizer's default Classifier.
//
// Parameters:
//   - c: the classifier to use
//
// Returns:
//   - RecognizerBuilderOption: a function that applies the classifier option to a recognizer
func WithClassifier(c Classifier) RecognizerBuilderOption {
	return func(r *recognizer) {
		if c == nil {
			return
		}
		r.classifier = c
	}
}

// WithBridge is an option builder that replaces the recognizer's default Bridge.
//
// Parameters:
//   - b: the bridge to use
//
// Returns:
//   - RecognizerBuilderOption: a function that applies the bridge option to a recognizer
func WithBridge(b Bridge) RecognizerBuilderOption {
	return func(r *recognizer) {
		if b == nil {
			return
		}
		r.bridge = b
	}
}
