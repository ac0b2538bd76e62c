// package landmark contains the hand-landmark data contract shared by the
// gesture and tracking packages. A landmark frame is an ordered sequence of
// 21 normalized 2D points whose indices follow the standard anatomical
// convention used by hand-tracking pipelines (wrist first, then four joints
// per finger from base to tip).
package landmark

// Anatomical landmark indices. Only the indices the gesture classifier
// reads are named; the full frame carries all 21.
const (
	// Wrist is the index of the wrist landmark.
	Wrist = 0

	// ThumbTip is the index of the thumb fingertip landmark.
	ThumbTip = 4

	// IndexTip is the index of the index fingertip landmark.
	IndexTip = 8

	// MiddleBase is the index of the middle-finger base (MCP) landmark.
	MiddleBase = 9

	// MiddleTip is the index of the middle fingertip landmark.
	MiddleTip = 12

	// RingTip is the index of the ring fingertip landmark.
	RingTip = 16

	// PinkyTip is the index of the pinky fingertip landmark.
	PinkyTip = 20

	// Count is the number of landmarks in a complete hand frame.
	Count = 21
)

// FingertipIndices lists the five fingertip landmark indices in
// thumb-to-pinky order.
var FingertipIndices = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Point is a single landmark coordinate in the tracker's normalized image
// space (x and y roughly within [0, 1]).
type Point struct {
	X float32
	Y float32
}

// Set is one immutable hand-landmark snapshot. An empty or short Set means
// the tracker did not see a hand in that frame; callers must treat that as
// "no classification" rather than an error.
type Set []Point

// Complete reports whether the set carries every landmark the gesture
// classifier requires (wrist through pinky tip).
//
// Returns:
//   - bool: true if all required indices are present
func (s Set) Complete() bool {
	return len(s) >= Count
}
