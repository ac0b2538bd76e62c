package gesture

import (
	"sync"

	"github.com/Carmen-Shannon/nimbus-go/engine/shape"
)

// bridge is the implementation of the Bridge interface.
type bridge struct {
	mu *sync.Mutex

	// lastOpen is the previously observed classification. Starts closed so
	// the first open-palm frame produces a Glyph event.
	lastOpen bool
}

// Bridge edge-detects a stream of repeated open/closed classifications
// into single mode-change events, decoupling the tracking cadence from
// the render cadence. Classification may run zero or many times between
// render ticks; the bridge never buffers more than the latest value, so
// stale intermediate results are simply discarded.
//
// Safe to call from a different goroutine than the render tick: the only
// state is a single boolean guarded by a mutex, and OnClassification never
// blocks beyond that.
type Bridge interface {
	// OnClassification consumes one classifier result. An event is emitted
	// only when the value differs from the previous one: open maps to
	// ModeGlyph, closed to ModeBlob.
	//
	// Parameters:
	//   - open: the latest open-palm classification
	//
	// Returns:
	//   - shape.Mode: the requested mode (meaningful only when bool is true)
	//   - bool: true if the classification was an edge and a mode change should fire
	OnClassification(open bool) (shape.Mode, bool)

	// LastOpen returns the most recently observed classification.
	//
	// Returns:
	//   - bool: the stored edge-detection state
	LastOpen() bool

	// Reset restores the bridge to its initial closed state.
	Reset()
}

var _ Bridge = &bridge{}

// NewBridge creates a new Bridge in its initial closed state.
//
// Returns:
//   - Bridge: the newly created bridge
func NewBridge() Bridge {
	return &bridge{
		mu: &sync.Mutex{},
	}
}

func (b *bridge) OnClassification(open bool) (shape.Mode, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if open == b.lastOpen {
		return shape.ModeBlob, false
	}
	b.lastOpen = open

	if open {
		return shape.ModeGlyph, true
	}
	return shape.ModeBlob, true
}

func (b *bridge) LastOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastOpen
}

func (b *bridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastOpen = false
}
