// package tracking supplies hand-landmark frames to the gesture pipeline.
// Sources push frames at their own cadence; consumers receive them through
// a Handler callback and are expected to return quickly.
package tracking

import (
	"errors"

	"github.com/Carmen-Shannon/nimbus-go/engine/landmark"
)

// ErrAlreadyStarted is returned by Start when the source is already running.
var ErrAlreadyStarted = errors.New("tracking: source already started")

// Handler receives one landmark frame per tracking update. An empty set
// means no hand was detected in the frame. Handlers run on the source's
// goroutine and must not block.
type Handler func(set landmark.Set)

// Source is a push-style producer of landmark frames.
type Source interface {
	// Start begins delivering frames to the handler on a background
	// goroutine. Start returns immediately once delivery is running.
	//
	// Parameters:
	//   - handler: the callback invoked for every frame (must not be nil)
	//
	// Returns:
	//   - error: ErrAlreadyStarted if already running, or a connection error
	Start(handler Handler) error

	// Stop halts frame delivery and releases the source's resources.
	// Stop is idempotent.
	//
	// Returns:
	//   - error: an error if shutdown failed
	Stop() error
}
