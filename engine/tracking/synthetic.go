package tracking

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/nimbus-go/engine/landmark"
)

// Default timing for the synthetic gesture script.
const (
	// DefaultFrameInterval is the delivery cadence of synthetic frames.
	DefaultFrameInterval = 33 * time.Millisecond

	// DefaultHoldDuration is how long the synthetic hand holds each pose
	// before toggling between open and closed.
	DefaultHoldDuration = 3 * time.Second
)

// syntheticSource is the implementation of Source that fabricates a hand
// alternating between an open and a closed pose on a fixed schedule. It
// exists so the full pipeline can run without a camera or tracking
// service attached.
type syntheticSource struct {
	mu *sync.Mutex

	interval time.Duration
	hold     time.Duration

	quitChannel chan struct{}
	stopOnce    *sync.Once
	running     bool
}

var _ Source = &syntheticSource{}

// NewSyntheticSource creates a Source that emits scripted landmark frames,
// toggling the hand between open and closed every hold period.
//
// Parameters:
//   - interval: delivery cadence (<= 0 uses DefaultFrameInterval)
//   - hold: pose hold duration (<= 0 uses DefaultHoldDuration)
//
// Returns:
//   - Source: the configured source
func NewSyntheticSource(interval, hold time.Duration) Source {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	return &syntheticSource{
		mu:          &sync.Mutex{},
		interval:    interval,
		hold:        hold,
		quitChannel: make(chan struct{}),
		stopOnce:    &sync.Once{},
	}
}

func (s *syntheticSource) Start(handler Handler) error {
	if handler == nil {
		panic("tracking: Start requires a non-nil Handler")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyStarted
	}
	s.running = true

	go s.emitLoop(handler)
	return nil
}

func (s *syntheticSource) emitLoop(handler Handler) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-s.quitChannel:
			return
		case now := <-ticker.C:
			open := (now.Sub(start)/s.hold)%2 == 1
			handler(syntheticHand(open))
		}
	}
}

func (s *syntheticSource) Stop() error {
	s.stopOnce.Do(func() {
		close(s.quitChannel)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.running = false
	})
	return nil
}

// syntheticHand fabricates a full 21-point landmark set. The open pose
// spreads fingertips well away from the palm center; the closed pose
// curls everything onto it.
func syntheticHand(open bool) landmark.Set {
	set := make(landmark.Set, landmark.Count)

	palm := landmark.Point{X: 0.5, Y: 0.55}
	set[landmark.Wrist] = landmark.Point{X: 0.5, Y: 0.7}
	set[landmark.MiddleBase] = landmark.Point{X: 0.5, Y: 0.4}

	spread := float32(0.05)
	if open {
		spread = 0.3
	}
	for i, tip := range landmark.FingertipIndices {
		// Fan the fingertips across the top of the palm.
		offset := float32(i-2) * 0.08
		set[tip] = landmark.Point{X: palm.X + offset, Y: palm.Y - spread}
	}

	// Remaining joints sit at the palm center; the classifier ignores them.
	for i := range set {
		if set[i] == (landmark.Point{}) && i != landmark.Wrist {
			set[i] = palm
		}
	}
	return set
}
