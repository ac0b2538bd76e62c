package tracking

import (
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Carmen-Shannon/nimbus-go/engine/landmark"
)

// wireFrame is the JSON shape pushed by the hand-tracking service: one
// message per camera frame, landmarks in normalized [0, 1] coordinates.
// An absent or short landmark list means no hand was detected.
type wireFrame struct {
	Landmarks []struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
	} `json:"landmarks"`
}

// webSocketSource is the implementation of Source over a WebSocket feed.
type webSocketSource struct {
	mu *sync.Mutex

	url  string
	conn *websocket.Conn

	quitChannel chan struct{}
	stopOnce    *sync.Once
	running     bool
}

var _ Source = &webSocketSource{}

// NewWebSocketSource creates a Source that reads landmark frames from a
// WebSocket endpoint, typically a browser or sidecar process running the
// hand-tracking model. The connection is not opened until Start.
//
// Parameters:
//   - url: the WebSocket endpoint, e.g. "ws://localhost:8765/landmarks"
//
// Returns:
//   - Source: the configured source
func NewWebSocketSource(url string) Source {
	return &webSocketSource{
		mu:          &sync.Mutex{},
		url:         url,
		quitChannel: make(chan struct{}),
		stopOnce:    &sync.Once{},
	}
}

func (w *webSocketSource) Start(handler Handler) error {
	if handler == nil {
		panic("tracking: Start requires a non-nil Handler")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyStarted
	}

	conn, _, err := websocket.DefaultDialer.Dial(w.url, nil)
	if err != nil {
		return fmt.Errorf("tracking: dial %s: %w", w.url, err)
	}
	w.conn = conn
	w.running = true

	go w.readLoop(handler)
	return nil
}

// readLoop pumps frames from the connection to the handler until the
// connection fails or Stop closes it.
func (w *webSocketSource) readLoop(handler Handler) {
	for {
		var frame wireFrame
		if err := w.conn.ReadJSON(&frame); err != nil {
			select {
			case <-w.quitChannel:
				// Stop closed the connection; the read error is expected.
			default:
				log.Printf("[Tracking] read error, stopping: %v", err)
			}
			return
		}

		set := make(landmark.Set, len(frame.Landmarks))
		for i, lm := range frame.Landmarks {
			set[i] = landmark.Point{X: lm.X, Y: lm.Y}
		}
		handler(set)
	}
}

func (w *webSocketSource) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.quitChannel)

		w.mu.Lock()
		defer w.mu.Unlock()
		if w.conn != nil {
			// Closing the connection unblocks the read loop.
			err = w.conn.Close()
		}
		w.running = false
	})
	return err
}
