package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ProgressEvent is one status update pushed to connected clients.
type ProgressEvent struct {
	VideoID   string    `json:"video_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressHub fans generation progress out to websocket subscribers.
// Publish never blocks: events to slow clients are dropped.
type ProgressHub struct {
	upgrader websocket.Upgrader
	logger   *logrus.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	send chan ProgressEvent
}

const clientBuffer = 16

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The extension popup connects from its own origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logrus.StandardLogger(),
		clients: make(map[*client]struct{}),
	}
}

// Publish implements the progress sink used by the note generator.
func (h *ProgressHub) Publish(videoID, message string) {
	event := ProgressEvent{
		VideoID:   videoID,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			// Slow consumer, drop the event.
		}
	}
}

// HandleProgress handles GET /api/progress, upgrading to a websocket and
// streaming events until the client disconnects.
func (h *ProgressHub) HandleProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	c := &client{send: make(chan ProgressEvent, clientBuffer)}
	h.register(c)
	defer func() {
		h.unregister(c)
		conn.Close()
	}()

	// Drain the read side so close frames and pings are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-c.send:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *ProgressHub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *ProgressHub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// ClientCount reports the number of connected subscribers.
func (h *ProgressHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
