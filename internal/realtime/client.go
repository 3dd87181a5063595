package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn is the minimal surface of a websocket connection the registry needs.
// *websocket.Conn satisfies it; tests use in-memory fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live push-channel handle. A user may hold several clients at
// once (multiple devices); each runs its own heartbeat goroutine. A client
// is owned by the registry entry for its user and dies on disconnect or on
// the first failed send; there is no reconnection, a new Connect call
// creates a fresh handle.
type Client struct {
	userID string
	conn   Conn

	// mu serializes writes: the heartbeat goroutine and fan-out callers
	// share one outbound channel and must not interleave frames.
	mu sync.Mutex

	cancel  sync.Once
	done    chan struct{} // closed to stop the heartbeat goroutine
	stopped chan struct{} // closed by the heartbeat goroutine on exit
}

func newClient(conn Conn, userID string) *Client {
	return &Client{
		userID:  userID,
		conn:    conn,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// UserID returns the identity this handle belongs to.
func (c *Client) UserID() string {
	return c.userID
}

// write sends one text frame, serialized against concurrent writers.
func (c *Client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// signalStop requests heartbeat termination. Safe to call more than once.
func (c *Client) signalStop() {
	c.cancel.Do(func() { close(c.done) })
}
