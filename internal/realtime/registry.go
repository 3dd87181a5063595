// Package realtime implements the per-process push-channel registry: it
// tracks which users currently hold open websocket connections, fans
// messages out to every handle of a user, and runs a heartbeat loop per
// connection. The registry is an injectable service object so tests can
// construct isolated instances; state is in-memory and process-local, with
// no cross-process coordination.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/api/metrics"
)

// DefaultHeartbeatInterval is how often an idle connection is pinged.
const DefaultHeartbeatInterval = 30 * time.Second

var pingFrame = []byte(`{"type":"ping"}`)

// connectedFrame is the acknowledgement pushed right after a connect.
type connectedFrame struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// Registry maps user identities to their live connection handles.
type Registry struct {
	mu        sync.RWMutex
	conns     map[string][]*Client
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewRegistry creates an empty registry. A non-positive heartbeat interval
// falls back to DefaultHeartbeatInterval.
func NewRegistry(heartbeat time.Duration, log zerolog.Logger) *Registry {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	return &Registry{
		conns:     make(map[string][]*Client),
		heartbeat: heartbeat,
		log:       log,
	}
}

// Connect registers a new live handle under userID, pushes the connected
// acknowledgement, and starts the handle's heartbeat goroutine. Multiple
// connects for the same user create independent handles.
func (r *Registry) Connect(conn Conn, userID string) *Client {
	c := newClient(conn, userID)

	r.mu.Lock()
	r.conns[userID] = append(r.conns[userID], c)
	users, total := r.sizeLocked()
	r.mu.Unlock()

	metrics.WebsocketConnections.Set(float64(total))
	metrics.WebsocketConnectedUsers.Set(float64(users))
	r.log.Info().Str("user_id", userID).Msg("websocket connected")

	// The ack must precede any heartbeat or fan-out frame. A failed ack
	// means the handle is already dead; disconnect it before the heartbeat
	// goroutine exists, then start the goroutine anyway so stopped closes.
	ack, _ := json.Marshal(connectedFrame{Type: "connected", UserID: userID})
	ackErr := c.write(ack)

	go r.runHeartbeat(c)

	if ackErr != nil {
		r.Disconnect(c)
	}
	return c
}

// Disconnect removes the handle from its user's list, dropping the user
// entry entirely when the list empties. The heartbeat goroutine is stopped
// and awaited so no dangling ping races the closed connection. Safe to call
// on an already-removed handle.
func (r *Registry) Disconnect(c *Client) {
	removed := r.remove(c)

	c.signalStop()
	_ = c.conn.Close()
	<-c.stopped

	if removed {
		r.log.Info().Str("user_id", c.userID).Msg("websocket disconnected")
	}
}

// remove detaches the handle from the map. Reports whether it was present.
func (r *Registry) remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	handles, ok := r.conns[c.userID]
	if !ok {
		return false
	}
	found := false
	for i, h := range handles {
		if h == c {
			handles = append(handles[:i], handles[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if len(handles) == 0 {
		delete(r.conns, c.userID)
	} else {
		r.conns[c.userID] = handles
	}

	users, total := r.sizeLocked()
	metrics.WebsocketConnections.Set(float64(total))
	metrics.WebsocketConnectedUsers.Set(float64(users))
	return true
}

// IsConnected reports whether the user has at least one live handle.
func (r *Registry) IsConnected(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID]) > 0
}

// ConnectedUsers returns the number of distinct users currently connected.
func (r *Registry) ConnectedUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// SendPersonal serializes payload once and delivers it to every handle of
// userID. Delivery is best-effort: a handle whose send fails is disconnected
// as a side effect and no error reaches the caller. With zero handles this
// is a silent no-op.
func (r *Registry) SendPersonal(userID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("failed to marshal push payload")
		return
	}

	r.mu.RLock()
	handles := make([]*Client, len(r.conns[userID]))
	copy(handles, r.conns[userID])
	r.mu.RUnlock()

	var dead []*Client
	for _, c := range handles {
		if err := c.write(data); err != nil {
			dead = append(dead, c)
			metrics.WebsocketPushFailures.Inc()
		} else {
			metrics.WebsocketPushesDelivered.Inc()
		}
	}
	for _, c := range dead {
		r.Disconnect(c)
	}
}

// Broadcast delivers payload to every handle of every registered user, with
// the same self-healing semantics as SendPersonal.
func (r *Registry) Broadcast(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to marshal broadcast payload")
		return
	}

	r.mu.RLock()
	var handles []*Client
	for _, list := range r.conns {
		handles = append(handles, list...)
	}
	r.mu.RUnlock()

	var dead []*Client
	for _, c := range handles {
		if err := c.write(data); err != nil {
			dead = append(dead, c)
			metrics.WebsocketPushFailures.Inc()
		} else {
			metrics.WebsocketPushesDelivered.Inc()
		}
	}
	for _, c := range dead {
		r.Disconnect(c)
	}
}

// runHeartbeat pings the handle every interval until it is stopped or a
// ping fails. A failed ping ends the handle's life.
func (r *Registry) runHeartbeat(c *Client) {
	defer close(c.stopped)

	ticker := time.NewTicker(r.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.write(pingFrame); err != nil {
				r.log.Debug().Str("user_id", c.userID).Err(err).Msg("heartbeat failed, dropping connection")
				r.remove(c)
				_ = c.conn.Close()
				return
			}
		}
	}
}

// sizeLocked returns (distinct users, total handles). Caller holds r.mu.
func (r *Registry) sizeLocked() (int, int) {
	total := 0
	for _, list := range r.conns {
		total += len(list)
	}
	return len(r.conns), total
}
