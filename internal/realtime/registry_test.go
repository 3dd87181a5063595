package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Fake connection
// ---------------------------------------------------------------------------

type fakeConn struct {
	mu       sync.Mutex
	frames   [][]byte
	failWith error // when set, WriteMessage returns it
	closed   bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) fail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = errors.New("connection gone")
}

func (f *fakeConn) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeConn) frameAt(i int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames[i]
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func frameType(t *testing.T, data []byte) string {
	t.Helper()
	var frame struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	return frame.Type
}

// long heartbeat keeps the ticker out of tests that don't exercise it
const quietHeartbeat = time.Hour

// ---------------------------------------------------------------------------
// Connect / Disconnect
// ---------------------------------------------------------------------------

func TestRegistry_Connect_SendsAck(t *testing.T) {
	r := NewRegistry(quietHeartbeat, discardLogger)
	conn := &fakeConn{}

	client := r.Connect(conn, "user-1")
	defer r.Disconnect(client)

	if !r.IsConnected("user-1") {
		t.Fatal("expected user-1 to be connected")
	}
	if conn.frameCount() != 1 {
		t.Fatalf("expected 1 frame (ack), got %d", conn.frameCount())
	}

	var ack struct {
		Type   string `json:"type"`
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(conn.frameAt(0), &ack); err != nil {
		t.Fatalf("unmarshal ack: %v", err)
	}
	if ack.Type != "connected" || ack.UserID != "user-1" {
		t.Fatalf("wrong ack frame: %+v", ack)
	}
}

func TestRegistry_Disconnect_RemovesUser(t *testing.T) {
	r := NewRegistry(quietHeartbeat, discardLogger)
	conn := &fakeConn{}

	client := r.Connect(conn, "user-1")
	r.Disconnect(client)

	if r.IsConnected("user-1") {
		t.Fatal("expected user-1 to be disconnected")
	}
	if !conn.isClosed() {
		t.Fatal("expected underlying connection to be closed")
	}
	if r.ConnectedUsers() != 0 {
		t.Fatalf("expected 0 connected users, got %d", r.ConnectedUsers())
	}
}

func TestRegistry_Disconnect_Idempotent(t *testing.T) {
	r := NewRegistry(quietHeartbeat, discardLogger)
	client := r.Connect(&fakeConn{}, "user-1")

	r.Disconnect(client)
	r.Disconnect(client) // second call must not panic or block

	if r.IsConnected("user-1") {
		t.Fatal("expected user-1 to stay disconnected")
	}
}

func TestRegistry_MultipleHandlesPerUser(t *testing.T) {
	r := NewRegistry(quietHeartbeat, discardLogger)
	phone := &fakeConn{}
	laptop := &fakeConn{}

	c1 := r.Connect(phone, "user-1")
	c2 := r.Connect(laptop, "user-1")
	defer r.Disconnect(c2)

	if r.ConnectedUsers() != 1 {
		t.Fatalf("expected 1 distinct user, got %d", r.ConnectedUsers())
	}

	// Dropping one handle keeps the user connected.
	r.Disconnect(c1)
	if !r.IsConnected("user-1") {
		t.Fatal("expected user-1 to remain connected via second handle")
	}
}

// ---------------------------------------------------------------------------
// Fan-out
// ---------------------------------------------------------------------------

func TestRegistry_SendPersonal_FansOutToAllHandles(t *testing.T) {
	r := NewRegistry(quietHeartbeat, discardLogger)
	phone := &fakeConn{}
	laptop := &fakeConn{}
	other := &fakeConn{}

	c1 := r.Connect(phone, "user-1")
	c2 := r.Connect(laptop, "user-1")
	c3 := r.Connect(other, "user-2")
	defer r.Disconnect(c1)
	defer r.Disconnect(c2)
	defer r.Disconnect(c3)

	r.SendPersonal("user-1", map[string]string{"type": "notification"})

	// ack + payload on each of user-1's handles, ack only on user-2's
	if phone.frameCount() != 2 {
		t.Fatalf("phone: expected 2 frames, got %d", phone.frameCount())
	}
	if laptop.frameCount() != 2 {
		t.Fatalf("laptop: expected 2 frames, got %d", laptop.frameCount())
	}
	if other.frameCount() != 1 {
		t.Fatalf("other user must not receive the personal message, got %d frames", other.frameCount())
	}
	if typ := frameType(t, phone.frameAt(1)); typ != "notification" {
		t.Fatalf("expected notification frame, got %q", typ)
	}
}

func TestRegistry_SendPersonal_NoHandlesIsNoop(t *testing.T) {
	r := NewRegistry(quietHeartbeat, discardLogger)
	r.SendPersonal("ghost", map[string]string{"type": "notification"})
	// nothing to assert beyond the absence of a panic
}

func TestRegistry_SendPersonal_DisconnectsDeadHandle(t *testing.T) {
	r := NewRegistry(quietHeartbeat, discardLogger)
	healthy := &fakeConn{}
	dying := &fakeConn{}

	c1 := r.Connect(healthy, "user-1")
	c2 := r.Connect(dying, "user-1")
	defer r.Disconnect(c1)
	_ = c2

	dying.fail()
	r.SendPersonal("user-1", map[string]string{"type": "notification"})

	if !r.IsConnected("user-1") {
		t.Fatal("healthy handle must survive")
	}
	if !dying.isClosed() {
		t.Fatal("dead handle must be closed")
	}
	if healthy.frameCount() != 2 {
		t.Fatalf("healthy handle: expected ack + payload, got %d frames", healthy.frameCount())
	}

	// Only the healthy handle remains; a second send reaches exactly one conn.
	r.SendPersonal("user-1", map[string]string{"type": "notification"})
	if healthy.frameCount() != 3 {
		t.Fatalf("expected 3 frames on healthy handle, got %d", healthy.frameCount())
	}
}

func TestRegistry_Broadcast_ReachesEveryUser(t *testing.T) {
	r := NewRegistry(quietHeartbeat, discardLogger)
	a := &fakeConn{}
	b := &fakeConn{}

	c1 := r.Connect(a, "user-a")
	c2 := r.Connect(b, "user-b")
	defer r.Disconnect(c1)
	defer r.Disconnect(c2)

	r.Broadcast(map[string]string{"type": "system"})

	if a.frameCount() != 2 || b.frameCount() != 2 {
		t.Fatalf("expected ack + broadcast on both conns, got %d and %d", a.frameCount(), b.frameCount())
	}
}

// ---------------------------------------------------------------------------
// Heartbeat
// ---------------------------------------------------------------------------

func TestRegistry_Heartbeat_SendsPings(t *testing.T) {
	r := NewRegistry(20*time.Millisecond, discardLogger)
	conn := &fakeConn{}

	client := r.Connect(conn, "user-1")
	defer r.Disconnect(client)

	deadline := time.Now().Add(2 * time.Second)
	for conn.frameCount() < 4 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if conn.frameCount() < 4 {
		t.Fatalf("expected at least 3 pings after the ack, got %d frames", conn.frameCount())
	}
	if typ := frameType(t, conn.frameAt(1)); typ != "ping" {
		t.Fatalf("expected ping frame, got %q", typ)
	}
}

func TestRegistry_Heartbeat_FailureDropsConnection(t *testing.T) {
	r := NewRegistry(10*time.Millisecond, discardLogger)
	conn := &fakeConn{}

	_ = r.Connect(conn, "user-1")
	conn.fail()

	deadline := time.Now().Add(2 * time.Second)
	for r.IsConnected("user-1") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if r.IsConnected("user-1") {
		t.Fatal("expected the failed heartbeat to drop the connection")
	}
	if !conn.isClosed() {
		t.Fatal("expected underlying connection to be closed")
	}
}
