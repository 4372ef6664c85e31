// Package hub implements the process-wide publish/subscribe registry over
// live client connections. It is the only component in the backend with
// ordering/coordination concerns: everything else is request/response.
//
// Semantics:
//   - Delivery is best-effort and fire-and-forget. Publish writes to every
//     open connection synchronously and never reports partial failure back
//     to the caller.
//   - A connection whose transport is not open, or whose write fails, is
//     silently skipped for that event. Failed writers are moved to the
//     Closed state so later publishes stop attempting them.
//   - Events from a single publisher reach each subscriber in publish
//     order. There is no replay for late subscribers and no cross-publisher
//     ordering.
//
// The hub is a notification channel, not a source of truth: the store is
// authoritative and clients reconcile by re-fetching.
package hub

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle phase of a connection. Connections move strictly
// forward: Connecting -> Open -> Closed.
type State int32

const (
	// StateConnecting: registered, transport not yet ready for delivery.
	StateConnecting State = iota
	// StateOpen: eligible to receive published events.
	StateOpen
	// StateClosed: terminal; never delivered to again.
	StateClosed
)

// String returns a stable label for logging.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Transport is the minimal write surface the hub needs from a live socket.
// *websocket.Conn satisfies it; tests use in-memory fakes.
type Transport interface {
	WriteJSON(v any) error
}

// Connection is a live subscriber handle. It owns no domain data, only the
// transport reference and its lifecycle state. All broadcasts reach all
// open connections; topic filtering happens client-side on the chatId
// field of each payload.
type Connection struct {
	id        string
	transport Transport

	state atomic.Int32

	// Serializes writes; websocket transports do not allow concurrent
	// writers.
	writeMu sync.Mutex
}

// ID returns the hub-assigned connection identifier.
func (c *Connection) ID() string { return c.id }

// State returns the connection's current lifecycle state.
func (c *Connection) State() State { return State(c.state.Load()) }

// Open marks the transport ready for delivery. Only a Connecting
// connection transitions; calling Open on a Closed connection is a no-op.
func (c *Connection) Open() {
	c.state.CompareAndSwap(int32(StateConnecting), int32(StateOpen))
}

// Close moves the connection to its terminal state. Idempotent.
func (c *Connection) Close() {
	c.state.Store(int32(StateClosed))
}

// send writes one payload to the transport, serializing concurrent writers.
func (c *Connection) send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.transport.WriteJSON(v)
}

// Hub maintains the set of currently connected subscribers. Membership is
// owned state, mutated only through Register/Unregister.
type Hub struct {
	mu    sync.RWMutex
	conns map[*Connection]struct{}
}

// New returns an empty hub.
func New() *Hub {
	return &Hub{conns: make(map[*Connection]struct{})}
}

// Register adds a connection for the given transport to the live set and
// returns its handle in the Connecting state. There is no capacity limit
// and no error condition; the caller promotes the handle with Open once
// the transport is ready.
func (h *Hub) Register(t Transport) *Connection {
	c := &Connection{id: uuid.NewString(), transport: t}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unregister removes a connection from the live set and closes its state.
// It is idempotent: unregistering an already-removed connection is a no-op.
// Must be invoked on every connection-close and connection-error signal so
// dead subscribers do not leak.
func (h *Hub) Unregister(c *Connection) {
	if c == nil {
		return
	}
	c.Close()
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// Publish delivers event synchronously to every currently-registered open
// connection, skipping exclude if non-nil. Connections that are not open
// are skipped without queueing or retry; a write error closes that
// connection and is otherwise swallowed. Publish never blocks on
// acknowledgment and never reports delivery failures to the caller.
func (h *Hub) Publish(event any, exclude *Connection) {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if c == exclude {
			continue
		}
		if c.State() != StateOpen {
			continue
		}
		if err := c.send(event); err != nil {
			// Best effort: drop the subscriber for this and all
			// subsequent events; the transport loop unregisters it.
			c.Close()
			log.Debug().Str("conn_id", c.id).Err(err).Msg("hub delivery skipped")
		}
	}
}

// Len reports the number of registered connections (any state).
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
