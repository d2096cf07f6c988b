package sse

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/jsonrpc"
)

const (
	// DefaultHeartbeatInterval is how often each connection's timer emits a
	// ping event.
	DefaultHeartbeatInterval = 30 * time.Second

	// DefaultHeartbeatTimeout is how long a connection may go without a
	// successful heartbeat before it is presumed dead and closed.
	DefaultHeartbeatTimeout = 120 * time.Second

	// DefaultRetryHintMillis is the client-reconnect hint sent with the
	// initial connected event.
	DefaultRetryHintMillis = 3000
)

// ErrConnectionClosed is returned by sends against a closed connection.
var ErrConnectionClosed = errors.New("sse: connection closed")

// EventSink is where a connection's encoded events are written. The HTTP
// boundary supplies one wrapping the response writer; tests supply fakes.
type EventSink interface {
	WriteEvent(ev Event) error
}

// Connection is one live outbound event stream bound to a session id. It is
// created and closed exclusively by the Manager.
type Connection struct {
	sessionID string
	createdAt time.Time
	sink      EventSink

	mu            sync.Mutex
	closed        bool
	lastHeartbeat time.Time
	eventsSent    int64

	done      chan struct{}
	closeOnce sync.Once
}

// SessionID returns the owning session id.
func (c *Connection) SessionID() string { return c.sessionID }

// Done is closed when the connection transitions to CLOSED. The HTTP layer
// blocks on it to keep the response body open.
func (c *Connection) Done() <-chan struct{} { return c.done }

// EventsSent returns the number of events successfully written so far.
func (c *Connection) EventsSent() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eventsSent
}

// send encodes and writes one event, bumping the sent counter on success.
func (c *Connection) send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	if err := c.sink.WriteEvent(ev); err != nil {
		return err
	}
	c.eventsSent++
	return nil
}

func (c *Connection) close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Connection) heartbeatAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastHeartbeat
}

func (c *Connection) setHeartbeatAt(t time.Time) {
	c.mu.Lock()
	c.lastHeartbeat = t
	c.mu.Unlock()
}

// Manager maintains at most one live connection per session id and delivers
// fire-and-forget notifications to them. Delivery is best effort: absence of
// a connection is a normal false return, never an error.
type Manager struct {
	mu    sync.Mutex
	conns map[string]*Connection

	heartbeatInterval time.Duration
	heartbeatTimeout  time.Duration
	retryHintMillis   int
	now               func() time.Time
	log               *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHeartbeatInterval overrides the ping cadence.
func WithHeartbeatInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.heartbeatInterval = d
		}
	}
}

// WithHeartbeatTimeout overrides the dead-connection window.
func WithHeartbeatTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.heartbeatTimeout = d
		}
	}
}

// WithRetryHint overrides the reconnect hint advertised on open.
func WithRetryHint(millis int) ManagerOption {
	return func(m *Manager) {
		if millis > 0 {
			m.retryHintMillis = millis
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager constructs an empty connection manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		conns:             make(map[string]*Connection),
		heartbeatInterval: DefaultHeartbeatInterval,
		heartbeatTimeout:  DefaultHeartbeatTimeout,
		retryHintMillis:   DefaultRetryHintMillis,
		now:               time.Now,
		log:               slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateConnection opens a stream for the session id, forcibly closing and
// replacing any prior connection for the same id (last writer wins). It
// emits the connected event with the reconnect hint and starts the
// per-connection heartbeat timer. When ctx is cancelled by the consumer the
// connection goes through the same cleanup path as an explicit close.
func (m *Manager) CreateConnection(ctx context.Context, sessionID string, sink EventSink) (*Connection, error) {
	now := m.now()
	conn := &Connection{
		sessionID:     sessionID,
		createdAt:     now,
		sink:          sink,
		lastHeartbeat: now,
		done:          make(chan struct{}),
	}

	m.mu.Lock()
	prev := m.conns[sessionID]
	m.conns[sessionID] = conn
	m.mu.Unlock()

	if prev != nil {
		prev.close()
		m.log.InfoContext(ctx, "sse.connection.replace", slog.String("session_id", sessionID))
	}

	err := conn.send(Event{
		Type:        "connected",
		RetryMillis: m.retryHintMillis,
		Data:        map[string]string{"sessionId": sessionID},
	})
	if err != nil {
		m.closeIfCurrent(conn)
		return nil, err
	}

	go m.heartbeatLoop(conn)
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				m.closeIfCurrent(conn)
			case <-conn.done:
			}
		}()
	}

	m.log.InfoContext(ctx, "sse.connection.open", slog.String("session_id", sessionID))
	return conn, nil
}

// heartbeatLoop is the cancellable scheduled task tied 1:1 to the
// connection. Every tick re-looks the connection up by id so a stale timer
// can never act on a removed or replaced entry.
func (m *Manager) heartbeatLoop(conn *Connection) {
	ticker := time.NewTicker(m.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-conn.done:
			return
		case <-ticker.C:
			if m.lookup(conn.sessionID) != conn {
				return
			}
			if m.now().Sub(conn.heartbeatAt()) > m.heartbeatTimeout {
				// The write layer stopped confirming liveness (e.g. a network
				// partition that never surfaces a send failure); presume dead.
				m.log.Info("sse.heartbeat.timeout", slog.String("session_id", conn.sessionID))
				m.closeIfCurrent(conn)
				return
			}
			err := conn.send(Event{
				Type: "ping",
				Data: map[string]string{"timestamp": m.now().UTC().Format(time.RFC3339)},
			})
			if err != nil {
				m.log.Info("sse.heartbeat.fail", slog.String("session_id", conn.sessionID), slog.String("err", err.Error()))
				m.closeIfCurrent(conn)
				return
			}
			conn.setHeartbeatAt(m.now())
		}
	}
}

// SendNotification delivers a JSON-RPC notification envelope to the session's
// live connection. Returns false when no connection exists or the write
// fails; a failed write closes the connection.
func (m *Manager) SendNotification(sessionID, method string, params any) bool {
	conn := m.lookup(sessionID)
	if conn == nil {
		return false
	}

	err := conn.send(Event{
		Type: "notification",
		Data: jsonrpc.NewNotification(method, params),
	})
	if err != nil {
		m.log.Info("sse.notify.fail", slog.String("session_id", sessionID), slog.String("err", err.Error()))
		m.closeIfCurrent(conn)
		return false
	}
	return true
}

// BroadcastNotification sends the notification to every tracked session id
// and returns the number of successful deliveries.
func (m *Manager) BroadcastNotification(method string, params any) int {
	m.mu.Lock()
	ids := make([]string, 0, len(m.conns))
	for id := range m.conns {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	sent := 0
	for _, id := range ids {
		if m.SendNotification(id, method, params) {
			sent++
		}
	}
	return sent
}

// CloseConnection closes the session's connection if one exists. Safe to call
// for an unknown or already-closed id.
func (m *Manager) CloseConnection(sessionID string) {
	m.mu.Lock()
	conn := m.conns[sessionID]
	delete(m.conns, sessionID)
	m.mu.Unlock()

	if conn != nil {
		conn.close()
		m.log.Info("sse.connection.close", slog.String("session_id", sessionID))
	}
}

// CloseAll closes every tracked connection. Called on process shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	conns := m.conns
	m.conns = make(map[string]*Connection)
	m.mu.Unlock()

	for _, conn := range conns {
		conn.close()
	}
}

// Count returns the number of live connections.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}

func (m *Manager) lookup(sessionID string) *Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conns[sessionID]
}

// closeIfCurrent removes conn from the map only if it is still the entry for
// its session id, then closes it. A replaced connection's timer or cancel
// watcher must not tear down its successor.
func (m *Manager) closeIfCurrent(conn *Connection) {
	m.mu.Lock()
	if m.conns[conn.sessionID] == conn {
		delete(m.conns, conn.sessionID)
	}
	m.mu.Unlock()
	conn.close()
}
