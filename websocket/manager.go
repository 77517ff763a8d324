package websocket

import (
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message types, re-exported from gorilla/websocket.
const (
	TextMessage   = websocket.TextMessage
	BinaryMessage = websocket.BinaryMessage
)

// DefaultWriteTimeout bounds every write to a peer.
const DefaultWriteTimeout = 10 * time.Second

var (
	// ErrEndpointClosed is returned when accepting on a closed endpoint.
	ErrEndpointClosed = errors.New("websocket: endpoint closed")

	// ErrPeerNotFound is returned when sending to an unknown peer.
	ErrPeerNotFound = errors.New("websocket: peer not found")
)

// Manager owns the peers of one websocket endpoint.
type Manager struct {
	id           string
	upgrader     websocket.Upgrader
	writeTimeout time.Duration

	mu     sync.RWMutex
	peers  map[string]*Peer
	closed bool
}

// NewManager returns an endpoint manager using upgrader for handshakes.
func NewManager(id string, upgrader websocket.Upgrader) *Manager {
	return &Manager{
		id:           id,
		upgrader:     upgrader,
		writeTimeout: DefaultWriteTimeout,
		peers:        make(map[string]*Peer),
	}
}

// ID returns the endpoint identifier.
func (m *Manager) ID() string {
	return m.id
}

// Accept upgrades the request and registers the new peer. On a failed
// handshake the upgrader has already replied to the client.
func (m *Manager) Accept(w http.ResponseWriter, r *http.Request) (*Peer, error) {
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return nil, ErrEndpointClosed
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	p := &Peer{id: uuid.NewString(), manager: m, conn: conn}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		conn.Close()
		return nil, ErrEndpointClosed
	}
	m.peers[p.id] = p
	return p, nil
}

// Peers returns the identifiers of the connected peers, sorted.
func (m *Manager) Peers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.peers))
	for id := range m.peers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Peer returns a connected peer.
func (m *Manager) Peer(id string) (*Peer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.peers[id]
	return p, ok
}

// Send writes a message to one peer.
func (m *Manager) Send(peerID string, messageType int, data []byte) error {
	p, ok := m.Peer(peerID)
	if !ok {
		return ErrPeerNotFound
	}
	return p.Send(messageType, data)
}

// Broadcast writes a message to every peer. Peers that fail are closed and
// their errors joined.
func (m *Manager) Broadcast(messageType int, data []byte) error {
	m.mu.RLock()
	peers := make([]*Peer, 0, len(m.peers))
	for _, p := range m.peers {
		peers = append(peers, p)
	}
	m.mu.RUnlock()

	var errs []error
	for _, p := range peers {
		if err := p.Send(messageType, data); err != nil {
			errs = append(errs, err)
			p.Close()
		}
	}
	return errors.Join(errs...)
}

// Close sends a going-away close frame to every peer and closes their
// connections. Later Accept calls fail with ErrEndpointClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.closed = true
	peers := m.peers
	m.peers = make(map[string]*Peer)
	m.mu.Unlock()

	var errs []error
	for _, p := range peers {
		if err := p.close(websocket.CloseGoingAway, "endpoint closed"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.peers, id)
}

// Peer is one connection of an endpoint. Writes are serialized, reads
// belong to the handler that accepted the peer.
type Peer struct {
	id      string
	manager *Manager
	conn    *websocket.Conn

	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// ID returns the peer identifier.
func (p *Peer) ID() string {
	return p.id
}

// Conn returns the underlying connection.
func (p *Peer) Conn() *websocket.Conn {
	return p.conn
}

// Send writes one message to the peer.
func (p *Peer) Send(messageType int, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.conn.SetWriteDeadline(time.Now().Add(p.manager.writeTimeout)); err != nil {
		return err
	}
	return p.conn.WriteMessage(messageType, data)
}

// ReadMessage reads the next message from the peer.
func (p *Peer) ReadMessage() (int, []byte, error) {
	return p.conn.ReadMessage()
}

// Close sends a normal close frame, closes the connection and removes the
// peer from its endpoint.
func (p *Peer) Close() error {
	return p.close(websocket.CloseNormalClosure, "")
}

func (p *Peer) close(code int, text string) error {
	p.closeOnce.Do(func() {
		p.manager.remove(p.id)

		p.mu.Lock()
		p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, text),
			time.Now().Add(time.Second))
		p.mu.Unlock()

		p.closeErr = p.conn.Close()
	})
	return p.closeErr
}
