// Package chat maintains a live group-chat session: a WebSocket stream on
// top of the API client's credentials plus an in-memory ordered message log.
//
// The log is the reconciliation point for optimistic sends: the caller
// appends a message locally (with its client-generated token) before
// writing it to the stream, and the server echo is dropped by the
// token-dedup rule when it arrives. Mutations replace the whole slice, so
// snapshots handed out by Messages are never written to again.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/packetapp/packet-go/internal/api"
	"github.com/packetapp/packet-go/internal/metrics"
	"github.com/packetapp/packet-go/internal/models"
	"github.com/packetapp/packet-go/internal/session"
)

// ErrNotConnected is returned by Send when the session is not in the
// Connected state.
var ErrNotConnected = errors.New("chat not connected")

// State is the connection state of a chat session.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is one group's chat: the live stream handle plus the message log.
// There is no automatic reconnect; after a connection loss the caller
// re-invokes Connect.
type Session struct {
	client *api.Client
	store  session.Store
	dialer *websocket.Dialer

	mu      sync.Mutex
	state   State
	conn    *websocket.Conn
	groupID int
	log     []models.ChatMessage
	seen    map[string]struct{}

	// writeMu serializes frame writes (Send and the close frame); the
	// websocket allows only one concurrent writer. Never held together
	// with mu, so a stalled socket cannot block state or log access.
	writeMu sync.Mutex
}

// NewSession creates a disconnected chat session using the given API client
// for history/delete calls and the session store for stream credentials.
func NewSession(client *api.Client, store session.Store) *Session {
	return &Session{
		client: client,
		store:  store,
		dialer: websocket.DefaultDialer,
		seen:   make(map[string]struct{}),
	}
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a snapshot of the log: history order for loaded
// messages, arrival order for live ones. The slice is never mutated after
// being returned.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log
}

// LoadHistory fetches the full message log for the group and replaces the
// in-memory log wholesale.
func (s *Session) LoadHistory(ctx context.Context, groupID int) ([]models.ChatMessage, error) {
	history, err := s.client.ChatHistory(ctx, groupID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(history))
	for _, msg := range history {
		seen[msg.Token] = struct{}{}
	}

	s.mu.Lock()
	s.log = history
	s.seen = seen
	s.mu.Unlock()

	slog.Debug("chat history loaded", "group_id", groupID, "messages", len(history))
	return history, nil
}

// Connect opens the bidirectional stream for the group, authenticated with
// the current access token, and starts the background read loop. Inbound
// messages are appended to the log unless their token is already present,
// then handed to onMessage for UI side effects. Connection loss moves the
// session back to Disconnected.
func (s *Session) Connect(ctx context.Context, groupID int, onMessage func(models.ChatMessage)) error {
	s.mu.Lock()
	if s.state != Disconnected {
		s.mu.Unlock()
		return fmt.Errorf("chat session already %s", s.state)
	}
	s.state = Connecting
	s.mu.Unlock()

	token, ok := s.store.AccessToken()
	if !ok {
		s.setDisconnected(nil)
		return api.ErrNotLoggedIn
	}

	streamURL, err := wsURL(s.client.BaseURL(), fmt.Sprintf("/chat/%d", groupID))
	if err != nil {
		s.setDisconnected(nil)
		return err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := s.dialer.DialContext(ctx, streamURL, header)
	if err != nil {
		s.setDisconnected(nil)
		return fmt.Errorf("failed to connect chat stream: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.groupID = groupID
	s.state = Connected
	s.mu.Unlock()
	slog.Info("chat connected", "group_id", groupID)

	go s.readLoop(conn, onMessage)
	return nil
}

// Send writes a message onto the stream. The caller is expected to have
// appended it to the log already via Append; the server echo is then a
// dedup no-op.
func (s *Session) Send(msg models.ChatMessage) error {
	s.mu.Lock()
	conn := s.conn
	connected := s.state == Connected
	s.mu.Unlock()
	if !connected || conn == nil {
		return ErrNotConnected
	}

	s.writeMu.Lock()
	err := conn.WriteJSON(msg)
	s.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	metrics.ChatMessages.WithLabelValues("out").Inc()
	return nil
}

// Append adds a locally-originated message to the log, subject to the same
// token-dedup rule as inbound frames. Returns false if the token was
// already present.
func (s *Session) Append(msg models.ChatMessage) bool {
	return s.appendIfNew(msg)
}

// Delete removes a message server-side and drops it from the local log by
// token.
func (s *Session) Delete(ctx context.Context, token string) error {
	if err := s.client.DeleteMessage(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[token]; !ok {
		return nil
	}
	next := make([]models.ChatMessage, 0, len(s.log)-1)
	for _, msg := range s.log {
		if msg.Token != token {
			next = append(next, msg)
		}
	}
	s.log = next
	delete(s.seen, token)
	return nil
}

// Disconnect performs a clean shutdown, sending a normal-closure frame if
// currently connected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	conn := s.conn
	connected := s.state == Connected
	groupID := s.groupID
	s.conn = nil
	s.state = Disconnected
	s.mu.Unlock()

	if conn == nil {
		return
	}
	if connected {
		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client disconnected")
		s.writeMu.Lock()
		err := conn.WriteMessage(websocket.CloseMessage, closeMsg)
		s.writeMu.Unlock()
		if err != nil {
			slog.Debug("failed to send close frame", "error", err)
		}
	}
	conn.Close()
	slog.Info("chat disconnected", "group_id", groupID)
}

func (s *Session) readLoop(conn *websocket.Conn, onMessage func(models.ChatMessage)) {
	defer s.setDisconnected(conn)

	for {
		var msg models.ChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("chat stream closed", "error", err)
			}
			return
		}
		metrics.ChatMessages.WithLabelValues("in").Inc()

		s.appendIfNew(msg)
		if onMessage != nil {
			onMessage(msg)
		}
	}
}

// appendIfNew appends under the token-dedup rule, replacing the log slice
// so outstanding snapshots stay valid.
func (s *Session) appendIfNew(msg models.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[msg.Token]; dup {
		return false
	}
	next := make([]models.ChatMessage, len(s.log), len(s.log)+1)
	copy(next, s.log)
	s.log = append(next, msg)
	s.seen[msg.Token] = struct{}{}
	return true
}

// setDisconnected clears the live-session handle if it still belongs to
// conn (a newer Connect may have replaced it already).
func (s *Session) setDisconnected(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conn != nil && s.conn != conn {
		return
	}
	if s.conn != nil {
		s.conn.Close()
	}
	s.conn = nil
	s.state = Disconnected
}

// wsURL converts the HTTP base URL into the websocket endpoint for path.
func wsURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a websocket URL
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = path
	return u.String(), nil
}
