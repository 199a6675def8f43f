// Package realtime maintains a single authenticated websocket connection
// used for push-style message delivery. The channel is a best-effort
// accelerator: every public operation degrades to "no realtime delivery"
// rather than surfacing a hard failure, and callers are expected to fall
// back to REST when it is down.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/ridematch/client-go/internal/logging"
)

// State of the channel connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "disconnected"
	}
}

// TokenSource supplies the stored access token for the auth handshake.
// *session.Store satisfies it.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Channel is the realtime connection manager.
type Channel struct {
	url            string
	tokens         TokenSource
	log            logging.Logger
	dialer         *websocket.Dialer
	connectTimeout time.Duration
	maxAttempts    int

	mu         sync.Mutex
	conn       *websocket.Conn
	state      State
	connecting bool

	// writeMu serializes frame writes; gorilla connections allow only
	// one concurrent writer.
	writeMu sync.Mutex

	onMessage      func(InboundMessage)
	onNotification func(Notification)
	onTyping       func(TypingEvent)
}

// New constructs a Channel pointing at the realtime endpoint url.
func New(url string, tokens TokenSource, log logging.Logger, connectTimeout time.Duration, maxAttempts int) *Channel {
	return &Channel{
		url:            url,
		tokens:         tokens,
		log:            log,
		dialer:         websocket.DefaultDialer,
		connectTimeout: connectTimeout,
		maxAttempts:    maxAttempts,
	}
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected reports whether the channel is ready to carry messages.
func (c *Channel) IsConnected() bool {
	return c.State() == StateAuthenticated
}

// Connect establishes and authenticates the connection. It returns true
// only after the server acknowledges the handshake. It resolves
// immediately when already connected, and false fast when no access token
// is stored, when a connection attempt is already in flight, when the
// server rejects authentication, or when the bounded dial attempts or the
// connect timeout are exhausted. Connect never returns an error: realtime
// is optional by contract.
func (c *Channel) Connect(ctx context.Context) bool {
	c.mu.Lock()
	if c.state == StateAuthenticated {
		c.mu.Unlock()
		return true
	}
	if c.connecting {
		c.mu.Unlock()
		return false
	}
	c.connecting = true
	c.state = StateConnecting
	c.mu.Unlock()

	ok := c.connect(ctx)

	c.mu.Lock()
	c.connecting = false
	if !ok {
		c.state = StateDisconnected
	}
	c.mu.Unlock()
	return ok
}

func (c *Channel) connect(ctx context.Context) bool {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil || token == "" {
		c.log.Warn(ctx, "no access token available for realtime connection")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	var conn *websocket.Conn
	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewConstant(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		dialed, resp, derr := c.dialer.DialContext(ctx, c.url, nil)
		if derr != nil {
			c.log.Warn(ctx, "realtime dial failed", "error", derr)
			return retry.RetryableError(derr)
		}
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		conn = dialed
		return nil
	})
	if err != nil {
		c.log.Warn(ctx, "realtime connection attempts exhausted", "error", err)
		return false
	}

	c.mu.Lock()
	c.state = StateConnected
	c.mu.Unlock()

	if !c.handshake(ctx, conn, token) {
		conn.Close()
		return false
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateAuthenticated
	c.mu.Unlock()

	go c.readLoop(conn)
	return true
}

// handshake sends the authenticate event and waits for the server ack.
func (c *Channel) handshake(ctx context.Context, conn *websocket.Conn, token string) bool {
	auth, _ := json.Marshal(map[string]string{"token": token})
	if err := conn.WriteJSON(envelope{Event: eventAuthenticate, Data: auth}); err != nil {
		c.log.Warn(ctx, "realtime handshake write failed", "error", err)
		return false
	}

	conn.SetReadDeadline(time.Now().Add(c.connectTimeout))
	defer conn.SetReadDeadline(time.Time{})

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.log.Warn(ctx, "realtime handshake read failed", "error", err)
			return false
		}
		switch env.Event {
		case eventAuthenticated:
			var ack struct {
				UserID string `json:"user_id"`
			}
			_ = json.Unmarshal(env.Data, &ack)
			c.log.Info(ctx, "realtime channel authenticated", "user_id", ack.UserID)
			return true
		case eventAuthError:
			c.log.Warn(ctx, "realtime authentication rejected")
			return false
		default:
			// Unrelated events may arrive before the ack; skip them.
		}
	}
}

// readLoop pumps inbound frames until the connection closes, then marks
// the channel disconnected.
func (c *Channel) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
			c.state = StateDisconnected
		}
		c.mu.Unlock()
	}()

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.log.Debug(context.Background(), "realtime connection closed", "error", err)
			return
		}
		c.dispatch(env)
	}
}

func (c *Channel) dispatch(env envelope) {
	c.mu.Lock()
	onMessage := c.onMessage
	onNotification := c.onNotification
	onTyping := c.onTyping
	c.mu.Unlock()

	ctx := context.Background()
	switch env.Event {
	case eventNewMessage:
		var msg InboundMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			c.log.Warn(ctx, "malformed new_message event", "error", err)
			return
		}
		if onMessage != nil {
			onMessage(msg)
		}
	case eventNotification:
		var n Notification
		if err := json.Unmarshal(env.Data, &n); err != nil {
			c.log.Warn(ctx, "malformed message_notification event", "error", err)
			return
		}
		if onNotification != nil {
			onNotification(n)
		}
	case eventUserTyping:
		var ev TypingEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return
		}
		if onTyping != nil {
			onTyping(ev)
		}
	}
}

// emit writes one fire-and-forget event. When the channel is not
// authenticated the event is dropped; the caller is responsible for the
// REST fallback.
func (c *Channel) emit(event string, data any) {
	c.mu.Lock()
	conn := c.conn
	ready := c.state == StateAuthenticated
	c.mu.Unlock()

	if !ready || conn == nil {
		c.log.Warn(context.Background(), "realtime channel not connected, dropping event", "event", event)
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		c.log.Warn(context.Background(), "failed to encode realtime event", "event", event, "error", err)
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteJSON(envelope{Event: event, Data: payload}); err != nil {
		c.log.Warn(context.Background(), "failed to write realtime event", "event", event, "error", err)
	}
}

// SendMessage emits a chat message. clientKey is the idempotency key the
// server echoes back in new_message so senders can reconcile their
// optimistic copy.
func (c *Channel) SendMessage(receiverID, content, clientKey string) {
	c.emit(eventSendMessage, map[string]string{
		"receiver_id": receiverID,
		"content":     content,
		"client_key":  clientKey,
	})
}

// JoinConversation scopes the connection to a conversation room.
func (c *Channel) JoinConversation(conversationID string) {
	c.emit(eventJoinConversation, map[string]string{"conversation_id": conversationID})
}

// MarkConversationRead reports the conversation as read. No ack expected.
func (c *Channel) MarkConversationRead(conversationID string) {
	c.emit(eventMarkRead, map[string]string{"conversation_id": conversationID})
}

// Typing reports the local user's typing state.
func (c *Channel) Typing(conversationID string, isTyping bool) {
	c.emit(eventTyping, map[string]any{
		"conversation_id": conversationID,
		"is_typing":       isTyping,
	})
}

// OnNewMessage registers the listener for pushed chat messages.
func (c *Channel) OnNewMessage(fn func(InboundMessage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = fn
}

// OnNotification registers the listener for unread-count notifications.
func (c *Channel) OnNotification(fn func(Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNotification = fn
}

// OnTyping registers the listener for typing indicators.
func (c *Channel) OnTyping(fn func(TypingEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTyping = fn
}

// RemoveListeners drops all registered listeners.
func (c *Channel) RemoveListeners() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = nil
	c.onNotification = nil
	c.onTyping = nil
}

// Disconnect tears down the connection and resets state. Idempotent.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.connecting = false
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}
