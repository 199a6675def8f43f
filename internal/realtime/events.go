package realtime

import (
	"encoding/json"
	"time"
)

// Wire events exchanged with the realtime endpoint.
const (
	eventAuthenticate     = "authenticate"
	eventAuthenticated    = "authenticated"
	eventAuthError        = "auth_error"
	eventSendMessage      = "send_message"
	eventJoinConversation = "join_conversation"
	eventMarkRead         = "mark_conversation_read"
	eventTyping           = "typing"
	eventNewMessage       = "new_message"
	eventNotification     = "message_notification"
	eventUserTyping       = "user_typing"
)

// envelope is the JSON frame carried over the websocket in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// InboundMessage is a chat message pushed by the server.
type InboundMessage struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	ConversationID string    `json:"conversation_id"`
	Content        string    `json:"content"`
	ClientKey      string    `json:"client_key,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Notification announces a new message for conversation-list unread state.
type Notification struct {
	ConversationID string         `json:"conversation_id"`
	Message        InboundMessage `json:"message"`
}

// TypingEvent reports a counterparty typing state change.
type TypingEvent struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	IsTyping       bool   `json:"is_typing"`
}
