package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ridematch/client-go/internal/fallback"
	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/models"
	"github.com/ridematch/client-go/internal/realtime"
	"github.com/ridematch/client-go/internal/session"
)

// RealtimeChannel is the realtime surface the messaging facade drives.
// *realtime.Channel satisfies it.
type RealtimeChannel interface {
	Connect(ctx context.Context) bool
	Disconnect()
	IsConnected() bool
	SendMessage(receiverID, content, clientKey string)
	JoinConversation(conversationID string)
	MarkConversationRead(conversationID string)
	Typing(conversationID string, isTyping bool)
	OnNewMessage(fn func(realtime.InboundMessage))
	OnNotification(fn func(realtime.Notification))
	OnTyping(fn func(realtime.TypingEvent))
	RemoveListeners()
}

// Messaging is the chat facade. Reads degrade to the bundled sample
// conversations. SendMessage is strict: a swallowed send error would leave
// the optimistic copy stuck pending forever, so failures surface to the
// caller, which marks the message failed in place.
type Messaging struct {
	api      API
	channel  RealtimeChannel
	sessions *session.Store
	log      logging.Logger
	now      func() time.Time
	newKey   func() string
}

func NewMessaging(api API, channel RealtimeChannel, sessions *session.Store, log logging.Logger) *Messaging {
	return &Messaging{
		api:      api,
		channel:  channel,
		sessions: sessions,
		log:      log,
		now:      time.Now,
		newKey:   uuid.NewString,
	}
}

type conversationPayload struct {
	ID          string `json:"id"`
	MongoID     string `json:"_id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	LastMessage string `json:"lastMessage"`
	Timestamp   string `json:"timestamp"`
	Unread      bool   `json:"unread"`
	UnreadCount int    `json:"unread_count"`
}

func (p conversationPayload) toModel() models.Conversation {
	c := models.Conversation{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		LastMessage: p.LastMessage,
		Unread:      p.Unread || p.UnreadCount > 0,
		UnreadCount: p.UnreadCount,
	}
	if c.ID == "" {
		c.ID = p.MongoID
	}
	if t, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
		c.Timestamp = t
	}
	return c
}

// Conversations lists the inbox. Degrades to the sample conversations.
func (m *Messaging) Conversations(ctx context.Context) []models.Conversation {
	return fallback.WithFallback(ctx, m.log, "get conversations",
		func(ctx context.Context) ([]models.Conversation, error) {
			var resp []conversationPayload
			if err := m.api.Get(ctx, "/messaging/conversations", &resp); err != nil {
				return nil, err
			}
			var conversations []models.Conversation
			if resp != nil {
				conversations = make([]models.Conversation, 0, len(resp))
			}
			for _, p := range resp {
				conversations = append(conversations, p.toModel())
			}
			return fallback.EnsureSlice(conversations, fallback.SampleConversations()), nil
		},
		fallback.SampleConversations())
}

type messagePayload struct {
	ID         string `json:"id"`
	MongoID    string `json:"_id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
	ClientKey  string `json:"client_key"`
	Timestamp  string `json:"timestamp"`
}

func (p messagePayload) toModel(currentUserID string) models.Message {
	msg := models.Message{
		ID:         p.ID,
		ClientKey:  p.ClientKey,
		SenderID:   p.SenderID,
		ReceiverID: p.ReceiverID,
		Text:       p.Content,
		Sent:       p.SenderID == currentUserID,
		State:      models.DeliveryConfirmed,
	}
	if msg.ID == "" {
		msg.ID = p.MongoID
	}
	if t, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
		msg.Timestamp = t
	}
	return msg
}

// Messages returns the history with one counterparty. Degrades to the
// sample chat transcript.
func (m *Messaging) Messages(ctx context.Context, userID string) []models.Message {
	currentUserID := m.currentUserID(ctx)
	return fallback.WithFallback(ctx, m.log, "get messages",
		func(ctx context.Context) ([]models.Message, error) {
			var resp []messagePayload
			if err := m.api.Get(ctx, "/messaging/"+userID, &resp); err != nil {
				return nil, err
			}
			var messages []models.Message
			if resp != nil {
				messages = make([]models.Message, 0, len(resp))
			}
			for _, p := range resp {
				messages = append(messages, p.toModel(currentUserID))
			}
			return fallback.EnsureSlice(messages, fallback.SampleChatMessages()), nil
		},
		fallback.SampleChatMessages())
}

// SendMessage delivers text to a counterparty, preferring the realtime
// channel and falling back to REST when it is down.
//
// The returned message always carries a fresh client key and, until the
// server answers, a temporary local id. Over the channel the send is
// fire-and-forget and the message stays pending until the realtime echo
// confirms it. Over REST the server reply confirms it immediately. On
// REST failure the message comes back marked failed alongside the error;
// there is no automatic retry.
func (m *Messaging) SendMessage(ctx context.Context, receiverID, text string) (models.Message, error) {
	key := m.newKey()
	msg := models.Message{
		ID:         "local_" + key,
		ClientKey:  key,
		SenderID:   m.currentUserID(ctx),
		ReceiverID: receiverID,
		Text:       text,
		Sent:       true,
		Timestamp:  m.now(),
		State:      models.DeliveryPending,
	}

	if m.channel != nil && m.channel.IsConnected() {
		m.channel.SendMessage(receiverID, text, key)
		return msg, nil
	}

	body := map[string]string{
		"receiver_id": receiverID,
		"content":     text,
		"client_key":  key,
	}
	var resp messagePayload
	if err := m.api.Post(ctx, "/messaging/send", body, &resp); err != nil {
		msg.State = models.DeliveryFailed
		return msg, err
	}
	if id := resp.ID; id != "" {
		msg.ID = id
	} else if resp.MongoID != "" {
		msg.ID = resp.MongoID
	}
	if t, err := time.Parse(time.RFC3339, resp.Timestamp); err == nil {
		msg.Timestamp = t
	}
	msg.State = models.DeliveryConfirmed
	return msg, nil
}

// Connect brings up the realtime channel. False means degraded mode; the
// poller takes over and REST sends keep working.
func (m *Messaging) Connect(ctx context.Context) bool {
	if m.channel == nil {
		return false
	}
	return m.channel.Connect(ctx)
}

func (m *Messaging) Disconnect() {
	if m.channel != nil {
		m.channel.Disconnect()
	}
}

// ChannelConnected reports whether realtime delivery is live.
func (m *Messaging) ChannelConnected() bool {
	return m.channel != nil && m.channel.IsConnected()
}

func (m *Messaging) JoinConversation(conversationID string) {
	if m.channel != nil {
		m.channel.JoinConversation(conversationID)
	}
}

func (m *Messaging) MarkConversationRead(conversationID string) {
	if m.channel != nil {
		m.channel.MarkConversationRead(conversationID)
	}
}

func (m *Messaging) Typing(conversationID string, isTyping bool) {
	if m.channel != nil {
		m.channel.Typing(conversationID, isTyping)
	}
}

func (m *Messaging) OnNewMessage(fn func(realtime.InboundMessage)) {
	if m.channel != nil {
		m.channel.OnNewMessage(fn)
	}
}

func (m *Messaging) OnNotification(fn func(realtime.Notification)) {
	if m.channel != nil {
		m.channel.OnNotification(fn)
	}
}

func (m *Messaging) OnTyping(fn func(realtime.TypingEvent)) {
	if m.channel != nil {
		m.channel.OnTyping(fn)
	}
}

func (m *Messaging) RemoveListeners() {
	if m.channel != nil {
		m.channel.RemoveListeners()
	}
}

func (m *Messaging) currentUserID(ctx context.Context) string {
	sess, err := m.sessions.Load(ctx)
	if err != nil {
		return ""
	}
	return sess.UserID
}
