package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridematch/client-go/internal/models"
	"github.com/ridematch/client-go/internal/realtime"
)

// fakeChannel scripts the realtime surface.
type fakeChannel struct {
	mu        sync.Mutex
	connected bool
	sent      []sentMessage
	joined    []string
	read      []string
}

type sentMessage struct {
	ReceiverID string
	Content    string
	ClientKey  string
}

func (c *fakeChannel) Connect(ctx context.Context) bool { return c.connected }
func (c *fakeChannel) Disconnect()                      { c.connected = false }
func (c *fakeChannel) IsConnected() bool                { return c.connected }

func (c *fakeChannel) SendMessage(receiverID, content, clientKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMessage{ReceiverID: receiverID, Content: content, ClientKey: clientKey})
}

func (c *fakeChannel) JoinConversation(id string)     { c.joined = append(c.joined, id) }
func (c *fakeChannel) MarkConversationRead(id string) { c.read = append(c.read, id) }
func (c *fakeChannel) Typing(id string, v bool)       {}

func (c *fakeChannel) OnNewMessage(fn func(realtime.InboundMessage)) {}
func (c *fakeChannel) OnNotification(fn func(realtime.Notification)) {}
func (c *fakeChannel) OnTyping(fn func(realtime.TypingEvent))        {}
func (c *fakeChannel) RemoveListeners()                              {}

func newMessaging(t *testing.T, api API, channel RealtimeChannel) *Messaging {
	t.Helper()
	store := newSessionStore()
	seedSession(t, store, "me")
	m := NewMessaging(api, channel, store, &spyLogger{})
	m.newKey = func() string { return "key-fixed" }
	m.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return m
}

func TestMessaging_ConversationsNormalizes(t *testing.T) {
	api := newFakeAPI()
	api.respond("GET", "/messaging/conversations", []map[string]any{
		{
			"_id":          "conv_9",
			"user_id":      "other_1",
			"name":         "Sarah",
			"lastMessage":  "see you",
			"timestamp":    "2026-08-29T10:00:00Z",
			"unread_count": 2,
		},
	})
	m := newMessaging(t, api, &fakeChannel{})

	conversations := m.Conversations(context.Background())
	require.Len(t, conversations, 1)
	c := conversations[0]
	assert.Equal(t, "conv_9", c.ID)
	assert.Equal(t, "Sarah", c.Name)
	assert.True(t, c.Unread, "unread_count > 0 implies unread")
	assert.Equal(t, 2, c.UnreadCount)
}

func TestMessaging_ConversationsFallback(t *testing.T) {
	api := newFakeAPI()
	api.fail("GET", "/messaging/conversations", errors.New("boom"))
	m := newMessaging(t, api, &fakeChannel{})

	conversations := m.Conversations(context.Background())
	require.Len(t, conversations, 2)
	assert.Equal(t, "conv_001", conversations[0].ID)
}

func TestMessaging_MessagesComputesDirection(t *testing.T) {
	api := newFakeAPI()
	api.respond("GET", "/messaging/other_1", []map[string]any{
		{"_id": "msg_1", "sender_id": "me", "receiver_id": "other_1", "content": "hi", "timestamp": "2026-08-29T10:00:00Z"},
		{"_id": "msg_2", "sender_id": "other_1", "receiver_id": "me", "content": "hey", "timestamp": "2026-08-29T10:01:00Z"},
	})
	m := newMessaging(t, api, &fakeChannel{})

	messages := m.Messages(context.Background(), "other_1")
	require.Len(t, messages, 2)
	assert.True(t, messages[0].Sent)
	assert.False(t, messages[1].Sent)
	assert.Equal(t, models.DeliveryConfirmed, messages[0].State)
}

func TestMessaging_MessagesFallback(t *testing.T) {
	api := newFakeAPI()
	api.fail("GET", "/messaging/other_1", errors.New("boom"))
	m := newMessaging(t, api, &fakeChannel{})

	messages := m.Messages(context.Background(), "other_1")
	require.Len(t, messages, 2)
	assert.Equal(t, "msg_001", messages[0].ID)
}

func TestMessaging_SendMessageOverChannel(t *testing.T) {
	api := newFakeAPI() // REST must not be touched
	channel := &fakeChannel{connected: true}
	m := newMessaging(t, api, channel)

	msg, err := m.SendMessage(context.Background(), "other_1", "hello")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryPending, msg.State, "channel send stays pending until the echo")
	assert.Equal(t, "local_key-fixed", msg.ID)
	assert.Equal(t, "key-fixed", msg.ClientKey)
	assert.Equal(t, "me", msg.SenderID)

	require.Len(t, channel.sent, 1)
	assert.Equal(t, "key-fixed", channel.sent[0].ClientKey)
	assert.Zero(t, api.callCount())
}

func TestMessaging_SendMessageOverRESTConfirms(t *testing.T) {
	api := newFakeAPI()
	api.respond("POST", "/messaging/send", map[string]any{
		"_id":       "msg_server_1",
		"timestamp": "2026-08-29T12:00:05Z",
	})
	m := newMessaging(t, api, &fakeChannel{connected: false})

	msg, err := m.SendMessage(context.Background(), "other_1", "hello")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryConfirmed, msg.State)
	assert.Equal(t, "msg_server_1", msg.ID, "server id replaces the temp id")
	assert.Equal(t, "key-fixed", msg.ClientKey)

	body := api.lastBody(t)
	assert.Equal(t, "other_1", body["receiver_id"])
	assert.Equal(t, "hello", body["content"])
	assert.Equal(t, "key-fixed", body["client_key"])
}

func TestMessaging_SendMessageRESTFailureSurfaces(t *testing.T) {
	api := newFakeAPI()
	api.fail("POST", "/messaging/send", errors.New("boom"))
	m := newMessaging(t, api, &fakeChannel{connected: false})

	msg, err := m.SendMessage(context.Background(), "other_1", "hello")
	require.Error(t, err, "send failures must never be masked by fallback data")
	assert.Equal(t, models.DeliveryFailed, msg.State)
	assert.Equal(t, "hello", msg.Text, "failed text stays available for manual retry")
}

func TestMessaging_NilChannelDegradesToREST(t *testing.T) {
	api := newFakeAPI()
	api.respond("POST", "/messaging/send", map[string]any{"_id": "msg_1"})
	store := newSessionStore()
	seedSession(t, store, "me")
	m := NewMessaging(api, nil, store, &spyLogger{})

	assert.False(t, m.Connect(context.Background()))
	assert.False(t, m.ChannelConnected())

	msg, err := m.SendMessage(context.Background(), "other_1", "hi")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryConfirmed, msg.State)

	// passthroughs must not panic without a channel
	m.JoinConversation("conv_1")
	m.MarkConversationRead("conv_1")
	m.Typing("conv_1", true)
	m.RemoveListeners()
	m.Disconnect()
}

func TestMessaging_ChannelPassthroughs(t *testing.T) {
	channel := &fakeChannel{connected: true}
	m := newMessaging(t, newFakeAPI(), channel)

	m.JoinConversation("conv_1")
	m.MarkConversationRead("conv_1")

	assert.Equal(t, []string{"conv_1"}, channel.joined)
	assert.Equal(t, []string{"conv_1"}, channel.read)
	assert.True(t, m.ChannelConnected())
}
