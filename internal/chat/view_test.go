package chat

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/models"
	"github.com/ridematch/client-go/internal/realtime"
)

// fakeMessenger scripts the messaging facade for one counterparty.
type fakeMessenger struct {
	mu        sync.Mutex
	history   []models.Message
	connected bool
	sendErr   error
	sendState models.DeliveryState
	nextKey   int
	sends     []string
	onSend    func()
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{sendState: models.DeliveryConfirmed}
}

func (f *fakeMessenger) Messages(ctx context.Context, userID string) []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Message, len(f.history))
	copy(out, f.history)
	return out
}

func (f *fakeMessenger) SendMessage(ctx context.Context, receiverID, text string) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onSend != nil {
		f.onSend()
	}
	f.nextKey++
	f.sends = append(f.sends, text)
	key := "key-" + string(rune('a'+f.nextKey-1))
	msg := models.Message{
		ID:         "local_" + key,
		ClientKey:  key,
		ReceiverID: receiverID,
		Text:       text,
		Sent:       true,
		Timestamp:  time.Date(2026, 8, 29, 12, 0, f.nextKey, 0, time.UTC),
		State:      f.sendState,
	}
	if f.sendErr != nil {
		msg.State = models.DeliveryFailed
		return msg, f.sendErr
	}
	if msg.State == models.DeliveryConfirmed {
		msg.ID = "server_" + key
	}
	return msg, nil
}

func (f *fakeMessenger) ChannelConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func testLogger() logging.Logger {
	var buf bytes.Buffer
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
}

func at(sec int) time.Time {
	return time.Date(2026, 8, 29, 12, 0, sec, 0, time.UTC)
}

func TestView_RefreshLoadsHistory(t *testing.T) {
	m := newFakeMessenger()
	m.history = []models.Message{
		{ID: "msg_1", SenderID: "other", Text: "hey", Timestamp: at(1), State: models.DeliveryConfirmed},
		{ID: "msg_2", SenderID: "me", Text: "hi", Timestamp: at(2), State: models.DeliveryConfirmed},
	}
	v := NewConversationView(m, "other", "me", testLogger())

	v.Refresh(context.Background())

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "msg_1", snapshot[0].ID)
}

func TestView_SendOverRESTConfirms(t *testing.T) {
	m := newFakeMessenger()
	v := NewConversationView(m, "other", "me", testLogger())

	msg, err := v.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryConfirmed, msg.State)

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "server_key-a", snapshot[0].ID)
}

func TestView_SendFailureStaysVisibleForRetry(t *testing.T) {
	m := newFakeMessenger()
	m.sendErr = errors.New("boom")
	v := NewConversationView(m, "other", "me", testLogger())

	_, err := v.Send(context.Background(), "hello")
	require.Error(t, err)

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 1)
	failed := snapshot[0]
	assert.Equal(t, models.DeliveryFailed, failed.State)
	assert.Equal(t, "hello", failed.Text)

	// no automatic retry happened
	assert.Equal(t, []string{"hello"}, m.sends)

	// manual retry succeeds and replaces the failed entry
	m.sendErr = nil
	retried, err := v.Retry(context.Background(), failed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryConfirmed, retried.State)

	snapshot = v.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, models.DeliveryConfirmed, snapshot[0].State)
	assert.Equal(t, "hello", snapshot[0].Text)
}

func TestView_RetryUnknownID(t *testing.T) {
	v := NewConversationView(newFakeMessenger(), "other", "me", testLogger())
	_, err := v.Retry(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoFailedMessage)
}

func TestView_EchoConfirmsPendingByClientKey(t *testing.T) {
	m := newFakeMessenger()
	m.sendState = models.DeliveryPending // channel path: send stays pending
	v := NewConversationView(m, "other", "me", testLogger())

	msg, err := v.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, models.DeliveryPending, msg.State)

	v.HandleInbound(realtime.InboundMessage{
		ID:        "server_9",
		SenderID:  "me",
		Content:   "hello",
		ClientKey: msg.ClientKey,
		Timestamp: at(10),
	})

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 1, "echo must confirm in place, not duplicate")
	assert.Equal(t, "server_9", snapshot[0].ID)
	assert.Equal(t, models.DeliveryConfirmed, snapshot[0].State)
	assert.Equal(t, at(10), snapshot[0].Timestamp)
}

func TestView_EchoIsIdempotent(t *testing.T) {
	m := newFakeMessenger()
	m.sendState = models.DeliveryPending
	v := NewConversationView(m, "other", "me", testLogger())

	msg, err := v.Send(context.Background(), "hello")
	require.NoError(t, err)

	echo := realtime.InboundMessage{
		ID:        "server_9",
		SenderID:  "me",
		Content:   "hello",
		ClientKey: msg.ClientKey,
		Timestamp: at(10),
	}
	v.HandleInbound(echo)
	v.HandleInbound(echo)
	v.HandleInbound(echo)

	require.Len(t, v.Snapshot(), 1)
}

func TestView_InboundFromCounterpartyAppends(t *testing.T) {
	v := NewConversationView(newFakeMessenger(), "other", "me", testLogger())

	v.HandleInbound(realtime.InboundMessage{
		ID:        "msg_5",
		SenderID:  "other",
		Content:   "are you coming?",
		Timestamp: at(3),
	})

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 1)
	assert.False(t, snapshot[0].Sent)
	assert.Equal(t, "are you coming?", snapshot[0].Text)
}

func TestView_InboundFromStrangerIsDropped(t *testing.T) {
	v := NewConversationView(newFakeMessenger(), "other", "me", testLogger())

	v.HandleInbound(realtime.InboundMessage{
		ID:        "msg_6",
		SenderID:  "someone_else",
		Content:   "wrong window",
		Timestamp: at(3),
	})

	assert.Empty(t, v.Snapshot())
}

func TestView_DisplayOrderIsTimestampAscending(t *testing.T) {
	v := NewConversationView(newFakeMessenger(), "other", "me", testLogger())

	// T2 arrives before T1
	v.HandleInbound(realtime.InboundMessage{ID: "m2", SenderID: "other", Content: "second", Timestamp: at(20)})
	v.HandleInbound(realtime.InboundMessage{ID: "m1", SenderID: "other", Content: "first", Timestamp: at(10)})

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "m1", snapshot[0].ID)
	assert.Equal(t, "m2", snapshot[1].ID)
}

func TestView_RefreshKeepsUnconfirmedLocalMessages(t *testing.T) {
	m := newFakeMessenger()
	m.sendState = models.DeliveryPending
	v := NewConversationView(m, "other", "me", testLogger())

	pending, err := v.Send(context.Background(), "in flight")
	require.NoError(t, err)

	m.mu.Lock()
	m.history = []models.Message{
		{ID: "msg_1", SenderID: "other", Text: "hey", Timestamp: at(1), State: models.DeliveryConfirmed},
	}
	m.mu.Unlock()

	v.Refresh(context.Background())

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "msg_1", snapshot[0].ID)
	assert.Equal(t, pending.ID, snapshot[1].ID, "pending message survives the refresh")
}

func TestView_RefreshDropsLocalCopyOnceServerHasIt(t *testing.T) {
	m := newFakeMessenger()
	m.sendState = models.DeliveryPending
	v := NewConversationView(m, "other", "me", testLogger())

	pending, err := v.Send(context.Background(), "in flight")
	require.NoError(t, err)

	m.mu.Lock()
	m.history = []models.Message{
		{ID: "server_1", ClientKey: pending.ClientKey, SenderID: "me", Text: "in flight", Timestamp: at(5), State: models.DeliveryConfirmed},
	}
	m.mu.Unlock()

	v.Refresh(context.Background())

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 1, "server copy matched by key replaces the local one")
	assert.Equal(t, "server_1", snapshot[0].ID)
}

func TestView_OwnEchoFromOtherSessionAppends(t *testing.T) {
	v := NewConversationView(newFakeMessenger(), "other", "me", testLogger())

	// the same account sent this from another device, so the client key
	// is unknown here
	v.HandleInbound(realtime.InboundMessage{
		ID:         "msg_7",
		SenderID:   "me",
		ReceiverID: "other",
		Content:    "sent from my phone",
		ClientKey:  "unknown-key",
		Timestamp:  at(4),
	})

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 1)
	assert.True(t, snapshot[0].Sent)
	assert.Equal(t, "sent from my phone", snapshot[0].Text)
	assert.Equal(t, models.DeliveryConfirmed, snapshot[0].State)
}

func TestView_OwnEchoToAnotherConversationIsDropped(t *testing.T) {
	v := NewConversationView(newFakeMessenger(), "other", "me", testLogger())

	v.HandleInbound(realtime.InboundMessage{
		ID:         "msg_8",
		SenderID:   "me",
		ReceiverID: "someone_else",
		Content:    "different window",
		Timestamp:  at(4),
	})

	assert.Empty(t, v.Snapshot())
}

func TestView_SendShowsPendingWhileInFlight(t *testing.T) {
	m := newFakeMessenger()
	v := NewConversationView(m, "other", "me", testLogger())

	var inFlight []models.Message
	m.onSend = func() { inFlight = v.Snapshot() }

	_, err := v.Send(context.Background(), "hello")
	require.NoError(t, err)

	require.Len(t, inFlight, 1, "a pending entry must be visible during the request")
	assert.Equal(t, models.DeliveryPending, inFlight[0].State)
	assert.Equal(t, "hello", inFlight[0].Text)
	assert.True(t, inFlight[0].Sent)

	snapshot := v.Snapshot()
	require.Len(t, snapshot, 1, "the pending entry is replaced, not duplicated")
	assert.Equal(t, models.DeliveryConfirmed, snapshot[0].State)
}

func TestView_RefreshNotifiesOnlyOnChange(t *testing.T) {
	m := newFakeMessenger()
	m.history = []models.Message{
		{ID: "msg_1", SenderID: "other", Text: "hey", Timestamp: at(1), State: models.DeliveryConfirmed},
	}
	v := NewConversationView(m, "other", "me", testLogger())

	calls := 0
	v.OnChange(func([]models.Message) { calls++ })

	v.Refresh(context.Background())
	require.Equal(t, 1, calls)

	// identical history, nothing to announce
	v.Refresh(context.Background())
	v.Refresh(context.Background())
	assert.Equal(t, 1, calls)

	m.mu.Lock()
	m.history = append(m.history, models.Message{
		ID: "msg_2", SenderID: "other", Text: "still there?", Timestamp: at(2), State: models.DeliveryConfirmed,
	})
	m.mu.Unlock()

	v.Refresh(context.Background())
	assert.Equal(t, 2, calls)
}

func TestView_OnChangeFiresWithSnapshot(t *testing.T) {
	v := NewConversationView(newFakeMessenger(), "other", "me", testLogger())

	var got []models.Message
	v.OnChange(func(msgs []models.Message) { got = msgs })

	v.HandleInbound(realtime.InboundMessage{ID: "m1", SenderID: "other", Content: "hi", Timestamp: at(1)})

	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}
