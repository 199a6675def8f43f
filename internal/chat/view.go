// Package chat keeps an open conversation consistent while messages
// arrive over three different paths: optimistic local sends, REST
// responses and realtime echoes. The client-generated idempotency key
// travels with every copy of a message, so reconciliation is a key
// lookup, never a text-and-time heuristic.
package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/models"
	"github.com/ridematch/client-go/internal/realtime"
)

// Messenger is the messaging surface the view drives.
// *services.Messaging satisfies it.
type Messenger interface {
	Messages(ctx context.Context, userID string) []models.Message
	SendMessage(ctx context.Context, receiverID, text string) (models.Message, error)
	ChannelConnected() bool
}

// ConversationView is the state machine behind one open conversation.
// All mutation goes through its mutex; Snapshot hands out copies.
type ConversationView struct {
	messenger      Messenger
	counterpartyID string
	selfID         string
	log            logging.Logger

	mu       sync.Mutex
	localSeq int
	messages []models.Message
	onChange func([]models.Message)
}

// NewConversationView opens a view on the conversation with the given
// counterparty. selfID is the current user's id, used to recognize the
// user's own messages arriving from other sessions.
func NewConversationView(messenger Messenger, counterpartyID, selfID string, log logging.Logger) *ConversationView {
	return &ConversationView{
		messenger:      messenger,
		counterpartyID: counterpartyID,
		selfID:         selfID,
		log:            log,
	}
}

// OnChange registers a callback invoked with a fresh snapshot after every
// mutation. One callback per view; later registrations replace earlier ones.
func (v *ConversationView) OnChange(fn func([]models.Message)) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

// Refresh reloads the history from the backend and merges it with local
// state. Unconfirmed local messages (pending or failed) survive the
// merge; confirmed server copies win over anything matched by key or id.
// The change callback fires only when the merged list actually differs,
// so a polling caller does not re-render identical state every tick.
func (v *ConversationView) Refresh(ctx context.Context) {
	fetched := v.messenger.Messages(ctx, v.counterpartyID)

	v.mu.Lock()
	before := v.messages
	merged := make([]models.Message, 0, len(fetched)+len(v.messages))
	seen := make(map[string]bool, len(fetched))
	for _, m := range fetched {
		merged = append(merged, m)
		if m.ClientKey != "" {
			seen["key:"+m.ClientKey] = true
		}
		seen["id:"+m.ID] = true
	}
	for _, m := range v.messages {
		if m.State == models.DeliveryConfirmed {
			continue
		}
		if m.ClientKey != "" && seen["key:"+m.ClientKey] {
			continue
		}
		if seen["id:"+m.ID] {
			continue
		}
		merged = append(merged, m)
	}
	v.messages = merged
	v.sortLocked()
	if !messagesEqual(before, v.messages) {
		v.notifyLocked()
	}
	v.mu.Unlock()
}

// Send delivers text optimistically: a pending entry appears before the
// network is touched, and is replaced by the messenger's result once the
// call returns. On a REST failure the entry stays visible, marked failed,
// with its text intact for a manual retry. The error is returned so
// callers can surface it.
func (v *ConversationView) Send(ctx context.Context, text string) (models.Message, error) {
	v.mu.Lock()
	v.localSeq++
	draftID := fmt.Sprintf("draft_%d", v.localSeq)
	v.messages = append(v.messages, models.Message{
		ID:         draftID,
		SenderID:   v.selfID,
		ReceiverID: v.counterpartyID,
		Text:       text,
		Sent:       true,
		Timestamp:  time.Now(),
		State:      models.DeliveryPending,
	})
	v.sortLocked()
	v.notifyLocked()
	v.mu.Unlock()

	msg, err := v.messenger.SendMessage(ctx, v.counterpartyID, text)

	v.mu.Lock()
	v.removeLocked(draftID)
	v.upsertLocked(msg)
	v.sortLocked()
	v.notifyLocked()
	v.mu.Unlock()

	return msg, err
}

// Retry re-sends a failed message. The failed entry is dropped and the
// re-send becomes a fresh message with a new key.
func (v *ConversationView) Retry(ctx context.Context, messageID string) (models.Message, error) {
	v.mu.Lock()
	var text string
	found := false
	for i, m := range v.messages {
		if m.ID == messageID && m.State == models.DeliveryFailed {
			text = m.Text
			v.messages = append(v.messages[:i], v.messages[i+1:]...)
			found = true
			break
		}
	}
	v.mu.Unlock()

	if !found {
		return models.Message{}, ErrNoFailedMessage
	}
	return v.Send(ctx, text)
}

// HandleInbound reconciles a realtime push with local state.
//
// A matching client key confirms the optimistic copy in place, adopting
// the server id and timestamp. A matching server id is a duplicate and is
// dropped. Anything else is appended when the counterparty is its sender,
// or when it is the current user's own message to the counterparty sent
// from another session. Messages of strangers are dropped.
func (v *ConversationView) HandleInbound(inbound realtime.InboundMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if inbound.ClientKey != "" {
		for i, m := range v.messages {
			if m.ClientKey == inbound.ClientKey {
				if inbound.ID != "" {
					v.messages[i].ID = inbound.ID
				}
				if !inbound.Timestamp.IsZero() {
					v.messages[i].Timestamp = inbound.Timestamp
				}
				v.messages[i].State = models.DeliveryConfirmed
				v.sortLocked()
				v.notifyLocked()
				return
			}
		}
	}

	for _, m := range v.messages {
		if inbound.ID != "" && m.ID == inbound.ID {
			return
		}
	}

	fromCounterparty := inbound.SenderID == v.counterpartyID
	ownEcho := v.selfID != "" && inbound.SenderID == v.selfID && inbound.ReceiverID == v.counterpartyID
	if !fromCounterparty && !ownEcho {
		return
	}

	v.messages = append(v.messages, models.Message{
		ID:         inbound.ID,
		ClientKey:  inbound.ClientKey,
		SenderID:   inbound.SenderID,
		ReceiverID: inbound.ReceiverID,
		Text:       inbound.Content,
		Sent:       ownEcho,
		Timestamp:  inbound.Timestamp,
		State:      models.DeliveryConfirmed,
	})
	v.sortLocked()
	v.notifyLocked()
}

// Snapshot returns a copy of the messages in display order.
func (v *ConversationView) Snapshot() []models.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.Message, len(v.messages))
	copy(out, v.messages)
	return out
}

// removeLocked drops the entry with the given id, if present.
func (v *ConversationView) removeLocked(id string) {
	for i, m := range v.messages {
		if m.ID == id {
			v.messages = append(v.messages[:i], v.messages[i+1:]...)
			return
		}
	}
}

// upsertLocked replaces an entry matched by client key, else appends.
func (v *ConversationView) upsertLocked(msg models.Message) {
	if msg.ClientKey != "" {
		for i, m := range v.messages {
			if m.ClientKey == msg.ClientKey {
				v.messages[i] = msg
				return
			}
		}
	}
	v.messages = append(v.messages, msg)
}

// sortLocked keeps display order timestamp-ascending regardless of
// arrival order. The sort is stable so equal timestamps keep their
// insertion order.
func (v *ConversationView) sortLocked() {
	sort.SliceStable(v.messages, func(i, j int) bool {
		return v.messages[i].Timestamp.Before(v.messages[j].Timestamp)
	})
}

func (v *ConversationView) notifyLocked() {
	if v.onChange == nil {
		return
	}
	snapshot := make([]models.Message, len(v.messages))
	copy(snapshot, v.messages)
	v.onChange(snapshot)
}

func messagesEqual(a, b []models.Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
