package models

import "time"

// DeliveryState tracks a message through the optimistic-send lifecycle.
type DeliveryState string

const (
	// DeliveryPending marks a locally created message awaiting confirmation.
	DeliveryPending DeliveryState = "pending"
	// DeliveryConfirmed marks a message acknowledged by REST response or
	// realtime echo; its ID is the server-assigned one.
	DeliveryConfirmed DeliveryState = "confirmed"
	// DeliveryFailed marks a send that errored. Failed messages stay
	// visible and are eligible for manual retry only.
	DeliveryFailed DeliveryState = "failed"
)

// Message is one chat message in a conversation.
//
// ClientKey is a client-generated idempotency key assigned at creation
// time and carried through both the REST path and the realtime echo, so
// reconciliation is a key lookup rather than a heuristic match. ID holds
// the temporary client id until the server id replaces it, exactly once.
type Message struct {
	ID         string
	ClientKey  string
	SenderID   string
	ReceiverID string
	Text       string
	Sent       bool
	Timestamp  time.Time
	State      DeliveryState
}

// Conversation is the inbox-level aggregate; at most one exists per
// counterparty.
type Conversation struct {
	ID          string
	UserID      string
	Name        string
	LastMessage string
	Timestamp   time.Time
	Unread      bool
	UnreadCount int
}
