package models

import "time"

// Friend is an established friendship.
type Friend struct {
	FriendshipID string
	UserID       string
	Name         string
	Email        string
	CreatedAt    time.Time
}

// FriendRequest is a pending, accepted or declined request, as seen from
// either side.
type FriendRequest struct {
	ID           string
	SenderID     string
	ReceiverID   string
	SenderName   string
	ReceiverName string
	CreatedAt    time.Time
	Status       string
}

// FriendRequests groups requests by direction.
type FriendRequests struct {
	Received []FriendRequest
	Sent     []FriendRequest
}

// SearchResult is one row of a user search.
type SearchResult struct {
	UserID        string
	Name          string
	Email         string
	LikenessScore float64
	Likes         string
	Dislikes      string
	CanAdd        bool
}

// MessagingFriend is a friend annotated with conversation state for the
// inbox screen.
type MessagingFriend struct {
	UserID          string
	Name            string
	Email           string
	LastMessage     string
	LastMessageTime time.Time
	UnreadCount     int
	HasConversation bool
}

// RideInvitation invites a companion onto a ride.
type RideInvitation struct {
	ID          string
	RideID      string
	InviterName string
	From        string
	To          string
	Date        string
	Time        string
	CreatedAt   time.Time
}
