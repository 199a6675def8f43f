package services

import (
	"context"
	"net/url"
	"time"

	"github.com/ridematch/client-go/internal/fallback"
	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/models"
)

// Friends is the social-graph facade: friend requests, companions, ride
// invitations and the messaging-oriented friend list. All reads degrade
// to the bundled snapshots; RemoveFriend is a silent write.
type Friends struct {
	api API
	log logging.Logger
}

func NewFriends(api API, log logging.Logger) *Friends {
	return &Friends{api: api, log: log}
}

type friendPayload struct {
	FriendshipID string `json:"friendship_id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	CreatedAt    string `json:"created_at"`
}

func (p friendPayload) toModel() models.Friend {
	f := models.Friend{
		FriendshipID: p.FriendshipID,
		UserID:       p.UserID,
		Name:         p.Name,
		Email:        p.Email,
	}
	if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
		f.CreatedAt = t
	}
	return f
}

type friendRequestPayload struct {
	ID           string `json:"id"`
	SenderID     string `json:"sender_id"`
	ReceiverID   string `json:"receiver_id"`
	SenderName   string `json:"sender_name"`
	ReceiverName string `json:"receiver_name"`
	CreatedAt    string `json:"created_at"`
	Status       string `json:"status"`
}

func (p friendRequestPayload) toModel() models.FriendRequest {
	r := models.FriendRequest{
		ID:           p.ID,
		SenderID:     p.SenderID,
		ReceiverID:   p.ReceiverID,
		SenderName:   p.SenderName,
		ReceiverName: p.ReceiverName,
		Status:       p.Status,
	}
	if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
		r.CreatedAt = t
	}
	return r
}

func friendRequestsToModels(payloads []friendRequestPayload) []models.FriendRequest {
	if payloads == nil {
		return nil
	}
	out := make([]models.FriendRequest, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, p.toModel())
	}
	return out
}

// SendFriendRequest asks another user for friendship.
func (f *Friends) SendFriendRequest(ctx context.Context, receiverID string) models.Ack {
	return fallback.WithFallback(ctx, f.log, "send friend request",
		func(ctx context.Context) (models.Ack, error) {
			var resp struct {
				Message   string `json:"message"`
				RequestID string `json:"request_id"`
			}
			body := map[string]string{"receiver_id": receiverID}
			if err := f.api.Post(ctx, "/friends/requests/send", body, &resp); err != nil {
				return models.Ack{}, err
			}
			return models.Ack{Success: true, Message: resp.Message}, nil
		},
		models.Ack{Success: false, Message: "Friend request sent"})
}

// FriendRequests lists pending requests, grouped by direction.
func (f *Friends) FriendRequests(ctx context.Context) models.FriendRequests {
	return fallback.WithFallback(ctx, f.log, "get friend requests",
		func(ctx context.Context) (models.FriendRequests, error) {
			var resp struct {
				Received []friendRequestPayload `json:"received_requests"`
				Sent     []friendRequestPayload `json:"sent_requests"`
			}
			if err := f.api.Get(ctx, "/friends/requests", &resp); err != nil {
				return models.FriendRequests{}, err
			}
			return models.FriendRequests{
				Received: fallback.EnsureSlice(friendRequestsToModels(resp.Received), []models.FriendRequest{}),
				Sent:     fallback.EnsureSlice(friendRequestsToModels(resp.Sent), []models.FriendRequest{}),
			}, nil
		},
		fallback.SampleFriendRequests())
}

// RespondToFriendRequest accepts or declines a received request.
// response is "accepted" or "declined".
func (f *Friends) RespondToFriendRequest(ctx context.Context, requestID, response string) models.Ack {
	return fallback.WithFallback(ctx, f.log, "respond to friend request",
		func(ctx context.Context) (models.Ack, error) {
			var resp struct {
				Message      string `json:"message"`
				FriendshipID string `json:"friendship_id"`
			}
			body := map[string]string{"response": response}
			if err := f.api.Put(ctx, "/friends/requests/"+requestID+"/respond", body, &resp); err != nil {
				return models.Ack{}, err
			}
			return models.Ack{Success: true, Message: resp.Message}, nil
		},
		models.Ack{Success: false, Message: "Friend request " + response})
}

// FriendsList returns established friendships.
func (f *Friends) FriendsList(ctx context.Context) []models.Friend {
	return f.friendCollection(ctx, "get friends list", "/friends/")
}

// RemoveFriend deletes a friendship. Failures are invisible.
func (f *Friends) RemoveFriend(ctx context.Context, friendID string) models.Ack {
	return fallback.Silent(ctx,
		func(ctx context.Context) (models.Ack, error) {
			var resp struct {
				Message string `json:"message"`
			}
			if err := f.api.Delete(ctx, "/friends/"+friendID, &resp); err != nil {
				return models.Ack{}, err
			}
			return models.Ack{Success: true, Message: resp.Message}, nil
		},
		models.Ack{Success: true, Message: "Friend removed"})
}

type searchResultPayload struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	LikenessScore float64 `json:"likeness_score"`
	Likes         string  `json:"likes"`
	Dislikes      string  `json:"dislikes"`
	CanAdd        bool    `json:"can_add"`
}

func searchResultsToModels(payloads []searchResultPayload) []models.SearchResult {
	if payloads == nil {
		return nil
	}
	out := make([]models.SearchResult, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, models.SearchResult{
			UserID:        p.UserID,
			Name:          p.Name,
			Email:         p.Email,
			LikenessScore: p.LikenessScore,
			Likes:         p.Likes,
			Dislikes:      p.Dislikes,
			CanAdd:        p.CanAdd,
		})
	}
	return out
}

// SearchUsers finds users by name or email.
func (f *Friends) SearchUsers(ctx context.Context, query string) []models.SearchResult {
	path := "/friends/search?q=" + url.QueryEscape(query)
	return f.searchCollection(ctx, "search users", path)
}

// SearchUsersWithSimilarity ranks candidate friends by interest overlap.
func (f *Friends) SearchUsersWithSimilarity(ctx context.Context) []models.SearchResult {
	return f.searchCollection(ctx, "search users with similarity", "/friends/search/similarity")
}

// CompanionsList returns friends eligible for ride invitations.
func (f *Friends) CompanionsList(ctx context.Context) []models.Friend {
	return f.friendCollection(ctx, "get companions list", "/friends/companions")
}

// InviteCompanionToRide invites a companion onto one of the user's rides.
func (f *Friends) InviteCompanionToRide(ctx context.Context, companionID, rideID string) models.Ack {
	return fallback.WithFallback(ctx, f.log, "invite companion to ride",
		func(ctx context.Context) (models.Ack, error) {
			var resp struct {
				Message      string `json:"message"`
				InvitationID string `json:"invitation_id"`
			}
			body := map[string]string{"companion_id": companionID, "ride_id": rideID}
			if err := f.api.Post(ctx, "/friends/companions/invite", body, &resp); err != nil {
				return models.Ack{}, err
			}
			return models.Ack{Success: true, Message: resp.Message}, nil
		},
		models.Ack{Success: false, Message: "Invitation sent"})
}

type invitationPayload struct {
	ID          string `json:"id"`
	RideID      string `json:"ride_id"`
	InviterName string `json:"inviter_name"`
	RideFrom    string `json:"ride_from"`
	RideTo      string `json:"ride_to"`
	RideDate    string `json:"ride_date"`
	RideTime    string `json:"ride_time"`
	CreatedAt   string `json:"created_at"`
}

// RideInvitations lists pending invitations onto other users' rides.
func (f *Friends) RideInvitations(ctx context.Context) []models.RideInvitation {
	return fallback.WithFallback(ctx, f.log, "get ride invitations",
		func(ctx context.Context) ([]models.RideInvitation, error) {
			var resp struct {
				Invitations []invitationPayload `json:"invitations"`
				Count       int                 `json:"count"`
			}
			if err := f.api.Get(ctx, "/friends/invitations", &resp); err != nil {
				return nil, err
			}
			invitations := make([]models.RideInvitation, 0, len(resp.Invitations))
			for _, p := range resp.Invitations {
				inv := models.RideInvitation{
					ID:          p.ID,
					RideID:      p.RideID,
					InviterName: p.InviterName,
					From:        p.RideFrom,
					To:          p.RideTo,
					Date:        p.RideDate,
					Time:        p.RideTime,
				}
				if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
					inv.CreatedAt = t
				}
				invitations = append(invitations, inv)
			}
			return invitations, nil
		},
		[]models.RideInvitation{})
}

// RespondToRideInvitation accepts or declines a ride invitation.
func (f *Friends) RespondToRideInvitation(ctx context.Context, invitationID, response string) models.Ack {
	return fallback.WithFallback(ctx, f.log, "respond to ride invitation",
		func(ctx context.Context) (models.Ack, error) {
			var resp struct {
				Message    string `json:"message"`
				JoinedRide bool   `json:"joined_ride"`
			}
			body := map[string]string{"response": response}
			if err := f.api.Put(ctx, "/friends/invitations/"+invitationID+"/respond", body, &resp); err != nil {
				return models.Ack{}, err
			}
			return models.Ack{Success: true, Message: resp.Message}, nil
		},
		models.Ack{Success: false, Message: "Invitation " + response})
}

type messagingFriendPayload struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	LastMessage     string `json:"last_message"`
	LastMessageTime string `json:"last_message_time"`
	UnreadCount     int    `json:"unread_count"`
	HasConversation bool   `json:"has_conversation"`
}

// FriendsForMessaging returns friends annotated with conversation state
// for the inbox screen.
func (f *Friends) FriendsForMessaging(ctx context.Context) []models.MessagingFriend {
	return fallback.WithFallback(ctx, f.log, "get friends for messaging",
		func(ctx context.Context) ([]models.MessagingFriend, error) {
			var resp struct {
				Friends []messagingFriendPayload `json:"friends"`
				Count   int                      `json:"count"`
			}
			if err := f.api.Get(ctx, "/friends/messaging", &resp); err != nil {
				return nil, err
			}
			var friends []models.MessagingFriend
			if resp.Friends != nil {
				friends = make([]models.MessagingFriend, 0, len(resp.Friends))
			}
			for _, p := range resp.Friends {
				mf := models.MessagingFriend{
					UserID:          p.UserID,
					Name:            p.Name,
					Email:           p.Email,
					LastMessage:     p.LastMessage,
					UnreadCount:     p.UnreadCount,
					HasConversation: p.HasConversation,
				}
				if t, err := time.Parse(time.RFC3339, p.LastMessageTime); err == nil {
					mf.LastMessageTime = t
				}
				friends = append(friends, mf)
			}
			return fallback.EnsureSlice(friends, []models.MessagingFriend{}), nil
		},
		[]models.MessagingFriend{})
}

func (f *Friends) friendCollection(ctx context.Context, opName, path string) []models.Friend {
	return fallback.WithFallback(ctx, f.log, opName,
		func(ctx context.Context) ([]models.Friend, error) {
			var resp struct {
				Friends []friendPayload `json:"friends"`
				Count   int             `json:"count"`
			}
			if err := f.api.Get(ctx, path, &resp); err != nil {
				return nil, err
			}
			var friends []models.Friend
			if resp.Friends != nil {
				friends = make([]models.Friend, 0, len(resp.Friends))
			}
			for _, p := range resp.Friends {
				friends = append(friends, p.toModel())
			}
			return fallback.EnsureSlice(friends, fallback.SampleFriends()), nil
		},
		fallback.SampleFriends())
}

func (f *Friends) searchCollection(ctx context.Context, opName, path string) []models.SearchResult {
	return fallback.WithFallback(ctx, f.log, opName,
		func(ctx context.Context) ([]models.SearchResult, error) {
			var resp struct {
				Results []searchResultPayload `json:"results"`
				Count   int                   `json:"count"`
			}
			if err := f.api.Get(ctx, path, &resp); err != nil {
				return nil, err
			}
			return fallback.EnsureSlice(searchResultsToModels(resp.Results), []models.SearchResult{}), nil
		},
		[]models.SearchResult{})
}
