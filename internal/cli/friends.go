package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var errMissingUserID = errors.New("usage: <command> <user_id>")

// ListFriends prints established friendships.
func (a *App) ListFriends(ctx context.Context) error {
	friends := a.friends.FriendsList(ctx)
	if len(friends) == 0 {
		fmt.Println("No friends yet.")
		return nil
	}
	for _, f := range friends {
		fmt.Printf("%s  %s <%s>\n", f.UserID, f.Name, f.Email)
	}
	return nil
}

// FriendRequests prints pending requests and offers to respond to the
// received ones.
func (a *App) FriendRequests(ctx context.Context) error {
	requests := a.friends.FriendRequests(ctx)

	if len(requests.Received) == 0 && len(requests.Sent) == 0 {
		fmt.Println("No pending requests.")
		return nil
	}
	for _, r := range requests.Received {
		fmt.Printf("received %s from %s (%s)\n", r.ID, r.SenderName, r.Status)
	}
	for _, r := range requests.Sent {
		fmt.Printf("sent %s to %s (%s)\n", r.ID, r.ReceiverName, r.Status)
	}

	if len(requests.Received) == 0 {
		return nil
	}
	id, err := getSimpleText(a.reader, "Respond to request? (request_id or empty to skip)", os.Stdout)
	if err != nil || id == "" {
		return err
	}
	answer, err := getSimpleText(a.reader, "accepted or declined", os.Stdout)
	if err != nil {
		return err
	}
	ack := a.friends.RespondToFriendRequest(ctx, id, answer)
	fmt.Println(ack.Message)
	return nil
}

// AddFriend sends a friend request, searching first when the argument
// does not look like an id the server knows.
func (a *App) AddFriend(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errMissingUserID
	}
	ack := a.friends.SendFriendRequest(ctx, args[0])
	fmt.Println(ack.Message)
	return nil
}

// Inbox prints friends with conversation state, most recent first as the
// backend orders them.
func (a *App) Inbox(ctx context.Context) error {
	friends := a.friends.FriendsForMessaging(ctx)
	if len(friends) == 0 {
		// fall back to raw conversations for accounts with no friends
		conversations := a.messaging.Conversations(ctx)
		if len(conversations) == 0 {
			fmt.Println("Inbox is empty.")
			return nil
		}
		for _, c := range conversations {
			marker := " "
			if c.Unread {
				marker = "*"
			}
			fmt.Printf("%s %s  %s: %s\n", marker, c.UserID, c.Name, c.LastMessage)
		}
		return nil
	}

	for _, f := range friends {
		unread := ""
		if f.UnreadCount > 0 {
			unread = fmt.Sprintf(" (%d unread)", f.UnreadCount)
		}
		fmt.Printf("%s  %s: %s%s\n", f.UserID, f.Name, f.LastMessage, unread)
	}
	return nil
}
