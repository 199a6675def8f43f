package fallback

import (
	"time"

	"github.com/ridematch/client-go/internal/models"
)

// Bundled sample datasets shaped identically to each domain's expected
// success response. They are substitute values only: never persisted and
// never mutated at runtime. Each function returns a fresh copy so callers
// can safely modify what they receive.

// SampleUser returns the bundled sample profile.
func SampleUser() models.User {
	return models.User{
		ID:            "sample_user_001",
		Name:          "Sample User",
		Email:         "user@ridematch.com",
		Phone:         "+60123456789",
		Role:          "user",
		WalletBalance: 25.50,
		Rating:        4.7,
		TotalRides:    12,
		JoinedDate:    "2024-01-15",
	}
}

// SampleRideList returns the three bundled sample rides.
func SampleRideList() models.RideList {
	now := time.Now()
	rides := []models.Ride{
		{
			ID:                "ride_001",
			CreatorName:       "John Smith",
			CreatorRating:     4.8,
			CreatorTotalRides: 45,
			CarType:           "Honda Civic",
			Pickup: models.Location{
				Address:   "IIUM Gombak Campus, Selangor",
				Latitude:  3.2516,
				Longitude: 101.7314,
			},
			Dropoff: models.Location{
				Address:   "Pavilion KL, Bukit Bintang",
				Latitude:  3.1490,
				Longitude: 101.7010,
			},
			DepartureTime:  now.Add(2 * time.Hour),
			PassengerSlots: 3,
			AvailableSlots: 3,
			Fare:           15.00,
			Status:         "active",
			CanJoin:        true,
		},
		{
			ID:                "ride_002",
			CreatorName:       "Sarah Lee",
			CreatorRating:     4.9,
			CreatorTotalRides: 67,
			CarType:           "Toyota Vios",
			Pickup: models.Location{
				Address:   "KL Sentral, Kuala Lumpur",
				Latitude:  3.1345,
				Longitude: 101.6869,
			},
			Dropoff: models.Location{
				Address:   "Sunway Pyramid, Petaling Jaya",
				Latitude:  3.0738,
				Longitude: 101.6069,
			},
			DepartureTime:  now.Add(4 * time.Hour),
			PassengerSlots: 2,
			AvailableSlots: 2,
			GroupJoin:      true,
			Fare:           12.50,
			Status:         "active",
			CanJoin:        true,
		},
		{
			ID:                "ride_003",
			CreatorName:       "Ahmad Rahman",
			CreatorRating:     4.6,
			CreatorTotalRides: 23,
			CarType:           "Perodua Myvi",
			Pickup: models.Location{
				Address:   "Mid Valley Megamall, Kuala Lumpur",
				Latitude:  3.1181,
				Longitude: 101.6767,
			},
			Dropoff: models.Location{
				Address:   "KLCC, Kuala Lumpur",
				Latitude:  3.1570,
				Longitude: 101.7123,
			},
			DepartureTime:  now.Add(6 * time.Hour),
			PassengerSlots: 1,
			AvailableSlots: 1,
			Fare:           8.00,
			Status:         "active",
			CanJoin:        true,
		},
	}
	return models.RideList{Rides: rides, Count: len(rides)}
}

// SampleRideHistory returns the bundled completed-ride entries.
func SampleRideHistory() models.RideHistory {
	now := time.Now()
	rides := []models.HistoryRide{
		{
			ID:             "history_001",
			CreatorName:    "Emily Chen",
			PickupAddress:  "Bangsar, Kuala Lumpur",
			DropoffAddress: "KLCC, Kuala Lumpur",
			DepartureTime:  now.Add(-24 * time.Hour),
			Status:         "completed",
			Fare:           10.00,
			Rating:         5,
		},
		{
			ID:             "history_002",
			CreatorName:    "David Wong",
			PickupAddress:  "IOI City Mall, Putrajaya",
			DropoffAddress: "The Gardens Mall, Mid Valley",
			DepartureTime:  now.Add(-7 * 24 * time.Hour),
			Status:         "completed",
			Fare:           18.50,
			Rating:         4,
		},
	}
	return models.RideHistory{Rides: rides, Count: len(rides)}
}

// SampleFriends returns the bundled friend entries.
func SampleFriends() []models.Friend {
	now := time.Now()
	return []models.Friend{
		{
			FriendshipID: "friend_001",
			UserID:       "friend_001",
			Name:         "Alex Johnson",
			Email:        "alex@ridematch.com",
			CreatedAt:    now,
		},
		{
			FriendshipID: "friend_002",
			UserID:       "friend_002",
			Name:         "Maria Santos",
			Email:        "maria@ridematch.com",
			CreatedAt:    now,
		},
	}
}

// SampleFriendRequests returns the bundled pending request.
func SampleFriendRequests() models.FriendRequests {
	return models.FriendRequests{
		Received: []models.FriendRequest{
			{
				ID:         "request_001",
				SenderID:   "user_003",
				SenderName: "Chris Taylor",
				Status:     "pending",
			},
		},
		Sent: []models.FriendRequest{},
	}
}

// SampleConversations returns the bundled inbox entries.
func SampleConversations() []models.Conversation {
	now := time.Now()
	return []models.Conversation{
		{
			ID:          "conv_001",
			UserID:      "other_user_001",
			Name:        "John Smith",
			LastMessage: "Thanks for the ride!",
			Timestamp:   now.Add(-2 * time.Hour),
		},
		{
			ID:          "conv_002",
			UserID:      "other_user_002",
			Name:        "Sarah Lee",
			LastMessage: "See you at the pickup point",
			Timestamp:   now.Add(-30 * time.Minute),
			Unread:      true,
			UnreadCount: 1,
		},
	}
}

// SampleChatMessages returns the bundled conversation transcript.
func SampleChatMessages() []models.Message {
	now := time.Now()
	return []models.Message{
		{
			ID:        "msg_001",
			SenderID:  "sample_user_001",
			Text:      "Hi! I'm on my way to the pickup point",
			Sent:      true,
			Timestamp: now.Add(-10 * time.Minute),
			State:     models.DeliveryConfirmed,
		},
		{
			ID:        "msg_002",
			SenderID:  "other_user_001",
			Text:      "Great! I'll be there in 5 minutes",
			Sent:      false,
			Timestamp: now.Add(-5 * time.Minute),
			State:     models.DeliveryConfirmed,
		},
	}
}

// SampleWallet returns the bundled balance and transactions.
func SampleWallet() models.Wallet {
	now := time.Now()
	return models.Wallet{
		Balance: 25.50,
		Transactions: []models.Transaction{
			{
				ID:          "txn_001",
				Type:        "ride_payment",
				Amount:      -15.00,
				Description: "Ride to Pavilion KL",
				Timestamp:   now.Add(-24 * time.Hour),
				Status:      "completed",
			},
			{
				ID:          "txn_002",
				Type:        "top_up",
				Amount:      50.00,
				Description: "Wallet top-up via card",
				Timestamp:   now.Add(-7 * 24 * time.Hour),
				Status:      "completed",
			},
		},
	}
}

// SampleEmergencyContacts returns the bundled hotline entries.
func SampleEmergencyContacts() []models.EmergencyContact {
	return []models.EmergencyContact{
		{Name: "Emergency Services", Type: "phone", Value: "999"},
		{Name: "RideMatch Support", Type: "phone", Value: "+601234567890"},
	}
}

// SampleLocationSuggestions returns the bundled pickup/dropoff suggestions.
func SampleLocationSuggestions() []models.LocationSuggestion {
	return []models.LocationSuggestion{
		{ID: "loc_001", Address: "IIUM Gombak Campus, Selangor", Latitude: 3.2516, Longitude: 101.7314},
		{ID: "loc_002", Address: "Pavilion KL, Bukit Bintang", Latitude: 3.1490, Longitude: 101.7010},
		{ID: "loc_003", Address: "KL Sentral, Kuala Lumpur", Latitude: 3.1345, Longitude: 101.6869},
		{ID: "loc_004", Address: "Sunway Pyramid, Petaling Jaya", Latitude: 3.0738, Longitude: 101.6069},
		{ID: "loc_005", Address: "Mid Valley Megamall, Kuala Lumpur", Latitude: 3.1181, Longitude: 101.6767},
	}
}
