package models

import "time"

// HistoryRide is a completed or cancelled ride in the user's history.
type HistoryRide struct {
	ID             string
	CreatorName    string
	PickupAddress  string
	DropoffAddress string
	DepartureTime  time.Time
	Status         string
	Fare           float64
	Rating         int
}

// RideHistory pairs history entries with the server-reported total.
type RideHistory struct {
	Rides []HistoryRide
	Count int
}
