package models

import "time"

// Location is an address with coordinates.
type Location struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// Ride is the canonical view of a ride offer. Capability flags (CanJoin,
// CanLeave, CanEnd) are computed server-side per viewer and trusted as-is;
// the client renders whichever flag is set without re-deriving eligibility.
type Ride struct {
	ID                string
	CreatorID         string
	CreatorName       string
	CreatorRating     float64
	CreatorTotalRides int
	CarType           string
	Pickup            Location
	Dropoff           Location
	DepartureTime     time.Time
	PassengerSlots    int
	AvailableSlots    int
	CurrentPassengers int
	GroupJoin         bool
	Fare              float64
	Distance          float64
	Sector            string
	Status            string
	AlreadyJoined     bool
	CanJoin           bool
	CanLeave          bool
	CanEnd            bool
}

// RideList pairs rides with the server-reported total.
type RideList struct {
	Rides []Ride
	Count int
}

// DriverStatus reports driver progress for an active ride.
type DriverStatus struct {
	Status   string
	Arrived  bool
	Location *Location
}

// RideRoute is the navigation data for an active ride.
type RideRoute struct {
	Points   []Location
	Distance float64
	Duration float64
}

// LocationSuggestion is a pickup/dropoff suggestion used by trip creation.
type LocationSuggestion struct {
	ID        string
	Address   string
	Latitude  float64
	Longitude float64
}
