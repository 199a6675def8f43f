package models

import "time"

// EmergencyType classifies an alert.
type EmergencyType string

const (
	EmergencyMedical    EmergencyType = "medical"
	EmergencySafety     EmergencyType = "safety"
	EmergencyAccident   EmergencyType = "accident"
	EmergencyHarassment EmergencyType = "harassment"
	EmergencyOther      EmergencyType = "other"
)

// EmergencyAlert is an outbound alert for an active ride.
type EmergencyAlert struct {
	RideID      string
	Type        EmergencyType
	Location    *Location
	Description string
}

// EmergencyAlertResult is the backend acknowledgement of an alert,
// including the hotline numbers to surface immediately.
type EmergencyAlertResult struct {
	Success bool
	AlertID string
	Message string
	Police  string
	Medical string
	Support string
}

// EmergencyContact is a user-configured contact for safety features.
type EmergencyContact struct {
	Name  string
	Type  string
	Value string
}

// LocationShare is an active location-sharing session.
type LocationShare struct {
	Success         bool
	SessionID       string
	Message         string
	DurationMinutes int
}

// ActiveEmergency is an ongoing alert visible to admins.
type ActiveEmergency struct {
	ID            string
	UserID        string
	UserName      string
	RideID        string
	Type          string
	Description   string
	CreatedAt     time.Time
	AdminNotified bool
}
