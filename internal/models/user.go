// Package models defines the canonical client-side domain types. Backend
// payloads arrive in several field-name variants; the service facades map
// them into these types in one place, so the rest of the client never sees
// wire-format drift.
package models

// User is the profile of an account as reported by the backend.
type User struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Role          string
	WalletBalance float64
	Rating        float64
	TotalRides    int
	JoinedDate    string
}

// Ack is the normalized result of a write operation. Fallback-wrapped
// writes resolve to an optimistic Ack even when the backend was never
// reached; callers must not assume server state changed.
type Ack struct {
	Success bool
	Message string
}
