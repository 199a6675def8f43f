// Package services contains the domain facades of the RideMatch client:
// authentication, rides, wallet, messaging, friends, safety and ride
// history. Each facade translates backend wire payloads into the canonical
// types in internal/models and applies the degradation policy from
// internal/fallback: reads degrade to bundled snapshots, low-severity
// writes fail silently, and the strict paths (auth, payments, emergency
// alerts) propagate readable errors.
package services

import "context"

// API is the HTTP surface the facades depend on. *transport.Client
// satisfies it; tests substitute fakes.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// ackPayload is the generic write acknowledgement most endpoints return.
type ackPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
