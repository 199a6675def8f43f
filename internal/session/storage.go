package session

import "context"

// Storage is the persistence backend for session state. Implementations
// must treat a missing key as ("", nil), not as an error.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Keys under which session fields are persisted.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserID       = "user_id"
	keyUserName     = "user_name"
	keyUserRole     = "user_role"
	keyIssuedAt     = "issued_at"
)
