// Package session holds the credentials and identity of the current user,
// backed by an injectable Storage so tests never need a real device store.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role of the authenticated user, trusted as supplied by the backend.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a backend-supplied role string to a Role, defaulting
// to RoleUser for anything unrecognized.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Session is the set of credentials and identity fields establishing the
// current authenticated user.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Name         string
	Role         Role
	IssuedAt     time.Time
}

// Store reads and writes the Session through a Storage backend.
//
// The token-pair invariant: access and refresh tokens are either both
// present or the session counts as unauthenticated. Partial credential
// state is never reported as a valid session.
type Store struct {
	storage  Storage
	validity time.Duration
}

// NewStore constructs a Store. validity is the local expiration window
// applied to the access token, measured from its issuance timestamp.
func NewStore(storage Storage, validity time.Duration) *Store {
	return &Store{storage: storage, validity: validity}
}

// Save persists the full session.
func (s *Store) Save(ctx context.Context, sess Session) error {
	pairs := []struct{ key, value string }{
		{keyAccessToken, sess.AccessToken},
		{keyRefreshToken, sess.RefreshToken},
		{keyUserID, sess.UserID},
		{keyUserName, sess.Name},
		{keyUserRole, string(sess.Role)},
		{keyIssuedAt, sess.IssuedAt.UTC().Format(time.RFC3339)},
	}
	for _, p := range pairs {
		if err := s.storage.Set(ctx, p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the persisted session. Missing fields come back zero-valued.
func (s *Store) Load(ctx context.Context) (Session, error) {
	var sess Session
	var err error

	if sess.AccessToken, err = s.storage.Get(ctx, keyAccessToken); err != nil {
		return Session{}, err
	}
	if sess.RefreshToken, err = s.storage.Get(ctx, keyRefreshToken); err != nil {
		return Session{}, err
	}
	if sess.UserID, err = s.storage.Get(ctx, keyUserID); err != nil {
		return Session{}, err
	}
	if sess.Name, err = s.storage.Get(ctx, keyUserName); err != nil {
		return Session{}, err
	}
	role, err := s.storage.Get(ctx, keyUserRole)
	if err != nil {
		return Session{}, err
	}
	sess.Role = ParseRole(role)

	issued, err := s.storage.Get(ctx, keyIssuedAt)
	if err != nil {
		return Session{}, err
	}
	if issued != "" {
		if ts, perr := time.Parse(time.RFC3339, issued); perr == nil {
			sess.IssuedAt = ts
		}
	}
	return sess, nil
}

// AccessToken returns the stored access token, or "" when absent.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.storage.Get(ctx, keyAccessToken)
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.storage.Get(ctx, keyRefreshToken)
}

// SetAccessToken replaces the stored access token after a refresh cycle
// and restamps the issuance timestamp.
func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	if err := s.storage.Set(ctx, keyAccessToken, token); err != nil {
		return err
	}
	return s.storage.Set(ctx, keyIssuedAt, time.Now().UTC().Format(time.RFC3339))
}

// SetRefreshToken replaces the stored refresh token.
func (s *Store) SetRefreshToken(ctx context.Context, token string) error {
	return s.storage.Set(ctx, keyRefreshToken, token)
}

// Clear wipes all session state (logout, failed refresh).
func (s *Store) Clear(ctx context.Context) error {
	return s.storage.Clear(ctx)
}

// Authenticated reports whether a complete credential pair is stored.
func (s *Store) Authenticated(ctx context.Context) (bool, error) {
	access, err := s.storage.Get(ctx, keyAccessToken)
	if err != nil {
		return false, err
	}
	refresh, err := s.storage.Get(ctx, keyRefreshToken)
	if err != nil {
		return false, err
	}
	return access != "" && refresh != "", nil
}

// TokenFresh reports whether the stored access token still passes the
// local checks: the issuance window has not elapsed and, when the token
// carries a parseable exp claim, that claim has not passed. It makes no
// network calls; a false result only means a live probe is warranted.
func (s *Store) TokenFresh(ctx context.Context, now time.Time) (bool, error) {
	sess, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		return false, nil
	}
	if sess.IssuedAt.IsZero() || now.After(sess.IssuedAt.Add(s.validity)) {
		return false, nil
	}

	// The backend token is a JWT; inspect exp locally without verifying
	// the signature. Tokens that do not parse fall back to the issuance
	// window alone.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(sess.AccessToken, claims); err == nil {
		if exp, eerr := claims.GetExpirationTime(); eerr == nil && exp != nil {
			if now.After(exp.Time) {
				return false, nil
			}
		}
	}
	return true, nil
}
