package services

import (
	"context"
	"errors"
	"time"

	"github.com/ridematch/client-go/internal/fallback"
	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/models"
	"github.com/ridematch/client-go/internal/session"
	"github.com/ridematch/client-go/internal/transport"
)

// RegisterForm is the account-creation payload.
type RegisterForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
	Phone       string `json:"phone"`
}

// ProfileForm completes registration with the rider profile.
type ProfileForm struct {
	UserID           string `json:"user_id"`
	University       string `json:"university"`
	EmergencyContact string `json:"emergencyContact"`
	GenderPreference string `json:"genderPreference"`
	Likes            string `json:"likes"`
	Dislikes         string `json:"dislikes"`
	StudentCardURL   string `json:"studentCardURL"`
}

// RegisterResult is the backend acknowledgement of a new account.
type RegisterResult struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ProfileResult is the backend acknowledgement of a completed profile.
type ProfileResult struct {
	Message   string `json:"message"`
	ProfileID string `json:"profile_id"`
}

// Auth is the authentication facade. Login, Register and RegisterProfile
// are strict: their errors carry the server's message and are never
// replaced with fallback data, because the caller has to show the real
// reason a credential flow failed.
type Auth struct {
	api      API
	sessions *session.Store
	log      logging.Logger
	now      func() time.Time
}

func NewAuth(api API, sessions *session.Store, log logging.Logger) *Auth {
	return &Auth{api: api, sessions: sessions, log: log, now: time.Now}
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

// Login authenticates and persists the resulting session. The stored
// issuance timestamp anchors the local token-freshness window.
func (a *Auth) Login(ctx context.Context, email, password string) (session.Session, error) {
	var resp loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := a.api.Post(ctx, "/auth/login", body, &resp); err != nil {
		return session.Session{}, err
	}

	sess := session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.UserID,
		Name:         resp.Name,
		Role:         session.ParseRole(resp.Role),
		IssuedAt:     a.now(),
	}
	if err := a.sessions.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}
	a.log.Info(ctx, "logged in", "user_id", sess.UserID)
	return sess, nil
}

// Register creates an account. It does not establish a session; the
// backend expects a profile registration and an explicit login to follow.
func (a *Auth) Register(ctx context.Context, form RegisterForm) (RegisterResult, error) {
	if form.Phone == "" {
		form.Phone = "0000000000"
	}
	var resp RegisterResult
	if err := a.api.Post(ctx, "/auth/register", form, &resp); err != nil {
		return RegisterResult{}, err
	}
	return resp, nil
}

// RegisterProfile completes registration for the user created by Register.
func (a *Auth) RegisterProfile(ctx context.Context, form ProfileForm) (ProfileResult, error) {
	var resp ProfileResult
	if err := a.api.Post(ctx, "/auth/register-profile", form, &resp); err != nil {
		return ProfileResult{}, err
	}
	return resp, nil
}

// Logout wipes the stored credentials. Purely local.
func (a *Auth) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

// IsAuthenticated reports whether the stored session is usable. A present
// token pair passing the local freshness check is trusted without network
// traffic. A stale pair triggers a live profile probe: a definitive auth
// rejection wipes the credentials, while a network failure keeps them, so
// an unreachable backend does not log the user out.
func (a *Auth) IsAuthenticated(ctx context.Context) bool {
	ok, err := a.sessions.Authenticated(ctx)
	if err != nil || !ok {
		return false
	}

	fresh, err := a.sessions.TokenFresh(ctx, a.now())
	if err == nil && fresh {
		return true
	}

	var user userPayload
	err = a.api.Get(ctx, "/users/profile", &user)
	if err == nil {
		return true
	}
	if errors.Is(err, transport.ErrNetwork) {
		return true
	}

	var apiErr *transport.APIError
	if errors.Is(err, transport.ErrAuthExpired) || (errors.As(err, &apiErr) && apiErr.StatusCode == 401) {
		if clearErr := a.sessions.Clear(ctx); clearErr != nil {
			a.log.Warn(ctx, "failed to wipe stale credentials", "error", clearErr)
		}
		return false
	}
	return false
}

// UserInfo returns the locally stored identity without any network call.
func (a *Auth) UserInfo(ctx context.Context) (session.Session, error) {
	return a.sessions.Load(ctx)
}

type userPayload struct {
	ID            string  `json:"_id"`
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Role          string  `json:"role"`
	WalletBalance float64 `json:"wallet_balance"`
	Rating        float64 `json:"rating"`
	TotalRides    int     `json:"total_rides"`
	JoinedDate    string  `json:"joined_date"`
}

func (p userPayload) toModel() models.User {
	id := p.ID
	if id == "" {
		id = p.UserID
	}
	return models.User{
		ID:            id,
		Name:          p.Name,
		Email:         p.Email,
		Phone:         p.Phone,
		Role:          p.Role,
		WalletBalance: p.WalletBalance,
		Rating:        p.Rating,
		TotalRides:    p.TotalRides,
		JoinedDate:    p.JoinedDate,
	}
}

// Profile fetches the server-side profile, degrading to the bundled
// sample user when the backend cannot answer.
func (a *Auth) Profile(ctx context.Context) models.User {
	return fallback.WithFallback(ctx, a.log, "get profile",
		func(ctx context.Context) (models.User, error) {
			var p userPayload
			if err := a.api.Get(ctx, "/users/profile", &p); err != nil {
				return models.User{}, err
			}
			return p.toModel(), nil
		},
		fallback.SampleUser())
}

// UpdateProfile pushes profile edits. Degrades to an unsuccessful Ack.
func (a *Auth) UpdateProfile(ctx context.Context, fields map[string]any) models.Ack {
	return fallback.WithFallback(ctx, a.log, "update profile",
		func(ctx context.Context) (models.Ack, error) {
			var resp ackPayload
			if err := a.api.Put(ctx, "/users/profile", fields, &resp); err != nil {
				return models.Ack{}, err
			}
			return models.Ack{Success: true, Message: resp.Message}, nil
		},
		models.Ack{Success: false, Message: "Profile update temporarily unavailable"})
}

// Ping checks backend liveness.
func (a *Auth) Ping(ctx context.Context) error {
	return a.api.Get(ctx, "/health", nil)
}
