package domain

import "time"

// RefreshCredential is a persisted, single-use refresh token. Only the hash of the opaque
// value is stored.
type RefreshCredential struct {
	TokenID   string    `json:"tokenID"`
	ActorID   string    `json:"actorID"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
}

// IsExpired reports whether the credential is no longer usable at now.
func (r RefreshCredential) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// LoginHistory records a single login attempt.
type LoginHistory struct {
	ID          string    `json:"id"`
	ActorID     *string   `json:"actorID,omitempty"`
	Username    string    `json:"username"`
	Success     bool      `json:"success"`
	Reason      string    `json:"reason,omitempty"`
	IPAddress   string    `json:"ipAddress"`
	UserAgent   string    `json:"userAgent"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// Login failure reasons recorded in history.
const (
	LoginReasonUnknownUser   = "unknown_username"
	LoginReasonInactive      = "account_inactive"
	LoginReasonLocked        = "account_locked"
	LoginReasonBadPassword   = "invalid_password"
	LoginReasonLockedNow     = "locked_after_failed_attempts"
	LoginReasonRoleInactive  = "role_inactive"
	LoginReasonGoogleNoMatch = "google_email_not_registered"
)

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// Session is the result of a successful authentication.
type Session struct {
	Actor  Actor
	Role   Role
	Tokens TokenPair
}

// ClientMeta describes the caller of an authentication request.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}
