package services

import (
	"context"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"golang.org/x/oauth2"
)

// AccessClaims is the verified content of an access token.
type AccessClaims struct {
	Principal domain.Principal
	ExpiresAt time.Time
}

// TokenSvc issues and verifies access credentials and mints opaque refresh credentials.
type TokenSvc interface {
	GenerateAccessToken(actor *domain.Actor, role *domain.Role) (string, time.Time, error)
	// ParseAccessToken verifies signature and expiry. Expired tokens yield apperrors.ErrTokenExpired,
	// every other failure apperrors.ErrTokenInvalid.
	ParseAccessToken(token string) (*AccessClaims, error)
	GenerateRefreshToken() (raw string, hash string, expiresAt time.Time, err error)
}

// SessionSvcFacade is the authentication session manager.
type SessionSvcFacade interface {
	Login(ctx context.Context, username, password string, meta domain.ClientMeta) (*domain.Session, error)
	LoginWithGoogle(ctx context.Context, idToken string, meta domain.ClientMeta) (*domain.Session, error)
	Refresh(ctx context.Context, actorID, refreshToken string, meta domain.ClientMeta) (*domain.Session, error)
	Logout(ctx context.Context, principal domain.Principal, refreshToken string) error
	PurgeExpiredRefreshTokens(ctx context.Context) (int64, error)
}

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
}

// GoogleOAuthSvc wraps the Google OAuth2 authorization code flow.
type GoogleOAuthSvc interface {
	Enabled() bool
	GenerateStateString() (string, error)
	GetGoogleLoginURL(state string) string
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error)
}
