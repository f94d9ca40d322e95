package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/platform/config"
	"github.com/SscSPs/branch_finance_admin/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// refreshTokenBytes is the entropy of an opaque refresh token before hex encoding.
const refreshTokenBytes = 32

// tokenService issues access JWTs carrying the role state, and opaque refresh tokens.
type tokenService struct {
	cfg *config.Config
	now func() time.Time
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvc {
	return &tokenService{cfg: cfg, now: time.Now}
}

var _ portssvc.TokenSvc = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the actor holding role.
func (s *tokenService) GenerateAccessToken(actor *domain.Actor, role *domain.Role) (string, time.Time, error) {
	issuedAt := s.now()
	claims := utils.AccessTokenClaims{
		Username:     actor.Username,
		RoleID:       role.RoleID,
		RoleName:     role.Name,
		RoleActive:   role.IsActive,
		BranchCode:   actor.BranchCode,
		Capabilities: role.Capabilities.ToStrings(),
	}
	token, err := utils.GenerateJWT(claims, actor.ActorID, s.cfg.JWTSecret, issuedAt, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, issuedAt.Add(s.cfg.JWTExpiryDuration), nil
}

// ParseAccessToken verifies the token and rebuilds the principal from its claims.
func (s *tokenService) ParseAccessToken(token string) (*portssvc.AccessClaims, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret, s.cfg.JWTIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing subject", apperrors.ErrTokenInvalid)
	}
	caps, err := domain.ValidateCapabilities(claims.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	return &portssvc.AccessClaims{
		Principal: domain.Principal{
			ActorID:      claims.Subject,
			Username:     claims.Username,
			RoleID:       claims.RoleID,
			RoleName:     claims.RoleName,
			RoleActive:   claims.RoleActive,
			BranchCode:   claims.BranchCode,
			Capabilities: caps,
		},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// GenerateRefreshToken mints an opaque refresh token. Only the returned hash may be persisted.
func (s *tokenService) GenerateRefreshToken() (string, string, time.Time, error) {
	raw, err := utils.GenerateSecureRandomString(refreshTokenBytes)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return raw, utils.HashRefreshToken(raw), s.now().Add(s.cfg.RefreshTokenExpiryDuration), nil
}
