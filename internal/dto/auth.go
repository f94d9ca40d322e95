package dto

import (
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
)

// LoginRequest holds username/password credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest presents a refresh credential for rotation.
type RefreshTokenRequest struct {
	ActorID      string `json:"actorID" binding:"required,uuid"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest revokes a single refresh credential.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LoginResponse represents the response for a successful login or refresh.
type LoginResponse struct {
	AccessToken      string        `json:"accessToken"`
	AccessExpiresAt  time.Time     `json:"accessExpiresAt"`
	RefreshToken     string        `json:"refreshToken"`
	RefreshExpiresAt time.Time     `json:"refreshExpiresAt"`
	Actor            ActorResponse `json:"actor"`
	Role             RoleResponse  `json:"role"`
}

// ToLoginResponse converts a session into its response body.
func ToLoginResponse(s *domain.Session) LoginResponse {
	return LoginResponse{
		AccessToken:      s.Tokens.AccessToken,
		AccessExpiresAt:  s.Tokens.AccessExpiresAt,
		RefreshToken:     s.Tokens.RefreshToken,
		RefreshExpiresAt: s.Tokens.RefreshExpiresAt,
		Actor:            ToActorResponse(&s.Actor),
		Role:             ToRoleResponse(&s.Role),
	}
}

// MeResponse describes the caller as seen from their access token.
type MeResponse struct {
	ActorID      string              `json:"actorID"`
	Username     string              `json:"username"`
	RoleID       string              `json:"roleID"`
	RoleName     string              `json:"roleName"`
	BranchCode   string              `json:"branchCode"`
	Capabilities map[string][]string `json:"capabilities"`
}

// ToMeResponse converts a principal into its response body.
func ToMeResponse(p domain.Principal) MeResponse {
	return MeResponse{
		ActorID:      p.ActorID,
		Username:     p.Username,
		RoleID:       p.RoleID,
		RoleName:     p.RoleName,
		BranchCode:   p.BranchCode,
		Capabilities: p.Capabilities.ToStrings(),
	}
}

// LoginHistoryResponse lists login attempts of an actor.
type LoginHistoryResponse struct {
	Attempts []domain.LoginHistory `json:"attempts"`
}
