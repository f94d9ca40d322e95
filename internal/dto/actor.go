package dto

import (
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
)

// CreateActorRequest creates a back-office user.
type CreateActorRequest struct {
	Username   string  `json:"username" binding:"required,min=3,max=64,alphanum"`
	Password   string  `json:"password" binding:"required,min=8,max=72"`
	FullName   string  `json:"fullName" binding:"required,max=120"`
	Email      *string `json:"email" binding:"omitempty,email"`
	RoleID     string  `json:"roleID" binding:"required,uuid"`
	BranchCode string  `json:"branchCode" binding:"required,branchcode"`
}

// UpdateActorRequest updates a user. Pointers distinguish omitted fields from zero values.
// RoleID, BranchCode, IsActive and IsLocked are administrative fields that nobody may change on
// their own record.
type UpdateActorRequest struct {
	FullName   *string `json:"fullName" binding:"omitempty,max=120"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Password   *string `json:"password" binding:"omitempty,min=8,max=72"`
	RoleID     *string `json:"roleID" binding:"omitempty,uuid"`
	BranchCode *string `json:"branchCode" binding:"omitempty,branchcode"`
	IsActive   *bool   `json:"isActive"`
	IsLocked   *bool   `json:"isLocked"`
}

// TouchesAdministrativeFields reports whether the request changes role, branch or status flags.
func (r UpdateActorRequest) TouchesAdministrativeFields() bool {
	return r.RoleID != nil || r.BranchCode != nil || r.IsActive != nil || r.IsLocked != nil
}

// ActorResponse is the public view of an actor; the password hash never leaves the service.
type ActorResponse struct {
	ActorID        string     `json:"actorID"`
	Username       string     `json:"username"`
	FullName       string     `json:"fullName"`
	Email          *string    `json:"email,omitempty"`
	RoleID         string     `json:"roleID"`
	BranchCode     string     `json:"branchCode"`
	IsActive       bool       `json:"isActive"`
	IsLocked       bool       `json:"isLocked"`
	FailedAttempts int        `json:"failedAttempts"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ToActorResponse converts a domain actor.
func ToActorResponse(a *domain.Actor) ActorResponse {
	return ActorResponse{
		ActorID:        a.ActorID,
		Username:       a.Username,
		FullName:       a.FullName,
		Email:          a.Email,
		RoleID:         a.RoleID,
		BranchCode:     a.BranchCode,
		IsActive:       a.IsActive,
		IsLocked:       a.IsLocked,
		FailedAttempts: a.FailedAttempts,
		LastLoginAt:    a.LastLoginAt,
		CreatedAt:      a.CreatedAt,
	}
}

// ListActorsResponse wraps the list of actors.
type ListActorsResponse struct {
	Actors []ActorResponse `json:"actors"`
}

// ToListActorsResponse converts a slice of domain actors.
func ToListActorsResponse(actors []domain.Actor) ListActorsResponse {
	out := make([]ActorResponse, len(actors))
	for i := range actors {
		out[i] = ToActorResponse(&actors[i])
	}
	return ListActorsResponse{Actors: out}
}
