package dto

import "github.com/SscSPs/branch_finance_admin/internal/core/domain"

// CreateRoleRequest creates a role. Capabilities are validated against the closed module/action schema.
type CreateRoleRequest struct {
	Name         string              `json:"name" binding:"required,min=2,max=64"`
	Description  string              `json:"description" binding:"max=255"`
	Capabilities map[string][]string `json:"capabilities" binding:"required"`
}

// UpdateRoleRequest updates a non-system role.
type UpdateRoleRequest struct {
	Name         *string             `json:"name" binding:"omitempty,min=2,max=64"`
	Description  *string             `json:"description" binding:"omitempty,max=255"`
	Capabilities map[string][]string `json:"capabilities"`
	IsActive     *bool               `json:"isActive"`
}

// RoleResponse is the public view of a role.
type RoleResponse struct {
	RoleID       string              `json:"roleID"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Capabilities map[string][]string `json:"capabilities"`
	IsActive     bool                `json:"isActive"`
	IsSystem     bool                `json:"isSystem"`
}

// ToRoleResponse converts a domain role.
func ToRoleResponse(r *domain.Role) RoleResponse {
	return RoleResponse{
		RoleID:       r.RoleID,
		Name:         r.Name,
		Description:  r.Description,
		Capabilities: r.Capabilities.ToStrings(),
		IsActive:     r.IsActive,
		IsSystem:     r.IsSystem,
	}
}

// ListRolesResponse wraps the list of roles.
type ListRolesResponse struct {
	Roles []RoleResponse `json:"roles"`
}

// ToListRolesResponse converts a slice of domain roles.
func ToListRolesResponse(roles []domain.Role) ListRolesResponse {
	out := make([]RoleResponse, len(roles))
	for i := range roles {
		out[i] = ToRoleResponse(&roles[i])
	}
	return ListRolesResponse{Roles: out}
}
