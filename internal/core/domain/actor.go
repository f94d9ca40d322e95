package domain

import "time"

// DefaultMaxLoginAttempts is the number of consecutive failed logins that locks an actor.
const DefaultMaxLoginAttempts = 5

// System role names seeded by migration.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleCashier    = "cashier"
)

// Actor is an identity that can sign in to the back office.
type Actor struct {
	ActorID        string     `json:"actorID"`
	Username       string     `json:"username"`
	Email          *string    `json:"email,omitempty"`
	FullName       string     `json:"fullName"`
	PasswordHash   string     `json:"-"`
	RoleID         string     `json:"roleID"`
	BranchCode     string     `json:"branchCode"`
	IsActive       bool       `json:"isActive"`
	IsLocked       bool       `json:"isLocked"`
	FailedAttempts int        `json:"failedAttempts"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	AuditFields
}

// Role is a named capability grant.
type Role struct {
	RoleID       string        `json:"roleID"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Capabilities CapabilityMap `json:"capabilities"`
	IsActive     bool          `json:"isActive"`
	IsSystem     bool          `json:"isSystem"`
	AuditFields
}

// Principal is the authenticated caller as seen by services. It is rebuilt from the
// verified access token on every request.
type Principal struct {
	ActorID      string
	Username     string
	RoleID       string
	RoleName     string
	RoleActive   bool
	BranchCode   string
	Capabilities CapabilityMap
}

// NewPrincipal builds the principal for an actor holding role.
func NewPrincipal(actor *Actor, role *Role) Principal {
	return Principal{
		ActorID:      actor.ActorID,
		Username:     actor.Username,
		RoleID:       role.RoleID,
		RoleName:     role.Name,
		RoleActive:   role.IsActive,
		BranchCode:   actor.BranchCode,
		Capabilities: role.Capabilities.Clone(),
	}
}

// SystemPrincipal is used by background jobs that act without a signed-in actor.
func SystemPrincipal() Principal {
	return Principal{ActorID: "system", Username: "system", RoleName: "system", RoleActive: true}
}
