package repositories

import (
	"context"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// RoleReader defines read operations for roles
type RoleReader interface {
	FindRoleByID(ctx context.Context, roleID string) (*domain.Role, error)
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
	// CountActorsWithRole counts actors currently assigned the role.
	CountActorsWithRole(ctx context.Context, tx pgx.Tx, roleID string) (int64, error)
}

// RoleWriter defines write operations for roles
type RoleWriter interface {
	SaveRole(ctx context.Context, tx pgx.Tx, role domain.Role) error
	UpdateRole(ctx context.Context, tx pgx.Tx, role domain.Role) error
	DeleteRole(ctx context.Context, tx pgx.Tx, roleID string) error
}

// RoleRepositoryFacade combines all role repository interfaces
type RoleRepositoryFacade interface {
	RoleReader
	RoleWriter
}
