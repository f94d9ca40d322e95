package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRoleRepository struct {
	BaseRepository
}

func newPgxRoleRepository(pool *pgxpool.Pool) portsrepo.RoleRepositoryFacade {
	return &PgxRoleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RoleRepositoryFacade = (*PgxRoleRepository)(nil)

const roleColumns = `role_id, name, description, capabilities, is_active, is_system, created_at, created_by, last_updated_at, last_updated_by`

func scanRole(row pgx.Row) (*domain.Role, error) {
	var (
		role domain.Role
		caps []byte
	)
	err := row.Scan(&role.RoleID, &role.Name, &role.Description, &caps, &role.IsActive, &role.IsSystem,
		&role.CreatedAt, &role.CreatedBy, &role.LastUpdatedAt, &role.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	role.Capabilities = domain.CapabilityMap{}
	if len(caps) > 0 {
		if err := json.Unmarshal(caps, &role.Capabilities); err != nil {
			return nil, fmt.Errorf("failed to decode capabilities of role %s: %w", role.RoleID, err)
		}
	}
	return &role, nil
}

func (r *PgxRoleRepository) FindRoleByID(ctx context.Context, roleID string) (*domain.Role, error) {
	role, err := scanRole(r.Pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE role_id = $1`, roleID))
	if err != nil {
		return nil, fmt.Errorf("failed to find role %s: %w", roleID, mapPgError(err))
	}
	return role, nil
}

func (r *PgxRoleRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	role, err := scanRole(r.Pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE LOWER(name) = LOWER($1)`, name))
	if err != nil {
		return nil, fmt.Errorf("failed to find role %q: %w", name, mapPgError(err))
	}
	return role, nil
}

func (r *PgxRoleRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY is_system DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", mapPgError(err))
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", mapPgError(err))
		}
		roles = append(roles, *role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", mapPgError(err))
	}
	return roles, nil
}

func (r *PgxRoleRepository) CountActorsWithRole(ctx context.Context, tx pgx.Tx, roleID string) (int64, error) {
	var n int64
	if err := r.conn(tx).QueryRow(ctx, `SELECT COUNT(*) FROM actors WHERE role_id = $1`, roleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count actors with role %s: %w", roleID, mapPgError(err))
	}
	return n, nil
}

func (r *PgxRoleRepository) SaveRole(ctx context.Context, tx pgx.Tx, role domain.Role) error {
	caps, err := json.Marshal(role.Capabilities)
	if err != nil {
		return fmt.Errorf("failed to encode capabilities: %w", err)
	}
	query := `
		INSERT INTO roles (` + roleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = r.conn(tx).Exec(ctx, query, role.RoleID, role.Name, role.Description, caps, role.IsActive, role.IsSystem,
		role.CreatedAt, role.CreatedBy, role.LastUpdatedAt, role.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save role %q: %w", role.Name, mapPgError(err))
	}
	return nil
}

func (r *PgxRoleRepository) UpdateRole(ctx context.Context, tx pgx.Tx, role domain.Role) error {
	caps, err := json.Marshal(role.Capabilities)
	if err != nil {
		return fmt.Errorf("failed to encode capabilities: %w", err)
	}
	query := `
		UPDATE roles
		SET name = $1, description = $2, capabilities = $3, is_active = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE role_id = $7 AND NOT is_system;
	`
	tag, err := r.conn(tx).Exec(ctx, query, role.Name, role.Description, caps, role.IsActive,
		role.LastUpdatedAt, role.LastUpdatedBy, role.RoleID)
	if err != nil {
		return fmt.Errorf("failed to update role %s: %w", role.RoleID, mapPgError(err))
	}
	return expectAffected(tag, "role")
}

func (r *PgxRoleRepository) DeleteRole(ctx context.Context, tx pgx.Tx, roleID string) error {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM roles WHERE role_id = $1 AND NOT is_system`, roleID)
	if err != nil {
		return fmt.Errorf("failed to delete role %s: %w", roleID, mapPgError(err))
	}
	return expectAffected(tag, "role")
}
