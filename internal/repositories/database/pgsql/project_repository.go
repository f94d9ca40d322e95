package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

const projectColumns = `project_id, branch_code, name, description, start_date, end_date, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// prefixColumns qualifies each column of a comma separated list with prefix.
func prefixColumns(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ProjectID, &p.BranchCode, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.IsActive,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProjects(rows pgx.Rows) ([]domain.Project, error) {
	projects := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", mapPgError(err))
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", mapPgError(err))
	}
	return projects, nil
}

func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	p, err := scanProject(r.Pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE project_id = $1`, projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, mapPgError(err))
	}
	return p, nil
}

func (r *PgxProjectRepository) ListProjects(ctx context.Context, filter domain.ListFilter) ([]domain.Project, error) {
	var w whereBuilder
	if filter.BranchCode != nil {
		w.add("branch_code = ?", *filter.BranchCode)
	}
	if filter.Search != "" {
		w.add("name ILIKE ?", likePattern(filter.Search))
	}
	query := `SELECT ` + projectColumns + ` FROM projects` + w.clause() +
		` ORDER BY start_date DESC, name LIMIT ` + w.arg(normaliseLimit(filter.Limit, 20, 200)) + ` OFFSET ` + w.arg(max(filter.Offset, 0))

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", mapPgError(err))
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *PgxProjectRepository) SaveProject(ctx context.Context, tx pgx.Tx, p domain.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.conn(tx).Exec(ctx, query, p.ProjectID, p.BranchCode, p.Name, p.Description, p.StartDate, p.EndDate,
		p.IsActive, p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", mapPgError(err))
	}
	return nil
}

func (r *PgxProjectRepository) UpdateProject(ctx context.Context, tx pgx.Tx, p domain.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, start_date = $3, end_date = $4, is_active = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE project_id = $8;
	`
	tag, err := r.conn(tx).Exec(ctx, query, p.Name, p.Description, p.StartDate, p.EndDate, p.IsActive,
		p.LastUpdatedAt, p.LastUpdatedBy, p.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", p.ProjectID, mapPgError(err))
	}
	return expectAffected(tag, "project")
}
