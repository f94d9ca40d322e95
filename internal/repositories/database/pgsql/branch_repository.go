package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBranchRepository struct {
	BaseRepository
}

func newPgxBranchRepository(pool *pgxpool.Pool) portsrepo.BranchRepositoryFacade {
	return &PgxBranchRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BranchRepositoryFacade = (*PgxBranchRepository)(nil)

const branchColumns = `code, name, address, phone, email, is_active, created_at, created_by, last_updated_at, last_updated_by`

// branchDependentTables lists every table holding a branch_code reference.
var branchDependentTables = []string{
	"actors", "members", "projects", "contributions", "transactions",
	"expenditures", "assets", "contracts", "budgets",
}

func scanBranch(row pgx.Row) (*domain.Branch, error) {
	var b domain.Branch
	err := row.Scan(&b.Code, &b.Name, &b.Address, &b.Phone, &b.Email, &b.IsActive,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PgxBranchRepository) FindBranchByCode(ctx context.Context, code string) (*domain.Branch, error) {
	b, err := scanBranch(r.Pool.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE code = $1`, code))
	if err != nil {
		return nil, fmt.Errorf("failed to find branch %s: %w", code, mapPgError(err))
	}
	return b, nil
}

func (r *PgxBranchRepository) ListBranches(ctx context.Context, filter domain.ListFilter) ([]domain.Branch, error) {
	var w whereBuilder
	if filter.BranchCode != nil {
		w.add("code = ?", *filter.BranchCode)
	}
	if filter.Search != "" {
		w.add("(name ILIKE ? OR code ILIKE ?)", likePattern(filter.Search), likePattern(filter.Search))
	}
	query := `SELECT ` + branchColumns + ` FROM branches` + w.clause() +
		` ORDER BY code LIMIT ` + w.arg(normaliseLimit(filter.Limit, 20, 200)) + ` OFFSET ` + w.arg(max(filter.Offset, 0))

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", mapPgError(err))
	}
	defer rows.Close()

	branches := []domain.Branch{}
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan branch row: %w", mapPgError(err))
		}
		branches = append(branches, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating branch rows: %w", mapPgError(err))
	}
	return branches, nil
}

// CountBranchDependents returns the number of rows per dependent table. Tables without
// references are omitted.
func (r *PgxBranchRepository) CountBranchDependents(ctx context.Context, tx pgx.Tx, code string) (domain.BranchDependents, error) {
	deps := domain.BranchDependents{}
	for _, table := range branchDependentTables {
		var n int64
		query := `SELECT COUNT(*) FROM ` + table + ` WHERE branch_code = $1`
		if err := r.conn(tx).QueryRow(ctx, query, code).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s for branch %s: %w", table, code, mapPgError(err))
		}
		if n > 0 {
			deps[table] = n
		}
	}
	return deps, nil
}

func (r *PgxBranchRepository) SaveBranch(ctx context.Context, tx pgx.Tx, b domain.Branch) error {
	query := `
		INSERT INTO branches (` + branchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.conn(tx).Exec(ctx, query, b.Code, b.Name, b.Address, b.Phone, b.Email, b.IsActive,
		b.CreatedAt, b.CreatedBy, b.LastUpdatedAt, b.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save branch %s: %w", b.Code, mapPgError(err))
	}
	return nil
}

func (r *PgxBranchRepository) UpdateBranch(ctx context.Context, tx pgx.Tx, b domain.Branch) error {
	query := `
		UPDATE branches
		SET name = $1, address = $2, phone = $3, email = $4, is_active = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE code = $8;
	`
	tag, err := r.conn(tx).Exec(ctx, query, b.Name, b.Address, b.Phone, b.Email, b.IsActive,
		b.LastUpdatedAt, b.LastUpdatedBy, b.Code)
	if err != nil {
		return fmt.Errorf("failed to update branch %s: %w", b.Code, mapPgError(err))
	}
	return expectAffected(tag, "branch")
}

func (r *PgxBranchRepository) DeleteBranch(ctx context.Context, tx pgx.Tx, code string) error {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM branches WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", code, mapPgError(err))
	}
	return expectAffected(tag, "branch")
}
