package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

// budgetSelect reads budgets with utilisation: the sum of completed expenditures booked
// against the same branch and head within the budget year.
const budgetSelect = `
	SELECT b.budget_id, b.branch_code, b.expenditure_head_id, b.year, b.amount, b.currency_code,
		COALESCE((
			SELECT SUM(e.amount) FROM expenditures e
			WHERE e.branch_code = b.branch_code
				AND e.expenditure_head_id = b.expenditure_head_id
				AND e.currency_code = b.currency_code
				AND e.status = 'COMPLETED'
				AND e.expenditure_date >= make_date(b.year, 1, 1)
				AND e.expenditure_date < make_date(b.year + 1, 1, 1)
		), 0) AS spent,
		b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
	FROM budgets b`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	if err := row.Scan(&b.BudgetID, &b.BranchCode, &b.ExpenditureHeadID, &b.Year, &b.Amount, &b.CurrencyCode, &b.Spent,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, tx pgx.Tx, b domain.Budget) error {
	query := `
		INSERT INTO budgets (budget_id, branch_code, expenditure_head_id, year, amount, currency_code,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.conn(tx).Exec(ctx, query, b.BudgetID, b.BranchCode, b.ExpenditureHeadID, b.Year, b.Amount, b.CurrencyCode,
		b.CreatedAt, b.CreatedBy, b.LastUpdatedAt, b.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", mapPgError(err))
	}
	return nil
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, tx pgx.Tx, budgetID string) error {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, mapPgError(err))
	}
	return expectAffected(tag, "budget")
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	b, err := scanBudget(r.Pool.QueryRow(ctx, budgetSelect+` WHERE b.budget_id = $1`, budgetID))
	if err != nil {
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, mapPgError(err))
	}
	return b, nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, filter portsrepo.BudgetFilter) ([]domain.Budget, error) {
	var w whereBuilder
	if filter.BranchCode != nil {
		w.add("b.branch_code = ?", *filter.BranchCode)
	}
	if filter.Year != nil {
		w.add("b.year = ?", *filter.Year)
	}
	if filter.HeadID != nil {
		w.add("b.expenditure_head_id = ?", *filter.HeadID)
	}

	rows, err := r.Pool.Query(ctx, budgetSelect+w.clause()+` ORDER BY b.year DESC, b.branch_code`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", mapPgError(err))
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", mapPgError(err))
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget rows: %w", mapPgError(err))
	}
	return budgets, nil
}
