package repositories

import (
	"context"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// BudgetFilter narrows budget listings.
type BudgetFilter struct {
	BranchCode *string
	Year       *int
	HeadID     *string
}

// BudgetRepositoryFacade persists budgets. Reads fill Budget.Spent from completed expenditures.
type BudgetRepositoryFacade interface {
	SaveBudget(ctx context.Context, tx pgx.Tx, budget domain.Budget) error
	DeleteBudget(ctx context.Context, tx pgx.Tx, budgetID string) error
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, filter BudgetFilter) ([]domain.Budget, error)
}
