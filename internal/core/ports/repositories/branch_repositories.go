package repositories

import (
	"context"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// BranchReader defines read operations for branches
type BranchReader interface {
	FindBranchByCode(ctx context.Context, code string) (*domain.Branch, error)
	ListBranches(ctx context.Context, filter domain.ListFilter) ([]domain.Branch, error)
	// CountBranchDependents counts rows in every table that references the branch.
	CountBranchDependents(ctx context.Context, tx pgx.Tx, code string) (domain.BranchDependents, error)
}

// BranchWriter defines write operations for branches
type BranchWriter interface {
	SaveBranch(ctx context.Context, tx pgx.Tx, branch domain.Branch) error
	UpdateBranch(ctx context.Context, tx pgx.Tx, branch domain.Branch) error
	DeleteBranch(ctx context.Context, tx pgx.Tx, code string) error
}

// BranchRepositoryFacade combines all branch repository interfaces
type BranchRepositoryFacade interface {
	BranchReader
	BranchWriter
}
