package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// RecordReader defines read operations for financial records. A non-nil branchScope restricts
// lookups to that branch; rows outside it are reported as not found.
type RecordReader interface {
	FindContributionByID(ctx context.Context, id string, branchScope *string) (*domain.Contribution, error)
	ListContributions(ctx context.Context, filter domain.RecordFilter) ([]domain.Contribution, error)
	FindTransactionByID(ctx context.Context, id string, branchScope *string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.RecordFilter) ([]domain.Transaction, error)
	FindExpenditureByID(ctx context.Context, id string, branchScope *string) (*domain.Expenditure, error)
	ListExpenditures(ctx context.Context, filter domain.RecordFilter) ([]domain.Expenditure, error)
}

// RecordWriter defines write operations for financial records. Inserts must share the
// transaction used for identifier allocation.
type RecordWriter interface {
	SaveContribution(ctx context.Context, tx pgx.Tx, c domain.Contribution) error
	SaveTransaction(ctx context.Context, tx pgx.Tx, t domain.Transaction) error
	SaveExpenditure(ctx context.Context, tx pgx.Tx, e domain.Expenditure) error
	// UpdateRecordStatus moves a record from one status to another. It returns ErrConflict when the
	// record is no longer in the expected status.
	UpdateRecordStatus(ctx context.Context, tx pgx.Tx, recordType domain.RecordType, id string, from, to domain.RecordStatus, reason *string, by string, at time.Time) error
}

// RecordRepositoryFacade combines all financial record repository interfaces
type RecordRepositoryFacade interface {
	RecordReader
	RecordWriter
}
