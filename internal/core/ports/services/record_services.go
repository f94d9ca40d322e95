package services

import (
	"context"
	"io"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
)

// RecordSvcFacade orchestrates contributions, transactions and expenditures.
type RecordSvcFacade interface {
	CreateContribution(ctx context.Context, p domain.Principal, req dto.CreateContributionRequest) (*domain.Contribution, error)
	GetContribution(ctx context.Context, p domain.Principal, id string) (*domain.Contribution, error)
	ListContributions(ctx context.Context, p domain.Principal, params dto.ListRecordsParams) (*dto.ListContributionsResponse, error)
	CancelContribution(ctx context.Context, p domain.Principal, id string, reason string) (*domain.Contribution, error)

	CreateTransaction(ctx context.Context, p domain.Principal, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, p domain.Principal, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, p domain.Principal, params dto.ListRecordsParams) (*dto.ListTransactionsResponse, error)
	RefundTransaction(ctx context.Context, p domain.Principal, id string, reason string) (*domain.Transaction, error)

	CreateExpenditure(ctx context.Context, p domain.Principal, req dto.CreateExpenditureRequest) (*domain.Expenditure, error)
	GetExpenditure(ctx context.Context, p domain.Principal, id string) (*domain.Expenditure, error)
	ListExpenditures(ctx context.Context, p domain.Principal, params dto.ListRecordsParams) (*dto.ListExpendituresResponse, error)
	CancelExpenditure(ctx context.Context, p domain.Principal, id string, reason string) (*domain.Expenditure, error)
}

// ReportingSvc aggregates and exports financial records.
type ReportingSvc interface {
	Summary(ctx context.Context, p domain.Principal, params dto.ReportParams) (*dto.SummaryResponse, error)
	// Export writes the rows of one record type to w in the requested format.
	Export(ctx context.Context, p domain.Principal, params dto.ReportParams, w io.Writer) error
}

// ReminderSvc runs the daily sweep.
type ReminderSvc interface {
	RunDailySweep(ctx context.Context) error
}
