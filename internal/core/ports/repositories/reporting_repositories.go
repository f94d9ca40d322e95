package repositories

import (
	"context"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
)

// ReportingRepository provides read-only aggregations over financial records.
type ReportingRepository interface {
	SummarizeRecords(ctx context.Context, filter domain.ReportFilter) ([]domain.RecordSummary, error)
	ListExportRows(ctx context.Context, recordType domain.RecordType, filter domain.ReportFilter) ([]domain.ExportRow, error)
}
