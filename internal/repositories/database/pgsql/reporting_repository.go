package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReportingRepository runs read-only aggregate queries.
type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

var reportRecordTypes = []domain.RecordType{domain.RecordContribution, domain.RecordTransaction, domain.RecordExpenditure}

// recordConditions appends the shared report filter for one record table aliased as alias.
func recordConditions(w *whereBuilder, alias string, cols recordColumns, filter domain.ReportFilter) {
	if filter.BranchCode != nil {
		w.add(alias+".branch_code = ?", *filter.BranchCode)
	}
	if filter.Status != nil {
		w.add(alias+".status = ?", string(*filter.Status))
	}
	w.add(alias+"."+cols.dateColumn+" >= ?", filter.From)
	w.add(alias+"."+cols.dateColumn+" <= ?", filter.To)
}

// SummarizeRecords totals records by type, branch, currency and status.
func (r *PgxReportingRepository) SummarizeRecords(ctx context.Context, filter domain.ReportFilter) ([]domain.RecordSummary, error) {
	types := reportRecordTypes
	if filter.RecordType != nil {
		types = []domain.RecordType{*filter.RecordType}
	}

	// The parts share one argument list so placeholders keep counting across the UNION.
	var (
		w     whereBuilder
		parts []string
	)
	for _, rt := range types {
		cols, err := columnsFor(rt)
		if err != nil {
			return nil, err
		}
		part := whereBuilder{args: w.args}
		recordConditions(&part, "r", cols, filter)
		w.args = part.args
		parts = append(parts, fmt.Sprintf(
			`SELECT '%s' AS record_type, r.branch_code, r.currency_code, r.status, COUNT(*) AS cnt, COALESCE(SUM(r.amount), 0) AS total
			FROM %s r%s
			GROUP BY r.branch_code, r.currency_code, r.status`,
			rt, cols.table, part.clause()))
	}
	query := strings.Join(parts, "\nUNION ALL\n") + "\nORDER BY record_type, branch_code, currency_code, status"

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize records: %w", mapPgError(err))
	}
	defer rows.Close()

	summaries := []domain.RecordSummary{}
	for rows.Next() {
		var (
			s          domain.RecordSummary
			recordType string
			status     string
		)
		if err := rows.Scan(&recordType, &s.BranchCode, &s.CurrencyCode, &status, &s.Count, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", mapPgError(err))
		}
		s.RecordType = domain.RecordType(recordType)
		s.Status = domain.RecordStatus(status)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", mapPgError(err))
	}
	return summaries, nil
}

// exportSelects returns the projection and joins that flatten a record type into ExportRow.
func exportSelects(rt domain.RecordType) (string, error) {
	switch rt {
	case domain.RecordContribution:
		return `SELECT r.receipt_no, r.branch_code, r.contribution_date, m.full_name, p.name, r.notes,
				r.amount, r.currency_code, pm.name, r.status, COALESCE(a.username, r.created_by)
			FROM contributions r
			JOIN members m ON m.member_id = r.member_id
			JOIN projects p ON p.project_id = r.project_id
			JOIN payment_methods pm ON pm.payment_method_id = r.payment_method_id
			LEFT JOIN actors a ON a.actor_id::text = r.created_by`, nil
	case domain.RecordTransaction:
		return `SELECT r.receipt_no, r.branch_code, r.transaction_date, r.payer_name, COALESCE(h.name, ''), r.description,
				r.amount, r.currency_code, pm.name, r.status, COALESCE(a.username, r.created_by)
			FROM transactions r
			LEFT JOIN account_heads h ON h.head_id = r.revenue_head_id
			JOIN payment_methods pm ON pm.payment_method_id = r.payment_method_id
			LEFT JOIN actors a ON a.actor_id::text = r.created_by`, nil
	case domain.RecordExpenditure:
		return `SELECT r.voucher_no, r.branch_code, r.expenditure_date, COALESCE(s.name, ''), h.name, r.description,
				r.amount, r.currency_code, pm.name, r.status, COALESCE(a.username, r.created_by)
			FROM expenditures r
			JOIN account_heads h ON h.head_id = r.expenditure_head_id
			LEFT JOIN suppliers s ON s.supplier_id = r.supplier_id
			JOIN payment_methods pm ON pm.payment_method_id = r.payment_method_id
			LEFT JOIN actors a ON a.actor_id::text = r.created_by`, nil
	default:
		return "", fmt.Errorf("unknown record type %q", rt)
	}
}

// ListExportRows returns every record of recordType matching filter, oldest first.
func (r *PgxReportingRepository) ListExportRows(ctx context.Context, recordType domain.RecordType, filter domain.ReportFilter) ([]domain.ExportRow, error) {
	cols, err := columnsFor(recordType)
	if err != nil {
		return nil, err
	}
	selects, err := exportSelects(recordType)
	if err != nil {
		return nil, err
	}
	var w whereBuilder
	recordConditions(&w, "r", cols, filter)
	query := selects + w.clause() + ` ORDER BY r.` + cols.dateColumn + `, r.` + cols.noColumn

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query export rows: %w", mapPgError(err))
	}
	defer rows.Close()

	out := []domain.ExportRow{}
	for rows.Next() {
		row := domain.ExportRow{RecordType: recordType}
		var status string
		if err := rows.Scan(&row.Identifier, &row.BranchCode, &row.Date, &row.Party, &row.Head, &row.Description,
			&row.Amount, &row.CurrencyCode, &row.PaymentMethod, &status, &row.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", mapPgError(err))
		}
		row.Status = domain.RecordStatus(status)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export rows: %w", mapPgError(err))
	}
	return out, nil
}
