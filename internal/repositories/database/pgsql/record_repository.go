package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRecordRepository stores contributions, transactions and expenditures.
type PgxRecordRepository struct {
	BaseRepository
}

func newPgxRecordRepository(pool *pgxpool.Pool) portsrepo.RecordRepositoryFacade {
	return &PgxRecordRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecordRepositoryFacade = (*PgxRecordRepository)(nil)

const contributionColumns = `contribution_id, receipt_no, branch_code, member_id, project_id, amount, currency_code,
	payment_method_id, contribution_date, status, notes, created_at, created_by, last_updated_at, last_updated_by`

const transactionColumns = `transaction_id, receipt_no, branch_code, revenue_head_id, payer_name, description, amount,
	currency_code, payment_method_id, transaction_date, status, refund_reason,
	created_at, created_by, last_updated_at, last_updated_by`

const expenditureColumns = `expenditure_id, voucher_no, branch_code, expenditure_head_id, supplier_id, description, amount,
	currency_code, payment_method_id, expenditure_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanContribution(row pgx.Row) (*domain.Contribution, error) {
	var c domain.Contribution
	if err := row.Scan(&c.ContributionID, &c.ReceiptNo, &c.BranchCode, &c.MemberID, &c.ProjectID, &c.Amount,
		&c.CurrencyCode, &c.PaymentMethodID, &c.ContributionDate, &c.Status, &c.Notes,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := row.Scan(&t.TransactionID, &t.ReceiptNo, &t.BranchCode, &t.RevenueHeadID, &t.PayerName, &t.Description,
		&t.Amount, &t.CurrencyCode, &t.PaymentMethodID, &t.TransactionDate, &t.Status, &t.RefundReason,
		&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanExpenditure(row pgx.Row) (*domain.Expenditure, error) {
	var e domain.Expenditure
	if err := row.Scan(&e.ExpenditureID, &e.VoucherNo, &e.BranchCode, &e.ExpenditureHeadID, &e.SupplierID,
		&e.Description, &e.Amount, &e.CurrencyCode, &e.PaymentMethodID, &e.ExpenditureDate, &e.Status,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &e, nil
}

// findQuery builds a by-id lookup, narrowed to branchScope when it is set.
func findQuery(columns string, cols recordColumns, id string, branchScope *string) (string, []any) {
	var w whereBuilder
	w.add(cols.idColumn+" = ?", id)
	if branchScope != nil {
		w.add("branch_code = ?", *branchScope)
	}
	return `SELECT ` + columns + ` FROM ` + cols.table + w.clause(), w.args
}

// listQuery builds a filtered, keyset paginated listing ordered newest first.
func listQuery(columns string, cols recordColumns, filter domain.RecordFilter) (string, []any) {
	var w whereBuilder
	if filter.BranchCode != nil {
		w.add("branch_code = ?", *filter.BranchCode)
	}
	if filter.Status != nil {
		w.add("status = ?", string(*filter.Status))
	}
	if filter.From != nil {
		w.add(cols.dateColumn+" >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add(cols.dateColumn+" <= ?", *filter.To)
	}
	if filter.AfterDate != nil && filter.AfterCreatedAt != nil {
		w.add("("+cols.dateColumn+", created_at) < (?, ?)", *filter.AfterDate, *filter.AfterCreatedAt)
	}
	switch cols.table {
	case "contributions":
		if filter.MemberID != nil {
			w.add("member_id = ?", *filter.MemberID)
		}
		if filter.ProjectID != nil {
			w.add("project_id = ?", *filter.ProjectID)
		}
	case "transactions":
		if filter.HeadID != nil {
			w.add("revenue_head_id = ?", *filter.HeadID)
		}
	case "expenditures":
		if filter.HeadID != nil {
			w.add("expenditure_head_id = ?", *filter.HeadID)
		}
	}
	query := `SELECT ` + columns + ` FROM ` + cols.table + w.clause() +
		` ORDER BY ` + cols.dateColumn + ` DESC, created_at DESC LIMIT ` + w.arg(normaliseLimit(filter.Limit, 20, 201))
	return query, w.args
}

func (r *PgxRecordRepository) FindContributionByID(ctx context.Context, id string, branchScope *string) (*domain.Contribution, error) {
	cols, _ := columnsFor(domain.RecordContribution)
	query, args := findQuery(contributionColumns, cols, id, branchScope)
	c, err := scanContribution(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to find contribution %s: %w", id, mapPgError(err))
	}
	return c, nil
}

func (r *PgxRecordRepository) ListContributions(ctx context.Context, filter domain.RecordFilter) ([]domain.Contribution, error) {
	cols, _ := columnsFor(domain.RecordContribution)
	query, args := listQuery(contributionColumns, cols, filter)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", mapPgError(err))
	}
	defer rows.Close()

	out := []domain.Contribution{}
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution row: %w", mapPgError(err))
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contribution rows: %w", mapPgError(err))
	}
	return out, nil
}

func (r *PgxRecordRepository) FindTransactionByID(ctx context.Context, id string, branchScope *string) (*domain.Transaction, error) {
	cols, _ := columnsFor(domain.RecordTransaction)
	query, args := findQuery(transactionColumns, cols, id, branchScope)
	t, err := scanTransaction(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", id, mapPgError(err))
	}
	return t, nil
}

func (r *PgxRecordRepository) ListTransactions(ctx context.Context, filter domain.RecordFilter) ([]domain.Transaction, error) {
	cols, _ := columnsFor(domain.RecordTransaction)
	query, args := listQuery(transactionColumns, cols, filter)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", mapPgError(err))
	}
	defer rows.Close()

	out := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", mapPgError(err))
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", mapPgError(err))
	}
	return out, nil
}

func (r *PgxRecordRepository) FindExpenditureByID(ctx context.Context, id string, branchScope *string) (*domain.Expenditure, error) {
	cols, _ := columnsFor(domain.RecordExpenditure)
	query, args := findQuery(expenditureColumns, cols, id, branchScope)
	e, err := scanExpenditure(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to find expenditure %s: %w", id, mapPgError(err))
	}
	return e, nil
}

func (r *PgxRecordRepository) ListExpenditures(ctx context.Context, filter domain.RecordFilter) ([]domain.Expenditure, error) {
	cols, _ := columnsFor(domain.RecordExpenditure)
	query, args := listQuery(expenditureColumns, cols, filter)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenditures: %w", mapPgError(err))
	}
	defer rows.Close()

	out := []domain.Expenditure{}
	for rows.Next() {
		e, err := scanExpenditure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expenditure row: %w", mapPgError(err))
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenditure rows: %w", mapPgError(err))
	}
	return out, nil
}

func (r *PgxRecordRepository) SaveContribution(ctx context.Context, tx pgx.Tx, c domain.Contribution) error {
	query := `INSERT INTO contributions (` + contributionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.conn(tx).Exec(ctx, query, c.ContributionID, c.ReceiptNo, c.BranchCode, c.MemberID, c.ProjectID,
		c.Amount, c.CurrencyCode, c.PaymentMethodID, c.ContributionDate, c.Status, c.Notes,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save contribution %s: %w", c.ReceiptNo, mapPgError(err))
	}
	return nil
}

func (r *PgxRecordRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, t domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := r.conn(tx).Exec(ctx, query, t.TransactionID, t.ReceiptNo, t.BranchCode, t.RevenueHeadID, t.PayerName,
		t.Description, t.Amount, t.CurrencyCode, t.PaymentMethodID, t.TransactionDate, t.Status, t.RefundReason,
		t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", t.ReceiptNo, mapPgError(err))
	}
	return nil
}

func (r *PgxRecordRepository) SaveExpenditure(ctx context.Context, tx pgx.Tx, e domain.Expenditure) error {
	query := `INSERT INTO expenditures (` + expenditureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.conn(tx).Exec(ctx, query, e.ExpenditureID, e.VoucherNo, e.BranchCode, e.ExpenditureHeadID, e.SupplierID,
		e.Description, e.Amount, e.CurrencyCode, e.PaymentMethodID, e.ExpenditureDate, e.Status,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save expenditure %s: %w", e.VoucherNo, mapPgError(err))
	}
	return nil
}

// UpdateRecordStatus moves a record from one status to another. It reports a conflict when
// the record is no longer in the expected status.
func (r *PgxRecordRepository) UpdateRecordStatus(ctx context.Context, tx pgx.Tx, recordType domain.RecordType, id string, from, to domain.RecordStatus, reason *string, by string, at time.Time) error {
	cols, err := columnsFor(recordType)
	if err != nil {
		return err
	}

	var w whereBuilder
	set := `status = ` + w.arg(string(to)) + `, last_updated_at = ` + w.arg(at) + `, last_updated_by = ` + w.arg(by)
	if recordType == domain.RecordTransaction {
		set += `, refund_reason = ` + w.arg(reason)
	}
	w.add(cols.idColumn+" = ?", id)
	w.add("status = ?", string(from))

	tag, err := r.conn(tx).Exec(ctx, `UPDATE `+cols.table+` SET `+set+w.clause(), w.args...)
	if err != nil {
		return fmt.Errorf("failed to update %s status: %w", recordType, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s is not %s", apperrors.ErrConflict, recordType, id, from)
	}
	return nil
}
