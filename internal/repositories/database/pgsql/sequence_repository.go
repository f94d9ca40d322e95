package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// recordColumns names the storage of a record type.
type recordColumns struct {
	table      string
	idColumn   string
	noColumn   string
	dateColumn string
}

func columnsFor(recordType domain.RecordType) (recordColumns, error) {
	switch recordType {
	case domain.RecordContribution:
		return recordColumns{"contributions", "contribution_id", "receipt_no", "contribution_date"}, nil
	case domain.RecordTransaction:
		return recordColumns{"transactions", "transaction_id", "receipt_no", "transaction_date"}, nil
	case domain.RecordExpenditure:
		return recordColumns{"expenditures", "expenditure_id", "voucher_no", "expenditure_date"}, nil
	default:
		return recordColumns{}, fmt.Errorf("unknown record type %q", recordType)
	}
}

// CurrentValue returns the last value handed out for scope.
func (r *PgxSequenceRepository) CurrentValue(ctx context.Context, tx pgx.Tx, scope string) (int64, bool, error) {
	var value int64
	err := r.conn(tx).QueryRow(ctx, `SELECT last_value FROM sequence_counters WHERE scope = $1`, scope).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read sequence %s: %w", scope, mapPgError(err))
	}
	return value, true, nil
}

// NextValue advances the counter for scope past both its current value and seed. A missing row
// is created as seed+1. The row stays locked until tx ends, so concurrent callers serialise.
func (r *PgxSequenceRepository) NextValue(ctx context.Context, tx pgx.Tx, scope string, seed int64) (int64, error) {
	query := `
		INSERT INTO sequence_counters (scope, last_value, updated_at)
		VALUES ($1, $2 + 1, NOW())
		ON CONFLICT (scope) DO UPDATE SET
			last_value = GREATEST(sequence_counters.last_value, $2) + 1,
			updated_at = NOW()
		RETURNING last_value;
	`
	var value int64
	if err := r.conn(tx).QueryRow(ctx, query, scope, seed).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", scope, mapPgError(err))
	}
	return value, nil
}

// LatestRecordIdentifier returns the greatest identifier of recordType in branchCode whose
// record date lies in [from, to).
func (r *PgxSequenceRepository) LatestRecordIdentifier(ctx context.Context, tx pgx.Tx, recordType domain.RecordType, branchCode string, from, to time.Time) (string, bool, error) {
	cols, err := columnsFor(recordType)
	if err != nil {
		return "", false, err
	}
	query := fmt.Sprintf(`
		SELECT %[1]s FROM %[2]s
		WHERE branch_code = $1 AND %[3]s >= $2 AND %[3]s < $3
		ORDER BY %[1]s DESC
		LIMIT 1;
	`, cols.noColumn, cols.table, cols.dateColumn)

	var identifier string
	err = r.conn(tx).QueryRow(ctx, query, branchCode, from, to).Scan(&identifier)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read latest %s: %w", recordType.IdentifierLabel(), mapPgError(err))
	}
	return identifier, true, nil
}

// CountEntities counts existing rows of kind, optionally within a branch.
func (r *PgxSequenceRepository) CountEntities(ctx context.Context, tx pgx.Tx, kind domain.EntityKind, branchCode string) (int64, error) {
	spec, err := kind.CodeSpec()
	if err != nil {
		return 0, err
	}
	var w whereBuilder
	if spec.BranchScoped {
		w.add("branch_code = ?", branchCode)
	}
	if spec.HeadKindValue != "" {
		w.add("kind = ?", spec.HeadKindValue)
	}

	var count int64
	query := "SELECT COUNT(*) FROM " + spec.Table + w.clause()
	if err := r.conn(tx).QueryRow(ctx, query, w.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", kind, mapPgError(err))
	}
	return count, nil
}
