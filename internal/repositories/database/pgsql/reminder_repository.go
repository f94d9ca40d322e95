package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReminderRepository struct {
	BaseRepository
}

func newPgxReminderRepository(pool *pgxpool.Pool) portsrepo.ReminderRepository {
	return &PgxReminderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReminderRepository = (*PgxReminderRepository)(nil)

// ListContractsEndingBetween returns active contracts ending in [from, to] that have not been
// reminded since remindedBefore.
func (r *PgxReminderRepository) ListContractsEndingBetween(ctx context.Context, from, to, remindedBefore time.Time) ([]domain.ContractReminder, error) {
	query := `
		SELECT c.contract_id, c.code, c.title, c.branch_code, b.email, s.name, s.email, c.end_date
		FROM contracts c
		JOIN branches b ON b.code = c.branch_code
		JOIN suppliers s ON s.supplier_id = c.supplier_id
		WHERE c.is_active
			AND c.end_date >= $1 AND c.end_date <= $2
			AND (c.reminded_at IS NULL OR c.reminded_at < $3)
		ORDER BY c.end_date, c.code;
	`
	rows, err := r.Pool.Query(ctx, query, from, to, remindedBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring contracts: %w", mapPgError(err))
	}
	defer rows.Close()

	reminders := []domain.ContractReminder{}
	for rows.Next() {
		var c domain.ContractReminder
		if err := rows.Scan(&c.ContractID, &c.Code, &c.Title, &c.BranchCode, &c.BranchEmail,
			&c.SupplierName, &c.SupplierEmail, &c.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan contract reminder row: %w", mapPgError(err))
		}
		reminders = append(reminders, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contract reminder rows: %w", mapPgError(err))
	}
	return reminders, nil
}

func (r *PgxReminderRepository) MarkContractReminded(ctx context.Context, contractID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE contracts SET reminded_at = $2 WHERE contract_id = $1`, contractID, at)
	if err != nil {
		return fmt.Errorf("failed to mark contract %s reminded: %w", contractID, mapPgError(err))
	}
	return expectAffected(tag, "contract")
}
