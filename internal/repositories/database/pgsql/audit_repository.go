package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditRepository is append-only: there is no update or delete.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

const auditColumns = `entry_id, actor_id, actor_username, action, target_table, target_id, before_data, after_data,
	ip_address, user_agent, request_id, occurred_at`

func (r *PgxAuditRepository) AppendAuditEntry(ctx context.Context, tx pgx.Tx, e domain.AuditEntry) error {
	query := `INSERT INTO audit_logs (` + auditColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.conn(tx).Exec(ctx, query, e.EntryID, e.ActorID, e.ActorUsername, string(e.Action), e.TargetTable,
		e.TargetID, nullableJSON(e.Before), nullableJSON(e.After), e.IPAddress, e.UserAgent, e.RequestID, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", mapPgError(err))
	}
	return nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *PgxAuditRepository) ListAuditEntries(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	var w whereBuilder
	if filter.TargetTable != nil {
		w.add("target_table = ?", *filter.TargetTable)
	}
	if filter.TargetID != nil {
		w.add("target_id = ?", *filter.TargetID)
	}
	if filter.ActorID != nil {
		w.add("actor_id = ?", *filter.ActorID)
	}
	if filter.From != nil {
		w.add("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("occurred_at < ?", *filter.To)
	}
	query := `SELECT ` + auditColumns + ` FROM audit_logs` + w.clause() +
		` ORDER BY entry_id DESC LIMIT ` + w.arg(normaliseLimit(filter.Limit, 50, 500)) + ` OFFSET ` + w.arg(max(filter.Offset, 0))

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", mapPgError(err))
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var (
			e             domain.AuditEntry
			action        string
			before, after []byte
		)
		if err := rows.Scan(&e.EntryID, &e.ActorID, &e.ActorUsername, &action, &e.TargetTable, &e.TargetID,
			&before, &after, &e.IPAddress, &e.UserAgent, &e.RequestID, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", mapPgError(err))
		}
		e.Action = domain.AuditAction(action)
		e.Before, e.After = before, after
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", mapPgError(err))
	}
	return entries, nil
}
