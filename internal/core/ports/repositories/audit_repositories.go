package repositories

import (
	"context"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuditRepositoryFacade is the append-only audit trail. It has no update or delete.
type AuditRepositoryFacade interface {
	AppendAuditEntry(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error
	ListAuditEntries(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
}
