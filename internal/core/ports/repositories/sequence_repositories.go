package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SequenceRepository backs the identifier allocator. All methods must run inside the
// transaction that will persist the record receiving the identifier.
type SequenceRepository interface {
	// CurrentValue returns the last value handed out for scope; found is false when the scope
	// has never been used.
	CurrentValue(ctx context.Context, tx pgx.Tx, scope string) (value int64, found bool, err error)

	// NextValue atomically advances the counter for scope to max(current, seed)+1 and returns the
	// new value. A missing row is created holding seed+1. The counter row stays locked until tx ends.
	NextValue(ctx context.Context, tx pgx.Tx, scope string, seed int64) (int64, error)

	// LatestRecordIdentifier returns the greatest identifier of recordType for branchCode whose
	// record date falls in [from, to).
	LatestRecordIdentifier(ctx context.Context, tx pgx.Tx, recordType domain.RecordType, branchCode string, from, to time.Time) (string, bool, error)

	// CountEntities counts existing rows of kind, restricted to branchCode when the kind is branch scoped.
	CountEntities(ctx context.Context, tx pgx.Tx, kind domain.EntityKind, branchCode string) (int64, error)
}
