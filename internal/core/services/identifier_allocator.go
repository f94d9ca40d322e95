package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/SscSPs/branch_finance_admin/internal/platform/metrics"
	"github.com/jackc/pgx/v5"
)

// IdentifierAllocator hands out receipt numbers, voucher numbers and entity codes from
// per-scope counters. Every call must run inside the transaction that persists the row being
// numbered: the counter row stays locked until that transaction ends, so concurrent callers on
// one scope queue behind each other and a rollback returns the number.
type IdentifierAllocator struct {
	BaseService
	seqRepo  portsrepo.SequenceRepository
	location *time.Location
	metrics  *metrics.Metrics
}

// AllocatorOption configures an IdentifierAllocator.
type AllocatorOption func(*IdentifierAllocator)

// WithAllocatorClock overrides the clock used to pick the sequence year.
func WithAllocatorClock(now func() time.Time) AllocatorOption {
	return func(a *IdentifierAllocator) {
		a.Now = now
	}
}

// WithAllocatorLocation sets the time zone in which the calendar year is evaluated.
func WithAllocatorLocation(loc *time.Location) AllocatorOption {
	return func(a *IdentifierAllocator) {
		if loc != nil {
			a.location = loc
		}
	}
}

// WithAllocatorMetrics counts allocations.
func WithAllocatorMetrics(m *metrics.Metrics) AllocatorOption {
	return func(a *IdentifierAllocator) {
		a.metrics = m
	}
}

// NewIdentifierAllocator creates an allocator backed by seqRepo.
func NewIdentifierAllocator(seqRepo portsrepo.SequenceRepository, opts ...AllocatorOption) *IdentifierAllocator {
	a := &IdentifierAllocator{
		BaseService: BaseService{Now: time.Now},
		seqRepo:     seqRepo,
		location:    time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func recordScope(recordType domain.RecordType, branchCode string, year int) string {
	return fmt.Sprintf("%s:%s:%d", recordType, branchCode, year)
}

func entityScope(kind domain.EntityKind, spec domain.EntityCodeSpec, branchCode string) string {
	if spec.BranchScoped {
		return fmt.Sprintf("%s:%s", kind, branchCode)
	}
	return string(kind)
}

// NextRecordIdentifier returns the next {branch}-{prefix}-{year}-{NNNNNN} identifier for
// recordType in branchCode. The first allocation of a scope continues after the greatest
// identifier already stored for that branch and year, so a fresh year starts at 000001.
func (a *IdentifierAllocator) NextRecordIdentifier(ctx context.Context, tx pgx.Tx, recordType domain.RecordType, branchCode string) (string, error) {
	return a.nextRecordIdentifier(ctx, tx, recordType, branchCode, false)
}

// ResyncRecordIdentifier behaves like NextRecordIdentifier but first lifts the counter past the
// greatest identifier already stored. Callers use it after an insert collided with an existing
// identifier, which only happens when the counter was edited by hand.
func (a *IdentifierAllocator) ResyncRecordIdentifier(ctx context.Context, tx pgx.Tx, recordType domain.RecordType, branchCode string) (string, error) {
	return a.nextRecordIdentifier(ctx, tx, recordType, branchCode, true)
}

func (a *IdentifierAllocator) nextRecordIdentifier(ctx context.Context, tx pgx.Tx, recordType domain.RecordType, branchCode string, resync bool) (string, error) {
	prefix, err := recordType.Prefix()
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !domain.IsValidBranchCode(branchCode) {
		return "", apperrors.NewValidationFailedError(fmt.Sprintf("invalid branch code %q", branchCode))
	}

	now := a.now().In(a.location)
	year := now.Year()
	scope := recordScope(recordType, branchCode, year)

	_, found, err := a.seqRepo.CurrentValue(ctx, tx, scope)
	if err != nil {
		return "", fmt.Errorf("failed to read sequence %s: %w", scope, err)
	}

	var seed int64
	if !found || resync {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, a.location)
		to := from.AddDate(1, 0, 0)
		latest, ok, err := a.seqRepo.LatestRecordIdentifier(ctx, tx, recordType, branchCode, from, to)
		if err != nil {
			return "", fmt.Errorf("failed to find latest %s identifier: %w", recordType, err)
		}
		if ok {
			if seq, parsed := domain.SequenceAfterPrefix(latest, prefix); parsed {
				seed = seq
			} else {
				a.LogInfo(ctx, "Latest identifier is not parseable, sequence restarts at 1",
					slog.String("identifier", latest), slog.String("scope", scope))
			}
		}
	}

	seq, err := a.seqRepo.NextValue(ctx, tx, scope, seed)
	if err != nil {
		return "", fmt.Errorf("failed to advance sequence %s: %w", scope, err)
	}
	if seq > domain.MaxSequence {
		return "", fmt.Errorf("%w: %s sequence for branch %s exhausted in %d", apperrors.ErrConflict, recordType.IdentifierLabel(), branchCode, year)
	}

	a.metrics.IdentifierAllocated(string(recordType))
	return domain.FormatRecordIdentifier(branchCode, prefix, year, seq), nil
}

// NextEntityCode returns the next short code for kind, such as SUP0007 or 01-AST0012. Codes are
// never reused, even after the row holding one is deleted.
func (a *IdentifierAllocator) NextEntityCode(ctx context.Context, tx pgx.Tx, kind domain.EntityKind, branchCode string) (string, error) {
	spec, err := kind.CodeSpec()
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if spec.BranchScoped && !domain.IsValidBranchCode(branchCode) {
		return "", apperrors.NewValidationFailedError(fmt.Sprintf("invalid branch code %q", branchCode))
	}
	scope := entityScope(kind, spec, branchCode)

	_, found, err := a.seqRepo.CurrentValue(ctx, tx, scope)
	if err != nil {
		return "", fmt.Errorf("failed to read sequence %s: %w", scope, err)
	}
	var seed int64
	if !found {
		seed, err = a.seqRepo.CountEntities(ctx, tx, kind, branchCode)
		if err != nil {
			return "", fmt.Errorf("failed to count existing %s rows: %w", kind, err)
		}
	}

	n, err := a.seqRepo.NextValue(ctx, tx, scope, seed)
	if err != nil {
		return "", fmt.Errorf("failed to advance sequence %s: %w", scope, err)
	}
	a.metrics.IdentifierAllocated(string(kind))
	return domain.FormatEntityCode(spec, branchCode, n), nil
}
