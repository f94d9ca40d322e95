package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/SscSPs/branch_finance_admin/internal/middleware"
	"github.com/SscSPs/branch_finance_admin/internal/utils/ids"
	"github.com/jackc/pgx/v5"
)

// AuditRecorder appends audit entries inside the caller's transaction, so a change and its
// audit row commit or roll back together.
type AuditRecorder struct {
	repo portsrepo.AuditRepositoryFacade
	ids  *ids.Generator
	now  func() time.Time
}

// NewAuditRecorder creates a recorder writing to repo.
func NewAuditRecorder(repo portsrepo.AuditRepositoryFacade, gen *ids.Generator) *AuditRecorder {
	if gen == nil {
		gen = ids.NewGenerator()
	}
	return &AuditRecorder{repo: repo, ids: gen, now: time.Now}
}

// Record appends one entry. before and after are marshalled to JSON; nil values are stored as NULL.
func (a *AuditRecorder) Record(ctx context.Context, tx pgx.Tx, p domain.Principal, action domain.AuditAction, table, targetID string, before, after any) error {
	occurredAt := a.now().UTC()
	entryID, err := a.ids.New(occurredAt)
	if err != nil {
		return fmt.Errorf("failed to generate audit entry id: %w", err)
	}
	beforeJSON, err := marshalAuditState(before)
	if err != nil {
		return err
	}
	afterJSON, err := marshalAuditState(after)
	if err != nil {
		return err
	}

	meta := middleware.GetRequestMetaFromCtx(ctx)
	entry := domain.AuditEntry{
		EntryID:       entryID,
		ActorID:       p.ActorID,
		ActorUsername: p.Username,
		Action:        action,
		TargetTable:   table,
		TargetID:      targetID,
		Before:        beforeJSON,
		After:         afterJSON,
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		RequestID:     meta.RequestID,
		OccurredAt:    occurredAt,
	}
	if err := a.repo.AppendAuditEntry(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry for %s %s: %w", table, targetID, err)
	}
	return nil
}

func marshalAuditState(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit state: %w", err)
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return raw, nil
}
