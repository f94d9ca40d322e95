package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
)

type auditService struct {
	perms     portssvc.PermissionSvc
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates the read side of the audit trail.
func NewAuditService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc) portssvc.AuditSvc {
	return &auditService{perms: perms, auditRepo: repos.AuditRepo}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

func (s *auditService) ListAuditEntries(ctx context.Context, p domain.Principal, params dto.ListAuditParams) ([]domain.AuditEntry, error) {
	if err := s.perms.Authorize(p, domain.ModuleAudit, domain.ActionRead); err != nil {
		return nil, err
	}
	filter := domain.AuditFilter{
		TargetTable: nonEmpty(params.TargetTable),
		TargetID:    nonEmpty(params.TargetID),
		ActorID:     nonEmpty(params.ActorID),
		From:        params.From,
		Limit:       params.Limit,
		Offset:      params.Offset,
	}
	if params.To != nil {
		// The upper bound is a calendar day; include all of it.
		to := params.To.AddDate(0, 0, 1)
		filter.To = &to
	}
	entries, err := s.auditRepo.ListAuditEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
