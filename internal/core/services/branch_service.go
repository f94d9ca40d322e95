package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/jackc/pgx/v5"
)

type branchService struct {
	BaseService
	perms      portssvc.PermissionSvc
	audit      *AuditRecorder
	branchRepo portsrepo.BranchRepositoryFacade
}

// NewBranchService creates the branch service.
func NewBranchService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc, audit *AuditRecorder) portssvc.BranchSvcFacade {
	return &branchService{
		BaseService: newBaseService(repos.TxManager),
		perms:       perms,
		audit:       audit,
		branchRepo:  repos.BranchRepo,
	}
}

var _ portssvc.BranchSvcFacade = (*branchService)(nil)

func (s *branchService) CreateBranch(ctx context.Context, p domain.Principal, req dto.CreateBranchRequest) (*domain.Branch, error) {
	if err := s.perms.Authorize(p, domain.ModuleBranches, domain.ActionCreate); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !domain.IsValidBranchCode(code) {
		return nil, apperrors.NewValidationFailedError("branch code must be two upper case letters or digits")
	}

	branch := domain.Branch{
		Code:        code,
		Name:        strings.TrimSpace(req.Name),
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       optionalString(req.Email),
		IsActive:    true,
		AuditFields: domain.NewAuditFields(p.ActorID, s.now()),
	}
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.branchRepo.SaveBranch(ctx, tx, branch); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "branches", branch.Code, nil, branch)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create branch", slog.String("branch_code", code))
		return nil, fmt.Errorf("failed to create branch %s: %w", code, err)
	}
	s.LogInfo(ctx, "Branch created", slog.String("branch_code", code))
	return &branch, nil
}

func (s *branchService) GetBranch(ctx context.Context, p domain.Principal, code string) (*domain.Branch, error) {
	if err := s.perms.Authorize(p, domain.ModuleBranches, domain.ActionRead); err != nil {
		return nil, err
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleBranches, domain.ActionRead, code) {
		return nil, apperrors.NewNotFoundError("branch")
	}
	return s.branchRepo.FindBranchByCode(ctx, code)
}

func (s *branchService) ListBranches(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Branch, error) {
	if err := s.perms.Authorize(p, domain.ModuleBranches, domain.ActionRead); err != nil {
		return nil, err
	}
	branches, err := s.branchRepo.ListBranches(ctx, scopedListFilter(s.perms, p, domain.ModuleBranches, params))
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

func (s *branchService) UpdateBranch(ctx context.Context, p domain.Principal, code string, req dto.UpdateBranchRequest) (*domain.Branch, error) {
	if err := s.perms.Authorize(p, domain.ModuleBranches, domain.ActionUpdate); err != nil {
		return nil, err
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleBranches, domain.ActionUpdate, code) {
		return nil, apperrors.NewNotFoundError("branch")
	}
	existing, err := s.branchRepo.FindBranchByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	before := *existing
	updated := *existing
	setString(&updated.Name, req.Name)
	setString(&updated.Address, req.Address)
	setString(&updated.Phone, req.Phone)
	if req.Email != nil {
		updated.Email = optionalString(req.Email)
	}
	setBool(&updated.IsActive, req.IsActive)
	updated.Touch(p.ActorID, s.now())

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.branchRepo.UpdateBranch(ctx, tx, updated); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUpdate, "branches", code, before, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update branch %s: %w", code, err)
	}
	return &updated, nil
}

// DeleteBranch removes a branch that nothing references any more. The dependent count runs in
// the deleting transaction so a row added concurrently still blocks through the foreign keys.
func (s *branchService) DeleteBranch(ctx context.Context, p domain.Principal, code string) error {
	if err := s.perms.Authorize(p, domain.ModuleBranches, domain.ActionDelete); err != nil {
		return err
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleBranches, domain.ActionDelete, code) {
		return apperrors.NewNotFoundError("branch")
	}
	existing, err := s.branchRepo.FindBranchByCode(ctx, code)
	if err != nil {
		return err
	}

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		deps, err := s.branchRepo.CountBranchDependents(ctx, tx, code)
		if err != nil {
			return err
		}
		if deps.Total() > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("branch %s cannot be deleted while it has dependents: %s", code, describeDependents(deps)))
		}
		if err := s.branchRepo.DeleteBranch(ctx, tx, code); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditDelete, "branches", code, existing, nil)
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Branch deleted", slog.String("branch_code", code))
	return nil
}
