package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type budgetService struct {
	BaseService
	perms      portssvc.PermissionSvc
	audit      *AuditRecorder
	budgetRepo portsrepo.BudgetRepositoryFacade
	refRepo    portsrepo.ReferenceRepositoryFacade
}

// NewBudgetService creates the budget service.
func NewBudgetService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc, audit *AuditRecorder) portssvc.BudgetSvcFacade {
	return &budgetService{
		BaseService: newBaseService(repos.TxManager),
		perms:       perms,
		audit:       audit,
		budgetRepo:  repos.BudgetRepo,
		refRepo:     repos.ReferenceRepo,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, p domain.Principal, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	if err := s.perms.Authorize(p, domain.ModuleBudgets, domain.ActionCreate); err != nil {
		return nil, err
	}
	branch, err := s.perms.ResolveBranch(p, domain.ModuleBudgets, domain.ActionCreate, req.BranchCode)
	if err != nil {
		return nil, err
	}
	if err := requirePositive(req.Amount, "budget amount"); err != nil {
		return nil, err
	}
	head, err := s.refRepo.FindHeadByID(ctx, req.ExpenditureHeadID)
	if err != nil {
		return nil, referenceError(err, "expenditure head does not exist")
	}
	if head.Kind != domain.HeadExpenditure {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("head %s is not an expenditure head", head.Code))
	}
	if _, err := s.refRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		return nil, referenceError(err, fmt.Sprintf("currency %s does not exist", req.CurrencyCode))
	}

	budget := domain.Budget{
		BudgetID:          uuid.NewString(),
		BranchCode:        branch,
		ExpenditureHeadID: head.HeadID,
		Year:              req.Year,
		Amount:            req.Amount,
		CurrencyCode:      req.CurrencyCode,
		Spent:             decimal.Zero,
		AuditFields:       domain.NewAuditFields(p.ActorID, s.now()),
	}
	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.budgetRepo.SaveBudget(ctx, tx, budget); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "budgets", budget.BudgetID, nil, budget)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create budget for %s %d: %w", head.Code, req.Year, err)
	}
	return &budget, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, p domain.Principal, params dto.ListBudgetsParams) ([]domain.Budget, error) {
	if err := s.perms.Authorize(p, domain.ModuleBudgets, domain.ActionRead); err != nil {
		return nil, err
	}
	filter := portsrepo.BudgetFilter{
		BranchCode: s.perms.NarrowBranchFilter(p, domain.ModuleBudgets, domain.ActionRead, params.BranchCode),
	}
	if params.Year != 0 {
		year := params.Year
		filter.Year = &year
	}
	if params.HeadID != "" {
		head := params.HeadID
		filter.HeadID = &head
	}
	budgets, err := s.budgetRepo.ListBudgets(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, p domain.Principal, budgetID string) error {
	if err := s.perms.Authorize(p, domain.ModuleBudgets, domain.ActionDelete); err != nil {
		return err
	}
	existing, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return err
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleBudgets, domain.ActionDelete, existing.BranchCode) {
		return apperrors.NewNotFoundError("budget")
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.budgetRepo.DeleteBudget(ctx, tx, budgetID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditDelete, "budgets", budgetID, existing, nil)
	})
}
