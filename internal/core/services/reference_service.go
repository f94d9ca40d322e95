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
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// referenceService manages the lookup tables shared by every branch.
type referenceService struct {
	BaseService
	perms     portssvc.PermissionSvc
	audit     *AuditRecorder
	refRepo   portsrepo.ReferenceRepositoryFacade
	allocator *IdentifierAllocator
}

// NewReferenceService creates the service for currencies, payment methods and account heads.
func NewReferenceService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc, audit *AuditRecorder, allocator *IdentifierAllocator) portssvc.ReferenceSvcFacade {
	return &referenceService{
		BaseService: newBaseService(repos.TxManager),
		perms:       perms,
		audit:       audit,
		refRepo:     repos.ReferenceRepo,
		allocator:   allocator,
	}
}

var _ portssvc.ReferenceSvcFacade = (*referenceService)(nil)

func (s *referenceService) CreateCurrency(ctx context.Context, p domain.Principal, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	if err := s.perms.Authorize(p, domain.ModuleCurrencies, domain.ActionCreate); err != nil {
		return nil, err
	}
	currency := domain.Currency{
		CurrencyCode: strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		AuditFields:  domain.NewAuditFields(p.ActorID, s.now()),
	}
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.refRepo.SaveCurrency(ctx, tx, currency); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "currencies", currency.CurrencyCode, nil, currency)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create currency %s: %w", currency.CurrencyCode, err)
	}
	return &currency, nil
}

func (s *referenceService) ListCurrencies(ctx context.Context, p domain.Principal) ([]domain.Currency, error) {
	if err := s.perms.Authorize(p, domain.ModuleCurrencies, domain.ActionRead); err != nil {
		return nil, err
	}
	currencies, err := s.refRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}

func (s *referenceService) CreatePaymentMethod(ctx context.Context, p domain.Principal, req dto.CreatePaymentMethodRequest) (*domain.PaymentMethod, error) {
	if err := s.perms.Authorize(p, domain.ModulePaymentMethods, domain.ActionCreate); err != nil {
		return nil, err
	}
	method := domain.PaymentMethod{
		PaymentMethodID: uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(p.ActorID, s.now()),
	}
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.refRepo.SavePaymentMethod(ctx, tx, method); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "payment_methods", method.PaymentMethodID, nil, method)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment method %q: %w", method.Name, err)
	}
	return &method, nil
}

func (s *referenceService) ListPaymentMethods(ctx context.Context, p domain.Principal) ([]domain.PaymentMethod, error) {
	if err := s.perms.Authorize(p, domain.ModulePaymentMethods, domain.ActionRead); err != nil {
		return nil, err
	}
	methods, err := s.refRepo.ListPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// CreateHead allocates the next RH or EH code in the inserting transaction.
func (s *referenceService) CreateHead(ctx context.Context, p domain.Principal, req dto.CreateHeadRequest) (*domain.AccountHead, error) {
	if err := s.perms.Authorize(p, domain.ModuleHeads, domain.ActionCreate); err != nil {
		return nil, err
	}
	if req.Kind != domain.HeadRevenue && req.Kind != domain.HeadExpenditure {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown head kind %q", req.Kind))
	}
	head := domain.AccountHead{
		HeadID:      uuid.NewString(),
		Kind:        req.Kind,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(p.ActorID, s.now()),
	}
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		code, err := s.allocator.NextEntityCode(ctx, tx, head.Kind.EntityKind(), "")
		if err != nil {
			return err
		}
		head.Code = code
		if err := s.refRepo.SaveHead(ctx, tx, head); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "account_heads", head.HeadID, nil, head)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s head: %w", strings.ToLower(string(req.Kind)), err)
	}
	s.LogInfo(ctx, "Account head created", slog.String("head_id", head.HeadID), slog.String("code", head.Code))
	return &head, nil
}

func (s *referenceService) GetHead(ctx context.Context, p domain.Principal, headID string) (*domain.AccountHead, error) {
	if err := s.perms.Authorize(p, domain.ModuleHeads, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.refRepo.FindHeadByID(ctx, headID)
}

func (s *referenceService) ListHeads(ctx context.Context, p domain.Principal, params dto.ListHeadsParams) ([]domain.AccountHead, error) {
	if err := s.perms.Authorize(p, domain.ModuleHeads, domain.ActionRead); err != nil {
		return nil, err
	}
	var kind *domain.HeadKind
	if params.Kind != "" {
		k := domain.HeadKind(params.Kind)
		kind = &k
	}
	heads, err := s.refRepo.ListHeads(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list heads: %w", err)
	}
	return heads, nil
}

func (s *referenceService) UpdateHead(ctx context.Context, p domain.Principal, headID string, req dto.UpdateHeadRequest) (*domain.AccountHead, error) {
	if err := s.perms.Authorize(p, domain.ModuleHeads, domain.ActionUpdate); err != nil {
		return nil, err
	}
	existing, err := s.refRepo.FindHeadByID(ctx, headID)
	if err != nil {
		return nil, err
	}
	updated := *existing
	setString(&updated.Name, req.Name)
	setString(&updated.Description, req.Description)
	setBool(&updated.IsActive, req.IsActive)
	updated.Touch(p.ActorID, s.now())

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.refRepo.UpdateHead(ctx, tx, updated); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUpdate, "account_heads", headID, existing, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update head %s: %w", headID, err)
	}
	return &updated, nil
}

func (s *referenceService) DeleteHead(ctx context.Context, p domain.Principal, headID string) error {
	if err := s.perms.Authorize(p, domain.ModuleHeads, domain.ActionDelete); err != nil {
		return err
	}
	existing, err := s.refRepo.FindHeadByID(ctx, headID)
	if err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		n, err := s.refRepo.CountHeadUsage(ctx, tx, headID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("head %s is referenced by %d record(s) or budget(s); deactivate it instead", existing.Code, n))
		}
		if err := s.refRepo.DeleteHead(ctx, tx, headID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditDelete, "account_heads", headID, existing, nil)
	})
}
