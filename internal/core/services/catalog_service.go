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

type catalogService struct {
	BaseService
	perms       portssvc.PermissionSvc
	audit       *AuditRecorder
	catalogRepo portsrepo.CatalogRepositoryFacade
	refRepo     portsrepo.CurrencyStore
	allocator   *IdentifierAllocator
}

// NewCatalogService creates the service for suppliers, assets and contracts.
func NewCatalogService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc, audit *AuditRecorder, allocator *IdentifierAllocator) portssvc.CatalogSvcFacade {
	return &catalogService{
		BaseService: newBaseService(repos.TxManager),
		perms:       perms,
		audit:       audit,
		catalogRepo: repos.CatalogRepo,
		refRepo:     repos.ReferenceRepo,
		allocator:   allocator,
	}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) checkCurrency(ctx context.Context, code string) error {
	if _, err := s.refRepo.FindCurrencyByCode(ctx, code); err != nil {
		return referenceError(err, fmt.Sprintf("currency %s does not exist", code))
	}
	return nil
}

// activeSupplier loads a supplier that new assets, contracts or expenditures may reference.
func (s *catalogService) activeSupplier(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	supplier, err := s.catalogRepo.FindSupplierByID(ctx, supplierID)
	if err != nil {
		return nil, referenceError(err, "supplier does not exist")
	}
	if !supplier.IsActive {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("supplier %s is not active", supplier.Code))
	}
	return supplier, nil
}

// --- Suppliers ---

func (s *catalogService) CreateSupplier(ctx context.Context, p domain.Principal, req dto.CreateSupplierRequest) (*domain.Supplier, error) {
	if err := s.perms.Authorize(p, domain.ModuleSuppliers, domain.ActionCreate); err != nil {
		return nil, err
	}
	supplier := domain.Supplier{
		SupplierID:    uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         optionalString(req.Email),
		Address:       req.Address,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(p.ActorID, s.now()),
	}
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		code, err := s.allocator.NextEntityCode(ctx, tx, domain.EntitySupplier, "")
		if err != nil {
			return err
		}
		supplier.Code = code
		if err := s.catalogRepo.SaveSupplier(ctx, tx, supplier); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "suppliers", supplier.SupplierID, nil, supplier)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	s.LogInfo(ctx, "Supplier created", slog.String("supplier_id", supplier.SupplierID), slog.String("code", supplier.Code))
	return &supplier, nil
}

func (s *catalogService) GetSupplier(ctx context.Context, p domain.Principal, supplierID string) (*domain.Supplier, error) {
	if err := s.perms.Authorize(p, domain.ModuleSuppliers, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.catalogRepo.FindSupplierByID(ctx, supplierID)
}

// ListSuppliers ignores the branch filter: suppliers are shared by every branch.
func (s *catalogService) ListSuppliers(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Supplier, error) {
	if err := s.perms.Authorize(p, domain.ModuleSuppliers, domain.ActionRead); err != nil {
		return nil, err
	}
	suppliers, err := s.catalogRepo.ListSuppliers(ctx, domain.ListFilter{
		Search: strings.TrimSpace(params.Search),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *catalogService) UpdateSupplier(ctx context.Context, p domain.Principal, supplierID string, req dto.UpdateSupplierRequest) (*domain.Supplier, error) {
	if err := s.perms.Authorize(p, domain.ModuleSuppliers, domain.ActionUpdate); err != nil {
		return nil, err
	}
	existing, err := s.catalogRepo.FindSupplierByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	updated := *existing
	setString(&updated.Name, req.Name)
	setString(&updated.ContactPerson, req.ContactPerson)
	setString(&updated.Phone, req.Phone)
	setString(&updated.Address, req.Address)
	if req.Email != nil {
		updated.Email = optionalString(req.Email)
	}
	setBool(&updated.IsActive, req.IsActive)
	updated.Touch(p.ActorID, s.now())

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.catalogRepo.UpdateSupplier(ctx, tx, updated); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUpdate, "suppliers", supplierID, existing, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update supplier %s: %w", supplierID, err)
	}
	return &updated, nil
}

func (s *catalogService) DeleteSupplier(ctx context.Context, p domain.Principal, supplierID string) error {
	if err := s.perms.Authorize(p, domain.ModuleSuppliers, domain.ActionDelete); err != nil {
		return err
	}
	existing, err := s.catalogRepo.FindSupplierByID(ctx, supplierID)
	if err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		n, err := s.catalogRepo.CountSupplierUsage(ctx, tx, supplierID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("supplier %s is referenced by %d expenditure(s), asset(s) or contract(s); deactivate it instead", existing.Code, n))
		}
		if err := s.catalogRepo.DeleteSupplier(ctx, tx, supplierID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditDelete, "suppliers", supplierID, existing, nil)
	})
}

// --- Assets ---

func (s *catalogService) CreateAsset(ctx context.Context, p domain.Principal, req dto.CreateAssetRequest) (*domain.Asset, error) {
	if err := s.perms.Authorize(p, domain.ModuleAssets, domain.ActionCreate); err != nil {
		return nil, err
	}
	branch, err := s.perms.ResolveBranch(p, domain.ModuleAssets, domain.ActionCreate, req.BranchCode)
	if err != nil {
		return nil, err
	}
	if req.PurchaseValue.IsNegative() {
		return nil, apperrors.NewValidationFailedError("purchase value must not be negative")
	}
	if err := s.checkCurrency(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}
	supplierID := optionalString(req.SupplierID)
	if supplierID != nil {
		if _, err := s.activeSupplier(ctx, *supplierID); err != nil {
			return nil, err
		}
	}

	asset := domain.Asset{
		AssetID:       uuid.NewString(),
		BranchCode:    branch,
		Name:          strings.TrimSpace(req.Name),
		Category:      strings.TrimSpace(req.Category),
		SupplierID:    supplierID,
		PurchaseDate:  req.PurchaseDate,
		PurchaseValue: req.PurchaseValue,
		CurrencyCode:  req.CurrencyCode,
		Condition:     domain.AssetGood,
		AuditFields:   domain.NewAuditFields(p.ActorID, s.now()),
	}
	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		code, err := s.allocator.NextEntityCode(ctx, tx, domain.EntityAsset, branch)
		if err != nil {
			return err
		}
		asset.Code = code
		if err := s.catalogRepo.SaveAsset(ctx, tx, asset); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "assets", asset.AssetID, nil, asset)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return &asset, nil
}

func (s *catalogService) loadAsset(ctx context.Context, p domain.Principal, assetID string, action domain.Action) (*domain.Asset, error) {
	asset, err := s.catalogRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleAssets, action, asset.BranchCode) {
		return nil, apperrors.NewNotFoundError("asset")
	}
	return asset, nil
}

func (s *catalogService) GetAsset(ctx context.Context, p domain.Principal, assetID string) (*domain.Asset, error) {
	if err := s.perms.Authorize(p, domain.ModuleAssets, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.loadAsset(ctx, p, assetID, domain.ActionRead)
}

func (s *catalogService) ListAssets(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Asset, error) {
	if err := s.perms.Authorize(p, domain.ModuleAssets, domain.ActionRead); err != nil {
		return nil, err
	}
	assets, err := s.catalogRepo.ListAssets(ctx, scopedListFilter(s.perms, p, domain.ModuleAssets, params))
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

func (s *catalogService) UpdateAsset(ctx context.Context, p domain.Principal, assetID string, req dto.UpdateAssetRequest) (*domain.Asset, error) {
	if err := s.perms.Authorize(p, domain.ModuleAssets, domain.ActionUpdate); err != nil {
		return nil, err
	}
	existing, err := s.loadAsset(ctx, p, assetID, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	updated := *existing
	setString(&updated.Name, req.Name)
	setString(&updated.Category, req.Category)
	if req.Condition != nil {
		updated.Condition = *req.Condition
	}
	updated.Touch(p.ActorID, s.now())

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.catalogRepo.UpdateAsset(ctx, tx, updated); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUpdate, "assets", assetID, existing, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update asset %s: %w", assetID, err)
	}
	return &updated, nil
}

func (s *catalogService) DeleteAsset(ctx context.Context, p domain.Principal, assetID string) error {
	if err := s.perms.Authorize(p, domain.ModuleAssets, domain.ActionDelete); err != nil {
		return err
	}
	existing, err := s.loadAsset(ctx, p, assetID, domain.ActionDelete)
	if err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.catalogRepo.DeleteAsset(ctx, tx, assetID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditDelete, "assets", assetID, existing, nil)
	})
}

// --- Contracts ---

func (s *catalogService) CreateContract(ctx context.Context, p domain.Principal, req dto.CreateContractRequest) (*domain.Contract, error) {
	if err := s.perms.Authorize(p, domain.ModuleContracts, domain.ActionCreate); err != nil {
		return nil, err
	}
	branch, err := s.perms.ResolveBranch(p, domain.ModuleContracts, domain.ActionCreate, req.BranchCode)
	if err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, apperrors.NewValidationFailedError("contract end date must be after its start date")
	}
	if req.Value.IsNegative() {
		return nil, apperrors.NewValidationFailedError("contract value must not be negative")
	}
	if _, err := s.activeSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}
	if err := s.checkCurrency(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}

	contract := domain.Contract{
		ContractID:   uuid.NewString(),
		BranchCode:   branch,
		SupplierID:   req.SupplierID,
		Title:        strings.TrimSpace(req.Title),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Value:        req.Value,
		CurrencyCode: req.CurrencyCode,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(p.ActorID, s.now()),
	}
	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		code, err := s.allocator.NextEntityCode(ctx, tx, domain.EntityContract, branch)
		if err != nil {
			return err
		}
		contract.Code = code
		if err := s.catalogRepo.SaveContract(ctx, tx, contract); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "contracts", contract.ContractID, nil, contract)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	return &contract, nil
}

func (s *catalogService) loadContract(ctx context.Context, p domain.Principal, contractID string, action domain.Action) (*domain.Contract, error) {
	contract, err := s.catalogRepo.FindContractByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleContracts, action, contract.BranchCode) {
		return nil, apperrors.NewNotFoundError("contract")
	}
	return contract, nil
}

func (s *catalogService) GetContract(ctx context.Context, p domain.Principal, contractID string) (*domain.Contract, error) {
	if err := s.perms.Authorize(p, domain.ModuleContracts, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.loadContract(ctx, p, contractID, domain.ActionRead)
}

func (s *catalogService) ListContracts(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Contract, error) {
	if err := s.perms.Authorize(p, domain.ModuleContracts, domain.ActionRead); err != nil {
		return nil, err
	}
	contracts, err := s.catalogRepo.ListContracts(ctx, scopedListFilter(s.perms, p, domain.ModuleContracts, params))
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// UpdateContract changes title, end date or status. Moving the end date clears the reminder
// stamp so the renewed contract is reminded about again.
func (s *catalogService) UpdateContract(ctx context.Context, p domain.Principal, contractID string, req dto.UpdateContractRequest) (*domain.Contract, error) {
	if err := s.perms.Authorize(p, domain.ModuleContracts, domain.ActionUpdate); err != nil {
		return nil, err
	}
	existing, err := s.loadContract(ctx, p, contractID, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	updated := *existing
	setString(&updated.Title, req.Title)
	if req.EndDate != nil && !req.EndDate.Equal(existing.EndDate) {
		if !req.EndDate.After(updated.StartDate) {
			return nil, apperrors.NewValidationFailedError("contract end date must be after its start date")
		}
		updated.EndDate = *req.EndDate
		updated.RemindedAt = nil
	}
	setBool(&updated.IsActive, req.IsActive)
	updated.Touch(p.ActorID, s.now())

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.catalogRepo.UpdateContract(ctx, tx, updated); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUpdate, "contracts", contractID, existing, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update contract %s: %w", contractID, err)
	}
	return &updated, nil
}

func (s *catalogService) DeleteContract(ctx context.Context, p domain.Principal, contractID string) error {
	if err := s.perms.Authorize(p, domain.ModuleContracts, domain.ActionDelete); err != nil {
		return err
	}
	existing, err := s.loadContract(ctx, p, contractID, domain.ActionDelete)
	if err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.catalogRepo.DeleteContract(ctx, tx, contractID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditDelete, "contracts", contractID, existing, nil)
	})
}
