package repositories

import (
	"context"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SupplierStore persists suppliers
type SupplierStore interface {
	SaveSupplier(ctx context.Context, tx pgx.Tx, supplier domain.Supplier) error
	UpdateSupplier(ctx context.Context, tx pgx.Tx, supplier domain.Supplier) error
	DeleteSupplier(ctx context.Context, tx pgx.Tx, supplierID string) error
	FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, filter domain.ListFilter) ([]domain.Supplier, error)
	// CountSupplierUsage counts expenditures, assets and contracts referencing the supplier.
	CountSupplierUsage(ctx context.Context, tx pgx.Tx, supplierID string) (int64, error)
}

// AssetStore persists assets
type AssetStore interface {
	SaveAsset(ctx context.Context, tx pgx.Tx, asset domain.Asset) error
	UpdateAsset(ctx context.Context, tx pgx.Tx, asset domain.Asset) error
	DeleteAsset(ctx context.Context, tx pgx.Tx, assetID string) error
	FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error)
	ListAssets(ctx context.Context, filter domain.ListFilter) ([]domain.Asset, error)
}

// ContractStore persists contracts
type ContractStore interface {
	SaveContract(ctx context.Context, tx pgx.Tx, contract domain.Contract) error
	UpdateContract(ctx context.Context, tx pgx.Tx, contract domain.Contract) error
	DeleteContract(ctx context.Context, tx pgx.Tx, contractID string) error
	FindContractByID(ctx context.Context, contractID string) (*domain.Contract, error)
	ListContracts(ctx context.Context, filter domain.ListFilter) ([]domain.Contract, error)
}

// CatalogRepositoryFacade combines supplier, asset and contract storage
type CatalogRepositoryFacade interface {
	SupplierStore
	AssetStore
	ContractStore
}
