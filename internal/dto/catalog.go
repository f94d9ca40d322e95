package dto

import (
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSupplierRequest creates a supplier. The code is allocated.
type CreateSupplierRequest struct {
	Name          string  `json:"name" binding:"required,max=120"`
	ContactPerson string  `json:"contactPerson" binding:"max=120"`
	Phone         string  `json:"phone" binding:"max=32"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       string  `json:"address" binding:"max=255"`
}

// UpdateSupplierRequest updates a supplier.
type UpdateSupplierRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=120"`
	ContactPerson *string `json:"contactPerson" binding:"omitempty,max=120"`
	Phone         *string `json:"phone" binding:"omitempty,max=32"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address" binding:"omitempty,max=255"`
	IsActive      *bool   `json:"isActive"`
}

// ListSuppliersResponse wraps the list of suppliers.
type ListSuppliersResponse struct {
	Suppliers []domain.Supplier `json:"suppliers"`
}

// CreateAssetRequest registers an asset. An empty branch code means the caller's branch.
type CreateAssetRequest struct {
	BranchCode    string          `json:"branchCode" binding:"omitempty,branchcode"`
	Name          string          `json:"name" binding:"required,max=120"`
	Category      string          `json:"category" binding:"required,max=64"`
	SupplierID    *string         `json:"supplierID" binding:"omitempty,uuid"`
	PurchaseDate  *time.Time      `json:"purchaseDate"`
	PurchaseValue decimal.Decimal `json:"purchaseValue"`
	CurrencyCode  string          `json:"currencyCode" binding:"required,len=3"`
}

// UpdateAssetRequest updates an asset.
type UpdateAssetRequest struct {
	Name      *string                `json:"name" binding:"omitempty,max=120"`
	Category  *string                `json:"category" binding:"omitempty,max=64"`
	Condition *domain.AssetCondition `json:"condition" binding:"omitempty,oneof=GOOD FAIR POOR DISPOSED"`
}

// ListAssetsResponse wraps the list of assets.
type ListAssetsResponse struct {
	Assets []domain.Asset `json:"assets"`
}

// CreateContractRequest registers a contract. An empty branch code means the caller's branch.
type CreateContractRequest struct {
	BranchCode   string          `json:"branchCode" binding:"omitempty,branchcode"`
	SupplierID   string          `json:"supplierID" binding:"required,uuid"`
	Title        string          `json:"title" binding:"required,max=160"`
	StartDate    time.Time       `json:"startDate" binding:"required"`
	EndDate      time.Time       `json:"endDate" binding:"required"`
	Value        decimal.Decimal `json:"value"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
}

// UpdateContractRequest updates a contract.
type UpdateContractRequest struct {
	Title    *string    `json:"title" binding:"omitempty,max=160"`
	EndDate  *time.Time `json:"endDate"`
	IsActive *bool      `json:"isActive"`
}

// ListContractsResponse wraps the list of contracts.
type ListContractsResponse struct {
	Contracts []domain.Contract `json:"contracts"`
}
