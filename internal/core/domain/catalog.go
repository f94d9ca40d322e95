package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier provides goods or services paid for by expenditures.
type Supplier struct {
	SupplierID    string  `json:"supplierID"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	ContactPerson string  `json:"contactPerson"`
	Phone         string  `json:"phone"`
	Email         *string `json:"email,omitempty"`
	Address       string  `json:"address"`
	IsActive      bool    `json:"isActive"`
	AuditFields
}

// AssetCondition describes the physical state of an asset.
type AssetCondition string

const (
	AssetGood     AssetCondition = "GOOD"
	AssetFair     AssetCondition = "FAIR"
	AssetPoor     AssetCondition = "POOR"
	AssetDisposed AssetCondition = "DISPOSED"
)

// Asset is an item owned by a branch.
type Asset struct {
	AssetID       string          `json:"assetID"`
	Code          string          `json:"code"`
	BranchCode    string          `json:"branchCode"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	SupplierID    *string         `json:"supplierID,omitempty"`
	PurchaseDate  *time.Time      `json:"purchaseDate,omitempty"`
	PurchaseValue decimal.Decimal `json:"purchaseValue"`
	CurrencyCode  string          `json:"currencyCode"`
	Condition     AssetCondition  `json:"condition"`
	AuditFields
}

// Contract is an agreement between a branch and a supplier.
type Contract struct {
	ContractID   string          `json:"contractID"`
	Code         string          `json:"code"`
	BranchCode   string          `json:"branchCode"`
	SupplierID   string          `json:"supplierID"`
	Title        string          `json:"title"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	Value        decimal.Decimal `json:"value"`
	CurrencyCode string          `json:"currencyCode"`
	IsActive     bool            `json:"isActive"`
	RemindedAt   *time.Time      `json:"remindedAt,omitempty"`
	AuditFields
}

// Budget caps spending on an expenditure head for a branch and year.
type Budget struct {
	BudgetID          string          `json:"budgetID"`
	BranchCode        string          `json:"branchCode"`
	ExpenditureHeadID string          `json:"expenditureHeadID"`
	Year              int             `json:"year"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyCode      string          `json:"currencyCode"`
	Spent             decimal.Decimal `json:"spent"`
	AuditFields
}

// Remaining returns the unspent part of the budget.
func (b Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Spent)
}

// ContractReminder is a contract approaching its end date, with the contact details needed
// to notify about it.
type ContractReminder struct {
	ContractID    string
	Code          string
	Title         string
	BranchCode    string
	BranchEmail   *string
	SupplierName  string
	SupplierEmail *string
	EndDate       time.Time
}
