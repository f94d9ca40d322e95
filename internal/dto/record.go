package dto

import (
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateContributionRequest records money received from a member. The branch is the project's branch.
type CreateContributionRequest struct {
	MemberID         string          `json:"memberID" binding:"required,uuid"`
	ProjectID        string          `json:"projectID" binding:"required,uuid"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode" binding:"required,len=3"`
	PaymentMethodID  string          `json:"paymentMethodID" binding:"required,uuid"`
	ContributionDate *time.Time      `json:"contributionDate"`
	Notes            string          `json:"notes" binding:"max=500"`
}

// CreateTransactionRequest records a general income entry. An empty branch code means the caller's branch.
type CreateTransactionRequest struct {
	BranchCode      string          `json:"branchCode" binding:"omitempty,branchcode"`
	RevenueHeadID   *string         `json:"revenueHeadID" binding:"omitempty,uuid"`
	PayerName       string          `json:"payerName" binding:"required,max=120"`
	Description     string          `json:"description" binding:"max=500"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode" binding:"required,len=3"`
	PaymentMethodID string          `json:"paymentMethodID" binding:"required,uuid"`
	TransactionDate *time.Time      `json:"transactionDate"`
}

// CreateExpenditureRequest records a payment. An empty branch code means the caller's branch.
type CreateExpenditureRequest struct {
	BranchCode        string          `json:"branchCode" binding:"omitempty,branchcode"`
	ExpenditureHeadID string          `json:"expenditureHeadID" binding:"required,uuid"`
	SupplierID        *string         `json:"supplierID" binding:"omitempty,uuid"`
	Description       string          `json:"description" binding:"required,max=500"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyCode      string          `json:"currencyCode" binding:"required,len=3"`
	PaymentMethodID   string          `json:"paymentMethodID" binding:"required,uuid"`
	ExpenditureDate   *time.Time      `json:"expenditureDate"`
}

// StatusChangeRequest carries the reason for a refund or cancellation.
type StatusChangeRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// ListRecordsParams defines query parameters for record listings.
type ListRecordsParams struct {
	Limit      int        `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken  *string    `form:"nextToken"`
	BranchCode string     `form:"branchCode" binding:"omitempty,branchcode"`
	Status     string     `form:"status" binding:"omitempty,oneof=COMPLETED REFUNDED CANCELLED"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	MemberID   string     `form:"memberID" binding:"omitempty,uuid"`
	ProjectID  string     `form:"projectID" binding:"omitempty,uuid"`
	HeadID     string     `form:"headID" binding:"omitempty,uuid"`
}

// ListContributionsResponse is a page of contributions.
type ListContributionsResponse struct {
	Contributions []domain.Contribution `json:"contributions"`
	NextToken     *string               `json:"nextToken,omitempty"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

// ListExpendituresResponse is a page of expenditures.
type ListExpendituresResponse struct {
	Expenditures []domain.Expenditure `json:"expenditures"`
	NextToken    *string              `json:"nextToken,omitempty"`
}
