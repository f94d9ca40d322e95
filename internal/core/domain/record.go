package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordStatus is the lifecycle state of a financial record.
type RecordStatus string

const (
	StatusCompleted RecordStatus = "COMPLETED"
	StatusRefunded  RecordStatus = "REFUNDED"
	StatusCancelled RecordStatus = "CANCELLED"
)

// Contribution is money received from a member towards a project.
type Contribution struct {
	ContributionID   string          `json:"contributionID"`
	ReceiptNo        string          `json:"receiptNo"`
	BranchCode       string          `json:"branchCode"`
	MemberID         string          `json:"memberID"`
	ProjectID        string          `json:"projectID"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	PaymentMethodID  string          `json:"paymentMethodID"`
	ContributionDate time.Time       `json:"contributionDate"`
	Status           RecordStatus    `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	AuditFields
}

// Transaction is a general income entry not tied to a member.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	ReceiptNo       string          `json:"receiptNo"`
	BranchCode      string          `json:"branchCode"`
	RevenueHeadID   *string         `json:"revenueHeadID,omitempty"`
	PayerName       string          `json:"payerName"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	PaymentMethodID string          `json:"paymentMethodID"`
	TransactionDate time.Time       `json:"transactionDate"`
	Status          RecordStatus    `json:"status"`
	RefundReason    *string         `json:"refundReason,omitempty"`
	AuditFields
}

// Expenditure is money paid out of a branch against an expenditure head.
type Expenditure struct {
	ExpenditureID     string          `json:"expenditureID"`
	VoucherNo         string          `json:"voucherNo"`
	BranchCode        string          `json:"branchCode"`
	ExpenditureHeadID string          `json:"expenditureHeadID"`
	SupplierID        *string         `json:"supplierID,omitempty"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyCode      string          `json:"currencyCode"`
	PaymentMethodID   string          `json:"paymentMethodID"`
	ExpenditureDate   time.Time       `json:"expenditureDate"`
	Status            RecordStatus    `json:"status"`
	AuditFields
}

// RecordFilter narrows record listings. A nil BranchCode means every branch.
type RecordFilter struct {
	BranchCode *string
	Status     *RecordStatus
	From       *time.Time
	To         *time.Time
	MemberID   *string
	ProjectID  *string
	HeadID     *string
	Limit      int
	// Keyset cursor: records strictly older than (AfterDate, AfterCreatedAt).
	AfterDate      *time.Time
	AfterCreatedAt *time.Time
}
