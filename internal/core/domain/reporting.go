package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter scopes summaries and exports.
type ReportFilter struct {
	RecordType *RecordType
	BranchCode *string
	Status     *RecordStatus
	From       time.Time
	To         time.Time
}

// RecordSummary is one aggregate row of the summary report.
type RecordSummary struct {
	RecordType   RecordType      `json:"recordType"`
	BranchCode   string          `json:"branchCode"`
	CurrencyCode string          `json:"currencyCode"`
	Status       RecordStatus    `json:"status"`
	Count        int64           `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

// ExportRow is a flattened financial record ready for tabular rendering.
type ExportRow struct {
	Identifier    string
	RecordType    RecordType
	BranchCode    string
	Date          time.Time
	Party         string
	Head          string
	Description   string
	Amount        decimal.Decimal
	CurrencyCode  string
	PaymentMethod string
	Status        RecordStatus
	CreatedBy     string
}
