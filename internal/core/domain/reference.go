package domain

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // e.g. "KES"
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
	AuditFields
}

// PaymentMethod is a way money changes hands (cash, bank transfer, mobile money).
type PaymentMethod struct {
	PaymentMethodID string `json:"paymentMethodID"`
	Name            string `json:"name"`
	IsActive        bool   `json:"isActive"`
	AuditFields
}

// HeadKind separates revenue heads from expenditure heads.
type HeadKind string

const (
	HeadRevenue     HeadKind = "REVENUE"
	HeadExpenditure HeadKind = "EXPENDITURE"
)

// EntityKind returns the code allocation kind for heads of this kind.
func (k HeadKind) EntityKind() EntityKind {
	if k == HeadRevenue {
		return EntityRevenueHead
	}
	return EntityExpenditureHead
}

// AccountHead classifies income or spending.
type AccountHead struct {
	HeadID      string   `json:"headID"`
	Code        string   `json:"code"`
	Kind        HeadKind `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsActive    bool     `json:"isActive"`
	AuditFields
}
