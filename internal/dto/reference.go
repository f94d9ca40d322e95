package dto

import "github.com/SscSPs/branch_finance_admin/internal/core/domain"

// CreateCurrencyRequest defines the data needed to create a currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
	Symbol       string `json:"symbol" binding:"required,max=8"`
	Name         string `json:"name" binding:"required,max=64"`
	Precision    int    `json:"precision" binding:"min=0,max=4"`
}

// ListCurrenciesResponse wraps the list of currencies.
type ListCurrenciesResponse struct {
	Currencies []domain.Currency `json:"currencies"`
}

// CreatePaymentMethodRequest defines the data needed to create a payment method.
type CreatePaymentMethodRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

// ListPaymentMethodsResponse wraps the list of payment methods.
type ListPaymentMethodsResponse struct {
	PaymentMethods []domain.PaymentMethod `json:"paymentMethods"`
}

// CreateHeadRequest creates a revenue or expenditure head. The code is allocated.
type CreateHeadRequest struct {
	Kind        domain.HeadKind `json:"kind" binding:"required,oneof=REVENUE EXPENDITURE"`
	Name        string          `json:"name" binding:"required,max=120"`
	Description string          `json:"description" binding:"max=255"`
}

// UpdateHeadRequest updates a head. Kind and code are immutable.
type UpdateHeadRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=120"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	IsActive    *bool   `json:"isActive"`
}

// ListHeadsParams filters head listings.
type ListHeadsParams struct {
	Kind string `form:"kind" binding:"omitempty,oneof=REVENUE EXPENDITURE"`
}

// ListHeadsResponse wraps the list of heads.
type ListHeadsResponse struct {
	Heads []domain.AccountHead `json:"heads"`
}
