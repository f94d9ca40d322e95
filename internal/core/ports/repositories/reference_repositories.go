package repositories

import (
	"context"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CurrencyStore persists currencies
type CurrencyStore interface {
	SaveCurrency(ctx context.Context, tx pgx.Tx, currency domain.Currency) error
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// PaymentMethodStore persists payment methods
type PaymentMethodStore interface {
	SavePaymentMethod(ctx context.Context, tx pgx.Tx, method domain.PaymentMethod) error
	FindPaymentMethodByID(ctx context.Context, id string) (*domain.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
}

// AccountHeadStore persists revenue and expenditure heads
type AccountHeadStore interface {
	SaveHead(ctx context.Context, tx pgx.Tx, head domain.AccountHead) error
	UpdateHead(ctx context.Context, tx pgx.Tx, head domain.AccountHead) error
	DeleteHead(ctx context.Context, tx pgx.Tx, headID string) error
	FindHeadByID(ctx context.Context, headID string) (*domain.AccountHead, error)
	ListHeads(ctx context.Context, kind *domain.HeadKind) ([]domain.AccountHead, error)
	// CountHeadUsage counts records and budgets referencing the head.
	CountHeadUsage(ctx context.Context, tx pgx.Tx, headID string) (int64, error)
}

// ReferenceRepositoryFacade combines lookup table storage
type ReferenceRepositoryFacade interface {
	CurrencyStore
	PaymentMethodStore
	AccountHeadStore
}
