package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
)

// ReminderRepository feeds the daily reminder sweep.
type ReminderRepository interface {
	// ListContractsEndingBetween returns active contracts ending in [from, to] that have not
	// been reminded about since remindedBefore.
	ListContractsEndingBetween(ctx context.Context, from, to, remindedBefore time.Time) ([]domain.ContractReminder, error)
	MarkContractReminded(ctx context.Context, contractID string, at time.Time) error
}
