package dto

import (
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest sets the budget of an expenditure head for a branch and year.
type CreateBudgetRequest struct {
	BranchCode        string          `json:"branchCode" binding:"omitempty,branchcode"`
	ExpenditureHeadID string          `json:"expenditureHeadID" binding:"required,uuid"`
	Year              int             `json:"year" binding:"required,min=2000,max=2100"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyCode      string          `json:"currencyCode" binding:"required,len=3"`
}

// ListBudgetsParams filters budget listings.
type ListBudgetsParams struct {
	BranchCode string `form:"branchCode" binding:"omitempty,branchcode"`
	Year       int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	HeadID     string `form:"headID" binding:"omitempty,uuid"`
}

// BudgetResponse includes utilisation.
type BudgetResponse struct {
	domain.Budget
	Remaining decimal.Decimal `json:"remaining"`
}

// ListBudgetsResponse wraps the list of budgets.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// ToListBudgetsResponse converts domain budgets.
func ToListBudgetsResponse(budgets []domain.Budget) ListBudgetsResponse {
	out := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		out[i] = BudgetResponse{Budget: b, Remaining: b.Remaining()}
	}
	return ListBudgetsResponse{Budgets: out}
}
