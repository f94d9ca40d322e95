package dto

import "github.com/SscSPs/branch_finance_admin/internal/core/domain"

// CreateBranchRequest creates a branch.
type CreateBranchRequest struct {
	Code    string  `json:"code" binding:"required,branchcode"`
	Name    string  `json:"name" binding:"required,max=120"`
	Address string  `json:"address" binding:"max=255"`
	Phone   string  `json:"phone" binding:"max=32"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

// UpdateBranchRequest updates a branch. The code is immutable.
type UpdateBranchRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=120"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
	Email    *string `json:"email" binding:"omitempty,email"`
	IsActive *bool   `json:"isActive"`
}

// ListBranchesResponse wraps the list of branches.
type ListBranchesResponse struct {
	Branches []domain.Branch `json:"branches"`
}
