package services

import "github.com/SscSPs/branch_finance_admin/internal/core/domain"

// PermissionSvc is the permission engine: a flat module/action allow-list plus branch scoping.
type PermissionSvc interface {
	Authorize(p domain.Principal, module domain.Module, action domain.Action) error
	HasScopeWidening(p domain.Principal, module domain.Module, action domain.Action) bool
	BranchScope(p domain.Principal, module domain.Module, action domain.Action) *string
	NarrowBranchFilter(p domain.Principal, module domain.Module, action domain.Action, requested string) *string
	ResolveBranch(p domain.Principal, module domain.Module, action domain.Action, requested string) (string, error)
	CanAccessBranch(p domain.Principal, module domain.Module, action domain.Action, branchCode string) bool
}
