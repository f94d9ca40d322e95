package services

import (
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
)

// permissionService decides access from the principal alone. It holds no state and never
// touches the store, so every decision is a pure function of its arguments.
type permissionService struct{}

// NewPermissionService creates the permission engine.
func NewPermissionService() portssvc.PermissionSvc {
	return permissionService{}
}

var _ portssvc.PermissionSvc = permissionService{}

// Authorize grants action on module when the role is active and lists that exact action. The
// cross-branch forms only widen scope; they never grant the base action.
func (permissionService) Authorize(p domain.Principal, module domain.Module, action domain.Action) error {
	if !p.RoleActive || p.RoleID == "" {
		return apperrors.NewForbiddenError("role is inactive")
	}
	if p.Capabilities.Allows(module, action) {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("missing permission %s:%s", module, action))
}

func (permissionService) HasScopeWidening(p domain.Principal, module domain.Module, action domain.Action) bool {
	if !p.RoleActive {
		return false
	}
	widened, ok := domain.ScopeWidening(action)
	return ok && p.Capabilities.Allows(module, widened)
}

// BranchScope returns nil when the principal may act on every branch, otherwise their own branch.
func (s permissionService) BranchScope(p domain.Principal, module domain.Module, action domain.Action) *string {
	if s.HasScopeWidening(p, module, action) {
		return nil
	}
	branch := p.BranchCode
	return &branch
}

// NarrowBranchFilter turns a requested listing filter into the one actually applied. Without
// cross-branch scope any request is replaced by the principal's branch, so a request for another
// branch yields the principal's own rows, never an error.
func (s permissionService) NarrowBranchFilter(p domain.Principal, module domain.Module, action domain.Action, requested string) *string {
	if s.HasScopeWidening(p, module, action) {
		if requested == "" {
			return nil
		}
		return &requested
	}
	branch := p.BranchCode
	return &branch
}

// ResolveBranch picks the branch a write lands in. An empty request means the principal's branch.
func (s permissionService) ResolveBranch(p domain.Principal, module domain.Module, action domain.Action, requested string) (string, error) {
	if requested == "" || requested == p.BranchCode {
		return p.BranchCode, nil
	}
	if s.HasScopeWidening(p, module, action) {
		return requested, nil
	}
	return "", apperrors.NewForbiddenError(fmt.Sprintf("branch %s is outside your scope for %s:%s", requested, module, action))
}

// CanAccessBranch reports whether a single row of branchCode is visible. Callers report rows
// outside the scope as not found.
func (s permissionService) CanAccessBranch(p domain.Principal, module domain.Module, action domain.Action, branchCode string) bool {
	return branchCode == p.BranchCode || s.HasScopeWidening(p, module, action)
}
