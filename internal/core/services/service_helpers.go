package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/shopspring/decimal"
)

// scopedListFilter builds the listing filter with the branch narrowed by the permission engine.
func scopedListFilter(perms portssvc.PermissionSvc, p domain.Principal, module domain.Module, params dto.ListParams) domain.ListFilter {
	return domain.ListFilter{
		BranchCode: perms.NarrowBranchFilter(p, module, domain.ActionRead, params.BranchCode),
		Search:     strings.TrimSpace(params.Search),
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
}

// referenceError replaces the repository's not-found error with a message naming the reference.
func referenceError(err error, message string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewMissingReferenceError(message)
	}
	return err
}

func requirePositive(amount decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("%s must be greater than zero", field))
	}
	return nil
}

// describeDependents renders dependent counts as "members=3, projects=1" in a stable order.
func describeDependents(deps domain.BranchDependents) string {
	parts := make([]string, 0, len(deps))
	for table, n := range deps {
		parts = append(parts, fmt.Sprintf("%s=%d", table, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// optionalString treats an empty string as absent.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
