package handlers

import (
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by request DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("branchcode", validateBranchCode); err != nil {
		return fmt.Errorf("failed to register branchcode validator: %w", err)
	}
	return nil
}

func validateBranchCode(fl validator.FieldLevel) bool {
	return domain.IsValidBranchCode(fl.Field().String())
}
