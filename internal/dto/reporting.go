package dto

import (
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
)

// ReportParams defines the query of summary and export endpoints.
type ReportParams struct {
	RecordType string    `form:"type" binding:"omitempty,oneof=contribution transaction expenditure"`
	BranchCode string    `form:"branchCode" binding:"omitempty,branchcode"`
	Status     string    `form:"status" binding:"omitempty,oneof=COMPLETED REFUNDED CANCELLED"`
	From       time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To         time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
	Format     string    `form:"format,default=csv" binding:"omitempty,oneof=csv xlsx"`
}

// SummaryResponse wraps the aggregate rows.
type SummaryResponse struct {
	From time.Time              `json:"from"`
	To   time.Time              `json:"to"`
	Rows []domain.RecordSummary `json:"rows"`
}

// ListAuditParams defines query parameters for audit listings.
type ListAuditParams struct {
	TargetTable string     `form:"table"`
	TargetID    string     `form:"targetID"`
	ActorID     string     `form:"actorID" binding:"omitempty,uuid"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Limit       int        `form:"limit,default=50" binding:"min=1,max=500"`
	Offset      int        `form:"offset,default=0" binding:"min=0"`
}

// ListAuditResponse wraps audit entries.
type ListAuditResponse struct {
	Entries []domain.AuditEntry `json:"entries"`
}
