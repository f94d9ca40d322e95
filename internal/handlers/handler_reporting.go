package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/SscSPs/branch_finance_admin/internal/reporting/export"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	baseHandler
	reports portssvc.ReportingSvc
	audit   portssvc.AuditSvc
}

// registerReportingRoutes registers the report and audit trail routes
func registerReportingRoutes(rg *gin.RouterGroup, base baseHandler, reports portssvc.ReportingSvc, audit portssvc.AuditSvc) {
	h := &reportingHandler{baseHandler: base, reports: reports, audit: audit}

	group := rg.Group("/reports")
	{
		group.GET("/summary", h.summary)
		group.GET("/export", h.export)
	}
	rg.GET("/audit", h.listAuditEntries)
}

// summary godoc
// @Summary Totals by record type, branch, currency and status
// @Tags reports
// @Produce json
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date (YYYY-MM-DD), inclusive"
// @Param type query string false "contribution, transaction or expenditure"
// @Param branchCode query string false "Branch filter"
// @Param status query string false "Status filter"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) summary(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	resp, err := h.reports.Summary(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "build summary")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// export godoc
// @Summary Export records
// @Description Downloads the matching records as CSV or XLSX. Without a type all record types are included.
// @Tags reports
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date (YYYY-MM-DD), inclusive"
// @Param type query string false "contribution, transaction or expenditure"
// @Param branchCode query string false "Branch filter"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /reports/export [get]
func (h *reportingHandler) export(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	format, err := export.ParseFormat(params.Format)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	// Rendered into memory first so a failure still produces a JSON error.
	var buf bytes.Buffer
	if err := h.reports.Export(c.Request.Context(), p, params, &buf); err != nil {
		h.respondError(c, err, "export records")
		return
	}

	name := params.RecordType
	if name == "" {
		name = "records"
	}
	filename := fmt.Sprintf("%s_%s_%s.%s", name, params.From.Format("20060102"), params.To.Format("20060102"), format)
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// listAuditEntries godoc
// @Summary Read the audit trail
// @Description Newest first. Entries are never changed or removed.
// @Tags audit
// @Produce json
// @Param table query string false "Target table"
// @Param targetID query string false "Target row"
// @Param actorID query string false "Acting user"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD), inclusive"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListAuditResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /audit [get]
func (h *reportingHandler) listAuditEntries(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	entries, err := h.audit.ListAuditEntries(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list audit entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListAuditResponse{Entries: entries})
}
