package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/gin-gonic/gin"
)

// recordHandler handles contributions, transactions and expenditures.
type recordHandler struct {
	baseHandler
	records portssvc.RecordSvcFacade
}

func registerRecordRoutes(rg *gin.RouterGroup, base baseHandler, records portssvc.RecordSvcFacade) {
	h := &recordHandler{baseHandler: base, records: records}

	contributions := rg.Group("/contributions")
	{
		contributions.POST("", h.createContribution)
		contributions.GET("", h.listContributions)
		contributions.GET("/:id", h.getContribution)
		contributions.POST("/:id/cancel", h.cancelContribution)
	}

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/refund", h.refundTransaction)
	}

	expenditures := rg.Group("/expenditures")
	{
		expenditures.POST("", h.createExpenditure)
		expenditures.GET("", h.listExpenditures)
		expenditures.GET("/:id", h.getExpenditure)
		expenditures.POST("/:id/cancel", h.cancelExpenditure)
	}
}

// createContribution godoc
// @Summary Record a contribution
// @Description Records money received from an enrolled member and allocates a receipt number (BB-MC-YYYY-NNNNNN).
// @Tags contributions
// @Accept json
// @Produce json
// @Param contribution body dto.CreateContributionRequest true "Contribution"
// @Success 201 {object} domain.Contribution
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contributions [post]
func (h *recordHandler) createContribution(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	contribution, err := h.records.CreateContribution(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create contribution")
		return
	}
	c.JSON(http.StatusCreated, contribution)
}

// listContributions godoc
// @Summary List contributions
// @Description Newest first. Pass nextToken from the previous page to continue.
// @Tags contributions
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token"
// @Param branchCode query string false "Branch filter"
// @Param status query string false "COMPLETED, REFUNDED or CANCELLED"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param memberID query string false "Member"
// @Param projectID query string false "Project"
// @Success 200 {object} dto.ListContributionsResponse
// @Security BearerAuth
// @Router /contributions [get]
func (h *recordHandler) listContributions(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	resp, err := h.records.ListContributions(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list contributions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getContribution godoc
// @Summary Get a contribution
// @Tags contributions
// @Produce json
// @Param id path string true "Contribution ID"
// @Success 200 {object} domain.Contribution
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contributions/{id} [get]
func (h *recordHandler) getContribution(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	contribution, err := h.records.GetContribution(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get contribution")
		return
	}
	c.JSON(http.StatusOK, contribution)
}

// cancelContribution godoc
// @Summary Cancel a contribution
// @Tags contributions
// @Accept json
// @Produce json
// @Param id path string true "Contribution ID"
// @Param reason body dto.StatusChangeRequest true "Reason"
// @Success 200 {object} domain.Contribution
// @Failure 409 {object} dto.ErrorResponse "Not in COMPLETED status"
// @Security BearerAuth
// @Router /contributions/{id}/cancel [post]
func (h *recordHandler) cancelContribution(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	contribution, err := h.records.CancelContribution(c.Request.Context(), p, c.Param("id"), req.Reason)
	if err != nil {
		h.respondError(c, err, "cancel contribution")
		return
	}
	c.JSON(http.StatusOK, contribution)
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Records general income and allocates a receipt number (BB-TR-YYYY-NNNNNN).
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *recordHandler) createTransaction(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	transaction, err := h.records.CreateTransaction(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create transaction")
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// listTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token"
// @Param branchCode query string false "Branch filter"
// @Param status query string false "COMPLETED, REFUNDED or CANCELLED"
// @Param headID query string false "Revenue head"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *recordHandler) listTransactions(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	resp, err := h.records.ListTransactions(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *recordHandler) getTransaction(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	transaction, err := h.records.GetTransaction(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// refundTransaction godoc
// @Summary Refund a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param reason body dto.StatusChangeRequest true "Reason"
// @Success 200 {object} domain.Transaction
// @Failure 409 {object} dto.ErrorResponse "Not in COMPLETED status"
// @Security BearerAuth
// @Router /transactions/{id}/refund [post]
func (h *recordHandler) refundTransaction(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	transaction, err := h.records.RefundTransaction(c.Request.Context(), p, c.Param("id"), req.Reason)
	if err != nil {
		h.respondError(c, err, "refund transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// createExpenditure godoc
// @Summary Record an expenditure
// @Description Records a payment against an expenditure head and allocates a voucher number (BB-EX-YYYY-NNNNNN).
// @Tags expenditures
// @Accept json
// @Produce json
// @Param expenditure body dto.CreateExpenditureRequest true "Expenditure"
// @Success 201 {object} domain.Expenditure
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenditures [post]
func (h *recordHandler) createExpenditure(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	expenditure, err := h.records.CreateExpenditure(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create expenditure")
		return
	}
	c.JSON(http.StatusCreated, expenditure)
}

// listExpenditures godoc
// @Summary List expenditures
// @Tags expenditures
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token"
// @Param branchCode query string false "Branch filter"
// @Param status query string false "COMPLETED or CANCELLED"
// @Param headID query string false "Expenditure head"
// @Success 200 {object} dto.ListExpendituresResponse
// @Security BearerAuth
// @Router /expenditures [get]
func (h *recordHandler) listExpenditures(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	resp, err := h.records.ListExpenditures(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list expenditures")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getExpenditure godoc
// @Summary Get an expenditure
// @Tags expenditures
// @Produce json
// @Param id path string true "Expenditure ID"
// @Success 200 {object} domain.Expenditure
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenditures/{id} [get]
func (h *recordHandler) getExpenditure(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	expenditure, err := h.records.GetExpenditure(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get expenditure")
		return
	}
	c.JSON(http.StatusOK, expenditure)
}

// cancelExpenditure godoc
// @Summary Cancel an expenditure
// @Tags expenditures
// @Accept json
// @Produce json
// @Param id path string true "Expenditure ID"
// @Param reason body dto.StatusChangeRequest true "Reason"
// @Success 200 {object} domain.Expenditure
// @Failure 409 {object} dto.ErrorResponse "Not in COMPLETED status"
// @Security BearerAuth
// @Router /expenditures/{id}/cancel [post]
func (h *recordHandler) cancelExpenditure(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	expenditure, err := h.records.CancelExpenditure(c.Request.Context(), p, c.Param("id"), req.Reason)
	if err != nil {
		h.respondError(c, err, "cancel expenditure")
		return
	}
	c.JSON(http.StatusOK, expenditure)
}
