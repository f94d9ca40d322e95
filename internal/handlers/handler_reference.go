package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/gin-gonic/gin"
)

// referenceHandler serves currencies, payment methods and account heads.
type referenceHandler struct {
	baseHandler
	refs portssvc.ReferenceSvcFacade
}

func registerReferenceRoutes(rg *gin.RouterGroup, base baseHandler, refs portssvc.ReferenceSvcFacade) {
	h := &referenceHandler{baseHandler: base, refs: refs}

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
	}

	methods := rg.Group("/payment-methods")
	{
		methods.POST("", h.createPaymentMethod)
		methods.GET("", h.listPaymentMethods)
	}

	heads := rg.Group("/heads")
	{
		heads.POST("", h.createHead)
		heads.GET("", h.listHeads)
		heads.GET("/:id", h.getHead)
		heads.PUT("/:id", h.updateHead)
		heads.DELETE("/:id", h.deleteHead)
	}
}

// createCurrency godoc
// @Summary Create a new currency
// @Tags currencies
// @Accept json
// @Produce json
// @Param currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} domain.Currency
// @Failure 409 {object} dto.ErrorResponse "Currency already exists"
// @Security BearerAuth
// @Router /currencies [post]
func (h *referenceHandler) createCurrency(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	currency, err := h.refs.CreateCurrency(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create currency")
		return
	}
	c.JSON(http.StatusCreated, currency)
}

// listCurrencies godoc
// @Summary List all currencies
// @Tags currencies
// @Produce json
// @Success 200 {object} dto.ListCurrenciesResponse
// @Security BearerAuth
// @Router /currencies [get]
func (h *referenceHandler) listCurrencies(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	currencies, err := h.refs.ListCurrencies(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, "list currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ListCurrenciesResponse{Currencies: currencies})
}

// createPaymentMethod godoc
// @Summary Create a payment method
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param method body dto.CreatePaymentMethodRequest true "Payment method"
// @Success 201 {object} domain.PaymentMethod
// @Security BearerAuth
// @Router /payment-methods [post]
func (h *referenceHandler) createPaymentMethod(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	method, err := h.refs.CreatePaymentMethod(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create payment method")
		return
	}
	c.JSON(http.StatusCreated, method)
}

// listPaymentMethods godoc
// @Summary List payment methods
// @Tags payment-methods
// @Produce json
// @Success 200 {object} dto.ListPaymentMethodsResponse
// @Security BearerAuth
// @Router /payment-methods [get]
func (h *referenceHandler) listPaymentMethods(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	methods, err := h.refs.ListPaymentMethods(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, "list payment methods")
		return
	}
	c.JSON(http.StatusOK, dto.ListPaymentMethodsResponse{PaymentMethods: methods})
}

// createHead godoc
// @Summary Create an account head
// @Description The head code is allocated from the REV or EXP sequence.
// @Tags heads
// @Accept json
// @Produce json
// @Param head body dto.CreateHeadRequest true "Head details"
// @Success 201 {object} domain.AccountHead
// @Security BearerAuth
// @Router /heads [post]
func (h *referenceHandler) createHead(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	head, err := h.refs.CreateHead(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create head")
		return
	}
	c.JSON(http.StatusCreated, head)
}

// listHeads godoc
// @Summary List account heads
// @Tags heads
// @Produce json
// @Param kind query string false "REVENUE or EXPENDITURE"
// @Success 200 {object} dto.ListHeadsResponse
// @Security BearerAuth
// @Router /heads [get]
func (h *referenceHandler) listHeads(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListHeadsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	heads, err := h.refs.ListHeads(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list heads")
		return
	}
	c.JSON(http.StatusOK, dto.ListHeadsResponse{Heads: heads})
}

// getHead godoc
// @Summary Get an account head
// @Tags heads
// @Produce json
// @Param id path string true "Head ID"
// @Success 200 {object} domain.AccountHead
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /heads/{id} [get]
func (h *referenceHandler) getHead(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	head, err := h.refs.GetHead(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get head")
		return
	}
	c.JSON(http.StatusOK, head)
}

// updateHead godoc
// @Summary Update an account head
// @Tags heads
// @Accept json
// @Produce json
// @Param id path string true "Head ID"
// @Param head body dto.UpdateHeadRequest true "Fields to change"
// @Success 200 {object} domain.AccountHead
// @Security BearerAuth
// @Router /heads/{id} [put]
func (h *referenceHandler) updateHead(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.UpdateHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	head, err := h.refs.UpdateHead(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "update head")
		return
	}
	c.JSON(http.StatusOK, head)
}

// deleteHead godoc
// @Summary Delete an account head
// @Tags heads
// @Param id path string true "Head ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Head is referenced"
// @Security BearerAuth
// @Router /heads/{id} [delete]
func (h *referenceHandler) deleteHead(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.refs.DeleteHead(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err, "delete head")
		return
	}
	c.Status(http.StatusNoContent)
}
