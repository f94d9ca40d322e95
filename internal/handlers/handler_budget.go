package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/gin-gonic/gin"
)

type budgetHandler struct {
	baseHandler
	budgets portssvc.BudgetSvcFacade
}

func registerBudgetRoutes(rg *gin.RouterGroup, base baseHandler, budgets portssvc.BudgetSvcFacade) {
	h := &budgetHandler{baseHandler: base, budgets: budgets}

	group := rg.Group("/budgets")
	{
		group.POST("", h.createBudget)
		group.GET("", h.listBudgets)
		group.DELETE("/:id", h.deleteBudget)
	}
}

// createBudget godoc
// @Summary Set a budget
// @Description One budget per branch, expenditure head and year.
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget body dto.CreateBudgetRequest true "Budget"
// @Success 201 {object} domain.Budget
// @Failure 409 {object} dto.ErrorResponse "Budget already set"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	budget, err := h.budgets.CreateBudget(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create budget")
		return
	}
	c.JSON(http.StatusCreated, budget)
}

// listBudgets godoc
// @Summary List budgets with utilisation
// @Tags budgets
// @Produce json
// @Param branchCode query string false "Branch filter"
// @Param year query int false "Year"
// @Param headID query string false "Expenditure head"
// @Success 200 {object} dto.ListBudgetsResponse
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	budgets, err := h.budgets.ListBudgets(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBudgetsResponse(budgets))
}

// deleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param id path string true "Budget ID"
// @Success 204
// @Security BearerAuth
// @Router /budgets/{id} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.budgets.DeleteBudget(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err, "delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}
