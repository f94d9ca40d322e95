package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/gin-gonic/gin"
)

// branchHandler handles HTTP requests related to branches.
type branchHandler struct {
	baseHandler
	branches portssvc.BranchSvcFacade
}

func registerBranchRoutes(rg *gin.RouterGroup, base baseHandler, branches portssvc.BranchSvcFacade) {
	h := &branchHandler{baseHandler: base, branches: branches}

	group := rg.Group("/branches")
	{
		group.POST("", h.createBranch)
		group.GET("", h.listBranches)
		group.GET("/:code", h.getBranch)
		group.PUT("/:code", h.updateBranch)
		group.DELETE("/:code", h.deleteBranch)
	}
}

// createBranch godoc
// @Summary Create a branch
// @Tags branches
// @Accept json
// @Produce json
// @Param branch body dto.CreateBranchRequest true "Branch details"
// @Success 201 {object} domain.Branch
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Branch code already exists"
// @Security BearerAuth
// @Router /branches [post]
func (h *branchHandler) createBranch(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	branch, err := h.branches.CreateBranch(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create branch")
		return
	}
	c.JSON(http.StatusCreated, branch)
}

// listBranches godoc
// @Summary List branches
// @Description Without branches:read_all only the caller's own branch is returned.
// @Tags branches
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListBranchesResponse
// @Security BearerAuth
// @Router /branches [get]
func (h *branchHandler) listBranches(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	branches, err := h.branches.ListBranches(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list branches")
		return
	}
	c.JSON(http.StatusOK, dto.ListBranchesResponse{Branches: branches})
}

// getBranch godoc
// @Summary Get a branch
// @Tags branches
// @Produce json
// @Param code path string true "Branch code"
// @Success 200 {object} domain.Branch
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /branches/{code} [get]
func (h *branchHandler) getBranch(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	branch, err := h.branches.GetBranch(c.Request.Context(), p, c.Param("code"))
	if err != nil {
		h.respondError(c, err, "get branch")
		return
	}
	c.JSON(http.StatusOK, branch)
}

// updateBranch godoc
// @Summary Update a branch
// @Tags branches
// @Accept json
// @Produce json
// @Param code path string true "Branch code"
// @Param branch body dto.UpdateBranchRequest true "Fields to change"
// @Success 200 {object} domain.Branch
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /branches/{code} [put]
func (h *branchHandler) updateBranch(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	branch, err := h.branches.UpdateBranch(c.Request.Context(), p, c.Param("code"), req)
	if err != nil {
		h.respondError(c, err, "update branch")
		return
	}
	c.JSON(http.StatusOK, branch)
}

// deleteBranch godoc
// @Summary Delete a branch
// @Description Fails with 409 while members, users or records still belong to the branch.
// @Tags branches
// @Param code path string true "Branch code"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Branch has dependents"
// @Security BearerAuth
// @Router /branches/{code} [delete]
func (h *branchHandler) deleteBranch(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.branches.DeleteBranch(c.Request.Context(), p, c.Param("code")); err != nil {
		h.respondError(c, err, "delete branch")
		return
	}
	c.Status(http.StatusNoContent)
}
