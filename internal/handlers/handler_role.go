package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/gin-gonic/gin"
)

// roleHandler handles HTTP requests related to roles.
type roleHandler struct {
	baseHandler
	roles portssvc.RoleSvcFacade
}

func registerRoleRoutes(rg *gin.RouterGroup, base baseHandler, roles portssvc.RoleSvcFacade) {
	h := &roleHandler{baseHandler: base, roles: roles}

	group := rg.Group("/roles")
	{
		group.POST("", h.createRole)
		group.GET("", h.listRoles)
		group.GET("/:id", h.getRole)
		group.PUT("/:id", h.updateRole)
		group.DELETE("/:id", h.deleteRole)
	}
}

// createRole godoc
// @Summary Create a role
// @Description Capabilities map modules to actions; unknown modules or actions are rejected.
// @Tags roles
// @Accept json
// @Produce json
// @Param role body dto.CreateRoleRequest true "Role details"
// @Success 201 {object} dto.RoleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /roles [post]
func (h *roleHandler) createRole(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	role, err := h.roles.CreateRole(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create role")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRoleResponse(role))
}

// listRoles godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {object} dto.ListRolesResponse
// @Security BearerAuth
// @Router /roles [get]
func (h *roleHandler) listRoles(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	roles, err := h.roles.ListRoles(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, "list roles")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRolesResponse(roles))
}

// getRole godoc
// @Summary Get a role
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} dto.RoleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /roles/{id} [get]
func (h *roleHandler) getRole(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	role, err := h.roles.GetRole(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get role")
		return
	}
	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}

// updateRole godoc
// @Summary Update a role
// @Description System roles cannot be changed.
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param role body dto.UpdateRoleRequest true "Fields to change"
// @Success 200 {object} dto.RoleResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /roles/{id} [put]
func (h *roleHandler) updateRole(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	role, err := h.roles.UpdateRole(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "update role")
		return
	}
	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}

// deleteRole godoc
// @Summary Delete a role
// @Tags roles
// @Param id path string true "Role ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Role still assigned"
// @Security BearerAuth
// @Router /roles/{id} [delete]
func (h *roleHandler) deleteRole(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.roles.DeleteRole(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err, "delete role")
		return
	}
	c.Status(http.StatusNoContent)
}
