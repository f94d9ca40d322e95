package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/gin-gonic/gin"
)

// actorHandler handles HTTP requests related to back-office users.
type actorHandler struct {
	baseHandler
	actors portssvc.ActorSvcFacade
}

func registerActorRoutes(rg *gin.RouterGroup, base baseHandler, actors portssvc.ActorSvcFacade) {
	h := &actorHandler{baseHandler: base, actors: actors}

	group := rg.Group("/users")
	{
		group.POST("", h.createActor)
		group.GET("", h.listActors)
		group.GET("/:id", h.getActor)
		group.PUT("/:id", h.updateActor)
		group.DELETE("/:id", h.deleteActor)
		group.POST("/:id/unlock", h.unlockActor)
		group.GET("/:id/login-history", h.listLoginHistory)
	}
}

// createActor godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateActorRequest true "User details"
// @Success 201 {object} dto.ActorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Username or email taken"
// @Security BearerAuth
// @Router /users [post]
func (h *actorHandler) createActor(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	actor, err := h.actors.CreateActor(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create user")
		return
	}
	c.JSON(http.StatusCreated, dto.ToActorResponse(actor))
}

// listActors godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param branchCode query string false "Branch filter"
// @Param q query string false "Search"
// @Success 200 {object} dto.ListActorsResponse
// @Security BearerAuth
// @Router /users [get]
func (h *actorHandler) listActors(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	actors, err := h.actors.ListActors(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListActorsResponse(actors))
}

// getActor godoc
// @Summary Get a user
// @Description Anyone may read their own record.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.ActorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *actorHandler) getActor(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	actor, err := h.actors.GetActor(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, dto.ToActorResponse(actor))
}

// updateActor godoc
// @Summary Update a user
// @Description Users may change their own profile and password but not their role, branch or status.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body dto.UpdateActorRequest true "Fields to change"
// @Success 200 {object} dto.ActorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *actorHandler) updateActor(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.UpdateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	actor, err := h.actors.UpdateActor(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "update user")
		return
	}
	c.JSON(http.StatusOK, dto.ToActorResponse(actor))
}

// deleteActor godoc
// @Summary Delete a user
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "User owns records"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *actorHandler) deleteActor(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.actors.DeleteActor(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err, "delete user")
		return
	}
	c.Status(http.StatusNoContent)
}

// unlockActor godoc
// @Summary Unlock a user
// @Description Clears the lockout and the failed attempt counter.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.ActorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/unlock [post]
func (h *actorHandler) unlockActor(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	actor, err := h.actors.UnlockActor(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "unlock user")
		return
	}
	c.JSON(http.StatusOK, dto.ToActorResponse(actor))
}

// listLoginHistory godoc
// @Summary Login history of a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Number of attempts" default(50)
// @Success 200 {object} dto.LoginHistoryResponse
// @Security BearerAuth
// @Router /users/{id}/login-history [get]
func (h *actorHandler) listLoginHistory(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	attempts, err := h.actors.ListLoginHistory(c.Request.Context(), p, c.Param("id"), queryInt(c, "limit", 0))
	if err != nil {
		h.respondError(c, err, "list login history")
		return
	}
	c.JSON(http.StatusOK, dto.LoginHistoryResponse{Attempts: attempts})
}
