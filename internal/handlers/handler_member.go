package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/gin-gonic/gin"
)

// memberHandler handles members, their enrolments and projects.
type memberHandler struct {
	baseHandler
	members  portssvc.MemberSvcFacade
	projects portssvc.ProjectSvcFacade
}

func registerMemberRoutes(rg *gin.RouterGroup, base baseHandler, members portssvc.MemberSvcFacade, projects portssvc.ProjectSvcFacade) {
	h := &memberHandler{baseHandler: base, members: members, projects: projects}

	memberGroup := rg.Group("/members")
	{
		memberGroup.POST("", h.createMember)
		memberGroup.GET("", h.listMembers)
		memberGroup.GET("/:id", h.getMember)
		memberGroup.PUT("/:id", h.updateMember)
		memberGroup.DELETE("/:id", h.deleteMember)
		memberGroup.POST("/:id/enrollments", h.enrollMember)
		memberGroup.GET("/:id/projects", h.listMemberProjects)
	}

	projectGroup := rg.Group("/projects")
	{
		projectGroup.POST("", h.createProject)
		projectGroup.GET("", h.listProjects)
		projectGroup.GET("/:id", h.getProject)
		projectGroup.PUT("/:id", h.updateProject)
	}
}

// createMember godoc
// @Summary Register a member
// @Tags members
// @Accept json
// @Produce json
// @Param member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} domain.Member
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	member, err := h.members.CreateMember(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// listMembers godoc
// @Summary List members
// @Tags members
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param branchCode query string false "Branch filter"
// @Param q query string false "Name, phone or member number"
// @Success 200 {object} dto.ListMembersResponse
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	members, err := h.members.ListMembers(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list members")
		return
	}
	c.JSON(http.StatusOK, dto.ListMembersResponse{Members: members})
}

// getMember godoc
// @Summary Get a member
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} domain.Member
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /members/{id} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	member, err := h.members.GetMember(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// updateMember godoc
// @Summary Update a member
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param member body dto.UpdateMemberRequest true "Fields to change"
// @Success 200 {object} domain.Member
// @Security BearerAuth
// @Router /members/{id} [put]
func (h *memberHandler) updateMember(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	member, err := h.members.UpdateMember(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "update member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// deleteMember godoc
// @Summary Delete a member
// @Tags members
// @Param id path string true "Member ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Member has contributions"
// @Security BearerAuth
// @Router /members/{id} [delete]
func (h *memberHandler) deleteMember(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.members.DeleteMember(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err, "delete member")
		return
	}
	c.Status(http.StatusNoContent)
}

// enrollMember godoc
// @Summary Enrol a member in a project
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param enrollment body dto.EnrollMemberRequest true "Project"
// @Success 201 {object} domain.Enrollment
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Security BearerAuth
// @Router /members/{id}/enrollments [post]
func (h *memberHandler) enrollMember(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.EnrollMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	enrollment, err := h.members.EnrollMember(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "enroll member")
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// listMemberProjects godoc
// @Summary Projects a member is enrolled in
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} dto.ListProjectsResponse
// @Security BearerAuth
// @Router /members/{id}/projects [get]
func (h *memberHandler) listMemberProjects(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	projects, err := h.members.ListMemberProjects(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "list member projects")
		return
	}
	c.JSON(http.StatusOK, dto.ListProjectsResponse{Projects: projects})
}

// createProject godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} domain.Project
// @Security BearerAuth
// @Router /projects [post]
func (h *memberHandler) createProject(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	project, err := h.projects.CreateProject(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create project")
		return
	}
	c.JSON(http.StatusCreated, project)
}

// listProjects godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param branchCode query string false "Branch filter"
// @Success 200 {object} dto.ListProjectsResponse
// @Security BearerAuth
// @Router /projects [get]
func (h *memberHandler) listProjects(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	projects, err := h.projects.ListProjects(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list projects")
		return
	}
	c.JSON(http.StatusOK, dto.ListProjectsResponse{Projects: projects})
}

// getProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.Project
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *memberHandler) getProject(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	project, err := h.projects.GetProject(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// updateProject godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} domain.Project
// @Security BearerAuth
// @Router /projects/{id} [put]
func (h *memberHandler) updateProject(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	project, err := h.projects.UpdateProject(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "update project")
		return
	}
	c.JSON(http.StatusOK, project)
}
