package dto

import (
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
)

// CreateMemberRequest registers a member. An empty branch code means the caller's branch.
type CreateMemberRequest struct {
	BranchCode string     `json:"branchCode" binding:"omitempty,branchcode"`
	FullName   string     `json:"fullName" binding:"required,max=120"`
	Phone      string     `json:"phone" binding:"max=32"`
	Email      *string    `json:"email" binding:"omitempty,email"`
	Address    string     `json:"address" binding:"max=255"`
	JoinedOn   *time.Time `json:"joinedOn"`
}

// UpdateMemberRequest updates a member.
type UpdateMemberRequest struct {
	FullName *string              `json:"fullName" binding:"omitempty,max=120"`
	Phone    *string              `json:"phone" binding:"omitempty,max=32"`
	Email    *string              `json:"email" binding:"omitempty,email"`
	Address  *string              `json:"address" binding:"omitempty,max=255"`
	Status   *domain.MemberStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// EnrollMemberRequest enrols a member in a project.
type EnrollMemberRequest struct {
	ProjectID string `json:"projectID" binding:"required,uuid"`
}

// ListMembersResponse wraps the list of members.
type ListMembersResponse struct {
	Members []domain.Member `json:"members"`
}

// CreateProjectRequest creates a project. An empty branch code means the caller's branch.
type CreateProjectRequest struct {
	BranchCode  string     `json:"branchCode" binding:"omitempty,branchcode"`
	Name        string     `json:"name" binding:"required,max=120"`
	Description string     `json:"description" binding:"max=500"`
	StartDate   time.Time  `json:"startDate" binding:"required"`
	EndDate     *time.Time `json:"endDate"`
}

// UpdateProjectRequest updates a project.
type UpdateProjectRequest struct {
	Name        *string    `json:"name" binding:"omitempty,max=120"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
	EndDate     *time.Time `json:"endDate"`
	IsActive    *bool      `json:"isActive"`
}

// ListProjectsResponse wraps the list of projects.
type ListProjectsResponse struct {
	Projects []domain.Project `json:"projects"`
}
