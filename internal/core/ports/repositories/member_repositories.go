package repositories

import (
	"context"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// MemberReader defines read operations for members
type MemberReader interface {
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	ListMembers(ctx context.Context, filter domain.ListFilter) ([]domain.Member, error)
	IsMemberEnrolled(ctx context.Context, tx pgx.Tx, memberID, projectID string) (bool, error)
	ListMemberProjects(ctx context.Context, memberID string) ([]domain.Project, error)
	CountMemberContributions(ctx context.Context, tx pgx.Tx, memberID string) (int64, error)
}

// MemberWriter defines write operations for members
type MemberWriter interface {
	SaveMember(ctx context.Context, tx pgx.Tx, member domain.Member) error
	UpdateMember(ctx context.Context, tx pgx.Tx, member domain.Member) error
	DeleteMember(ctx context.Context, tx pgx.Tx, memberID string) error
	SaveEnrollment(ctx context.Context, tx pgx.Tx, enrollment domain.Enrollment) error
}

// MemberRepositoryFacade combines all member repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}

// ProjectReader defines read operations for projects
type ProjectReader interface {
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, filter domain.ListFilter) ([]domain.Project, error)
}

// ProjectWriter defines write operations for projects
type ProjectWriter interface {
	SaveProject(ctx context.Context, tx pgx.Tx, project domain.Project) error
	UpdateProject(ctx context.Context, tx pgx.Tx, project domain.Project) error
}

// ProjectRepositoryFacade combines all project repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
