package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type memberService struct {
	BaseService
	perms       portssvc.PermissionSvc
	audit       *AuditRecorder
	memberRepo  portsrepo.MemberRepositoryFacade
	projectRepo portsrepo.ProjectReader
	branchRepo  portsrepo.BranchReader
}

// NewMemberService creates the member service.
func NewMemberService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc, audit *AuditRecorder) portssvc.MemberSvcFacade {
	return &memberService{
		BaseService: newBaseService(repos.TxManager),
		perms:       perms,
		audit:       audit,
		memberRepo:  repos.MemberRepo,
		projectRepo: repos.ProjectRepo,
		branchRepo:  repos.BranchRepo,
	}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

func (s *memberService) CreateMember(ctx context.Context, p domain.Principal, req dto.CreateMemberRequest) (*domain.Member, error) {
	if err := s.perms.Authorize(p, domain.ModuleMembers, domain.ActionCreate); err != nil {
		return nil, err
	}
	branch, err := s.perms.ResolveBranch(p, domain.ModuleMembers, domain.ActionCreate, req.BranchCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.branchRepo.FindBranchByCode(ctx, branch); err != nil {
		return nil, referenceError(err, fmt.Sprintf("branch %s does not exist", branch))
	}

	now := s.now()
	joined := now
	if req.JoinedOn != nil {
		joined = *req.JoinedOn
	}
	member := domain.Member{
		MemberID:    uuid.NewString(),
		BranchCode:  branch,
		FullName:    strings.TrimSpace(req.FullName),
		Phone:       req.Phone,
		Email:       optionalString(req.Email),
		Address:     req.Address,
		JoinedOn:    joined,
		Status:      domain.MemberActive,
		AuditFields: domain.NewAuditFields(p.ActorID, now),
	}
	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.memberRepo.SaveMember(ctx, tx, member); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "members", member.MemberID, nil, member)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	s.LogInfo(ctx, "Member created", slog.String("member_id", member.MemberID), slog.String("branch_code", branch))
	return &member, nil
}

func (s *memberService) loadMember(ctx context.Context, p domain.Principal, memberID string, action domain.Action) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleMembers, action, member.BranchCode) {
		return nil, apperrors.NewNotFoundError("member")
	}
	return member, nil
}

func (s *memberService) GetMember(ctx context.Context, p domain.Principal, memberID string) (*domain.Member, error) {
	if err := s.perms.Authorize(p, domain.ModuleMembers, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.loadMember(ctx, p, memberID, domain.ActionRead)
}

func (s *memberService) ListMembers(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Member, error) {
	if err := s.perms.Authorize(p, domain.ModuleMembers, domain.ActionRead); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListMembers(ctx, scopedListFilter(s.perms, p, domain.ModuleMembers, params))
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func (s *memberService) UpdateMember(ctx context.Context, p domain.Principal, memberID string, req dto.UpdateMemberRequest) (*domain.Member, error) {
	if err := s.perms.Authorize(p, domain.ModuleMembers, domain.ActionUpdate); err != nil {
		return nil, err
	}
	existing, err := s.loadMember(ctx, p, memberID, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	updated := *existing
	setString(&updated.FullName, req.FullName)
	setString(&updated.Phone, req.Phone)
	setString(&updated.Address, req.Address)
	if req.Email != nil {
		updated.Email = optionalString(req.Email)
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	updated.Touch(p.ActorID, s.now())

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.memberRepo.UpdateMember(ctx, tx, updated); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUpdate, "members", memberID, existing, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update member %s: %w", memberID, err)
	}
	return &updated, nil
}

func (s *memberService) DeleteMember(ctx context.Context, p domain.Principal, memberID string) error {
	if err := s.perms.Authorize(p, domain.ModuleMembers, domain.ActionDelete); err != nil {
		return err
	}
	existing, err := s.loadMember(ctx, p, memberID, domain.ActionDelete)
	if err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		n, err := s.memberRepo.CountMemberContributions(ctx, tx, memberID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("member has %d contribution(s) and cannot be deleted; mark it inactive instead", n))
		}
		if err := s.memberRepo.DeleteMember(ctx, tx, memberID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditDelete, "members", memberID, existing, nil)
	})
}

// EnrollMember links a member to an active project. Both must be visible to the caller, and
// enrolling counts as creating membership data.
func (s *memberService) EnrollMember(ctx context.Context, p domain.Principal, memberID string, req dto.EnrollMemberRequest) (*domain.Enrollment, error) {
	if err := s.perms.Authorize(p, domain.ModuleMembers, domain.ActionCreate); err != nil {
		return nil, err
	}
	member, err := s.loadMember(ctx, p, memberID, domain.ActionCreate)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID)
	if err != nil {
		return nil, referenceError(err, "project does not exist")
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleMembers, domain.ActionCreate, project.BranchCode) {
		return nil, apperrors.NewMissingReferenceError("project does not exist")
	}
	if !project.IsActive {
		return nil, apperrors.NewValidationFailedError("project is not active")
	}
	if member.Status != domain.MemberActive {
		return nil, apperrors.NewValidationFailedError("member is not active")
	}

	enrollment := domain.Enrollment{
		MemberID:   memberID,
		ProjectID:  project.ProjectID,
		EnrolledAt: s.now(),
		EnrolledBy: p.ActorID,
	}
	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		enrolled, err := s.memberRepo.IsMemberEnrolled(ctx, tx, memberID, project.ProjectID)
		if err != nil {
			return err
		}
		if enrolled {
			return apperrors.NewConflictError("member is already enrolled in this project")
		}
		if err := s.memberRepo.SaveEnrollment(ctx, tx, enrollment); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "member_projects", memberID+":"+project.ProjectID, nil, enrollment)
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (s *memberService) ListMemberProjects(ctx context.Context, p domain.Principal, memberID string) ([]domain.Project, error) {
	if err := s.perms.Authorize(p, domain.ModuleMembers, domain.ActionRead); err != nil {
		return nil, err
	}
	if _, err := s.loadMember(ctx, p, memberID, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.memberRepo.ListMemberProjects(ctx, memberID)
}

type projectService struct {
	BaseService
	perms       portssvc.PermissionSvc
	audit       *AuditRecorder
	projectRepo portsrepo.ProjectRepositoryFacade
	branchRepo  portsrepo.BranchReader
}

// NewProjectService creates the project service.
func NewProjectService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc, audit *AuditRecorder) portssvc.ProjectSvcFacade {
	return &projectService{
		BaseService: newBaseService(repos.TxManager),
		perms:       perms,
		audit:       audit,
		projectRepo: repos.ProjectRepo,
		branchRepo:  repos.BranchRepo,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, p domain.Principal, req dto.CreateProjectRequest) (*domain.Project, error) {
	if err := s.perms.Authorize(p, domain.ModuleProjects, domain.ActionCreate); err != nil {
		return nil, err
	}
	branch, err := s.perms.ResolveBranch(p, domain.ModuleProjects, domain.ActionCreate, req.BranchCode)
	if err != nil {
		return nil, err
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, apperrors.NewValidationFailedError("end date must not be before start date")
	}
	if _, err := s.branchRepo.FindBranchByCode(ctx, branch); err != nil {
		return nil, referenceError(err, fmt.Sprintf("branch %s does not exist", branch))
	}

	project := domain.Project{
		ProjectID:   uuid.NewString(),
		BranchCode:  branch,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(p.ActorID, s.now()),
	}
	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.projectRepo.SaveProject(ctx, tx, project); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "projects", project.ProjectID, nil, project)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

func (s *projectService) loadProject(ctx context.Context, p domain.Principal, projectID string, action domain.Action) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleProjects, action, project.BranchCode) {
		return nil, apperrors.NewNotFoundError("project")
	}
	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, p domain.Principal, projectID string) (*domain.Project, error) {
	if err := s.perms.Authorize(p, domain.ModuleProjects, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.loadProject(ctx, p, projectID, domain.ActionRead)
}

func (s *projectService) ListProjects(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Project, error) {
	if err := s.perms.Authorize(p, domain.ModuleProjects, domain.ActionRead); err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.ListProjects(ctx, scopedListFilter(s.perms, p, domain.ModuleProjects, params))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *projectService) UpdateProject(ctx context.Context, p domain.Principal, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error) {
	if err := s.perms.Authorize(p, domain.ModuleProjects, domain.ActionUpdate); err != nil {
		return nil, err
	}
	existing, err := s.loadProject(ctx, p, projectID, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	updated := *existing
	setString(&updated.Name, req.Name)
	setString(&updated.Description, req.Description)
	if req.EndDate != nil {
		if req.EndDate.Before(updated.StartDate) {
			return nil, apperrors.NewValidationFailedError("end date must not be before start date")
		}
		updated.EndDate = req.EndDate
	}
	setBool(&updated.IsActive, req.IsActive)
	updated.Touch(p.ActorID, s.now())

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.projectRepo.UpdateProject(ctx, tx, updated); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUpdate, "projects", projectID, existing, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", projectID, err)
	}
	return &updated, nil
}
