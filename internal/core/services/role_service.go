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

type roleService struct {
	BaseService
	perms    portssvc.PermissionSvc
	audit    *AuditRecorder
	roleRepo portsrepo.RoleRepositoryFacade
}

// NewRoleService creates the role service.
func NewRoleService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc, audit *AuditRecorder) portssvc.RoleSvcFacade {
	return &roleService{
		BaseService: newBaseService(repos.TxManager),
		perms:       perms,
		audit:       audit,
		roleRepo:    repos.RoleRepo,
	}
}

var _ portssvc.RoleSvcFacade = (*roleService)(nil)

func validateCapabilities(raw map[string][]string) (domain.CapabilityMap, error) {
	caps, err := domain.ValidateCapabilities(raw)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	return caps, nil
}

func (s *roleService) CreateRole(ctx context.Context, p domain.Principal, req dto.CreateRoleRequest) (*domain.Role, error) {
	if err := s.perms.Authorize(p, domain.ModuleRoles, domain.ActionCreate); err != nil {
		return nil, err
	}
	caps, err := validateCapabilities(req.Capabilities)
	if err != nil {
		return nil, err
	}

	role := domain.Role{
		RoleID:       uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Capabilities: caps,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(p.ActorID, s.now()),
	}
	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.roleRepo.SaveRole(ctx, tx, role); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "roles", role.RoleID, nil, role)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create role %q: %w", role.Name, err)
	}
	s.LogInfo(ctx, "Role created", slog.String("role_id", role.RoleID), slog.String("name", role.Name))
	return &role, nil
}

func (s *roleService) GetRole(ctx context.Context, p domain.Principal, roleID string) (*domain.Role, error) {
	if err := s.perms.Authorize(p, domain.ModuleRoles, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.roleRepo.FindRoleByID(ctx, roleID)
}

func (s *roleService) ListRoles(ctx context.Context, p domain.Principal) ([]domain.Role, error) {
	if err := s.perms.Authorize(p, domain.ModuleRoles, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.roleRepo.ListRoles(ctx)
}

func (s *roleService) UpdateRole(ctx context.Context, p domain.Principal, roleID string, req dto.UpdateRoleRequest) (*domain.Role, error) {
	if err := s.perms.Authorize(p, domain.ModuleRoles, domain.ActionUpdate); err != nil {
		return nil, err
	}
	existing, err := s.roleRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if existing.IsSystem {
		return nil, apperrors.NewForbiddenError("system roles cannot be modified")
	}

	updated := *existing
	setString(&updated.Name, req.Name)
	setString(&updated.Description, req.Description)
	setBool(&updated.IsActive, req.IsActive)
	if req.Capabilities != nil {
		if updated.Capabilities, err = validateCapabilities(req.Capabilities); err != nil {
			return nil, err
		}
	}
	updated.Touch(p.ActorID, s.now())

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.roleRepo.UpdateRole(ctx, tx, updated); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUpdate, "roles", roleID, existing, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update role %s: %w", roleID, err)
	}
	return &updated, nil
}

func (s *roleService) DeleteRole(ctx context.Context, p domain.Principal, roleID string) error {
	if err := s.perms.Authorize(p, domain.ModuleRoles, domain.ActionDelete); err != nil {
		return err
	}
	existing, err := s.roleRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if existing.IsSystem {
		return apperrors.NewForbiddenError("system roles cannot be deleted")
	}

	return s.WithTx(ctx, func(tx pgx.Tx) error {
		n, err := s.roleRepo.CountActorsWithRole(ctx, tx, roleID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("role %q is assigned to %d user(s)", existing.Name, n))
		}
		if err := s.roleRepo.DeleteRole(ctx, tx, roleID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditDelete, "roles", roleID, existing, nil)
	})
}
