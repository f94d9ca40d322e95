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
	"github.com/SscSPs/branch_finance_admin/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// bootstrapBranch is the head office branch seeded by the initial migration.
const bootstrapBranch = "00"

const defaultLoginHistoryLimit = 50

type actorService struct {
	BaseService
	perms       portssvc.PermissionSvc
	audit       *AuditRecorder
	actorRepo   portsrepo.ActorRepositoryFacade
	roleRepo    portsrepo.RoleReader
	branchRepo  portsrepo.BranchReader
	sessionRepo portsrepo.SessionRepositoryFacade
}

// NewActorService creates the service managing back-office users.
func NewActorService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc, audit *AuditRecorder) portssvc.ActorSvcFacade {
	return &actorService{
		BaseService: newBaseService(repos.TxManager),
		perms:       perms,
		audit:       audit,
		actorRepo:   repos.ActorRepo,
		roleRepo:    repos.RoleRepo,
		branchRepo:  repos.BranchRepo,
		sessionRepo: repos.SessionRepo,
	}
}

var _ portssvc.ActorSvcFacade = (*actorService)(nil)

func (s *actorService) CreateActor(ctx context.Context, p domain.Principal, req dto.CreateActorRequest) (*domain.Actor, error) {
	if err := s.perms.Authorize(p, domain.ModuleUsers, domain.ActionCreate); err != nil {
		return nil, err
	}
	branch, err := s.perms.ResolveBranch(p, domain.ModuleUsers, domain.ActionCreate, req.BranchCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.roleRepo.FindRoleByID(ctx, req.RoleID); err != nil {
		return nil, referenceError(err, "role does not exist")
	}
	if _, err := s.branchRepo.FindBranchByCode(ctx, branch); err != nil {
		return nil, referenceError(err, fmt.Sprintf("branch %s does not exist", branch))
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	actor := domain.Actor{
		ActorID:      uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        optionalString(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		RoleID:       req.RoleID,
		BranchCode:   branch,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(p.ActorID, s.now()),
	}
	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.actorRepo.SaveActor(ctx, tx, actor); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, "actors", actor.ActorID, nil, actor)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create actor %q: %w", actor.Username, err)
	}
	s.LogInfo(ctx, "Actor created", slog.String("actor_id", actor.ActorID), slog.String("branch_code", branch))
	return &actor, nil
}

// loadVisible returns the actor if p may act on it with action. Actors outside the caller's
// scope are reported as not found.
func (s *actorService) loadVisible(ctx context.Context, p domain.Principal, actorID string, action domain.Action) (*domain.Actor, error) {
	actor, err := s.actorRepo.FindActorByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleUsers, action, actor.BranchCode) {
		return nil, apperrors.NewNotFoundError("actor")
	}
	return actor, nil
}

func (s *actorService) GetActor(ctx context.Context, p domain.Principal, actorID string) (*domain.Actor, error) {
	if actorID == p.ActorID {
		return s.actorRepo.FindActorByID(ctx, actorID)
	}
	if err := s.perms.Authorize(p, domain.ModuleUsers, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.loadVisible(ctx, p, actorID, domain.ActionRead)
}

func (s *actorService) ListActors(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Actor, error) {
	if err := s.perms.Authorize(p, domain.ModuleUsers, domain.ActionRead); err != nil {
		return nil, err
	}
	actors, err := s.actorRepo.ListActors(ctx, scopedListFilter(s.perms, p, domain.ModuleUsers, params))
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	return actors, nil
}

// UpdateActor applies profile and administrative changes. Anyone may edit their own profile and
// password, but never their own role, branch or status flags.
func (s *actorService) UpdateActor(ctx context.Context, p domain.Principal, actorID string, req dto.UpdateActorRequest) (*domain.Actor, error) {
	self := actorID == p.ActorID
	var (
		existing *domain.Actor
		err      error
	)
	if self {
		if req.TouchesAdministrativeFields() {
			return nil, apperrors.NewForbiddenError("you cannot change your own role, branch or account status")
		}
		existing, err = s.actorRepo.FindActorByID(ctx, actorID)
	} else {
		if err := s.perms.Authorize(p, domain.ModuleUsers, domain.ActionUpdate); err != nil {
			return nil, err
		}
		existing, err = s.loadVisible(ctx, p, actorID, domain.ActionUpdate)
	}
	if err != nil {
		return nil, err
	}

	updated := *existing
	setString(&updated.FullName, req.FullName)
	if req.Email != nil {
		updated.Email = optionalString(req.Email)
	}
	if req.RoleID != nil && *req.RoleID != existing.RoleID {
		if _, err := s.roleRepo.FindRoleByID(ctx, *req.RoleID); err != nil {
			return nil, referenceError(err, "role does not exist")
		}
		updated.RoleID = *req.RoleID
	}
	if req.BranchCode != nil && *req.BranchCode != existing.BranchCode {
		branch, err := s.perms.ResolveBranch(p, domain.ModuleUsers, domain.ActionUpdate, *req.BranchCode)
		if err != nil {
			return nil, err
		}
		if _, err := s.branchRepo.FindBranchByCode(ctx, branch); err != nil {
			return nil, referenceError(err, fmt.Sprintf("branch %s does not exist", branch))
		}
		updated.BranchCode = branch
	}
	setBool(&updated.IsActive, req.IsActive)
	if req.IsLocked != nil {
		updated.IsLocked = *req.IsLocked
		if !updated.IsLocked {
			updated.FailedAttempts = 0
		}
	}
	passwordChanged := req.Password != nil
	if passwordChanged {
		if updated.PasswordHash, err = utils.HashPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}
	updated.Touch(p.ActorID, s.now())

	// Credentials issued before a password change or deactivation stop working immediately.
	revoke := passwordChanged || (existing.IsActive && !updated.IsActive) || (!existing.IsLocked && updated.IsLocked)

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.actorRepo.UpdateActor(ctx, tx, updated); err != nil {
			return err
		}
		if revoke {
			n, err := s.sessionRepo.DeleteAllActorRefreshTokens(ctx, tx, actorID)
			if err != nil {
				return err
			}
			s.LogDebug(ctx, "Revoked refresh tokens", slog.String("actor_id", actorID), slog.Int64("count", n))
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUpdate, "actors", actorID, existing, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update actor %s: %w", actorID, err)
	}
	return &updated, nil
}

func (s *actorService) DeleteActor(ctx context.Context, p domain.Principal, actorID string) error {
	if err := s.perms.Authorize(p, domain.ModuleUsers, domain.ActionDelete); err != nil {
		return err
	}
	if actorID == p.ActorID {
		return apperrors.NewForbiddenError("you cannot delete your own account")
	}
	existing, err := s.loadVisible(ctx, p, actorID, domain.ActionDelete)
	if err != nil {
		return err
	}

	return s.WithTx(ctx, func(tx pgx.Tx) error {
		n, err := s.actorRepo.CountOwnedRecords(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("actor %q created %d financial record(s); deactivate the account instead", existing.Username, n))
		}
		if _, err := s.sessionRepo.DeleteAllActorRefreshTokens(ctx, tx, actorID); err != nil {
			return err
		}
		if err := s.actorRepo.DeleteActor(ctx, tx, actorID); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditDelete, "actors", actorID, existing, nil)
	})
}

func (s *actorService) UnlockActor(ctx context.Context, p domain.Principal, actorID string) (*domain.Actor, error) {
	if err := s.perms.Authorize(p, domain.ModuleUsers, domain.ActionUnlock); err != nil {
		return nil, err
	}
	existing, err := s.loadVisible(ctx, p, actorID, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	unlocked := *existing
	unlocked.IsLocked = false
	unlocked.FailedAttempts = 0
	unlocked.Touch(p.ActorID, now)

	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.actorRepo.UnlockActor(ctx, tx, actorID, p.ActorID, now); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditUnlock, "actors", actorID, existing, unlocked)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unlock actor %s: %w", actorID, err)
	}
	s.LogInfo(ctx, "Actor unlocked", slog.String("actor_id", actorID), slog.String("by", p.ActorID))
	return &unlocked, nil
}

func (s *actorService) ListLoginHistory(ctx context.Context, p domain.Principal, actorID string, limit int) ([]domain.LoginHistory, error) {
	if actorID != p.ActorID {
		if err := s.perms.Authorize(p, domain.ModuleUsers, domain.ActionRead); err != nil {
			return nil, err
		}
		if _, err := s.loadVisible(ctx, p, actorID, domain.ActionRead); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = defaultLoginHistoryLimit
	}
	return s.sessionRepo.ListLoginHistory(ctx, actorID, limit)
}

// EnsureBootstrapAdmin creates the first administrator when the actor table is empty. It does
// nothing when credentials are not configured or any actor already exists.
func (s *actorService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.LogDebug(ctx, "Bootstrap administrator not configured")
		return nil
	}
	n, err := s.actorRepo.CountActors(ctx)
	if err != nil {
		return fmt.Errorf("failed to count actors: %w", err)
	}
	if n > 0 {
		return nil
	}
	role, err := s.roleRepo.FindRoleByName(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to load %s role: %w", domain.RoleAdmin, err)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	system := domain.SystemPrincipal()
	actor := domain.Actor{
		ActorID:      uuid.NewString(),
		Username:     username,
		FullName:     "Administrator",
		PasswordHash: hash,
		RoleID:       role.RoleID,
		BranchCode:   bootstrapBranch,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(system.ActorID, s.now()),
	}
	err = s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.actorRepo.SaveActor(ctx, tx, actor); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, system, domain.AuditCreate, "actors", actor.ActorID, nil, actor)
	})
	if err != nil {
		return fmt.Errorf("failed to create bootstrap administrator: %w", err)
	}
	s.LogInfo(ctx, "Bootstrap administrator created", slog.String("username", username))
	return nil
}
