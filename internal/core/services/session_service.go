package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/platform/metrics"
	"github.com/SscSPs/branch_finance_admin/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// sessionService signs actors in and rotates their refresh credentials. Lockout bookkeeping,
// login history and credential writes share the transaction of the attempt that caused them.
type sessionService struct {
	BaseService
	actorRepo   portsrepo.ActorRepositoryFacade
	roleRepo    portsrepo.RoleReader
	sessionRepo portsrepo.SessionRepositoryFacade
	tokens      portssvc.TokenSvc
	google      portssvc.GoogleOAuthSvc
	maxAttempts int
	metrics     *metrics.Metrics
}

// SessionOption configures the session service.
type SessionOption func(*sessionService)

// WithMaxLoginAttempts sets the number of consecutive failures that locks an actor.
func WithMaxLoginAttempts(n int) SessionOption {
	return func(s *sessionService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithSessionMetrics counts login failures, lockouts and rejected refresh tokens.
func WithSessionMetrics(m *metrics.Metrics) SessionOption {
	return func(s *sessionService) {
		s.metrics = m
	}
}

// WithGoogleSignIn enables LoginWithGoogle.
func WithGoogleSignIn(google portssvc.GoogleOAuthSvc) SessionOption {
	return func(s *sessionService) {
		s.google = google
	}
}

// NewSessionService creates the session manager.
func NewSessionService(repos portsrepo.RepositoryProvider, tokens portssvc.TokenSvc, opts ...SessionOption) portssvc.SessionSvcFacade {
	s := &sessionService{
		BaseService: newBaseService(repos.TxManager),
		actorRepo:   repos.ActorRepo,
		roleRepo:    repos.RoleRepo,
		sessionRepo: repos.SessionRepo,
		tokens:      tokens,
		maxAttempts: domain.DefaultMaxLoginAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

// errRejected marks attempts whose bookkeeping must be committed even though the call fails.
type errRejected struct {
	err error
}

func (e *errRejected) Error() string { return e.err.Error() }
func (e *errRejected) Unwrap() error { return e.err }

func reject(err error) error {
	return &errRejected{err: err}
}

// runAttempt executes fn in a transaction. Rejections returned by fn are committed, so lockout
// counters, history and consumed refresh tokens persist; any other error rolls back.
func (s *sessionService) runAttempt(ctx context.Context, fn func(tx pgx.Tx) (*domain.Session, error)) (*domain.Session, error) {
	var (
		session  *domain.Session
		rejected *errRejected
	)
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		session, err = fn(tx)
		if errors.As(err, &rejected) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if rejected != nil {
		return nil, rejected.err
	}
	return session, nil
}

func (s *sessionService) saveHistory(ctx context.Context, tx pgx.Tx, actorID *string, username string, success bool, reason string, meta domain.ClientMeta) error {
	entry := domain.LoginHistory{
		ID:          uuid.NewString(),
		ActorID:     actorID,
		Username:    username,
		Success:     success,
		Reason:      reason,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		AttemptedAt: s.now(),
	}
	if err := s.sessionRepo.SaveLoginHistory(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}

// Login authenticates with username and password.
func (s *sessionService) Login(ctx context.Context, username, password string, meta domain.ClientMeta) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	return s.runAttempt(ctx, func(tx pgx.Tx) (*domain.Session, error) {
		actor, err := s.actorRepo.FindActorByUsernameForUpdate(ctx, tx, username)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("failed to load actor: %w", err)
			}
			utils.BurnPasswordCheck(password)
			if err := s.saveHistory(ctx, tx, nil, username, false, domain.LoginReasonUnknownUser, meta); err != nil {
				return nil, err
			}
			s.LogInfo(ctx, "Login rejected", slog.String("username", username), slog.String("reason", domain.LoginReasonUnknownUser))
			return nil, reject(apperrors.ErrInvalidCredentials)
		}

		if err := s.checkActorUsable(ctx, tx, actor, username, meta); err != nil {
			return nil, err
		}

		if !utils.CheckPasswordHash(password, actor.PasswordHash) {
			attempts, locked, err := s.actorRepo.RecordFailedLogin(ctx, tx, actor.ActorID, s.maxAttempts)
			if err != nil {
				return nil, fmt.Errorf("failed to record failed login: %w", err)
			}
			reason := domain.LoginReasonBadPassword
			if locked {
				reason = domain.LoginReasonLockedNow
			}
			if err := s.saveHistory(ctx, tx, &actor.ActorID, username, false, reason, meta); err != nil {
				return nil, err
			}
			s.metrics.LoginFailed(locked)
			s.LogInfo(ctx, "Login rejected", slog.String("actor_id", actor.ActorID), slog.String("reason", reason), slog.Int("failed_attempts", attempts))
			if locked {
				return nil, reject(apperrors.ErrAccountLocked)
			}
			return nil, reject(apperrors.ErrInvalidCredentials)
		}

		return s.completeLogin(ctx, tx, actor, username, meta)
	})
}

// LoginWithGoogle signs in the actor whose email matches a verified Google ID token.
func (s *sessionService) LoginWithGoogle(ctx context.Context, idToken string, meta domain.ClientMeta) (*domain.Session, error) {
	if s.google == nil || !s.google.Enabled() {
		return nil, apperrors.NewUnauthorizedError("Google sign-in is not enabled")
	}
	identity, err := s.google.ValidateGoogleIDToken(ctx, idToken)
	if err != nil {
		s.LogError(ctx, err, "Google ID token rejected")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	if !identity.EmailVerified {
		return nil, apperrors.NewUnauthorizedError("Google account email is not verified")
	}

	return s.runAttempt(ctx, func(tx pgx.Tx) (*domain.Session, error) {
		actor, err := s.actorRepo.FindActorByEmailForUpdate(ctx, tx, identity.Email)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("failed to load actor: %w", err)
			}
			if err := s.saveHistory(ctx, tx, nil, identity.Email, false, domain.LoginReasonGoogleNoMatch, meta); err != nil {
				return nil, err
			}
			return nil, reject(apperrors.NewUnauthorizedError("no account is registered for this Google email"))
		}
		if err := s.checkActorUsable(ctx, tx, actor, actor.Username, meta); err != nil {
			return nil, err
		}
		return s.completeLogin(ctx, tx, actor, actor.Username, meta)
	})
}

// checkActorUsable rejects inactive or locked actors, recording the attempt.
func (s *sessionService) checkActorUsable(ctx context.Context, tx pgx.Tx, actor *domain.Actor, username string, meta domain.ClientMeta) error {
	var (
		reason string
		cause  error
	)
	switch {
	case !actor.IsActive:
		reason, cause = domain.LoginReasonInactive, apperrors.NewUnauthorizedError("account is disabled")
	case actor.IsLocked:
		reason, cause = domain.LoginReasonLocked, apperrors.ErrAccountLocked
	default:
		return nil
	}
	if err := s.saveHistory(ctx, tx, &actor.ActorID, username, false, reason, meta); err != nil {
		return err
	}
	s.LogInfo(ctx, "Login rejected", slog.String("actor_id", actor.ActorID), slog.String("reason", reason))
	return reject(cause)
}

// completeLogin checks the role, resets the failure counter and issues a credential pair.
func (s *sessionService) completeLogin(ctx context.Context, tx pgx.Tx, actor *domain.Actor, username string, meta domain.ClientMeta) (*domain.Session, error) {
	role, err := s.activeRole(ctx, actor.RoleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			if histErr := s.saveHistory(ctx, tx, &actor.ActorID, username, false, domain.LoginReasonRoleInactive, meta); histErr != nil {
				return nil, histErr
			}
			return nil, reject(err)
		}
		return nil, err
	}

	now := s.now()
	if err := s.actorRepo.RecordSuccessfulLogin(ctx, tx, actor.ActorID, now); err != nil {
		return nil, fmt.Errorf("failed to record successful login: %w", err)
	}
	if err := s.saveHistory(ctx, tx, &actor.ActorID, username, true, "", meta); err != nil {
		return nil, err
	}
	actor.FailedAttempts = 0
	actor.LastLoginAt = &now

	pair, err := s.issue(ctx, tx, actor, role, meta)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Login succeeded", slog.String("actor_id", actor.ActorID))
	return &domain.Session{Actor: *actor, Role: *role, Tokens: *pair}, nil
}

func (s *sessionService) activeRole(ctx context.Context, roleID string) (*domain.Role, error) {
	role, err := s.roleRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewForbiddenError("role is inactive")
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	if !role.IsActive {
		return nil, apperrors.NewForbiddenError("role is inactive")
	}
	return role, nil
}

// issue mints an access token and persists the hash of a fresh refresh token.
func (s *sessionService) issue(ctx context.Context, tx pgx.Tx, actor *domain.Actor, role *domain.Role, meta domain.ClientMeta) (*domain.TokenPair, error) {
	access, accessExpiry, err := s.tokens.GenerateAccessToken(actor, role)
	if err != nil {
		return nil, err
	}
	raw, hash, refreshExpiry, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	cred := domain.RefreshCredential{
		TokenID:   uuid.NewString(),
		ActorID:   actor.ActorID,
		TokenHash: hash,
		ExpiresAt: refreshExpiry,
		CreatedAt: s.now(),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.sessionRepo.SaveRefreshToken(ctx, tx, cred); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     raw,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is deleted on every
// path that finds it, so each token is usable at most once.
func (s *sessionService) Refresh(ctx context.Context, actorID, refreshToken string, meta domain.ClientMeta) (*domain.Session, error) {
	hash := utils.HashRefreshToken(refreshToken)
	return s.runAttempt(ctx, func(tx pgx.Tx) (*domain.Session, error) {
		cred, err := s.sessionRepo.FindRefreshTokenForUpdate(ctx, tx, hash)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.metrics.RefreshRejected("unknown")
				return nil, reject(apperrors.ErrInvalidRefreshToken)
			}
			return nil, fmt.Errorf("failed to load refresh token: %w", err)
		}
		if err := s.sessionRepo.DeleteRefreshToken(ctx, tx, cred.TokenID); err != nil {
			return nil, fmt.Errorf("failed to consume refresh token: %w", err)
		}

		if cred.ActorID != actorID {
			s.metrics.RefreshRejected("actor_mismatch")
			s.LogInfo(ctx, "Refresh token presented for another actor", slog.String("actor_id", actorID))
			return nil, reject(apperrors.ErrInvalidRefreshToken)
		}
		if cred.IsExpired(s.now()) {
			s.metrics.RefreshRejected("expired")
			return nil, reject(apperrors.ErrRefreshTokenExpired)
		}

		actor, err := s.actorRepo.FindActorByID(ctx, actorID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.metrics.RefreshRejected("unknown_actor")
				return nil, reject(apperrors.ErrInvalidRefreshToken)
			}
			return nil, fmt.Errorf("failed to load actor: %w", err)
		}
		if !actor.IsActive || actor.IsLocked {
			s.metrics.RefreshRejected("actor_disabled")
			return nil, reject(apperrors.NewUnauthorizedError("account is disabled or locked"))
		}
		role, err := s.activeRole(ctx, actor.RoleID)
		if err != nil {
			if errors.Is(err, apperrors.ErrForbidden) {
				s.metrics.RefreshRejected("role_inactive")
				return nil, reject(err)
			}
			return nil, err
		}

		pair, err := s.issue(ctx, tx, actor, role, meta)
		if err != nil {
			return nil, err
		}
		return &domain.Session{Actor: *actor, Role: *role, Tokens: *pair}, nil
	})
}

// Logout revokes one refresh token of the principal. Unknown tokens are ignored.
func (s *sessionService) Logout(ctx context.Context, principal domain.Principal, refreshToken string) error {
	n, err := s.sessionRepo.DeleteActorRefreshToken(ctx, nil, principal.ActorID, utils.HashRefreshToken(refreshToken))
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	s.LogDebug(ctx, "Refresh token revoked", slog.String("actor_id", principal.ActorID), slog.Int64("revoked", n))
	return nil
}

// PurgeExpiredRefreshTokens deletes refresh tokens past their expiry.
func (s *sessionService) PurgeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpiredRefreshTokens(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired refresh tokens: %w", err)
	}
	return n, nil
}
