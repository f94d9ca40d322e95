package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/core/services"
	"github.com/SscSPs/branch_finance_admin/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testPassword = "correct-password"

type SessionServiceTestSuite struct {
	suite.Suite
	txManager   *MockTxManager
	actorRepo   *MockActorRepository
	roleRepo    *MockRoleRepository
	sessionRepo *MockSessionRepository
	google      *MockGoogleOAuthSvc
	tokens      portssvc.TokenSvc
	service     portssvc.SessionSvcFacade
	actor       domain.Actor
	role        domain.Role
	meta        domain.ClientMeta
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.txManager = new(MockTxManager)
	suite.actorRepo = new(MockActorRepository)
	suite.roleRepo = new(MockRoleRepository)
	suite.sessionRepo = new(MockSessionRepository)
	suite.google = new(MockGoogleOAuthSvc)
	suite.tokens = services.NewTokenService(testConfig())
	suite.service = services.NewSessionService(portsrepo.RepositoryProvider{
		TxManager:   suite.txManager,
		ActorRepo:   suite.actorRepo,
		RoleRepo:    suite.roleRepo,
		SessionRepo: suite.sessionRepo,
	}, suite.tokens, services.WithMaxLoginAttempts(5), services.WithGoogleSignIn(suite.google))

	hash, err := utils.HashPassword(testPassword)
	suite.Require().NoError(err)
	suite.actor = domain.Actor{
		ActorID:      "actor-1",
		Username:     "cashier1",
		PasswordHash: hash,
		RoleID:       "role-cashier",
		BranchCode:   "01",
		IsActive:     true,
	}
	suite.role = domain.Role{
		RoleID:       "role-cashier",
		Name:         domain.RoleCashier,
		IsActive:     true,
		Capabilities: domain.CapabilityMap{domain.ModuleContributions: {domain.ActionCreate, domain.ActionRead}},
	}
	suite.meta = domain.ClientMeta{IPAddress: "10.0.0.1", UserAgent: "test"}
}

func (suite *SessionServiceTestSuite) historyWith(success bool, reason string) interface{} {
	return mock.MatchedBy(func(h domain.LoginHistory) bool {
		return h.Success == success && h.Reason == reason
	})
}

func (suite *SessionServiceTestSuite) expectSuccessfulIssue() {
	suite.roleRepo.On("FindRoleByID", mock.Anything, suite.role.RoleID).Return(&suite.role, nil).Once()
	suite.actorRepo.On("RecordSuccessfulLogin", mock.Anything, mock.Anything, suite.actor.ActorID, mock.Anything).Return(nil).Once()
	suite.sessionRepo.On("SaveLoginHistory", mock.Anything, mock.Anything, suite.historyWith(true, "")).Return(nil).Once()
	suite.sessionRepo.On("SaveRefreshToken", mock.Anything, mock.Anything, mock.AnythingOfType("domain.RefreshCredential")).Return(nil).Once()
}

func (suite *SessionServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	expectTx(suite.txManager)
	actor := suite.actor
	suite.actorRepo.On("FindActorByUsernameForUpdate", ctx, mock.Anything, "cashier1").Return(&actor, nil).Once()
	suite.expectSuccessfulIssue()

	session, err := suite.service.Login(ctx, "cashier1", testPassword, suite.meta)

	suite.Require().NoError(err)
	suite.NotEmpty(session.Tokens.AccessToken)
	suite.Len(session.Tokens.RefreshToken, 64)
	suite.Equal(0, session.Actor.FailedAttempts)

	claims, err := suite.tokens.ParseAccessToken(session.Tokens.AccessToken)
	suite.Require().NoError(err)
	suite.Equal("actor-1", claims.Principal.ActorID)
	suite.Equal("01", claims.Principal.BranchCode)

	suite.sessionRepo.AssertCalled(suite.T(), "SaveRefreshToken", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.RefreshCredential) bool {
		return c.ActorID == "actor-1" && c.TokenHash == utils.HashRefreshToken(session.Tokens.RefreshToken)
	}))
	suite.actorRepo.AssertExpectations(suite.T())
	suite.txManager.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestLogin_UnknownUsername() {
	ctx := context.Background()
	expectTx(suite.txManager)
	suite.actorRepo.On("FindActorByUsernameForUpdate", ctx, mock.Anything, "ghost").Return(nil, notFound("actor")).Once()
	suite.sessionRepo.On("SaveLoginHistory", ctx, mock.Anything, mock.MatchedBy(func(h domain.LoginHistory) bool {
		return h.ActorID == nil && h.Username == "ghost" && h.Reason == domain.LoginReasonUnknownUser
	})).Return(nil).Once()

	_, err := suite.service.Login(ctx, "ghost", "whatever", suite.meta)

	suite.ErrorIs(err, apperrors.ErrInvalidCredentials)
	suite.Equal(apperrors.KindAuth, apperrors.KindOf(err))
	suite.txManager.AssertExpectations(suite.T())
	suite.sessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestLogin_LocksOnFifthFailureAndStaysLocked() {
	ctx := context.Background()

	for attempt := 1; attempt <= 5; attempt++ {
		expectTx(suite.txManager)
		actor := suite.actor
		actor.FailedAttempts = attempt - 1
		suite.actorRepo.On("FindActorByUsernameForUpdate", ctx, mock.Anything, "cashier1").Return(&actor, nil).Once()
		locked := attempt == 5
		suite.actorRepo.On("RecordFailedLogin", ctx, mock.Anything, "actor-1", 5).Return(attempt, locked, nil).Once()
		reason := domain.LoginReasonBadPassword
		if locked {
			reason = domain.LoginReasonLockedNow
		}
		suite.sessionRepo.On("SaveLoginHistory", ctx, mock.Anything, suite.historyWith(false, reason)).Return(nil).Once()

		_, err := suite.service.Login(ctx, "cashier1", "wrong-password", suite.meta)
		if locked {
			suite.ErrorIs(err, apperrors.ErrAccountLocked, "attempt %d", attempt)
		} else {
			suite.ErrorIs(err, apperrors.ErrInvalidCredentials, "attempt %d", attempt)
		}
	}

	// The correct password no longer works until an administrator unlocks the account.
	expectTx(suite.txManager)
	lockedActor := suite.actor
	lockedActor.IsLocked = true
	lockedActor.FailedAttempts = 5
	suite.actorRepo.On("FindActorByUsernameForUpdate", ctx, mock.Anything, "cashier1").Return(&lockedActor, nil).Once()
	suite.sessionRepo.On("SaveLoginHistory", ctx, mock.Anything, suite.historyWith(false, domain.LoginReasonLocked)).Return(nil).Once()

	_, err := suite.service.Login(ctx, "cashier1", testPassword, suite.meta)

	suite.ErrorIs(err, apperrors.ErrAccountLocked)
	suite.Equal(apperrors.KindAccountLocked, apperrors.KindOf(err))
	suite.actorRepo.AssertNotCalled(suite.T(), "RecordSuccessfulLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.actorRepo.AssertExpectations(suite.T())
	suite.txManager.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestLogin_InactiveActor() {
	ctx := context.Background()
	expectTx(suite.txManager)
	actor := suite.actor
	actor.IsActive = false
	suite.actorRepo.On("FindActorByUsernameForUpdate", ctx, mock.Anything, "cashier1").Return(&actor, nil).Once()
	suite.sessionRepo.On("SaveLoginHistory", ctx, mock.Anything, suite.historyWith(false, domain.LoginReasonInactive)).Return(nil).Once()

	_, err := suite.service.Login(ctx, "cashier1", testPassword, suite.meta)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Contains(err.Error(), "account is disabled")
}

func (suite *SessionServiceTestSuite) TestLogin_InactiveRole() {
	ctx := context.Background()
	expectTx(suite.txManager)
	actor := suite.actor
	role := suite.role
	role.IsActive = false
	suite.actorRepo.On("FindActorByUsernameForUpdate", ctx, mock.Anything, "cashier1").Return(&actor, nil).Once()
	suite.roleRepo.On("FindRoleByID", ctx, role.RoleID).Return(&role, nil).Once()
	suite.sessionRepo.On("SaveLoginHistory", ctx, mock.Anything, suite.historyWith(false, domain.LoginReasonRoleInactive)).Return(nil).Once()

	_, err := suite.service.Login(ctx, "cashier1", testPassword, suite.meta)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.sessionRepo.AssertNotCalled(suite.T(), "SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestLogin_StoreFailureRollsBack() {
	ctx := context.Background()
	expectFailedTx(suite.txManager)
	suite.actorRepo.On("FindActorByUsernameForUpdate", ctx, mock.Anything, "cashier1").Return(nil, apperrors.ErrStore).Once()

	_, err := suite.service.Login(ctx, "cashier1", testPassword, suite.meta)

	suite.ErrorIs(err, apperrors.ErrStore)
	suite.txManager.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) credentialFor(raw string, actorID string, expiresAt time.Time) *domain.RefreshCredential {
	return &domain.RefreshCredential{
		TokenID:   "token-" + raw[:4],
		ActorID:   actorID,
		TokenHash: utils.HashRefreshToken(raw),
		ExpiresAt: expiresAt,
	}
}

func (suite *SessionServiceTestSuite) TestRefresh_RotationIsSingleUse() {
	ctx := context.Background()
	raw := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hash := utils.HashRefreshToken(raw)
	cred := suite.credentialFor(raw, "actor-1", time.Now().Add(time.Hour))
	actor := suite.actor

	// First use rotates.
	expectTx(suite.txManager)
	suite.sessionRepo.On("FindRefreshTokenForUpdate", ctx, mock.Anything, hash).Return(cred, nil).Once()
	suite.sessionRepo.On("DeleteRefreshToken", ctx, mock.Anything, cred.TokenID).Return(nil).Once()
	suite.actorRepo.On("FindActorByID", ctx, "actor-1").Return(&actor, nil).Once()
	suite.roleRepo.On("FindRoleByID", ctx, suite.role.RoleID).Return(&suite.role, nil).Once()
	suite.sessionRepo.On("SaveRefreshToken", ctx, mock.Anything, mock.AnythingOfType("domain.RefreshCredential")).Return(nil).Once()

	session, err := suite.service.Refresh(ctx, "actor-1", raw, suite.meta)
	suite.Require().NoError(err)
	suite.NotEqual(raw, session.Tokens.RefreshToken)

	// The consumed token is gone, so a replay is rejected.
	expectTx(suite.txManager)
	suite.sessionRepo.On("FindRefreshTokenForUpdate", ctx, mock.Anything, hash).Return(nil, notFound("refresh token")).Once()

	_, err = suite.service.Refresh(ctx, "actor-1", raw, suite.meta)
	suite.ErrorIs(err, apperrors.ErrInvalidRefreshToken)
	suite.Equal(apperrors.KindTokenInvalid, apperrors.KindOf(err))

	suite.sessionRepo.AssertExpectations(suite.T())
	suite.txManager.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestRefresh_MismatchedActorStillConsumesToken() {
	ctx := context.Background()
	raw := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	cred := suite.credentialFor(raw, "actor-1", time.Now().Add(time.Hour))

	expectTx(suite.txManager)
	suite.sessionRepo.On("FindRefreshTokenForUpdate", ctx, mock.Anything, cred.TokenHash).Return(cred, nil).Once()
	suite.sessionRepo.On("DeleteRefreshToken", ctx, mock.Anything, cred.TokenID).Return(nil).Once()

	_, err := suite.service.Refresh(ctx, "actor-2", raw, suite.meta)

	suite.ErrorIs(err, apperrors.ErrInvalidRefreshToken)
	suite.sessionRepo.AssertExpectations(suite.T())
	// The deletion is committed even though the call failed.
	suite.txManager.AssertCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestRefresh_ExpiredTokenIsDeleted() {
	ctx := context.Background()
	raw := "cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"
	cred := suite.credentialFor(raw, "actor-1", time.Now().Add(-time.Minute))

	expectTx(suite.txManager)
	suite.sessionRepo.On("FindRefreshTokenForUpdate", ctx, mock.Anything, cred.TokenHash).Return(cred, nil).Once()
	suite.sessionRepo.On("DeleteRefreshToken", ctx, mock.Anything, cred.TokenID).Return(nil).Once()

	_, err := suite.service.Refresh(ctx, "actor-1", raw, suite.meta)

	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
	suite.Equal(apperrors.KindTokenExpired, apperrors.KindOf(err))
	suite.sessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestRefresh_LockedActorRejected() {
	ctx := context.Background()
	raw := "dddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddd"
	cred := suite.credentialFor(raw, "actor-1", time.Now().Add(time.Hour))
	actor := suite.actor
	actor.IsLocked = true

	expectTx(suite.txManager)
	suite.sessionRepo.On("FindRefreshTokenForUpdate", ctx, mock.Anything, cred.TokenHash).Return(cred, nil).Once()
	suite.sessionRepo.On("DeleteRefreshToken", ctx, mock.Anything, cred.TokenID).Return(nil).Once()
	suite.actorRepo.On("FindActorByID", ctx, "actor-1").Return(&actor, nil).Once()

	_, err := suite.service.Refresh(ctx, "actor-1", raw, suite.meta)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.sessionRepo.AssertNotCalled(suite.T(), "SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestLogout_RevokesOnlyThatToken() {
	ctx := context.Background()
	p := domain.Principal{ActorID: "actor-1"}
	suite.sessionRepo.On("DeleteActorRefreshToken", ctx, mock.Anything, "actor-1", utils.HashRefreshToken("raw-token")).Return(int64(1), nil).Once()
	suite.sessionRepo.On("DeleteActorRefreshToken", ctx, mock.Anything, "actor-1", utils.HashRefreshToken("raw-token")).Return(int64(0), nil).Once()

	suite.NoError(suite.service.Logout(ctx, p, "raw-token"))
	suite.NoError(suite.service.Logout(ctx, p, "raw-token"))
	suite.sessionRepo.AssertNotCalled(suite.T(), "DeleteAllActorRefreshTokens", mock.Anything, mock.Anything, mock.Anything)
	suite.sessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestLoginWithGoogle() {
	ctx := context.Background()
	suite.google.On("Enabled").Return(true)
	suite.google.On("ValidateGoogleIDToken", ctx, "id-token").Return(&portssvc.GoogleIdentity{
		Subject: "g-1", Email: "cashier@example.org", EmailVerified: true,
	}, nil).Once()

	expectTx(suite.txManager)
	actor := suite.actor
	suite.actorRepo.On("FindActorByEmailForUpdate", ctx, mock.Anything, "cashier@example.org").Return(&actor, nil).Once()
	suite.expectSuccessfulIssue()

	session, err := suite.service.LoginWithGoogle(ctx, "id-token", suite.meta)

	suite.Require().NoError(err)
	suite.Equal("actor-1", session.Actor.ActorID)
	suite.google.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestLoginWithGoogle_UnverifiedEmail() {
	ctx := context.Background()
	suite.google.On("Enabled").Return(true)
	suite.google.On("ValidateGoogleIDToken", ctx, "id-token").Return(&portssvc.GoogleIdentity{
		Email: "cashier@example.org", EmailVerified: false,
	}, nil).Once()

	_, err := suite.service.LoginWithGoogle(ctx, "id-token", suite.meta)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.txManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *SessionServiceTestSuite) TestPurgeExpiredRefreshTokens() {
	ctx := context.Background()
	suite.sessionRepo.On("DeleteExpiredRefreshTokens", ctx, mock.AnythingOfType("time.Time")).Return(int64(3), nil).Once()

	n, err := suite.service.PurgeExpiredRefreshTokens(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(3), n)
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
