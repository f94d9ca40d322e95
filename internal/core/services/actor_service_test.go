package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/core/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/SscSPs/branch_finance_admin/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ActorServiceTestSuite struct {
	suite.Suite
	txManager   *MockTxManager
	actorRepo   *MockActorRepository
	roleRepo    *MockRoleRepository
	branchRepo  *MockBranchRepository
	sessionRepo *MockSessionRepository
	auditRepo   *recordingAuditRepo
	service     portssvc.ActorSvcFacade
}

func (suite *ActorServiceTestSuite) SetupTest() {
	suite.txManager = new(MockTxManager)
	suite.actorRepo = new(MockActorRepository)
	suite.roleRepo = new(MockRoleRepository)
	suite.branchRepo = new(MockBranchRepository)
	suite.sessionRepo = new(MockSessionRepository)
	suite.auditRepo = &recordingAuditRepo{}
	suite.service = services.NewActorService(portsrepo.RepositoryProvider{
		TxManager:   suite.txManager,
		ActorRepo:   suite.actorRepo,
		RoleRepo:    suite.roleRepo,
		BranchRepo:  suite.branchRepo,
		SessionRepo: suite.sessionRepo,
	}, services.NewPermissionService(), services.NewAuditRecorder(suite.auditRepo, nil))
}

func supervisorPrincipal(branch string) domain.Principal {
	return domain.Principal{
		ActorID:    "actor-supervisor",
		Username:   "supervisor1",
		RoleID:     "role-supervisor",
		RoleName:   domain.RoleSupervisor,
		RoleActive: true,
		BranchCode: branch,
		Capabilities: domain.CapabilityMap{
			domain.ModuleUsers: {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete, domain.ActionUnlock},
		},
	}
}

func (suite *ActorServiceTestSuite) TestCreateActor_DefaultsToCallerBranchAndHashesPassword() {
	ctx := context.Background()
	suite.roleRepo.On("FindRoleByID", ctx, "8f0b7c1e-2f4a-4c55-9d8e-0a1b2c3d4e5f").Return(&domain.Role{RoleID: "8f0b7c1e-2f4a-4c55-9d8e-0a1b2c3d4e5f", IsActive: true}, nil)
	suite.branchRepo.On("FindBranchByCode", ctx, "01").Return(&domain.Branch{Code: "01", IsActive: true}, nil)
	expectTx(suite.txManager)
	var saved domain.Actor
	suite.actorRepo.On("SaveActor", ctx, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(2).(domain.Actor)
	}).Return(nil).Once()

	actor, err := suite.service.CreateActor(ctx, supervisorPrincipal("01"), dto.CreateActorRequest{
		Username: "cashier2",
		Password: "correct horse",
		FullName: "Second Cashier",
		RoleID:   "8f0b7c1e-2f4a-4c55-9d8e-0a1b2c3d4e5f",
	})

	suite.Require().NoError(err)
	suite.Equal("01", actor.BranchCode)
	suite.True(actor.IsActive)
	suite.NotEqual("correct horse", saved.PasswordHash)
	suite.True(utils.CheckPasswordHash("correct horse", saved.PasswordHash))
	suite.Equal([]domain.AuditAction{domain.AuditCreate}, suite.auditRepo.actions())
	suite.NotContains(string(suite.auditRepo.entries[0].After), saved.PasswordHash)
}

func (suite *ActorServiceTestSuite) TestCreateActor_OtherBranchNeedsWideScope() {
	_, err := suite.service.CreateActor(context.Background(), supervisorPrincipal("01"), dto.CreateActorRequest{
		Username:   "cashier3",
		Password:   "correct horse",
		RoleID:     "8f0b7c1e-2f4a-4c55-9d8e-0a1b2c3d4e5f",
		BranchCode: "02",
	})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.roleRepo.AssertNotCalled(suite.T(), "FindRoleByID", mock.Anything, mock.Anything)
}

func (suite *ActorServiceTestSuite) TestGetActor_OutOfScopeIsNotFound() {
	ctx := context.Background()
	suite.actorRepo.On("FindActorByID", ctx, "actor-x").Return(&domain.Actor{ActorID: "actor-x", BranchCode: "02"}, nil)

	_, err := suite.service.GetActor(ctx, supervisorPrincipal("01"), "actor-x")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ActorServiceTestSuite) TestSelfService_ProfileAllowedWithoutPermission() {
	ctx := context.Background()
	p := cashierPrincipal("01")
	suite.actorRepo.On("FindActorByID", ctx, p.ActorID).Return(&domain.Actor{ActorID: p.ActorID, FullName: "Old", BranchCode: "01", IsActive: true}, nil)
	expectTx(suite.txManager)
	suite.actorRepo.On("UpdateActor", ctx, mock.Anything, mock.MatchedBy(func(a domain.Actor) bool {
		return a.FullName == "New Name" && a.PasswordHash != ""
	})).Return(nil).Once()
	suite.sessionRepo.On("DeleteAllActorRefreshTokens", ctx, mock.Anything, p.ActorID).Return(int64(2), nil).Once()

	got, err := suite.service.GetActor(ctx, p, p.ActorID)
	suite.Require().NoError(err)
	suite.Equal("Old", got.FullName)

	updated, err := suite.service.UpdateActor(ctx, p, p.ActorID, dto.UpdateActorRequest{
		FullName: strPtr("New Name"),
		Password: strPtr("another secret"),
	})
	suite.Require().NoError(err)
	suite.Equal("New Name", updated.FullName)
	suite.sessionRepo.AssertExpectations(suite.T())
}

func (suite *ActorServiceTestSuite) TestSelfService_CannotChangeAdministrativeFields() {
	p := adminPrincipal()
	active := false
	requests := []dto.UpdateActorRequest{
		{RoleID: strPtr("8f0b7c1e-2f4a-4c55-9d8e-0a1b2c3d4e5f")},
		{BranchCode: strPtr("02")},
		{IsActive: &active},
		{IsLocked: &active},
	}
	for _, req := range requests {
		_, err := suite.service.UpdateActor(context.Background(), p, p.ActorID, req)
		suite.ErrorIs(err, apperrors.ErrForbidden)
	}
	suite.actorRepo.AssertNotCalled(suite.T(), "UpdateActor", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ActorServiceTestSuite) TestDeleteActor_RulesAndOwnedRecords() {
	ctx := context.Background()
	p := supervisorPrincipal("01")

	err := suite.service.DeleteActor(ctx, p, p.ActorID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.actorRepo.On("FindActorByID", ctx, "actor-y").Return(&domain.Actor{ActorID: "actor-y", Username: "cashier1", BranchCode: "01"}, nil)
	expectFailedTx(suite.txManager)
	suite.actorRepo.On("CountOwnedRecords", ctx, mock.Anything, "actor-y").Return(int64(4), nil).Once()

	err = suite.service.DeleteActor(ctx, p, "actor-y")
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.actorRepo.AssertNotCalled(suite.T(), "DeleteActor", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ActorServiceTestSuite) TestUnlockActor_Audited() {
	ctx := context.Background()
	suite.actorRepo.On("FindActorByID", ctx, "actor-z").Return(&domain.Actor{ActorID: "actor-z", BranchCode: "01", IsLocked: true, FailedAttempts: 5}, nil)
	expectTx(suite.txManager)
	suite.actorRepo.On("UnlockActor", ctx, mock.Anything, "actor-z", "actor-supervisor", mock.Anything).Return(nil).Once()

	actor, err := suite.service.UnlockActor(ctx, supervisorPrincipal("01"), "actor-z")

	suite.Require().NoError(err)
	suite.False(actor.IsLocked)
	suite.Zero(actor.FailedAttempts)
	suite.Equal([]domain.AuditAction{domain.AuditUnlock}, suite.auditRepo.actions())
}

func (suite *ActorServiceTestSuite) TestListLoginHistory_Self() {
	ctx := context.Background()
	p := cashierPrincipal("01")
	suite.sessionRepo.On("ListLoginHistory", ctx, p.ActorID, 50).Return([]domain.LoginHistory{{Username: "cashier1", Success: true}}, nil).Once()

	history, err := suite.service.ListLoginHistory(ctx, p, p.ActorID, 0)

	suite.Require().NoError(err)
	suite.Len(history, 1)
}

func (suite *ActorServiceTestSuite) TestEnsureBootstrapAdmin() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.EnsureBootstrapAdmin(ctx, "", ""))
	suite.actorRepo.AssertNotCalled(suite.T(), "CountActors", mock.Anything)

	suite.actorRepo.On("CountActors", ctx).Return(int64(0), nil).Once()
	suite.roleRepo.On("FindRoleByName", ctx, domain.RoleAdmin).Return(&domain.Role{RoleID: "role-admin", Name: domain.RoleAdmin, IsActive: true, IsSystem: true}, nil).Once()
	expectTx(suite.txManager)
	suite.actorRepo.On("SaveActor", ctx, mock.Anything, mock.MatchedBy(func(a domain.Actor) bool {
		return a.Username == "root" && a.RoleID == "role-admin" && a.BranchCode == "00" && a.CreatedBy == "system"
	})).Return(nil).Once()

	suite.Require().NoError(suite.service.EnsureBootstrapAdmin(ctx, "root", "bootstrap-pass"))

	suite.actorRepo.On("CountActors", ctx).Return(int64(1), nil).Once()
	suite.Require().NoError(suite.service.EnsureBootstrapAdmin(ctx, "root", "bootstrap-pass"))
	suite.actorRepo.AssertNumberOfCalls(suite.T(), "SaveActor", 1)
}

func TestActorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ActorServiceTestSuite))
}
