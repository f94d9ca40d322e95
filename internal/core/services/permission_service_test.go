package services_test

import (
	"testing"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/core/services"
	"github.com/stretchr/testify/suite"
)

func cashierPrincipal(branch string) domain.Principal {
	return domain.Principal{
		ActorID:    "actor-cashier",
		Username:   "cashier1",
		RoleID:     "role-cashier",
		RoleName:   domain.RoleCashier,
		RoleActive: true,
		BranchCode: branch,
		Capabilities: domain.CapabilityMap{
			domain.ModuleContributions: {domain.ActionCreate, domain.ActionRead},
			domain.ModuleTransactions:  {domain.ActionCreate, domain.ActionRead},
			domain.ModuleMembers:       {domain.ActionCreate, domain.ActionRead},
			domain.ModuleProjects:      {domain.ActionRead},
		},
	}
}

func adminPrincipal() domain.Principal {
	caps := domain.CapabilityMap{}
	for _, m := range domain.KnownModules() {
		caps[m] = []domain.Action{
			domain.ActionRead, domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete,
			domain.ActionRefund, domain.ActionExport, domain.ActionUnlock,
			domain.ActionReadAll, domain.ActionCreateAll, domain.ActionUpdateAll, domain.ActionDeleteAll,
		}
	}
	return domain.Principal{
		ActorID:      "actor-admin",
		Username:     "admin",
		RoleID:       "role-admin",
		RoleName:     domain.RoleAdmin,
		RoleActive:   true,
		BranchCode:   "00",
		Capabilities: caps,
	}
}

type PermissionServiceTestSuite struct {
	suite.Suite
	engine portssvc.PermissionSvc
}

func (suite *PermissionServiceTestSuite) SetupTest() {
	suite.engine = services.NewPermissionService()
}

func (suite *PermissionServiceTestSuite) TestAuthorize_GrantedAndMissing() {
	p := cashierPrincipal("01")

	suite.NoError(suite.engine.Authorize(p, domain.ModuleContributions, domain.ActionCreate))

	err := suite.engine.Authorize(p, domain.ModuleTransactions, domain.ActionRefund)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Contains(err.Error(), "transactions:refund")
}

func (suite *PermissionServiceTestSuite) TestAuthorize_InactiveRoleDeniesEverything() {
	p := adminPrincipal()
	p.RoleActive = false

	err := suite.engine.Authorize(p, domain.ModuleBranches, domain.ActionRead)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Contains(err.Error(), "role is inactive")
	suite.False(suite.engine.HasScopeWidening(p, domain.ModuleBranches, domain.ActionRead))
}

func (suite *PermissionServiceTestSuite) TestAuthorize_WidenedGrantAloneDoesNotAllowBaseAction() {
	p := domain.Principal{
		RoleID:       "auditor",
		RoleActive:   true,
		BranchCode:   "01",
		Capabilities: domain.CapabilityMap{domain.ModuleTransactions: {domain.ActionReadAll}},
	}

	err := suite.engine.Authorize(p, domain.ModuleTransactions, domain.ActionRead)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Contains(err.Error(), "missing permission transactions:read")
	suite.Error(suite.engine.Authorize(p, domain.ModuleTransactions, domain.ActionCreate))

	// The grant still widens scope once the base action is present.
	p.Capabilities[domain.ModuleTransactions] = []domain.Action{domain.ActionRead, domain.ActionReadAll}
	suite.NoError(suite.engine.Authorize(p, domain.ModuleTransactions, domain.ActionRead))
	suite.Nil(suite.engine.BranchScope(p, domain.ModuleTransactions, domain.ActionRead))
}

func (suite *PermissionServiceTestSuite) TestAuthorize_IsPure() {
	p := cashierPrincipal("01")
	first := suite.engine.Authorize(p, domain.ModuleExpenditures, domain.ActionCreate)
	for i := 0; i < 10; i++ {
		suite.Equal(first, suite.engine.Authorize(p, domain.ModuleExpenditures, domain.ActionCreate))
	}
	suite.Equal(suite.engine.Authorize(p, domain.ModuleContributions, domain.ActionRead),
		services.NewPermissionService().Authorize(p, domain.ModuleContributions, domain.ActionRead))
}

func (suite *PermissionServiceTestSuite) TestNarrowBranchFilter_ForcesOwnBranch() {
	p := cashierPrincipal("01")

	filter := suite.engine.NarrowBranchFilter(p, domain.ModuleTransactions, domain.ActionRead, "02")
	suite.Require().NotNil(filter)
	suite.Equal("01", *filter)

	filter = suite.engine.NarrowBranchFilter(p, domain.ModuleTransactions, domain.ActionRead, "")
	suite.Require().NotNil(filter)
	suite.Equal("01", *filter)
}

func (suite *PermissionServiceTestSuite) TestNarrowBranchFilter_WideScopeKeepsRequest() {
	p := adminPrincipal()

	suite.Nil(suite.engine.NarrowBranchFilter(p, domain.ModuleTransactions, domain.ActionRead, ""))
	filter := suite.engine.NarrowBranchFilter(p, domain.ModuleTransactions, domain.ActionRead, "02")
	suite.Require().NotNil(filter)
	suite.Equal("02", *filter)
	suite.Nil(suite.engine.BranchScope(p, domain.ModuleTransactions, domain.ActionRead))
}

func (suite *PermissionServiceTestSuite) TestResolveBranch() {
	cashier := cashierPrincipal("01")

	branch, err := suite.engine.ResolveBranch(cashier, domain.ModuleTransactions, domain.ActionCreate, "")
	suite.NoError(err)
	suite.Equal("01", branch)

	_, err = suite.engine.ResolveBranch(cashier, domain.ModuleTransactions, domain.ActionCreate, "02")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	branch, err = suite.engine.ResolveBranch(adminPrincipal(), domain.ModuleTransactions, domain.ActionCreate, "02")
	suite.NoError(err)
	suite.Equal("02", branch)
}

func (suite *PermissionServiceTestSuite) TestCanAccessBranch() {
	cashier := cashierPrincipal("01")
	suite.True(suite.engine.CanAccessBranch(cashier, domain.ModuleMembers, domain.ActionRead, "01"))
	suite.False(suite.engine.CanAccessBranch(cashier, domain.ModuleMembers, domain.ActionRead, "02"))
	suite.True(suite.engine.CanAccessBranch(adminPrincipal(), domain.ModuleMembers, domain.ActionRead, "02"))
}

func TestPermissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PermissionServiceTestSuite))
}
