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
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	txManager   *MockTxManager
	catalogRepo *MockCatalogRepository
	refRepo     *MockReferenceRepository
	seqRepo     *memorySequenceRepo
	auditRepo   *recordingAuditRepo
	service     portssvc.CatalogSvcFacade
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.txManager = new(MockTxManager)
	suite.catalogRepo = new(MockCatalogRepository)
	suite.refRepo = new(MockReferenceRepository)
	suite.seqRepo = newMemorySequenceRepo()
	suite.auditRepo = &recordingAuditRepo{}
	suite.service = services.NewCatalogService(portsrepo.RepositoryProvider{
		TxManager:     suite.txManager,
		CatalogRepo:   suite.catalogRepo,
		ReferenceRepo: suite.refRepo,
	}, services.NewPermissionService(), services.NewAuditRecorder(suite.auditRepo, nil), services.NewIdentifierAllocator(suite.seqRepo))
}

func (suite *CatalogServiceTestSuite) TestCreateSupplier_AllocatesCode() {
	ctx := context.Background()
	suite.seqRepo.counts[domain.EntitySupplier] = 6
	expectTx(suite.txManager)
	suite.catalogRepo.On("SaveSupplier", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	supplier, err := suite.service.CreateSupplier(ctx, adminPrincipal(), dto.CreateSupplierRequest{Name: "Acme Hardware"})

	suite.Require().NoError(err)
	suite.Equal("SUP0007", supplier.Code)
	suite.True(supplier.IsActive)
}

func (suite *CatalogServiceTestSuite) TestCreateAsset_BranchScopedCode() {
	ctx := context.Background()
	suite.refRepo.On("FindCurrencyByCode", ctx, "KES").Return(&domain.Currency{CurrencyCode: "KES"}, nil)
	expectTx(suite.txManager)
	suite.catalogRepo.On("SaveAsset", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	p := adminPrincipal()
	asset, err := suite.service.CreateAsset(ctx, p, dto.CreateAssetRequest{
		BranchCode:    "01",
		Name:          "Projector",
		Category:      "Electronics",
		PurchaseValue: decimal.NewFromInt(45000),
		CurrencyCode:  "KES",
	})

	suite.Require().NoError(err)
	suite.Equal("01-AST0001", asset.Code)
	suite.Equal(domain.AssetGood, asset.Condition)
}

func (suite *CatalogServiceTestSuite) TestCreateContract_Validation() {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateContractRequest{
		SupplierID:   "s-inactive",
		Title:        "Cleaning",
		StartDate:    start,
		EndDate:      start,
		Value:        decimal.NewFromInt(1000),
		CurrencyCode: "KES",
	}

	_, err := suite.service.CreateContract(ctx, adminPrincipal(), req)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "end date")

	req.EndDate = start.AddDate(1, 0, 0)
	suite.catalogRepo.On("FindSupplierByID", ctx, "s-inactive").Return(&domain.Supplier{SupplierID: "s-inactive", Code: "SUP0002"}, nil).Once()
	_, err = suite.service.CreateContract(ctx, adminPrincipal(), req)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "SUP0002 is not active")

	req.SupplierID = "s-missing"
	suite.catalogRepo.On("FindSupplierByID", ctx, "s-missing").Return(nil, notFound("supplier")).Once()
	_, err = suite.service.CreateContract(ctx, adminPrincipal(), req)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
	suite.Equal("supplier does not exist", apperrors.MessageOf(err))

	suite.txManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *CatalogServiceTestSuite) TestDeleteSupplier_InUse() {
	ctx := context.Background()
	suite.catalogRepo.On("FindSupplierByID", ctx, "s-1").Return(&domain.Supplier{SupplierID: "s-1", Code: "SUP0001", IsActive: true}, nil)
	expectFailedTx(suite.txManager)
	suite.catalogRepo.On("CountSupplierUsage", ctx, mock.Anything, "s-1").Return(int64(2), nil).Once()

	err := suite.service.DeleteSupplier(ctx, adminPrincipal(), "s-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.catalogRepo.AssertNotCalled(suite.T(), "DeleteSupplier", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CatalogServiceTestSuite) TestUpdateContract_NewEndDateClearsReminder() {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	reminded := start.AddDate(0, 11, 0)
	suite.catalogRepo.On("FindContractByID", ctx, "c-1").Return(&domain.Contract{
		ContractID: "c-1", BranchCode: "00", StartDate: start, EndDate: start.AddDate(1, 0, 0), IsActive: true, RemindedAt: &reminded,
	}, nil)
	expectTx(suite.txManager)
	suite.catalogRepo.On("UpdateContract", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	newEnd := start.AddDate(2, 0, 0)
	contract, err := suite.service.UpdateContract(ctx, adminPrincipal(), "c-1", dto.UpdateContractRequest{EndDate: &newEnd})

	suite.Require().NoError(err)
	suite.Equal(newEnd, contract.EndDate)
	suite.Nil(contract.RemindedAt)
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
