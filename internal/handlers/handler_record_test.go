package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RecordService ---
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) CreateContribution(ctx context.Context, p domain.Principal, req dto.CreateContributionRequest) (*domain.Contribution, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contribution), args.Error(1)
}
func (m *MockRecordService) GetContribution(ctx context.Context, p domain.Principal, id string) (*domain.Contribution, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contribution), args.Error(1)
}
func (m *MockRecordService) ListContributions(ctx context.Context, p domain.Principal, params dto.ListRecordsParams) (*dto.ListContributionsResponse, error) {
	args := m.Called(ctx, p, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListContributionsResponse), args.Error(1)
}
func (m *MockRecordService) CancelContribution(ctx context.Context, p domain.Principal, id string, reason string) (*domain.Contribution, error) {
	args := m.Called(ctx, p, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contribution), args.Error(1)
}
func (m *MockRecordService) CreateTransaction(ctx context.Context, p domain.Principal, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockRecordService) GetTransaction(ctx context.Context, p domain.Principal, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockRecordService) ListTransactions(ctx context.Context, p domain.Principal, params dto.ListRecordsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, p, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockRecordService) RefundTransaction(ctx context.Context, p domain.Principal, id string, reason string) (*domain.Transaction, error) {
	args := m.Called(ctx, p, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockRecordService) CreateExpenditure(ctx context.Context, p domain.Principal, req dto.CreateExpenditureRequest) (*domain.Expenditure, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expenditure), args.Error(1)
}
func (m *MockRecordService) GetExpenditure(ctx context.Context, p domain.Principal, id string) (*domain.Expenditure, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expenditure), args.Error(1)
}
func (m *MockRecordService) ListExpenditures(ctx context.Context, p domain.Principal, params dto.ListRecordsParams) (*dto.ListExpendituresResponse, error) {
	args := m.Called(ctx, p, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListExpendituresResponse), args.Error(1)
}
func (m *MockRecordService) CancelExpenditure(ctx context.Context, p domain.Principal, id string, reason string) (*domain.Expenditure, error) {
	args := m.Called(ctx, p, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expenditure), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.RecordSvcFacade = (*MockRecordService)(nil)

const (
	memberUUID  = "6f1c7b1e-8d5a-4c1e-9a44-0f4f1d2b3c01"
	projectUUID = "6f1c7b1e-8d5a-4c1e-9a44-0f4f1d2b3c02"
	methodUUID  = "6f1c7b1e-8d5a-4c1e-9a44-0f4f1d2b3c03"
)

// --- Test Suite ---
type RecordHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockRecords *MockRecordService
	principal   domain.Principal
}

func (suite *RecordHandlerTestSuite) SetupSuite() {
	suite.Require().NoError(RegisterValidators())
}

func (suite *RecordHandlerTestSuite) setup(production bool) {
	suite.principal = cashier()
	suite.mockRecords = new(MockRecordService)
	r, v1 := newAuthedGroup(suite.principal)
	registerRecordRoutes(v1, baseHandler{production: production}, suite.mockRecords)
	suite.router = r
}

func (suite *RecordHandlerTestSuite) SetupTest() {
	suite.setup(false)
}

func (suite *RecordHandlerTestSuite) validContribution() dto.CreateContributionRequest {
	return dto.CreateContributionRequest{
		MemberID:        memberUUID,
		ProjectID:       projectUUID,
		Amount:          decimal.NewFromInt(250),
		CurrencyCode:    "INR",
		PaymentMethodID: methodUUID,
	}
}

func (suite *RecordHandlerTestSuite) TestCreateContribution_Success() {
	req := suite.validContribution()
	suite.mockRecords.On("CreateContribution", mock.Anything, suite.principal,
		mock.MatchedBy(func(r dto.CreateContributionRequest) bool {
			return r.MemberID == memberUUID && r.Amount.Equal(decimal.NewFromInt(250))
		}),
	).Return(&domain.Contribution{ContributionID: "c-1", ReceiptNo: "01-MC-2026-000001", Status: domain.StatusCompleted}, nil).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/contributions", req)

	suite.Equal(http.StatusCreated, w.Code)
	var body domain.Contribution
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("01-MC-2026-000001", body.ReceiptNo)
	suite.mockRecords.AssertExpectations(suite.T())
}

func (suite *RecordHandlerTestSuite) TestCreateContribution_InvalidBody() {
	req := suite.validContribution()
	req.MemberID = "not-a-uuid"

	w := doRequest(suite.router, http.MethodPost, "/api/v1/contributions", req)

	suite.Equal(http.StatusBadRequest, w.Code)
	var body dto.ErrorResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(string(apperrors.KindValidation), body.Code)
	suite.mockRecords.AssertNotCalled(suite.T(), "CreateContribution")
}

func (suite *RecordHandlerTestSuite) TestCreateContribution_ForbiddenMapsTo403() {
	suite.mockRecords.On("CreateContribution", mock.Anything, suite.principal, mock.Anything).
		Return(nil, apperrors.NewForbiddenError("cannot act on branch 02")).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/contributions", suite.validContribution())

	suite.Equal(http.StatusForbidden, w.Code)
	var body dto.ErrorResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(string(apperrors.KindForbidden), body.Code)
	suite.Equal("cannot act on branch 02", body.Error)
}

func (suite *RecordHandlerTestSuite) TestMissingTokenIsRejected() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/contributions", nil)
	w := doRawRequest(suite.router, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRecords.AssertNotCalled(suite.T(), "ListContributions")
}

func (suite *RecordHandlerTestSuite) TestListContributions_PassesFilters() {
	next := "tok"
	suite.mockRecords.On("ListContributions", mock.Anything, suite.principal,
		mock.MatchedBy(func(p dto.ListRecordsParams) bool {
			return p.Limit == 5 && p.Status == "COMPLETED" && p.BranchCode == "01"
		}),
	).Return(&dto.ListContributionsResponse{
		Contributions: []domain.Contribution{{ContributionID: "c-1"}},
		NextToken:     &next,
	}, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/contributions?limit=5&status=COMPLETED&branchCode=01", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListContributionsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Contributions, 1)
	suite.Require().NotNil(body.NextToken)
	suite.Equal("tok", *body.NextToken)
}

func (suite *RecordHandlerTestSuite) TestListContributions_RejectsBadBranchCode() {
	w := doRequest(suite.router, http.MethodGet, "/api/v1/contributions?branchCode=ABC", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRecords.AssertNotCalled(suite.T(), "ListContributions")
}

func (suite *RecordHandlerTestSuite) TestRefundTransaction_Conflict() {
	suite.mockRecords.On("RefundTransaction", mock.Anything, suite.principal, "t-1", "duplicate payment").
		Return(nil, apperrors.NewConflictError("transaction is REFUNDED, only COMPLETED records can change status")).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/transactions/t-1/refund", dto.StatusChangeRequest{Reason: "duplicate payment"})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockRecords.AssertExpectations(suite.T())
}

func (suite *RecordHandlerTestSuite) TestRefundTransaction_RequiresReason() {
	w := doRequest(suite.router, http.MethodPost, "/api/v1/transactions/t-1/refund", dto.StatusChangeRequest{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRecords.AssertNotCalled(suite.T(), "RefundTransaction")
}

func (suite *RecordHandlerTestSuite) TestUnexpectedError_DetailHiddenInProduction() {
	storeErr := errors.New("pq: connection refused")

	suite.mockRecords.On("GetTransaction", mock.Anything, suite.principal, "t-1").Return(nil, storeErr).Once()
	w := doRequest(suite.router, http.MethodGet, "/api/v1/transactions/t-1", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	var dev dto.ErrorResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &dev))
	suite.Contains(dev.Detail, "connection refused")

	suite.setup(true)
	suite.mockRecords.On("GetTransaction", mock.Anything, suite.principal, "t-1").Return(nil, storeErr).Once()
	w = doRequest(suite.router, http.MethodGet, "/api/v1/transactions/t-1", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	var prod dto.ErrorResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &prod))
	suite.Equal("Failed to get transaction", prod.Error)
	suite.Empty(prod.Detail)
	suite.NotContains(w.Body.String(), "connection refused")
}

// --- Run Test Suite ---
func TestRecordHandler(t *testing.T) {
	suite.Run(t, new(RecordHandlerTestSuite))
}
