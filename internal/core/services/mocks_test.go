package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

// --- Mock TransactionManager ---
// Begin hands out a nil pgx.Tx; repository mocks match it with mock.Anything.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

// expectTx sets up one successful transaction.
func expectTx(m *MockTxManager) {
	m.On("Begin", mock.Anything).Return(nil, nil).Once()
	m.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

// expectFailedTx sets up one transaction that is rolled back without commit.
func expectFailedTx(m *MockTxManager) {
	m.On("Begin", mock.Anything).Return(nil, nil).Once()
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

// --- In-memory SequenceRepository ---
// It mimics the upsert: the seed is a floor for the new value.
type memorySequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
	latest   map[string]string
	counts   map[domain.EntityKind]int64
}

func newMemorySequenceRepo() *memorySequenceRepo {
	return &memorySequenceRepo{
		counters: map[string]int64{},
		latest:   map[string]string{},
		counts:   map[domain.EntityKind]int64{},
	}
}

func (r *memorySequenceRepo) CurrentValue(_ context.Context, _ pgx.Tx, scope string) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.counters[scope]
	return v, ok, nil
}

func (r *memorySequenceRepo) NextValue(_ context.Context, _ pgx.Tx, scope string, seed int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.counters[scope]
	if !ok || seed > v {
		v = seed
	}
	v++
	r.counters[scope] = v
	return v, nil
}

func (r *memorySequenceRepo) LatestRecordIdentifier(_ context.Context, _ pgx.Tx, recordType domain.RecordType, branchCode string, from, _ time.Time) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.latest[latestKey(recordType, branchCode, from.Year())]
	return id, ok, nil
}

func (r *memorySequenceRepo) CountEntities(_ context.Context, _ pgx.Tx, kind domain.EntityKind, _ string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[kind], nil
}

func latestKey(recordType domain.RecordType, branchCode string, year int) string {
	return fmt.Sprintf("%s|%s|%d", recordType, branchCode, year)
}

var _ portsrepo.SequenceRepository = (*memorySequenceRepo)(nil)

// --- Mock BranchRepository ---
type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindBranchByCode(ctx context.Context, code string) (*domain.Branch, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Branch), args.Error(1)
}

func (m *MockBranchRepository) ListBranches(ctx context.Context, filter domain.ListFilter) ([]domain.Branch, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Branch), args.Error(1)
}

func (m *MockBranchRepository) CountBranchDependents(ctx context.Context, tx pgx.Tx, code string) (domain.BranchDependents, error) {
	args := m.Called(ctx, tx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.BranchDependents), args.Error(1)
}

func (m *MockBranchRepository) SaveBranch(ctx context.Context, tx pgx.Tx, branch domain.Branch) error {
	return m.Called(ctx, tx, branch).Error(0)
}

func (m *MockBranchRepository) UpdateBranch(ctx context.Context, tx pgx.Tx, branch domain.Branch) error {
	return m.Called(ctx, tx, branch).Error(0)
}

func (m *MockBranchRepository) DeleteBranch(ctx context.Context, tx pgx.Tx, code string) error {
	return m.Called(ctx, tx, code).Error(0)
}

// --- Mock RoleRepository ---
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindRoleByID(ctx context.Context, roleID string) (*domain.Role, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Role), args.Error(1)
}

func (m *MockRoleRepository) CountActorsWithRole(ctx context.Context, tx pgx.Tx, roleID string) (int64, error) {
	args := m.Called(ctx, tx, roleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoleRepository) SaveRole(ctx context.Context, tx pgx.Tx, role domain.Role) error {
	return m.Called(ctx, tx, role).Error(0)
}

func (m *MockRoleRepository) UpdateRole(ctx context.Context, tx pgx.Tx, role domain.Role) error {
	return m.Called(ctx, tx, role).Error(0)
}

func (m *MockRoleRepository) DeleteRole(ctx context.Context, tx pgx.Tx, roleID string) error {
	return m.Called(ctx, tx, roleID).Error(0)
}

// --- Mock ActorRepository ---
type MockActorRepository struct {
	mock.Mock
}

func (m *MockActorRepository) actorResult(args mock.Arguments) (*domain.Actor, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Actor), args.Error(1)
}

func (m *MockActorRepository) FindActorByID(ctx context.Context, actorID string) (*domain.Actor, error) {
	return m.actorResult(m.Called(ctx, actorID))
}

func (m *MockActorRepository) FindActorByUsername(ctx context.Context, username string) (*domain.Actor, error) {
	return m.actorResult(m.Called(ctx, username))
}

func (m *MockActorRepository) FindActorByEmail(ctx context.Context, email string) (*domain.Actor, error) {
	return m.actorResult(m.Called(ctx, email))
}

func (m *MockActorRepository) ListActors(ctx context.Context, filter domain.ListFilter) ([]domain.Actor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Actor), args.Error(1)
}

func (m *MockActorRepository) CountActors(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActorRepository) CountOwnedRecords(ctx context.Context, tx pgx.Tx, actorID string) (int64, error) {
	args := m.Called(ctx, tx, actorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActorRepository) SaveActor(ctx context.Context, tx pgx.Tx, actor domain.Actor) error {
	return m.Called(ctx, tx, actor).Error(0)
}

func (m *MockActorRepository) UpdateActor(ctx context.Context, tx pgx.Tx, actor domain.Actor) error {
	return m.Called(ctx, tx, actor).Error(0)
}

func (m *MockActorRepository) DeleteActor(ctx context.Context, tx pgx.Tx, actorID string) error {
	return m.Called(ctx, tx, actorID).Error(0)
}

func (m *MockActorRepository) FindActorByUsernameForUpdate(ctx context.Context, tx pgx.Tx, username string) (*domain.Actor, error) {
	return m.actorResult(m.Called(ctx, tx, username))
}

func (m *MockActorRepository) FindActorByEmailForUpdate(ctx context.Context, tx pgx.Tx, email string) (*domain.Actor, error) {
	return m.actorResult(m.Called(ctx, tx, email))
}

func (m *MockActorRepository) RecordFailedLogin(ctx context.Context, tx pgx.Tx, actorID string, maxAttempts int) (int, bool, error) {
	args := m.Called(ctx, tx, actorID, maxAttempts)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockActorRepository) RecordSuccessfulLogin(ctx context.Context, tx pgx.Tx, actorID string, at time.Time) error {
	return m.Called(ctx, tx, actorID, at).Error(0)
}

func (m *MockActorRepository) UnlockActor(ctx context.Context, tx pgx.Tx, actorID string, by string, at time.Time) error {
	return m.Called(ctx, tx, actorID, by, at).Error(0)
}

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) SaveRefreshToken(ctx context.Context, tx pgx.Tx, cred domain.RefreshCredential) error {
	return m.Called(ctx, tx, cred).Error(0)
}

func (m *MockSessionRepository) FindRefreshTokenForUpdate(ctx context.Context, tx pgx.Tx, tokenHash string) (*domain.RefreshCredential, error) {
	args := m.Called(ctx, tx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshCredential), args.Error(1)
}

func (m *MockSessionRepository) DeleteRefreshToken(ctx context.Context, tx pgx.Tx, tokenID string) error {
	return m.Called(ctx, tx, tokenID).Error(0)
}

func (m *MockSessionRepository) DeleteActorRefreshToken(ctx context.Context, tx pgx.Tx, actorID, tokenHash string) (int64, error) {
	args := m.Called(ctx, tx, actorID, tokenHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteAllActorRefreshTokens(ctx context.Context, tx pgx.Tx, actorID string) (int64, error) {
	args := m.Called(ctx, tx, actorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) SaveLoginHistory(ctx context.Context, tx pgx.Tx, entry domain.LoginHistory) error {
	return m.Called(ctx, tx, entry).Error(0)
}

func (m *MockSessionRepository) ListLoginHistory(ctx context.Context, actorID string, limit int) ([]domain.LoginHistory, error) {
	args := m.Called(ctx, actorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoginHistory), args.Error(1)
}

// --- Mock MemberRepository ---
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListMembers(ctx context.Context, filter domain.ListFilter) ([]domain.Member, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) IsMemberEnrolled(ctx context.Context, tx pgx.Tx, memberID, projectID string) (bool, error) {
	args := m.Called(ctx, tx, memberID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) ListMemberProjects(ctx context.Context, memberID string) ([]domain.Project, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockMemberRepository) CountMemberContributions(ctx context.Context, tx pgx.Tx, memberID string) (int64, error) {
	args := m.Called(ctx, tx, memberID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, tx pgx.Tx, member domain.Member) error {
	return m.Called(ctx, tx, member).Error(0)
}

func (m *MockMemberRepository) UpdateMember(ctx context.Context, tx pgx.Tx, member domain.Member) error {
	return m.Called(ctx, tx, member).Error(0)
}

func (m *MockMemberRepository) DeleteMember(ctx context.Context, tx pgx.Tx, memberID string) error {
	return m.Called(ctx, tx, memberID).Error(0)
}

func (m *MockMemberRepository) SaveEnrollment(ctx context.Context, tx pgx.Tx, enrollment domain.Enrollment) error {
	return m.Called(ctx, tx, enrollment).Error(0)
}

// --- Mock ProjectRepository ---
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, filter domain.ListFilter) ([]domain.Project, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, tx pgx.Tx, project domain.Project) error {
	return m.Called(ctx, tx, project).Error(0)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, tx pgx.Tx, project domain.Project) error {
	return m.Called(ctx, tx, project).Error(0)
}

// --- Mock ReferenceRepository ---
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) SaveCurrency(ctx context.Context, tx pgx.Tx, currency domain.Currency) error {
	return m.Called(ctx, tx, currency).Error(0)
}

func (m *MockReferenceRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockReferenceRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockReferenceRepository) SavePaymentMethod(ctx context.Context, tx pgx.Tx, method domain.PaymentMethod) error {
	return m.Called(ctx, tx, method).Error(0)
}

func (m *MockReferenceRepository) FindPaymentMethodByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockReferenceRepository) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}

func (m *MockReferenceRepository) SaveHead(ctx context.Context, tx pgx.Tx, head domain.AccountHead) error {
	return m.Called(ctx, tx, head).Error(0)
}

func (m *MockReferenceRepository) UpdateHead(ctx context.Context, tx pgx.Tx, head domain.AccountHead) error {
	return m.Called(ctx, tx, head).Error(0)
}

func (m *MockReferenceRepository) DeleteHead(ctx context.Context, tx pgx.Tx, headID string) error {
	return m.Called(ctx, tx, headID).Error(0)
}

func (m *MockReferenceRepository) FindHeadByID(ctx context.Context, headID string) (*domain.AccountHead, error) {
	args := m.Called(ctx, headID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountHead), args.Error(1)
}

func (m *MockReferenceRepository) ListHeads(ctx context.Context, kind *domain.HeadKind) ([]domain.AccountHead, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountHead), args.Error(1)
}

func (m *MockReferenceRepository) CountHeadUsage(ctx context.Context, tx pgx.Tx, headID string) (int64, error) {
	args := m.Called(ctx, tx, headID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock CatalogRepository ---
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) SaveSupplier(ctx context.Context, tx pgx.Tx, supplier domain.Supplier) error {
	return m.Called(ctx, tx, supplier).Error(0)
}

func (m *MockCatalogRepository) UpdateSupplier(ctx context.Context, tx pgx.Tx, supplier domain.Supplier) error {
	return m.Called(ctx, tx, supplier).Error(0)
}

func (m *MockCatalogRepository) DeleteSupplier(ctx context.Context, tx pgx.Tx, supplierID string) error {
	return m.Called(ctx, tx, supplierID).Error(0)
}

func (m *MockCatalogRepository) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}

func (m *MockCatalogRepository) ListSuppliers(ctx context.Context, filter domain.ListFilter) ([]domain.Supplier, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

func (m *MockCatalogRepository) CountSupplierUsage(ctx context.Context, tx pgx.Tx, supplierID string) (int64, error) {
	args := m.Called(ctx, tx, supplierID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) SaveAsset(ctx context.Context, tx pgx.Tx, asset domain.Asset) error {
	return m.Called(ctx, tx, asset).Error(0)
}

func (m *MockCatalogRepository) UpdateAsset(ctx context.Context, tx pgx.Tx, asset domain.Asset) error {
	return m.Called(ctx, tx, asset).Error(0)
}

func (m *MockCatalogRepository) DeleteAsset(ctx context.Context, tx pgx.Tx, assetID string) error {
	return m.Called(ctx, tx, assetID).Error(0)
}

func (m *MockCatalogRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockCatalogRepository) ListAssets(ctx context.Context, filter domain.ListFilter) ([]domain.Asset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockCatalogRepository) SaveContract(ctx context.Context, tx pgx.Tx, contract domain.Contract) error {
	return m.Called(ctx, tx, contract).Error(0)
}

func (m *MockCatalogRepository) UpdateContract(ctx context.Context, tx pgx.Tx, contract domain.Contract) error {
	return m.Called(ctx, tx, contract).Error(0)
}

func (m *MockCatalogRepository) DeleteContract(ctx context.Context, tx pgx.Tx, contractID string) error {
	return m.Called(ctx, tx, contractID).Error(0)
}

func (m *MockCatalogRepository) FindContractByID(ctx context.Context, contractID string) (*domain.Contract, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockCatalogRepository) ListContracts(ctx context.Context, filter domain.ListFilter) ([]domain.Contract, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

// --- Mock BudgetRepository ---
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, tx pgx.Tx, budget domain.Budget) error {
	return m.Called(ctx, tx, budget).Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, tx pgx.Tx, budgetID string) error {
	return m.Called(ctx, tx, budgetID).Error(0)
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, filter portsrepo.BudgetFilter) ([]domain.Budget, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

// --- Mock RecordRepository ---
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindContributionByID(ctx context.Context, id string, branchScope *string) (*domain.Contribution, error) {
	args := m.Called(ctx, id, branchScope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contribution), args.Error(1)
}

func (m *MockRecordRepository) ListContributions(ctx context.Context, filter domain.RecordFilter) ([]domain.Contribution, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *MockRecordRepository) FindTransactionByID(ctx context.Context, id string, branchScope *string) (*domain.Transaction, error) {
	args := m.Called(ctx, id, branchScope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockRecordRepository) ListTransactions(ctx context.Context, filter domain.RecordFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockRecordRepository) FindExpenditureByID(ctx context.Context, id string, branchScope *string) (*domain.Expenditure, error) {
	args := m.Called(ctx, id, branchScope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expenditure), args.Error(1)
}

func (m *MockRecordRepository) ListExpenditures(ctx context.Context, filter domain.RecordFilter) ([]domain.Expenditure, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expenditure), args.Error(1)
}

func (m *MockRecordRepository) SaveContribution(ctx context.Context, tx pgx.Tx, c domain.Contribution) error {
	return m.Called(ctx, tx, c).Error(0)
}

func (m *MockRecordRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, t domain.Transaction) error {
	return m.Called(ctx, tx, t).Error(0)
}

func (m *MockRecordRepository) SaveExpenditure(ctx context.Context, tx pgx.Tx, e domain.Expenditure) error {
	return m.Called(ctx, tx, e).Error(0)
}

func (m *MockRecordRepository) UpdateRecordStatus(ctx context.Context, tx pgx.Tx, recordType domain.RecordType, id string, from, to domain.RecordStatus, reason *string, by string, at time.Time) error {
	return m.Called(ctx, tx, recordType, id, from, to, reason, by, at).Error(0)
}

// --- Recording AuditRepository ---
type recordingAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
}

func (r *recordingAuditRepo) AppendAuditEntry(_ context.Context, _ pgx.Tx, e domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingAuditRepo) ListAuditEntries(_ context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.AuditEntry{}
	for _, e := range r.entries {
		if filter.TargetTable != nil && e.TargetTable != *filter.TargetTable {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *recordingAuditRepo) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) SummarizeRecords(ctx context.Context, filter domain.ReportFilter) ([]domain.RecordSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecordSummary), args.Error(1)
}

func (m *MockReportingRepository) ListExportRows(ctx context.Context, recordType domain.RecordType, filter domain.ReportFilter) ([]domain.ExportRow, error) {
	args := m.Called(ctx, recordType, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExportRow), args.Error(1)
}

// --- Mock ReminderRepository ---
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) ListContractsEndingBetween(ctx context.Context, from, to, remindedBefore time.Time) ([]domain.ContractReminder, error) {
	args := m.Called(ctx, from, to, remindedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContractReminder), args.Error(1)
}

func (m *MockReminderRepository) MarkContractReminded(ctx context.Context, contractID string, at time.Time) error {
	return m.Called(ctx, contractID, at).Error(0)
}

// --- Mock GoogleOAuthSvc ---
type MockGoogleOAuthSvc struct {
	mock.Mock
}

func (m *MockGoogleOAuthSvc) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockGoogleOAuthSvc) GenerateStateString() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockGoogleOAuthSvc) GetGoogleLoginURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockGoogleOAuthSvc) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockGoogleOAuthSvc) ValidateGoogleIDToken(ctx context.Context, idToken string) (*portssvc.GoogleIdentity, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.GoogleIdentity), args.Error(1)
}

func notFound(resource string) error {
	return apperrors.NewNotFoundError(resource)
}

func strPtr(s string) *string {
	return &s
}
