package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/SscSPs/branch_finance_admin/internal/platform/metrics"
	"github.com/SscSPs/branch_finance_admin/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// defaultInsertAttempts bounds how often a record insert is retried after its identifier
// collided with a stored one.
const defaultInsertAttempts = 3

// recordService creates and reads contributions, transactions and expenditures. Every insert
// allocates its identifier in the inserting transaction; all validation runs before that
// transaction begins.
type recordService struct {
	BaseService
	perms       portssvc.PermissionSvc
	audit       *AuditRecorder
	allocator   *IdentifierAllocator
	recordRepo  portsrepo.RecordRepositoryFacade
	memberRepo  portsrepo.MemberReader
	projectRepo portsrepo.ProjectReader
	refRepo     portsrepo.ReferenceRepositoryFacade
	supplierDB  portsrepo.SupplierStore
	metrics     *metrics.Metrics
	attempts    int
}

// RecordOption configures the record service.
type RecordOption func(*recordService)

// WithRecordClock overrides the clock used for default record dates and audit stamps.
func WithRecordClock(now func() time.Time) RecordOption {
	return func(s *recordService) {
		s.Now = now
	}
}

// WithRecordMetrics counts identifier collisions.
func WithRecordMetrics(m *metrics.Metrics) RecordOption {
	return func(s *recordService) {
		s.metrics = m
	}
}

// NewRecordService creates the financial record service.
func NewRecordService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc, audit *AuditRecorder, allocator *IdentifierAllocator, opts ...RecordOption) portssvc.RecordSvcFacade {
	s := &recordService{
		BaseService: newBaseService(repos.TxManager),
		perms:       perms,
		audit:       audit,
		allocator:   allocator,
		recordRepo:  repos.RecordRepo,
		memberRepo:  repos.MemberRepo,
		projectRepo: repos.ProjectRepo,
		refRepo:     repos.ReferenceRepo,
		supplierDB:  repos.CatalogRepo,
		attempts:    defaultInsertAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.RecordSvcFacade = (*recordService)(nil)

// insertWithIdentifier allocates an identifier and runs insert in one transaction. When the
// insert hits an identifier that is already stored the whole unit is retried, resyncing the
// counter with the stored identifiers first.
func (s *recordService) insertWithIdentifier(ctx context.Context, recordType domain.RecordType, branch string, insert func(tx pgx.Tx, identifier string) error) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err = s.WithTx(ctx, func(tx pgx.Tx) error {
			allocate := s.allocator.NextRecordIdentifier
			if attempt > 1 {
				allocate = s.allocator.ResyncRecordIdentifier
			}
			identifier, err := allocate(ctx, tx, recordType, branch)
			if err != nil {
				return err
			}
			return insert(tx, identifier)
		})
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
		s.metrics.IdentifierRetried(string(recordType))
		s.LogInfo(ctx, "Identifier already taken, retrying",
			slog.String("record_type", string(recordType)),
			slog.String("branch_code", branch),
			slog.Int("attempt", attempt))
	}
	return fmt.Errorf("could not allocate a unique %s after %d attempts: %w", recordType.IdentifierLabel(), s.attempts, err)
}

func (s *recordService) checkCurrency(ctx context.Context, code string) error {
	if _, err := s.refRepo.FindCurrencyByCode(ctx, code); err != nil {
		return referenceError(err, fmt.Sprintf("currency %s does not exist", code))
	}
	return nil
}

func (s *recordService) checkPaymentMethod(ctx context.Context, id string) error {
	method, err := s.refRepo.FindPaymentMethodByID(ctx, id)
	if err != nil {
		return referenceError(err, "payment method does not exist")
	}
	if !method.IsActive {
		return apperrors.NewValidationFailedError(fmt.Sprintf("payment method %s is not active", method.Name))
	}
	return nil
}

func (s *recordService) checkHead(ctx context.Context, id string, kind domain.HeadKind) error {
	head, err := s.refRepo.FindHeadByID(ctx, id)
	if err != nil {
		return referenceError(err, fmt.Sprintf("%s head does not exist", strings.ToLower(string(kind))))
	}
	if head.Kind != kind {
		return apperrors.NewValidationFailedError(fmt.Sprintf("head %s is a %s head, expected %s", head.Code, head.Kind, kind))
	}
	if !head.IsActive {
		return apperrors.NewValidationFailedError(fmt.Sprintf("head %s is not active", head.Code))
	}
	return nil
}

func (s *recordService) recordDate(requested *time.Time) time.Time {
	if requested != nil {
		return *requested
	}
	return s.now()
}

// --- Contributions ---

func (s *recordService) CreateContribution(ctx context.Context, p domain.Principal, req dto.CreateContributionRequest) (*domain.Contribution, error) {
	if err := s.perms.Authorize(p, domain.ModuleContributions, domain.ActionCreate); err != nil {
		return nil, err
	}
	if err := requirePositive(req.Amount, "amount"); err != nil {
		return nil, err
	}
	member, err := s.memberRepo.FindMemberByID(ctx, req.MemberID)
	if err != nil {
		return nil, referenceError(err, "member does not exist")
	}
	if !s.perms.CanAccessBranch(p, domain.ModuleMembers, domain.ActionRead, member.BranchCode) {
		return nil, apperrors.NewMissingReferenceError("member does not exist")
	}
	project, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID)
	if err != nil {
		return nil, referenceError(err, "project does not exist")
	}
	if !project.IsActive {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("project %q is not active", project.Name))
	}
	// The contribution lands in the project's branch.
	branch, err := s.perms.ResolveBranch(p, domain.ModuleContributions, domain.ActionCreate, project.BranchCode)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.memberRepo.IsMemberEnrolled(ctx, nil, member.MemberID, project.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrolment: %w", err)
	}
	if !enrolled {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("member %s is not enrolled in project %q", member.FullName, project.Name))
	}
	if err := s.checkCurrency(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}
	if err := s.checkPaymentMethod(ctx, req.PaymentMethodID); err != nil {
		return nil, err
	}

	c := domain.Contribution{
		ContributionID:   uuid.NewString(),
		BranchCode:       branch,
		MemberID:         member.MemberID,
		ProjectID:        project.ProjectID,
		Amount:           req.Amount,
		CurrencyCode:     req.CurrencyCode,
		PaymentMethodID:  req.PaymentMethodID,
		ContributionDate: s.recordDate(req.ContributionDate),
		Status:           domain.StatusCompleted,
		Notes:            strings.TrimSpace(req.Notes),
		AuditFields:      domain.NewAuditFields(p.ActorID, s.now()),
	}
	err = s.insertWithIdentifier(ctx, domain.RecordContribution, branch, func(tx pgx.Tx, identifier string) error {
		c.ReceiptNo = identifier
		if err := s.recordRepo.SaveContribution(ctx, tx, c); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, domain.RecordContribution.Table(), c.ContributionID, nil, c)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create contribution", slog.String("branch_code", branch))
		return nil, fmt.Errorf("failed to create contribution: %w", err)
	}
	s.LogInfo(ctx, "Contribution recorded", slog.String("receipt_no", c.ReceiptNo), slog.String("amount", c.Amount.String()))
	return &c, nil
}

func (s *recordService) GetContribution(ctx context.Context, p domain.Principal, id string) (*domain.Contribution, error) {
	if err := s.perms.Authorize(p, domain.ModuleContributions, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.recordRepo.FindContributionByID(ctx, id, s.perms.BranchScope(p, domain.ModuleContributions, domain.ActionRead))
}

func (s *recordService) ListContributions(ctx context.Context, p domain.Principal, params dto.ListRecordsParams) (*dto.ListContributionsResponse, error) {
	if err := s.perms.Authorize(p, domain.ModuleContributions, domain.ActionRead); err != nil {
		return nil, err
	}
	filter, err := s.recordFilter(p, domain.ModuleContributions, &params)
	if err != nil {
		return nil, err
	}
	rows, err := s.recordRepo.ListContributions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	resp := &dto.ListContributionsResponse{Contributions: rows}
	if len(rows) > params.Limit {
		resp.Contributions = rows[:params.Limit]
		last := resp.Contributions[params.Limit-1]
		token := pagination.EncodeToken(last.ContributionDate, last.CreatedAt)
		resp.NextToken = &token
	}
	return resp, nil
}

// CancelContribution marks a completed contribution cancelled. Records are never deleted.
func (s *recordService) CancelContribution(ctx context.Context, p domain.Principal, id string, reason string) (*domain.Contribution, error) {
	if err := s.perms.Authorize(p, domain.ModuleContributions, domain.ActionDelete); err != nil {
		return nil, err
	}
	existing, err := s.recordRepo.FindContributionByID(ctx, id, s.perms.BranchScope(p, domain.ModuleContributions, domain.ActionDelete))
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusCompleted {
		return nil, apperrors.NewConflictError(fmt.Sprintf("contribution %s is %s and cannot be cancelled", existing.ReceiptNo, existing.Status))
	}
	updated := *existing
	updated.Status = domain.StatusCancelled
	if err := s.changeStatus(ctx, p, domain.RecordContribution, id, domain.AuditCancel, reason, &updated.AuditFields, existing, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// --- Transactions ---

func (s *recordService) CreateTransaction(ctx context.Context, p domain.Principal, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if err := s.perms.Authorize(p, domain.ModuleTransactions, domain.ActionCreate); err != nil {
		return nil, err
	}
	branch, err := s.perms.ResolveBranch(p, domain.ModuleTransactions, domain.ActionCreate, req.BranchCode)
	if err != nil {
		return nil, err
	}
	if err := requirePositive(req.Amount, "amount"); err != nil {
		return nil, err
	}
	headID := optionalString(req.RevenueHeadID)
	if headID != nil {
		if err := s.checkHead(ctx, *headID, domain.HeadRevenue); err != nil {
			return nil, err
		}
	}
	if err := s.checkCurrency(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}
	if err := s.checkPaymentMethod(ctx, req.PaymentMethodID); err != nil {
		return nil, err
	}

	t := domain.Transaction{
		TransactionID:   uuid.NewString(),
		BranchCode:      branch,
		RevenueHeadID:   headID,
		PayerName:       strings.TrimSpace(req.PayerName),
		Description:     strings.TrimSpace(req.Description),
		Amount:          req.Amount,
		CurrencyCode:    req.CurrencyCode,
		PaymentMethodID: req.PaymentMethodID,
		TransactionDate: s.recordDate(req.TransactionDate),
		Status:          domain.StatusCompleted,
		AuditFields:     domain.NewAuditFields(p.ActorID, s.now()),
	}
	err = s.insertWithIdentifier(ctx, domain.RecordTransaction, branch, func(tx pgx.Tx, identifier string) error {
		t.ReceiptNo = identifier
		if err := s.recordRepo.SaveTransaction(ctx, tx, t); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, domain.RecordTransaction.Table(), t.TransactionID, nil, t)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transaction", slog.String("branch_code", branch))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	s.LogInfo(ctx, "Transaction recorded", slog.String("receipt_no", t.ReceiptNo), slog.String("amount", t.Amount.String()))
	return &t, nil
}

func (s *recordService) GetTransaction(ctx context.Context, p domain.Principal, id string) (*domain.Transaction, error) {
	if err := s.perms.Authorize(p, domain.ModuleTransactions, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.recordRepo.FindTransactionByID(ctx, id, s.perms.BranchScope(p, domain.ModuleTransactions, domain.ActionRead))
}

func (s *recordService) ListTransactions(ctx context.Context, p domain.Principal, params dto.ListRecordsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.perms.Authorize(p, domain.ModuleTransactions, domain.ActionRead); err != nil {
		return nil, err
	}
	filter, err := s.recordFilter(p, domain.ModuleTransactions, &params)
	if err != nil {
		return nil, err
	}
	rows, err := s.recordRepo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	resp := &dto.ListTransactionsResponse{Transactions: rows}
	if len(rows) > params.Limit {
		resp.Transactions = rows[:params.Limit]
		last := resp.Transactions[params.Limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		resp.NextToken = &token
	}
	return resp, nil
}

// RefundTransaction marks a completed transaction refunded. Refunds are not scope-widened, so
// a refund outside the caller's branch needs transactions:update_all.
func (s *recordService) RefundTransaction(ctx context.Context, p domain.Principal, id string, reason string) (*domain.Transaction, error) {
	if err := s.perms.Authorize(p, domain.ModuleTransactions, domain.ActionRefund); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationFailedError("refund reason is required")
	}
	existing, err := s.recordRepo.FindTransactionByID(ctx, id, s.perms.BranchScope(p, domain.ModuleTransactions, domain.ActionUpdate))
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusCompleted {
		return nil, apperrors.NewConflictError(fmt.Sprintf("transaction %s is %s and cannot be refunded", existing.ReceiptNo, existing.Status))
	}
	updated := *existing
	updated.Status = domain.StatusRefunded
	updated.RefundReason = &reason
	if err := s.changeStatus(ctx, p, domain.RecordTransaction, id, domain.AuditRefund, reason, &updated.AuditFields, existing, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// --- Expenditures ---

func (s *recordService) CreateExpenditure(ctx context.Context, p domain.Principal, req dto.CreateExpenditureRequest) (*domain.Expenditure, error) {
	if err := s.perms.Authorize(p, domain.ModuleExpenditures, domain.ActionCreate); err != nil {
		return nil, err
	}
	branch, err := s.perms.ResolveBranch(p, domain.ModuleExpenditures, domain.ActionCreate, req.BranchCode)
	if err != nil {
		return nil, err
	}
	if err := requirePositive(req.Amount, "amount"); err != nil {
		return nil, err
	}
	if err := s.checkHead(ctx, req.ExpenditureHeadID, domain.HeadExpenditure); err != nil {
		return nil, err
	}
	supplierID := optionalString(req.SupplierID)
	if supplierID != nil {
		supplier, err := s.supplierDB.FindSupplierByID(ctx, *supplierID)
		if err != nil {
			return nil, referenceError(err, "supplier does not exist")
		}
		if !supplier.IsActive {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("supplier %s is not active", supplier.Code))
		}
	}
	if err := s.checkCurrency(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}
	if err := s.checkPaymentMethod(ctx, req.PaymentMethodID); err != nil {
		return nil, err
	}

	e := domain.Expenditure{
		ExpenditureID:     uuid.NewString(),
		BranchCode:        branch,
		ExpenditureHeadID: req.ExpenditureHeadID,
		SupplierID:        supplierID,
		Description:       strings.TrimSpace(req.Description),
		Amount:            req.Amount,
		CurrencyCode:      req.CurrencyCode,
		PaymentMethodID:   req.PaymentMethodID,
		ExpenditureDate:   s.recordDate(req.ExpenditureDate),
		Status:            domain.StatusCompleted,
		AuditFields:       domain.NewAuditFields(p.ActorID, s.now()),
	}
	err = s.insertWithIdentifier(ctx, domain.RecordExpenditure, branch, func(tx pgx.Tx, identifier string) error {
		e.VoucherNo = identifier
		if err := s.recordRepo.SaveExpenditure(ctx, tx, e); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, domain.AuditCreate, domain.RecordExpenditure.Table(), e.ExpenditureID, nil, e)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create expenditure", slog.String("branch_code", branch))
		return nil, fmt.Errorf("failed to create expenditure: %w", err)
	}
	s.LogInfo(ctx, "Expenditure recorded", slog.String("voucher_no", e.VoucherNo), slog.String("amount", e.Amount.String()))
	return &e, nil
}

func (s *recordService) GetExpenditure(ctx context.Context, p domain.Principal, id string) (*domain.Expenditure, error) {
	if err := s.perms.Authorize(p, domain.ModuleExpenditures, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.recordRepo.FindExpenditureByID(ctx, id, s.perms.BranchScope(p, domain.ModuleExpenditures, domain.ActionRead))
}

func (s *recordService) ListExpenditures(ctx context.Context, p domain.Principal, params dto.ListRecordsParams) (*dto.ListExpendituresResponse, error) {
	if err := s.perms.Authorize(p, domain.ModuleExpenditures, domain.ActionRead); err != nil {
		return nil, err
	}
	filter, err := s.recordFilter(p, domain.ModuleExpenditures, &params)
	if err != nil {
		return nil, err
	}
	rows, err := s.recordRepo.ListExpenditures(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenditures: %w", err)
	}
	resp := &dto.ListExpendituresResponse{Expenditures: rows}
	if len(rows) > params.Limit {
		resp.Expenditures = rows[:params.Limit]
		last := resp.Expenditures[params.Limit-1]
		token := pagination.EncodeToken(last.ExpenditureDate, last.CreatedAt)
		resp.NextToken = &token
	}
	return resp, nil
}

func (s *recordService) CancelExpenditure(ctx context.Context, p domain.Principal, id string, reason string) (*domain.Expenditure, error) {
	if err := s.perms.Authorize(p, domain.ModuleExpenditures, domain.ActionDelete); err != nil {
		return nil, err
	}
	existing, err := s.recordRepo.FindExpenditureByID(ctx, id, s.perms.BranchScope(p, domain.ModuleExpenditures, domain.ActionDelete))
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusCompleted {
		return nil, apperrors.NewConflictError(fmt.Sprintf("expenditure %s is %s and cannot be cancelled", existing.VoucherNo, existing.Status))
	}
	updated := *existing
	updated.Status = domain.StatusCancelled
	if err := s.changeStatus(ctx, p, domain.RecordExpenditure, id, domain.AuditCancel, reason, &updated.AuditFields, existing, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// --- shared ---

// statusChange is the audited after-state of a refund or cancellation.
type statusChange struct {
	Record any    `json:"record"`
	Reason string `json:"reason,omitempty"`
}

// changeStatus moves a record from COMPLETED to the status already set on after and audits it.
func (s *recordService) changeStatus(ctx context.Context, p domain.Principal, recordType domain.RecordType, id string,
	action domain.AuditAction, reason string, stamp *domain.AuditFields, before any, after any) error {
	now := s.now()
	stamp.Touch(p.ActorID, now)
	to := domain.StatusCancelled
	if action == domain.AuditRefund {
		to = domain.StatusRefunded
	}
	reason = strings.TrimSpace(reason)
	var reasonArg *string
	if recordType == domain.RecordTransaction && reason != "" {
		reasonArg = &reason
	}

	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.recordRepo.UpdateRecordStatus(ctx, tx, recordType, id, domain.StatusCompleted, to, reasonArg, p.ActorID, now); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, p, action, recordType.Table(), id, before, statusChange{Record: after, Reason: reason})
	})
	if err != nil {
		return fmt.Errorf("failed to mark %s %s %s: %w", recordType, id, strings.ToLower(string(to)), err)
	}
	s.LogInfo(ctx, "Record status changed",
		slog.String("record_type", string(recordType)), slog.String("id", id), slog.String("status", string(to)))
	return nil
}

// recordFilter builds the listing filter: branch narrowed by scope, one extra row requested to
// detect a following page, and the cursor decoded. A missing limit is defaulted in params.
func (s *recordService) recordFilter(p domain.Principal, module domain.Module, params *dto.ListRecordsParams) (domain.RecordFilter, error) {
	if params.Limit <= 0 {
		params.Limit = 20
	}
	filter := domain.RecordFilter{
		BranchCode: s.perms.NarrowBranchFilter(p, module, domain.ActionRead, params.BranchCode),
		From:       params.From,
		To:         params.To,
		MemberID:   nonEmpty(params.MemberID),
		ProjectID:  nonEmpty(params.ProjectID),
		HeadID:     nonEmpty(params.HeadID),
		Limit:      params.Limit + 1,
	}
	if params.Status != "" {
		status := domain.RecordStatus(params.Status)
		filter.Status = &status
	}
	if params.NextToken != nil && *params.NextToken != "" {
		date, createdAt, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return domain.RecordFilter{}, apperrors.NewValidationFailedError(err.Error())
		}
		filter.AfterDate, filter.AfterCreatedAt = &date, &createdAt
	}
	return filter, nil
}
