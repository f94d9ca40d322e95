package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/SscSPs/branch_finance_admin/internal/reporting/export"
)

// maxReportSpan caps the date range of one summary or export.
const maxReportSpan = 366 * 24 * time.Hour

// reportingService implements the ReportingSvc interface. It never writes.
type reportingService struct {
	BaseService
	perms         portssvc.PermissionSvc
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates the reporting service.
func NewReportingService(repos portsrepo.RepositoryProvider, perms portssvc.PermissionSvc) portssvc.ReportingSvc {
	return &reportingService{
		BaseService:   newBaseService(repos.TxManager),
		perms:         perms,
		reportingRepo: repos.ReportingRepo,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// reportFilter validates params and narrows the branch to what the caller may read. Both date
// bounds are inclusive days.
func (s *reportingService) reportFilter(p domain.Principal, params dto.ReportParams) (domain.ReportFilter, error) {
	if params.From.IsZero() || params.To.IsZero() {
		return domain.ReportFilter{}, apperrors.NewValidationFailedError("from and to dates are required")
	}
	if params.To.Before(params.From) {
		return domain.ReportFilter{}, apperrors.NewValidationFailedError("to date must not be before from date")
	}
	to := params.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
	if to.Sub(params.From) > maxReportSpan {
		return domain.ReportFilter{}, apperrors.NewValidationFailedError("report range must not exceed one year")
	}

	filter := domain.ReportFilter{
		BranchCode: s.perms.NarrowBranchFilter(p, domain.ModuleReports, domain.ActionRead, params.BranchCode),
		From:       params.From,
		To:         to,
	}
	if params.RecordType != "" {
		rt := domain.RecordType(params.RecordType)
		if _, err := rt.Prefix(); err != nil {
			return domain.ReportFilter{}, apperrors.NewValidationFailedError(err.Error())
		}
		filter.RecordType = &rt
	}
	if params.Status != "" {
		status := domain.RecordStatus(params.Status)
		filter.Status = &status
	}
	return filter, nil
}

// Summary totals records by type, branch, currency and status.
func (s *reportingService) Summary(ctx context.Context, p domain.Principal, params dto.ReportParams) (*dto.SummaryResponse, error) {
	if err := s.perms.Authorize(p, domain.ModuleReports, domain.ActionRead); err != nil {
		return nil, err
	}
	filter, err := s.reportFilter(p, params)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportingRepo.SummarizeRecords(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize records")
		return nil, fmt.Errorf("failed to summarize records: %w", err)
	}
	return &dto.SummaryResponse{From: params.From, To: params.To, Rows: rows}, nil
}

// Export renders matching records to w. Without a record type every type is exported, each
// type in date order.
func (s *reportingService) Export(ctx context.Context, p domain.Principal, params dto.ReportParams, w io.Writer) error {
	if err := s.perms.Authorize(p, domain.ModuleReports, domain.ActionExport); err != nil {
		return err
	}
	format, err := export.ParseFormat(params.Format)
	if err != nil {
		return apperrors.NewValidationFailedError(err.Error())
	}
	filter, err := s.reportFilter(p, params)
	if err != nil {
		return err
	}

	types := reportTypes
	if filter.RecordType != nil {
		types = []domain.RecordType{*filter.RecordType}
	}
	var rows []domain.ExportRow
	for _, rt := range types {
		part, err := s.reportingRepo.ListExportRows(ctx, rt, filter)
		if err != nil {
			s.LogError(ctx, err, "Failed to load export rows", slog.String("record_type", string(rt)))
			return fmt.Errorf("failed to load %s rows: %w", rt, err)
		}
		rows = append(rows, part...)
	}

	if err := export.Write(format, w, rows); err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}
	s.LogInfo(ctx, "Records exported",
		slog.String("actor_id", p.ActorID), slog.String("format", string(format)), slog.Int("rows", len(rows)))
	return nil
}

var reportTypes = []domain.RecordType{domain.RecordContribution, domain.RecordTransaction, domain.RecordExpenditure}
