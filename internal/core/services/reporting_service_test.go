package services_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/SscSPs/branch_finance_admin/internal/core/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reporterPrincipal(branch string) domain.Principal {
	return domain.Principal{
		ActorID:    "actor-reporter",
		Username:   "accountant1",
		RoleID:     "role-accountant",
		RoleActive: true,
		BranchCode: branch,
		Capabilities: domain.CapabilityMap{
			domain.ModuleReports: {domain.ActionRead, domain.ActionExport},
		},
	}
}

func march() dto.ReportParams {
	return dto.ReportParams{
		From: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestReportingSummary_NarrowsBranchAndIncludesLastDay(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(portsrepo.RepositoryProvider{ReportingRepo: repo}, services.NewPermissionService())

	rows := []domain.RecordSummary{{RecordType: domain.RecordContribution, BranchCode: "01", CurrencyCode: "KES",
		Status: domain.StatusCompleted, Count: 4, Total: decimal.NewFromInt(2000)}}
	repo.On("SummarizeRecords", ctx, mock.MatchedBy(func(f domain.ReportFilter) bool {
		return f.BranchCode != nil && *f.BranchCode == "01" &&
			f.To.After(time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC)) &&
			f.To.Before(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	})).Return(rows, nil).Once()

	params := march()
	params.BranchCode = "02"
	resp, err := svc.Summary(ctx, reporterPrincipal("01"), params)

	require.NoError(t, err)
	assert.Equal(t, rows, resp.Rows)
	repo.AssertExpectations(t)
}

func TestReportingSummary_Rejections(t *testing.T) {
	svc := services.NewReportingService(portsrepo.RepositoryProvider{ReportingRepo: new(MockReportingRepository)}, services.NewPermissionService())

	_, err := svc.Summary(context.Background(), cashierPrincipal("01"), march())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	inverted := march()
	inverted.From, inverted.To = inverted.To, inverted.From
	_, err = svc.Summary(context.Background(), reporterPrincipal("01"), inverted)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	long := march()
	long.To = long.From.AddDate(2, 0, 0)
	_, err = svc.Summary(context.Background(), reporterPrincipal("01"), long)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReportingExport_CSVAllTypes(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(portsrepo.RepositoryProvider{ReportingRepo: repo}, services.NewPermissionService())

	day := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	repo.On("ListExportRows", ctx, domain.RecordContribution, mock.Anything).Return([]domain.ExportRow{
		{Identifier: "01-MC-2026-000001", RecordType: domain.RecordContribution, BranchCode: "01", Date: day, Amount: decimal.NewFromInt(10)},
	}, nil).Once()
	repo.On("ListExportRows", ctx, domain.RecordTransaction, mock.Anything).Return([]domain.ExportRow{}, nil).Once()
	repo.On("ListExportRows", ctx, domain.RecordExpenditure, mock.Anything).Return([]domain.ExportRow{
		{Identifier: "01-EX-2026-000001", RecordType: domain.RecordExpenditure, BranchCode: "01", Date: day, Amount: decimal.NewFromInt(3)},
	}, nil).Once()

	var buf bytes.Buffer
	err := svc.Export(ctx, reporterPrincipal("01"), march(), &buf)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "01-MC-2026-000001,contribution,01,2026-03-05"))
	assert.True(t, strings.HasPrefix(lines[2], "01-EX-2026-000001,expenditure"))
	repo.AssertExpectations(t)
}

func TestReportingExport_Rejections(t *testing.T) {
	svc := services.NewReportingService(portsrepo.RepositoryProvider{ReportingRepo: new(MockReportingRepository)}, services.NewPermissionService())
	var buf bytes.Buffer

	readOnly := reporterPrincipal("01")
	readOnly.Capabilities = domain.CapabilityMap{domain.ModuleReports: {domain.ActionRead}}
	err := svc.Export(context.Background(), readOnly, march(), &buf)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	pdf := march()
	pdf.Format = "pdf"
	err = svc.Export(context.Background(), reporterPrincipal("01"), pdf, &buf)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Zero(t, buf.Len())
}
