package services

import (
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/platform/config"
	"github.com/SscSPs/branch_finance_admin/internal/platform/metrics"
	"github.com/SscSPs/branch_finance_admin/internal/utils/ids"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Every collaborator is built here once; nothing is shared through package state.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics, mailer portssvc.Mailer) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	perms := NewPermissionService()
	audit := NewAuditRecorder(repos.AuditRepo, ids.NewGenerator())
	allocator := NewIdentifierAllocator(repos.SequenceRepo,
		WithAllocatorLocation(cfg.Location),
		WithAllocatorMetrics(m),
	)

	container.Token = NewTokenService(cfg)
	container.Google = NewGoogleOAuthService(cfg)
	container.Session = NewSessionService(repos, container.Token,
		WithMaxLoginAttempts(cfg.MaxLoginAttempts),
		WithSessionMetrics(m),
		WithGoogleSignIn(container.Google),
	)

	container.Branch = NewBranchService(repos, perms, audit)
	container.Role = NewRoleService(repos, perms, audit)
	container.Actor = NewActorService(repos, perms, audit)
	container.Member = NewMemberService(repos, perms, audit)
	container.Project = NewProjectService(repos, perms, audit)
	container.Reference = NewReferenceService(repos, perms, audit, allocator)
	container.Catalog = NewCatalogService(repos, perms, audit, allocator)
	container.Budget = NewBudgetService(repos, perms, audit)
	container.Record = NewRecordService(repos, perms, audit, allocator, WithRecordMetrics(m))
	container.Audit = NewAuditService(repos, perms)
	container.Reporting = NewReportingService(repos, perms)
	container.Reminder = NewReminderService(repos, mailer, ReminderConfig{
		LeadDays:       cfg.ReminderLeadDays,
		Recipients:     cfg.ReminderRecipients,
		SendsPerSecond: cfg.ReminderSendsPerSecond,
		Location:       cfg.Location,
	}, WithReminderMetrics(m))

	return container
}
