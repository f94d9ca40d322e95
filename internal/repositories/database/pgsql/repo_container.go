package pgsql

import (
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     &BaseRepository{Pool: dbPool},
		SequenceRepo:  newPgxSequenceRepository(dbPool),
		BranchRepo:    newPgxBranchRepository(dbPool),
		RoleRepo:      newPgxRoleRepository(dbPool),
		ActorRepo:     newPgxActorRepository(dbPool),
		SessionRepo:   newPgxSessionRepository(dbPool),
		MemberRepo:    newPgxMemberRepository(dbPool),
		ProjectRepo:   newPgxProjectRepository(dbPool),
		ReferenceRepo: newPgxReferenceRepository(dbPool),
		CatalogRepo:   newPgxCatalogRepository(dbPool),
		BudgetRepo:    newPgxBudgetRepository(dbPool),
		RecordRepo:    newPgxRecordRepository(dbPool),
		AuditRepo:     newPgxAuditRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
		ReminderRepo:  newPgxReminderRepository(dbPool),
	}
}
