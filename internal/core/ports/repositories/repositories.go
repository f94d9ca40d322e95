package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager     TransactionManager
	SequenceRepo  SequenceRepository
	BranchRepo    BranchRepositoryFacade
	RoleRepo      RoleRepositoryFacade
	ActorRepo     ActorRepositoryFacade
	SessionRepo   SessionRepositoryFacade
	MemberRepo    MemberRepositoryFacade
	ProjectRepo   ProjectRepositoryFacade
	ReferenceRepo ReferenceRepositoryFacade
	CatalogRepo   CatalogRepositoryFacade
	BudgetRepo    BudgetRepositoryFacade
	RecordRepo    RecordRepositoryFacade
	AuditRepo     AuditRepositoryFacade
	ReportingRepo ReportingRepository
	ReminderRepo  ReminderRepository
}
