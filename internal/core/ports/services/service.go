package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Session   SessionSvcFacade
	Token     TokenSvc
	Google    GoogleOAuthSvc
	Branch    BranchSvcFacade
	Role      RoleSvcFacade
	Actor     ActorSvcFacade
	Member    MemberSvcFacade
	Project   ProjectSvcFacade
	Reference ReferenceSvcFacade
	Catalog   CatalogSvcFacade
	Budget    BudgetSvcFacade
	Record    RecordSvcFacade
	Audit     AuditSvc
	Reporting ReportingSvc
	Reminder  ReminderSvc
}
