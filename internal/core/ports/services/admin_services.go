package services

import (
	"context"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
)

// BranchSvcFacade manages branches.
type BranchSvcFacade interface {
	CreateBranch(ctx context.Context, p domain.Principal, req dto.CreateBranchRequest) (*domain.Branch, error)
	GetBranch(ctx context.Context, p domain.Principal, code string) (*domain.Branch, error)
	ListBranches(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Branch, error)
	UpdateBranch(ctx context.Context, p domain.Principal, code string, req dto.UpdateBranchRequest) (*domain.Branch, error)
	DeleteBranch(ctx context.Context, p domain.Principal, code string) error
}

// RoleSvcFacade manages roles.
type RoleSvcFacade interface {
	CreateRole(ctx context.Context, p domain.Principal, req dto.CreateRoleRequest) (*domain.Role, error)
	GetRole(ctx context.Context, p domain.Principal, roleID string) (*domain.Role, error)
	ListRoles(ctx context.Context, p domain.Principal) ([]domain.Role, error)
	UpdateRole(ctx context.Context, p domain.Principal, roleID string, req dto.UpdateRoleRequest) (*domain.Role, error)
	DeleteRole(ctx context.Context, p domain.Principal, roleID string) error
}

// ActorSvcFacade manages back-office users.
type ActorSvcFacade interface {
	CreateActor(ctx context.Context, p domain.Principal, req dto.CreateActorRequest) (*domain.Actor, error)
	GetActor(ctx context.Context, p domain.Principal, actorID string) (*domain.Actor, error)
	ListActors(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Actor, error)
	UpdateActor(ctx context.Context, p domain.Principal, actorID string, req dto.UpdateActorRequest) (*domain.Actor, error)
	DeleteActor(ctx context.Context, p domain.Principal, actorID string) error
	UnlockActor(ctx context.Context, p domain.Principal, actorID string) (*domain.Actor, error)
	ListLoginHistory(ctx context.Context, p domain.Principal, actorID string, limit int) ([]domain.LoginHistory, error)
	EnsureBootstrapAdmin(ctx context.Context, username, password string) error
}

// MemberSvcFacade manages members and their project enrolment.
type MemberSvcFacade interface {
	CreateMember(ctx context.Context, p domain.Principal, req dto.CreateMemberRequest) (*domain.Member, error)
	GetMember(ctx context.Context, p domain.Principal, memberID string) (*domain.Member, error)
	ListMembers(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Member, error)
	UpdateMember(ctx context.Context, p domain.Principal, memberID string, req dto.UpdateMemberRequest) (*domain.Member, error)
	DeleteMember(ctx context.Context, p domain.Principal, memberID string) error
	EnrollMember(ctx context.Context, p domain.Principal, memberID string, req dto.EnrollMemberRequest) (*domain.Enrollment, error)
	ListMemberProjects(ctx context.Context, p domain.Principal, memberID string) ([]domain.Project, error)
}

// ProjectSvcFacade manages projects.
type ProjectSvcFacade interface {
	CreateProject(ctx context.Context, p domain.Principal, req dto.CreateProjectRequest) (*domain.Project, error)
	GetProject(ctx context.Context, p domain.Principal, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Project, error)
	UpdateProject(ctx context.Context, p domain.Principal, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error)
}

// ReferenceSvcFacade manages currencies, payment methods and account heads.
type ReferenceSvcFacade interface {
	CreateCurrency(ctx context.Context, p domain.Principal, req dto.CreateCurrencyRequest) (*domain.Currency, error)
	ListCurrencies(ctx context.Context, p domain.Principal) ([]domain.Currency, error)
	CreatePaymentMethod(ctx context.Context, p domain.Principal, req dto.CreatePaymentMethodRequest) (*domain.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, p domain.Principal) ([]domain.PaymentMethod, error)
	CreateHead(ctx context.Context, p domain.Principal, req dto.CreateHeadRequest) (*domain.AccountHead, error)
	GetHead(ctx context.Context, p domain.Principal, headID string) (*domain.AccountHead, error)
	ListHeads(ctx context.Context, p domain.Principal, params dto.ListHeadsParams) ([]domain.AccountHead, error)
	UpdateHead(ctx context.Context, p domain.Principal, headID string, req dto.UpdateHeadRequest) (*domain.AccountHead, error)
	DeleteHead(ctx context.Context, p domain.Principal, headID string) error
}

// CatalogSvcFacade manages suppliers, assets and contracts.
type CatalogSvcFacade interface {
	CreateSupplier(ctx context.Context, p domain.Principal, req dto.CreateSupplierRequest) (*domain.Supplier, error)
	GetSupplier(ctx context.Context, p domain.Principal, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, p domain.Principal, supplierID string, req dto.UpdateSupplierRequest) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, p domain.Principal, supplierID string) error

	CreateAsset(ctx context.Context, p domain.Principal, req dto.CreateAssetRequest) (*domain.Asset, error)
	GetAsset(ctx context.Context, p domain.Principal, assetID string) (*domain.Asset, error)
	ListAssets(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Asset, error)
	UpdateAsset(ctx context.Context, p domain.Principal, assetID string, req dto.UpdateAssetRequest) (*domain.Asset, error)
	DeleteAsset(ctx context.Context, p domain.Principal, assetID string) error

	CreateContract(ctx context.Context, p domain.Principal, req dto.CreateContractRequest) (*domain.Contract, error)
	GetContract(ctx context.Context, p domain.Principal, contractID string) (*domain.Contract, error)
	ListContracts(ctx context.Context, p domain.Principal, params dto.ListParams) ([]domain.Contract, error)
	UpdateContract(ctx context.Context, p domain.Principal, contractID string, req dto.UpdateContractRequest) (*domain.Contract, error)
	DeleteContract(ctx context.Context, p domain.Principal, contractID string) error
}

// BudgetSvcFacade manages budgets.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, p domain.Principal, req dto.CreateBudgetRequest) (*domain.Budget, error)
	ListBudgets(ctx context.Context, p domain.Principal, params dto.ListBudgetsParams) ([]domain.Budget, error)
	DeleteBudget(ctx context.Context, p domain.Principal, budgetID string) error
}

// AuditSvc reads the audit trail.
type AuditSvc interface {
	ListAuditEntries(ctx context.Context, p domain.Principal, params dto.ListAuditParams) ([]domain.AuditEntry, error)
}
