package handlers

import (
	"fmt"

	"github.com/SscSPs/branch_finance_admin/cmd/docs"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/middleware"
	"github.com/SscSPs/branch_finance_admin/internal/platform/config"
	"github.com/SscSPs/branch_finance_admin/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	m *metrics.Metrics,
	ping Pinger,
) error {
	registerHealthRoutes(r, ping)

	if cfg.MetricsEnabled && m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("failed to build login rate limiter: %w", err)
	}

	base := baseHandler{production: cfg.IsProduction}
	auth := newAuthHandler(base, services.Session, services.Google)

	// Public authentication routes
	public := r.Group("/api/v1")
	registerAuthRoutes(public, auth, middleware.RateLimit(loginLimiter))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, base, auth, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, base baseHandler, auth *authHandler, services *portssvc.ServiceContainer) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(services.Token))

	registerSessionRoutes(v1, auth)
	registerBranchRoutes(v1, base, services.Branch)
	registerRoleRoutes(v1, base, services.Role)
	registerActorRoutes(v1, base, services.Actor)
	registerMemberRoutes(v1, base, services.Member, services.Project)
	registerReferenceRoutes(v1, base, services.Reference)
	registerCatalogRoutes(v1, base, services.Catalog)
	registerBudgetRoutes(v1, base, services.Budget)
	registerRecordRoutes(v1, base, services.Record)
	registerReportingRoutes(v1, base, services.Reporting, services.Audit)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
