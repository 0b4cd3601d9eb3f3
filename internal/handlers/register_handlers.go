package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/SscSPs/oneflow/cmd/oneflow/docs"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/middleware"
	"github.com/SscSPs/oneflow/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// A nil rateLimiter disables rate limiting on the API group.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, rateLimiter)
	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes serves the API docs outside production.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	if rateLimiter != nil {
		v1.Use(middleware.RateLimit(rateLimiter))
	}

	RegisterDocumentRoutes(v1, service.Document)
	RegisterProjectRoutes(v1, service.Project, service.Ledger)
	RegisterWorkRoutes(v1, service.Task, service.Timesheet, service.Expense)
}

// RegisterDocumentRoutes is exported for handler tests.
func RegisterDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	registerDocumentRoutes(rg, documentService)
}

// RegisterProjectRoutes is exported for handler tests.
func RegisterProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	registerProjectRoutes(rg, projectService, ledgerService)
}

// RegisterWorkRoutes is exported for handler tests.
func RegisterWorkRoutes(rg *gin.RouterGroup, ts portssvc.TaskSvcFacade, tss portssvc.TimesheetSvcFacade, es portssvc.ExpenseSvcFacade) {
	registerWorkRoutes(rg, ts, tss, es)
}
