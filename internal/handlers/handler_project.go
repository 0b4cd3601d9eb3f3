package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/oneflow/internal/core/domain"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/dto"
	"github.com/SscSPs/oneflow/internal/middleware"
)

// projectHandler handles HTTP requests for projects and their ledger.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

func newProjectHandler(ps portssvc.ProjectSvcFacade, ls portssvc.LedgerSvcFacade) *projectHandler {
	return &projectHandler{projectService: ps, ledgerService: ls}
}

// registerProjectRoutes registers project CRUD and ledger routes.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newProjectHandler(projectService, ledgerService)

	rg.GET("/project-stats", h.getProjectStats)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:projectID", h.getProject)
		projects.PATCH("/:projectID", h.updateProject)

		projects.POST("/:projectID/attachments", h.attachDocument)
		projects.POST("/:projectID/reconcile", h.reconcileProject)
		projects.GET("/:projectID/ledger", h.listLedgerEntries)
	}
}

// createProject godoc
// @Summary Create a project
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create project"
// @Security BearerAuth
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// getProject godoc
// @Summary Get a project by ID
// @Description Returns the project with its revenue, cost, profit and attached references
// @Tags projects
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to retrieve project"
// @Security BearerAuth
// @Router /projects/{projectID} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("projectID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// listProjects godoc
// @Summary List projects
// @Tags projects
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.ProjectResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list projects"
// @Security BearerAuth
// @Router /projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListProjectsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, dto.ToListProjectResponse(projects))
}

// updateProject godoc
// @Summary Update a project
// @Description Updates editable project fields. Totals and references are not editable.
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   project body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to update project"
// @Security BearerAuth
// @Router /projects/{projectID} [patch]
func (h *projectHandler) updateProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), c.Param("projectID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// getProjectStats godoc
// @Summary Project statistics
// @Description Counts projects and sums budgets, revenue and cost across all projects
// @Tags projects
// @Produce  json
// @Success 200 {object} domain.ProjectStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute project stats"
// @Security BearerAuth
// @Router /project-stats [get]
func (h *projectHandler) getProjectStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	stats, err := h.projectService.GetProjectStats(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute project stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// attachDocument godoc
// @Summary Attach a document to a project
// @Description Appends the reference and adds the amount to revenue or cost atomically. A reference can be attached once.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   attachment body dto.AttachDocumentRequest true "Reference and amount"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} map[string]string "Invalid kind or negative amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 409 {object} map[string]string "Reference already attached or concurrent update"
// @Failure 500 {object} map[string]string "Failed to attach document"
// @Security BearerAuth
// @Router /projects/{projectID}/attachments [post]
func (h *projectHandler) attachDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AttachDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	ref := domain.DocumentRef{Kind: req.Kind, DocumentID: req.DocumentID}
	project, err := h.ledgerService.AttachDocument(c.Request.Context(), c.Param("projectID"), ref, req.Amount, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to attach document")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// reconcileProject godoc
// @Summary Reconcile project totals
// @Description Recomputes revenue and cost from the project ledger entries
// @Tags ledger
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to reconcile project"
// @Security BearerAuth
// @Router /projects/{projectID}/reconcile [post]
func (h *projectHandler) reconcileProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	project, err := h.ledgerService.ReconcileProject(c.Request.Context(), c.Param("projectID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// listLedgerEntries godoc
// @Summary List project ledger entries
// @Tags ledger
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {array} domain.LedgerEntry
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to list ledger entries"
// @Security BearerAuth
// @Router /projects/{projectID}/ledger [get]
func (h *projectHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entries, err := h.ledgerService.ListLedgerEntries(c.Request.Context(), c.Param("projectID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}
