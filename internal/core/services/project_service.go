package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/dto"
)

type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo portsrepo.ProjectRepositoryFacade) portssvc.ProjectSvcFacade {
	return &projectService{projectRepo: projectRepo}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject implements portssvc.ProjectSvcFacade
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, actorID string) (*domain.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := domain.ProjectNew
	if req.Status != nil {
		status = *req.Status
	}

	now := s.Now()
	project := domain.Project{
		ProjectID:        uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		ManagerID:        req.ManagerID,
		TeamMemberIDs:    append([]string{}, req.TeamMemberIDs...),
		Status:           status,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Budget:           req.Budget,
		TotalRevenue:     decimal.Zero,
		TotalCost:        decimal.Zero,
		SalesOrderIDs:    []string{},
		PurchaseOrderIDs: []string{},
		InvoiceIDs:       []string{},
		VendorBillIDs:    []string{},
		ExpenseIDs:       []string{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to save project", slog.String("name", req.Name))
		return nil, err
	}
	s.LogInfo(ctx, "Project created", slog.String("project_id", project.ProjectID))
	return &project, nil
}

// GetProject implements portssvc.ProjectSvcFacade
func (s *projectService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	if err := requireID("project", projectID); err != nil {
		return nil, err
	}
	return s.projectRepo.FindProjectByID(ctx, projectID)
}

// ListProjects implements portssvc.ProjectSvcFacade
func (s *projectService) ListProjects(ctx context.Context, params dto.ListProjectsParams) ([]domain.Project, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown project status %q", apperrors.ErrValidation, params.Status)
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return s.projectRepo.ListProjects(ctx, params.Status, params.Limit, params.Offset)
}

// UpdateProject implements portssvc.ProjectSvcFacade
func (s *projectService) UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, actorID string) (*domain.Project, error) {
	if err := requireID("project", projectID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project := current.Clone()

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.ManagerID != nil {
		project.ManagerID = *req.ManagerID
	}
	if req.TeamMemberIDs != nil {
		project.TeamMemberIDs = append([]string{}, req.TeamMemberIDs...)
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}
	if req.Status != nil {
		if !project.Status.CanTransitionTo(*req.Status) {
			return nil, fmt.Errorf("%w: project cannot move from %s to %s", apperrors.ErrValidation, project.Status, *req.Status)
		}
		project.Status = *req.Status
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", apperrors.ErrValidation)
	}

	project.LastUpdatedAt = s.Now()
	project.LastUpdatedBy = actorID

	if err := s.projectRepo.UpdateProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to update project", slog.String("project_id", projectID))
		return nil, err
	}
	// Totals may have moved concurrently; return the stored row.
	return s.projectRepo.FindProjectByID(ctx, projectID)
}

// GetProjectStats implements portssvc.ProjectSvcFacade
func (s *projectService) GetProjectStats(ctx context.Context) (*domain.ProjectStats, error) {
	return s.projectRepo.GetProjectStats(ctx)
}
