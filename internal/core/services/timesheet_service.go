package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/dto"
)

type timesheetService struct {
	BaseService
	timesheetRepo portsrepo.TimesheetRepositoryFacade
	taskRepo      portsrepo.TaskReader
}

// NewTimesheetService creates a new TimesheetService.
func NewTimesheetService(timesheetRepo portsrepo.TimesheetRepositoryFacade, taskRepo portsrepo.TaskReader) portssvc.TimesheetSvcFacade {
	return &timesheetService{timesheetRepo: timesheetRepo, taskRepo: taskRepo}
}

var _ portssvc.TimesheetSvcFacade = (*timesheetService)(nil)

// LogTimesheet implements portssvc.TimesheetSvcFacade
func (s *timesheetService) LogTimesheet(ctx context.Context, req dto.LogTimesheetRequest, actorID string) (*domain.Timesheet, *domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	task, err := s.taskRepo.FindTaskByID(ctx, req.TaskID)
	if err != nil {
		return nil, nil, err
	}
	projectID := req.ProjectID
	if projectID == "" {
		projectID = task.ProjectID
	}
	if projectID != task.ProjectID {
		return nil, nil, fmt.Errorf("%w: task %s does not belong to project %s", apperrors.ErrValidation, task.TaskID, projectID)
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actorID
	}

	now := s.Now()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	timesheet := domain.Timesheet{
		TimesheetID: uuid.NewString(),
		TaskID:      task.TaskID,
		ProjectID:   projectID,
		EmployeeID:  employeeID,
		Hours:       req.Hours,
		Date:        date,
		Description: req.Description,
		Billable:    req.Billable,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	updated, err := s.timesheetRepo.SaveTimesheet(ctx, timesheet)
	if err != nil {
		s.LogError(ctx, err, "Failed to save timesheet", slog.String("task_id", task.TaskID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Timesheet logged",
		slog.String("timesheet_id", timesheet.TimesheetID),
		slog.String("task_id", task.TaskID),
		slog.String("hours", req.Hours.String()))
	return &timesheet, updated, nil
}

// ListTimesheets implements portssvc.TimesheetSvcFacade
func (s *timesheetService) ListTimesheets(ctx context.Context, params dto.ListTimesheetsParams) ([]domain.Timesheet, error) {
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return nil, fmt.Errorf("%w: 'to' must not be before 'from'", apperrors.ErrValidation)
	}
	if err := requireFilterID("taskID", params.TaskID); err != nil {
		return nil, err
	}
	if err := requireFilterID("projectID", params.ProjectID); err != nil {
		return nil, err
	}
	return s.timesheetRepo.ListTimesheets(ctx, portsrepo.TimesheetFilter{
		TaskID:     params.TaskID,
		ProjectID:  params.ProjectID,
		EmployeeID: params.EmployeeID,
		From:       params.From,
		To:         params.To,
	})
}
