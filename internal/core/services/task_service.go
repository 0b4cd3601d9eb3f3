package services

import (
	"context"
	"errors"
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

type taskService struct {
	BaseService
	taskRepo    portsrepo.TaskRepositoryFacade
	projectRepo portsrepo.ProjectReader
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo portsrepo.TaskRepositoryFacade, projectRepo portsrepo.ProjectReader) portssvc.TaskSvcFacade {
	return &taskService{taskRepo: taskRepo, projectRepo: projectRepo}
}

var _ portssvc.TaskSvcFacade = (*taskService)(nil)

// CreateTask implements portssvc.TaskSvcFacade
func (s *taskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest, actorID string) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	priority := domain.PriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	now := s.Now()
	task := domain.Task{
		TaskID:         uuid.NewString(),
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		AssigneeIDs:    append([]string{}, req.AssigneeIDs...),
		Priority:       priority,
		Status:         domain.TaskNew,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save task", slog.String("project_id", req.ProjectID))
		return nil, err
	}
	return &task, nil
}

// GetTask implements portssvc.TaskSvcFacade
func (s *taskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	if err := requireID("task", taskID); err != nil {
		return nil, err
	}
	return s.taskRepo.FindTaskByID(ctx, taskID)
}

// ListTasks implements portssvc.TaskSvcFacade
func (s *taskService) ListTasks(ctx context.Context, params dto.ListTasksParams) ([]domain.Task, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown task status %q", apperrors.ErrValidation, params.Status)
	}
	if err := requireFilterID("projectID", params.ProjectID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListTasks(ctx, params.ProjectID, params.Status)
}

// UpdateTask implements portssvc.TaskSvcFacade
func (s *taskService) UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest, actorID string) (*domain.Task, error) {
	if err := requireID("task", taskID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task := current.Clone()

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssigneeIDs != nil {
		task.AssigneeIDs = append([]string{}, req.AssigneeIDs...)
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	task.LastUpdatedAt = s.Now()
	task.LastUpdatedBy = actorID

	if err := s.taskRepo.UpdateTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to update task", slog.String("task_id", taskID))
		return nil, err
	}
	// ActualHours may have moved concurrently; return the stored row.
	return s.taskRepo.FindTaskByID(ctx, taskID)
}

// LogHours implements portssvc.TaskSvcFacade
func (s *taskService) LogHours(ctx context.Context, taskID string, hours decimal.Decimal, actorID string) (*domain.Task, error) {
	if err := dto.ValidateHours(hours); err != nil {
		return nil, err
	}
	if err := requireID("task", taskID); err != nil {
		return nil, err
	}
	task, err := s.taskRepo.IncrementActualHours(ctx, taskID, hours, actorID, s.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to log task hours", slog.String("task_id", taskID))
		}
		return nil, err
	}
	s.LogDebug(ctx, "Task hours logged",
		slog.String("task_id", taskID),
		slog.String("hours", hours.String()),
		slog.String("actual_hours", task.ActualHours.String()))
	return task, nil
}
