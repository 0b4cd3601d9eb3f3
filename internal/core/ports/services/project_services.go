package services

import (
	"context"

	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/SscSPs/oneflow/internal/dto"
	"github.com/shopspring/decimal"
)

// ProjectSvcFacade defines project CRUD operations
type ProjectSvcFacade interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, actorID string) (*domain.Project, error)
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, params dto.ListProjectsParams) ([]domain.Project, error)
	UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, actorID string) (*domain.Project, error)
	GetProjectStats(ctx context.Context) (*domain.ProjectStats, error)
}

// TaskSvcFacade defines task operations
type TaskSvcFacade interface {
	CreateTask(ctx context.Context, req dto.CreateTaskRequest, actorID string) (*domain.Task, error)
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, params dto.ListTasksParams) ([]domain.Task, error)
	UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest, actorID string) (*domain.Task, error)

	// LogHours atomically adds hours to the task's ActualHours.
	LogHours(ctx context.Context, taskID string, hours decimal.Decimal, actorID string) (*domain.Task, error)
}

// TimesheetSvcFacade defines timesheet operations
type TimesheetSvcFacade interface {
	// LogTimesheet records the timesheet and increments its task's hours together.
	LogTimesheet(ctx context.Context, req dto.LogTimesheetRequest, actorID string) (*domain.Timesheet, *domain.Task, error)
	ListTimesheets(ctx context.Context, params dto.ListTimesheetsParams) ([]domain.Timesheet, error)
}

// ExpenseSvcFacade defines expense operations
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actorID string) (*domain.Expense, error)
	GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, params dto.ListExpensesParams) ([]domain.Expense, error)
	UpdateExpenseStatus(ctx context.Context, expenseID string, req dto.UpdateExpenseStatusRequest, actorID string) (*domain.Expense, error)
}
