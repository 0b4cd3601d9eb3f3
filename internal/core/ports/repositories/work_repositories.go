package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseReader defines read operations for expenses
type ExpenseReader interface {
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	// ListExpenses filters by project and status; empty values match everything.
	ListExpenses(ctx context.Context, projectID string, status domain.ExpenseStatus) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expenses
type ExpenseWriter interface {
	// SaveExpense inserts the expense and applies rollup in the same transaction.
	SaveExpense(ctx context.Context, expense domain.Expense, rollup domain.Rollup) error
	// UpdateExpenseStatus changes status and approver only.
	UpdateExpenseStatus(ctx context.Context, expense domain.Expense) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

// TaskReader defines read operations for tasks
type TaskReader interface {
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, projectID string, status domain.TaskStatus) ([]domain.Task, error)
}

// TaskWriter defines write operations for tasks
type TaskWriter interface {
	SaveTask(ctx context.Context, task domain.Task) error
	// UpdateTask persists editable fields. ActualHours is never written here.
	UpdateTask(ctx context.Context, task domain.Task) error
	// IncrementActualHours atomically adds hours to the task and returns the updated row.
	IncrementActualHours(ctx context.Context, taskID string, hours decimal.Decimal, actorID string, at time.Time) (*domain.Task, error)
}

// TaskRepositoryFacade combines all task-related repository interfaces
type TaskRepositoryFacade interface {
	TaskReader
	TaskWriter
}

// TimesheetFilter narrows ListTimesheets. Zero values match everything.
type TimesheetFilter struct {
	TaskID     string
	ProjectID  string
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

// TimesheetRepositoryFacade defines timesheet persistence.
type TimesheetRepositoryFacade interface {
	// SaveTimesheet inserts the timesheet and increments its task's hours in
	// one transaction, returning the updated task.
	SaveTimesheet(ctx context.Context, timesheet domain.Timesheet) (*domain.Task, error)
	ListTimesheets(ctx context.Context, filter TimesheetFilter) ([]domain.Timesheet, error)
}
