package dto

import (
	"time"

	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTaskRequest defines the data needed to create a task.
type CreateTaskRequest struct {
	ProjectID      string               `json:"projectID" binding:"required,uuid"`
	Title          string               `json:"title" binding:"required"`
	Description    string               `json:"description"`
	AssigneeIDs    []string             `json:"assigneeIDs"`
	Priority       *domain.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	DueDate        *time.Time           `json:"dueDate"`
	EstimatedHours decimal.Decimal      `json:"estimatedHours"`
}

// Validate checks binding tags and the estimate sign.
func (r CreateTaskRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if err := requireNotBlank("title", r.Title); err != nil {
		return err
	}
	return requireNonNegative("estimatedHours", r.EstimatedHours, HoursScale)
}

// UpdateTaskRequest defines the editable task fields. Logged hours are
// only changed through LogHours and timesheets.
type UpdateTaskRequest struct {
	Title          *string              `json:"title" binding:"omitempty,min=1"`
	Description    *string              `json:"description"`
	AssigneeIDs    []string             `json:"assigneeIDs"`
	Priority       *domain.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Status         *domain.TaskStatus   `json:"status" binding:"omitempty,oneof=NEW IN_PROGRESS BLOCKED DONE"`
	DueDate        *time.Time           `json:"dueDate"`
	EstimatedHours *decimal.Decimal     `json:"estimatedHours"`
}

// Validate checks binding tags and the estimate sign.
func (r UpdateTaskRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if r.EstimatedHours != nil {
		return requireNonNegative("estimatedHours", *r.EstimatedHours, HoursScale)
	}
	return nil
}

// LogHoursRequest adds hours to a task without a timesheet row.
type LogHoursRequest struct {
	Hours decimal.Decimal `json:"hours"`
}

// ListTasksParams defines query parameters for listing tasks.
type ListTasksParams struct {
	ProjectID string            `form:"projectID"`
	Status    domain.TaskStatus `form:"status"`
}

// LogTimesheetRequest records hours worked on a task.
type LogTimesheetRequest struct {
	TaskID      string          `json:"taskID" binding:"required,uuid"`
	ProjectID   string          `json:"projectID" binding:"omitempty,uuid"` // Defaults to the task's project
	EmployeeID  string          `json:"employeeID"`                         // Defaults to the caller
	Hours       decimal.Decimal `json:"hours"`
	Date        *time.Time      `json:"date"`
	Description string          `json:"description"`
	Billable    bool            `json:"billable"`
}

// Validate checks binding tags and that hours are positive.
func (r LogTimesheetRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	return requirePositive("hours", r.Hours, HoursScale)
}

// ListTimesheetsParams defines query parameters for listing timesheets.
type ListTimesheetsParams struct {
	TaskID     string     `form:"taskID"`
	ProjectID  string     `form:"projectID"`
	EmployeeID string     `form:"employeeID"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// CreateExpenseRequest defines the data needed to record an expense.
type CreateExpenseRequest struct {
	ProjectID   string                  `json:"projectID" binding:"required,uuid"`
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Amount      decimal.Decimal         `json:"amount"`
	Category    *domain.ExpenseCategory `json:"category" binding:"omitempty,oneof=TRAVEL TOOLS SOFTWARE OTHER"`
	ExpenseDate *time.Time              `json:"expenseDate"`
	Billable    bool                    `json:"billable"`
}

// Validate checks binding tags and that the amount is positive.
func (r CreateExpenseRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if err := requireNotBlank("title", r.Title); err != nil {
		return err
	}
	return requirePositive("amount", r.Amount, MoneyScale)
}

// UpdateExpenseStatusRequest moves an expense through its approval flow.
type UpdateExpenseStatusRequest struct {
	Status domain.ExpenseStatus `json:"status" binding:"required,oneof=SUBMITTED APPROVED REJECTED REIMBURSED"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	ProjectID string               `form:"projectID"`
	Status    domain.ExpenseStatus `form:"status"`
}
