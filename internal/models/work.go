package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the row stored in the expenses table.
type Expense struct {
	ExpenseID   string          `db:"expense_id"`
	ProjectID   string          `db:"project_id"`
	SubmittedBy string          `db:"submitted_by"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	Category    string          `db:"category"`
	ExpenseDate time.Time       `db:"expense_date"`
	Billable    bool            `db:"billable"`
	Status      string          `db:"status"`
	ApprovedBy  *string         `db:"approved_by"` // Nullable
	AuditFields
}

// Task is the row stored in the tasks table.
type Task struct {
	TaskID         string          `db:"task_id"`
	ProjectID      string          `db:"project_id"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	AssigneeIDs    []string        `db:"assignee_ids"`
	Priority       string          `db:"priority"`
	Status         string          `db:"status"`
	DueDate        *time.Time      `db:"due_date"` // Nullable
	EstimatedHours decimal.Decimal `db:"estimated_hours"`
	ActualHours    decimal.Decimal `db:"actual_hours"`
	AuditFields
}

// Timesheet is the row stored in the timesheets table.
type Timesheet struct {
	TimesheetID string          `db:"timesheet_id"`
	TaskID      string          `db:"task_id"`
	ProjectID   string          `db:"project_id"`
	EmployeeID  string          `db:"employee_id"`
	Hours       decimal.Decimal `db:"hours"`
	WorkDate    time.Time       `db:"work_date"`
	Description string          `db:"description"`
	Billable    bool            `db:"billable"`
	AuditFields
}
