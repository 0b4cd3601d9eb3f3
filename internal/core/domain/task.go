package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskPriority ranks tasks within a project.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

// IsValid reports whether p is a known priority.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskNew        TaskStatus = "NEW"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskBlocked    TaskStatus = "BLOCKED"
	TaskDone       TaskStatus = "DONE"
)

// IsValid reports whether s is a known task status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskNew, TaskInProgress, TaskBlocked, TaskDone:
		return true
	}
	return false
}

// Task is a unit of project work that accumulates logged hours.
type Task struct {
	TaskID         string          `json:"taskID"`
	ProjectID      string          `json:"projectID"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	AssigneeIDs    []string        `json:"assigneeIDs"`
	Priority       TaskPriority    `json:"priority"`
	Status         TaskStatus      `json:"status"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	EstimatedHours decimal.Decimal `json:"estimatedHours"`
	ActualHours    decimal.Decimal `json:"actualHours"`
	AuditFields
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	c.AssigneeIDs = append([]string(nil), t.AssigneeIDs...)
	if t.DueDate != nil {
		v := *t.DueDate
		c.DueDate = &v
	}
	return c
}

// Timesheet is one logged block of hours against a task.
type Timesheet struct {
	TimesheetID string          `json:"timesheetID"`
	TaskID      string          `json:"taskID"`
	ProjectID   string          `json:"projectID"`
	EmployeeID  string          `json:"employeeID"`
	Hours       decimal.Decimal `json:"hours"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	Billable    bool            `json:"billable"`
	AuditFields
}
