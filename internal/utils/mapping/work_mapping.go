package mapping

import (
	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/SscSPs/oneflow/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:   d.ExpenseID,
		ProjectID:   d.ProjectID,
		SubmittedBy: d.SubmittedBy,
		Title:       d.Title,
		Description: d.Description,
		Amount:      d.Amount,
		Category:    string(d.Category),
		ExpenseDate: d.ExpenseDate,
		Billable:    d.Billable,
		Status:      string(d.Status),
		ApprovedBy:  d.ApprovedBy,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:   m.ExpenseID,
		ProjectID:   m.ProjectID,
		SubmittedBy: m.SubmittedBy,
		Title:       m.Title,
		Description: m.Description,
		Amount:      m.Amount,
		Category:    domain.ExpenseCategory(m.Category),
		ExpenseDate: m.ExpenseDate,
		Billable:    m.Billable,
		Status:      domain.ExpenseStatus(m.Status),
		ApprovedBy:  m.ApprovedBy,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTask converts a domain Task to a model Task
func ToModelTask(d domain.Task) models.Task {
	return models.Task{
		TaskID:         d.TaskID,
		ProjectID:      d.ProjectID,
		Title:          d.Title,
		Description:    d.Description,
		AssigneeIDs:    nonNil(d.AssigneeIDs),
		Priority:       string(d.Priority),
		Status:         string(d.Status),
		DueDate:        d.DueDate,
		EstimatedHours: d.EstimatedHours,
		ActualHours:    d.ActualHours,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTask converts a model Task to a domain Task
func ToDomainTask(m models.Task) domain.Task {
	return domain.Task{
		TaskID:         m.TaskID,
		ProjectID:      m.ProjectID,
		Title:          m.Title,
		Description:    m.Description,
		AssigneeIDs:    nonNil(m.AssigneeIDs),
		Priority:       domain.TaskPriority(m.Priority),
		Status:         domain.TaskStatus(m.Status),
		DueDate:        m.DueDate,
		EstimatedHours: m.EstimatedHours,
		ActualHours:    m.ActualHours,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTimesheet converts a domain Timesheet to a model Timesheet
func ToModelTimesheet(d domain.Timesheet) models.Timesheet {
	return models.Timesheet{
		TimesheetID: d.TimesheetID,
		TaskID:      d.TaskID,
		ProjectID:   d.ProjectID,
		EmployeeID:  d.EmployeeID,
		Hours:       d.Hours,
		WorkDate:    d.Date,
		Description: d.Description,
		Billable:    d.Billable,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTimesheet converts a model Timesheet to a domain Timesheet
func ToDomainTimesheet(m models.Timesheet) domain.Timesheet {
	return domain.Timesheet{
		TimesheetID: m.TimesheetID,
		TaskID:      m.TaskID,
		ProjectID:   m.ProjectID,
		EmployeeID:  m.EmployeeID,
		Hours:       m.Hours,
		Date:        m.WorkDate,
		Description: m.Description,
		Billable:    m.Billable,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
