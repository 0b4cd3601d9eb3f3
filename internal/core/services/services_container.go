package services

import (
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) (*portssvc.ServiceContainer, error) {
	numbering, err := NewNumberingService(cfg.NumberingNodeID)
	if err != nil {
		return nil, err
	}

	container := &portssvc.ServiceContainer{
		Numbering: numbering,
	}
	container.Document = NewDocumentService(repos.DocumentRepo, numbering, WithDefaultTaxRate(cfg.DefaultTaxRate))
	container.Ledger = NewLedgerService(repos.ProjectRepo)
	container.Project = NewProjectService(repos.ProjectRepo)
	container.Task = NewTaskService(repos.TaskRepo, repos.ProjectRepo)
	container.Timesheet = NewTimesheetService(repos.TimesheetRepo, repos.TaskRepo)
	container.Expense = NewExpenseService(repos.ExpenseRepo)

	return container, nil
}
