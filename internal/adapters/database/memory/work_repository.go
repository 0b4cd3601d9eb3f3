package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
)

type expenseRepository struct {
	store *Store
}

var _ portsrepo.ExpenseRepositoryFacade = (*expenseRepository)(nil)

func (r *expenseRepository) SaveExpense(ctx context.Context, expense domain.Expense, rollup domain.Rollup) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.expenses[expense.ExpenseID]; exists {
		return fmt.Errorf("%w: expense %s", apperrors.ErrDuplicate, expense.ExpenseID)
	}
	project, entry, err := r.store.rollupLocked(rollup)
	if err != nil {
		return err
	}
	r.store.expenses[expense.ExpenseID] = expense.Clone()
	r.store.publishRollupLocked(project, entry)
	return nil
}

func (r *expenseRepository) UpdateExpenseStatus(ctx context.Context, expense domain.Expense) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.expenses[expense.ExpenseID]
	if !ok {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expense.ExpenseID)
	}
	next := current.Clone()
	next.Status = expense.Status
	next.ApprovedBy = expense.Clone().ApprovedBy
	next.LastUpdatedAt = expense.LastUpdatedAt
	next.LastUpdatedBy = expense.LastUpdatedBy
	r.store.expenses[expense.ExpenseID] = next
	return nil
}

func (r *expenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	expense, ok := r.store.expenses[expenseID]
	if !ok {
		return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	c := expense.Clone()
	return &c, nil
}

func (r *expenseRepository) ListExpenses(ctx context.Context, projectID string, status domain.ExpenseStatus) ([]domain.Expense, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	expenses := make([]domain.Expense, 0)
	for _, e := range r.store.expenses {
		if projectID != "" && e.ProjectID != projectID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		expenses = append(expenses, e.Clone())
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].ExpenseDate.After(expenses[j].ExpenseDate)
	})
	return expenses, nil
}

type taskRepository struct {
	store *Store
}

var _ portsrepo.TaskRepositoryFacade = (*taskRepository)(nil)

func (r *taskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.projects[task.ProjectID]; !ok {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, task.ProjectID)
	}
	if _, exists := r.store.tasks[task.TaskID]; exists {
		return fmt.Errorf("%w: task %s", apperrors.ErrDuplicate, task.TaskID)
	}
	r.store.tasks[task.TaskID] = task.Clone()
	return nil
}

func (r *taskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.tasks[task.TaskID]
	if !ok {
		return fmt.Errorf("%w: task %s", apperrors.ErrNotFound, task.TaskID)
	}
	next := task.Clone()
	next.ProjectID = current.ProjectID
	next.ActualHours = current.ActualHours
	next.AuditFields.CreatedAt = current.CreatedAt
	next.AuditFields.CreatedBy = current.CreatedBy
	r.store.tasks[task.TaskID] = next
	return nil
}

func (r *taskRepository) IncrementActualHours(ctx context.Context, taskID string, hours decimal.Decimal, actorID string, at time.Time) (*domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	task, err := r.store.incrementHoursLocked(taskID, hours, actorID, at)
	if err != nil {
		return nil, err
	}
	r.store.tasks[taskID] = task
	c := task.Clone()
	return &c, nil
}

func (r *taskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	task, ok := r.store.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID)
	}
	c := task.Clone()
	return &c, nil
}

func (r *taskRepository) ListTasks(ctx context.Context, projectID string, status domain.TaskStatus) ([]domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tasks := make([]domain.Task, 0)
	for _, t := range r.store.tasks {
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		tasks = append(tasks, t.Clone())
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// incrementHoursLocked returns the task with hours added, unpublished. s.mu must be held.
func (s *Store) incrementHoursLocked(taskID string, hours decimal.Decimal, actorID string, at time.Time) (domain.Task, error) {
	current, ok := s.tasks[taskID]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID)
	}
	next := current.Clone()
	next.ActualHours = next.ActualHours.Add(hours)
	next.LastUpdatedAt = at
	next.LastUpdatedBy = actorID
	return next, nil
}

type timesheetRepository struct {
	store *Store
}

var _ portsrepo.TimesheetRepositoryFacade = (*timesheetRepository)(nil)

func (r *timesheetRepository) SaveTimesheet(ctx context.Context, timesheet domain.Timesheet) (*domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	task, err := r.store.incrementHoursLocked(timesheet.TaskID, timesheet.Hours, timesheet.CreatedBy, timesheet.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.store.timesheets = append(r.store.timesheets, timesheet)
	r.store.tasks[task.TaskID] = task
	c := task.Clone()
	return &c, nil
}

func (r *timesheetRepository) ListTimesheets(ctx context.Context, filter portsrepo.TimesheetFilter) ([]domain.Timesheet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	timesheets := make([]domain.Timesheet, 0)
	for _, ts := range r.store.timesheets {
		if filter.TaskID != "" && ts.TaskID != filter.TaskID {
			continue
		}
		if filter.ProjectID != "" && ts.ProjectID != filter.ProjectID {
			continue
		}
		if filter.EmployeeID != "" && ts.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.From != nil && ts.Date.Before(*filter.From) {
			continue
		}
		// To is an inclusive calendar day.
		if filter.To != nil && !ts.Date.Before(filter.To.AddDate(0, 0, 1)) {
			continue
		}
		timesheets = append(timesheets, ts)
	}
	sort.SliceStable(timesheets, func(i, j int) bool {
		return timesheets[i].Date.After(timesheets[j].Date)
	})
	return timesheets, nil
}
