package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	"github.com/SscSPs/oneflow/internal/models"
	"github.com/SscSPs/oneflow/internal/utils/mapping"
)

const timesheetColumns = `timesheet_id, task_id, project_id, employee_id, hours, work_date, description, billable,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxTimesheetRepository struct {
	BaseRepository
}

// newPgxTimesheetRepository creates a new repository for timesheets.
func newPgxTimesheetRepository(pool *pgxpool.Pool) portsrepo.TimesheetRepositoryFacade {
	return &PgxTimesheetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TimesheetRepositoryFacade = (*PgxTimesheetRepository)(nil)

// SaveTimesheet inserts the timesheet and increments the task's hours in one transaction.
func (r *PgxTimesheetRepository) SaveTimesheet(ctx context.Context, timesheet domain.Timesheet) (*domain.Task, error) {
	m := mapping.ToModelTimesheet(timesheet)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO timesheets (` + timesheetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		m.TimesheetID,
		m.TaskID,
		m.ProjectID,
		m.EmployeeID,
		m.Hours,
		m.WorkDate,
		m.Description,
		m.Billable,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "save timesheet "+m.TimesheetID)
	}

	task, err := incrementTaskHours(ctx, tx, m.TaskID, m.Hours, m.CreatedBy, m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTimesheets retrieves timesheets matching filter, most recent first.
func (r *PgxTimesheetRepository) ListTimesheets(ctx context.Context, filter portsrepo.TimesheetFilter) ([]domain.Timesheet, error) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)
	add := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if filter.TaskID != "" {
		add("task_id = ?", filter.TaskID)
	}
	if filter.ProjectID != "" {
		add("project_id = ?", filter.ProjectID)
	}
	if filter.EmployeeID != "" {
		add("employee_id = ?", filter.EmployeeID)
	}
	if filter.From != nil {
		add("work_date >= ?::date", *filter.From)
	}
	if filter.To != nil {
		add("work_date <= ?::date", *filter.To)
	}

	query := `SELECT ` + timesheetColumns + ` FROM timesheets`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY work_date DESC, created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "list timesheets")
	}
	defer rows.Close()

	timesheets := make([]domain.Timesheet, 0)
	for rows.Next() {
		var m models.Timesheet
		err := rows.Scan(
			&m.TimesheetID,
			&m.TaskID,
			&m.ProjectID,
			&m.EmployeeID,
			&m.Hours,
			&m.WorkDate,
			&m.Description,
			&m.Billable,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet row: %w", err)
		}
		timesheets = append(timesheets, mapping.ToDomainTimesheet(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timesheet rows: %w", err)
	}
	return timesheets, nil
}
