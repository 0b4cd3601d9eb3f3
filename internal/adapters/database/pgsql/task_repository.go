package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	"github.com/SscSPs/oneflow/internal/models"
	"github.com/SscSPs/oneflow/internal/utils/mapping"
)

const taskColumns = `task_id, project_id, title, description, assignee_ids, priority, status, due_date,
	estimated_hours, actual_hours, created_at, created_by, last_updated_at, last_updated_by`

type PgxTaskRepository struct {
	BaseRepository
}

// newPgxTaskRepository creates a new repository for tasks.
func newPgxTaskRepository(pool *pgxpool.Pool) portsrepo.TaskRepositoryFacade {
	return &PgxTaskRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaskRepositoryFacade = (*PgxTaskRepository)(nil)

func scanTask(row pgx.Row) (models.Task, error) {
	var m models.Task
	err := row.Scan(
		&m.TaskID,
		&m.ProjectID,
		&m.Title,
		&m.Description,
		&m.AssigneeIDs,
		&m.Priority,
		&m.Status,
		&m.DueDate,
		&m.EstimatedHours,
		&m.ActualHours,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTask inserts a new task.
func (r *PgxTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TaskID,
		m.ProjectID,
		m.Title,
		m.Description,
		m.AssigneeIDs,
		m.Priority,
		m.Status,
		m.DueDate,
		m.EstimatedHours,
		m.ActualHours,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save task "+m.TaskID)
	}
	return nil
}

// UpdateTask writes the editable columns; actual_hours is never touched here.
func (r *PgxTaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	query := `
		UPDATE tasks
		SET title = $2, description = $3, assignee_ids = $4, priority = $5, status = $6, due_date = $7,
		    estimated_hours = $8, last_updated_at = $9, last_updated_by = $10
		WHERE task_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.TaskID,
		m.Title,
		m.Description,
		m.AssigneeIDs,
		m.Priority,
		m.Status,
		m.DueDate,
		m.EstimatedHours,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update task "+m.TaskID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", apperrors.ErrNotFound, m.TaskID)
	}
	return nil
}

// IncrementActualHours adds hours in a single statement.
func (r *PgxTaskRepository) IncrementActualHours(ctx context.Context, taskID string, hours decimal.Decimal, actorID string, at time.Time) (*domain.Task, error) {
	return incrementTaskHours(ctx, r.Pool, taskID, hours, actorID, at)
}

func incrementTaskHours(ctx context.Context, q querier, taskID string, hours decimal.Decimal, actorID string, at time.Time) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET actual_hours = actual_hours + $2, last_updated_at = $3, last_updated_by = $4
		WHERE task_id = $1
		RETURNING ` + taskColumns + `;
	`
	m, err := scanTask(q.QueryRow(ctx, query, taskID, hours, at, actorID))
	if err != nil {
		return nil, mapPgError(err, "increment hours of task "+taskID)
	}
	t := mapping.ToDomainTask(m)
	return &t, nil
}

// FindTaskByID retrieves a task by its ID.
func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1;`
	m, err := scanTask(r.Pool.QueryRow(ctx, query, taskID))
	if err != nil {
		return nil, mapPgError(err, "find task "+taskID)
	}
	t := mapping.ToDomainTask(m)
	return &t, nil
}

// ListTasks retrieves tasks in creation order.
func (r *PgxTaskRepository) ListTasks(ctx context.Context, projectID string, status domain.TaskStatus) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ($1 = '' OR project_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at, task_id;
	`
	rows, err := r.Pool.Query(ctx, query, projectID, string(status))
	if err != nil {
		return nil, mapPgError(err, "list tasks")
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		m, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, mapping.ToDomainTask(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}
