package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	"github.com/SscSPs/oneflow/internal/models"
	"github.com/SscSPs/oneflow/internal/utils/mapping"
)

const expenseColumns = `expense_id, project_id, submitted_by, title, description, amount, category, expense_date,
	billable, status, approved_by, created_at, created_by, last_updated_at, last_updated_by`

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expenses.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.ProjectID,
		&m.SubmittedBy,
		&m.Title,
		&m.Description,
		&m.Amount,
		&m.Category,
		&m.ExpenseDate,
		&m.Billable,
		&m.Status,
		&m.ApprovedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveExpense inserts the expense and attaches it to its project in one transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense, rollup domain.Rollup) error {
	m := mapping.ToModelExpense(expense)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		m.ExpenseID,
		m.ProjectID,
		m.SubmittedBy,
		m.Title,
		m.Description,
		m.Amount,
		m.Category,
		m.ExpenseDate,
		m.Billable,
		m.Status,
		m.ApprovedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save expense "+m.ExpenseID)
	}

	if _, err := applyRollupTx(ctx, tx, rollup); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateExpenseStatus writes the status and approver only.
func (r *PgxExpenseRepository) UpdateExpenseStatus(ctx context.Context, expense domain.Expense) error {
	query := `
		UPDATE expenses
		SET status = $2, approved_by = $3, last_updated_at = $4, last_updated_by = $5
		WHERE expense_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		expense.ExpenseID,
		string(expense.Status),
		expense.ApprovedBy,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update expense "+expense.ExpenseID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expense.ExpenseID)
	}
	return nil
}

// FindExpenseByID retrieves an expense by its ID.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		return nil, mapPgError(err, "find expense "+expenseID)
	}
	e := mapping.ToDomainExpense(m)
	return &e, nil
}

// ListExpenses retrieves expenses, most recent first.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, projectID string, status domain.ExpenseStatus) ([]domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE ($1 = '' OR project_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY expense_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, projectID, string(status))
	if err != nil {
		return nil, mapPgError(err, "list expenses")
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0)
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, mapping.ToDomainExpense(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return expenses, nil
}
