package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	"github.com/SscSPs/oneflow/internal/models"
	"github.com/SscSPs/oneflow/internal/utils/mapping"
)

const projectColumns = `project_id, name, description, manager_id, team_member_ids, status, start_date, end_date,
	budget, total_revenue, total_cost, sales_order_ids, purchase_order_ids, invoice_ids, vendor_bill_ids, expense_ids,
	created_at, created_by, last_updated_at, last_updated_by`

// Column names are fixed here and never taken from input.
var (
	referenceColumns = map[domain.DocumentKind]string{
		domain.KindSalesOrder:    "sales_order_ids",
		domain.KindPurchaseOrder: "purchase_order_ids",
		domain.KindInvoice:       "invoice_ids",
		domain.KindVendorBill:    "vendor_bill_ids",
		domain.KindExpense:       "expense_ids",
	}
	totalColumns = map[domain.LedgerSide]string{
		domain.SideRevenue: "total_revenue",
		domain.SideCost:    "total_cost",
	}
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxProjectRepository struct {
	BaseRepository
}

// newPgxProjectRepository creates a new repository for project data.
func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

func scanProject(row pgx.Row) (models.Project, error) {
	var m models.Project
	err := row.Scan(
		&m.ProjectID,
		&m.Name,
		&m.Description,
		&m.ManagerID,
		&m.TeamMemberIDs,
		&m.Status,
		&m.StartDate,
		&m.EndDate,
		&m.Budget,
		&m.TotalRevenue,
		&m.TotalCost,
		&m.SalesOrderIDs,
		&m.PurchaseOrderIDs,
		&m.InvoiceIDs,
		&m.VendorBillIDs,
		&m.ExpenseIDs,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveProject inserts a new project.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	m := mapping.ToModelProject(project)
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProjectID,
		m.Name,
		m.Description,
		m.ManagerID,
		m.TeamMemberIDs,
		m.Status,
		m.StartDate,
		m.EndDate,
		m.Budget,
		m.TotalRevenue,
		m.TotalCost,
		m.SalesOrderIDs,
		m.PurchaseOrderIDs,
		m.InvoiceIDs,
		m.VendorBillIDs,
		m.ExpenseIDs,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save project "+m.ProjectID)
	}
	return nil
}

// UpdateProject writes the editable columns. Totals and reference
// collections belong to the ledger and are left untouched.
func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	m := mapping.ToModelProject(project)
	query := `
		UPDATE projects
		SET name = $2, description = $3, manager_id = $4, team_member_ids = $5, status = $6,
		    start_date = $7, end_date = $8, budget = $9, last_updated_at = $10, last_updated_by = $11
		WHERE project_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ProjectID,
		m.Name,
		m.Description,
		m.ManagerID,
		m.TeamMemberIDs,
		m.Status,
		m.StartDate,
		m.EndDate,
		m.Budget,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update project "+m.ProjectID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, m.ProjectID)
	}
	return nil
}

// FindProjectByID retrieves a project by its ID.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	return findProject(ctx, r.Pool, projectID, false)
}

func findProject(ctx context.Context, q querier, projectID string, forUpdate bool) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanProject(q.QueryRow(ctx, query, projectID))
	if err != nil {
		return nil, mapPgError(err, "find project "+projectID)
	}
	p := mapping.ToDomainProject(m)
	return &p, nil
}

// ListProjects retrieves projects newest first.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, status domain.ProjectStatus, limit, offset int) ([]domain.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, project_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, mapPgError(err, "list projects")
	}
	defer rows.Close()

	ms := make([]models.Project, 0, limit)
	for rows.Next() {
		m, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return mapping.ToDomainProjectSlice(ms), nil
}

// GetProjectStats aggregates all projects in one query.
func (r *PgxProjectRepository) GetProjectStats(ctx context.Context) (*domain.ProjectStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $1),
		       COALESCE(SUM(budget), 0),
		       COALESCE(SUM(total_revenue), 0),
		       COALESCE(SUM(total_cost), 0)
		FROM projects;
	`
	var stats domain.ProjectStats
	err := r.Pool.QueryRow(ctx, query, string(domain.ProjectInProgress)).Scan(
		&stats.TotalProjects,
		&stats.ActiveProjects,
		&stats.TotalBudget,
		&stats.TotalRevenue,
		&stats.TotalCost,
	)
	if err != nil {
		return nil, mapPgError(err, "aggregate project stats")
	}
	return &stats, nil
}

// ApplyRollup applies rollup and records its ledger entry in one transaction.
func (r *PgxProjectRepository) ApplyRollup(ctx context.Context, rollup domain.Rollup) (*domain.Project, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	project, err := applyRollupTx(ctx, tx, rollup)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return project, nil
}

// applyRollupTx increments the project total in a single statement and appends
// the ledger entry. Attaching an already present reference matches no row and
// is reported as apperrors.ErrDuplicate.
func applyRollupTx(ctx context.Context, tx pgx.Tx, rollup domain.Rollup) (*domain.Project, error) {
	refColumn, ok := referenceColumns[rollup.Ref.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q cannot be attached to a project", apperrors.ErrValidation, rollup.Ref.Kind)
	}
	totalColumn := totalColumns[rollup.Side()]

	var row pgx.Row
	if rollup.AppendRef {
		query := fmt.Sprintf(`
			UPDATE projects
			SET %[1]s = array_append(%[1]s, $2::text), %[2]s = %[2]s + $3, last_updated_at = $4, last_updated_by = $5
			WHERE project_id = $1 AND NOT ($2::text = ANY(%[1]s))
			RETURNING %[3]s;
		`, refColumn, totalColumn, projectColumns)
		row = tx.QueryRow(ctx, query, rollup.ProjectID, rollup.Ref.DocumentID, rollup.Amount, rollup.At, rollup.ActorID)
	} else {
		query := fmt.Sprintf(`
			UPDATE projects
			SET %[1]s = %[1]s + $2, last_updated_at = $3, last_updated_by = $4
			WHERE project_id = $1
			RETURNING %[2]s;
		`, totalColumn, projectColumns)
		row = tx.QueryRow(ctx, query, rollup.ProjectID, rollup.Amount, rollup.At, rollup.ActorID)
	}

	m, err := scanProject(row)
	if err != nil {
		mapped := mapPgError(err, "apply rollup to project "+rollup.ProjectID)
		if rollup.AppendRef && errors.Is(mapped, apperrors.ErrNotFound) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE project_id = $1)`, rollup.ProjectID).Scan(&exists); err != nil {
				return nil, mapPgError(err, "check project "+rollup.ProjectID)
			}
			if exists {
				return nil, fmt.Errorf("%w: %s %s is already attached to project %s",
					apperrors.ErrDuplicate, rollup.Ref.Kind, rollup.Ref.DocumentID, rollup.ProjectID)
			}
		}
		return nil, mapped
	}

	if entry, ok := rollup.Entry(uuid.NewString()); ok {
		e := mapping.ToModelLedgerEntry(entry)
		_, err := tx.Exec(ctx, `
			INSERT INTO project_ledger_entries (entry_id, project_id, document_kind, document_id, side, amount, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, e.EntryID, e.ProjectID, e.DocumentKind, e.DocumentID, e.Side, e.Amount, e.CreatedAt, e.CreatedBy)
		if err != nil {
			return nil, mapPgError(err, "record ledger entry for project "+rollup.ProjectID)
		}
	}

	p := mapping.ToDomainProject(m)
	return &p, nil
}

// ReconcileProject rebuilds both totals from the ledger under a row lock.
func (r *PgxProjectRepository) ReconcileProject(ctx context.Context, projectID, actorID string, at time.Time) (*domain.Project, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := findProject(ctx, tx, projectID, true); err != nil {
		return nil, err
	}

	revenue, cost := decimal.Zero, decimal.Zero
	rows, err := tx.Query(ctx, `
		SELECT side, COALESCE(SUM(amount), 0)
		FROM project_ledger_entries
		WHERE project_id = $1
		GROUP BY side;
	`, projectID)
	if err != nil {
		return nil, mapPgError(err, "sum ledger entries for project "+projectID)
	}
	for rows.Next() {
		var side string
		var sum decimal.Decimal
		if err := rows.Scan(&side, &sum); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan ledger sum: %w", err)
		}
		switch domain.LedgerSide(side) {
		case domain.SideRevenue:
			revenue = sum
		case domain.SideCost:
			cost = sum
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger sums: %w", err)
	}

	m, err := scanProject(tx.QueryRow(ctx, `
		UPDATE projects
		SET total_revenue = $2, total_cost = $3, last_updated_at = $4, last_updated_by = $5
		WHERE project_id = $1
		RETURNING `+projectColumns+`;
	`, projectID, revenue, cost, at, actorID))
	if err != nil {
		return nil, mapPgError(err, "reconcile project "+projectID)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	p := mapping.ToDomainProject(m)
	return &p, nil
}

// ListLedgerEntries returns the project's entries in insertion order.
func (r *PgxProjectRepository) ListLedgerEntries(ctx context.Context, projectID string) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT entry_id, project_id, document_kind, document_id, side, amount, created_at, created_by
		FROM project_ledger_entries
		WHERE project_id = $1
		ORDER BY seq;
	`, projectID)
	if err != nil {
		return nil, mapPgError(err, "list ledger entries for project "+projectID)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(&m.EntryID, &m.ProjectID, &m.DocumentKind, &m.DocumentID, &m.Side, &m.Amount, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}
