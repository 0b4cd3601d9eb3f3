package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	"github.com/SscSPs/oneflow/internal/models"
	"github.com/SscSPs/oneflow/internal/utils/mapping"
	"github.com/SscSPs/oneflow/internal/utils/pagination"
)

const documentColumns = `document_id, number, counterparty, project_id, source_document_id, items, tax_mode, tax_rate,
	subtotal, tax, total, status, issue_date, due_date, paid_date, notes,
	created_at, created_by, last_updated_at, last_updated_by`

var documentTables = map[domain.DocumentKind]string{
	domain.KindSalesOrder:    "sales_orders",
	domain.KindPurchaseOrder: "purchase_orders",
	domain.KindInvoice:       "invoices",
	domain.KindVendorBill:    "vendor_bills",
}

// isNumberConstraint matches the per-table UNIQUE (number) constraints, e.g. invoices_number_key.
func isNumberConstraint(name string) bool {
	return strings.HasSuffix(name, "_number_key")
}

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for commercial documents.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

func documentTable(kind domain.DocumentKind) (string, error) {
	table, ok := documentTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, kind)
	}
	return table, nil
}

func scanDocument(row pgx.Row, kind domain.DocumentKind) (models.Document, error) {
	m := models.Document{Kind: string(kind)}
	err := row.Scan(
		&m.DocumentID,
		&m.Number,
		&m.Counterparty,
		&m.ProjectID,
		&m.SourceDocumentID,
		&m.Items,
		&m.TaxMode,
		&m.TaxRate,
		&m.Subtotal,
		&m.Tax,
		&m.Total,
		&m.Status,
		&m.IssueDate,
		&m.DueDate,
		&m.PaidDate,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveDocument inserts the document and, when rollup is set, attaches it to
// its project within the same transaction.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document, rollup *domain.Rollup) error {
	table, err := documentTable(doc.Kind)
	if err != nil {
		return err
	}
	m := mapping.ToModelDocument(doc)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO ` + table + ` (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err = tx.Exec(ctx, query,
		m.DocumentID,
		m.Number,
		m.Counterparty,
		m.ProjectID,
		m.SourceDocumentID,
		m.Items,
		m.TaxMode,
		m.TaxRate,
		m.Subtotal,
		m.Tax,
		m.Total,
		m.Status,
		m.IssueDate,
		m.DueDate,
		m.PaidDate,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("save %s %s", doc.Kind, m.Number))
	}

	if rollup != nil {
		if _, err := applyRollupTx(ctx, tx, *rollup); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// UpdateDocument locks the document row, applies mutate to the locked state
// and writes the result together with any adjustment in one transaction.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, mutate portsrepo.DocumentMutation) (*domain.Document, error) {
	table, err := documentTable(kind)
	if err != nil {
		return nil, err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + documentColumns + ` FROM ` + table + ` WHERE document_id = $1 FOR UPDATE;`
	current, err := scanDocument(tx.QueryRow(ctx, lockQuery, documentID), kind)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("lock %s %s", kind, documentID))
	}

	doc, adjustment, err := mutate(mapping.ToDomainDocument(current))
	if err != nil {
		return nil, err
	}
	if doc.DocumentID != current.DocumentID || doc.Kind != kind {
		return nil, fmt.Errorf("%w: document identity cannot change on update", apperrors.ErrValidation)
	}
	m := mapping.ToModelDocument(doc)

	query := `
		UPDATE ` + table + `
		SET counterparty = $2, items = $3, tax_mode = $4, tax_rate = $5, subtotal = $6, tax = $7, total = $8,
		    status = $9, due_date = $10, paid_date = $11, notes = $12, last_updated_at = $13, last_updated_by = $14
		WHERE document_id = $1;
	`
	_, err = tx.Exec(ctx, query,
		m.DocumentID,
		m.Counterparty,
		m.Items,
		m.TaxMode,
		m.TaxRate,
		m.Subtotal,
		m.Tax,
		m.Total,
		m.Status,
		m.DueDate,
		m.PaidDate,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("update %s %s", kind, m.DocumentID))
	}

	if adjustment != nil {
		if _, err := applyRollupTx(ctx, tx, *adjustment); err != nil {
			return nil, err
		}
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindDocumentByID retrieves a document of the given kind.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	table, err := documentTable(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + documentColumns + ` FROM ` + table + ` WHERE document_id = $1;`
	m, err := scanDocument(r.Pool.QueryRow(ctx, query, documentID), kind)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("find %s %s", kind, documentID))
	}
	d := mapping.ToDomainDocument(m)
	return &d, nil
}

// ListDocuments retrieves a page of documents newest first using keyset pagination.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, kind domain.DocumentKind, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	table, err := documentTable(kind)
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	conditions := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		conditions = append(conditions, "project_id = $"+strconv.Itoa(len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		args = append(args, cursor.CreatedAt, cursor.ID)
		conditions = append(conditions, fmt.Sprintf("(created_at, document_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + documentColumns + ` FROM ` + table
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, document_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "list "+table)
	}
	defer rows.Close()

	ms := make([]models.Document, 0, fetchLimit)
	for rows.Next() {
		m, err := scanDocument(rows, kind)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.DocumentID)
		nextTokenVal = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainDocumentSlice(ms), nextTokenVal, nil
}
