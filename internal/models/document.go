package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is the JSON shape of one element of a document's items column.
type LineItem struct {
	Product     string          `json:"product"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Document is a row of sales_orders, purchase_orders, invoices or vendor_bills.
// The four tables share this layout; Kind is implied by the table.
type Document struct {
	DocumentID       string          `db:"document_id"`
	Kind             string          `db:"-"`
	Number           string          `db:"number"`
	Counterparty     string          `db:"counterparty"`
	ProjectID        *string         `db:"project_id"`         // Nullable
	SourceDocumentID *string         `db:"source_document_id"` // Nullable
	Items            []LineItem      `db:"items"`              // JSONB
	TaxMode          string          `db:"tax_mode"`
	TaxRate          decimal.Decimal `db:"tax_rate"`
	Subtotal         decimal.Decimal `db:"subtotal"`
	Tax              decimal.Decimal `db:"tax"`
	Total            decimal.Decimal `db:"total"`
	Status           string          `db:"status"`
	IssueDate        time.Time       `db:"issue_date"`
	DueDate          time.Time       `db:"due_date"`
	PaidDate         *time.Time      `db:"paid_date"` // Nullable
	Notes            string          `db:"notes"`
	AuditFields
}
