package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is the row stored in the projects table.
// Reference collections are TEXT[] columns appended to by the ledger.
type Project struct {
	ProjectID        string          `db:"project_id"`
	Name             string          `db:"name"`
	Description      string          `db:"description"`
	ManagerID        string          `db:"manager_id"`
	TeamMemberIDs    []string        `db:"team_member_ids"`
	Status           string          `db:"status"`
	StartDate        *time.Time      `db:"start_date"` // Nullable
	EndDate          *time.Time      `db:"end_date"`   // Nullable
	Budget           decimal.Decimal `db:"budget"`
	TotalRevenue     decimal.Decimal `db:"total_revenue"`
	TotalCost        decimal.Decimal `db:"total_cost"`
	SalesOrderIDs    []string        `db:"sales_order_ids"`
	PurchaseOrderIDs []string        `db:"purchase_order_ids"`
	InvoiceIDs       []string        `db:"invoice_ids"`
	VendorBillIDs    []string        `db:"vendor_bill_ids"`
	ExpenseIDs       []string        `db:"expense_ids"`
	AuditFields
}

// LedgerEntry is the row stored in project_ledger_entries.
type LedgerEntry struct {
	EntryID      string          `db:"entry_id"`
	ProjectID    string          `db:"project_id"`
	DocumentKind string          `db:"document_kind"`
	DocumentID   string          `db:"document_id"`
	Side         string          `db:"side"`
	Amount       decimal.Decimal `db:"amount"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    string          `db:"created_by"`
}
