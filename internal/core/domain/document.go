package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind identifies one of the commercial document types, plus expenses
// when they are referenced from a project ledger.
type DocumentKind string

const (
	KindSalesOrder    DocumentKind = "SALES_ORDER"
	KindPurchaseOrder DocumentKind = "PURCHASE_ORDER"
	KindInvoice       DocumentKind = "INVOICE"
	KindVendorBill    DocumentKind = "VENDOR_BILL"
	KindExpense       DocumentKind = "EXPENSE"
)

// CommercialKinds lists the kinds that are stored as numbered documents.
var CommercialKinds = []DocumentKind{KindSalesOrder, KindPurchaseOrder, KindInvoice, KindVendorBill}

// DocumentStatus is the lifecycle state of a commercial document.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusConfirmed DocumentStatus = "CONFIRMED"
	StatusDelivered DocumentStatus = "DELIVERED"
	StatusSent      DocumentStatus = "SENT"
	StatusReceived  DocumentStatus = "RECEIVED"
	StatusApproved  DocumentStatus = "APPROVED"
	StatusBilled    DocumentStatus = "BILLED"
	StatusOverdue   DocumentStatus = "OVERDUE"
	StatusPaid      DocumentStatus = "PAID"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// documentTransitions holds the allowed forward moves per kind.
// A status missing from the inner map is terminal for that kind.
var documentTransitions = map[DocumentKind]map[DocumentStatus][]DocumentStatus{
	KindSalesOrder: {
		StatusDraft:     {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusDelivered, StatusCancelled},
		StatusDelivered: {StatusBilled, StatusCancelled},
	},
	KindPurchaseOrder: {
		StatusDraft:     {StatusSent, StatusConfirmed, StatusCancelled},
		StatusSent:      {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusReceived, StatusCancelled},
		StatusReceived:  {StatusBilled, StatusCancelled},
	},
	KindInvoice: {
		StatusDraft:   {StatusSent, StatusPaid, StatusCancelled},
		StatusSent:    {StatusPaid, StatusOverdue, StatusCancelled},
		StatusOverdue: {StatusPaid, StatusCancelled},
	},
	KindVendorBill: {
		StatusDraft:    {StatusReceived, StatusApproved, StatusCancelled},
		StatusReceived: {StatusApproved, StatusCancelled},
		StatusApproved: {StatusPaid, StatusCancelled},
	},
}

var numberPrefixes = map[DocumentKind]string{
	KindSalesOrder:    "SO",
	KindPurchaseOrder: "PO",
	KindInvoice:       "INV",
	KindVendorBill:    "BILL",
}

// IsCommercial reports whether k is a numbered document kind.
func (k DocumentKind) IsCommercial() bool {
	_, ok := numberPrefixes[k]
	return ok
}

// IsLedgerKind reports whether a document of kind k may be attached to a project.
func (k DocumentKind) IsLedgerKind() bool {
	return k.IsCommercial() || k == KindExpense
}

// NumberPrefix returns the human-readable number prefix, or "" for non-commercial kinds.
func (k DocumentKind) NumberPrefix() string {
	return numberPrefixes[k]
}

// Side returns which project aggregate a document of kind k contributes to.
func (k DocumentKind) Side() LedgerSide {
	switch k {
	case KindSalesOrder, KindInvoice:
		return SideRevenue
	default:
		return SideCost
	}
}

// SourceKind returns the kind an invoice or bill may be raised from.
func (k DocumentKind) SourceKind() (DocumentKind, bool) {
	switch k {
	case KindInvoice:
		return KindSalesOrder, true
	case KindVendorBill:
		return KindPurchaseOrder, true
	default:
		return "", false
	}
}

// HasStatus reports whether s is a valid status for kind k.
func (k DocumentKind) HasStatus(s DocumentStatus) bool {
	table, ok := documentTransitions[k]
	if !ok {
		return false
	}
	if _, ok := table[s]; ok {
		return true
	}
	for _, targets := range table {
		for _, t := range targets {
			if t == s {
				return true
			}
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions for kind k.
func (k DocumentKind) IsTerminal(s DocumentStatus) bool {
	_, hasNext := documentTransitions[k][s]
	return k.HasStatus(s) && !hasNext
}

// CanTransition reports whether a document of kind k may move from one status to another.
// Staying in the same status is always allowed.
func (k DocumentKind) CanTransition(from, to DocumentStatus) bool {
	if from == to {
		return k.HasStatus(from)
	}
	for _, next := range documentTransitions[k][from] {
		if next == to {
			return true
		}
	}
	return false
}

// TaxMode selects how tax is derived for a document.
type TaxMode string

const (
	// TaxModeDocumentRate applies one rate to the subtotal.
	TaxModeDocumentRate TaxMode = "DOCUMENT_RATE"
	// TaxModePerLine sums each line's own rate over its amount.
	TaxModePerLine TaxMode = "PER_LINE"
)

// IsValid reports whether m is a known tax mode.
func (m TaxMode) IsValid() bool {
	return m == TaxModeDocumentRate || m == TaxModePerLine
}

// LineItem is one priced row of a commercial document.
type LineItem struct {
	Product     string          `json:"product"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"` // Percent
	Amount      decimal.Decimal `json:"amount"`  // Quantity * UnitPrice, grossed up by TaxRate
}

// Document is a sales order, purchase order, invoice or vendor bill.
type Document struct {
	DocumentID       string          `json:"documentID"`
	Kind             DocumentKind    `json:"kind"`
	Number           string          `json:"number"`
	Counterparty     string          `json:"counterparty"` // Customer or vendor name
	ProjectID        *string         `json:"projectID,omitempty"`
	SourceDocumentID *string         `json:"sourceDocumentID,omitempty"` // SO for invoices, PO for bills
	Items            []LineItem      `json:"items"`
	TaxMode          TaxMode         `json:"taxMode"`
	TaxRate          decimal.Decimal `json:"taxRate"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	Status           DocumentStatus  `json:"status"`
	IssueDate        time.Time       `json:"issueDate"`
	DueDate          time.Time       `json:"dueDate"`
	PaidDate         *time.Time      `json:"paidDate,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	AuditFields
}

// Ref returns the ledger reference for d.
func (d Document) Ref() DocumentRef {
	return DocumentRef{Kind: d.Kind, DocumentID: d.DocumentID}
}

// IsTerminal reports whether d can no longer change status.
func (d Document) IsTerminal() bool {
	return d.Kind.IsTerminal(d.Status)
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	c := d
	c.Items = append([]LineItem(nil), d.Items...)
	if d.ProjectID != nil {
		v := *d.ProjectID
		c.ProjectID = &v
	}
	if d.SourceDocumentID != nil {
		v := *d.SourceDocumentID
		c.SourceDocumentID = &v
	}
	if d.PaidDate != nil {
		v := *d.PaidDate
		c.PaidDate = &v
	}
	return c
}
