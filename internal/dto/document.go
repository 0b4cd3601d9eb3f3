package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one item of a create or update document request.
type LineItemRequest struct {
	Product     string          `json:"product" binding:"required_without=Description"`
	Description string          `json:"description" binding:"required_without=Product"`
	Unit        string          `json:"unit"`
	Quantity    int64           `json:"quantity" binding:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"` // Percent; only used in PER_LINE mode
}

// CreateDocumentRequest defines the data needed to create a sales order,
// purchase order, invoice or vendor bill.
type CreateDocumentRequest struct {
	Counterparty     string            `json:"counterparty" binding:"required"`
	ProjectID        *string           `json:"projectID" binding:"omitempty,uuid"`
	SourceDocumentID *string           `json:"sourceDocumentID" binding:"omitempty,uuid"` // SO for invoices, PO for bills
	Items            []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxMode          domain.TaxMode    `json:"taxMode" binding:"required,oneof=DOCUMENT_RATE PER_LINE"`
	TaxRate          *decimal.Decimal  `json:"taxRate"` // Optional, defaults to the configured rate
	IssueDate        *time.Time        `json:"issueDate"`
	DueDate          *time.Time        `json:"dueDate" binding:"required"`
	Notes            string            `json:"notes"`
}

// Validate checks binding tags plus the decimal rules the tags cannot express.
func (r CreateDocumentRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if err := requireNotBlank("counterparty", r.Counterparty); err != nil {
		return err
	}
	if r.TaxRate != nil {
		if err := requireNonNegative("taxRate", *r.TaxRate, MoneyScale); err != nil {
			return err
		}
	}
	return validateItems(r.Items)
}

// UpdateDocumentRequest defines the fields that may change on a document.
// Nil fields are left untouched.
type UpdateDocumentRequest struct {
	Counterparty *string                `json:"counterparty" binding:"omitempty,min=1"`
	Notes        *string                `json:"notes"`
	DueDate      *time.Time             `json:"dueDate"`
	Items        []LineItemRequest      `json:"items" binding:"omitempty,dive"`
	TaxMode      *domain.TaxMode        `json:"taxMode" binding:"omitempty,oneof=DOCUMENT_RATE PER_LINE"`
	TaxRate      *decimal.Decimal       `json:"taxRate"`
	Status       *domain.DocumentStatus `json:"status"`
}

// ChangesTotals reports whether applying r requires re-deriving the totals.
func (r UpdateDocumentRequest) ChangesTotals() bool {
	return r.Items != nil || r.TaxMode != nil || r.TaxRate != nil
}

// Validate checks binding tags plus the decimal rules the tags cannot express.
func (r UpdateDocumentRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if r.Counterparty != nil {
		if err := requireNotBlank("counterparty", *r.Counterparty); err != nil {
			return err
		}
	}
	if r.TaxRate != nil {
		if err := requireNonNegative("taxRate", *r.TaxRate, MoneyScale); err != nil {
			return err
		}
	}
	if r.Items != nil {
		if len(r.Items) == 0 {
			return validationErr("items must contain at least one line item")
		}
		return validateItems(r.Items)
	}
	return nil
}

func validateItems(items []LineItemRequest) error {
	for i, item := range items {
		if err := requireNonNegative(fmt.Sprintf("items[%d].unitPrice", i), item.UnitPrice, MoneyScale); err != nil {
			return err
		}
		if err := requireNonNegative(fmt.Sprintf("items[%d].taxRate", i), item.TaxRate, MoneyScale); err != nil {
			return err
		}
	}
	return nil
}

// ToDomainLineItems converts request items into domain line items without derived amounts.
func ToDomainLineItems(items []LineItemRequest) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		out[i] = domain.LineItem{
			Product:     item.Product,
			Description: item.Description,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
		}
	}
	return out
}

// ListDocumentsParams defines query parameters for listing documents.
type ListDocumentsParams struct {
	Status    domain.DocumentStatus `form:"status"`
	ProjectID string                `form:"projectID"`
	Limit     int                   `form:"limit,default=20"`
	NextToken *string               `form:"nextToken"`
}

// DocumentResponse defines the data returned for a commercial document.
type DocumentResponse struct {
	DocumentID       string                `json:"documentID"`
	Kind             domain.DocumentKind   `json:"kind"`
	Number           string                `json:"number"`
	Counterparty     string                `json:"counterparty"`
	ProjectID        *string               `json:"projectID,omitempty"`
	SourceDocumentID *string               `json:"sourceDocumentID,omitempty"`
	Items            []domain.LineItem     `json:"items"`
	TaxMode          domain.TaxMode        `json:"taxMode"`
	TaxRate          decimal.Decimal       `json:"taxRate"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	Tax              decimal.Decimal       `json:"tax"`
	Total            decimal.Decimal       `json:"total"`
	Status           domain.DocumentStatus `json:"status"`
	IssueDate        time.Time             `json:"issueDate"`
	DueDate          time.Time             `json:"dueDate"`
	PaidDate         *time.Time            `json:"paidDate,omitempty"`
	Notes            string                `json:"notes,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy    string                `json:"lastUpdatedBy"`
}

// ListDocumentsResponse is one page of documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToDocumentResponse converts a domain.Document to a DocumentResponse DTO
func ToDocumentResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:       doc.DocumentID,
		Kind:             doc.Kind,
		Number:           doc.Number,
		Counterparty:     doc.Counterparty,
		ProjectID:        doc.ProjectID,
		SourceDocumentID: doc.SourceDocumentID,
		Items:            doc.Items,
		TaxMode:          doc.TaxMode,
		TaxRate:          doc.TaxRate,
		Subtotal:         doc.Subtotal,
		Tax:              doc.Tax,
		Total:            doc.Total,
		Status:           doc.Status,
		IssueDate:        doc.IssueDate,
		DueDate:          doc.DueDate,
		PaidDate:         doc.PaidDate,
		Notes:            doc.Notes,
		CreatedAt:        doc.CreatedAt,
		CreatedBy:        doc.CreatedBy,
		LastUpdatedAt:    doc.LastUpdatedAt,
		LastUpdatedBy:    doc.LastUpdatedBy,
	}
}

// ToListDocumentResponse converts a slice of documents to response DTOs.
func ToListDocumentResponse(docs []domain.Document) []DocumentResponse {
	res := make([]DocumentResponse, len(docs))
	for i := range docs {
		res[i] = ToDocumentResponse(&docs[i])
	}
	return res
}
