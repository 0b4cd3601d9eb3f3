package mapping

import (
	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/SscSPs/oneflow/internal/models"
)

// ToModelDocument converts a domain Document to a model Document
func ToModelDocument(d domain.Document) models.Document {
	items := make([]models.LineItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = models.LineItem{
			Product:     it.Product,
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Amount:      it.Amount,
		}
	}
	return models.Document{
		DocumentID:       d.DocumentID,
		Kind:             string(d.Kind),
		Number:           d.Number,
		Counterparty:     d.Counterparty,
		ProjectID:        d.ProjectID,
		SourceDocumentID: d.SourceDocumentID,
		Items:            items,
		TaxMode:          string(d.TaxMode),
		TaxRate:          d.TaxRate,
		Subtotal:         d.Subtotal,
		Tax:              d.Tax,
		Total:            d.Total,
		Status:           string(d.Status),
		IssueDate:        d.IssueDate,
		DueDate:          d.DueDate,
		PaidDate:         d.PaidDate,
		Notes:            d.Notes,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model Document to a domain Document
func ToDomainDocument(m models.Document) domain.Document {
	items := make([]domain.LineItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = domain.LineItem{
			Product:     it.Product,
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Amount:      it.Amount,
		}
	}
	return domain.Document{
		DocumentID:       m.DocumentID,
		Kind:             domain.DocumentKind(m.Kind),
		Number:           m.Number,
		Counterparty:     m.Counterparty,
		ProjectID:        m.ProjectID,
		SourceDocumentID: m.SourceDocumentID,
		Items:            items,
		TaxMode:          domain.TaxMode(m.TaxMode),
		TaxRate:          m.TaxRate,
		Subtotal:         m.Subtotal,
		Tax:              m.Tax,
		Total:            m.Total,
		Status:           domain.DocumentStatus(m.Status),
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		PaidDate:         m.PaidDate,
		Notes:            m.Notes,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDocumentSlice converts a slice of model Documents to domain Documents
func ToDomainDocumentSlice(ms []models.Document) []domain.Document {
	ds := make([]domain.Document, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDocument(m)
	}
	return ds
}
