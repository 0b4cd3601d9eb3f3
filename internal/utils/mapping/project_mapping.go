package mapping

import (
	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/SscSPs/oneflow/internal/models"
)

// ToModelProject converts a domain Project to a model Project
func ToModelProject(d domain.Project) models.Project {
	return models.Project{
		ProjectID:        d.ProjectID,
		Name:             d.Name,
		Description:      d.Description,
		ManagerID:        d.ManagerID,
		TeamMemberIDs:    nonNil(d.TeamMemberIDs),
		Status:           string(d.Status),
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		Budget:           d.Budget,
		TotalRevenue:     d.TotalRevenue,
		TotalCost:        d.TotalCost,
		SalesOrderIDs:    nonNil(d.SalesOrderIDs),
		PurchaseOrderIDs: nonNil(d.PurchaseOrderIDs),
		InvoiceIDs:       nonNil(d.InvoiceIDs),
		VendorBillIDs:    nonNil(d.VendorBillIDs),
		ExpenseIDs:       nonNil(d.ExpenseIDs),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProject converts a model Project to a domain Project
func ToDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:        m.ProjectID,
		Name:             m.Name,
		Description:      m.Description,
		ManagerID:        m.ManagerID,
		TeamMemberIDs:    nonNil(m.TeamMemberIDs),
		Status:           domain.ProjectStatus(m.Status),
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		Budget:           m.Budget,
		TotalRevenue:     m.TotalRevenue,
		TotalCost:        m.TotalCost,
		SalesOrderIDs:    nonNil(m.SalesOrderIDs),
		PurchaseOrderIDs: nonNil(m.PurchaseOrderIDs),
		InvoiceIDs:       nonNil(m.InvoiceIDs),
		VendorBillIDs:    nonNil(m.VendorBillIDs),
		ExpenseIDs:       nonNil(m.ExpenseIDs),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProjectSlice converts a slice of model Projects to domain Projects
func ToDomainProjectSlice(ms []models.Project) []domain.Project {
	ds := make([]domain.Project, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProject(m)
	}
	return ds
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		ProjectID:    d.ProjectID,
		DocumentKind: string(d.DocumentKind),
		DocumentID:   d.DocumentID,
		Side:         string(d.Side),
		Amount:       d.Amount,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		ProjectID:    m.ProjectID,
		DocumentKind: domain.DocumentKind(m.DocumentKind),
		DocumentID:   m.DocumentID,
		Side:         domain.LedgerSide(m.Side),
		Amount:       m.Amount,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}
