package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectNew        ProjectStatus = "NEW"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectDone       ProjectStatus = "DONE"
)

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectNew:        {ProjectInProgress},
	ProjectInProgress: {ProjectDone, ProjectNew},
}

// IsValid reports whether s is a known project status.
func (s ProjectStatus) IsValid() bool {
	return s == ProjectNew || s == ProjectInProgress || s == ProjectDone
}

// CanTransitionTo reports whether a project may move from s to next.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if s == next {
		return s.IsValid()
	}
	return slices.Contains(projectTransitions[s], next)
}

// Project is the aggregate that collects commercial documents and expenses.
// TotalRevenue and TotalCost only change through rollups.
type Project struct {
	ProjectID        string          `json:"projectID"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	ManagerID        string          `json:"managerID,omitempty"`
	TeamMemberIDs    []string        `json:"teamMemberIDs"`
	Status           ProjectStatus   `json:"status"`
	StartDate        *time.Time      `json:"startDate,omitempty"`
	EndDate          *time.Time      `json:"endDate,omitempty"`
	Budget           decimal.Decimal `json:"budget"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	SalesOrderIDs    []string        `json:"salesOrderIDs"`
	PurchaseOrderIDs []string        `json:"purchaseOrderIDs"`
	InvoiceIDs       []string        `json:"invoiceIDs"`
	VendorBillIDs    []string        `json:"vendorBillIDs"`
	ExpenseIDs       []string        `json:"expenseIDs"`
	AuditFields
}

// Profit is revenue minus cost.
func (p Project) Profit() decimal.Decimal {
	return p.TotalRevenue.Sub(p.TotalCost)
}

// References returns the reference collection for kind, or nil for unknown kinds.
func (p *Project) References(kind DocumentKind) *[]string {
	switch kind {
	case KindSalesOrder:
		return &p.SalesOrderIDs
	case KindPurchaseOrder:
		return &p.PurchaseOrderIDs
	case KindInvoice:
		return &p.InvoiceIDs
	case KindVendorBill:
		return &p.VendorBillIDs
	case KindExpense:
		return &p.ExpenseIDs
	default:
		return nil
	}
}

// HasReference reports whether ref is already attached to p.
func (p *Project) HasReference(ref DocumentRef) bool {
	refs := p.References(ref.Kind)
	return refs != nil && slices.Contains(*refs, ref.DocumentID)
}

// ApplyRollup mutates p in place. Callers are responsible for serialising
// concurrent rollups on the same project.
func (p *Project) ApplyRollup(r Rollup) {
	if r.AppendRef {
		if refs := p.References(r.Ref.Kind); refs != nil {
			*refs = append(*refs, r.Ref.DocumentID)
		}
	}
	switch r.Side() {
	case SideRevenue:
		p.TotalRevenue = p.TotalRevenue.Add(r.Amount)
	case SideCost:
		p.TotalCost = p.TotalCost.Add(r.Amount)
	}
	p.LastUpdatedAt = r.At
	p.LastUpdatedBy = r.ActorID
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	c := p
	c.TeamMemberIDs = slices.Clone(p.TeamMemberIDs)
	c.SalesOrderIDs = slices.Clone(p.SalesOrderIDs)
	c.PurchaseOrderIDs = slices.Clone(p.PurchaseOrderIDs)
	c.InvoiceIDs = slices.Clone(p.InvoiceIDs)
	c.VendorBillIDs = slices.Clone(p.VendorBillIDs)
	c.ExpenseIDs = slices.Clone(p.ExpenseIDs)
	if p.StartDate != nil {
		v := *p.StartDate
		c.StartDate = &v
	}
	if p.EndDate != nil {
		v := *p.EndDate
		c.EndDate = &v
	}
	return c
}

// ProjectStats summarises all projects.
type ProjectStats struct {
	TotalProjects  int64           `json:"totalProjects"`
	ActiveProjects int64           `json:"activeProjects"` // IN_PROGRESS
	TotalBudget    decimal.Decimal `json:"totalBudget"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalCost      decimal.Decimal `json:"totalCost"`
}
