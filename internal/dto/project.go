package dto

import (
	"time"

	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest defines the data needed to create a project.
type CreateProjectRequest struct {
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description"`
	ManagerID     string                `json:"managerID"`
	TeamMemberIDs []string              `json:"teamMemberIDs"`
	Status        *domain.ProjectStatus `json:"status" binding:"omitempty,oneof=NEW IN_PROGRESS DONE"`
	StartDate     *time.Time            `json:"startDate"`
	EndDate       *time.Time            `json:"endDate"`
	Budget        decimal.Decimal       `json:"budget"`
}

// Validate checks binding tags, the budget sign and date order.
func (r CreateProjectRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if err := requireNotBlank("name", r.Name); err != nil {
		return err
	}
	if err := requireNonNegative("budget", r.Budget, MoneyScale); err != nil {
		return err
	}
	return validateDateRange(r.StartDate, r.EndDate)
}

// UpdateProjectRequest defines the fields that may change on a project.
// Aggregate totals are not editable.
type UpdateProjectRequest struct {
	Name          *string               `json:"name" binding:"omitempty,min=1"`
	Description   *string               `json:"description"`
	ManagerID     *string               `json:"managerID"`
	TeamMemberIDs []string              `json:"teamMemberIDs"`
	Status        *domain.ProjectStatus `json:"status" binding:"omitempty,oneof=NEW IN_PROGRESS DONE"`
	StartDate     *time.Time            `json:"startDate"`
	EndDate       *time.Time            `json:"endDate"`
	Budget        *decimal.Decimal      `json:"budget"`
}

// Validate checks binding tags and the budget sign.
func (r UpdateProjectRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if r.Budget != nil {
		return requireNonNegative("budget", *r.Budget, MoneyScale)
	}
	return nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return validationErr("endDate must not be before startDate")
	}
	return nil
}

// ListProjectsParams defines query parameters for listing projects.
type ListProjectsParams struct {
	Status domain.ProjectStatus `form:"status"`
	Limit  int                  `form:"limit,default=20"`
	Offset int                  `form:"offset,default=0"`
}

// AttachDocumentRequest attaches an existing document or expense to a project.
type AttachDocumentRequest struct {
	Kind       domain.DocumentKind `json:"kind" binding:"required,oneof=SALES_ORDER PURCHASE_ORDER INVOICE VENDOR_BILL EXPENSE"`
	DocumentID string              `json:"documentID" binding:"required"`
	Amount     decimal.Decimal     `json:"amount"`
}

// ProjectResponse defines the data returned for a project.
type ProjectResponse struct {
	ProjectID        string               `json:"projectID"`
	Name             string               `json:"name"`
	Description      string               `json:"description,omitempty"`
	ManagerID        string               `json:"managerID,omitempty"`
	TeamMemberIDs    []string             `json:"teamMemberIDs"`
	Status           domain.ProjectStatus `json:"status"`
	StartDate        *time.Time           `json:"startDate,omitempty"`
	EndDate          *time.Time           `json:"endDate,omitempty"`
	Budget           decimal.Decimal      `json:"budget"`
	TotalRevenue     decimal.Decimal      `json:"totalRevenue"`
	TotalCost        decimal.Decimal      `json:"totalCost"`
	Profit           decimal.Decimal      `json:"profit"`
	SalesOrderIDs    []string             `json:"salesOrderIDs"`
	PurchaseOrderIDs []string             `json:"purchaseOrderIDs"`
	InvoiceIDs       []string             `json:"invoiceIDs"`
	VendorBillIDs    []string             `json:"vendorBillIDs"`
	ExpenseIDs       []string             `json:"expenseIDs"`
	CreatedAt        time.Time            `json:"createdAt"`
	CreatedBy        string               `json:"createdBy"`
	LastUpdatedAt    time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy    string               `json:"lastUpdatedBy"`
}

// ToProjectResponse converts a domain.Project to a ProjectResponse DTO
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:        p.ProjectID,
		Name:             p.Name,
		Description:      p.Description,
		ManagerID:        p.ManagerID,
		TeamMemberIDs:    p.TeamMemberIDs,
		Status:           p.Status,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		Budget:           p.Budget,
		TotalRevenue:     p.TotalRevenue,
		TotalCost:        p.TotalCost,
		Profit:           p.Profit(),
		SalesOrderIDs:    p.SalesOrderIDs,
		PurchaseOrderIDs: p.PurchaseOrderIDs,
		InvoiceIDs:       p.InvoiceIDs,
		VendorBillIDs:    p.VendorBillIDs,
		ExpenseIDs:       p.ExpenseIDs,
		CreatedAt:        p.CreatedAt,
		CreatedBy:        p.CreatedBy,
		LastUpdatedAt:    p.LastUpdatedAt,
		LastUpdatedBy:    p.LastUpdatedBy,
	}
}

// ToListProjectResponse converts a slice of projects to response DTOs.
func ToListProjectResponse(projects []domain.Project) []ProjectResponse {
	res := make([]ProjectResponse, len(projects))
	for i := range projects {
		res[i] = ToProjectResponse(&projects[i])
	}
	return res
}
