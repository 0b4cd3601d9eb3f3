package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory groups expenses for reporting.
type ExpenseCategory string

const (
	CategoryTravel   ExpenseCategory = "TRAVEL"
	CategoryTools    ExpenseCategory = "TOOLS"
	CategorySoftware ExpenseCategory = "SOFTWARE"
	CategoryOther    ExpenseCategory = "OTHER"
)

// IsValid reports whether c is a known category.
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategoryTravel, CategoryTools, CategorySoftware, CategoryOther:
		return true
	}
	return false
}

// ExpenseStatus is the approval state of an expense.
type ExpenseStatus string

const (
	ExpenseSubmitted  ExpenseStatus = "SUBMITTED"
	ExpenseApproved   ExpenseStatus = "APPROVED"
	ExpenseRejected   ExpenseStatus = "REJECTED"
	ExpenseReimbursed ExpenseStatus = "REIMBURSED"
)

var expenseTransitions = map[ExpenseStatus][]ExpenseStatus{
	ExpenseSubmitted: {ExpenseApproved, ExpenseRejected},
	ExpenseApproved:  {ExpenseReimbursed},
}

// IsValid reports whether s is a known expense status.
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseSubmitted, ExpenseApproved, ExpenseRejected, ExpenseReimbursed:
		return true
	}
	return false
}

// CanTransitionTo reports whether an expense may move from s to next.
func (s ExpenseStatus) CanTransitionTo(next ExpenseStatus) bool {
	if s == next {
		return s.IsValid()
	}
	return slices.Contains(expenseTransitions[s], next)
}

// Expense is money spent on behalf of a project.
// Non-billable expenses count toward the project's cost.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	ProjectID   string          `json:"projectID"`
	SubmittedBy string          `json:"submittedBy"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	ExpenseDate time.Time       `json:"expenseDate"`
	Billable    bool            `json:"billable"`
	Status      ExpenseStatus   `json:"status"`
	ApprovedBy  *string         `json:"approvedBy,omitempty"`
	AuditFields
}

// Ref returns the ledger reference for e.
func (e Expense) Ref() DocumentRef {
	return DocumentRef{Kind: KindExpense, DocumentID: e.ExpenseID}
}

// CostContribution is the amount e adds to its project's cost.
func (e Expense) CostContribution() decimal.Decimal {
	if e.Billable {
		return decimal.Zero
	}
	return e.Amount
}

// Clone returns a deep copy of e.
func (e Expense) Clone() Expense {
	c := e
	if e.ApprovedBy != nil {
		v := *e.ApprovedBy
		c.ApprovedBy = &v
	}
	return c
}
