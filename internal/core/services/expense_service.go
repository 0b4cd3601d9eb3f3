package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/dto"
)

type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{expenseRepo: expenseRepo}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense implements portssvc.ExpenseSvcFacade.
// The expense is attached to its project in the same transaction; only
// non-billable expenses add to the project's cost.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actorID string) (*domain.Expense, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category := domain.CategoryOther
	if req.Category != nil {
		category = *req.Category
	}
	now := s.Now()
	expenseDate := now
	if req.ExpenseDate != nil {
		expenseDate = req.ExpenseDate.UTC()
	}

	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		ProjectID:   req.ProjectID,
		SubmittedBy: actorID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    category,
		ExpenseDate: expenseDate,
		Billable:    req.Billable,
		Status:      domain.ExpenseSubmitted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	rollup := domain.NewAttachRollup(expense.ProjectID, expense.Ref(), expense.CostContribution(), actorID, now)

	if err := s.expenseRepo.SaveExpense(ctx, expense, rollup); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("project_id", req.ProjectID))
		return nil, err
	}
	s.LogInfo(ctx, "Expense recorded",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("project_id", expense.ProjectID),
		slog.Bool("billable", expense.Billable))
	return &expense, nil
}

// GetExpense implements portssvc.ExpenseSvcFacade
func (s *expenseService) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error) {
	if err := requireID("expense", expenseID); err != nil {
		return nil, err
	}
	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

// ListExpenses implements portssvc.ExpenseSvcFacade
func (s *expenseService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) ([]domain.Expense, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown expense status %q", apperrors.ErrValidation, params.Status)
	}
	if err := requireFilterID("projectID", params.ProjectID); err != nil {
		return nil, err
	}
	return s.expenseRepo.ListExpenses(ctx, params.ProjectID, params.Status)
}

// UpdateExpenseStatus implements portssvc.ExpenseSvcFacade
func (s *expenseService) UpdateExpenseStatus(ctx context.Context, expenseID string, req dto.UpdateExpenseStatusRequest, actorID string) (*domain.Expense, error) {
	if err := requireID("expense", expenseID); err != nil {
		return nil, err
	}
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status == req.Status {
		return expense, nil
	}
	if !expense.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: expense cannot move from %s to %s", apperrors.ErrValidation, expense.Status, req.Status)
	}

	expense.Status = req.Status
	if req.Status == domain.ExpenseApproved {
		approver := actorID
		expense.ApprovedBy = &approver
	}
	expense.LastUpdatedAt = s.Now()
	expense.LastUpdatedBy = actorID

	if err := s.expenseRepo.UpdateExpenseStatus(ctx, *expense); err != nil {
		s.LogError(ctx, err, "Failed to update expense status", slog.String("expense_id", expenseID))
		return nil, err
	}
	return expense, nil
}
