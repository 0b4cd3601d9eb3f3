package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
)

// ledgerService maintains project revenue/cost aggregates.
type ledgerService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(projectRepo portsrepo.ProjectRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{projectRepo: projectRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// AttachDocument implements portssvc.LedgerSvcFacade.
// The amount is applied as given; callers pass zero for billable expenses.
func (s *ledgerService) AttachDocument(ctx context.Context, projectID string, ref domain.DocumentRef, amount decimal.Decimal, actorID string) (*domain.Project, error) {
	if projectID == "" || ref.DocumentID == "" {
		return nil, fmt.Errorf("%w: project id and document id are required", apperrors.ErrValidation)
	}
	if err := requireID("project", projectID); err != nil {
		return nil, err
	}
	if !ref.Kind.IsLedgerKind() {
		return nil, fmt.Errorf("%w: %q cannot be attached to a project", apperrors.ErrValidation, ref.Kind)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: attached amount must not be negative", apperrors.ErrValidation)
	}

	rollup := domain.NewAttachRollup(projectID, ref, amount, actorID, s.Now())
	project, err := s.projectRepo.ApplyRollup(ctx, rollup)
	if err != nil {
		if errors.Is(err, apperrors.ErrAggregateConflict) {
			s.LogError(ctx, err, "Project aggregate update conflict",
				slog.String("project_id", projectID),
				slog.String("document_id", ref.DocumentID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Document attached to project",
		slog.String("project_id", projectID),
		slog.String("kind", string(ref.Kind)),
		slog.String("document_id", ref.DocumentID),
		slog.String("amount", amount.String()))
	return project, nil
}

// ReconcileProject implements portssvc.LedgerSvcFacade
func (s *ledgerService) ReconcileProject(ctx context.Context, projectID string, actorID string) (*domain.Project, error) {
	if err := requireID("project", projectID); err != nil {
		return nil, err
	}
	before, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.ReconcileProject(ctx, projectID, actorID, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to reconcile project", slog.String("project_id", projectID))
		return nil, err
	}

	if !before.TotalRevenue.Equal(project.TotalRevenue) || !before.TotalCost.Equal(project.TotalCost) {
		s.GetLogger(ctx).Warn("Project totals drifted from ledger and were corrected",
			slog.String("project_id", projectID),
			slog.String("revenue_before", before.TotalRevenue.String()),
			slog.String("revenue_after", project.TotalRevenue.String()),
			slog.String("cost_before", before.TotalCost.String()),
			slog.String("cost_after", project.TotalCost.String()))
	}
	return project, nil
}

// ListLedgerEntries implements portssvc.LedgerSvcFacade
func (s *ledgerService) ListLedgerEntries(ctx context.Context, projectID string) ([]domain.LedgerEntry, error) {
	if err := requireID("project", projectID); err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.projectRepo.ListLedgerEntries(ctx, projectID)
}
