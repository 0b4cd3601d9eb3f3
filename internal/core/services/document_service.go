package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/dto"
	"github.com/SscSPs/oneflow/internal/utils/accounting"
	"github.com/SscSPs/oneflow/internal/utils/pagination"
)

// maxNumberAttempts bounds how often a colliding document number is regenerated.
const maxNumberAttempts = 2

const (
	defaultDocumentPageSize = 20
	maxDocumentPageSize     = 100
)

// documentService provides commercial document operations.
type documentService struct {
	BaseService
	documentRepo   portsrepo.DocumentRepositoryFacade
	numbering      portssvc.NumberingSvc
	defaultTaxRate decimal.Decimal
}

// DocumentServiceOption is a functional option for configuring the document service
type DocumentServiceOption func(*documentService)

// WithDefaultTaxRate sets the rate (percent) used when a DOCUMENT_RATE request omits one.
func WithDefaultTaxRate(rate decimal.Decimal) DocumentServiceOption {
	return func(s *documentService) {
		s.defaultTaxRate = rate
	}
}

// NewDocumentService creates a new document service.
func NewDocumentService(documentRepo portsrepo.DocumentRepositoryFacade, numbering portssvc.NumberingSvc, options ...DocumentServiceOption) portssvc.DocumentSvcFacade {
	svc := &documentService{
		documentRepo:   documentRepo,
		numbering:      numbering,
		defaultTaxRate: accounting.DefaultTaxRate,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure documentService implements the portssvc.DocumentSvcFacade interface
var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func requireCommercialKind(kind domain.DocumentKind) error {
	if !kind.IsCommercial() {
		return fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, kind)
	}
	return nil
}

func (s *documentService) taxPolicy(mode domain.TaxMode, rate *decimal.Decimal) accounting.TaxPolicy {
	if rate == nil {
		r := s.defaultTaxRate
		rate = &r
	}
	return accounting.TaxPolicy{Mode: mode, Rate: rate}
}

// CreateDocument implements portssvc.DocumentSvcFacade
func (s *documentService) CreateDocument(ctx context.Context, kind domain.DocumentKind, req dto.CreateDocumentRequest, actorID string) (*domain.Document, error) {
	if err := requireCommercialKind(kind); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		s.LogWarn(ctx, err, "Rejected document create request", slog.String("kind", string(kind)))
		return nil, err
	}

	projectID := req.ProjectID
	if req.SourceDocumentID != nil {
		source, err := s.resolveSource(ctx, kind, *req.SourceDocumentID, projectID)
		if err != nil {
			return nil, err
		}
		if projectID == nil {
			projectID = source.ProjectID
		}
	}

	policy := s.taxPolicy(req.TaxMode, req.TaxRate)
	items := accounting.ApplyLineAmounts(dto.ToDomainLineItems(req.Items))
	totals := accounting.CalculateTotals(items, policy)

	now := s.Now()
	issueDate := now
	if req.IssueDate != nil {
		issueDate = req.IssueDate.UTC()
	}

	doc := domain.Document{
		DocumentID:       uuid.NewString(),
		Kind:             kind,
		Counterparty:     strings.TrimSpace(req.Counterparty),
		ProjectID:        projectID,
		SourceDocumentID: req.SourceDocumentID,
		Items:            items,
		TaxMode:          policy.Mode,
		TaxRate:          policy.EffectiveRate(),
		Subtotal:         totals.Subtotal,
		Tax:              totals.Tax,
		Total:            totals.Total,
		Status:           domain.StatusDraft,
		IssueDate:        issueDate,
		DueDate:          req.DueDate.UTC(),
		Notes:            req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	var rollup *domain.Rollup
	if projectID != nil {
		r := domain.NewAttachRollup(*projectID, doc.Ref(), doc.Total, actorID, now)
		rollup = &r
	}

	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		doc.Number, err = s.numbering.NextNumber(kind)
		if err != nil {
			return nil, err
		}
		err = s.documentRepo.SaveDocument(ctx, doc, rollup)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrDuplicateNumber) {
			s.LogError(ctx, err, "Failed to save document",
				slog.String("kind", string(kind)),
				slog.String("document_id", doc.DocumentID))
			return nil, err
		}
		s.LogWarn(ctx, err, "Document number collision, regenerating",
			slog.String("kind", string(kind)),
			slog.String("number", doc.Number),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		s.LogError(ctx, err, "Document numbering anomaly: collision persisted after retry",
			slog.String("kind", string(kind)),
			slog.String("number", doc.Number))
		return nil, err
	}

	s.LogInfo(ctx, "Document created",
		slog.String("kind", string(kind)),
		slog.String("document_id", doc.DocumentID),
		slog.String("number", doc.Number),
		slog.String("total", doc.Total.String()))
	return &doc, nil
}

// resolveSource checks that an invoice or bill may be raised from sourceID.
func (s *documentService) resolveSource(ctx context.Context, kind domain.DocumentKind, sourceID string, projectID *string) (*domain.Document, error) {
	sourceKind, ok := kind.SourceKind()
	if !ok {
		return nil, fmt.Errorf("%w: %s documents cannot reference a source document", apperrors.ErrValidation, kind)
	}
	source, err := s.documentRepo.FindDocumentByID(ctx, sourceKind, sourceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: source %s %s", apperrors.ErrNotFound, sourceKind, sourceID)
		}
		return nil, err
	}
	if source.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: source %s %s is cancelled", apperrors.ErrValidation, sourceKind, sourceID)
	}
	if projectID != nil && source.ProjectID != nil && *projectID != *source.ProjectID {
		return nil, fmt.Errorf("%w: source %s belongs to a different project", apperrors.ErrValidation, sourceKind)
	}
	return source, nil
}

// GetDocument implements portssvc.DocumentSvcFacade
func (s *documentService) GetDocument(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	if err := requireCommercialKind(kind); err != nil {
		return nil, err
	}
	if err := requireID(string(kind), documentID); err != nil {
		return nil, err
	}
	doc, err := s.documentRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load document", slog.String("document_id", documentID))
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments implements portssvc.DocumentSvcFacade
func (s *documentService) ListDocuments(ctx context.Context, kind domain.DocumentKind, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	if err := requireCommercialKind(kind); err != nil {
		return nil, err
	}
	if params.Status != "" && !kind.HasStatus(params.Status) {
		return nil, fmt.Errorf("%w: %q is not a %s status", apperrors.ErrValidation, params.Status, kind)
	}
	if err := requireFilterID("projectID", params.ProjectID); err != nil {
		return nil, err
	}
	if params.NextToken != nil {
		if _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	limit := pagination.NormalizeLimit(params.Limit, defaultDocumentPageSize, maxDocumentPageSize)
	filter := portsrepo.DocumentFilter{Status: params.Status, ProjectID: params.ProjectID}
	docs, nextToken, err := s.documentRepo.ListDocuments(ctx, kind, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list documents", slog.String("kind", string(kind)))
		return nil, err
	}

	return &dto.ListDocumentsResponse{
		Documents: dto.ToListDocumentResponse(docs),
		NextToken: nextToken,
	}, nil
}

// UpdateDocument implements portssvc.DocumentSvcFacade
func (s *documentService) UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.UpdateDocumentRequest, actorID string) (*domain.Document, error) {
	if err := requireCommercialKind(kind); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := requireID(string(kind), documentID); err != nil {
		return nil, err
	}

	now := s.Now()
	updated, err := s.documentRepo.UpdateDocument(ctx, kind, documentID, func(current domain.Document) (domain.Document, *domain.Rollup, error) {
		return applyDocumentUpdate(current, req, actorID, now)
	})
	if err != nil {
		if apperrors.Kind(err) == apperrors.KindValidation || apperrors.Kind(err) == apperrors.KindNotFound {
			s.LogWarn(ctx, err, "Document update rejected",
				slog.String("kind", string(kind)),
				slog.String("document_id", documentID))
		} else {
			s.LogError(ctx, err, "Failed to update document",
				slog.String("kind", string(kind)),
				slog.String("document_id", documentID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Document updated",
		slog.String("kind", string(kind)),
		slog.String("document_id", documentID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// applyDocumentUpdate computes the new state of current. The adjustment is the
// difference between the new and the stored total, so it is only correct when
// current is the latest committed version.
func applyDocumentUpdate(current domain.Document, req dto.UpdateDocumentRequest, actorID string, now time.Time) (domain.Document, *domain.Rollup, error) {
	kind := current.Kind
	doc := current.Clone()

	if req.Counterparty != nil {
		doc.Counterparty = strings.TrimSpace(*req.Counterparty)
	}
	if req.Notes != nil {
		doc.Notes = *req.Notes
	}
	if req.DueDate != nil {
		doc.DueDate = req.DueDate.UTC()
	}

	var adjustment *domain.Rollup
	if req.ChangesTotals() {
		if current.IsTerminal() {
			return doc, nil, fmt.Errorf("%w: %s %s is %s and can no longer be edited", apperrors.ErrValidation, kind, doc.Number, doc.Status)
		}
		if req.Items != nil {
			doc.Items = accounting.ApplyLineAmounts(dto.ToDomainLineItems(req.Items))
		}
		if req.TaxMode != nil {
			doc.TaxMode = *req.TaxMode
		}
		rate := doc.TaxRate
		if req.TaxRate != nil {
			rate = *req.TaxRate
		}
		totals := accounting.CalculateTotals(doc.Items, accounting.TaxPolicy{Mode: doc.TaxMode, Rate: &rate})
		doc.TaxRate = rate
		doc.Subtotal, doc.Tax, doc.Total = totals.Subtotal, totals.Tax, totals.Total

		delta := doc.Total.Sub(current.Total)
		if doc.ProjectID != nil && !delta.IsZero() {
			r := domain.NewAdjustmentRollup(*doc.ProjectID, doc.Ref(), delta, actorID, now)
			adjustment = &r
		}
	}

	if req.Status != nil && *req.Status != doc.Status {
		if !kind.CanTransition(doc.Status, *req.Status) {
			return doc, nil, fmt.Errorf("%w: %s cannot move from %s to %s", apperrors.ErrValidation, kind, doc.Status, *req.Status)
		}
		doc.Status = *req.Status
		if doc.Status == domain.StatusPaid && doc.PaidDate == nil {
			paid := now
			doc.PaidDate = &paid
		}
	}

	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorID
	return doc, adjustment, nil
}
