package services

import (
	"context"

	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/SscSPs/oneflow/internal/dto"
	"github.com/shopspring/decimal"
)

// NumberingSvc hands out human-readable document numbers.
type NumberingSvc interface {
	// NextNumber returns a number of the form <PREFIX>-<id>, unique per kind.
	NextNumber(kind domain.DocumentKind) (string, error)
}

// DocumentReaderSvc defines read operations on commercial documents
type DocumentReaderSvc interface {
	GetDocument(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, kind domain.DocumentKind, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)
}

// DocumentWriterSvc defines write operations on commercial documents
type DocumentWriterSvc interface {
	// CreateDocument validates, numbers, totals and persists a document, rolling
	// its total up into the referenced project in the same transaction.
	CreateDocument(ctx context.Context, kind domain.DocumentKind, req dto.CreateDocumentRequest, actorID string) (*domain.Document, error)

	// UpdateDocument applies field, item and status changes.
	UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.UpdateDocumentRequest, actorID string) (*domain.Document, error)
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
}

// LedgerSvcFacade defines project aggregate operations.
type LedgerSvcFacade interface {
	// AttachDocument appends ref to the project and adds amount to the matching total.
	AttachDocument(ctx context.Context, projectID string, ref domain.DocumentRef, amount decimal.Decimal, actorID string) (*domain.Project, error)

	// ReconcileProject rebuilds the project totals from its ledger entries.
	ReconcileProject(ctx context.Context, projectID string, actorID string) (*domain.Project, error)

	ListLedgerEntries(ctx context.Context, projectID string) ([]domain.LedgerEntry, error)
}
