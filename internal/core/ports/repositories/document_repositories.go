package repositories

import (
	"context"

	"github.com/SscSPs/oneflow/internal/core/domain"
)

// DocumentFilter narrows ListDocuments. Zero values match everything.
type DocumentFilter struct {
	Status    domain.DocumentStatus
	ProjectID string
}

// DocumentReader defines read operations for commercial documents
type DocumentReader interface {
	// FindDocumentByID retrieves a document of the given kind.
	FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error)

	// ListDocuments retrieves a page of documents using token-based pagination.
	// It returns the documents, a token for the next page (nil on the last page), and an error.
	ListDocuments(ctx context.Context, kind domain.DocumentKind, filter DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error)
}

// DocumentWriter defines write operations for commercial documents
type DocumentWriter interface {
	// SaveDocument inserts doc and, when rollup is non-nil, applies it to the
	// project in the same transaction. A number collision returns apperrors.ErrDuplicateNumber.
	SaveDocument(ctx context.Context, doc domain.Document, rollup *domain.Rollup) error

	// UpdateDocument locks the stored document, hands a copy to mutate and
	// persists the result. When mutate returns an adjustment it is applied to
	// the project in the same transaction. Concurrent updates of one document
	// are serialized, so mutate always sees the latest committed state.
	UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, mutate DocumentMutation) (*domain.Document, error)
}

// DocumentMutation edits current and returns the document to store plus an
// optional project adjustment. A non-nil error aborts the update.
type DocumentMutation func(current domain.Document) (domain.Document, *domain.Rollup, error)

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
