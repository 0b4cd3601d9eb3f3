package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	"github.com/SscSPs/oneflow/internal/utils/pagination"
)

type documentRepository struct {
	store *Store
}

var _ portsrepo.DocumentRepositoryFacade = (*documentRepository)(nil)

func (r *documentRepository) table(kind domain.DocumentKind) (map[string]domain.Document, error) {
	docs, ok := r.store.documents[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, kind)
	}
	return docs, nil
}

func (r *documentRepository) SaveDocument(ctx context.Context, doc domain.Document, rollup *domain.Rollup) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs, err := r.table(doc.Kind)
	if err != nil {
		return err
	}
	if _, taken := r.store.numbers[doc.Kind][doc.Number]; taken {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateNumber, doc.Number)
	}
	if _, exists := docs[doc.DocumentID]; exists {
		return fmt.Errorf("%w: document %s", apperrors.ErrDuplicate, doc.DocumentID)
	}
	if doc.ProjectID != nil {
		if _, ok := r.store.projects[*doc.ProjectID]; !ok {
			return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, *doc.ProjectID)
		}
	}

	var (
		project domain.Project
		entry   *domain.LedgerEntry
	)
	if rollup != nil {
		project, entry, err = r.store.rollupLocked(*rollup)
		if err != nil {
			return err
		}
	}

	docs[doc.DocumentID] = doc.Clone()
	r.store.numbers[doc.Kind][doc.Number] = doc.DocumentID
	if rollup != nil {
		r.store.publishRollupLocked(project, entry)
	}
	return nil
}

func (r *documentRepository) UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, mutate portsrepo.DocumentMutation) (*domain.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	current, exists := docs[documentID]
	if !exists {
		return nil, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, documentID)
	}

	doc, adjustment, err := mutate(current.Clone())
	if err != nil {
		return nil, err
	}
	if doc.DocumentID != documentID || doc.Kind != kind {
		return nil, fmt.Errorf("%w: document identity cannot change on update", apperrors.ErrValidation)
	}

	var (
		project domain.Project
		entry   *domain.LedgerEntry
	)
	if adjustment != nil {
		project, entry, err = r.store.rollupLocked(*adjustment)
		if err != nil {
			return nil, err
		}
	}

	docs[documentID] = doc.Clone()
	if adjustment != nil {
		r.store.publishRollupLocked(project, entry)
	}
	return &doc, nil
}

func (r *documentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	doc, ok := docs[documentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, documentID)
	}
	c := doc.Clone()
	return &c, nil
}

func (r *documentRepository) ListDocuments(ctx context.Context, kind domain.DocumentKind, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs, err := r.table(kind)
	if err != nil {
		return nil, nil, err
	}

	page := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.ProjectID != "" && (d.ProjectID == nil || *d.ProjectID != filter.ProjectID) {
			continue
		}
		if cursor != nil && !cursor.After(d.CreatedAt, d.DocumentID) {
			continue
		}
		page = append(page, d.Clone())
	}
	sort.Slice(page, func(i, j int) bool {
		if page[i].CreatedAt.Equal(page[j].CreatedAt) {
			return page[i].DocumentID > page[j].DocumentID
		}
		return page[i].CreatedAt.After(page[j].CreatedAt)
	})

	// Same contract as the SQL adapter: a token is returned only when more rows exist.
	var token *string
	if limit > 0 && len(page) > limit {
		page = page[:limit]
		last := page[len(page)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.DocumentID)
		token = &t
	}
	return page, token, nil
}
