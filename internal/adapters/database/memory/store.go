// Package memory is an in-process storage adapter. It backs STORAGE_DRIVER=memory
// and the concurrency tests of the service layer.
package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
)

// Store holds every entity behind a single mutex. Composite writes mutate
// copies and publish them only after every step has succeeded.
type Store struct {
	mu         sync.Mutex
	projects   map[string]domain.Project
	documents  map[domain.DocumentKind]map[string]domain.Document
	numbers    map[domain.DocumentKind]map[string]string // number -> document id
	entries    map[string][]domain.LedgerEntry
	expenses   map[string]domain.Expense
	tasks      map[string]domain.Task
	timesheets []domain.Timesheet
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{
		projects:  make(map[string]domain.Project),
		documents: make(map[domain.DocumentKind]map[string]domain.Document),
		numbers:   make(map[domain.DocumentKind]map[string]string),
		entries:   make(map[string][]domain.LedgerEntry),
		expenses:  make(map[string]domain.Expense),
		tasks:     make(map[string]domain.Task),
	}
	for _, kind := range domain.CommercialKinds {
		s.documents[kind] = make(map[string]domain.Document)
		s.numbers[kind] = make(map[string]string)
	}
	return s
}

// Repositories exposes the store through the repository ports.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProjectRepo:   &projectRepository{store: s},
		DocumentRepo:  &documentRepository{store: s},
		ExpenseRepo:   &expenseRepository{store: s},
		TaskRepo:      &taskRepository{store: s},
		TimesheetRepo: &timesheetRepository{store: s},
	}
}

// rollupLocked computes the project state after r without publishing it.
// s.mu must be held.
func (s *Store) rollupLocked(r domain.Rollup) (domain.Project, *domain.LedgerEntry, error) {
	current, ok := s.projects[r.ProjectID]
	if !ok {
		return domain.Project{}, nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, r.ProjectID)
	}
	if r.AppendRef && current.HasReference(r.Ref) {
		return domain.Project{}, nil, fmt.Errorf("%w: %s %s is already attached to project %s",
			apperrors.ErrDuplicate, r.Ref.Kind, r.Ref.DocumentID, r.ProjectID)
	}

	next := current.Clone()
	next.ApplyRollup(r)

	entry, ok := r.Entry(uuid.NewString())
	if !ok {
		return next, nil, nil
	}
	return next, &entry, nil
}

// publishRollupLocked stores the result of rollupLocked. s.mu must be held.
func (s *Store) publishRollupLocked(project domain.Project, entry *domain.LedgerEntry) {
	s.projects[project.ProjectID] = project
	if entry != nil {
		s.entries[project.ProjectID] = append(s.entries[project.ProjectID], *entry)
	}
}
