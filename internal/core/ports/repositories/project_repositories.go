package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/oneflow/internal/core/domain"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByID retrieves a project, returning apperrors.ErrNotFound when absent.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects returns projects ordered by creation time, newest first.
	// An empty status returns all projects.
	ListProjects(ctx context.Context, status domain.ProjectStatus, limit, offset int) ([]domain.Project, error)

	// GetProjectStats aggregates counts and money totals across all projects.
	GetProjectStats(ctx context.Context) (*domain.ProjectStats, error)
}

// ProjectWriter defines write operations for project data.
// UpdateProject never touches aggregate totals or reference collections.
type ProjectWriter interface {
	SaveProject(ctx context.Context, project domain.Project) error
	UpdateProject(ctx context.Context, project domain.Project) error
}

// ProjectLedger defines the aggregate roll-up operations.
type ProjectLedger interface {
	// ApplyRollup applies r and records its ledger entry in one storage transaction.
	// Attaching a reference that is already present fails with apperrors.ErrDuplicate.
	ApplyRollup(ctx context.Context, r domain.Rollup) (*domain.Project, error)

	// ReconcileProject overwrites the project totals with the sums of its ledger entries.
	ReconcileProject(ctx context.Context, projectID, actorID string, at time.Time) (*domain.Project, error)

	// ListLedgerEntries returns the project's entries in the order they were recorded.
	ListLedgerEntries(ctx context.Context, projectID string) ([]domain.LedgerEntry, error)
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
	ProjectLedger
}
