package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
)

type projectRepository struct {
	store *Store
}

var _ portsrepo.ProjectRepositoryFacade = (*projectRepository)(nil)

func (r *projectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.projects[project.ProjectID]; exists {
		return fmt.Errorf("%w: project %s", apperrors.ErrDuplicate, project.ProjectID)
	}
	r.store.projects[project.ProjectID] = project.Clone()
	return nil
}

func (r *projectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.projects[project.ProjectID]
	if !ok {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, project.ProjectID)
	}
	next := current.Clone()
	next.Name = project.Name
	next.Description = project.Description
	next.ManagerID = project.ManagerID
	next.TeamMemberIDs = append([]string{}, project.TeamMemberIDs...)
	next.Status = project.Status
	next.StartDate = project.StartDate
	next.EndDate = project.EndDate
	next.Budget = project.Budget
	next.LastUpdatedAt = project.LastUpdatedAt
	next.LastUpdatedBy = project.LastUpdatedBy
	r.store.projects[project.ProjectID] = next.Clone()
	return nil
}

func (r *projectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	project, ok := r.store.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
	}
	c := project.Clone()
	return &c, nil
}

func (r *projectRepository) ListProjects(ctx context.Context, status domain.ProjectStatus, limit, offset int) ([]domain.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	projects := make([]domain.Project, 0, len(r.store.projects))
	for _, p := range r.store.projects {
		if status != "" && p.Status != status {
			continue
		}
		projects = append(projects, p.Clone())
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ProjectID > projects[j].ProjectID
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	if offset >= len(projects) {
		return []domain.Project{}, nil
	}
	projects = projects[offset:]
	if limit > 0 && limit < len(projects) {
		projects = projects[:limit]
	}
	return projects, nil
}

func (r *projectRepository) GetProjectStats(ctx context.Context) (*domain.ProjectStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stats := &domain.ProjectStats{
		TotalBudget:  decimal.Zero,
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
	}
	for _, p := range r.store.projects {
		stats.TotalProjects++
		if p.Status == domain.ProjectInProgress {
			stats.ActiveProjects++
		}
		stats.TotalBudget = stats.TotalBudget.Add(p.Budget)
		stats.TotalRevenue = stats.TotalRevenue.Add(p.TotalRevenue)
		stats.TotalCost = stats.TotalCost.Add(p.TotalCost)
	}
	return stats, nil
}

func (r *projectRepository) ApplyRollup(ctx context.Context, rollup domain.Rollup) (*domain.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	project, entry, err := r.store.rollupLocked(rollup)
	if err != nil {
		return nil, err
	}
	r.store.publishRollupLocked(project, entry)
	c := project.Clone()
	return &c, nil
}

func (r *projectRepository) ReconcileProject(ctx context.Context, projectID, actorID string, at time.Time) (*domain.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
	}
	next := current.Clone()
	next.TotalRevenue, next.TotalCost = domain.SumEntries(r.store.entries[projectID])
	next.LastUpdatedAt = at
	next.LastUpdatedBy = actorID
	r.store.projects[projectID] = next

	c := next.Clone()
	return &c, nil
}

func (r *projectRepository) ListLedgerEntries(ctx context.Context, projectID string) ([]domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return append([]domain.LedgerEntry{}, r.store.entries[projectID]...), nil
}
