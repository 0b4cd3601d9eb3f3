package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProjectRepo:   newPgxProjectRepository(dbPool),
		DocumentRepo:  newPgxDocumentRepository(dbPool),
		ExpenseRepo:   newPgxExpenseRepository(dbPool),
		TaskRepo:      newPgxTaskRepository(dbPool),
		TimesheetRepo: newPgxTimesheetRepository(dbPool),
	}
}
