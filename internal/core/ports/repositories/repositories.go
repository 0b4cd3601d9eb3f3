package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the postgres and the in-memory adapters build one of these.
type RepositoryProvider struct {
	ProjectRepo   ProjectRepositoryFacade
	DocumentRepo  DocumentRepositoryFacade
	ExpenseRepo   ExpenseRepositoryFacade
	TaskRepo      TaskRepositoryFacade
	TimesheetRepo TimesheetRepositoryFacade
}
