package services

// ServiceContainer holds instances of all the application services.
// Handlers and the CLI only ever talk to these interfaces.
type ServiceContainer struct {
	Numbering NumberingSvc
	Document  DocumentSvcFacade
	Ledger    LedgerSvcFacade
	Project   ProjectSvcFacade
	Task      TaskSvcFacade
	Timesheet TimesheetSvcFacade
	Expense   ExpenseSvcFacade
}
