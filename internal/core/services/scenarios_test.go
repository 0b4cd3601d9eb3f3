package services_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/oneflow/internal/adapters/database/memory"
	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/core/services"
	"github.com/SscSPs/oneflow/internal/dto"
	"github.com/SscSPs/oneflow/internal/platform/config"
)

func newMemoryServices(t *testing.T) *portssvc.ServiceContainer {
	t.Helper()
	cfg := &config.Config{NumberingNodeID: 5, DefaultTaxRate: decimal.NewFromInt(18)}
	container, err := services.NewServiceContainer(cfg, memory.NewStore().Repositories())
	require.NoError(t, err)
	return container
}

func newProject(t *testing.T, svc *portssvc.ServiceContainer, actor string) *domain.Project {
	t.Helper()
	project, err := svc.Project.CreateProject(context.Background(), dto.CreateProjectRequest{Name: "Website redesign"}, actor)
	require.NoError(t, err)
	return project
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func documentRequest(projectID *string, quantity int64, unitPrice string) dto.CreateDocumentRequest {
	due := time.Now().Add(14 * 24 * time.Hour)
	return dto.CreateDocumentRequest{
		Counterparty: "Acme",
		ProjectID:    projectID,
		Items: []dto.LineItemRequest{
			{Product: "Service", Quantity: quantity, UnitPrice: dec(unitPrice)},
		},
		TaxMode: domain.TaxModeDocumentRate,
		DueDate: &due,
	}
}

func TestScenario_SalesAndPurchaseOrdersDriveProfit(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	so, err := svc.Document.CreateDocument(ctx, domain.KindSalesOrder, documentRequest(&project.ProjectID, 2, "500"), actor)
	require.NoError(t, err)
	po, err := svc.Document.CreateDocument(ctx, domain.KindPurchaseOrder, documentRequest(&project.ProjectID, 1, "200"), actor)
	require.NoError(t, err)

	got, err := svc.Project.GetProject(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.True(t, dec("1180").Equal(got.TotalRevenue), got.TotalRevenue.String())
	assert.True(t, dec("236").Equal(got.TotalCost), got.TotalCost.String())
	assert.True(t, dec("944").Equal(got.Profit()))
	assert.Equal(t, []string{so.DocumentID}, got.SalesOrderIDs)
	assert.Equal(t, []string{po.DocumentID}, got.PurchaseOrderIDs)

	entries, err := svc.Ledger.ListLedgerEntries(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestScenario_InvoiceFromSalesOrderAddsItsOwnRevenue(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	so, err := svc.Document.CreateDocument(ctx, domain.KindSalesOrder, documentRequest(&project.ProjectID, 1, "100"), actor)
	require.NoError(t, err)

	req := documentRequest(nil, 1, "100")
	req.SourceDocumentID = &so.DocumentID
	inv, err := svc.Document.CreateDocument(ctx, domain.KindInvoice, req, actor)
	require.NoError(t, err)
	require.NotNil(t, inv.ProjectID)
	assert.Equal(t, project.ProjectID, *inv.ProjectID)

	got, err := svc.Project.GetProject(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.True(t, dec("236").Equal(got.TotalRevenue), got.TotalRevenue.String())
	assert.Equal(t, []string{inv.DocumentID}, got.InvoiceIDs)
}

func TestScenario_ConcurrentAttachmentsSumExactly(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	const n = 100
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref := domain.DocumentRef{Kind: domain.KindSalesOrder, DocumentID: uuid.NewString()}
			if _, err := svc.Ledger.AttachDocument(ctx, project.ProjectID, ref, dec("12.34"), actor); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	got, err := svc.Project.GetProject(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.True(t, dec("1234").Equal(got.TotalRevenue), got.TotalRevenue.String())
	assert.Len(t, got.SalesOrderIDs, n)
}

func TestScenario_DuplicateAttachmentRejected(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)
	ref := domain.DocumentRef{Kind: domain.KindVendorBill, DocumentID: uuid.NewString()}

	_, err := svc.Ledger.AttachDocument(ctx, project.ProjectID, ref, dec("50"), actor)
	require.NoError(t, err)
	_, err = svc.Ledger.AttachDocument(ctx, project.ProjectID, ref, dec("50"), actor)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	got, err := svc.Project.GetProject(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(got.TotalCost))
}

func TestScenario_AttachValidation(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	_, err := svc.Ledger.AttachDocument(ctx, project.ProjectID, domain.DocumentRef{Kind: "QUOTE", DocumentID: "q1"}, dec("1"), actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Ledger.AttachDocument(ctx, project.ProjectID, domain.DocumentRef{Kind: domain.KindSalesOrder, DocumentID: "s1"}, dec("-1"), actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Ledger.AttachDocument(ctx, uuid.NewString(), domain.DocumentRef{Kind: domain.KindSalesOrder, DocumentID: "s1"}, dec("1"), actor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestScenario_DocumentForMissingProjectLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	missing := uuid.NewString()

	_, err := svc.Document.CreateDocument(ctx, domain.KindSalesOrder, documentRequest(&missing, 1, "10"), actor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	resp, err := svc.Document.ListDocuments(ctx, domain.KindSalesOrder, dto.ListDocumentsParams{})
	require.NoError(t, err)
	assert.Empty(t, resp.Documents)
}

func TestScenario_ItemEditAdjustsTotalsAndReconcileAgrees(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	so, err := svc.Document.CreateDocument(ctx, domain.KindSalesOrder, documentRequest(&project.ProjectID, 2, "500"), actor)
	require.NoError(t, err)

	_, err = svc.Document.UpdateDocument(ctx, domain.KindSalesOrder, so.DocumentID, dto.UpdateDocumentRequest{
		Items: []dto.LineItemRequest{{Product: "Service", Quantity: 1, UnitPrice: dec("500")}},
	}, actor)
	require.NoError(t, err)

	got, err := svc.Project.GetProject(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.True(t, dec("590").Equal(got.TotalRevenue), got.TotalRevenue.String())
	assert.Equal(t, []string{so.DocumentID}, got.SalesOrderIDs)

	reconciled, err := svc.Ledger.ReconcileProject(ctx, project.ProjectID, actor)
	require.NoError(t, err)
	assert.True(t, dec("590").Equal(reconciled.TotalRevenue), reconciled.TotalRevenue.String())
}

func TestScenario_CancelledDocumentKeepsItsContribution(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	po, err := svc.Document.CreateDocument(ctx, domain.KindPurchaseOrder, documentRequest(&project.ProjectID, 1, "100"), actor)
	require.NoError(t, err)

	cancelled := domain.StatusCancelled
	_, err = svc.Document.UpdateDocument(ctx, domain.KindPurchaseOrder, po.DocumentID, dto.UpdateDocumentRequest{Status: &cancelled}, actor)
	require.NoError(t, err)

	got, err := svc.Project.GetProject(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.True(t, dec("118").Equal(got.TotalCost))
}

func TestScenario_ExpensesBillableVersusCost(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	cost, err := svc.Expense.CreateExpense(ctx, dto.CreateExpenseRequest{
		ProjectID: project.ProjectID, Title: "Train tickets", Amount: dec("75.50"),
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, cost.Category)
	assert.Equal(t, domain.ExpenseSubmitted, cost.Status)

	billable, err := svc.Expense.CreateExpense(ctx, dto.CreateExpenseRequest{
		ProjectID: project.ProjectID, Title: "Client licence", Amount: dec("300"), Billable: true,
	}, actor)
	require.NoError(t, err)

	got, err := svc.Project.GetProject(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.True(t, dec("75.50").Equal(got.TotalCost), got.TotalCost.String())
	assert.ElementsMatch(t, []string{cost.ExpenseID, billable.ExpenseID}, got.ExpenseIDs)

	approver := uuid.NewString()
	approved, err := svc.Expense.UpdateExpenseStatus(ctx, cost.ExpenseID, dto.UpdateExpenseStatusRequest{Status: domain.ExpenseApproved}, approver)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, approver, *approved.ApprovedBy)

	_, err = svc.Expense.UpdateExpenseStatus(ctx, cost.ExpenseID, dto.UpdateExpenseStatusRequest{Status: domain.ExpenseSubmitted}, approver)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestScenario_TaskHoursAccumulate(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	task, err := svc.Task.CreateTask(ctx, dto.CreateTaskRequest{ProjectID: project.ProjectID, Title: "Wireframes"}, actor)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.True(t, task.ActualHours.IsZero())

	_, err = svc.Task.LogHours(ctx, task.TaskID, dec("3.5"), actor)
	require.NoError(t, err)
	updated, err := svc.Task.LogHours(ctx, task.TaskID, dec("2"), actor)
	require.NoError(t, err)
	assert.True(t, dec("5.5").Equal(updated.ActualHours), updated.ActualHours.String())

	_, err = svc.Task.LogHours(ctx, task.TaskID, dec("0"), actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Task.CreateTask(ctx, dto.CreateTaskRequest{ProjectID: uuid.NewString(), Title: "Orphan"}, actor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestScenario_ConcurrentHoursAndTimesheets(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)
	task, err := svc.Task.CreateTask(ctx, dto.CreateTaskRequest{ProjectID: project.ProjectID, Title: "Build"}, actor)
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Task.LogHours(ctx, task.TaskID, dec("0.5"), actor)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, _, err := svc.Timesheet.LogTimesheet(ctx, dto.LogTimesheetRequest{TaskID: task.TaskID, Hours: dec("1.25")}, actor)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Task.GetTask(ctx, task.TaskID)
	require.NoError(t, err)
	assert.True(t, dec("87.5").Equal(got.ActualHours), got.ActualHours.String())

	timesheets, err := svc.Timesheet.ListTimesheets(ctx, dto.ListTimesheetsParams{TaskID: task.TaskID})
	require.NoError(t, err)
	assert.Len(t, timesheets, n)
	for _, ts := range timesheets {
		assert.Equal(t, project.ProjectID, ts.ProjectID)
		assert.Equal(t, actor, ts.EmployeeID)
	}
}

func TestScenario_TimesheetProjectMismatch(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)
	task, err := svc.Task.CreateTask(ctx, dto.CreateTaskRequest{ProjectID: project.ProjectID, Title: "Build"}, actor)
	require.NoError(t, err)

	_, _, err = svc.Timesheet.LogTimesheet(ctx, dto.LogTimesheetRequest{
		TaskID: task.TaskID, ProjectID: uuid.NewString(), Hours: dec("1"),
	}, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	from := time.Now().AddDate(0, 0, 1)
	to := time.Now()
	_, err = svc.Timesheet.ListTimesheets(ctx, dto.ListTimesheetsParams{From: &from, To: &to})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestScenario_ProjectUpdateKeepsTotals(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	_, err := svc.Ledger.AttachDocument(ctx, project.ProjectID, domain.DocumentRef{Kind: domain.KindSalesOrder, DocumentID: "so-1"}, dec("100"), actor)
	require.NoError(t, err)

	name := "Renamed"
	inProgress := domain.ProjectInProgress
	updated, err := svc.Project.UpdateProject(ctx, project.ProjectID, dto.UpdateProjectRequest{Name: &name, Status: &inProgress}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, dec("100").Equal(updated.TotalRevenue))

	stats, err := svc.Project.GetProjectStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalProjects)
}

func TestScenario_ConcurrentDocumentEditsKeepProjectTotal(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	so, err := svc.Document.CreateDocument(ctx, domain.KindSalesOrder, documentRequest(&project.ProjectID, 1, "100"), actor)
	require.NoError(t, err)

	confirmed := domain.StatusConfirmed
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func(qty int64) {
			defer wg.Done()
			_, err := svc.Document.UpdateDocument(ctx, domain.KindSalesOrder, so.DocumentID, dto.UpdateDocumentRequest{
				Items: []dto.LineItemRequest{{Product: "Service", Quantity: qty, UnitPrice: dec("100")}},
			}, actor)
			assert.NoError(t, err)
		}(int64(i%4 + 1))
		go func(n int) {
			defer wg.Done()
			notes := "revision " + strconv.Itoa(n)
			_, err := svc.Document.UpdateDocument(ctx, domain.KindSalesOrder, so.DocumentID, dto.UpdateDocumentRequest{
				Status: &confirmed,
				Notes:  &notes,
			}, actor)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	doc, err := svc.Document.GetDocument(ctx, domain.KindSalesOrder, so.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, doc.Status)

	got, err := svc.Project.GetProject(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.True(t, doc.Total.Equal(got.TotalRevenue), "document %s, project %s", doc.Total, got.TotalRevenue)

	entries, err := svc.Ledger.ListLedgerEntries(ctx, project.ProjectID)
	require.NoError(t, err)
	revenue, _ := domain.SumEntries(entries)
	assert.True(t, doc.Total.Equal(revenue), revenue.String())
}

func TestScenario_FractionDigitsBeyondStorageAreRejected(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()
	project := newProject(t, svc, actor)

	task, err := svc.Task.CreateTask(ctx, dto.CreateTaskRequest{ProjectID: project.ProjectID, Title: "Design"}, actor)
	require.NoError(t, err)

	_, err = svc.Task.LogHours(ctx, task.TaskID, dec("0.004"), actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = svc.Timesheet.LogTimesheet(ctx, dto.LogTimesheetRequest{TaskID: task.TaskID, Hours: dec("0.001")}, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Expense.CreateExpense(ctx, dto.CreateExpenseRequest{ProjectID: project.ProjectID, Title: "Taxi", Amount: dec("12.00001")}, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Trailing zeros beyond the stored scale are fine.
	updated, err := svc.Task.LogHours(ctx, task.TaskID, dec("1.500"), actor)
	require.NoError(t, err)
	assert.True(t, dec("1.5").Equal(updated.ActualHours))

	got, err := svc.Project.GetProject(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.True(t, got.TotalCost.IsZero())
}

func TestScenario_MalformedIDs(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryServices(t)
	actor := uuid.NewString()

	_, err := svc.Project.GetProject(ctx, "42")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Ledger.AttachDocument(ctx, "42", domain.DocumentRef{Kind: domain.KindSalesOrder, DocumentID: "s1"}, dec("1"), actor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Task.LogHours(ctx, "42", dec("1"), actor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Expense.GetExpense(ctx, "42")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Timesheet.ListTimesheets(ctx, dto.ListTimesheetsParams{ProjectID: "42"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Expense.ListExpenses(ctx, dto.ListExpensesParams{ProjectID: "42"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
