package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/core/services"
	"github.com/SscSPs/oneflow/internal/dto"
)

// MockDocumentRepository is a mock type for the DocumentRepositoryFacade interface
type MockDocumentRepository struct {
	mock.Mock

	// Set by UpdateDocument when the mutation succeeds.
	updated    *domain.Document
	adjustment *domain.Rollup
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, kind, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, kind domain.DocumentKind, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	args := m.Called(ctx, kind, filter, limit, nextToken)
	var token *string
	if t := args.Get(1); t != nil {
		token = t.(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.Document), token, args.Error(2)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document, rollup *domain.Rollup) error {
	args := m.Called(ctx, doc, rollup)
	return args.Error(0)
}

// UpdateDocument hands the stubbed stored document to mutate, as the
// adapters do while holding their lock.
func (m *MockDocumentRepository) UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, mutate portsrepo.DocumentMutation) (*domain.Document, error) {
	args := m.Called(ctx, kind, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if err := args.Error(1); err != nil {
		return nil, err
	}
	doc, adjustment, err := mutate(args.Get(0).(*domain.Document).Clone())
	if err != nil {
		return nil, err
	}
	m.updated, m.adjustment = &doc, adjustment
	return &doc, nil
}

var _ portsrepo.DocumentRepositoryFacade = (*MockDocumentRepository)(nil)

// --- Test Suite Setup ---

type DocumentServiceTestSuite struct {
	suite.Suite
	mockRepo *MockDocumentRepository
	service  portssvc.DocumentSvcFacade
	ctx      context.Context
	actor    string
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockDocumentRepository)
	numbering, err := services.NewNumberingService(3)
	suite.Require().NoError(err)
	suite.service = services.NewDocumentService(suite.mockRepo, numbering, services.WithDefaultTaxRate(decimal.NewFromInt(18)))
	suite.ctx = context.Background()
	suite.actor = uuid.NewString()
}

func createRequest(projectID *string) dto.CreateDocumentRequest {
	due := time.Now().Add(30 * 24 * time.Hour)
	return dto.CreateDocumentRequest{
		Counterparty: "Acme",
		ProjectID:    projectID,
		Items: []dto.LineItemRequest{
			{Product: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("500")},
		},
		TaxMode: domain.TaxModeDocumentRate,
		DueDate: &due,
	}
}

// --- Test Cases ---

func (suite *DocumentServiceTestSuite) TestCreateDocument_RollsUpIntoProject() {
	projectID := uuid.NewString()
	suite.mockRepo.On("SaveDocument", suite.ctx,
		mock.MatchedBy(func(d domain.Document) bool {
			return d.Kind == domain.KindSalesOrder && d.Status == domain.StatusDraft &&
				d.Total.Equal(decimal.RequireFromString("1180"))
		}),
		mock.MatchedBy(func(r *domain.Rollup) bool {
			return r != nil && r.ProjectID == projectID && r.AppendRef &&
				r.Amount.Equal(decimal.RequireFromString("1180"))
		}),
	).Return(nil).Once()

	doc, err := suite.service.CreateDocument(suite.ctx, domain.KindSalesOrder, createRequest(&projectID), suite.actor)

	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("1000").Equal(doc.Subtotal))
	suite.True(decimal.RequireFromString("180").Equal(doc.Tax))
	suite.Contains(doc.Number, "SO-")
	suite.Equal(suite.actor, doc.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_WithoutProjectHasNoRollup() {
	suite.mockRepo.On("SaveDocument", suite.ctx, mock.Anything, (*domain.Rollup)(nil)).Return(nil).Once()

	_, err := suite.service.CreateDocument(suite.ctx, domain.KindPurchaseOrder, createRequest(nil), suite.actor)

	suite.NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_EmptyItems() {
	req := createRequest(nil)
	req.Items = nil

	_, err := suite.service.CreateDocument(suite.ctx, domain.KindSalesOrder, req, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_UnknownKind() {
	_, err := suite.service.CreateDocument(suite.ctx, domain.KindExpense, createRequest(nil), suite.actor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_RetriesNumberCollisionOnce() {
	var numbers []string
	suite.mockRepo.On("SaveDocument", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { numbers = append(numbers, args.Get(1).(domain.Document).Number) }).
		Return(fmt.Errorf("%w: collision", apperrors.ErrDuplicateNumber)).Once()
	suite.mockRepo.On("SaveDocument", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { numbers = append(numbers, args.Get(1).(domain.Document).Number) }).
		Return(nil).Once()

	doc, err := suite.service.CreateDocument(suite.ctx, domain.KindInvoice, createRequest(nil), suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(numbers, 2)
	suite.NotEqual(numbers[0], numbers[1])
	suite.Equal(numbers[1], doc.Number)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_PersistentCollisionFails() {
	suite.mockRepo.On("SaveDocument", suite.ctx, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: collision", apperrors.ErrDuplicateNumber)).Twice()

	_, err := suite.service.CreateDocument(suite.ctx, domain.KindInvoice, createRequest(nil), suite.actor)

	suite.ErrorIs(err, apperrors.ErrDuplicateNumber)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "SaveDocument", 2)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_OtherSaveErrorsAreNotRetried() {
	suite.mockRepo.On("SaveDocument", suite.ctx, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: project p1", apperrors.ErrNotFound)).Once()

	projectID := uuid.NewString()
	_, err := suite.service.CreateDocument(suite.ctx, domain.KindSalesOrder, createRequest(&projectID), suite.actor)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "SaveDocument", 1)
}

func (suite *DocumentServiceTestSuite) TestCreateInvoice_InheritsSourceProject() {
	projectID := uuid.NewString()
	sourceID := uuid.NewString()
	suite.mockRepo.On("FindDocumentByID", suite.ctx, domain.KindSalesOrder, sourceID).
		Return(&domain.Document{DocumentID: sourceID, Kind: domain.KindSalesOrder, ProjectID: &projectID, Status: domain.StatusConfirmed}, nil).Once()
	suite.mockRepo.On("SaveDocument", suite.ctx,
		mock.MatchedBy(func(d domain.Document) bool { return d.ProjectID != nil && *d.ProjectID == projectID }),
		mock.MatchedBy(func(r *domain.Rollup) bool { return r != nil && r.Ref.Kind == domain.KindInvoice }),
	).Return(nil).Once()

	req := createRequest(nil)
	req.SourceDocumentID = &sourceID
	_, err := suite.service.CreateDocument(suite.ctx, domain.KindInvoice, req, suite.actor)

	suite.NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateInvoice_SourceChecks() {
	sourceID := uuid.NewString()
	otherProject := uuid.NewString()
	sourceProject := uuid.NewString()

	suite.Run("missing source", func() {
		suite.mockRepo.On("FindDocumentByID", suite.ctx, domain.KindSalesOrder, sourceID).
			Return(nil, fmt.Errorf("%w: gone", apperrors.ErrNotFound)).Once()
		req := createRequest(nil)
		req.SourceDocumentID = &sourceID
		_, err := suite.service.CreateDocument(suite.ctx, domain.KindInvoice, req, suite.actor)
		suite.ErrorIs(err, apperrors.ErrNotFound)
	})

	suite.Run("cancelled source", func() {
		suite.mockRepo.On("FindDocumentByID", suite.ctx, domain.KindSalesOrder, sourceID).
			Return(&domain.Document{DocumentID: sourceID, Status: domain.StatusCancelled}, nil).Once()
		req := createRequest(nil)
		req.SourceDocumentID = &sourceID
		_, err := suite.service.CreateDocument(suite.ctx, domain.KindInvoice, req, suite.actor)
		suite.ErrorIs(err, apperrors.ErrValidation)
	})

	suite.Run("different project", func() {
		suite.mockRepo.On("FindDocumentByID", suite.ctx, domain.KindSalesOrder, sourceID).
			Return(&domain.Document{DocumentID: sourceID, Status: domain.StatusConfirmed, ProjectID: &sourceProject}, nil).Once()
		req := createRequest(&otherProject)
		req.SourceDocumentID = &sourceID
		_, err := suite.service.CreateDocument(suite.ctx, domain.KindInvoice, req, suite.actor)
		suite.ErrorIs(err, apperrors.ErrValidation)
	})

	suite.Run("sales orders take no source", func() {
		req := createRequest(nil)
		req.SourceDocumentID = &sourceID
		_, err := suite.service.CreateDocument(suite.ctx, domain.KindSalesOrder, req, suite.actor)
		suite.ErrorIs(err, apperrors.ErrValidation)
	})

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything)
}

func storedDocument(kind domain.DocumentKind, status domain.DocumentStatus, projectID *string) *domain.Document {
	return &domain.Document{
		DocumentID:   uuid.NewString(),
		Kind:         kind,
		Number:       kind.NumberPrefix() + "-1",
		Counterparty: "Acme",
		ProjectID:    projectID,
		Items: []domain.LineItem{
			{Product: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("500"), Amount: decimal.RequireFromString("1000")},
		},
		TaxMode:  domain.TaxModeDocumentRate,
		TaxRate:  decimal.NewFromInt(18),
		Subtotal: decimal.RequireFromString("1000"),
		Tax:      decimal.RequireFromString("180"),
		Total:    decimal.RequireFromString("1180"),
		Status:   status,
	}
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_StatusTransition() {
	current := storedDocument(domain.KindSalesOrder, domain.StatusDraft, nil)
	suite.mockRepo.On("UpdateDocument", suite.ctx, domain.KindSalesOrder, current.DocumentID).Return(current, nil).Once()

	confirmed := domain.StatusConfirmed
	doc, err := suite.service.UpdateDocument(suite.ctx, domain.KindSalesOrder, current.DocumentID, dto.UpdateDocumentRequest{Status: &confirmed}, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusConfirmed, doc.Status)
	suite.Equal(suite.actor, doc.LastUpdatedBy)
	suite.Nil(suite.mockRepo.adjustment)
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_IllegalTransition() {
	current := storedDocument(domain.KindSalesOrder, domain.StatusDraft, nil)
	suite.mockRepo.On("UpdateDocument", suite.ctx, domain.KindSalesOrder, current.DocumentID).Return(current, nil).Once()

	paid := domain.StatusPaid
	_, err := suite.service.UpdateDocument(suite.ctx, domain.KindSalesOrder, current.DocumentID, dto.UpdateDocumentRequest{Status: &paid}, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(suite.mockRepo.updated)
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_PaidSetsPaidDate() {
	current := storedDocument(domain.KindInvoice, domain.StatusSent, nil)
	suite.mockRepo.On("UpdateDocument", suite.ctx, domain.KindInvoice, current.DocumentID).Return(current, nil).Once()

	paid := domain.StatusPaid
	doc, err := suite.service.UpdateDocument(suite.ctx, domain.KindInvoice, current.DocumentID, dto.UpdateDocumentRequest{Status: &paid}, suite.actor)

	suite.Require().NoError(err)
	suite.NotNil(doc.PaidDate)
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_ItemEditAdjustsProject() {
	projectID := uuid.NewString()
	current := storedDocument(domain.KindSalesOrder, domain.StatusConfirmed, &projectID)
	suite.mockRepo.On("UpdateDocument", suite.ctx, domain.KindSalesOrder, current.DocumentID).Return(current, nil).Once()

	req := dto.UpdateDocumentRequest{Items: []dto.LineItemRequest{
		{Product: "Widget", Quantity: 1, UnitPrice: decimal.RequireFromString("500")},
	}}
	doc, err := suite.service.UpdateDocument(suite.ctx, domain.KindSalesOrder, current.DocumentID, req, suite.actor)

	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("90").Equal(doc.Tax))
	suite.True(decimal.RequireFromString("590").Equal(doc.Total))
	suite.Require().NotNil(suite.mockRepo.adjustment)
	suite.False(suite.mockRepo.adjustment.AppendRef)
	suite.Equal(projectID, suite.mockRepo.adjustment.ProjectID)
	suite.True(decimal.RequireFromString("-590").Equal(suite.mockRepo.adjustment.Amount))
	suite.mockRepo.AssertExpectations(suite.T())
}

// The adjustment is computed from whatever the repository hands over under
// its lock, not from an earlier read.
func (suite *DocumentServiceTestSuite) TestUpdateDocument_AdjustmentUsesLockedState() {
	projectID := uuid.NewString()
	locked := storedDocument(domain.KindSalesOrder, domain.StatusConfirmed, &projectID)
	locked.Items[0].Quantity = 1
	locked.Items[0].Amount = decimal.RequireFromString("500")
	locked.Subtotal = decimal.RequireFromString("500")
	locked.Tax = decimal.RequireFromString("90")
	locked.Total = decimal.RequireFromString("590")
	suite.mockRepo.On("UpdateDocument", suite.ctx, domain.KindSalesOrder, locked.DocumentID).Return(locked, nil).Once()

	req := dto.UpdateDocumentRequest{Items: []dto.LineItemRequest{
		{Product: "Widget", Quantity: 3, UnitPrice: decimal.RequireFromString("500")},
	}}
	doc, err := suite.service.UpdateDocument(suite.ctx, domain.KindSalesOrder, locked.DocumentID, req, suite.actor)

	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("1770").Equal(doc.Total))
	suite.Require().NotNil(suite.mockRepo.adjustment)
	suite.True(decimal.RequireFromString("1180").Equal(suite.mockRepo.adjustment.Amount))
	suite.mockRepo.AssertNotCalled(suite.T(), "FindDocumentByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_TerminalDocumentItemsLocked() {
	current := storedDocument(domain.KindInvoice, domain.StatusPaid, nil)
	suite.mockRepo.On("UpdateDocument", suite.ctx, domain.KindInvoice, current.DocumentID).Return(current, nil).Once()

	req := dto.UpdateDocumentRequest{Items: []dto.LineItemRequest{
		{Product: "Widget", Quantity: 1, UnitPrice: decimal.RequireFromString("1")},
	}}
	_, err := suite.service.UpdateDocument(suite.ctx, domain.KindInvoice, current.DocumentID, req, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(suite.mockRepo.updated)
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_BlankCounterparty() {
	blank := "   "
	_, err := suite.service.UpdateDocument(suite.ctx, domain.KindSalesOrder, uuid.NewString(), dto.UpdateDocumentRequest{Counterparty: &blank}, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestMalformedDocumentIDIsNotFound() {
	_, err := suite.service.GetDocument(suite.ctx, domain.KindInvoice, "not-a-uuid")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	confirmed := domain.StatusConfirmed
	_, err = suite.service.UpdateDocument(suite.ctx, domain.KindSalesOrder, "not-a-uuid", dto.UpdateDocumentRequest{Status: &confirmed}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.ListDocuments(suite.ctx, domain.KindInvoice, dto.ListDocumentsParams{ProjectID: "p1"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "FindDocumentByID", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListDocuments", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_BlankCounterparty() {
	req := createRequest(nil)
	req.Counterparty = " \t "

	_, err := suite.service.CreateDocument(suite.ctx, domain.KindSalesOrder, req, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_RejectsPriceFinerThanStored() {
	req := createRequest(nil)
	req.Items[0].UnitPrice = decimal.RequireFromString("10.12345")

	_, err := suite.service.CreateDocument(suite.ctx, domain.KindSalesOrder, req, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestListDocuments_RejectsForeignStatus() {
	_, err := suite.service.ListDocuments(suite.ctx, domain.KindSalesOrder, dto.ListDocumentsParams{Status: domain.StatusOverdue})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestListDocuments_PassesNextToken() {
	next := "next"
	suite.mockRepo.On("ListDocuments", suite.ctx, domain.KindPurchaseOrder, portsrepo.DocumentFilter{}, 20, (*string)(nil)).
		Return([]domain.Document{*storedDocument(domain.KindPurchaseOrder, domain.StatusDraft, nil)}, &next, nil).Once()

	resp, err := suite.service.ListDocuments(suite.ctx, domain.KindPurchaseOrder, dto.ListDocumentsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Documents, 1)
	suite.Equal(&next, resp.NextToken)
}

// --- Run Test Suite ---
func TestDocumentService(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
