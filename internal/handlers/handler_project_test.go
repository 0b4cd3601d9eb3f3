package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/dto"
	"github.com/SscSPs/oneflow/internal/handlers"
	"github.com/SscSPs/oneflow/internal/middleware"
)

// --- Mock ProjectService ---
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, actorID string) (*domain.Project, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) ListProjects(ctx context.Context, params dto.ListProjectsParams) ([]domain.Project, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectService) UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, actorID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) GetProjectStats(ctx context.Context) (*domain.ProjectStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectStats), args.Error(1)
}

var _ portssvc.ProjectSvcFacade = (*MockProjectService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AttachDocument(ctx context.Context, projectID string, ref domain.DocumentRef, amount decimal.Decimal, actorID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID, ref, amount, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockLedgerService) ReconcileProject(ctx context.Context, projectID string, actorID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockLedgerService) ListLedgerEntries(ctx context.Context, projectID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

type ProjectHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockProjectService *MockProjectService
	mockLedgerService  *MockLedgerService
	userID             string
}

func (suite *ProjectHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret, testIssuer))
	suite.userID = uuid.NewString()

	suite.mockProjectService = new(MockProjectService)
	suite.mockLedgerService = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterProjectRoutes(v1, suite.mockProjectService, suite.mockLedgerService)
}

func (suite *ProjectHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+signTestToken(&suite.Suite, suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_Success() {
	suite.mockProjectService.On("CreateProject", mock.Anything,
		mock.MatchedBy(func(r dto.CreateProjectRequest) bool { return r.Name == "Website" }),
		suite.userID,
	).Return(&domain.Project{ProjectID: uuid.NewString(), Name: "Website", Status: domain.ProjectNew}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/projects", map[string]any{"name": "Website"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ProjectResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Website", resp.Name)
	suite.mockProjectService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestAttachDocument_ReportsProfit() {
	projectID := uuid.NewString()
	docID := uuid.NewString()
	ref := domain.DocumentRef{Kind: domain.KindSalesOrder, DocumentID: docID}
	suite.mockLedgerService.On("AttachDocument", mock.Anything, projectID, ref,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("1180")) }),
		suite.userID,
	).Return(&domain.Project{
		ProjectID:     projectID,
		TotalRevenue:  decimal.RequireFromString("1180"),
		TotalCost:     decimal.RequireFromString("400"),
		SalesOrderIDs: []string{docID},
	}, nil).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/attachments", projectID), map[string]any{
		"kind":       "SALES_ORDER",
		"documentID": docID,
		"amount":     "1180",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ProjectResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(decimal.RequireFromString("780").Equal(resp.Profit))
	suite.Equal([]string{docID}, resp.SalesOrderIDs)
}

func (suite *ProjectHandlerTestSuite) TestAttachDocument_DuplicateReference() {
	projectID := uuid.NewString()
	suite.mockLedgerService.On("AttachDocument", mock.Anything, projectID, mock.Anything, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: reference already attached", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/attachments", projectID), map[string]any{
		"kind":       "EXPENSE",
		"documentID": uuid.NewString(),
		"amount":     "10",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestAttachDocument_UnknownKind() {
	w := suite.do(http.MethodPost, "/api/v1/projects/p1/attachments", map[string]any{
		"kind":       "QUOTE",
		"documentID": "q1",
		"amount":     "10",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "AttachDocument")
}

func (suite *ProjectHandlerTestSuite) TestReconcileProject() {
	projectID := uuid.NewString()
	suite.mockLedgerService.On("ReconcileProject", mock.Anything, projectID, suite.userID).
		Return(&domain.Project{ProjectID: projectID, TotalRevenue: decimal.RequireFromString("260")}, nil).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/reconcile", projectID), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestGetProject_NotFound() {
	suite.mockProjectService.On("GetProject", mock.Anything, "missing").
		Return(nil, fmt.Errorf("%w: project missing", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/projects/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestProjectHandler(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
