package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
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

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testIssuer    = "oneflow-test"
)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) GetDocument(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, kind, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) ListDocuments(ctx context.Context, kind domain.DocumentKind, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	args := m.Called(ctx, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListDocumentsResponse), args.Error(1)
}

func (m *MockDocumentService) CreateDocument(ctx context.Context, kind domain.DocumentKind, req dto.CreateDocumentRequest, actorID string) (*domain.Document, error) {
	args := m.Called(ctx, kind, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) UpdateDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.UpdateDocumentRequest, actorID string) (*domain.Document, error) {
	args := m.Called(ctx, kind, documentID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

func signTestToken(s *suite.Suite, userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

// --- Test Suite Setup ---
type DocumentHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockDocumentService *MockDocumentService
	userID              string
}

func (suite *DocumentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret, testIssuer))
	suite.userID = uuid.NewString()

	suite.mockDocumentService = new(MockDocumentService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterDocumentRoutes(v1, suite.mockDocumentService)
}

func (suite *DocumentHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
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

func validCreateBody() map[string]any {
	return map[string]any{
		"counterparty": "Acme",
		"taxMode":      "DOCUMENT_RATE",
		"dueDate":      time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
		"items": []map[string]any{
			{"product": "Widget", "quantity": 2, "unitPrice": "500"},
		},
	}
}

// --- Test Cases ---

func (suite *DocumentHandlerTestSuite) TestCreateSalesOrder_Success() {
	created := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       domain.KindSalesOrder,
		Number:     "SO-1",
		Total:      decimal.RequireFromString("1180"),
		Status:     domain.StatusDraft,
	}
	suite.mockDocumentService.On("CreateDocument",
		mock.Anything,
		domain.KindSalesOrder,
		mock.MatchedBy(func(r dto.CreateDocumentRequest) bool {
			return r.Counterparty == "Acme" && len(r.Items) == 1 && r.Items[0].Quantity == 2
		}),
		suite.userID,
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/sales-orders", validCreateBody())

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.DocumentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("SO-1", resp.Number)
	suite.True(decimal.RequireFromString("1180").Equal(resp.Total))
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestCreate_RoutesKindBySegment() {
	for segment, kind := range map[string]domain.DocumentKind{
		"purchase-orders": domain.KindPurchaseOrder,
		"invoices":        domain.KindInvoice,
		"vendor-bills":    domain.KindVendorBill,
	} {
		suite.mockDocumentService.On("CreateDocument", mock.Anything, kind, mock.Anything, suite.userID).
			Return(&domain.Document{DocumentID: uuid.NewString(), Kind: kind}, nil).Once()

		w := suite.do(http.MethodPost, "/api/v1/"+segment, validCreateBody())
		suite.Equal(http.StatusCreated, w.Code, segment)
	}
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestCreate_EmptyItemsRejectedAtBinding() {
	body := validCreateBody()
	body["items"] = []map[string]any{}

	w := suite.do(http.MethodPost, "/api/v1/invoices", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDocumentService.AssertNotCalled(suite.T(), "CreateDocument")
}

func (suite *DocumentHandlerTestSuite) TestCreate_ErrorKinds() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", fmt.Errorf("%w: items must not be empty", apperrors.ErrValidation), http.StatusBadRequest, apperrors.KindValidation},
		{"project missing", fmt.Errorf("%w: project p1", apperrors.ErrNotFound), http.StatusNotFound, apperrors.KindNotFound},
		{"number collision", fmt.Errorf("%w: SO-1", apperrors.ErrDuplicateNumber), http.StatusConflict, apperrors.KindDuplicateNumber},
		{"aggregate conflict", fmt.Errorf("%w: serialization failure", apperrors.ErrAggregateConflict), http.StatusConflict, apperrors.KindAggregateConflict},
		{"internal", fmt.Errorf("connection reset"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockDocumentService.On("CreateDocument", mock.Anything, domain.KindSalesOrder, mock.Anything, suite.userID).
				Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/sales-orders", validCreateBody())

			suite.Equal(tt.wantStatus, w.Code)
			var body map[string]string
			suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
			suite.Equal(tt.wantKind, body["kind"])
			if tt.wantKind == "" {
				suite.NotContains(body["error"], "connection reset")
			}
		})
	}
}

func (suite *DocumentHandlerTestSuite) TestGetDocument_NotFound() {
	id := uuid.NewString()
	suite.mockDocumentService.On("GetDocument", mock.Anything, domain.KindVendorBill, id).
		Return(nil, fmt.Errorf("%w: VENDOR_BILL %s", apperrors.ErrNotFound, id)).Once()

	w := suite.do(http.MethodGet, "/api/v1/vendor-bills/"+id, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestListDocuments_PassesQuery() {
	token := "abc"
	projectID := uuid.NewString()
	suite.mockDocumentService.On("ListDocuments",
		mock.Anything,
		domain.KindInvoice,
		mock.MatchedBy(func(p dto.ListDocumentsParams) bool {
			return p.Limit == 5 && p.Status == domain.StatusSent && p.ProjectID == projectID &&
				p.NextToken != nil && *p.NextToken == token
		}),
	).Return(&dto.ListDocumentsResponse{Documents: []dto.DocumentResponse{}}, nil).Once()

	url := fmt.Sprintf("/api/v1/invoices?limit=5&status=SENT&projectID=%s&nextToken=%s", projectID, token)
	w := suite.do(http.MethodGet, url, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestUpdateDocument_Status() {
	id := uuid.NewString()
	suite.mockDocumentService.On("UpdateDocument",
		mock.Anything,
		domain.KindPurchaseOrder,
		id,
		mock.MatchedBy(func(r dto.UpdateDocumentRequest) bool {
			return r.Status != nil && *r.Status == domain.StatusConfirmed
		}),
		suite.userID,
	).Return(&domain.Document{DocumentID: id, Kind: domain.KindPurchaseOrder, Status: domain.StatusConfirmed}, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/purchase-orders/"+id, map[string]any{"status": "CONFIRMED"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DocumentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StatusConfirmed, resp.Status)
}

func (suite *DocumentHandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/sales-orders", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDocumentService.AssertNotCalled(suite.T(), "ListDocuments")
}

// --- Run Test Suite ---
func TestDocumentHandler(t *testing.T) {
	suite.Run(t, new(DocumentHandlerTestSuite))
}
