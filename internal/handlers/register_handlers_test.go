package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/oneflow/internal/adapters/database/memory"
	"github.com/SscSPs/oneflow/internal/core/services"
	"github.com/SscSPs/oneflow/internal/handlers"
	"github.com/SscSPs/oneflow/internal/platform/config"
)

// RoutesTestSuite drives the fully registered router against the in-memory store.
type RoutesTestSuite struct {
	suite.Suite
	cfg    *config.Config
	router *gin.Engine
	userID string
}

func (suite *RoutesTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		JWTSecret:       testJWTSecret,
		JWTIssuer:       testIssuer,
		NumberingNodeID: 1,
	}
	suite.userID = uuid.NewString()
	suite.router = suite.newRouter(suite.cfg)
}

func (suite *RoutesTestSuite) newRouter(cfg *config.Config) *gin.Engine {
	container, err := services.NewServiceContainer(cfg, memory.NewStore().Repositories())
	suite.Require().NoError(err)
	r := gin.New()
	handlers.RegisterRoutes(r, cfg, container, nil)
	return r
}

func (suite *RoutesTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
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

func (suite *RoutesTestSuite) TestMalformedPathIDs_NotFound() {
	cases := []struct {
		method string
		url    string
		body   any
	}{
		{http.MethodGet, "/api/v1/projects/not-a-uuid", nil},
		{http.MethodGet, "/api/v1/projects/42/ledger", nil},
		{http.MethodPost, "/api/v1/projects/42/reconcile", nil},
		{http.MethodPost, "/api/v1/projects/42/attachments", map[string]any{"kind": "INVOICE", "documentID": uuid.NewString(), "amount": "10"}},
		{http.MethodGet, "/api/v1/invoices/42", nil},
		{http.MethodPatch, "/api/v1/sales-orders/42", map[string]any{"notes": "x"}},
		{http.MethodGet, "/api/v1/tasks/42", nil},
		{http.MethodPost, "/api/v1/tasks/42/hours", map[string]any{"hours": "1"}},
		{http.MethodGet, "/api/v1/expenses/42", nil},
	}
	for _, tc := range cases {
		w := suite.do(tc.method, tc.url, tc.body)
		suite.Equal(http.StatusNotFound, w.Code, "%s %s: %s", tc.method, tc.url, w.Body.String())
	}
}

func (suite *RoutesTestSuite) TestMalformedFilterIDs_BadRequest() {
	for _, url := range []string{
		"/api/v1/tasks?projectID=abc",
		"/api/v1/timesheets?taskID=abc",
		"/api/v1/expenses?projectID=abc",
		"/api/v1/invoices?projectID=abc",
	} {
		w := suite.do(http.MethodGet, url, nil)
		suite.Equal(http.StatusBadRequest, w.Code, "%s: %s", url, w.Body.String())
	}
}

func (suite *RoutesTestSuite) TestSwaggerDocServed() {
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var doc map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	suite.Equal("/api/v1", doc["basePath"])
	paths, ok := doc["paths"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(paths, "/invoices/{documentID}")
	suite.Contains(paths, "/projects/{projectID}/attachments")
	suite.Contains(paths, "/timesheets")
}

func (suite *RoutesTestSuite) TestSwaggerHiddenInProduction() {
	cfg := *suite.cfg
	cfg.IsProduction = true
	router := suite.newRouter(&cfg)

	req, _ := http.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}
