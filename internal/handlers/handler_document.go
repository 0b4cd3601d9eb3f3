package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/oneflow/internal/core/domain"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/SscSPs/oneflow/internal/dto"
	"github.com/SscSPs/oneflow/internal/middleware"
)

// documentRoutes maps URL segments to the document kind they serve.
var documentRoutes = map[string]domain.DocumentKind{
	"sales-orders":    domain.KindSalesOrder,
	"purchase-orders": domain.KindPurchaseOrder,
	"invoices":        domain.KindInvoice,
	"vendor-bills":    domain.KindVendorBill,
}

// documentHandler handles HTTP requests for commercial documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{documentService: ds}
}

// registerDocumentRoutes registers one route group per document kind.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	for segment, kind := range documentRoutes {
		docs := rg.Group("/" + segment)
		{
			docs.POST("", h.createDocument(kind))
			docs.GET("", h.listDocuments(kind))
			docs.GET("/:documentID", h.getDocument(kind))
			docs.PATCH("/:documentID", h.updateDocument(kind))
		}
	}
}

// createDocument godoc
// @Summary Create a commercial document
// @Description Creates a sales order, purchase order, invoice or vendor bill. Totals are derived from the line items and, when a project is set, added to its revenue or cost in the same transaction.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project or source document not found"
// @Failure 409 {object} map[string]string "Number collision or concurrent project update"
// @Failure 500 {object} map[string]string "Failed to create document"
// @Security BearerAuth
// @Router /sales-orders [post]
// @Router /purchase-orders [post]
// @Router /invoices [post]
// @Router /vendor-bills [post]
func (h *documentHandler) createDocument(kind domain.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("kind", string(kind)))
		var req dto.CreateDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for CreateDocument", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
		userID, ok := actorID(c, logger)
		if !ok {
			return
		}

		doc, err := h.documentService.CreateDocument(c.Request.Context(), kind, req, userID)
		if err != nil {
			respondError(c, logger, err, "Failed to create document")
			return
		}
		c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
	}
}

// getDocument godoc
// @Summary Get a document by ID
// @Description Retrieves a single document of the kind named by the path
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve document"
// @Security BearerAuth
// @Router /sales-orders/{documentID} [get]
// @Router /purchase-orders/{documentID} [get]
// @Router /invoices/{documentID} [get]
// @Router /vendor-bills/{documentID} [get]
func (h *documentHandler) getDocument(kind domain.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("kind", string(kind)))
		documentID := c.Param("documentID")

		doc, err := h.documentService.GetDocument(c.Request.Context(), kind, documentID)
		if err != nil {
			respondError(c, logger, err, "Failed to retrieve document")
			return
		}
		c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
	}
}

// listDocuments godoc
// @Summary List documents
// @Description Lists documents newest first using token pagination
// @Tags documents
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   projectID query string false "Filter by project"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list documents"
// @Security BearerAuth
// @Router /sales-orders [get]
// @Router /purchase-orders [get]
// @Router /invoices [get]
// @Router /vendor-bills [get]
func (h *documentHandler) listDocuments(kind domain.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("kind", string(kind)))
		var params dto.ListDocumentsParams
		if err := c.ShouldBindQuery(&params); err != nil {
			logger.Warn("Failed to bind query for ListDocuments", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
			return
		}

		resp, err := h.documentService.ListDocuments(c.Request.Context(), kind, params)
		if err != nil {
			respondError(c, logger, err, "Failed to list documents")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// updateDocument godoc
// @Summary Update a document
// @Description Changes fields, line items or status. Item edits on an attached document adjust the project total by the difference.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   document body dto.UpdateDocumentRequest true "Fields to change"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input or illegal status transition"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Concurrent project update"
// @Failure 500 {object} map[string]string "Failed to update document"
// @Security BearerAuth
// @Router /sales-orders/{documentID} [patch]
// @Router /purchase-orders/{documentID} [patch]
// @Router /invoices/{documentID} [patch]
// @Router /vendor-bills/{documentID} [patch]
func (h *documentHandler) updateDocument(kind domain.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("kind", string(kind)))
		documentID := c.Param("documentID")
		var req dto.UpdateDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for UpdateDocument", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
		userID, ok := actorID(c, logger)
		if !ok {
			return
		}

		doc, err := h.documentService.UpdateDocument(c.Request.Context(), kind, documentID, req, userID)
		if err != nil {
			respondError(c, logger, err, "Failed to update document")
			return
		}
		c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
	}
}
