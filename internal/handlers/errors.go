package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/middleware"
)

var kindStatus = map[string]int{
	apperrors.KindValidation:        http.StatusBadRequest,
	apperrors.KindNotFound:          http.StatusNotFound,
	apperrors.KindDuplicate:         http.StatusConflict,
	apperrors.KindDuplicateNumber:   http.StatusConflict,
	apperrors.KindAggregateConflict: http.StatusConflict,
}

// respondError writes err as a JSON error. Internal failures are logged and
// their details withheld from the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, failureMsg string) {
	kind := apperrors.Kind(err)
	status, ok := kindStatus[kind]
	if !ok {
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failureMsg})
		return
	}
	logger.Warn(failureMsg, slog.String("error", err.Error()), slog.String("kind", kind))
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// actorID returns the authenticated user id or aborts with 401.
func actorID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
