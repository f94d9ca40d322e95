package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/SscSPs/branch_finance_admin/internal/middleware"
	"github.com/gin-gonic/gin"
)

// baseHandler carries what every handler needs to answer errors consistently.
type baseHandler struct {
	// production hides the underlying cause of unexpected failures.
	production bool
}

// respondError writes err as an ErrorResponse. Unclassified errors are logged with full context
// and, in production, answered with a generic message only.
func (h baseHandler) respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusFor(err)
	kind := apperrors.KindOf(err)

	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		resp := dto.ErrorResponse{Error: "Failed to " + action, Code: string(kind)}
		if !h.production {
			resp.Detail = err.Error()
		}
		c.JSON(status, resp)
		return
	}

	logger.Warn("Request rejected", slog.String("action", action), slog.String("code", string(kind)), slog.String("error", err.Error()))
	c.JSON(status, dto.ErrorResponse{Error: apperrors.MessageOf(err), Code: string(kind)})
}

// badRequest answers a request that could not be bound.
func (h baseHandler) badRequest(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request format: " + err.Error(),
		Code:  string(apperrors.KindValidation),
	})
}

// principal returns the authenticated caller, answering 401 when the auth middleware did not run.
func (h baseHandler) principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Principal not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Code: string(apperrors.KindAuth)})
		return domain.Principal{}, false
	}
	return p, true
}

func clientMeta(c *gin.Context) domain.ClientMeta {
	return domain.ClientMeta{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
