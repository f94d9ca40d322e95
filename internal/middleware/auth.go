package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a Gin middleware handler that verifies the bearer access token and
// stores the resulting principal in the request context.
func AuthMiddleware(tokens portssvc.TokenSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			abortAuth(c, apperrors.KindAuth, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			abortAuth(c, apperrors.KindAuth, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			if errors.Is(err, apperrors.ErrTokenExpired) {
				abortAuth(c, apperrors.KindTokenExpired, "Token has expired")
			} else {
				abortAuth(c, apperrors.KindTokenInvalid, "Invalid token")
			}
			return
		}

		principal := claims.Principal
		enrichedLogger := logger.With(
			slog.String("actor_id", principal.ActorID),
			slog.String("branch_code", principal.BranchCode),
		)
		ctx := WithPrincipal(c.Request.Context(), principal)
		ctx = WithLogger(ctx, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortAuth(c *gin.Context, kind apperrors.Kind, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": kind})
}
