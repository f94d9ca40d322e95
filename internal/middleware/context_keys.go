package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for values stored in request contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey    = contextKey("logger")
	principalCtxKey = contextKey("principal")
	requestMetaKey  = contextKey("requestMeta")
)

// RequestMeta describes the caller of the current request; it is copied into audit entries.
type RequestMeta struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// GetLoggerFromCtx retrieves the request-scoped logger from a standard context.
// It returns the default logger if none is found.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetRequestMetaFromCtx returns caller metadata, zero valued outside HTTP requests.
func GetRequestMetaFromCtx(ctx context.Context) RequestMeta {
	if meta, ok := ctx.Value(requestMetaKey).(RequestMeta); ok {
		return meta
	}
	return RequestMeta{}
}

// WithPrincipal returns a copy of ctx carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// GetPrincipalFromCtx retrieves the authenticated principal from a standard context.
func GetPrincipalFromCtx(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(domain.Principal)
	return p, ok
}

// GetPrincipal retrieves the authenticated principal for a gin request.
// It returns the principal and a boolean indicating if it was found.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	return GetPrincipalFromCtx(c.Request.Context())
}

func contextWithMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey, meta)
}
