package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/esteticaio/api/auth"
	"github.com/esteticaio/api/auth/authctx"
	"github.com/esteticaio/api/authz"
	"github.com/esteticaio/api/logger"
	"github.com/esteticaio/api/observability"
)

// Resolver turns a bearer token into an identity. *auth.Authenticator implements it.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate resolves the request's bearer token and stores the identity
// in the request context. Requests without a usable token, or whose token
// does not resolve, are rejected with 401.
func Authenticate(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.Request)
		if !ok {
			WriteError(c, auth.ErrUnauthenticated)
			return
		}

		id, err := resolver.Resolve(c.Request.Context(), token)
		if err == nil && id == nil {
			err = auth.ErrUnauthenticated
		}
		if err != nil {
			WriteError(c, err)
			return
		}

		ctx := authctx.Set(c.Request.Context(), id)
		ctx = logger.ContextWithUserID(ctx, strconv.FormatInt(id.ID, 10))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole rejects requests whose identity does not hold exactly role.
// It must run after Authenticate.
func RequireRole(role string) gin.HandlerFunc {
	policy := authz.Role(role)
	return func(c *gin.Context) {
		id, _ := authctx.Get(c.Request.Context())
		if err := policy.Check(id); err != nil {
			WriteError(c, err)
			return
		}
		c.Next()
	}
}

// WriteError aborts the chain with err rendered as a JSON AppError,
// including any headers the error carries.
func WriteError(c *gin.Context, err error) {
	appErr := auth.ToAppError(err)
	if auth.IsAuthError(err) {
		logger.WithContext(c.Request.Context()).Debug("request rejected", logger.Fields(
			"path", c.Request.URL.Path, "status", appErr.HTTPStatus))
	} else if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).WithError(err).Error("request failed", logger.Fields(
			"method", c.Request.Method, "path", c.Request.URL.Path))
		observability.DefaultMetrics().RecordError(c.Request.Context(), string(appErr.Code), "http")
	}
	for k, v := range appErr.Headers {
		c.Header(k, v)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
