package middleware

import (
	"context"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/roster-api/internal/constants"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/services"
)

// Authenticator resolves a presented token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth extracts a token from the Authorization header or the
// session cookie, verifies it and attaches the caller. Every failure is a
// 401 and the handler chain stops.
func RequireAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			apierrors.RespondUnauthorized(c, "", "")
			c.Abort()
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if apiErr, ok := apierrors.As(err); ok && apiErr.Kind == apierrors.KindUnauthorized {
				apierrors.RespondWithError(c, apiErr)
			} else {
				_ = c.Error(err)
				apierrors.RespondUnauthorized(c, "", "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyToken, token)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyCaller, services.Caller{
			UserID:         user.ID,
			OrganizationID: user.OrganizationID,
			Role:           user.Role,
		})
		c.Next()
	}
}

// RequireRole allows only callers holding one of roles. It must run after
// RequireAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			apierrors.RespondUnauthorized(c, "", "")
			c.Abort()
			return
		}
		if _, ok := allowed[caller.Role]; !ok {
			apierrors.RespondForbidden(c, "User role "+string(caller.Role)+" is not authorized to access this route")
			c.Abort()
			return
		}
		c.Next()
	}
}

// TokenFromRequest returns the bearer token, then the token kept in the
// cookie session, then a raw token cookie set by a non-browser client.
func TokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	}

	if _, ok := c.Get(sessions.DefaultKey); ok {
		if token, ok := sessions.Default(c).Get(constants.SessionTokenKey).(string); ok && token != "" {
			return token
		}
	}

	raw, err := c.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(raw)
}

// GetCaller retrieves the authenticated caller from context
func GetCaller(c *gin.Context) (services.Caller, bool) {
	v, exists := c.Get(constants.ContextKeyCaller)
	if !exists {
		return services.Caller{}, false
	}
	caller, ok := v.(services.Caller)
	return caller, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint64)
	return id, ok
}
