package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/roster-api/internal/constants"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/services"
)

// OrganizationLoader loads the caller's organization.
type OrganizationLoader interface {
	GetOrganization(caller services.Caller) (*models.Organization, error)
}

// RequireOrganization loads the caller's organization into the context.
// It must run after RequireAuth.
func RequireOrganization(loader OrganizationLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			apierrors.RespondUnauthorized(c, "", "")
			c.Abort()
			return
		}

		org, err := loader.GetOrganization(caller)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOrg, org)
		c.Next()
	}
}

// GetOrganization returns the organization set by RequireOrganization
func GetOrganization(c *gin.Context) (*models.Organization, bool) {
	v, exists := c.Get(constants.ContextKeyOrg)
	if !exists {
		return nil, false
	}
	org, ok := v.(*models.Organization)
	return org, ok
}
