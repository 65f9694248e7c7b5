package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/roster-api/internal/dto"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/middleware"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/services"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// GetOrganization returns the caller's organization loaded by
// RequireOrganization.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.RespondNotFound(c, "Organization not found")
		return
	}
	apierrors.OK(c, dto.ToOrganizationDTO(*org))
}

// UpdateOrganization applies a partial update. Only admins reach it.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req struct {
		Name    *string         `json:"name"`
		Email   *string         `json:"email"`
		Phone   *string         `json:"phone"`
		Website *string         `json:"website"`
		Address *models.Address `json:"address"`
	}
	if !bindJSON(c, &req) {
		return
	}

	org, err := h.orgService.UpdateOrganization(cl, services.UpdateOrganizationInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Website: req.Website,
		Address: req.Address,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToOrganizationDTO(*org))
}
