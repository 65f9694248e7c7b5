package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/roster-api/internal/dto"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/services"
	"github.com/yukikurage/roster-api/internal/utils"
)

type PositionHandler struct {
	positionService *services.PositionService
}

func NewPositionHandler(positionService *services.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// ListPositions returns the caller's positions, optionally filtered by
// ?team=<id>.
func (h *PositionHandler) ListPositions(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var teamID *uint64
	if raw := c.Query("team"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.RespondBadRequest(c, "Invalid team")
			return
		}
		teamID = &id
	}

	positions, total, err := h.positionService.ListPositions(cl, teamID, utils.GetPaginationParams(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	out := make([]dto.PositionDTO, len(positions))
	for i, p := range positions {
		out[i] = dto.ToPositionDTO(p)
	}
	apierrors.List(c, out, total)
}

func (h *PositionHandler) GetPosition(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	position, err := h.positionService.GetPosition(cl, id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToPositionDTO(*position))
}

func (h *PositionHandler) CreatePosition(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Team        *uint64 `json:"team"`
	}
	if !bindJSON(c, &req) {
		return
	}

	position, err := h.positionService.CreatePosition(cl, services.CreatePositionInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.Team,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.Created(c, dto.ToPositionDTO(*position))
}

// UpdatePosition applies a partial update. "team": null detaches the
// position from its team; an absent team leaves it unchanged.
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name        *string         `json:"name"`
		Description *string         `json:"description"`
		Team        json.RawMessage `json:"team"`
	}
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdatePositionInput{
		Name:        req.Name,
		Description: req.Description,
	}
	switch {
	case len(req.Team) == 0:
	case string(req.Team) == "null":
		input.ClearTeam = true
	default:
		var teamID uint64
		if err := json.Unmarshal(req.Team, &teamID); err != nil {
			apierrors.RespondWithError(c, apierrors.Validation(apierrors.FieldError{
				Field:   "team",
				Message: "must be a team id or null",
			}))
			return
		}
		input.TeamID = &teamID
	}

	position, err := h.positionService.UpdatePosition(cl, id, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToPositionDTO(*position))
}

func (h *PositionHandler) DeletePosition(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.positionService.DeletePosition(cl, id); err != nil {
		apierrors.Respond(c, err)
		return
	}
	deleted(c)
}
