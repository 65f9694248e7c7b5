package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/roster-api/internal/dto"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/services"
	"github.com/yukikurage/roster-api/internal/utils"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

func (h *TeamHandler) ListTeams(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	teams, total, err := h.teamService.ListTeams(cl, utils.GetPaginationParams(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	out := make([]dto.TeamDTO, len(teams))
	for i, t := range teams {
		out[i] = dto.ToTeamDTO(t)
	}
	apierrors.List(c, out, total)
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(cl, id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToTeamDTO(*team))
}

// CreateTeam creates a team. Positions listed by name are created with it.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Positions   []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"positions"`
	}
	if !bindJSON(c, &req) {
		return
	}

	positions := make([]services.NewPositionInput, len(req.Positions))
	for i, p := range req.Positions {
		positions[i] = services.NewPositionInput{Name: p.Name, Description: p.Description}
	}

	team, err := h.teamService.CreateTeam(cl, services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		Positions:   positions,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.Created(c, dto.ToTeamDTO(*team))
}

// UpdateTeam applies a partial update. A positions array replaces the set
// of positions attached to the team.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Positions   []uint64 `json:"positions"`
	}
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.UpdateTeam(cl, id, services.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		PositionIDs: req.Positions,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(cl, id); err != nil {
		apierrors.Respond(c, err)
		return
	}
	deleted(c)
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	teamID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PersonID uint64            `json:"personId" binding:"required"`
		Role     models.MemberRole `json:"role" binding:"omitempty,oneof=leader member"`
	}
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.AddMember(cl, services.AddMemberInput{
		TeamID:   teamID,
		PersonID: req.PersonID,
		Role:     req.Role,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) UpdateMember(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	teamID, ok := parseID(c, "id")
	if !ok {
		return
	}
	personID, ok := parseID(c, "personId")
	if !ok {
		return
	}
	var req struct {
		Role   *models.MemberRole   `json:"role"`
		Status *models.MemberStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.UpdateMember(cl, teamID, personID, services.UpdateMemberInput{
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	teamID, ok := parseID(c, "id")
	if !ok {
		return
	}
	personID, ok := parseID(c, "personId")
	if !ok {
		return
	}

	team, err := h.teamService.RemoveMember(cl, teamID, personID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToTeamDTO(*team))
}
