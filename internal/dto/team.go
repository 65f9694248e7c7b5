package dto

import (
	"time"

	"github.com/yukikurage/roster-api/internal/models"
)

// TeamMemberDTO represents one membership of a team
type TeamMemberDTO struct {
	ID       uint64              `json:"id"`
	Person   PersonSummaryDTO    `json:"person"`
	Role     models.MemberRole   `json:"role"`
	Status   models.MemberStatus `json:"status"`
	JoinedAt time.Time           `json:"joinedAt"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Members      []TeamMemberDTO `json:"members"`
	Positions    []RefDTO        `json:"positions"`
	Organization uint64          `json:"organization"`
	CreatedBy    uint64          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func ToTeamMemberDTO(m models.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		ID:       m.ID,
		Person:   ToPersonSummaryDTO(m.Person),
		Role:     m.Role,
		Status:   m.Status,
		JoinedAt: m.CreatedAt,
	}
}

// ToTeamDTO expects Members (with Person) and Positions to be loaded.
func ToTeamDTO(team models.Team) TeamDTO {
	members := make([]TeamMemberDTO, len(team.Members))
	for i, m := range team.Members {
		members[i] = ToTeamMemberDTO(m)
	}

	return TeamDTO{
		ID:           team.ID,
		Name:         team.Name,
		Description:  team.Description,
		Members:      members,
		Positions:    ToPositionRefs(team.Positions),
		Organization: team.OrganizationID,
		CreatedBy:    team.CreatedByID,
		CreatedAt:    team.CreatedAt,
		UpdatedAt:    team.UpdatedAt,
	}
}

// PositionDTO represents a standalone position
type PositionDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Team         *uint64   `json:"team"`
	Organization uint64    `json:"organization"`
	CreatedBy    uint64    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ToPositionDTO(p models.Position) PositionDTO {
	return PositionDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Team:         p.TeamID,
		Organization: p.OrganizationID,
		CreatedBy:    p.CreatedByID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
