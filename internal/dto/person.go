package dto

import (
	"time"

	"github.com/yukikurage/roster-api/internal/models"
)

// RefDTO is an {id, name} reference to a team or position.
type RefDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// PersonSummaryDTO is the short person shape embedded in team members and
// item assignments.
type PersonSummaryDTO struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// PersonDTO represents a person in API responses
type PersonDTO struct {
	ID           uint64              `json:"id"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Address      models.Address      `json:"address"`
	BirthDate    *time.Time          `json:"birthDate"`
	Notes        string              `json:"notes"`
	Status       models.PersonStatus `json:"status"`
	Teams        []RefDTO            `json:"teams"`
	Positions    []RefDTO            `json:"positions,omitempty"`
	Organization uint64              `json:"organization"`
	CreatedBy    uint64              `json:"createdBy"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func ToTeamRefs(teams []models.Team) []RefDTO {
	refs := make([]RefDTO, len(teams))
	for i, t := range teams {
		refs[i] = RefDTO{ID: t.ID, Name: t.Name}
	}
	return refs
}

func ToPositionRefs(positions []models.Position) []RefDTO {
	refs := make([]RefDTO, len(positions))
	for i, p := range positions {
		refs[i] = RefDTO{ID: p.ID, Name: p.Name}
	}
	return refs
}

func ToPersonSummaryDTO(p models.Person) PersonSummaryDTO {
	return PersonSummaryDTO{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}

// ToPersonDTO converts a person and its relations. A nil positions slice
// omits the field, which is how list views are rendered.
func ToPersonDTO(p models.Person, teams []models.Team, positions []models.Position) PersonDTO {
	out := PersonDTO{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		Phone:        p.Phone,
		Address:      p.Address,
		BirthDate:    p.BirthDate,
		Notes:        p.Notes,
		Status:       p.Status,
		Teams:        ToTeamRefs(teams),
		Organization: p.OrganizationID,
		CreatedBy:    p.CreatedByID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if positions != nil {
		out.Positions = ToPositionRefs(positions)
	}
	return out
}
