package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/repository"
	"github.com/yukikurage/roster-api/internal/utils"
)

// PersonService handles people business logic
type PersonService struct {
	personRepo   repository.PersonRepository
	teamRepo     repository.TeamRepository
	positionRepo repository.PositionRepository
}

// NewPersonService creates a new PersonService
func NewPersonService(
	personRepo repository.PersonRepository,
	teamRepo repository.TeamRepository,
	positionRepo repository.PositionRepository,
) *PersonService {
	return &PersonService{
		personRepo:   personRepo,
		teamRepo:     teamRepo,
		positionRepo: positionRepo,
	}
}

// PersonDetail is a person with its teams and, for detail reads, positions.
type PersonDetail struct {
	Person    models.Person
	Teams     []models.Team
	Positions []models.Position
}

// CreatePersonInput represents input for creating a person
type CreatePersonInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     models.Address
	BirthDate   string
	Notes       string
	Status      models.PersonStatus
	TeamIDs     []uint64
	PositionIDs []uint64
}

// UpdatePersonInput represents a partial update. A nil TeamIDs or
// PositionIDs leaves that set unchanged; an empty one clears it.
type UpdatePersonInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Address     *models.Address
	BirthDate   *string
	Notes       *string
	Status      *models.PersonStatus
	TeamIDs     []uint64
	PositionIDs []uint64
}

// ListPeople returns the caller's people sorted by name, each with its teams.
func (s *PersonService) ListPeople(caller Caller, page *utils.PaginationParams) ([]PersonDetail, int64, error) {
	people, total, err := s.personRepo.List(caller.OrganizationID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list people: %w", err)
	}

	ids := make([]uint64, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	teams, err := s.personRepo.TeamsByPerson(ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load teams: %w", err)
	}

	out := make([]PersonDetail, len(people))
	for i, p := range people {
		out[i] = PersonDetail{Person: p, Teams: teams[p.ID]}
	}
	return out, total, nil
}

// GetPerson returns one of the caller's people with teams and positions.
func (s *PersonService) GetPerson(caller Caller, id uint64) (*PersonDetail, error) {
	person, err := s.loadPerson(caller, id)
	if err != nil {
		return nil, err
	}
	return s.detail(person)
}

// CreatePerson creates a person in the caller's organization. Listed teams
// become memberships with role member.
func (s *PersonService) CreatePerson(caller Caller, input CreatePersonInput) (*PersonDetail, error) {
	birthDate, err := parseOptionalDate("birthDate", input.BirthDate)
	if err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = models.PersonStatusActive
	}

	person := &models.Person{
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Email:          strings.TrimSpace(input.Email),
		Phone:          input.Phone,
		Address:        input.Address,
		BirthDate:      birthDate,
		Notes:          input.Notes,
		Status:         input.Status,
		OrganizationID: caller.OrganizationID,
		CreatedByID:    caller.UserID,
	}
	if err := person.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkLinks(caller, input.TeamIDs, input.PositionIDs); err != nil {
		return nil, err
	}

	links := repository.PersonLinks{
		TeamIDs:      input.TeamIDs,
		PositionIDs:  input.PositionIDs,
		SetTeams:     true,
		SetPositions: true,
	}
	if err := s.personRepo.Create(person, links); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}
	return s.detail(person)
}

// UpdatePerson merges input into the person. Organization and creator are
// never changed.
func (s *PersonService) UpdatePerson(caller Caller, id uint64, input UpdatePersonInput) (*PersonDetail, error) {
	person, err := s.loadPerson(caller, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		person.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		person.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		person.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		person.Phone = *input.Phone
	}
	if input.Address != nil {
		person.Address = *input.Address
	}
	if input.BirthDate != nil {
		birthDate, err := parseOptionalDate("birthDate", *input.BirthDate)
		if err != nil {
			return nil, err
		}
		person.BirthDate = birthDate
	}
	if input.Notes != nil {
		person.Notes = *input.Notes
	}
	if input.Status != nil {
		person.Status = *input.Status
	}
	if err := person.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkLinks(caller, input.TeamIDs, input.PositionIDs); err != nil {
		return nil, err
	}

	links := repository.PersonLinks{
		TeamIDs:      input.TeamIDs,
		PositionIDs:  input.PositionIDs,
		SetTeams:     input.TeamIDs != nil,
		SetPositions: input.PositionIDs != nil,
	}
	if err := s.personRepo.Update(person, links); err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	return s.detail(person)
}

// DeletePerson removes the person, its memberships and its position links.
func (s *PersonService) DeletePerson(caller Caller, id uint64) error {
	if _, err := s.loadPerson(caller, id); err != nil {
		return err
	}
	if err := s.personRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

func (s *PersonService) loadPerson(caller Caller, id uint64) (*models.Person, error) {
	person, err := s.personRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "person")
	}
	if err := ensureSameOrganization(caller, person.OrganizationID, "person"); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *PersonService) detail(person *models.Person) (*PersonDetail, error) {
	ids := []uint64{person.ID}
	teams, err := s.personRepo.TeamsByPerson(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	positions, err := s.personRepo.PositionsByPerson(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	out := &PersonDetail{
		Person:    *person,
		Teams:     teams[person.ID],
		Positions: positions[person.ID],
	}
	if out.Teams == nil {
		out.Teams = []models.Team{}
	}
	if out.Positions == nil {
		out.Positions = []models.Position{}
	}
	return out, nil
}

func (s *PersonService) checkLinks(caller Caller, teamIDs, positionIDs []uint64) error {
	if len(teamIDs) > 0 {
		teams, err := s.teamRepo.FindByIDs(teamIDs)
		if err != nil {
			return fmt.Errorf("failed to load teams: %w", err)
		}
		found := make(map[uint64]uint64, len(teams))
		for _, t := range teams {
			found[t.ID] = t.OrganizationID
		}
		if err := ensureReferences(caller, teamIDs, found, "team"); err != nil {
			return err
		}
	}
	if len(positionIDs) > 0 {
		if err := checkPositions(s.positionRepo, caller, positionIDs); err != nil {
			return err
		}
	}
	return nil
}

func checkPositions(repo repository.PositionRepository, caller Caller, ids []uint64) error {
	positions, err := repo.FindByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}
	found := make(map[uint64]uint64, len(positions))
	for _, p := range positions {
		found[p.ID] = p.OrganizationID
	}
	return ensureReferences(caller, ids, found, "position")
}
