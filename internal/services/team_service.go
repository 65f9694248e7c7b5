package services

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/repository"
	"github.com/yukikurage/roster-api/internal/utils"
)

var (
	ErrAlreadyMember = apierrors.Conflict("Person is already a member of this team")
	ErrNotMember     = apierrors.NotFound("Person is not a member of this team")
)

// TeamService handles teams and their memberships
type TeamService struct {
	teamRepo     repository.TeamRepository
	personRepo   repository.PersonRepository
	positionRepo repository.PositionRepository
	logger       *zap.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(
	teamRepo repository.TeamRepository,
	personRepo repository.PersonRepository,
	positionRepo repository.PositionRepository,
	logger *zap.Logger,
) *TeamService {
	return &TeamService{
		teamRepo:     teamRepo,
		personRepo:   personRepo,
		positionRepo: positionRepo,
		logger:       logger,
	}
}

// NewPositionInput names a position created together with its team
type NewPositionInput struct {
	Name        string
	Description string
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	Name        string
	Description string
	Positions   []NewPositionInput
}

// UpdateTeamInput represents a partial team update. A nil PositionIDs
// leaves the position set unchanged.
type UpdateTeamInput struct {
	Name        *string
	Description *string
	PositionIDs []uint64
}

// AddMemberInput represents input for adding a person to a team
type AddMemberInput struct {
	TeamID   uint64
	PersonID uint64
	Role     models.MemberRole
}

// UpdateMemberInput changes a membership's role or status
type UpdateMemberInput struct {
	Role   *models.MemberRole
	Status *models.MemberStatus
}

func (s *TeamService) ListTeams(caller Caller, page *utils.PaginationParams) ([]models.Team, int64, error) {
	teams, total, err := s.teamRepo.List(caller.OrganizationID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, total, nil
}

func (s *TeamService) GetTeam(caller Caller, id uint64) (*models.Team, error) {
	return s.loadTeam(caller, id)
}

// CreateTeam creates the named positions and the team atomically; every
// new position ends up referencing the team.
func (s *TeamService) CreateTeam(caller Caller, input CreateTeamInput) (*models.Team, error) {
	team := &models.Team{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		OrganizationID: caller.OrganizationID,
		CreatedByID:    caller.UserID,
	}
	if err := team.Validate(); err != nil {
		return nil, err
	}

	positions := make([]models.Position, len(input.Positions))
	for i, p := range input.Positions {
		positions[i] = models.Position{
			Name:           strings.TrimSpace(p.Name),
			Description:    p.Description,
			OrganizationID: caller.OrganizationID,
			CreatedByID:    caller.UserID,
		}
		if err := positions[i].Validate(); err != nil {
			return nil, apierrors.Validation(apierrors.FieldError{
				Field:   fmt.Sprintf("positions[%d].name", i),
				Message: "is required",
			})
		}
	}

	if err := s.teamRepo.CreateWithPositions(team, positions); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	s.logger.Debug("team created",
		zap.Uint64("team_id", team.ID),
		zap.Int("positions", len(positions)),
	)
	return s.reload(team.ID)
}

func (s *TeamService) UpdateTeam(caller Caller, id uint64, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.loadTeam(caller, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		team.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		team.Description = *input.Description
	}
	if err := team.Validate(); err != nil {
		return nil, err
	}
	if len(input.PositionIDs) > 0 {
		if err := checkPositions(s.positionRepo, caller, input.PositionIDs); err != nil {
			return nil, err
		}
	}

	if err := s.teamRepo.Update(team, input.PositionIDs, input.PositionIDs != nil); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return s.reload(team.ID)
}

// DeleteTeam removes the team together with its positions and memberships.
func (s *TeamService) DeleteTeam(caller Caller, id uint64) error {
	if _, err := s.loadTeam(caller, id); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// AddMember adds a person to a team. Both must belong to the caller's
// organization; a second add of the same pair fails with ErrAlreadyMember.
func (s *TeamService) AddMember(caller Caller, input AddMemberInput) (*models.Team, error) {
	if _, err := s.loadTeam(caller, input.TeamID); err != nil {
		return nil, err
	}
	if _, err := s.loadPerson(caller, input.PersonID); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.MemberRoleMember
	}
	if err := models.ValidateMember(role, models.MemberStatusActive); err != nil {
		return nil, err
	}

	inserted, err := s.teamRepo.AddMember(&models.TeamMember{
		TeamID:   input.TeamID,
		PersonID: input.PersonID,
		Role:     role,
		Status:   models.MemberStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	if !inserted {
		return nil, ErrAlreadyMember
	}
	return s.reload(input.TeamID)
}

// RemoveMember removes a person from a team. Removing a person who is not
// a member, or who no longer exists, succeeds.
func (s *TeamService) RemoveMember(caller Caller, teamID, personID uint64) (*models.Team, error) {
	if _, err := s.loadTeam(caller, teamID); err != nil {
		return nil, err
	}
	if _, err := s.loadPerson(caller, personID); err != nil && !apierrors.IsKind(err, apierrors.KindNotFound) {
		return nil, err
	}
	if err := s.teamRepo.RemoveMember(teamID, personID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}
	return s.reload(teamID)
}

func (s *TeamService) UpdateMember(caller Caller, teamID, personID uint64, input UpdateMemberInput) (*models.Team, error) {
	if _, err := s.loadTeam(caller, teamID); err != nil {
		return nil, err
	}

	member, err := s.teamRepo.FindMember(teamID, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if input.Role != nil {
		member.Role = *input.Role
	}
	if input.Status != nil {
		member.Status = *input.Status
	}
	if err := models.ValidateMember(member.Role, member.Status); err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return s.reload(teamID)
}

func (s *TeamService) loadTeam(caller Caller, id uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "team")
	}
	if err := ensureSameOrganization(caller, team.OrganizationID, "team"); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) loadPerson(caller Caller, id uint64) (*models.Person, error) {
	person, err := s.personRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "person")
	}
	if err := ensureSameOrganization(caller, person.OrganizationID, "person"); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *TeamService) reload(id uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload team: %w", err)
	}
	return team, nil
}
