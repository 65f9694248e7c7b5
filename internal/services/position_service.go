package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/repository"
	"github.com/yukikurage/roster-api/internal/utils"
)

// PositionService handles standalone position operations
type PositionService struct {
	positionRepo repository.PositionRepository
	teamRepo     repository.TeamRepository
}

// NewPositionService creates a new PositionService
func NewPositionService(positionRepo repository.PositionRepository, teamRepo repository.TeamRepository) *PositionService {
	return &PositionService{
		positionRepo: positionRepo,
		teamRepo:     teamRepo,
	}
}

type CreatePositionInput struct {
	Name        string
	Description string
	TeamID      *uint64
}

// UpdatePositionInput is a partial update. ClearTeam detaches the position
// from its team and takes precedence over TeamID.
type UpdatePositionInput struct {
	Name        *string
	Description *string
	TeamID      *uint64
	ClearTeam   bool
}

func (s *PositionService) ListPositions(caller Caller, teamID *uint64, page *utils.PaginationParams) ([]models.Position, int64, error) {
	positions, total, err := s.positionRepo.List(repository.PositionFilter{
		OrganizationID: caller.OrganizationID,
		TeamID:         teamID,
		Page:           page,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, total, nil
}

func (s *PositionService) GetPosition(caller Caller, id uint64) (*models.Position, error) {
	return s.loadPosition(caller, id)
}

func (s *PositionService) CreatePosition(caller Caller, input CreatePositionInput) (*models.Position, error) {
	position := &models.Position{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		OrganizationID: caller.OrganizationID,
		CreatedByID:    caller.UserID,
	}
	if err := position.Validate(); err != nil {
		return nil, err
	}
	if input.TeamID != nil {
		if err := s.checkTeam(caller, *input.TeamID); err != nil {
			return nil, err
		}
		position.TeamID = input.TeamID
	}

	if err := s.positionRepo.Create(position); err != nil {
		return nil, fmt.Errorf("failed to create position: %w", err)
	}
	return position, nil
}

func (s *PositionService) UpdatePosition(caller Caller, id uint64, input UpdatePositionInput) (*models.Position, error) {
	position, err := s.loadPosition(caller, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		position.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		position.Description = *input.Description
	}
	switch {
	case input.ClearTeam:
		position.TeamID = nil
	case input.TeamID != nil:
		if err := s.checkTeam(caller, *input.TeamID); err != nil {
			return nil, err
		}
		position.TeamID = input.TeamID
	}
	if err := position.Validate(); err != nil {
		return nil, err
	}

	if err := s.positionRepo.Update(position); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	return position, nil
}

// DeletePosition removes the position, unlinking it from people and items.
func (s *PositionService) DeletePosition(caller Caller, id uint64) error {
	if _, err := s.loadPosition(caller, id); err != nil {
		return err
	}
	if err := s.positionRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}

func (s *PositionService) loadPosition(caller Caller, id uint64) (*models.Position, error) {
	position, err := s.positionRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "position")
	}
	if err := ensureSameOrganization(caller, position.OrganizationID, "position"); err != nil {
		return nil, err
	}
	return position, nil
}

func (s *PositionService) checkTeam(caller Caller, teamID uint64) error {
	teams, err := s.teamRepo.FindByIDs([]uint64{teamID})
	if err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}
	found := make(map[uint64]uint64, len(teams))
	for _, t := range teams {
		found[t.ID] = t.OrganizationID
	}
	return ensureReferences(caller, []uint64{teamID}, found, "team")
}
