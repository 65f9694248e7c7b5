package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/roster-api/internal/database"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/utils"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

func withTeamRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("team_members.id ASC")
		}).
		Preload("Members.Person").
		Preload("Positions", func(db *gorm.DB) *gorm.DB {
			return db.Order("positions.name ASC, positions.id ASC")
		})
}

func (r *GormTeamRepository) List(organizationID uint64, page *utils.PaginationParams) ([]models.Team, int64, error) {
	query := r.db.Model(&models.Team{}).Where("organization_id = ?", organizationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teams []models.Team
	if err := query.
		Scopes(withTeamRelations, database.Paginate(page)).
		Order("name ASC, id ASC").
		Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.Scopes(withTeamRelations).First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *GormTeamRepository) FindByIDs(ids []uint64) ([]models.Team, error) {
	var teams []models.Team
	if len(ids) == 0 {
		return teams, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// CreateWithPositions creates positions first, then the team, then
// back-fills each position's team reference.
func (r *GormTeamRepository) CreateWithPositions(team *models.Team, positions []models.Position) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(positions) > 0 {
			if err := tx.Create(&positions).Error; err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return err
		}

		if len(positions) == 0 {
			return nil
		}
		ids := make([]uint64, len(positions))
		for i := range positions {
			ids[i] = positions[i].ID
			positions[i].TeamID = &team.ID
		}
		if err := tx.Model(&models.Position{}).
			Where("id IN ?", ids).
			Update("team_id", team.ID).Error; err != nil {
			return err
		}
		team.Positions = positions
		return nil
	})
}

// Update saves the team. With setPositions the team's position set becomes
// exactly positionIDs: positions leaving the set are detached, not deleted.
func (r *GormTeamRepository) Update(team *models.Team, positionIDs []uint64, setPositions bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(team).Error; err != nil {
			return err
		}
		if !setPositions {
			return nil
		}

		detach := tx.Model(&models.Position{}).Where("team_id = ?", team.ID)
		if len(positionIDs) > 0 {
			detach = detach.Where("id NOT IN ?", positionIDs)
		}
		if err := detach.Update("team_id", nil).Error; err != nil {
			return err
		}
		if len(positionIDs) == 0 {
			return nil
		}
		return tx.Model(&models.Position{}).
			Where("id IN ?", positionIDs).
			Update("team_id", team.ID).Error
	})
}

// Delete removes the team's positions (with their own dependents), its
// memberships, and the team.
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		positionIDs, err := pluckIDs(tx, &models.Position{}, "team_id", id)
		if err != nil {
			return err
		}
		if err := deletePositionsTx(tx, positionIDs); err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, id).Error
	})
}

// AddMember relies on the unique (team_id, person_id) index so the
// existence check and the insert are a single statement.
func (r *GormTeamRepository) AddMember(member *models.TeamMember) (bool, error) {
	result := r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormTeamRepository) FindMember(teamID, personID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Preload("Person").
		Where("team_id = ? AND person_id = ?", teamID, personID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *GormTeamRepository) UpdateMember(member *models.TeamMember) error {
	return r.db.Model(&models.TeamMember{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"role":   member.Role,
			"status": member.Status,
		}).Error
}

// RemoveMember is a no-op when the pair is absent
func (r *GormTeamRepository) RemoveMember(teamID, personID uint64) error {
	return r.db.Where("team_id = ? AND person_id = ?", teamID, personID).
		Delete(&models.TeamMember{}).Error
}
