package repository

import (
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/database"
	"github.com/yukikurage/roster-api/internal/models"
)

// GormPositionRepository is a GORM implementation of PositionRepository
type GormPositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new PositionRepository
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &GormPositionRepository{db: db}
}

func (r *GormPositionRepository) List(filter PositionFilter) ([]models.Position, int64, error) {
	query := r.db.Model(&models.Position{}).Where("organization_id = ?", filter.OrganizationID)
	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var positions []models.Position
	if err := query.
		Order("name ASC, id ASC").
		Scopes(database.Paginate(filter.Page)).
		Find(&positions).Error; err != nil {
		return nil, 0, err
	}
	return positions, total, nil
}

func (r *GormPositionRepository) FindByID(id uint64) (*models.Position, error) {
	var position models.Position
	if err := r.db.First(&position, id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *GormPositionRepository) FindByIDs(ids []uint64) ([]models.Position, error) {
	var positions []models.Position
	if len(ids) == 0 {
		return positions, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *GormPositionRepository) Create(position *models.Position) error {
	return r.db.Create(position).Error
}

func (r *GormPositionRepository) Update(position *models.Position) error {
	return r.db.Save(position).Error
}

func (r *GormPositionRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deletePositionsTx(tx, []uint64{id})
	})
}
