package repository

import (
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/models"
)

// organizationColumns are the fields an organization update may change.
var organizationColumns = []string{
	"name", "email", "phone", "website",
	"address_street", "address_city", "address_state", "address_zip", "address_country",
	"updated_at",
}

type GormOrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Take(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update writes the contact fields only; id and creation time are never
// touched. Empty strings are written, so a field can be cleared.
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Model(org).Select(organizationColumns).Updates(org).Error
}
