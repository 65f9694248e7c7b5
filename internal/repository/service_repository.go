package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/roster-api/internal/database"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/utils"
)

// GormServiceRepository is a GORM implementation of ServiceRepository
type GormServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new ServiceRepository
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &GormServiceRepository{db: db}
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("service_items.sequence ASC, service_items.id ASC")
}

func (r *GormServiceRepository) List(organizationID uint64, page *utils.PaginationParams) ([]models.Service, int64, error) {
	query := r.db.Model(&models.Service{}).Where("organization_id = ?", organizationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var services []models.Service
	if err := query.
		Preload("CreatedBy").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return orderItems(db.Select("id", "service_id", "sequence"))
		}).
		Order("date DESC, id DESC").
		Scopes(database.Paginate(page)).
		Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func (r *GormServiceRepository) FindByID(id uint64) (*models.Service, error) {
	var service models.Service
	if err := r.db.
		Preload("CreatedBy").
		Preload("Items", orderItems).
		Preload("Items.Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_attachments.id ASC")
		}).
		Preload("Items.Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_assignments.id ASC")
		}).
		Preload("Items.Assignments.Position").
		Preload("Items.Assignments.Person").
		First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *GormServiceRepository) Create(service *models.Service) error {
	return r.db.Omit(clause.Associations).Create(service).Error
}

func (r *GormServiceRepository) Update(service *models.Service) error {
	return r.db.Omit(clause.Associations).Save(service).Error
}

// Delete removes every item of the service with the service itself
func (r *GormServiceRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		itemIDs, err := pluckIDs(tx, &models.ServiceItem{}, "service_id", id)
		if err != nil {
			return err
		}
		if err := deleteItemsTx(tx, itemIDs); err != nil {
			return err
		}
		return tx.Delete(&models.Service{}, id).Error
	})
}

// AddItem places the item after the current last item of its service.
func (r *GormServiceRepository) AddItem(item *models.ServiceItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&models.ServiceItem{}).
			Select("COALESCE(MAX(sequence) + 1, 0)").
			Where("service_id = ?", item.ServiceID).
			Scan(&next).Error; err != nil {
			return err
		}
		item.Sequence = next

		return tx.Create(item).Error
	})
}

func (r *GormServiceRepository) FindItem(serviceID, itemID uint64) (*models.ServiceItem, error) {
	var item models.ServiceItem
	if err := r.db.
		Preload("Attachments").
		Preload("Assignments").
		Preload("Assignments.Position").
		Preload("Assignments.Person").
		Where("service_id = ?", serviceID).
		First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem saves the item's own columns and rewrites the flagged child lists.
func (r *GormServiceRepository) UpdateItem(item *models.ServiceItem, replaceAttachments, replaceAssignments bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
			return err
		}

		if replaceAttachments {
			if err := tx.Where("service_item_id = ?", item.ID).Delete(&models.ItemAttachment{}).Error; err != nil {
				return err
			}
			for i := range item.Attachments {
				item.Attachments[i].ID = 0
				item.Attachments[i].ServiceItemID = item.ID
			}
			if len(item.Attachments) > 0 {
				if err := tx.Create(&item.Attachments).Error; err != nil {
					return err
				}
			}
		}

		if replaceAssignments {
			if err := tx.Where("service_item_id = ?", item.ID).Delete(&models.ItemAssignment{}).Error; err != nil {
				return err
			}
			for i := range item.Assignments {
				item.Assignments[i].ID = 0
				item.Assignments[i].ServiceItemID = item.ID
			}
			if len(item.Assignments) > 0 {
				if err := tx.Omit(clause.Associations).Create(&item.Assignments).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *GormServiceRepository) DeleteItem(itemID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deleteItemsTx(tx, []uint64{itemID})
	})
}
