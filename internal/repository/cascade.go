package repository

import (
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/models"
)

// Cascade helpers run inside the caller's transaction. The store has no
// foreign-key cascades; these are the only deletes of dependent rows.

func deletePositionsTx(tx *gorm.DB, positionIDs []uint64) error {
	if len(positionIDs) == 0 {
		return nil
	}
	if err := tx.Where("position_id IN ?", positionIDs).Delete(&models.PersonPosition{}).Error; err != nil {
		return err
	}
	if err := tx.Where("position_id IN ?", positionIDs).Delete(&models.ItemAssignment{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", positionIDs).Delete(&models.Position{}).Error
}

func deleteItemsTx(tx *gorm.DB, itemIDs []uint64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if err := tx.Where("service_item_id IN ?", itemIDs).Delete(&models.ItemAttachment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("service_item_id IN ?", itemIDs).Delete(&models.ItemAssignment{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", itemIDs).Delete(&models.ServiceItem{}).Error
}

func deletePersonTx(tx *gorm.DB, personID uint64) error {
	if err := tx.Where("person_id = ?", personID).Delete(&models.TeamMember{}).Error; err != nil {
		return err
	}
	if err := tx.Where("person_id = ?", personID).Delete(&models.PersonPosition{}).Error; err != nil {
		return err
	}
	// Assignments keep their position slot; only the person is cleared.
	if err := tx.Model(&models.ItemAssignment{}).
		Where("person_id = ?", personID).
		Update("person_id", nil).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Person{}, personID).Error
}

func pluckIDs(tx *gorm.DB, model interface{}, column string, value interface{}) ([]uint64, error) {
	var ids []uint64
	err := tx.Model(model).Where(column+" = ?", value).Pluck("id", &ids).Error
	return ids, err
}
