package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/utils"
)

// Paginate applies pagination to a GORM query. A nil params leaves the
// query unbounded.
func Paginate(params *utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
